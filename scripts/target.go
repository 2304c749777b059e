package scripts

import (
	"Mistborn/internal/behaviour"
	"Mistborn/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Target sets off its Triggerable when struck hard enough.
type Target struct {
	behaviour.BaseComponent
	// MinimumVelocity is the relative speed an impact must exceed.
	MinimumVelocity float32
	Result          Triggerable
}

func NewTarget(result Triggerable, minimumVelocity float32) *Target {
	return &Target{Result: result, MinimumVelocity: minimumVelocity}
}

func (t *Target) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeScript
}

func (t *Target) GetTypeName() string {
	return "Target"
}

func (t *Target) OnCollisionEnter(c behaviour.Collision) {
	speed := c.RelativeVelocity.Len()
	if speed <= t.MinimumVelocity {
		return
	}
	if t.Result == nil {
		logger.Log.Warn("Target hit with nothing to trigger", zap.String("object", t.GetGameObject().Name))
		return
	}
	logger.Log.Debug("Target triggered", zap.String("object", t.GetGameObject().Name), zap.Float32("speed", speed))
	t.Result.Triggered()
}

// Bridge swings down a quarter turn about its local X axis each time it is
// triggered.
type Bridge struct {
	behaviour.BaseComponent
}

func init() {
	behaviour.RegisterScript("Bridge", func() behaviour.Component {
		return &Bridge{}
	})
	behaviour.RegisterScript("Door", func() behaviour.Component {
		return &Door{Offset: mgl32.Vec3{0, 4, 0}, Speed: 2}
	})
}

func (b *Bridge) Triggered() {
	obj := b.GetGameObject()
	if obj == nil {
		return
	}
	obj.Transform.Rotate(mgl32.Vec3{1, 0, 0}, mgl32.DegToRad(90))
}

// Door slides by Offset when triggered and back when triggered again.
type Door struct {
	behaviour.BaseComponent
	Offset mgl32.Vec3
	Speed  float32

	closed mgl32.Vec3
	open   bool
}

func (d *Door) Start() {
	d.closed = d.GetGameObject().Transform.Position
}

func (d *Door) Triggered() {
	d.open = !d.open
}

func (d *Door) IsOpen() bool {
	return d.open
}

func (d *Door) Update(dt float32) {
	goal := d.closed
	if d.open {
		goal = goal.Add(d.Offset)
	}
	t := d.GetGameObject().Transform
	t.SetPosition(behaviour.MoveTowards(t.Position, goal, d.Speed*dt))
}
