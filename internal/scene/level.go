package scene

import (
	"fmt"

	"Mistborn/internal/animator"
	"Mistborn/internal/behaviour"
	"Mistborn/internal/config"
	"Mistborn/internal/input"
	"Mistborn/internal/logger"
	"Mistborn/internal/navigation"
	"Mistborn/internal/physics"
	"Mistborn/scripts"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Player rig dimensions.
const (
	playerRadius     = 0.5
	playerHeight     = 2
	cameraHeight     = 0.6
	pullAnchorOffset = 2
	enemyBodyRadius  = 0.5
	metalBodyRadius  = 0.25
)

var playerActions = []string{
	input.ActionMove,
	input.ActionLook,
	input.ActionJump,
	input.ActionPull,
	input.ActionPush,
}

// Level is a running instance of a LevelSpec. It owns the objects, the
// physics world and the navigation grid, and rebuilds them on restart.
type Level struct {
	Spec    *LevelSpec
	Tuning  config.Tuning
	Manager *behaviour.ComponentManager
	World   *physics.World
	Grid    *navigation.Grid
	Actions *input.ActionMap

	player  *behaviour.GameObject
	control *scripts.PlayerController
	enemies []*scripts.BasicEnemy

	restartPending bool
	restarts       int
	ticks          int
}

// NewLevel builds spec. actions may be nil for headless runs without input.
func NewLevel(spec *LevelSpec, tuning config.Tuning, actions *input.ActionMap) (*Level, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	l := &Level{
		Spec:    spec,
		Tuning:  tuning,
		Manager: behaviour.NewComponentManager(),
		World:   physics.NewWorld(tuning.GravityVector()),
		Actions: actions,
	}
	if err := l.build(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Level) Player() *behaviour.GameObject {
	return l.player
}

func (l *Level) PlayerController() *scripts.PlayerController {
	return l.control
}

func (l *Level) Enemies() []*scripts.BasicEnemy {
	return l.enemies
}

func (l *Level) Find(name string) *behaviour.GameObject {
	return l.Manager.FindGameObject(name)
}

func (l *Level) Restarts() int {
	return l.restarts
}

func (l *Level) Ticks() int {
	return l.ticks
}

// RestartLevel schedules a rebuild at the start of the next Step, so it is
// safe to call from inside a component callback.
func (l *Level) RestartLevel() {
	l.restartPending = true
}

// SetTuning applies t by restarting the level.
func (l *Level) SetTuning(t config.Tuning) {
	l.Tuning = t
	l.RestartLevel()
}

// Step runs one fixed tick: scripts, then physics, then fixed updates.
func (l *Level) Step(dt float32) {
	if l.restartPending {
		l.restartPending = false
		l.restarts++
		logger.Log.Info("Restarting level", zap.String("level", l.Spec.Name), zap.Int("restarts", l.restarts))
		l.teardown()
		if err := l.build(); err != nil {
			logger.Log.Error("Level rebuild failed", zap.Error(err))
			return
		}
	}
	l.ticks++
	l.Manager.UpdateAll(dt)
	l.World.Step(dt)
	l.Manager.FixedUpdateAll(dt)
}

func (l *Level) teardown() {
	if l.Actions != nil {
		for _, a := range playerActions {
			l.Actions.Unbind(a)
		}
	}
	l.Manager.Clear()
	l.World.Clear()
	l.World.Gravity = l.Tuning.GravityVector()
	l.World.Restitution = l.Tuning.Physics.Restitution
	l.player, l.control, l.enemies, l.Grid = nil, nil, nil, nil
}

// build instantiates the spec. Static objects and triggerables come first so
// the player, enemies and targets can be wired to them.
func (l *Level) build() error {
	l.World.Restitution = l.Tuning.Physics.Restitution
	l.Grid = l.buildGrid()

	triggerables := make(map[string]scripts.Triggerable)
	var roots []*behaviour.GameObject

	for _, o := range l.Spec.Objects {
		var obj *behaviour.GameObject
		switch o.Kind {
		case KindGround:
			obj = l.staticBox(o, physics.LayerGround)
		case KindMetalPlate:
			obj = l.staticBox(o, physics.LayerMetal)
			obj.Tag = "Metal"
		case KindDanger:
			obj = l.staticBox(o, physics.LayerDanger)
			obj.Tag = scripts.DangerTag
		case KindMetalBody:
			obj = l.metalBody(o)
		case KindTriggerable:
			var trig scripts.Triggerable
			var err error
			obj, trig, err = l.triggerable(o)
			if err != nil {
				return err
			}
			triggerables[o.Name] = trig
		default:
			continue
		}
		roots = append(roots, obj)
	}

	for _, o := range l.Spec.Objects {
		if o.Kind == KindPlayer {
			l.player = l.buildPlayer(o)
			roots = append(roots, l.player)
		}
	}

	for _, o := range l.Spec.Objects {
		switch o.Kind {
		case KindEnemy:
			roots = append(roots, l.buildEnemy(o))
		case KindTarget:
			roots = append(roots, l.buildTarget(o, triggerables[o.Triggers]))
		}
	}

	for _, obj := range roots {
		l.World.Register(obj)
		l.Manager.RegisterGameObject(obj)
		if ce := logger.Log.Check(zap.DebugLevel, "Spawned"); ce != nil {
			names := make([]string, 0, len(obj.Components))
			for _, c := range obj.Components {
				names = append(names, behaviour.GetComponentTypeName(c))
			}
			ce.Write(zap.String("object", obj.Name), zap.Strings("components", names))
		}
	}

	logger.Log.Info("Level loaded",
		zap.String("level", l.Spec.Name),
		zap.Int("objects", len(roots)),
		zap.Int("enemies", len(l.enemies)))
	return nil
}

func eulerDegrees(v Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(mgl32.DegToRad(v[1]), mgl32.DegToRad(v[0]), mgl32.DegToRad(v[2]), mgl32.YXZ)
}

func newObject(o ObjectSpec, layer int) *behaviour.GameObject {
	obj := behaviour.NewGameObject(o.Name)
	obj.Layer = layer
	obj.Transform.SetPosition(o.Position.Vec())
	obj.Transform.SetRotation(eulerDegrees(o.Rotation))
	return obj
}

func boxSize(o ObjectSpec) mgl32.Vec3 {
	size := o.Size.Vec()
	if size == (mgl32.Vec3{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return size
}

func (l *Level) staticBox(o ObjectSpec, layer int) *behaviour.GameObject {
	obj := newObject(o, layer)
	obj.AddComponent(physics.NewBoxCollider(boxSize(o)))
	return obj
}

func (l *Level) metalBody(o ObjectSpec) *behaviour.GameObject {
	obj := newObject(o, physics.LayerMetal)
	obj.Tag = "Metal"
	radius := o.Radius
	if radius == 0 {
		radius = metalBodyRadius
	}
	mass := o.Mass
	if mass == 0 {
		mass = 1
	}
	obj.AddComponent(physics.NewSphereCollider(radius))
	obj.AddComponent(physics.NewRigidbody(mass))
	return obj
}

func (l *Level) triggerable(o ObjectSpec) (*behaviour.GameObject, scripts.Triggerable, error) {
	obj := newObject(o, physics.LayerDefault)
	obj.AddComponent(physics.NewBoxCollider(boxSize(o)))

	script := behaviour.CreateScript(o.Script)
	if script == nil {
		return nil, nil, fmt.Errorf("scene: object %s: script %q is not registered", o.Name, o.Script)
	}
	obj.AddComponent(behaviour.NewScriptComponent(o.Script, script))

	trig, ok := behaviour.GetComponent[scripts.Triggerable](obj)
	if !ok {
		return nil, nil, fmt.Errorf("scene: object %s: script %q cannot be triggered", o.Name, o.Script)
	}
	return obj, trig, nil
}

func (l *Level) buildPlayer(o ObjectSpec) *behaviour.GameObject {
	obj := newObject(o, physics.LayerPlayer)
	obj.Tag = "Player"
	cc := physics.NewCharacterController(playerRadius, playerHeight)
	obj.AddComponent(cc)

	pos := obj.Transform.WorldPosition()
	camera := behaviour.NewGameObject(o.Name + " camera")
	camera.Transform.SetPosition(pos.Add(mgl32.Vec3{0, cameraHeight, 0}))
	camera.Transform.SetRotation(obj.Transform.Rotation)
	camera.Transform.SetParent(obj.Transform)

	anchor := behaviour.NewGameObject(o.Name + " pull anchor")
	anchor.Transform.SetPosition(camera.Transform.WorldPosition().Add(camera.Transform.Forward().Mul(pullAnchorOffset)))
	anchor.Transform.SetParent(camera.Transform)

	feet := behaviour.NewGameObject(o.Name + " ground check")
	feet.Transform.SetPosition(pos.Sub(mgl32.Vec3{0, playerHeight / 2, 0}))
	feet.Transform.SetParent(obj.Transform)

	l.control = scripts.NewPlayerController(scripts.PlayerRig{
		Mover:       cc,
		Camera:      camera.Transform,
		PullAnchor:  anchor.Transform,
		GroundCheck: feet.Transform,
		Query:       l.World,
		Restarter:   l,
		GroundMask:  physics.MaskOf(physics.LayerGround, physics.LayerMetal),
		MetalMask:   physics.MaskOf(physics.LayerMetal),
	}, l.Tuning)
	obj.AddComponent(l.control)
	if l.Actions != nil {
		l.control.BindInput(l.Actions)
	}
	return obj
}

func (l *Level) buildEnemy(o ObjectSpec) *behaviour.GameObject {
	t := l.Tuning.Enemy
	obj := newObject(o, physics.LayerEnemy)
	obj.Tag = "Enemy"

	radius := o.Radius
	if radius == 0 {
		radius = t.PerceptionRadius
	}
	obj.AddComponent(physics.NewSphereCollider(enemyBodyRadius))
	sense := physics.NewSphereCollider(radius)
	sense.Trigger = true
	obj.AddComponent(sense)

	agent := navigation.NewAgent(l.Grid, t.Speed)
	agent.StoppingDistance = t.StoppingDistance
	agent.PlanningTicks = l.Tuning.Navigation.PlanningTicks

	enemy := scripts.NewBasicEnemy(agent, l.World, l.player, radius)
	enemy.FieldOfView = t.FOV
	for _, p := range o.Patrol {
		enemy.PatrolPoints = append(enemy.PatrolPoints, p.Vec())
	}
	wander := o.WanderRadius
	if wander == 0 {
		wander = t.WanderRadius
	}
	if wander > 0 {
		enemy.Wanderer = navigation.NewWanderer(obj.Transform.Position, wander, t.WanderSeed+int64(len(l.enemies)))
	}

	anim := animator.NewAnimator(scripts.StatePatrol.String())
	anim.AddState(scripts.StatePatrol.String(), scripts.NewPatrolBehaviour(agent))
	anim.AddState(scripts.StateFollow.String())

	// the enemy decides before the agent moves so a request made this tick
	// can resolve this tick
	obj.AddComponent(enemy)
	obj.AddComponent(agent)
	obj.AddComponent(anim)

	l.enemies = append(l.enemies, enemy)
	return obj
}

func (l *Level) buildTarget(o ObjectSpec, result scripts.Triggerable) *behaviour.GameObject {
	obj := newObject(o, physics.LayerDefault)
	obj.Tag = "Target"
	obj.AddComponent(physics.NewBoxCollider(boxSize(o)))
	obj.AddComponent(scripts.NewTarget(result, l.Tuning.Target.MinimumVelocity))
	return obj
}

// buildGrid lays out the navigation grid and blocks the footprint of every
// object marked blocks_navigation.
func (l *Level) buildGrid() *navigation.Grid {
	n := l.Spec.Navigation
	if n == nil {
		return nil
	}
	g := navigation.NewGrid(n.Origin.Vec(), n.CellSize, n.Width, n.Depth)
	if l.Tuning.Navigation.MaxNodes > 0 {
		g.MaxNodes = l.Tuning.Navigation.MaxNodes
	}
	for _, c := range n.Blocked {
		g.SetBlocked(navigation.Cell{X: c[0], Z: c[1]}, true)
	}

	for _, o := range l.Spec.Objects {
		if !o.BlocksNavigation {
			continue
		}
		half := boxSize(o).Mul(0.5)
		min := o.Position.Vec().Sub(half)
		max := o.Position.Vec().Add(half)
		lo := g.CellAt(min)
		hi := g.CellAt(max)
		for x := lo.X; x <= hi.X; x++ {
			for z := lo.Z; z <= hi.Z; z++ {
				c := navigation.Cell{X: x, Z: z}
				center := g.CellCenter(c, 0)
				if center.X() >= min.X() && center.X() <= max.X() && center.Z() >= min.Z() && center.Z() <= max.Z() {
					g.SetBlocked(c, true)
				}
			}
		}
	}
	return g
}

// Snapshot summarizes the level for logging.
type Snapshot struct {
	Tick     int
	Player   mgl32.Vec3
	Grab     string
	Grounded bool
	Enemies  []string
}

func (l *Level) Snapshot() Snapshot {
	s := Snapshot{Tick: l.ticks}
	if l.player != nil {
		s.Player = l.player.Transform.WorldPosition()
	}
	if l.control != nil {
		s.Grab = l.control.GrabState().String()
		s.Grounded = l.control.Grounded()
	}
	for _, e := range l.enemies {
		s.Enemies = append(s.Enemies, e.State().String())
	}
	return s
}

func (s Snapshot) String() string {
	return fmt.Sprintf("tick=%d player=(%.2f, %.2f, %.2f) grab=%s grounded=%t enemies=%v",
		s.Tick, s.Player.X(), s.Player.Y(), s.Player.Z(), s.Grab, s.Grounded, s.Enemies)
}
