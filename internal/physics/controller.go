package physics

import (
	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// maxSlopeNormalY is the smallest normal Y treated as standing ground.
const maxSlopeNormalY = 0.7

// CharacterController is a vertical capsule moved explicitly via Move. It
// collides with solid colliders but is not pushed by the solver.
type CharacterController struct {
	behaviour.BaseComponent
	Radius float32
	Height float32
	Center mgl32.Vec3
	// Mask limits which layers block movement.
	Mask LayerMask

	world     *World
	grounded  bool
	velocity  mgl32.Vec3
	lastDelta mgl32.Vec3
}

func NewCharacterController(radius, height float32) *CharacterController {
	return &CharacterController{Radius: radius, Height: height, Mask: AllLayers}
}

func (c *CharacterController) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeController
}

func (c *CharacterController) GetTypeName() string {
	return "CharacterController"
}

func (c *CharacterController) IsTrigger() bool {
	return false
}

// IsGrounded reports whether the last Move ended on a walkable surface.
func (c *CharacterController) IsGrounded() bool {
	return c.grounded
}

// Velocity is the displacement of the last frame's moves divided by dt, as
// accumulated through FixedUpdate.
func (c *CharacterController) Velocity() mgl32.Vec3 {
	return c.velocity
}

func (c *CharacterController) Update(dt float32) {
	if dt > 0 {
		c.velocity = c.lastDelta.Mul(1 / dt)
	}
	c.lastDelta = mgl32.Vec3{}
}

// segment returns the capsule's inner segment in world space.
func (c *CharacterController) segment() (mgl32.Vec3, mgl32.Vec3) {
	center := c.Transform().WorldPosition().Add(c.Center)
	half := c.Height*0.5 - c.Radius
	if half < 0 {
		half = 0
	}
	up := mgl32.Vec3{0, half, 0}
	return center.Sub(up), center.Add(up)
}

func (c *CharacterController) castRay(ray Ray, inflate float32) (float32, bool) {
	a, b := c.segment()
	return rayCapsule(ray, a, b, c.Radius+inflate)
}

func (c *CharacterController) closestPoint(p mgl32.Vec3) mgl32.Vec3 {
	a, b := c.segment()
	s := closestPointOnSegment(p, a, b)
	d := p.Sub(s)
	if d.Len() <= c.Radius {
		return p
	}
	return s.Add(safeNormalize(d).Mul(c.Radius))
}

func (c *CharacterController) overlapSphere(center mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	a, b := c.segment()
	s := closestPointOnSegment(center, a, b)
	d := center.Sub(s)
	depth := c.Radius + radius - d.Len()
	if depth <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	return safeNormalize(d), depth, true
}

// Move displaces the controller by delta and slides it out of any solid
// collider it ends up in. Hits are reported to the owning object.
func (c *CharacterController) Move(delta mgl32.Vec3) {
	t := c.Transform()
	if t == nil {
		return
	}
	t.SetWorldPosition(t.WorldPosition().Add(delta))
	c.lastDelta = c.lastDelta.Add(delta)
	if c.world == nil {
		return
	}

	c.grounded = false
	root := c.GetGameObject().Root()
	for _, other := range c.world.colliders {
		if other == Collider(c) || other.IsTrigger() || !colliderActive(other) {
			continue
		}
		obj := other.GetGameObject()
		if obj.Root() == root || !c.Mask.Contains(obj.Layer) {
			continue
		}
		normal, depth, ok := c.penetration(other)
		if !ok {
			continue
		}
		t.SetWorldPosition(t.WorldPosition().Add(normal.Mul(depth)))
		if normal.Y() > maxSlopeNormalY {
			c.grounded = true
		}
		a, _ := c.segment()
		c.GetGameObject().SendControllerHit(behaviour.ControllerHit{
			Other:     obj,
			Point:     other.closestPoint(a),
			Normal:    normal,
			MoveDelta: delta,
		})
	}
}

// penetration returns the push out of other for the capsule.
func (c *CharacterController) penetration(other Collider) (mgl32.Vec3, float32, bool) {
	a, b := c.segment()
	// two refinement passes find the capsule point nearest to other
	p := closestPointOnSegment(other.closestPoint(a.Add(b).Mul(0.5)), a, b)
	p = closestPointOnSegment(other.closestPoint(p), a, b)
	return other.overlapSphere(p, c.Radius)
}
