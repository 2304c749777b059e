package physics

import (
	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// Collider is a shape registered with a World.
type Collider interface {
	behaviour.TypedComponent
	IsTrigger() bool

	// castRay returns the entry distance of ray into the shape grown by inflate.
	castRay(ray Ray, inflate float32) (float32, bool)
	// closestPoint returns the point on or in the shape nearest to p.
	closestPoint(p mgl32.Vec3) mgl32.Vec3
	// overlapSphere reports penetration of a sphere into the shape. normal
	// points from the shape toward the sphere.
	overlapSphere(center mgl32.Vec3, radius float32) (normal mgl32.Vec3, depth float32, ok bool)
}

// SphereCollider is a sphere centred on the transform plus Center.
type SphereCollider struct {
	behaviour.BaseComponent
	Radius  float32
	Center  mgl32.Vec3
	Trigger bool
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{Radius: radius}
}

func (s *SphereCollider) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeCollider
}

func (s *SphereCollider) GetTypeName() string {
	return "SphereCollider"
}

func (s *SphereCollider) IsTrigger() bool {
	return s.Trigger
}

// WorldCenter returns the centre of the sphere in world space.
func (s *SphereCollider) WorldCenter() mgl32.Vec3 {
	t := s.Transform()
	return t.WorldPosition().Add(t.WorldRotation().Rotate(s.Center))
}

func (s *SphereCollider) castRay(ray Ray, inflate float32) (float32, bool) {
	return raySphere(ray, s.WorldCenter(), s.Radius+inflate)
}

func (s *SphereCollider) closestPoint(p mgl32.Vec3) mgl32.Vec3 {
	c := s.WorldCenter()
	d := p.Sub(c)
	if d.Len() <= s.Radius {
		return p
	}
	return c.Add(safeNormalize(d).Mul(s.Radius))
}

func (s *SphereCollider) overlapSphere(center mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	d := center.Sub(s.WorldCenter())
	dist := d.Len()
	depth := s.Radius + radius - dist
	if depth <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	return safeNormalize(d), depth, true
}

// BoxCollider is an axis aligned box. Rotation of the transform is ignored.
type BoxCollider struct {
	behaviour.BaseComponent
	Size    mgl32.Vec3
	Center  mgl32.Vec3
	Trigger bool
}

func NewBoxCollider(size mgl32.Vec3) *BoxCollider {
	return &BoxCollider{Size: size}
}

func (b *BoxCollider) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeCollider
}

func (b *BoxCollider) GetTypeName() string {
	return "BoxCollider"
}

func (b *BoxCollider) IsTrigger() bool {
	return b.Trigger
}

// Bounds returns the world space min and max corners.
func (b *BoxCollider) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	c := b.Transform().WorldPosition().Add(b.Center)
	half := b.Size.Mul(0.5)
	return c.Sub(half), c.Add(half)
}

func (b *BoxCollider) castRay(ray Ray, inflate float32) (float32, bool) {
	min, max := b.Bounds()
	grow := mgl32.Vec3{inflate, inflate, inflate}
	t, _, ok := rayAABB(ray, min.Sub(grow), max.Add(grow))
	return t, ok
}

func (b *BoxCollider) closestPoint(p mgl32.Vec3) mgl32.Vec3 {
	min, max := b.Bounds()
	return clampToBox(p, min, max)
}

func (b *BoxCollider) overlapSphere(center mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	min, max := b.Bounds()
	q := clampToBox(center, min, max)
	d := center.Sub(q)
	dist := d.Len()
	if dist > epsilon {
		if dist >= radius {
			return mgl32.Vec3{}, 0, false
		}
		return d.Mul(1 / dist), radius - dist, true
	}

	// centre inside the box: push out through the nearest face
	best := float32(-1)
	var normal mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		toMin := center[axis] - min[axis]
		toMax := max[axis] - center[axis]
		if best < 0 || toMin < best {
			best = toMin
			normal = mgl32.Vec3{}
			normal[axis] = -1
		}
		if toMax < best {
			best = toMax
			normal = mgl32.Vec3{}
			normal[axis] = 1
		}
	}
	return normal, best + radius, true
}

// attachedBody finds the rigidbody driving c, if any.
func attachedBody(c Collider) *Rigidbody {
	rb, _ := behaviour.GetComponentInParent[*Rigidbody](c.GetGameObject())
	return rb
}
