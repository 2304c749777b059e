package behaviour

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform holds an object's local pose. Position and Rotation are relative
// to Parent when one is set. Scale is not propagated to children.
type Transform struct {
	BaseComponent
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Parent   *Transform
	Children []*Transform
}

// Transform methods
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Rotate applies a rotation of angle radians about a local axis.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	rotation := mgl32.QuatRotate(angle, axis)
	t.Rotation = t.Rotation.Mul(rotation).Normalize()
}

func (t *Transform) SetPosition(pos mgl32.Vec3) {
	t.Position = pos
}

func (t *Transform) SetRotation(rot mgl32.Quat) {
	t.Rotation = rot
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
}

// WorldPosition composes the parent chain.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	if t.Parent == nil {
		return t.Position
	}
	return t.Parent.WorldPosition().Add(t.Parent.WorldRotation().Rotate(t.Position))
}

func (t *Transform) WorldRotation() mgl32.Quat {
	if t.Parent == nil {
		return t.Rotation
	}
	return t.Parent.WorldRotation().Mul(t.Rotation)
}

// SetWorldPosition moves t so that its world position equals pos.
func (t *Transform) SetWorldPosition(pos mgl32.Vec3) {
	if t.Parent == nil {
		t.Position = pos
		return
	}
	local := pos.Sub(t.Parent.WorldPosition())
	t.Position = t.Parent.WorldRotation().Inverse().Rotate(local)
}

func (t *Transform) SetWorldRotation(rot mgl32.Quat) {
	if t.Parent == nil {
		t.Rotation = rot
		return
	}
	t.Rotation = t.Parent.WorldRotation().Inverse().Mul(rot)
}

// SetParent re-parents t while keeping its world pose. A nil parent detaches.
func (t *Transform) SetParent(parent *Transform) {
	if t.Parent == parent || parent == t {
		return
	}
	pos := t.WorldPosition()
	rot := t.WorldRotation()

	if t.Parent != nil {
		t.Parent.removeChild(t)
	}
	t.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, t)
	}

	t.SetWorldPosition(pos)
	t.SetWorldRotation(rot)
}

func (t *Transform) removeChild(child *Transform) {
	for i, c := range t.Children {
		if c == child {
			t.Children = append(t.Children[:i], t.Children[i+1:]...)
			return
		}
	}
}

// Forward is the world space -Z axis of t.
func (t *Transform) Forward() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *Transform) Up() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{0, 1, 0})
}

func (t *Transform) Right() mgl32.Vec3 {
	return t.WorldRotation().Rotate(mgl32.Vec3{1, 0, 0})
}

// LookRotation returns a rotation whose Forward points along dir with no roll.
// A zero dir yields the identity.
func LookRotation(dir mgl32.Vec3) mgl32.Quat {
	length := dir.Len()
	if length < 1e-6 {
		return mgl32.QuatIdent()
	}
	d := dir.Mul(1 / length)
	yaw := float32(math.Atan2(float64(-d.X()), float64(-d.Z())))
	pitch := float32(math.Asin(float64(mgl32.Clamp(d.Y(), -1, 1))))
	qYaw := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	qPitch := mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})
	return qYaw.Mul(qPitch)
}

// MoveTowards moves current toward target by at most maxDelta.
func MoveTowards(current, target mgl32.Vec3, maxDelta float32) mgl32.Vec3 {
	diff := target.Sub(current)
	dist := diff.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(diff.Mul(maxDelta / dist))
}

// Angle returns the unsigned angle in degrees between a and b. Degenerate
// vectors yield 0.
func Angle(a, b mgl32.Vec3) float32 {
	denom := a.Len() * b.Len()
	if denom < 1e-15 {
		return 0
	}
	cos := mgl32.Clamp(a.Dot(b)/denom, -1, 1)
	return mgl32.RadToDeg(float32(math.Acos(float64(cos))))
}
