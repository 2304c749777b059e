package physics

import (
	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// ForceMode selects how AddForce changes velocity.
type ForceMode int

const (
	// Force is applied over the next step, scaled by mass.
	Force ForceMode = iota
	// Acceleration is applied over the next step, ignoring mass.
	Acceleration
	// Impulse changes velocity immediately, scaled by mass.
	Impulse
	// VelocityChange changes velocity immediately, ignoring mass.
	VelocityChange
)

// Rigidbody puts its GameObject under simulation.
type Rigidbody struct {
	behaviour.BaseComponent
	Mass        float32
	Drag        float32
	Velocity    mgl32.Vec3
	UseGravity  bool
	isKinematic bool
	force       mgl32.Vec3
}

func NewRigidbody(mass float32) *Rigidbody {
	return &Rigidbody{Mass: mass, UseGravity: true}
}

func (rb *Rigidbody) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeRigidbody
}

func (rb *Rigidbody) GetTypeName() string {
	return "Rigidbody"
}

func (rb *Rigidbody) Position() mgl32.Vec3 {
	return rb.Transform().WorldPosition()
}

// SetPosition teleports the body in world space.
func (rb *Rigidbody) SetPosition(p mgl32.Vec3) {
	rb.Transform().SetWorldPosition(p)
}

func (rb *Rigidbody) Speed() float32 {
	return rb.Velocity.Len()
}

// EffectiveMass never returns less than a tiny positive mass.
func (rb *Rigidbody) EffectiveMass() float32 {
	if rb.Mass < epsilon {
		return epsilon
	}
	return rb.Mass
}

func (rb *Rigidbody) IsKinematic() bool {
	return rb.isKinematic
}

// SetKinematic suspends or resumes simulation. Suspending discards any
// velocity and pending force.
func (rb *Rigidbody) SetKinematic(kinematic bool) {
	if kinematic && !rb.isKinematic {
		rb.Velocity = mgl32.Vec3{}
		rb.force = mgl32.Vec3{}
	}
	rb.isKinematic = kinematic
}

// AddForce is ignored while kinematic.
func (rb *Rigidbody) AddForce(f mgl32.Vec3, mode ForceMode) {
	if rb.isKinematic {
		return
	}
	switch mode {
	case Force:
		rb.force = rb.force.Add(f)
	case Acceleration:
		rb.force = rb.force.Add(f.Mul(rb.EffectiveMass()))
	case Impulse:
		rb.Velocity = rb.Velocity.Add(f.Mul(1 / rb.EffectiveMass()))
	case VelocityChange:
		rb.Velocity = rb.Velocity.Add(f)
	}
}

// PendingForce is the force accumulated for the next step.
func (rb *Rigidbody) PendingForce() mgl32.Vec3 {
	return rb.force
}

// integrate advances a simulated body by dt.
func (rb *Rigidbody) integrate(gravity mgl32.Vec3, dt float32) {
	if rb.isKinematic {
		return
	}
	accel := rb.force.Mul(1 / rb.EffectiveMass())
	if rb.UseGravity {
		accel = accel.Add(gravity)
	}
	rb.Velocity = rb.Velocity.Add(accel.Mul(dt))
	if rb.Drag > 0 {
		rb.Velocity = rb.Velocity.Mul(1 / (1 + rb.Drag*dt))
	}
	rb.force = mgl32.Vec3{}
	rb.SetPosition(rb.Position().Add(rb.Velocity.Mul(dt)))
}
