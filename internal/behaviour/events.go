package behaviour

import "github.com/go-gl/mathgl/mgl32"

// Collision describes a contact between two solid colliders.
type Collision struct {
	Other            *GameObject
	Point            mgl32.Vec3
	Normal           mgl32.Vec3
	RelativeVelocity mgl32.Vec3
}

// ControllerHit is reported when a character controller move touches a collider.
type ControllerHit struct {
	Other     *GameObject
	Point     mgl32.Vec3
	Normal    mgl32.Vec3
	MoveDelta mgl32.Vec3
}

// Components opt into physics callbacks by implementing these.
type CollisionEnterListener interface {
	OnCollisionEnter(Collision)
}

type TriggerEnterListener interface {
	OnTriggerEnter(other *GameObject)
}

type TriggerStayListener interface {
	OnTriggerStay(other *GameObject)
}

type TriggerExitListener interface {
	OnTriggerExit(other *GameObject)
}

type ControllerHitListener interface {
	OnControllerColliderHit(ControllerHit)
}

// each calls fn for every enabled component of an active object.
func (obj *GameObject) each(fn func(Component)) {
	if obj == nil || !obj.Active {
		return
	}
	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			fn(Unwrap(comp))
		}
	}
}

func (obj *GameObject) SendCollisionEnter(c Collision) {
	obj.each(func(comp Component) {
		if l, ok := comp.(CollisionEnterListener); ok {
			l.OnCollisionEnter(c)
		}
	})
}

func (obj *GameObject) SendTriggerEnter(other *GameObject) {
	obj.each(func(comp Component) {
		if l, ok := comp.(TriggerEnterListener); ok {
			l.OnTriggerEnter(other)
		}
	})
}

func (obj *GameObject) SendTriggerStay(other *GameObject) {
	obj.each(func(comp Component) {
		if l, ok := comp.(TriggerStayListener); ok {
			l.OnTriggerStay(other)
		}
	})
}

func (obj *GameObject) SendTriggerExit(other *GameObject) {
	obj.each(func(comp Component) {
		if l, ok := comp.(TriggerExitListener); ok {
			l.OnTriggerExit(other)
		}
	})
}

func (obj *GameObject) SendControllerHit(hit ControllerHit) {
	obj.each(func(comp Component) {
		if l, ok := comp.(ControllerHitListener); ok {
			l.OnControllerColliderHit(hit)
		}
	})
}
