package physics

import (
	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
)

// Step advances the simulation by dt: integrates dynamic bodies, separates
// solid contacts and dispatches collision and trigger events.
func (w *World) Step(dt float32) {
	for _, rb := range w.bodies {
		if rb.GetEnabled() && rb.GetGameObject().Active {
			rb.integrate(w.Gravity, dt)
		}
	}
	w.resolveContacts()
	w.updateTriggers()
}

type bodyState struct {
	body    *Rigidbody
	dynamic bool
}

func (w *World) stateOf(c Collider) bodyState {
	rb := attachedBody(c)
	return bodyState{body: rb, dynamic: rb != nil && !rb.IsKinematic() && rb.GetEnabled()}
}

func velocityOf(c Collider, s bodyState) mgl32.Vec3 {
	if s.body != nil {
		return s.body.Velocity
	}
	if cc, ok := c.(*CharacterController); ok {
		return cc.Velocity()
	}
	return mgl32.Vec3{}
}

// overlapColliders returns the separation normal pointing from b toward a.
func overlapColliders(a, b Collider) (mgl32.Vec3, float32, bool) {
	switch sa := a.(type) {
	case *SphereCollider:
		return b.overlapSphere(sa.WorldCenter(), sa.Radius)
	case *CharacterController:
		n, d, ok := sa.penetration(b)
		return n, d, ok
	case *BoxCollider:
		if sb, ok := b.(*BoxCollider); ok {
			return overlapBoxes(sa, sb)
		}
		n, d, ok := overlapColliders(b, a)
		return n.Mul(-1), d, ok
	}
	return mgl32.Vec3{}, 0, false
}

func overlapBoxes(a, b *BoxCollider) (mgl32.Vec3, float32, bool) {
	aMin, aMax := a.Bounds()
	bMin, bMax := b.Bounds()
	best := float32(-1)
	var normal mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		pos := bMax[axis] - aMin[axis] // push a toward +axis
		neg := aMax[axis] - bMin[axis] // push a toward -axis
		if pos <= 0 || neg <= 0 {
			return mgl32.Vec3{}, 0, false
		}
		if best < 0 || pos < best {
			best = pos
			normal = mgl32.Vec3{}
			normal[axis] = 1
		}
		if neg < best {
			best = neg
			normal = mgl32.Vec3{}
			normal[axis] = -1
		}
	}
	return normal, best, true
}

func (w *World) resolveContacts() {
	current := make(map[pairKey]struct{})

	for i, a := range w.colliders {
		if a.IsTrigger() || !colliderActive(a) {
			continue
		}
		sa := w.stateOf(a)
		for _, b := range w.colliders[i+1:] {
			if b.IsTrigger() || !colliderActive(b) {
				continue
			}
			sb := w.stateOf(b)
			if !sa.dynamic && !sb.dynamic {
				continue
			}
			if sa.body != nil && sa.body == sb.body {
				continue
			}
			if a.GetGameObject().Root() == b.GetGameObject().Root() {
				continue
			}

			normal, depth, ok := overlapColliders(a, b)
			if !ok {
				continue
			}

			key := pairKey{a, b}
			current[key] = struct{}{}
			va := velocityOf(a, sa)
			vb := velocityOf(b, sb)

			if _, seen := w.contacts[key]; !seen {
				point := b.closestPoint(a.GetGameObject().Transform.WorldPosition())
				a.GetGameObject().SendCollisionEnter(behaviour.Collision{
					Other:            b.GetGameObject(),
					Point:            point,
					Normal:           normal,
					RelativeVelocity: va.Sub(vb),
				})
				b.GetGameObject().SendCollisionEnter(behaviour.Collision{
					Other:            a.GetGameObject(),
					Point:            point,
					Normal:           normal.Mul(-1),
					RelativeVelocity: vb.Sub(va),
				})
			}

			w.separate(sa, sb, normal, depth)
		}
	}

	w.contacts = current
}

// separate pushes dynamic bodies apart along normal (from b to a) and removes
// the approaching part of their relative velocity.
func (w *World) separate(sa, sb bodyState, normal mgl32.Vec3, depth float32) {
	var invA, invB float32
	if sa.dynamic {
		invA = 1 / sa.body.EffectiveMass()
	}
	if sb.dynamic {
		invB = 1 / sb.body.EffectiveMass()
	}
	total := invA + invB
	if total == 0 {
		return
	}

	if sa.dynamic {
		sa.body.SetPosition(sa.body.Position().Add(normal.Mul(depth * invA / total)))
	}
	if sb.dynamic {
		sb.body.SetPosition(sb.body.Position().Sub(normal.Mul(depth * invB / total)))
	}

	var va, vb mgl32.Vec3
	if sa.body != nil {
		va = sa.body.Velocity
	}
	if sb.body != nil {
		vb = sb.body.Velocity
	}
	approach := va.Sub(vb).Dot(normal)
	if approach >= 0 {
		return
	}
	j := -(1 + w.Restitution) * approach / total
	if sa.dynamic {
		sa.body.Velocity = sa.body.Velocity.Add(normal.Mul(j * invA))
	}
	if sb.dynamic {
		sb.body.Velocity = sb.body.Velocity.Sub(normal.Mul(j * invB))
	}
}

func (w *World) updateTriggers() {
	current := make(map[pairKey]struct{})

	for _, trig := range w.colliders {
		if !trig.IsTrigger() || !colliderActive(trig) {
			continue
		}
		owner := trig.GetGameObject()
		for _, other := range w.colliders {
			if other == trig || other.IsTrigger() || !colliderActive(other) {
				continue
			}
			obj := other.GetGameObject()
			if obj.Root() == owner.Root() {
				continue
			}
			if _, _, ok := overlapColliders(trig, other); !ok {
				continue
			}
			key := pairKey{trig, other}
			current[key] = struct{}{}
			if _, seen := w.overlaps[key]; !seen {
				owner.SendTriggerEnter(obj)
				obj.SendTriggerEnter(owner)
			}
			owner.SendTriggerStay(obj)
			obj.SendTriggerStay(owner)
		}
	}

	for key := range w.overlaps {
		if _, still := current[key]; still {
			continue
		}
		owner := key.a.GetGameObject()
		obj := key.b.GetGameObject()
		owner.SendTriggerExit(obj)
		obj.SendTriggerExit(owner)
	}

	w.overlaps = current
}
