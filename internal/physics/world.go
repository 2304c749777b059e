package physics

import (
	"math"

	"Mistborn/internal/behaviour"
	"Mistborn/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// RaycastHit describes the first collider hit by a query.
type RaycastHit struct {
	Collider   Collider
	Rigidbody  *Rigidbody
	GameObject *behaviour.GameObject
	Point      mgl32.Vec3
	Normal     mgl32.Vec3
	Distance   float32
}

const normalProbe = 1e-3

// Infinity is the unbounded query distance.
var Infinity = float32(math.Inf(1))

// World owns the colliders and bodies of a level. All queries are synchronous
// and skip triggers, inactive objects and colliders containing the query origin.
type World struct {
	Gravity     mgl32.Vec3
	Restitution float32

	colliders   []Collider
	bodies      []*Rigidbody
	controllers []*CharacterController

	contacts map[pairKey]struct{}
	overlaps map[pairKey]struct{}
}

type pairKey struct {
	a, b Collider
}

func NewWorld(gravity mgl32.Vec3) *World {
	return &World{
		Gravity:  gravity,
		contacts: make(map[pairKey]struct{}),
		overlaps: make(map[pairKey]struct{}),
	}
}

// Register adds the colliders, bodies and controllers of obj and of all its
// descendants.
func (w *World) Register(obj *behaviour.GameObject) {
	for _, comp := range obj.Components {
		switch c := comp.(type) {
		case *CharacterController:
			c.world = w
			w.controllers = append(w.controllers, c)
			w.colliders = append(w.colliders, c)
		case Collider:
			w.colliders = append(w.colliders, c)
		case *Rigidbody:
			w.bodies = append(w.bodies, c)
		}
	}
	for _, child := range obj.Transform.Children {
		if co := child.GetGameObject(); co != nil {
			w.Register(co)
		}
	}
	logger.Log.Debug("physics: registered object",
		zap.String("name", obj.Name),
		zap.Int("colliders", len(w.colliders)),
		zap.Int("bodies", len(w.bodies)))
}

// Unregister removes everything Register added for obj.
func (w *World) Unregister(obj *behaviour.GameObject) {
	owned := func(c behaviour.Component) bool {
		o := c.GetGameObject()
		return o == obj || (o != nil && isDescendant(o, obj))
	}

	colliders := w.colliders[:0]
	for _, c := range w.colliders {
		if !owned(c) {
			colliders = append(colliders, c)
		}
	}
	w.colliders = colliders

	bodies := w.bodies[:0]
	for _, b := range w.bodies {
		if !owned(b) {
			bodies = append(bodies, b)
		}
	}
	w.bodies = bodies

	controllers := w.controllers[:0]
	for _, c := range w.controllers {
		if !owned(c) {
			controllers = append(controllers, c)
		} else {
			c.world = nil
		}
	}
	w.controllers = controllers

	for k := range w.contacts {
		if owned(k.a) || owned(k.b) {
			delete(w.contacts, k)
		}
	}
	for k := range w.overlaps {
		if owned(k.a) || owned(k.b) {
			delete(w.overlaps, k)
		}
	}
}

// Clear forgets every registered object.
func (w *World) Clear() {
	for _, c := range w.controllers {
		c.world = nil
	}
	w.colliders = nil
	w.bodies = nil
	w.controllers = nil
	w.contacts = make(map[pairKey]struct{})
	w.overlaps = make(map[pairKey]struct{})
}

func isDescendant(obj, ancestor *behaviour.GameObject) bool {
	for t := obj.Transform.Parent; t != nil; t = t.Parent {
		if t.GetGameObject() == ancestor {
			return true
		}
	}
	return false
}

func colliderActive(c Collider) bool {
	obj := c.GetGameObject()
	if obj == nil || !obj.Active || !c.GetEnabled() {
		return false
	}
	for t := obj.Transform.Parent; t != nil; t = t.Parent {
		if p := t.GetGameObject(); p != nil && !p.Active {
			return false
		}
	}
	return true
}

func (w *World) queryable(c Collider, mask LayerMask) bool {
	return !c.IsTrigger() && colliderActive(c) && mask.Contains(c.GetGameObject().Layer)
}

// Raycast returns the nearest collider hit along direction within maxDistance.
func (w *World) Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask LayerMask) (RaycastHit, bool) {
	return w.SphereCast(origin, 0, direction, maxDistance, mask)
}

// SphereCast sweeps a sphere of radius along direction. Distance in the hit is
// the travel of the sphere centre.
func (w *World) SphereCast(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, mask LayerMask) (RaycastHit, bool) {
	if direction.Len() < epsilon || maxDistance < 0 {
		return RaycastHit{}, false
	}
	ray := Ray{Origin: origin, Direction: direction.Normalize()}

	var best RaycastHit
	found := false
	for _, c := range w.colliders {
		if !w.queryable(c, mask) {
			continue
		}
		if _, _, inside := c.overlapSphere(origin, radius); inside {
			continue
		}
		t, ok := c.castRay(ray, radius)
		if !ok || t > maxDistance {
			continue
		}
		if found && t >= best.Distance {
			continue
		}
		center := ray.At(t)
		point := c.closestPoint(center)
		// back off slightly so the probe sits outside the shape
		probe := ray.At(t - normalProbe)
		best = RaycastHit{
			Collider:   c,
			Rigidbody:  attachedBody(c),
			GameObject: c.GetGameObject(),
			Point:      point,
			Normal:     safeNormalize(probe.Sub(c.closestPoint(probe))),
			Distance:   t,
		}
		found = true
	}
	return best, found
}

// CheckSphere reports whether any solid collider overlaps the sphere.
func (w *World) CheckSphere(center mgl32.Vec3, radius float32, mask LayerMask) bool {
	for _, c := range w.colliders {
		if !w.queryable(c, mask) {
			continue
		}
		if _, _, ok := c.overlapSphere(center, radius); ok {
			return true
		}
	}
	return false
}

// OverlapSphere returns every solid collider overlapping the sphere.
func (w *World) OverlapSphere(center mgl32.Vec3, radius float32, mask LayerMask) []Collider {
	var result []Collider
	for _, c := range w.colliders {
		if !w.queryable(c, mask) {
			continue
		}
		if _, _, ok := c.overlapSphere(center, radius); ok {
			result = append(result, c)
		}
	}
	return result
}
