package behaviour

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Component is the base interface for everything attached to a GameObject.
type Component interface {
	// Lifecycle methods
	Awake()                 // Called when the component is added
	Start()                 // Called before the first Update
	Update(dt float32)      // Called every frame
	FixedUpdate(dt float32) // Called once per fixed physics step
	OnDestroy()             // Called when the component or its object is destroyed

	// Component info
	GetEnabled() bool
	SetEnabled(bool)
	GetGameObject() *GameObject
	SetGameObject(*GameObject)
}

// BaseComponent provides default implementations for all Component methods.
// Scripts embed it and override only what they need.
type BaseComponent struct {
	enabled    bool
	gameObject *GameObject
}

func (c *BaseComponent) Awake()                 {}
func (c *BaseComponent) Start()                 {}
func (c *BaseComponent) Update(dt float32)      {}
func (c *BaseComponent) FixedUpdate(dt float32) {}
func (c *BaseComponent) OnDestroy()             {}

func (c *BaseComponent) GetEnabled() bool {
	return c.enabled
}

func (c *BaseComponent) SetEnabled(enabled bool) {
	c.enabled = enabled
}

func (c *BaseComponent) GetGameObject() *GameObject {
	return c.gameObject
}

func (c *BaseComponent) SetGameObject(obj *GameObject) {
	c.gameObject = obj
}

// Transform returns the owning object's transform, or nil when detached.
func (c *BaseComponent) Transform() *Transform {
	if c.gameObject == nil {
		return nil
	}
	return c.gameObject.Transform
}

// GameObject represents an object in the scene.
type GameObject struct {
	Name       string
	Tag        string
	Layer      int
	Active     bool
	Transform  *Transform
	Components []Component
	started    bool
}

// NewGameObject creates an active object at the origin with identity rotation.
func NewGameObject(name string) *GameObject {
	obj := &GameObject{
		Name:       name,
		Active:     true,
		Components: make([]Component, 0),
		Transform: &Transform{
			Position: mgl32.Vec3{0, 0, 0},
			Rotation: mgl32.QuatIdent(),
			Scale:    mgl32.Vec3{1, 1, 1},
		},
	}
	obj.Transform.SetGameObject(obj)
	obj.Transform.SetEnabled(true)
	return obj
}

// AddComponent attaches component, enables it and runs Awake. If the object
// has already started, Start runs immediately as well.
func (obj *GameObject) AddComponent(component Component) {
	component.SetGameObject(obj)
	component.SetEnabled(true)
	obj.Components = append(obj.Components, component)
	component.Awake()
	if obj.started && obj.Active {
		component.Start()
	}
}

// GetComponent returns the first component of type T attached to obj.
// Scripts wrapped in a ScriptComponent match on their inner type too.
func GetComponent[T any](obj *GameObject) (T, bool) {
	var zero T
	if obj == nil {
		return zero, false
	}
	for _, comp := range obj.Components {
		if typed, ok := comp.(T); ok {
			return typed, true
		}
		if typed, ok := Unwrap(comp).(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// GetComponents returns every component of type T attached to obj.
func GetComponents[T any](obj *GameObject) []T {
	if obj == nil {
		return nil
	}
	var result []T
	for _, comp := range obj.Components {
		if typed, ok := Unwrap(comp).(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

// GetComponentInParent walks up the transform hierarchy starting at obj.
func GetComponentInParent[T any](obj *GameObject) (T, bool) {
	for obj != nil {
		if c, ok := GetComponent[T](obj); ok {
			return c, true
		}
		if obj.Transform.Parent == nil {
			break
		}
		obj = obj.Transform.Parent.GetGameObject()
	}
	var zero T
	return zero, false
}

func (obj *GameObject) RemoveComponent(component Component) {
	for i, comp := range obj.Components {
		if comp == component {
			comp.OnDestroy()
			obj.Components = append(obj.Components[:i], obj.Components[i+1:]...)
			return
		}
	}
}

// CompareTag reports whether obj carries tag.
func (obj *GameObject) CompareTag(tag string) bool {
	return obj != nil && obj.Tag == tag
}

// Root returns the top-most object of obj's hierarchy.
func (obj *GameObject) Root() *GameObject {
	t := obj.Transform
	for t.Parent != nil {
		t = t.Parent
	}
	return t.GetGameObject()
}

func (obj *GameObject) internalUpdate(dt float32) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Update(dt)
		}
	}
}

func (obj *GameObject) internalFixedUpdate(dt float32) {
	if !obj.Active {
		return
	}

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.FixedUpdate(dt)
		}
	}
}

func (obj *GameObject) internalStart() {
	if !obj.Active || obj.started {
		return
	}
	obj.started = true

	for _, comp := range obj.Components {
		if comp.GetEnabled() {
			comp.Start()
		}
	}
}

// Destroy runs OnDestroy on every component and deactivates the object.
func (obj *GameObject) Destroy() {
	for _, comp := range obj.Components {
		comp.OnDestroy()
	}
	obj.Active = false
}
