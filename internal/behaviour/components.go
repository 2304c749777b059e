package behaviour

// ComponentType defines the category of a component
type ComponentType string

const (
	ComponentTypeScript     ComponentType = "Script"
	ComponentTypeCollider   ComponentType = "Collider"
	ComponentTypeRigidbody  ComponentType = "Rigidbody"
	ComponentTypeController ComponentType = "CharacterController"
	ComponentTypeNavigation ComponentType = "Navigation"
	ComponentTypeAnimator   ComponentType = "Animator"
	ComponentTypeCustom     ComponentType = "Custom"
)

// TypedComponent extends Component with type information
type TypedComponent interface {
	Component
	GetComponentType() ComponentType
	GetTypeName() string
}

// ScriptComponent wraps a registry-created script so it can be identified by
// the name it was created under.
type ScriptComponent struct {
	BaseComponent
	ScriptName string
	Script     Component // The actual script implementation
}

func NewScriptComponent(scriptName string, script Component) *ScriptComponent {
	return &ScriptComponent{
		ScriptName: scriptName,
		Script:     script,
	}
}

func (s *ScriptComponent) GetComponentType() ComponentType {
	return ComponentTypeScript
}

func (s *ScriptComponent) GetTypeName() string {
	return s.ScriptName
}

func (s *ScriptComponent) Awake() {
	if s.Script != nil {
		s.Script.SetGameObject(s.GetGameObject())
		s.Script.SetEnabled(true)
		s.Script.Awake()
	}
}

func (s *ScriptComponent) Start() {
	if s.Script != nil {
		s.Script.Start()
	}
}

func (s *ScriptComponent) Update(dt float32) {
	if s.Script != nil && s.GetEnabled() {
		s.Script.Update(dt)
	}
}

func (s *ScriptComponent) FixedUpdate(dt float32) {
	if s.Script != nil && s.GetEnabled() {
		s.Script.FixedUpdate(dt)
	}
}

func (s *ScriptComponent) OnDestroy() {
	if s.Script != nil {
		s.Script.OnDestroy()
	}
}

// GetComponentTypeName returns the registered type name of comp.
func GetComponentTypeName(comp Component) string {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetTypeName()
	}
	return "Unknown"
}

// GetComponentCategory returns the category of comp.
func GetComponentCategory(comp Component) ComponentType {
	if typed, ok := comp.(TypedComponent); ok {
		return typed.GetComponentType()
	}
	return ComponentTypeCustom
}

// Unwrap returns the script held by a ScriptComponent, or comp itself.
func Unwrap(comp Component) Component {
	if s, ok := comp.(*ScriptComponent); ok && s.Script != nil {
		return s.Script
	}
	return comp
}
