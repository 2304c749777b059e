package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Phase is the stage of an action when its callback fires.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseStarted
	PhasePerformed
	PhaseCanceled
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "Waiting"
	case PhaseStarted:
		return "Started"
	case PhasePerformed:
		return "Performed"
	case PhaseCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Action names bound by the player controller.
const (
	ActionMove = "Move"
	ActionLook = "Look"
	ActionJump = "Jump"
	ActionPull = "Pull"
	ActionPush = "Push"
)

// CallbackContext is passed to action handlers.
type CallbackContext struct {
	Action string
	Phase  Phase
	value  mgl32.Vec2
}

// NewContext builds a context, mostly for tests driving handlers directly.
func NewContext(action string, phase Phase, value mgl32.Vec2) CallbackContext {
	return CallbackContext{Action: action, Phase: phase, value: value}
}

// ReadValue returns the action's value. Buttons read as (1,0) while held.
func (c CallbackContext) ReadValue() mgl32.Vec2 {
	return c.value
}

// Handler receives action callbacks.
type Handler func(CallbackContext)

// ActionMap dispatches button and axis changes to bound handlers. Handlers
// run synchronously on the caller's goroutine.
type ActionMap struct {
	handlers map[string][]Handler
	pressed  map[string]bool
	axes     map[string]mgl32.Vec2
}

func NewActionMap() *ActionMap {
	return &ActionMap{
		handlers: make(map[string][]Handler),
		pressed:  make(map[string]bool),
		axes:     make(map[string]mgl32.Vec2),
	}
}

func (m *ActionMap) Bind(action string, h Handler) {
	m.handlers[action] = append(m.handlers[action], h)
}

// Unbind drops every handler of action.
func (m *ActionMap) Unbind(action string) {
	delete(m.handlers, action)
}

func (m *ActionMap) dispatch(ctx CallbackContext) {
	for _, h := range m.handlers[ctx.Action] {
		h(ctx)
	}
}

// Press fires Started then Performed. Repeated presses while held are ignored.
func (m *ActionMap) Press(action string) {
	if m.pressed[action] {
		return
	}
	m.pressed[action] = true
	v := mgl32.Vec2{1, 0}
	m.dispatch(CallbackContext{Action: action, Phase: PhaseStarted, value: v})
	m.dispatch(CallbackContext{Action: action, Phase: PhasePerformed, value: v})
}

// Release fires Canceled if the action was held.
func (m *ActionMap) Release(action string) {
	if !m.pressed[action] {
		return
	}
	m.pressed[action] = false
	m.dispatch(CallbackContext{Action: action, Phase: PhaseCanceled})
}

func (m *ActionMap) Pressed(action string) bool {
	return m.pressed[action]
}

// SetAxis updates a value action. A change from zero starts it, a change to
// zero cancels it, anything else performs it.
func (m *ActionMap) SetAxis(action string, v mgl32.Vec2) {
	prev := m.axes[action]
	if prev == v {
		return
	}
	m.axes[action] = v

	zero := mgl32.Vec2{}
	switch {
	case prev == zero:
		m.dispatch(CallbackContext{Action: action, Phase: PhaseStarted, value: v})
		m.dispatch(CallbackContext{Action: action, Phase: PhasePerformed, value: v})
	case v == zero:
		m.dispatch(CallbackContext{Action: action, Phase: PhaseCanceled, value: v})
	default:
		m.dispatch(CallbackContext{Action: action, Phase: PhasePerformed, value: v})
	}
}

func (m *ActionMap) Axis(action string) mgl32.Vec2 {
	return m.axes[action]
}
