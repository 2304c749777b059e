// Package glfwinput feeds GLFW keyboard and mouse events into an ActionMap.
package glfwinput

import (
	"fmt"
	"runtime"

	"Mistborn/internal/input"
	"Mistborn/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Bindings maps raw buttons to action names. Movement keys compose the Move axis.
type Bindings struct {
	Forward, Back, Left, Right glfw.Key
	Keys                       map[glfw.Key]string
	MouseButtons               map[glfw.MouseButton]string
}

func DefaultBindings() Bindings {
	return Bindings{
		Forward: glfw.KeyW,
		Back:    glfw.KeyS,
		Left:    glfw.KeyA,
		Right:   glfw.KeyD,
		Keys: map[glfw.Key]string{
			glfw.KeySpace: input.ActionJump,
			glfw.KeyE:     input.ActionPull,
			glfw.KeyQ:     input.ActionPush,
		},
		MouseButtons: map[glfw.MouseButton]string{
			glfw.MouseButtonLeft:  input.ActionPush,
			glfw.MouseButtonRight: input.ActionPull,
		},
	}
}

// Source translates GLFW callbacks. Look deltas accumulate between Flush calls.
type Source struct {
	actions  *input.ActionMap
	bindings Bindings
	held     map[glfw.Key]bool

	firstMouse   bool
	lastX, lastY float64
	look         mgl32.Vec2
}

func NewSource(actions *input.ActionMap, bindings Bindings) *Source {
	return &Source{
		actions:    actions,
		bindings:   bindings,
		held:       make(map[glfw.Key]bool),
		firstMouse: true,
	}
}

// OnKey handles a key transition. Repeats are ignored.
func (s *Source) OnKey(key glfw.Key, action glfw.Action) {
	if action == glfw.Repeat {
		return
	}
	down := action == glfw.Press

	switch key {
	case s.bindings.Forward, s.bindings.Back, s.bindings.Left, s.bindings.Right:
		s.held[key] = down
		s.actions.SetAxis(input.ActionMove, s.moveAxis())
		return
	}

	name, ok := s.bindings.Keys[key]
	if !ok {
		return
	}
	if down {
		s.actions.Press(name)
	} else {
		s.actions.Release(name)
	}
}

func (s *Source) moveAxis() mgl32.Vec2 {
	var v mgl32.Vec2
	if s.held[s.bindings.Forward] {
		v[1]++
	}
	if s.held[s.bindings.Back] {
		v[1]--
	}
	if s.held[s.bindings.Right] {
		v[0]++
	}
	if s.held[s.bindings.Left] {
		v[0]--
	}
	return v
}

func (s *Source) OnMouseButton(button glfw.MouseButton, action glfw.Action) {
	name, ok := s.bindings.MouseButtons[button]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		s.actions.Press(name)
	case glfw.Release:
		s.actions.Release(name)
	}
}

// OnCursor accumulates the cursor delta. Screen Y grows downward, so it is
// flipped to make moving the mouse up look up.
func (s *Source) OnCursor(x, y float64) {
	if s.firstMouse {
		s.lastX, s.lastY = x, y
		s.firstMouse = false
		return
	}
	s.look = s.look.Add(mgl32.Vec2{float32(x - s.lastX), float32(s.lastY - y)})
	s.lastX, s.lastY = x, y
}

// Flush publishes the accumulated look delta for this frame.
func (s *Source) Flush() {
	s.actions.SetAxis(input.ActionLook, s.look)
	s.look = mgl32.Vec2{}
}

// Attach installs the Source's callbacks on w.
func (s *Source) Attach(w *glfw.Window) {
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		s.OnKey(key, action)
	})
	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		s.OnMouseButton(button, action)
	})
	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		s.OnCursor(x, y)
	})
}

// Window is an input-only GLFW window with no client API.
type Window struct {
	*glfw.Window
}

// OpenWindow initializes GLFW and creates a window that captures the cursor.
// It must be called from the main goroutine; Close terminates GLFW.
func OpenWindow(width, height int, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwinput: init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwinput: create window: %w", err)
	}
	w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	logger.Log.Info("Input window opened", zap.Int("width", width), zap.Int("height", height))
	return &Window{Window: w}, nil
}

// Poll processes pending events and reports whether the window should stay open.
func (w *Window) Poll() bool {
	glfw.PollEvents()
	return !w.ShouldClose()
}

func (w *Window) Close() {
	w.Destroy()
	glfw.Terminate()
}
