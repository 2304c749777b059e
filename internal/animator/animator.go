// Package animator provides a named-state machine component with per-state
// behaviours, in the manner of an animation controller.
package animator

import (
	"Mistborn/internal/behaviour"
	"Mistborn/internal/logger"

	"go.uber.org/zap"
)

// StateBehaviour is attached to a state and notified while it is active.
type StateBehaviour interface {
	OnStateEnter(a *Animator, state string)
	OnStateUpdate(a *Animator, state string, dt float32)
}

// Animator is a component holding the current state of its GameObject.
type Animator struct {
	behaviour.BaseComponent
	// DefaultState is entered on Start when no state has been played yet.
	DefaultState string

	states      map[string][]StateBehaviour
	current     string
	timeInState float32
}

func NewAnimator(defaultState string) *Animator {
	return &Animator{
		DefaultState: defaultState,
		states:       make(map[string][]StateBehaviour),
	}
}

func (a *Animator) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeAnimator
}

func (a *Animator) GetTypeName() string {
	return "Animator"
}

// AddState declares a state, appending behaviours if it already exists.
func (a *Animator) AddState(name string, behaviours ...StateBehaviour) {
	if a.states == nil {
		a.states = make(map[string][]StateBehaviour)
	}
	a.states[name] = append(a.states[name], behaviours...)
}

func (a *Animator) HasState(name string) bool {
	_, ok := a.states[name]
	return ok
}

func (a *Animator) CurrentState() string {
	return a.current
}

func (a *Animator) TimeInState() float32 {
	return a.timeInState
}

func (a *Animator) Start() {
	if a.current == "" && a.DefaultState != "" {
		a.Play(a.DefaultState)
	}
}

// Play switches to state and fires OnStateEnter. Playing the current state
// does nothing; unknown states are ignored.
func (a *Animator) Play(state string) {
	if state == a.current {
		return
	}
	behaviours, ok := a.states[state]
	if !ok {
		logger.Log.Warn("Animator state not found", zap.String("state", state))
		return
	}
	prev := a.current
	a.current = state
	a.timeInState = 0
	logger.Log.Debug("Animator state changed", zap.String("from", prev), zap.String("to", state))
	for _, b := range behaviours {
		b.OnStateEnter(a, state)
	}
}

func (a *Animator) Update(dt float32) {
	if a.current == "" {
		return
	}
	a.timeInState += dt
	for _, b := range a.states[a.current] {
		b.OnStateUpdate(a, a.current, dt)
	}
}
