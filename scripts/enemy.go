package scripts

import (
	"fmt"

	"Mistborn/internal/animator"
	"Mistborn/internal/behaviour"
	"Mistborn/internal/logger"
	"Mistborn/internal/navigation"
	"Mistborn/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// PerceptionState is what the enemy is doing about its target.
type PerceptionState int

const (
	StatePatrol PerceptionState = iota
	StateFollow
)

func (s PerceptionState) String() string {
	switch s {
	case StatePatrol:
		return "Patrol"
	case StateFollow:
		return "Follow"
	default:
		return fmt.Sprintf("PerceptionState(%d)", int(s))
	}
}

// BasicEnemy patrols a route and chases its target once it sees it. Sight is
// evaluated from proximity trigger events: the target must be inside the field
// of view and the first thing a ray toward it hits.
type BasicEnemy struct {
	behaviour.BaseComponent
	// FieldOfView is the full view cone angle in degrees.
	FieldOfView float32
	// PerceptionRadius caps the line of sight ray. It matches the radius of the
	// proximity trigger.
	PerceptionRadius float32
	PatrolPoints     []mgl32.Vec3
	// SightMask selects the layers that can block line of sight.
	SightMask physics.LayerMask
	// Wanderer supplies waypoints when PatrolPoints is empty.
	Wanderer *navigation.Wanderer

	agent  PathAgent
	query  SpatialQuery
	target *behaviour.GameObject
	anim   *animator.Animator

	state       PerceptionState
	patrolIndex int
}

func NewBasicEnemy(agent PathAgent, query SpatialQuery, target *behaviour.GameObject, perceptionRadius float32) *BasicEnemy {
	return &BasicEnemy{
		FieldOfView:      110,
		PerceptionRadius: perceptionRadius,
		SightMask:        physics.AllLayers,
		agent:            agent,
		query:            query,
		target:           target,
	}
}

func (e *BasicEnemy) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeScript
}

func (e *BasicEnemy) GetTypeName() string {
	return "BasicEnemy"
}

func (e *BasicEnemy) State() PerceptionState {
	return e.state
}

// PatrolIndex is the waypoint the next patrol leg heads for.
func (e *BasicEnemy) PatrolIndex() int {
	return e.patrolIndex
}

func (e *BasicEnemy) Target() *behaviour.GameObject {
	return e.target
}

func (e *BasicEnemy) Start() {
	if anim, ok := behaviour.GetComponent[*animator.Animator](e.GetGameObject()); ok {
		e.anim = anim
		e.anim.Play(e.state.String())
	}
	if e.agent == nil {
		logger.Log.Warn("Enemy has no path agent", zap.String("object", e.GetGameObject().Name))
	}
}

func (e *BasicEnemy) Update(dt float32) {
	if e.agent == nil {
		return
	}
	t := e.GetGameObject().Transform

	if v := e.agent.Velocity(); v.Len() > 0 {
		t.SetWorldRotation(behaviour.LookRotation(v.Normalize()))
	}

	switch e.state {
	case StatePatrol:
		if !e.agent.PathPending() && !e.agent.HasPath() {
			if next, ok := e.nextWaypoint(); ok {
				e.agent.SetDestination(next)
			}
		}
	case StateFollow:
		if e.target != nil {
			e.agent.SetDestination(e.target.Transform.WorldPosition())
		}
	}
}

func (e *BasicEnemy) nextWaypoint() (mgl32.Vec3, bool) {
	if n := len(e.PatrolPoints); n > 0 {
		if e.patrolIndex >= n {
			e.patrolIndex = 0
		}
		p := e.PatrolPoints[e.patrolIndex]
		e.patrolIndex = (e.patrolIndex + 1) % n
		return p, true
	}
	if e.Wanderer != nil {
		return e.Wanderer.Next(), true
	}
	return mgl32.Vec3{}, false
}

func (e *BasicEnemy) isTarget(obj *behaviour.GameObject) bool {
	if obj == nil || e.target == nil {
		return false
	}
	return obj == e.target || obj.Root() == e.target
}

// OnTriggerStay re-evaluates sight every tick the target is in the volume.
func (e *BasicEnemy) OnTriggerStay(other *behaviour.GameObject) {
	if !e.isTarget(other) {
		return
	}
	if e.CanSee(e.target) {
		e.setState(StateFollow)
	} else {
		e.setState(StatePatrol)
	}
}

// OnTriggerExit only reacts to the target itself leaving. Objects parented
// under it, such as a held body, may leave while the target stays in view.
func (e *BasicEnemy) OnTriggerExit(other *behaviour.GameObject) {
	if other != nil && other == e.target {
		e.setState(StatePatrol)
	}
}

// CanSee reports whether obj is inside the view cone and unobstructed within
// PerceptionRadius.
func (e *BasicEnemy) CanSee(obj *behaviour.GameObject) bool {
	if obj == nil || e.query == nil {
		return false
	}
	t := e.GetGameObject().Transform
	self := t.WorldPosition()
	dir := obj.Transform.WorldPosition().Sub(self)
	if dir.Len() < 1e-6 {
		return false
	}
	if behaviour.Angle(dir, t.Forward()) >= e.FieldOfView*0.5 {
		return false
	}
	hit, ok := e.query.Raycast(self, dir.Normalize(), e.PerceptionRadius, e.SightMask)
	if !ok || hit.GameObject == nil {
		return false
	}
	return hit.GameObject == obj || hit.GameObject.Root() == obj.Root()
}

func (e *BasicEnemy) setState(s PerceptionState) {
	if s == e.state {
		return
	}
	logger.Log.Debug("Enemy perception changed",
		zap.String("object", e.GetGameObject().Name),
		zap.Stringer("from", e.state),
		zap.Stringer("to", s))
	e.state = s
	if e.anim != nil {
		e.anim.Play(s.String())
	}
}

// PatrolBehaviour clears the agent's path whenever the patrol state is
// entered, so patrol resumes from the next waypoint.
type PatrolBehaviour struct {
	Agent PathAgent
}

func NewPatrolBehaviour(agent PathAgent) *PatrolBehaviour {
	return &PatrolBehaviour{Agent: agent}
}

func (p *PatrolBehaviour) OnStateEnter(a *animator.Animator, state string) {
	agent := p.Agent
	if agent == nil {
		found, ok := behaviour.GetComponent[PathAgent](a.GetGameObject())
		if !ok {
			return
		}
		agent = found
	}
	agent.ResetPath()
}

func (p *PatrolBehaviour) OnStateUpdate(a *animator.Animator, state string, dt float32) {}
