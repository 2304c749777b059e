package navigation

import (
	"Mistborn/internal/behaviour"
	"Mistborn/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Agent steers its GameObject along paths planned on a Grid. Path requests
// are asynchronous: SetDestination only queues a request, which is planned
// after PlanningTicks updates. Callers poll PathPending and HasPath.
type Agent struct {
	behaviour.BaseComponent
	Speed            float32
	StoppingDistance float32
	PlanningTicks    int
	IsStopped        bool

	grid         *Grid
	pending      bool
	pendingTicks int
	destination  mgl32.Vec3
	path         []mgl32.Vec3
	velocity     mgl32.Vec3
}

// NewAgent creates an agent planning on grid. A nil grid plans straight lines.
func NewAgent(grid *Grid, speed float32) *Agent {
	return &Agent{
		grid:             grid,
		Speed:            speed,
		StoppingDistance: 0.1,
	}
}

func (a *Agent) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeNavigation
}

func (a *Agent) GetTypeName() string {
	return "NavAgent"
}

// SetDestination queues a path request. A request already in flight keeps its
// countdown and only retargets.
func (a *Agent) SetDestination(target mgl32.Vec3) bool {
	a.destination = target
	if !a.pending {
		a.pending = true
		a.pendingTicks = a.PlanningTicks
	}
	return true
}

func (a *Agent) Destination() mgl32.Vec3 {
	return a.destination
}

func (a *Agent) PathPending() bool {
	return a.pending
}

func (a *Agent) HasPath() bool {
	return len(a.path) > 0
}

// ResetPath drops both the current path and any pending request.
func (a *Agent) ResetPath() {
	a.pending = false
	a.path = nil
	a.velocity = mgl32.Vec3{}
}

func (a *Agent) Velocity() mgl32.Vec3 {
	return a.velocity
}

// Corners returns the remaining path.
func (a *Agent) Corners() []mgl32.Vec3 {
	return a.path
}

// RemainingDistance sums the distance along the remaining corners.
func (a *Agent) RemainingDistance() float32 {
	if len(a.path) == 0 {
		return 0
	}
	pos := a.Transform().WorldPosition()
	total := float32(0)
	for _, c := range a.path {
		c = mgl32.Vec3{c.X(), pos.Y(), c.Z()}
		total += c.Sub(pos).Len()
		pos = c
	}
	return total
}

func (a *Agent) plan(from mgl32.Vec3) ([]mgl32.Vec3, bool) {
	if a.grid == nil {
		return []mgl32.Vec3{a.destination}, true
	}
	return a.grid.FindPath(from, a.destination)
}

func (a *Agent) Update(dt float32) {
	t := a.Transform()
	if t == nil {
		return
	}
	pos := t.WorldPosition()

	if a.pending {
		if a.pendingTicks > 0 {
			a.pendingTicks--
		} else {
			a.pending = false
			path, ok := a.plan(pos)
			if !ok {
				logger.Log.Debug("navigation: no path",
					zap.String("agent", a.GetGameObject().Name),
					zap.Float32s("destination", a.destination[:]))
				a.path = nil
			} else {
				a.path = path
			}
		}
	}

	if a.IsStopped || len(a.path) == 0 || dt <= 0 {
		a.velocity = mgl32.Vec3{}
		return
	}

	start := pos
	budget := a.Speed * dt
	for len(a.path) > 0 {
		corner := mgl32.Vec3{a.path[0].X(), pos.Y(), a.path[0].Z()}
		dist := corner.Sub(pos).Len()
		last := len(a.path) == 1

		if last && dist <= a.StoppingDistance {
			a.path = nil
			break
		}
		if dist > budget {
			pos = behaviour.MoveTowards(pos, corner, budget)
			break
		}
		pos = corner
		budget -= dist
		a.path = a.path[1:]
	}

	t.SetWorldPosition(pos)
	a.velocity = pos.Sub(start).Mul(1 / dt)
}
