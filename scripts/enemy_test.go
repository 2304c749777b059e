package scripts

import (
	"math"
	"testing"

	"Mistborn/internal/animator"
	"Mistborn/internal/behaviour"
	"Mistborn/internal/navigation"
	"Mistborn/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	destinations []mgl32.Vec3
	pending      bool
	hasPath      bool
	velocity     mgl32.Vec3
	resets       int
}

func (a *fakeAgent) SetDestination(p mgl32.Vec3) bool {
	a.destinations = append(a.destinations, p)
	return true
}

func (a *fakeAgent) PathPending() bool    { return a.pending }
func (a *fakeAgent) HasPath() bool        { return a.hasPath }
func (a *fakeAgent) Velocity() mgl32.Vec3 { return a.velocity }

func (a *fakeAgent) ResetPath() {
	a.resets++
	a.hasPath = false
}

func targetObject(pos mgl32.Vec3) *behaviour.GameObject {
	obj := behaviour.NewGameObject("player")
	obj.Tag = "Player"
	obj.Layer = physics.LayerPlayer
	obj.Transform.SetPosition(pos)
	obj.AddComponent(physics.NewSphereCollider(0.5))
	return obj
}

func enemyObject(agent PathAgent, world *physics.World, target *behaviour.GameObject) (*behaviour.GameObject, *BasicEnemy) {
	obj := behaviour.NewGameObject("enemy")
	obj.Layer = physics.LayerEnemy
	e := NewBasicEnemy(agent, world, target, 10)
	obj.AddComponent(e)
	return obj, e
}

func TestPatrolCyclesWaypoints(t *testing.T) {
	agent := &fakeAgent{}
	_, e := enemyObject(agent, physics.NewWorld(mgl32.Vec3{}), nil)
	points := []mgl32.Vec3{{0, 0, -5}, {5, 0, -5}, {5, 0, 0}}
	e.PatrolPoints = points

	n := 3
	for i := 0; i < n*len(points)+1; i++ {
		e.Update(0.02)
	}

	require.Len(t, agent.destinations, n*len(points)+1)
	for i, d := range agent.destinations {
		assert.Equal(t, points[i%len(points)], d)
	}
	assert.Equal(t, 1, e.PatrolIndex())
}

func TestPatrolWaitsForPendingOrActivePath(t *testing.T) {
	agent := &fakeAgent{pending: true}
	_, e := enemyObject(agent, physics.NewWorld(mgl32.Vec3{}), nil)
	e.PatrolPoints = []mgl32.Vec3{{0, 0, -5}}

	e.Update(0.02)
	agent.pending, agent.hasPath = false, true
	e.Update(0.02)

	assert.Empty(t, agent.destinations)
	assert.Equal(t, 0, e.PatrolIndex())
}

func TestEmptyRouteIdlesOrWanders(t *testing.T) {
	agent := &fakeAgent{}
	_, e := enemyObject(agent, physics.NewWorld(mgl32.Vec3{}), nil)
	e.Update(0.02)
	assert.Empty(t, agent.destinations)

	e.Wanderer = navigation.NewWanderer(mgl32.Vec3{}, 4, 7)
	e.Update(0.02)
	require.Len(t, agent.destinations, 1)
	assert.LessOrEqual(t, agent.destinations[0].Len(), float32(4.001))
}

func TestPerceptionRequiresViewConeAndSight(t *testing.T) {
	deg := func(d float64) mgl32.Vec3 {
		r := d * math.Pi / 180
		return mgl32.Vec3{float32(5 * math.Sin(r)), 0, float32(-5 * math.Cos(r))}
	}
	tests := []struct {
		name   string
		target mgl32.Vec3
		wall   bool
		want   PerceptionState
	}{
		{"straight ahead", mgl32.Vec3{0, 0, -5}, false, StateFollow},
		{"inside the cone", deg(50), false, StateFollow},
		{"outside the cone", deg(60), false, StatePatrol},
		{"behind", mgl32.Vec3{0, 0, 5}, false, StatePatrol},
		{"beyond sight range", mgl32.Vec3{0, 0, -15}, false, StatePatrol},
		{"behind a wall", mgl32.Vec3{0, 0, -5}, true, StatePatrol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := physics.NewWorld(mgl32.Vec3{})
			target := targetObject(tt.target)
			world.Register(target)
			if tt.wall {
				wall := behaviour.NewGameObject("wall")
				wall.Transform.SetPosition(mgl32.Vec3{0, 0, -2.5})
				wall.AddComponent(physics.NewBoxCollider(mgl32.Vec3{4, 4, 0.5}))
				world.Register(wall)
			}
			_, e := enemyObject(&fakeAgent{}, world, target)

			e.OnTriggerStay(target)

			assert.Equal(t, tt.want, e.State())
		})
	}
}

func TestLosingSightReturnsToPatrol(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -5})
	world.Register(target)
	_, e := enemyObject(&fakeAgent{}, world, target)

	e.OnTriggerStay(target)
	require.Equal(t, StateFollow, e.State())

	target.Transform.SetPosition(mgl32.Vec3{0, 0, 5})
	e.OnTriggerStay(target)
	assert.Equal(t, StatePatrol, e.State())

	target.Transform.SetPosition(mgl32.Vec3{0, 0, -5})
	e.OnTriggerStay(target)
	e.OnTriggerExit(target)
	assert.Equal(t, StatePatrol, e.State())
}

func TestOtherObjectsAreIgnored(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -20})
	rock := targetObject(mgl32.Vec3{0, 0, -5})
	rock.Name = "rock"
	world.Register(target)
	world.Register(rock)
	_, e := enemyObject(&fakeAgent{}, world, target)

	e.OnTriggerStay(rock)
	assert.Equal(t, StatePatrol, e.State())
}

func TestFollowChasesTargetEveryFrame(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -5})
	world.Register(target)
	agent := &fakeAgent{hasPath: true}
	_, e := enemyObject(agent, world, target)
	e.OnTriggerStay(target)

	e.Update(0.02)
	target.Transform.SetPosition(mgl32.Vec3{1, 0, -5})
	e.Update(0.02)

	assert.Equal(t, []mgl32.Vec3{{0, 0, -5}, {1, 0, -5}}, agent.destinations)
}

func TestEnemyFacesItsVelocity(t *testing.T) {
	agent := &fakeAgent{velocity: mgl32.Vec3{3, 0, 0}}
	obj, e := enemyObject(agent, physics.NewWorld(mgl32.Vec3{}), nil)

	e.Update(0.02)

	assert.True(t, obj.Transform.Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "forward %v", obj.Transform.Forward())

	agent.velocity = mgl32.Vec3{}
	e.Update(0.02)
	assert.True(t, obj.Transform.Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5), "a stopped enemy keeps its heading")
}

func TestMissingAgentIsNoOp(t *testing.T) {
	_, e := enemyObject(nil, physics.NewWorld(mgl32.Vec3{}), nil)
	e.PatrolPoints = []mgl32.Vec3{{0, 0, -1}}
	assert.NotPanics(t, func() { e.Update(0.02) })
}

func TestProximityTriggerDrivesPerception(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -5})
	enemy, e := enemyObject(&fakeAgent{}, world, target)
	sense := physics.NewSphereCollider(10)
	sense.Trigger = true
	enemy.AddComponent(sense)
	world.Register(target)
	world.Register(enemy)

	world.Step(0.02)
	assert.Equal(t, StateFollow, e.State())

	target.Transform.SetPosition(mgl32.Vec3{0, 0, -30})
	world.Step(0.02)
	assert.Equal(t, StatePatrol, e.State())
}

func TestHeldObjectLeavingVolumeKeepsFollow(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -5})
	held := behaviour.NewGameObject("held coin")
	held.Layer = physics.LayerMetal
	held.Transform.SetPosition(mgl32.Vec3{0, 0, -5.5})
	held.AddComponent(physics.NewSphereCollider(0.25))
	held.Transform.SetParent(target.Transform)

	agent := &fakeAgent{}
	enemy, e := enemyObject(agent, world, target)
	sense := physics.NewSphereCollider(10)
	sense.Trigger = true
	enemy.AddComponent(sense)
	world.Register(target)
	world.Register(enemy)

	world.Step(0.02)
	require.Equal(t, StateFollow, e.State())

	held.Transform.SetWorldPosition(mgl32.Vec3{0, 0, -30})
	world.Step(0.02)

	assert.True(t, e.CanSee(target))
	assert.Equal(t, StateFollow, e.State())
}

func TestPatrolStateResetsPathOnEnter(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	target := targetObject(mgl32.Vec3{0, 0, -5})
	world.Register(target)
	agent := &fakeAgent{}

	enemy := behaviour.NewGameObject("enemy")
	anim := animator.NewAnimator(StatePatrol.String())
	anim.AddState(StatePatrol.String(), NewPatrolBehaviour(agent))
	anim.AddState(StateFollow.String())
	enemy.AddComponent(anim)
	e := NewBasicEnemy(agent, world, target, 10)
	enemy.AddComponent(e)

	cm := behaviour.NewComponentManager()
	cm.RegisterGameObject(enemy)
	assert.Equal(t, 1, agent.resets)

	e.OnTriggerStay(target)
	assert.Equal(t, StateFollow.String(), anim.CurrentState())

	e.OnTriggerExit(target)
	assert.Equal(t, StatePatrol.String(), anim.CurrentState())
	assert.Equal(t, 2, agent.resets)
}

func TestPatrolBehaviourFindsAgentComponent(t *testing.T) {
	obj := behaviour.NewGameObject("enemy")
	agent := navigation.NewAgent(nil, 1)
	obj.AddComponent(agent)
	anim := animator.NewAnimator("")
	anim.AddState("Patrol", &PatrolBehaviour{})
	obj.AddComponent(anim)

	agent.SetDestination(mgl32.Vec3{0, 0, -3})
	agent.Update(0.1)
	require.True(t, agent.HasPath())

	anim.Play("Patrol")
	assert.False(t, agent.HasPath())
}
