package scene

import (
	"strings"
	"testing"

	"Mistborn/internal/animator"
	"Mistborn/internal/behaviour"
	"Mistborn/internal/config"
	"Mistborn/internal/input"
	"Mistborn/internal/navigation"
	"Mistborn/internal/physics"
	"Mistborn/levels"
	"Mistborn/scripts"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) *LevelSpec {
	t.Helper()
	spec, err := ParseLevel([]byte(doc))
	require.NoError(t, err)
	return spec
}

func mustLevel(t *testing.T, doc string, tuning config.Tuning) *Level {
	t.Helper()
	l, err := NewLevel(mustParse(t, doc), tuning, nil)
	require.NoError(t, err)
	return l
}

func TestCourtyardLoads(t *testing.T) {
	data, err := levels.Load("courtyard.yaml")
	require.NoError(t, err)

	l, err := NewLevel(mustParse(t, string(data)), config.Default(), input.NewActionMap())
	require.NoError(t, err)

	require.NotNil(t, l.Player())
	require.NotNil(t, l.PlayerController())
	assert.Len(t, l.Enemies(), 2)
	require.NotNil(t, l.Grid)

	for _, name := range []string{"ground", "coin", "bridge", "gate", "bridge target", "pit", "guard"} {
		assert.NotNil(t, l.Find(name), name)
	}

	for i := 0; i < 50; i++ {
		l.Step(0.02)
	}
	assert.Equal(t, 50, l.Ticks())
	assert.Equal(t, 0, l.Restarts())
	assert.True(t, l.PlayerController().Grounded())
}

func TestParseLevelCollectsErrors(t *testing.T) {
	_, err := ParseLevel([]byte(`
name: broken
navigation:
  cell_size: 0
  width: 4
  depth: 4
objects:
  - name: a
    kind: ground
  - name: a
    kind: ground
  - name: thing
    kind: teapot
  - name: gizmo
    kind: triggerable
    script: Catapult
  - name: target
    kind: target
    triggers: a
  - name: crate
    kind: metal_body
    radius: -1
`))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`duplicate object name "a"`,
		`unknown kind "teapot"`,
		`script "Catapult" is not registered`,
		`triggers "a", which is not a triggerable`,
		"must not be negative",
		"exactly one player, found 0",
		"positive cell_size",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseLevelRejectsBadYAML(t *testing.T) {
	_, err := ParseLevel([]byte("objects: [oops"))
	assert.Error(t, err)
}

func TestLoadLevelMissingFile(t *testing.T) {
	_, err := LoadLevel("does/not/exist.yaml")
	assert.Error(t, err)
}

const arena = `
name: arena
objects:
  - name: ground
    kind: ground
    position: [0, -0.5, 0]
    size: [40, 1, 40]
  - name: player
    kind: player
    position: [0, 1, 0]
  - name: watcher
    kind: enemy
    position: [0, 1, 5]
`

func TestEnemyFollowsVisiblePlayer(t *testing.T) {
	l := mustLevel(t, arena, config.Default())
	require.Len(t, l.Enemies(), 1)
	enemy := l.Enemies()[0]
	assert.Equal(t, scripts.StatePatrol, enemy.State())

	l.Step(0.02)
	l.Step(0.02)

	assert.Equal(t, scripts.StateFollow, enemy.State())
	assert.Same(t, l.Player(), enemy.Target())

	anim, ok := behaviour.GetComponent[*animator.Animator](l.Find("watcher"))
	require.True(t, ok)
	assert.Equal(t, scripts.StateFollow.String(), anim.CurrentState())
}

func TestRestartIsDeferredToNextStep(t *testing.T) {
	l := mustLevel(t, arena, config.Default())
	before := l.Player()

	l.RestartLevel()
	assert.Equal(t, 0, l.Restarts())
	assert.Same(t, before, l.Player())

	l.Step(0.02)
	assert.Equal(t, 1, l.Restarts())
	assert.NotSame(t, before, l.Player())
	assert.Same(t, l.Player(), l.Find("player"))
	assert.Len(t, l.Enemies(), 1)
	assert.Len(t, l.Manager.GetAllGameObjects(), 3)
}

func TestDangerContactRestartsLevel(t *testing.T) {
	l := mustLevel(t, `
name: pit
objects:
  - name: spikes
    kind: danger
    position: [0, -0.5, 0]
    size: [4, 1, 4]
  - name: player
    kind: player
    position: [0, 0.95, 0]
`, config.Default())
	first := l.Player()

	for i := 0; i < 3; i++ {
		l.Step(0.02)
	}

	assert.Greater(t, l.Restarts(), 0)
	assert.NotSame(t, first, l.Player())
}

func TestRestartRebindsInput(t *testing.T) {
	actions := input.NewActionMap()
	l, err := NewLevel(mustParse(t, arena), config.Default(), actions)
	require.NoError(t, err)

	l.RestartLevel()
	l.Step(0.02)
	old := l.PlayerController()

	l.RestartLevel()
	l.Step(0.02)
	require.NotSame(t, old, l.PlayerController())

	for i := 0; i < 20; i++ {
		l.Step(0.02)
	}
	require.True(t, l.PlayerController().Grounded())
	stale := old.Velocity()
	actions.Press(input.ActionJump)
	assert.Greater(t, l.PlayerController().Velocity().Y(), float32(0))
	assert.Equal(t, stale, old.Velocity(), "stale controller stays unbound")
}

func TestSetTuningRebuildsWithNewValues(t *testing.T) {
	l := mustLevel(t, arena, config.Default())
	assert.Equal(t, float32(110), l.Enemies()[0].FieldOfView)

	tuning := config.Default()
	tuning.Enemy.FOV = 60
	tuning.Physics.Gravity = -20
	l.SetTuning(tuning)
	l.Step(0.02)

	assert.Equal(t, 1, l.Restarts())
	assert.Equal(t, float32(60), l.Enemies()[0].FieldOfView)
	assert.Equal(t, mgl32.Vec3{0, -20, 0}, l.World.Gravity)
}

func TestTargetHitTriggersLinkedBridge(t *testing.T) {
	l := mustLevel(t, `
name: range
objects:
  - name: player
    kind: player
    position: [0, 1, 20]
  - name: bridge
    kind: triggerable
    script: Bridge
    position: [0, 0, -10]
    size: [2, 0.2, 6]
  - name: coin
    kind: metal_body
    position: [2, 1, 0]
  - name: target
    kind: target
    position: [5, 1, 0]
    triggers: bridge
`, config.Default())

	rb, ok := behaviour.GetComponent[*physics.Rigidbody](l.Find("coin"))
	require.True(t, ok)
	rb.UseGravity = false
	rb.Velocity = mgl32.Vec3{25, 0, 0}

	for i := 0; i < 15; i++ {
		l.Step(0.02)
	}

	up := l.Find("bridge").Transform.Up()
	assert.True(t, up.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5), "bridge up %v", up)
}

func TestBlockingObjectsMarkNavigationCells(t *testing.T) {
	data, err := levels.Load("courtyard.yaml")
	require.NoError(t, err)
	l, err := NewLevel(mustParse(t, string(data)), config.Default(), nil)
	require.NoError(t, err)

	assert.True(t, l.Grid.Blocked(l.Grid.CellAt(mgl32.Vec3{0, 0, -2})), "wall")
	assert.True(t, l.Grid.Blocked(l.Grid.CellAt(mgl32.Vec3{-12, 0, -10})), "gate")
	assert.False(t, l.Grid.Blocked(l.Grid.CellAt(mgl32.Vec3{0, 0, 5})))

	path, ok := l.Grid.FindPath(mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 0, -6})
	require.True(t, ok)
	for _, p := range path {
		assert.False(t, l.Grid.Blocked(l.Grid.CellAt(p)))
	}
}

func TestExplicitBlockedCells(t *testing.T) {
	l := mustLevel(t, `
name: maze
navigation:
  origin: [0, 0, 0]
  cell_size: 2
  width: 3
  depth: 3
  blocked: [[1, 1]]
objects:
  - name: player
    kind: player
    position: [1, 1, 1]
`, config.Default())

	assert.True(t, l.Grid.Blocked(navigation.Cell{X: 1, Z: 1}))
	assert.False(t, l.Grid.Blocked(navigation.Cell{X: 0, Z: 0}))
}

func TestSnapshotString(t *testing.T) {
	l := mustLevel(t, arena, config.Default())
	l.Step(0.02)

	s := l.Snapshot()
	assert.Equal(t, 1, s.Tick)
	assert.Equal(t, "Idle", s.Grab)
	require.Len(t, s.Enemies, 1)
	assert.True(t, strings.HasPrefix(s.String(), "tick=1 player=("))
}
