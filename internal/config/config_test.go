package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())

	assert.Equal(t, float32(110), d.Enemy.FOV)
	assert.Equal(t, float32(1000), d.Power.PushStrength)
	assert.Equal(t, float32(100), d.Power.LaunchVelocity)
	assert.Equal(t, float32(20), d.Target.MinimumVelocity)
	assert.Equal(t, float32(-9.81), d.Physics.Gravity)
}

func TestParseOverridesOnlyListedFields(t *testing.T) {
	data := []byte(`
power:
  mode: Simplified
  push_strength: 250
enemy:
  fov: 90
`)
	tuning, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, PowerModeSimplified, tuning.Power.Mode)
	assert.Equal(t, float32(250), tuning.Power.PushStrength)
	assert.Equal(t, float32(90), tuning.Enemy.FOV)
	assert.Equal(t, float32(0.5), tuning.Power.PullStrength, "unlisted fields keep defaults")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	tuning := Default()
	tuning.Enemy.FOV = 0
	tuning.Power.PushRadius = -1
	tuning.Physics.Gravity = 9.81
	tuning.Power.Mode = "loud"

	err := tuning.Validate()
	require.Error(t, err)
	for _, field := range []string{"enemy.fov", "power.push_radius", "physics.gravity", "power.mode"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("enemy: [1, 2"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsYAML(t *testing.T) {
	assert.True(t, IsYAML("level.yaml"))
	assert.True(t, IsYAML("TUNING.YML"))
	assert.False(t, IsYAML("notes.txt"))
}

func TestReloaderAppliesValidEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enemy:\n  fov: 100\n"), 0o644))

	var applied []Tuning
	r, err := NewReloader(path, func(tu Tuning) { applied = append(applied, tu) })
	require.NoError(t, err)
	defer r.Close()

	// replace atomically so the reload never sees a half written file
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("enemy:\n  fov: 80\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { r.Poll(); return len(applied) > 0 }, 2*time.Second, 20*time.Millisecond)
	if assert.NotEmpty(t, applied) {
		assert.Equal(t, float32(80), applied[len(applied)-1].Enemy.FOV)
	}
}

func TestWatcherReportsOnceAfterWritesSettle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("enemy:\n  fov: 90\n"), 0o644))
		time.Sleep(DebounceWindow / 5)
	}

	select {
	case name := <-w.Events:
		assert.Equal(t, filepath.Clean(path), filepath.Clean(name))
	case <-time.After(2 * time.Second):
		t.Fatal("Expected an event after the writes settled")
	}

	select {
	case name := <-w.Events:
		t.Errorf("Expected a single event, got another for %s", name)
	case <-time.After(3 * DebounceWindow):
	}
}

func TestReloaderWaitsForTruncateThenWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enemy:\n  fov: 100\n"), 0o644))

	var applied []Tuning
	r, err := NewReloader(path, func(tu Tuning) { applied = append(applied, tu) })
	require.NoError(t, err)
	defer r.Close()

	// an editor saving in place: truncate, then write the new body
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	time.Sleep(DebounceWindow / 5)
	_, err = f.WriteString("enemy:\n  fov: 70\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool { r.Poll(); return len(applied) > 0 }, 2*time.Second, 20*time.Millisecond)
	for _, tu := range applied {
		assert.Equal(t, float32(70), tu.Enemy.FOV, "reload saw a partial file")
	}
}
