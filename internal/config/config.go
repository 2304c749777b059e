// Package config loads the gameplay tuning file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Power modes.
const (
	PowerModeFull       = "full"
	PowerModeSimplified = "simplified"
)

type EnemyTuning struct {
	FOV              float32 `yaml:"fov"`
	PerceptionRadius float32 `yaml:"perception_radius"`
	Speed            float32 `yaml:"speed"`
	StoppingDistance float32 `yaml:"stopping_distance"`
	WanderRadius     float32 `yaml:"wander_radius"`
	WanderSeed       int64   `yaml:"wander_seed"`
}

type PowerTuning struct {
	Mode            string  `yaml:"mode"`
	PushStrength    float32 `yaml:"push_strength"`
	PushRadius      float32 `yaml:"push_radius"`
	PullStrength    float32 `yaml:"pull_strength"`
	LaunchVelocity  float32 `yaml:"launch_velocity"`
	LaunchRadius    float32 `yaml:"launch_radius"`
	LaunchDistance  float32 `yaml:"launch_distance"`
	PushVelocityCap float32 `yaml:"push_velocity_cap"`
	PullEpsilon     float32 `yaml:"pull_epsilon"`
	MinDistance     float32 `yaml:"min_distance"`
}

type MovementTuning struct {
	Speed            float32 `yaml:"speed"`
	JumpHeight       float32 `yaml:"jump_height"`
	GroundDistance   float32 `yaml:"ground_distance"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

type TargetTuning struct {
	MinimumVelocity float32 `yaml:"minimum_velocity"`
}

type PhysicsTuning struct {
	Gravity     float32 `yaml:"gravity"`
	FixedDelta  float32 `yaml:"fixed_delta"`
	MaxSteps    int     `yaml:"max_steps"`
	Restitution float32 `yaml:"restitution"`
}

type NavigationTuning struct {
	PlanningTicks int `yaml:"planning_ticks"`
	MaxNodes      int `yaml:"max_nodes"`
}

// Tuning holds every designer facing constant. Controllers read it but never
// write it.
type Tuning struct {
	Enemy      EnemyTuning      `yaml:"enemy"`
	Power      PowerTuning      `yaml:"power"`
	Movement   MovementTuning   `yaml:"movement"`
	Target     TargetTuning     `yaml:"target"`
	Physics    PhysicsTuning    `yaml:"physics"`
	Navigation NavigationTuning `yaml:"navigation"`
}

func Default() Tuning {
	return Tuning{
		Enemy: EnemyTuning{
			FOV:              110,
			PerceptionRadius: 10,
			Speed:            3.5,
			StoppingDistance: 0.1,
		},
		Power: PowerTuning{
			Mode:            PowerModeFull,
			PushStrength:    1000,
			PushRadius:      1,
			PullStrength:    0.5,
			LaunchVelocity:  100,
			LaunchRadius:    1,
			LaunchDistance:  5,
			PushVelocityCap: 10,
			PullEpsilon:     0.2,
			MinDistance:     0.01,
		},
		Movement: MovementTuning{
			Speed:            12,
			JumpHeight:       3,
			GroundDistance:   0.4,
			MouseSensitivity: 100,
		},
		Target: TargetTuning{
			MinimumVelocity: 20,
		},
		Physics: PhysicsTuning{
			Gravity:    -9.81,
			FixedDelta: 0.02,
			MaxSteps:   5,
		},
		Navigation: NavigationTuning{
			PlanningTicks: 1,
		},
	}
}

// GravityVector is the world gravity as a vector along Y.
func (t Tuning) GravityVector() mgl32.Vec3 {
	return mgl32.Vec3{0, t.Physics.Gravity, 0}
}

// Parse decodes data over the defaults, so a file only lists what it changes.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	t.Power.Mode = strings.ToLower(t.Power.Mode)
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return t, nil
}

// Validate reports every out of range value at once.
func (t Tuning) Validate() error {
	var errs []error
	nonNegative := func(name string, v float32) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	positive := func(name string, v float32) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	if t.Enemy.FOV <= 0 || t.Enemy.FOV > 360 {
		errs = append(errs, fmt.Errorf("enemy.fov must be in (0, 360], got %v", t.Enemy.FOV))
	}
	nonNegative("enemy.perception_radius", t.Enemy.PerceptionRadius)
	nonNegative("enemy.speed", t.Enemy.Speed)
	nonNegative("enemy.stopping_distance", t.Enemy.StoppingDistance)
	nonNegative("enemy.wander_radius", t.Enemy.WanderRadius)

	if t.Power.Mode != PowerModeFull && t.Power.Mode != PowerModeSimplified {
		errs = append(errs, fmt.Errorf("power.mode must be %q or %q, got %q", PowerModeFull, PowerModeSimplified, t.Power.Mode))
	}
	nonNegative("power.push_strength", t.Power.PushStrength)
	nonNegative("power.push_radius", t.Power.PushRadius)
	nonNegative("power.pull_strength", t.Power.PullStrength)
	nonNegative("power.launch_velocity", t.Power.LaunchVelocity)
	nonNegative("power.launch_radius", t.Power.LaunchRadius)
	nonNegative("power.launch_distance", t.Power.LaunchDistance)
	nonNegative("power.push_velocity_cap", t.Power.PushVelocityCap)
	positive("power.pull_epsilon", t.Power.PullEpsilon)
	positive("power.min_distance", t.Power.MinDistance)

	nonNegative("movement.speed", t.Movement.Speed)
	nonNegative("movement.jump_height", t.Movement.JumpHeight)
	nonNegative("movement.ground_distance", t.Movement.GroundDistance)
	nonNegative("movement.mouse_sensitivity", t.Movement.MouseSensitivity)

	nonNegative("target.minimum_velocity", t.Target.MinimumVelocity)

	if t.Physics.Gravity >= 0 {
		errs = append(errs, fmt.Errorf("physics.gravity must be negative, got %v", t.Physics.Gravity))
	}
	positive("physics.fixed_delta", t.Physics.FixedDelta)
	if t.Physics.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("physics.max_steps must be at least 1, got %d", t.Physics.MaxSteps))
	}
	if t.Physics.Restitution < 0 || t.Physics.Restitution > 1 {
		errs = append(errs, fmt.Errorf("physics.restitution must be in [0, 1], got %v", t.Physics.Restitution))
	}

	if t.Navigation.PlanningTicks < 0 {
		errs = append(errs, fmt.Errorf("navigation.planning_ticks must not be negative, got %d", t.Navigation.PlanningTicks))
	}
	if t.Navigation.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("navigation.max_nodes must not be negative, got %d", t.Navigation.MaxNodes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid tuning: %w", errors.Join(errs...))
	}
	return nil
}
