// Package scene loads level descriptions and hosts them for the frame loop.
package scene

import (
	"errors"
	"fmt"
	"os"

	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Object kinds.
const (
	KindGround      = "ground"
	KindMetalPlate  = "metal_plate"
	KindMetalBody   = "metal_body"
	KindPlayer      = "player"
	KindEnemy       = "enemy"
	KindTarget      = "target"
	KindTriggerable = "triggerable"
	KindDanger      = "danger"
)

var kinds = map[string]bool{
	KindGround:      true,
	KindMetalPlate:  true,
	KindMetalBody:   true,
	KindPlayer:      true,
	KindEnemy:       true,
	KindTarget:      true,
	KindTriggerable: true,
	KindDanger:      true,
}

// Vec3 is written as a [x, y, z] sequence.
type Vec3 [3]float32

func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

type ObjectSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	Position Vec3 `yaml:"position"`
	// Rotation is in degrees, applied yaw, pitch, roll.
	Rotation Vec3    `yaml:"rotation"`
	Size     Vec3    `yaml:"size"`
	Radius   float32 `yaml:"radius"`
	Mass     float32 `yaml:"mass"`

	Patrol       []Vec3  `yaml:"patrol"`
	WanderRadius float32 `yaml:"wander_radius"`

	// Script names the registered script of a triggerable.
	Script string `yaml:"script"`
	// Triggers names the triggerable a target sets off.
	Triggers string `yaml:"triggers"`

	BlocksNavigation bool `yaml:"blocks_navigation"`
}

type NavigationSpec struct {
	Origin   Vec3     `yaml:"origin"`
	CellSize float32  `yaml:"cell_size"`
	Width    int      `yaml:"width"`
	Depth    int      `yaml:"depth"`
	Blocked  [][2]int `yaml:"blocked"`
}

type LevelSpec struct {
	Name       string          `yaml:"name"`
	Navigation *NavigationSpec `yaml:"navigation"`
	Objects    []ObjectSpec    `yaml:"objects"`
}

func ParseLevel(data []byte) (*LevelSpec, error) {
	var spec LevelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("scene: unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func LoadLevel(path string) (*LevelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	spec, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return spec, nil
}

func (s *LevelSpec) object(name string) (ObjectSpec, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return ObjectSpec{}, false
}

// Validate checks names, kinds and links between objects.
func (s *LevelSpec) Validate() error {
	var errs []error
	names := make(map[string]bool)
	players := 0

	for i, o := range s.Objects {
		label := o.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Errorf("object %s has no name", label))
		} else if names[o.Name] {
			errs = append(errs, fmt.Errorf("duplicate object name %q", o.Name))
		}
		names[o.Name] = true

		if !kinds[o.Kind] {
			errs = append(errs, fmt.Errorf("object %s: unknown kind %q", label, o.Kind))
			continue
		}
		for axis, v := range o.Size {
			if v < 0 {
				errs = append(errs, fmt.Errorf("object %s: size[%d] must not be negative", label, axis))
			}
		}
		if o.Radius < 0 || o.Mass < 0 || o.WanderRadius < 0 {
			errs = append(errs, fmt.Errorf("object %s: radius, mass and wander_radius must not be negative", label))
		}

		switch o.Kind {
		case KindPlayer:
			players++
		case KindTriggerable:
			if !scriptRegistered(o.Script) {
				errs = append(errs, fmt.Errorf("object %s: script %q is not registered", label, o.Script))
			}
		case KindTarget:
			linked, ok := s.object(o.Triggers)
			if o.Triggers != "" && (!ok || linked.Kind != KindTriggerable) {
				errs = append(errs, fmt.Errorf("object %s: triggers %q, which is not a triggerable", label, o.Triggers))
			}
		}
	}

	if players != 1 {
		errs = append(errs, fmt.Errorf("level needs exactly one player, found %d", players))
	}
	if n := s.Navigation; n != nil {
		if n.CellSize <= 0 || n.Width <= 0 || n.Depth <= 0 {
			errs = append(errs, fmt.Errorf("navigation needs a positive cell_size, width and depth"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("scene: invalid level %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

func scriptRegistered(name string) bool {
	for _, s := range behaviour.GetAvailableScripts() {
		if s == name {
			return true
		}
	}
	return false
}
