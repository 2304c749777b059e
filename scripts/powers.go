package scripts

import (
	"fmt"
	"math"
	"strings"

	"Mistborn/internal/behaviour"
	"Mistborn/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// PowerMode selects between the two push/pull rule sets.
type PowerMode int

const (
	// PowerFull grabs, holds and launches.
	PowerFull PowerMode = iota
	// PowerSimplified only shoves along a ray.
	PowerSimplified
)

func (m PowerMode) String() string {
	switch m {
	case PowerFull:
		return config.PowerModeFull
	case PowerSimplified:
		return config.PowerModeSimplified
	default:
		return fmt.Sprintf("PowerMode(%d)", int(m))
	}
}

func ParsePowerMode(s string) (PowerMode, error) {
	switch strings.ToLower(s) {
	case "", config.PowerModeFull:
		return PowerFull, nil
	case config.PowerModeSimplified:
		return PowerSimplified, nil
	default:
		return PowerFull, fmt.Errorf("unknown power mode %q", s)
	}
}

// GrabState tracks a pulled object.
type GrabState int

const (
	GrabIdle GrabState = iota
	GrabPulling
	GrabHeld
)

func (s GrabState) String() string {
	switch s {
	case GrabIdle:
		return "Idle"
	case GrabPulling:
		return "Pulling"
	case GrabHeld:
		return "Held"
	default:
		return fmt.Sprintf("GrabState(%d)", int(s))
	}
}

func clampDistance(d, minDistance float32) float32 {
	if d < minDistance {
		return minDistance
	}
	return d
}

// PushImpulse is the push applied to a body distance away: strength falls off
// inversely with distance.
func PushImpulse(forward mgl32.Vec3, strength, distance, minDistance float32) mgl32.Vec3 {
	return forward.Mul(strength / clampDistance(distance, minDistance))
}

// LaunchVelocity is the upward speed gained standing distance above metal.
func LaunchVelocity(launchVelocity, distance, minDistance float32) float32 {
	v := launchVelocity * 2 / clampDistance(distance, minDistance)
	return mgl32.Clamp(v, 0, launchVelocity)
}

// SimplifiedLaunchVelocity is LaunchVelocity for PowerSimplified.
func SimplifiedLaunchVelocity(launchVelocity, distance, minDistance float32) float32 {
	v := launchVelocity / clampDistance(distance, minDistance)
	return mgl32.Clamp(v, 0, launchVelocity/2)
}

// PullStep moves current toward anchor by strength / (distance * mass). The
// step grows as the body closes in. Non-positive masses count as 1.
func PullStep(current, anchor mgl32.Vec3, strength, mass, minDistance float32) mgl32.Vec3 {
	if mass <= 0 {
		mass = 1
	}
	d := clampDistance(anchor.Sub(current).Len(), minDistance)
	return behaviour.MoveTowards(current, anchor, strength/(d*mass))
}

// JumpVelocity is the take-off speed reaching jumpHeight under gravity
// (negative).
func JumpVelocity(jumpHeight, gravity float32) float32 {
	v := jumpHeight * -2 * gravity
	if v <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}
