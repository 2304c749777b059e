package scripts

import (
	"Mistborn/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

// PathAgent is the path planner a script steers through. Requests are
// asynchronous: callers poll PathPending and HasPath.
type PathAgent interface {
	SetDestination(target mgl32.Vec3) bool
	PathPending() bool
	HasPath() bool
	ResetPath()
	Velocity() mgl32.Vec3
}

// SpatialQuery answers synchronous physics queries. *physics.World implements it.
type SpatialQuery interface {
	Raycast(origin, direction mgl32.Vec3, maxDistance float32, mask physics.LayerMask) (physics.RaycastHit, bool)
	SphereCast(origin mgl32.Vec3, radius float32, direction mgl32.Vec3, maxDistance float32, mask physics.LayerMask) (physics.RaycastHit, bool)
	CheckSphere(center mgl32.Vec3, radius float32, mask physics.LayerMask) bool
}

// CharacterMover moves a character with collision. *physics.CharacterController implements it.
type CharacterMover interface {
	Move(delta mgl32.Vec3)
}

// LevelRestarter reloads the current level.
type LevelRestarter interface {
	RestartLevel()
}

// Triggerable is anything a Target can set off.
type Triggerable interface {
	Triggered()
}
