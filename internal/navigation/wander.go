package navigation

import (
	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

// Wanderer yields smooth pseudo random waypoints around Home using Perlin
// noise, so consecutive points stay near each other.
type Wanderer struct {
	Home   mgl32.Vec3
	Radius float32
	Step   float64

	noise *perlin.Perlin
	t     float64
}

func NewWanderer(home mgl32.Vec3, radius float32, seed int64) *Wanderer {
	return &Wanderer{
		Home:   home,
		Radius: radius,
		Step:   0.37,
		noise:  perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Next returns the next waypoint, always within Radius of Home on the XZ plane.
func (w *Wanderer) Next() mgl32.Vec3 {
	w.t += w.Step
	nx := float32(w.noise.Noise2D(w.t, 0.31))
	nz := float32(w.noise.Noise2D(0.73, w.t))
	offset := mgl32.Vec3{mgl32.Clamp(nx, -1, 1), 0, mgl32.Clamp(nz, -1, 1)}
	if l := offset.Len(); l > 1 {
		offset = offset.Mul(1 / l)
	}
	return w.Home.Add(offset.Mul(w.Radius))
}
