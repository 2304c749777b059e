package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// Ray represents a ray in 3D space. Direction is expected to be normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// raySphere returns the entry distance of ray into the sphere. Rays starting
// inside the sphere report no hit.
func raySphere(ray Ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := ray.Origin.Sub(center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t := (-b - sqrtDisc) / (2 * a)
	if t < 0 {
		// Both intersections are behind the ray origin
		return 0, false
	}
	return t, true
}

// rayAABB is the slab test against an axis aligned box.
func rayAABB(ray Ray, min, max mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))
	var normal mgl32.Vec3

	for axis := 0; axis < 3; axis++ {
		o := ray.Origin[axis]
		d := ray.Direction[axis]
		if mgl32.Abs(d) < epsilon {
			if o < min[axis] || o > max[axis] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (min[axis] - o) / d
		t2 := (max[axis] - o) / d
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = mgl32.Vec3{}
			normal[axis] = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl32.Vec3{}, false
		}
	}

	if tMin < 0 {
		// origin inside or box behind
		return 0, mgl32.Vec3{}, false
	}
	return tMin, normal, true
}

// rayCapsule intersects ray with the capsule around segment a-b.
func rayCapsule(ray Ray, a, b mgl32.Vec3, radius float32) (float32, bool) {
	ba := b.Sub(a)
	oa := ray.Origin.Sub(a)
	baba := ba.Dot(ba)
	bard := ba.Dot(ray.Direction)
	baoa := ba.Dot(oa)
	rdoa := ray.Direction.Dot(oa)
	oaoa := oa.Dot(oa)

	capA := float32(0)
	if baba > epsilon {
		capA = baba - bard*bard
	}
	if mgl32.Abs(capA) > epsilon {
		capB := baba*rdoa - baoa*bard
		capC := baba*oaoa - baoa*baoa - radius*radius*baba
		h := capB*capB - capA*capC
		if h < 0 {
			return 0, false
		}
		t := (-capB - float32(math.Sqrt(float64(h)))) / capA
		y := baoa + t*bard
		if y > 0 && y < baba {
			if t < 0 {
				return 0, false
			}
			return t, true
		}
	}

	// end caps
	best := float32(math.Inf(1))
	found := false
	for _, end := range [2]mgl32.Vec3{a, b} {
		if t, ok := raySphere(ray, end, radius); ok && t < best {
			best = t
			found = true
		}
	}
	return best, found
}

func closestPointOnSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < epsilon {
		return a
	}
	t := mgl32.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(t))
}

func clampToBox(p, min, max mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p[0], min[0], max[0]),
		mgl32.Clamp(p[1], min[1], max[1]),
		mgl32.Clamp(p[2], min[2], max[2]),
	}
}

// safeNormalize falls back to up for degenerate vectors.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < epsilon {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Mul(1 / l)
}
