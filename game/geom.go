package game

import (
	"math"

	"strike-server/config"
)

// Vec3 is a world-space vector. Y is up; the floor's top face sits at y=0.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// HorizontalDist returns the XZ-plane distance between two points.
func HorizontalDist(a, b Vec3) float64 {
	return math.Hypot(a.X-b.X, a.Z-b.Z)
}

// AABB is an axis-aligned box given by its min and max corners.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Contains reports whether p lies strictly inside the box.
func (b AABB) Contains(p Vec3) bool {
	return p.X > b.Min.X && p.X < b.Max.X &&
		p.Y > b.Min.Y && p.Y < b.Max.Y &&
		p.Z > b.Min.Z && p.Z < b.Max.Z
}

// Overlaps reports whether two boxes intersect.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// RayAABB runs the slab test and returns the nearest hit distance along the
// ray, or false when the ray misses. Origin inside the box reports distance 0.
func RayAABB(origin, dir Vec3, box AABB) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = origin.X, dir.X, box.Min.X, box.Max.X
		case 1:
			o, d, lo, hi = origin.Y, dir.Y, box.Min.Y, box.Max.Y
		default:
			o, d, lo, hi = origin.Z, dir.Z, box.Min.Z, box.Max.Z
		}
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

// Model dimensions. pos is the feet position of an entity.
const (
	modelWidth  = 0.6
	modelHeight = 1.8
	headHeight  = 0.3
	headWidth   = 0.34
	// EyeHeight is where shots originate and where the camera sits.
	EyeHeight = 1.62
)

// BodyBox builds the full-body hit-box for an entity standing at pos.
func BodyBox(pos Vec3) AABB {
	half := modelWidth / 2
	return AABB{
		Min: Vec3{pos.X - half, pos.Y, pos.Z - half},
		Max: Vec3{pos.X + half, pos.Y + modelHeight, pos.Z + half},
	}
}

// HeadBox builds the head hit-box, the top vertical slice of the model.
func HeadBox(pos Vec3) AABB {
	half := headWidth / 2
	return AABB{
		Min: Vec3{pos.X - half, pos.Y + modelHeight - headHeight, pos.Z - half},
		Max: Vec3{pos.X + half, pos.Y + modelHeight, pos.Z + half},
	}
}

// ClampPitch keeps pitch inside the allowed vertical look range.
func ClampPitch(pitch float64) float64 {
	if pitch > config.PitchLimit {
		return config.PitchLimit
	}
	if pitch < -config.PitchLimit {
		return -config.PitchLimit
	}
	return pitch
}

// AimDirection converts yaw/pitch to a unit forward vector. Yaw 0 looks down
// +Z; positive pitch looks up.
func AimDirection(yaw, pitch float64) Vec3 {
	cp := math.Cos(pitch)
	return Vec3{
		X: math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: math.Cos(yaw) * cp,
	}
}

// sprayPattern holds per-shot recoil offsets (yaw drift, pitch kick) in
// radians for spray positions 0..29. The climb is steep for the first third,
// then drifts sideways, loosely following the classic rifle pattern.
var sprayPattern = [config.SprayMaxIndex + 1][2]float64{
	{0.000, 0.000}, {0.001, 0.004}, {-0.001, 0.009}, {0.002, 0.015},
	{-0.002, 0.022}, {0.003, 0.030}, {-0.003, 0.038}, {0.004, 0.046},
	{-0.004, 0.053}, {0.005, 0.059}, {0.008, 0.063}, {0.013, 0.066},
	{0.019, 0.068}, {0.024, 0.069}, {0.028, 0.070}, {0.024, 0.070},
	{0.016, 0.071}, {0.006, 0.071}, {-0.005, 0.072}, {-0.015, 0.072},
	{-0.024, 0.072}, {-0.030, 0.073}, {-0.033, 0.073}, {-0.030, 0.073},
	{-0.023, 0.074}, {-0.013, 0.074}, {-0.003, 0.074}, {0.007, 0.074},
	{0.015, 0.075}, {0.021, 0.075},
}

// BulletDirection maps aim state to the direction an individual bullet
// travels: base yaw/pitch, plus the spray pattern offset for this shot index,
// plus movement inaccuracy proportional to horizontal speed.
func BulletDirection(yaw, pitch float64, sprayIndex int, vel Vec3) Vec3 {
	if sprayIndex < 0 {
		sprayIndex = 0
	}
	if sprayIndex > config.SprayMaxIndex {
		sprayIndex = config.SprayMaxIndex
	}
	offYaw := sprayPattern[sprayIndex][0]
	offPitch := sprayPattern[sprayIndex][1]

	// Moving at full run speed widens the cone by up to ~2 degrees,
	// alternating sides with the shot index so it is still deterministic.
	speed := math.Hypot(vel.X, vel.Z)
	wobble := (speed / config.RunSpeed) * 0.035
	if sprayIndex%2 == 1 {
		wobble = -wobble
	}

	return AimDirection(yaw+offYaw+wobble, ClampPitch(pitch-offPitch))
}

// NormalizeYaw wraps an angle into [-pi, pi).
func NormalizeYaw(a float64) float64 {
	for a >= math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
