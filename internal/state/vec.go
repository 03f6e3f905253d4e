package state

import "math"

// Vec3 is a point in world space. Y is the vertical axis and stays zero for
// every ground entity; it is carried so snapshots match the renderer's
// coordinate convention.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistanceTo returns the full 3D distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PlanarDistanceTo returns the distance ignoring the vertical axis. Jail
// detection and building proximity both work on the ground plane.
func (v Vec3) PlanarDistanceTo(other Vec3) float64 {
	return math.Hypot(v.X-other.X, v.Z-other.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Normalized returns a unit-length copy of v, or the zero vector when v is
// shorter than the epsilon used to suppress jitter at movement targets.
func (v Vec3) Normalized() Vec3 {
	length := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if length < 1e-9 {
		return Vec3{}
	}
	return Vec3{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}
