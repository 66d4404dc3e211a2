package geom

import "math"

// Vec3 is a world-space position or velocity. The Y axis is vertical;
// agent steering happens on the XZ plane.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Norm returns the unit vector, or the zero vector for near-zero input.
func (v Vec3) Norm() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// DistXZ is the horizontal distance, ignoring height.
func (v Vec3) DistXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// HeadingXZ is the angle of the vector on the XZ plane in radians.
func (v Vec3) HeadingXZ() float64 {
	return math.Atan2(v.Z, v.X)
}

// FromAngleXZ builds a horizontal unit vector at the given angle.
func FromAngleXZ(angle float64) Vec3 {
	return Vec3{X: math.Cos(angle), Z: math.Sin(angle)}
}
