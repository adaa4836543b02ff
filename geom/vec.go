// Package geom provides the small 2D/3D vector and bounding-box primitives
// used by the mesh, scaffold and energy packages. The Bounder/bounds idiom
// follows mbrukman/model3d's model2d package.
package geom

import "math"

// Vec2 is a 2D point or vector, used for UV chart and scaffold coordinates.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Norm() float64        { return math.Sqrt(a.Dot(a)) }

func (a Vec2) Min(b Vec2) Vec2 { return Vec2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)} }
func (a Vec2) Max(b Vec2) Vec2 { return Vec2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)} }

// Cross2 is the scalar (z-component) cross product of two 2D vectors.
func Cross2(a, b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// SignedArea2 returns the signed area of the 2D triangle (a,b,c) (half the
// cross product of its edges); positive when (a,b,c) is counter-clockwise.
func SignedArea2(a, b, c Vec2) float64 {
	return Cross2(b.Sub(a), c.Sub(a)) / 2.0
}

// Vec3 is a 3D point or vector, used for rest-shape (V_rest) positions.
type Vec3 struct {
	X, Y, Z float64
}

func (a Vec3) Add(b Vec3) Vec3     { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3     { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64  { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Norm() float64       { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// EqualWithin reports whether a and b are within eps in each component.
func (a Vec3) EqualWithin(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

// TriangleArea3 returns the (unsigned) area of the 3D triangle (a,b,c).
func TriangleArea3(a, b, c Vec3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Norm() / 2.0
}

// TriangleNormal3 returns the unit outward normal of triangle (a,b,c).
func TriangleNormal3(a, b, c Vec3) Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Norm()
	if l == 0 {
		return Vec3{}
	}
	return n.Scale(1.0 / l)
}
