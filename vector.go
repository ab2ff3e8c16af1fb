package odr2city

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Vector3D representation of point in Euclidean 3D space
type Vector3D struct {
	X float64
	Y float64
	Z float64
}

// String returns pretty printed value for Vector3D
func (v Vector3D) String() string {
	return fmt.Sprintf("X: %f | Y: %f | Z: %f", v.X, v.Y, v.Z)
}

// Add returns the component-wise sum
func (v Vector3D) Add(other Vector3D) Vector3D {
	return Vector3D{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns the component-wise difference
func (v Vector3D) Sub(other Vector3D) Vector3D {
	return Vector3D{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns the vector multiplied by factor
func (v Vector3D) Scale(factor float64) Vector3D {
	return Vector3D{X: v.X * factor, Y: v.Y * factor, Z: v.Z * factor}
}

// Dot returns the scalar product
func (v Vector3D) Dot(other Vector3D) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the vector product
func (v Vector3D) Cross(other Vector3D) Vector3D {
	return Vector3D{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean length of the vector
func (v Vector3D) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector with the same direction. Zero vector is
// returned unchanged.
func (v Vector3D) Normalize() Vector3D {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1.0 / n)
}

// DistanceTo returns distance between two points
func (v Vector3D) DistanceTo(other Vector3D) float64 {
	return v.Sub(other).Norm()
}

// FuzzyEquals reports whether two points coincide within tolerance
func (v Vector3D) FuzzyEquals(other Vector3D, tolerance float64) bool {
	return v.DistanceTo(other) <= tolerance
}

// XY projects the point onto the XY plane
func (v Vector3D) XY() orb.Point {
	return orb.Point{v.X, v.Y}
}

// LineString3D is an ordered sequence of 3D points
type LineString3D []Vector3D

// Length returns length of the polyline
func (ls LineString3D) Length() float64 {
	totalLength := 0.0
	for i := 1; i < len(ls); i++ {
		totalLength += ls[i-1].DistanceTo(ls[i])
	}
	return totalLength
}

// XY projects the polyline onto the XY plane
func (ls LineString3D) XY() orb.LineString {
	line := make(orb.LineString, len(ls))
	for i := range ls {
		line[i] = ls[i].XY()
	}
	return line
}

// FuzzyEquals reports whether both polylines have the same vertex count and
// pairwise coinciding vertices within tolerance
func (ls LineString3D) FuzzyEquals(other LineString3D, tolerance float64) bool {
	if len(ls) != len(other) {
		return false
	}
	for i := range ls {
		if !ls[i].FuzzyEquals(other[i], tolerance) {
			return false
		}
	}
	return true
}

// Pose2D is a placement in the plane: a translation followed by a rotation
// by heading (radians, counter-clockwise from the x axis).
type Pose2D struct {
	Point   orb.Point
	Heading float64
}

// Transform maps a point from the local frame of the pose into the global frame
func (p Pose2D) Transform(local orb.Point) orb.Point {
	sin, cos := math.Sincos(p.Heading)
	return orb.Point{
		p.Point[0] + local[0]*cos - local[1]*sin,
		p.Point[1] + local[0]*sin + local[1]*cos,
	}
}

// Chain composes two poses: the result places the local frame of other
// inside the frame of p.
func (p Pose2D) Chain(other Pose2D) Pose2D {
	return Pose2D{
		Point:   p.Transform(other.Point),
		Heading: p.Heading + other.Heading,
	}
}

// lateralPair returns the points displaced by half to the left and to the
// right of a pose along its normal
func lateralPair(p Pose2D, half float64) (orb.Point, orb.Point) {
	sin, cos := math.Sincos(p.Heading + math.Pi/2)
	left := orb.Point{p.Point[0] + half*cos, p.Point[1] + half*sin}
	right := orb.Point{p.Point[0] - half*cos, p.Point[1] - half*sin}
	return left, right
}

func fuzzyEqualPoints(p, q orb.Point, tolerance float64) bool {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// normalizeAngle wraps an angle into (-pi, pi]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
