package odr2city

import (
	"math"

	"github.com/paulmach/orb"
)

// triangulatePolygon splits a planar ring into triangles by ear clipping.
// The ring is projected onto its dominant plane first; a polygon that resists
// clipping (numerically degenerate) falls back to fan triangulation so that a
// face is never silently lost.
func triangulatePolygon(polygon Polygon3D) []Polygon3D {
	if len(polygon) < 3 {
		return nil
	}
	if len(polygon) == 3 {
		return []Polygon3D{polygon}
	}

	projected := projectToPlane(polygon)
	indices := make([]int, len(polygon))
	for i := range indices {
		indices[i] = i
	}
	// Walk with consistent counter-clockwise orientation in projection space.
	if ringOrientation(projected) < 0 {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}

	var triangles []Polygon3D
	guard := 0
	for len(indices) > 3 && guard < len(polygon)*len(polygon) {
		guard++
		clipped := false
		for i := 0; i < len(indices); i++ {
			prev := indices[(i-1+len(indices))%len(indices)]
			cur := indices[i]
			next := indices[(i+1)%len(indices)]
			if !isEar(projected, indices, prev, cur, next) {
				continue
			}
			triangles = append(triangles, Polygon3D{polygon[prev], polygon[cur], polygon[next]})
			indices = append(indices[:i], indices[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}
	if len(indices) == 3 {
		triangles = append(triangles, Polygon3D{polygon[indices[0]], polygon[indices[1]], polygon[indices[2]]})
		return triangles
	}
	if len(indices) > 3 {
		// Fallback fan over the remaining vertices.
		for i := 1; i < len(indices)-1; i++ {
			triangles = append(triangles, Polygon3D{polygon[indices[0]], polygon[indices[i]], polygon[indices[i+1]]})
		}
	}
	return triangles
}

// projectToPlane drops the coordinate axis most aligned with the polygon
// normal
func projectToPlane(polygon Polygon3D) []orb.Point {
	normal := polygon.Normal()
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)
	projected := make([]orb.Point, len(polygon))
	for i, v := range polygon {
		switch {
		case ax >= ay && ax >= az:
			projected[i] = orb.Point{v.Y, v.Z}
		case ay >= az:
			projected[i] = orb.Point{v.X, v.Z}
		default:
			projected[i] = orb.Point{v.X, v.Y}
		}
	}
	return projected
}

// ringOrientation returns a positive value for counter-clockwise rings
func ringOrientation(points []orb.Point) float64 {
	sum := 0.0
	for i := range points {
		p := points[i]
		q := points[(i+1)%len(points)]
		sum += (q[0] - p[0]) * (q[1] + p[1])
	}
	return -sum
}

func isEar(points []orb.Point, indices []int, prev, cur, next int) bool {
	a, b, c := points[prev], points[cur], points[next]
	if cross2D(a, b, c) <= 0 {
		return false
	}
	for _, idx := range indices {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangle(points[idx], a, b, c) {
			return false
		}
	}
	return true
}

func cross2D(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func pointInTriangle(p, a, b, c orb.Point) bool {
	d1 := cross2D(a, b, p)
	d2 := cross2D(b, c, p)
	d3 := cross2D(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
