package odr2city

import (
	"math"

	"github.com/pkg/errors"
)

// Polygon3D is a planar ring of vertices; closure is implicit
type Polygon3D []Vector3D

// Centroid returns the vertex average of the polygon
func (p Polygon3D) Centroid() Vector3D {
	var c Vector3D
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Scale(1.0 / float64(len(p)))
}

// Normal returns the Newell normal of the polygon, normalized. Degenerate
// polygons return the zero vector.
func (p Polygon3D) Normal() Vector3D {
	var n Vector3D
	for i := range p {
		cur := p[i]
		next := p[(i+1)%len(p)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// Reverse returns the ring with opposite winding
func (p Polygon3D) Reverse() Polygon3D {
	out := make(Polygon3D, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Surface3D is a surface geometry composed of planar polygons: a linear
// ring, a planar rectangle or circle, or a discretized bounded surface
type Surface3D struct {
	Polygons []Polygon3D
}

// Polyhedron3D is a closed solid composed of triangulated faces
type Polyhedron3D struct {
	Polygons []Polygon3D
}

// ObjectPose3D places an object's local (u, v, z) frame in Cartesian space:
// translation to the origin, rotation by heading about the vertical axis
type ObjectPose3D struct {
	Origin  Vector3D
	Heading float64
}

// Transform maps a local object point into the global frame
func (p ObjectPose3D) Transform(u, v, z float64) Vector3D {
	sin, cos := math.Sincos(p.Heading)
	return Vector3D{
		X: p.Origin.X + u*cos - v*sin,
		Y: p.Origin.Y + u*sin + v*cos,
		Z: p.Origin.Z + z,
	}
}

// NewCuboid3D builds a solid box with the given dimensions, footprint
// centered on the pose origin, base at the origin height
func NewCuboid3D(pose ObjectPose3D, length, width, height float64) (*Polyhedron3D, error) {
	if length <= 0 || width <= 0 || height <= 0 {
		return nil, errors.Errorf("cuboid requires positive dimensions, got length=%f width=%f height=%f", length, width, height)
	}
	lu, lv := length/2, width/2
	bottom := Polygon3D{
		pose.Transform(-lu, -lv, 0),
		pose.Transform(lu, -lv, 0),
		pose.Transform(lu, lv, 0),
		pose.Transform(-lu, lv, 0),
	}
	top := make(Polygon3D, len(bottom))
	for i, v := range bottom {
		top[i] = Vector3D{X: v.X, Y: v.Y, Z: v.Z + height}
	}
	return assemblePrism(bottom, top)
}

// NewCylinder3D builds a solid cylinder discretized into slices
func NewCylinder3D(pose ObjectPose3D, radius, height float64, slices int) (*Polyhedron3D, error) {
	if radius <= 0 || height <= 0 {
		return nil, errors.Errorf("cylinder requires positive radius and height, got radius=%f height=%f", radius, height)
	}
	if slices < 3 {
		slices = 3
	}
	bottom := make(Polygon3D, 0, slices)
	for i := 0; i < slices; i++ {
		angle := 2 * math.Pi * float64(i) / float64(slices)
		bottom = append(bottom, pose.Transform(radius*math.Cos(angle), radius*math.Sin(angle), 0))
	}
	top := make(Polygon3D, len(bottom))
	for i, v := range bottom {
		top[i] = Vector3D{X: v.X, Y: v.Y, Z: v.Z + height}
	}
	return assemblePrism(bottom, top)
}

// assemblePrism closes a solid between two congruent rings, triangulating
// caps and side quads
func assemblePrism(bottom, top Polygon3D) (*Polyhedron3D, error) {
	if len(bottom) != len(top) || len(bottom) < 3 {
		return nil, errors.Errorf("prism requires two congruent rings with at least 3 vertices")
	}
	var faces []Polygon3D
	faces = append(faces, triangulatePolygon(bottom.Reverse())...)
	faces = append(faces, triangulatePolygon(top)...)
	n := len(bottom)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		quad := Polygon3D{bottom[i], bottom[j], top[j], top[i]}
		faces = append(faces, triangulatePolygon(quad)...)
	}
	return &Polyhedron3D{Polygons: faces}, nil
}

// NewRectangle3D builds a single planar rectangle surface
func NewRectangle3D(pose ObjectPose3D, length, width float64) (*Surface3D, error) {
	if length <= 0 || width <= 0 {
		return nil, errors.Errorf("rectangle requires positive dimensions, got length=%f width=%f", length, width)
	}
	lu, lv := length/2, width/2
	ring := Polygon3D{
		pose.Transform(-lu, -lv, 0),
		pose.Transform(lu, -lv, 0),
		pose.Transform(lu, lv, 0),
		pose.Transform(-lu, lv, 0),
	}
	return &Surface3D{Polygons: []Polygon3D{ring}}, nil
}

// NewCircle3D builds a single planar circle surface discretized into slices
func NewCircle3D(pose ObjectPose3D, radius float64, slices int) (*Surface3D, error) {
	if radius <= 0 {
		return nil, errors.Errorf("circle requires a positive radius, got %f", radius)
	}
	if slices < 3 {
		slices = 3
	}
	ring := make(Polygon3D, 0, slices)
	for i := 0; i < slices; i++ {
		angle := 2 * math.Pi * float64(i) / float64(slices)
		ring = append(ring, pose.Transform(radius*math.Cos(angle), radius*math.Sin(angle), 0))
	}
	return &Surface3D{Polygons: []Polygon3D{ring}}, nil
}

// NewLinearRing3D builds a surface from one explicit ring; the ring must
// already be cleaned and non-degenerate
func NewLinearRing3D(ring []Vector3D) (*Surface3D, error) {
	if len(ring) < 3 {
		return nil, errors.Errorf("linear ring requires at least 3 vertices, got %d", len(ring))
	}
	return &Surface3D{Polygons: []Polygon3D{Polygon3D(ring)}}, nil
}

// stripSurface closes the area between two polylines of equal vertex count
// with quads, used for bounded surfaces and lane fillers
func stripSurface(first, second LineString3D) (*Surface3D, error) {
	if len(first) != len(second) || len(first) < 2 {
		return nil, errors.Errorf("strip surface requires two polylines of equal vertex count >= 2")
	}
	polygons := make([]Polygon3D, 0, len(first)-1)
	for i := 0; i < len(first)-1; i++ {
		quad := Polygon3D{first[i], first[i+1], second[i+1], second[i]}
		polygons = append(polygons, quad)
	}
	return &Surface3D{Polygons: polygons}, nil
}

// sweepSolid closes a solid along four polylines forming the corners of a
// swept rectangular cross section: bottom-left, bottom-right, top-right,
// top-left, all with equal vertex count
func sweepSolid(bl, br, tr, tl LineString3D) (*Polyhedron3D, error) {
	n := len(bl)
	if len(br) != n || len(tr) != n || len(tl) != n || n < 2 {
		return nil, errors.Errorf("parametric sweep requires four polylines of equal vertex count >= 2")
	}
	var faces []Polygon3D
	addStrip := func(a, b LineString3D) {
		for i := 0; i < n-1; i++ {
			faces = append(faces, triangulatePolygon(Polygon3D{a[i], a[i+1], b[i+1], b[i]})...)
		}
	}
	addStrip(br, bl) // bottom
	addStrip(tl, tr) // top
	addStrip(bl, tl) // left wall
	addStrip(tr, br) // right wall
	// end caps
	faces = append(faces, triangulatePolygon(Polygon3D{bl[0], br[0], tr[0], tl[0]})...)
	faces = append(faces, triangulatePolygon(Polygon3D{tl[n-1], tr[n-1], br[n-1], bl[n-1]})...)
	return &Polyhedron3D{Polygons: faces}, nil
}
