package odr2city

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// CurveRelativeVector is a position expressed relative to a reference curve:
// arc length along the curve, lateral offset t (positive left) and vertical
// offset h.
type CurveRelativeVector struct {
	S float64
	T float64
	H float64
}

// CurveRelativeSurface3D is the road surface: a 3D reference line with a
// torsion (superelevation) function that rotates the cross section about the
// tangent, plus an optional lateral shape lifting the cross section
// t-dependently. A zero torsion function and nil shape yield the flat twin
// needed for level lanes.
type CurveRelativeSurface3D struct {
	refLine   *Curve3DOnTop
	torsion   UnivariateFunction
	shape     *ShapeProfile
	domain    Range
	tolerance float64
}

// NewCurveRelativeSurface3D builds the surface over the reference line's
// domain
func NewCurveRelativeSurface3D(refLine *Curve3DOnTop, torsion UnivariateFunction, tolerance float64) *CurveRelativeSurface3D {
	return NewShapedCurveRelativeSurface3D(refLine, torsion, nil, tolerance)
}

// NewShapedCurveRelativeSurface3D builds the surface with a lateral shape
// profile; a nil shape leaves the cross section planar
func NewShapedCurveRelativeSurface3D(refLine *Curve3DOnTop, torsion UnivariateFunction, shape *ShapeProfile, tolerance float64) *CurveRelativeSurface3D {
	return &CurveRelativeSurface3D{
		refLine:   refLine,
		torsion:   torsion,
		shape:     shape,
		domain:    refLine.Domain(),
		tolerance: tolerance,
	}
}

// Domain returns the curve position interval of the surface
func (srf *CurveRelativeSurface3D) Domain() Range {
	return srf.domain
}

// Tolerance returns the epsilon all fuzzy decisions on this surface use
func (srf *CurveRelativeSurface3D) Tolerance() float64 {
	return srf.tolerance
}

// PointAt maps a curve-relative position into Cartesian space. The lateral
// axis is the plan view normal rotated about the tangent by the torsion
// angle; the vertical axis completes the frame.
func (srf *CurveRelativeSurface3D) PointAt(crv CurveRelativeVector) (Vector3D, error) {
	origin, err := srf.refLine.PointAt(crv.S)
	if err != nil {
		return Vector3D{}, err
	}
	pose, err := srf.refLine.PoseAt(crv.S)
	if err != nil {
		return Vector3D{}, err
	}
	phi, err := srf.torsion.Value(srf.torsion.Domain().Clamp(crv.S))
	if err != nil {
		return Vector3D{}, errors.Wrap(err, "can't evaluate torsion function")
	}

	sinH, cosH := math.Sincos(pose.Heading)
	tangent := Vector3D{X: cosH, Y: sinH}
	normal := Vector3D{X: -sinH, Y: cosH}
	up := Vector3D{Z: 1}

	// Positive superelevation lowers the left side of the cross section,
	// matching the OpenDRIVE sign convention.
	sinP, cosP := math.Sincos(phi)
	lateral := normal.Scale(cosP).Sub(up.Scale(sinP))
	vertical := tangent.Cross(lateral)

	h := crv.H
	if srf.shape != nil {
		lift, err := srf.shape.Value(srf.domain.Clamp(crv.S), crv.T)
		if err != nil {
			return Vector3D{}, errors.Wrap(err, "can't evaluate shape profile")
		}
		h += lift
	}

	return origin.Add(lateral.Scale(crv.T)).Add(vertical.Scale(h)), nil
}

/* Lateral road shape */

// shapeStation is the cross section shape at one curve position: cubic
// polynomials over the lateral offset, each in local coordinates from its
// own t start.
type shapeStation struct {
	s       float64
	starts  []float64
	members []CubicFunction
}

func (st shapeStation) value(t float64) (float64, error) {
	idx := sort.SearchFloat64s(st.starts, t)
	if idx == len(st.starts) || st.starts[idx] > t {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	return st.members[idx].Value(t - st.starts[idx])
}

// ShapeProfile is the lateral road shape: per curve position station a
// piecewise cubic over the lateral offset, linearly interpolated between
// stations along the curve. Before the first and after the last station the
// nearest station continues.
type ShapeProfile struct {
	stations []shapeStation
	starts   []float64
}

// Value evaluates the vertical shape lift at curve position s and lateral
// offset t
func (p *ShapeProfile) Value(s, t float64) (float64, error) {
	idx := sort.SearchFloat64s(p.starts, s)
	if idx == len(p.starts) || p.starts[idx] > s {
		idx--
	}
	if idx < 0 {
		return p.stations[0].value(t)
	}
	here, err := p.stations[idx].value(t)
	if err != nil || idx+1 == len(p.stations) {
		return here, err
	}
	next, err := p.stations[idx+1].value(t)
	if err != nil {
		return 0, err
	}
	span := p.starts[idx+1] - p.starts[idx]
	factor := (s - p.starts[idx]) / span
	return here + factor*(next-here), nil
}

/* Sectioned surface */

// SectionedSurface3D restricts a road surface to a lane section window and
// rebases its curve positions to start at 0, which is the coordinate frame
// all lane math runs in.
type SectionedSurface3D struct {
	base   *CurveRelativeSurface3D
	window Range
	domain Range
}

// NewSectionedSurface3D restricts the base surface to the window. The window
// must be enclosed by the base domain; violating this is a defect in the
// sectioning logic, not in the input.
func NewSectionedSurface3D(base *CurveRelativeSurface3D, window Range) (*SectionedSurface3D, error) {
	if !base.Domain().Encloses(window, base.Tolerance()) {
		return nil, errors.Errorf("section window %s exceeds the surface domain %s", window, base.Domain())
	}
	return &SectionedSurface3D{
		base:   base,
		window: window,
		domain: Range{Start: 0, End: window.Length(), ClosedEnd: window.ClosedEnd},
	}, nil
}

// Domain returns the section-local curve position interval starting at 0
func (srf *SectionedSurface3D) Domain() Range {
	return srf.domain
}

// Tolerance returns the epsilon of the underlying surface
func (srf *SectionedSurface3D) Tolerance() float64 {
	return srf.base.Tolerance()
}

// PointAt maps a section-local curve-relative position into Cartesian space
func (srf *SectionedSurface3D) PointAt(crv CurveRelativeVector) (Vector3D, error) {
	if !srf.domain.Contains(crv.S, srf.base.tolerance) {
		return Vector3D{}, errors.Errorf("curve position %f outside of section domain %s", crv.S, srf.domain)
	}
	crv.S = srf.window.Start + srf.domain.Clamp(crv.S)
	return srf.base.PointAt(crv)
}

/* Curve lying on a surface */

// curveOnSurface is a 3D curve defined by a sectioned surface and lateral
// and vertical offset functions in section-local coordinates
type curveOnSurface struct {
	surface  *SectionedSurface3D
	lateral  UnivariateFunction
	vertical UnivariateFunction
}

// Domain returns the section-local curve position interval
func (c curveOnSurface) Domain() Range {
	return c.surface.Domain()
}

// PointAt evaluates the curve at section-local arc length s
func (c curveOnSurface) PointAt(s float64) (Vector3D, error) {
	t, err := c.lateral.Value(s)
	if err != nil {
		return Vector3D{}, errors.Wrap(err, "can't evaluate lateral offset")
	}
	h, err := c.vertical.Value(s)
	if err != nil {
		return Vector3D{}, errors.Wrap(err, "can't evaluate vertical offset")
	}
	return c.surface.PointAt(CurveRelativeVector{S: s, T: t, H: h})
}
