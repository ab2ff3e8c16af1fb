package odr2city

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// Curve2D is a plan view curve parameterized by arc length
type Curve2D interface {
	Domain() Range
	PointAt(s float64) (orb.Point, error)
	PoseAt(s float64) (Pose2D, error)
}

// curvePrimitive is one plan view geometry kind evaluated in its local
// frame, with s running over [0, length]
type curvePrimitive interface {
	localPointAt(s float64) orb.Point
	localHeadingAt(s float64) float64
}

/* Primitives */

// lineSegment2D is a straight segment along the local x axis
type lineSegment2D struct{}

func (lineSegment2D) localPointAt(s float64) orb.Point {
	return orb.Point{s, 0}
}

func (lineSegment2D) localHeadingAt(s float64) float64 {
	return 0
}

// arc2D has constant curvature; positive curvature bends left
type arc2D struct {
	curvature float64
}

func (a arc2D) localPointAt(s float64) orb.Point {
	k := a.curvature
	return orb.Point{math.Sin(k*s) / k, (1 - math.Cos(k*s)) / k}
}

func (a arc2D) localHeadingAt(s float64) float64 {
	return a.curvature * s
}

// cubic2D is v = a + b*u + c*u^2 + d*u^3 with the arc length approximated by
// the u coordinate, which is how OpenDRIVE poly3 geometries are declared
type cubic2D struct {
	poly CubicFunction
}

func (c cubic2D) localPointAt(s float64) orb.Point {
	v, _ := c.poly.Value(s)
	return orb.Point{s, v}
}

func (c cubic2D) localHeadingAt(s float64) float64 {
	return math.Atan(c.poly.Slope(s))
}

// parametricCubic2D is (u(p), v(p)) with both coordinates cubic in the
// parameter p. For normalized geometries p runs over [0,1] and the curve
// parameter is rescaled by the segment length; otherwise p is the arc length
// itself.
type parametricCubic2D struct {
	u, v       CubicFunction
	length     float64
	normalized bool
}

func (c parametricCubic2D) parameter(s float64) float64 {
	if c.normalized && c.length > 0 {
		return s / c.length
	}
	return s
}

func (c parametricCubic2D) localPointAt(s float64) orb.Point {
	p := c.parameter(s)
	u, _ := c.u.Value(p)
	v, _ := c.v.Value(p)
	return orb.Point{u, v}
}

func (c parametricCubic2D) localHeadingAt(s float64) float64 {
	p := c.parameter(s)
	return math.Atan2(c.v.Slope(p), c.u.Slope(p))
}

/* Composite curve */

// curveMember is one placed segment of a composite curve. The domain is the
// absolute arc length interval along the road; the primitive is evaluated in
// member-local arc length and placed by the pose.
type curveMember struct {
	primitive curvePrimitive
	pose      Pose2D
	domain    Range
}

// CompositeCurve2D joins placed plan view segments into one continuous curve
// with random access by absolute arc length. Member domains are contiguous
// and half-open except for the final one.
type CompositeCurve2D struct {
	members   []curveMember
	domain    Range
	tolerance float64
}

// Domain returns the absolute arc length interval of the whole curve
func (c *CompositeCurve2D) Domain() Range {
	return c.domain
}

// Length returns total arc length
func (c *CompositeCurve2D) Length() float64 {
	return c.domain.Length()
}

// Tolerance returns the epsilon all fuzzy decisions on this curve use
func (c *CompositeCurve2D) Tolerance() float64 {
	return c.tolerance
}

func (c *CompositeCurve2D) memberAt(s float64) (*curveMember, error) {
	if !c.domain.Contains(s, c.tolerance) {
		return nil, errors.Errorf("curve position %f outside of curve domain %s", s, c.domain)
	}
	s = c.domain.Clamp(s)
	lo, hi := 0, len(c.members)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if c.members[mid].domain.End <= s {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return &c.members[lo], nil
}

// PointAt evaluates the curve at absolute arc length s
func (c *CompositeCurve2D) PointAt(s float64) (orb.Point, error) {
	member, err := c.memberAt(s)
	if err != nil {
		return orb.Point{}, err
	}
	local := c.domain.Clamp(s) - member.domain.Start
	return member.pose.Transform(member.primitive.localPointAt(local)), nil
}

// PoseAt evaluates position and tangent heading at absolute arc length s
func (c *CompositeCurve2D) PoseAt(s float64) (Pose2D, error) {
	member, err := c.memberAt(s)
	if err != nil {
		return Pose2D{}, err
	}
	local := c.domain.Clamp(s) - member.domain.Start
	return Pose2D{
		Point:   member.pose.Transform(member.primitive.localPointAt(local)),
		Heading: normalizeAngle(member.pose.Heading + member.primitive.localHeadingAt(local)),
	}, nil
}

/* Laterally translated curve */

// LateralTranslatedCurve2D offsets a base curve along its local normal by a
// not-necessarily-constant function, restricted to a window of the base
// domain. Its own parameter runs window-local from 0.
type LateralTranslatedCurve2D struct {
	base    Curve2D
	offset  UnivariateFunction
	window  Range
	domain  Range
}

// Domain returns the window-local parameter interval starting at 0
func (c *LateralTranslatedCurve2D) Domain() Range {
	return c.domain
}

// PointAt evaluates the translated curve at window-local arc length s
func (c *LateralTranslatedCurve2D) PointAt(s float64) (orb.Point, error) {
	pose, err := c.PoseAt(s)
	if err != nil {
		return orb.Point{}, err
	}
	return pose.Point, nil
}

// PoseAt evaluates position and heading at window-local arc length s. The
// heading is taken from the base curve; for small offsets it is the
// practical tangent direction of the translated curve.
func (c *LateralTranslatedCurve2D) PoseAt(s float64) (Pose2D, error) {
	basePose, err := c.base.PoseAt(c.window.Start + s)
	if err != nil {
		return Pose2D{}, err
	}
	t, err := c.offset.Value(s)
	if err != nil {
		return Pose2D{}, errors.Wrap(err, "can't evaluate lateral offset")
	}
	sin, cos := math.Sincos(basePose.Heading + math.Pi/2)
	return Pose2D{
		Point:   orb.Point{basePose.Point[0] + t*cos, basePose.Point[1] + t*sin},
		Heading: basePose.Heading,
	}, nil
}

// discretizeCurve2D samples a curve at the given step, always including the
// domain end point
func discretizeCurve2D(curve Curve2D, step float64) (orb.LineString, error) {
	domain := curve.Domain()
	line := make(orb.LineString, 0, int(domain.Length()/step)+2)
	for s := domain.Start; s < domain.End; s += step {
		pt, err := curve.PointAt(s)
		if err != nil {
			return nil, err
		}
		line = append(line, pt)
	}
	pt, err := curve.PointAt(domain.End)
	if err != nil {
		return nil, err
	}
	line = append(line, pt)
	return line, nil
}
