package odr2city

import (
	"github.com/pkg/errors"
)

// Curve3D is a space curve parameterized by the plan view arc length
type Curve3D interface {
	Domain() Range
	PointAt(s float64) (Vector3D, error)
}

// Curve3DOnTop lifts a plan view curve into 3D by a height function. The
// road reference line is the plan view curve on top of the elevation
// profile.
type Curve3DOnTop struct {
	planView Curve2D
	height   UnivariateFunction
}

// NewCurve3DOnTop combines a plan view curve with a height function
func NewCurve3DOnTop(planView Curve2D, height UnivariateFunction) *Curve3DOnTop {
	return &Curve3DOnTop{planView: planView, height: height}
}

// Domain returns the arc length interval of the plan view curve
func (c *Curve3DOnTop) Domain() Range {
	return c.planView.Domain()
}

// PointAt evaluates the 3D curve at arc length s
func (c *Curve3DOnTop) PointAt(s float64) (Vector3D, error) {
	pt, err := c.planView.PointAt(s)
	if err != nil {
		return Vector3D{}, err
	}
	z, err := c.height.Value(c.height.Domain().Clamp(s))
	if err != nil {
		return Vector3D{}, errors.Wrap(err, "can't evaluate height function")
	}
	return Vector3D{X: pt[0], Y: pt[1], Z: z}, nil
}

// PoseAt evaluates the plan view pose under the 3D point
func (c *Curve3DOnTop) PoseAt(s float64) (Pose2D, error) {
	return c.planView.PoseAt(s)
}

// Discretize samples the curve at the given step, always including the
// domain end point
func (c *Curve3DOnTop) Discretize(step float64) (LineString3D, error) {
	return discretizeCurve3D(c, step)
}

// DiscretizeCurve samples any 3D curve at the given step, always including
// the domain end point
func DiscretizeCurve(curve Curve3D, step float64) (LineString3D, error) {
	return discretizeCurve3D(curve, step)
}

// restrictCurve3D limits a curve to a window of its domain. Road markings
// run over a sub-range of their lane section.
func restrictCurve3D(curve Curve3D, window Range, tolerance float64) (Curve3D, error) {
	if !curve.Domain().Encloses(window, tolerance) {
		return nil, errors.Errorf("window %s exceeds the curve domain %s", window, curve.Domain())
	}
	return restrictedCurve3D{inner: curve, window: window}, nil
}

type restrictedCurve3D struct {
	inner  Curve3D
	window Range
}

// Domain returns the restriction window
func (c restrictedCurve3D) Domain() Range {
	return c.window
}

// PointAt evaluates the inner curve at arc length s
func (c restrictedCurve3D) PointAt(s float64) (Vector3D, error) {
	return c.inner.PointAt(s)
}

func discretizeCurve3D(curve Curve3D, step float64) (LineString3D, error) {
	domain := curve.Domain()
	line := make(LineString3D, 0, int(domain.Length()/step)+2)
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
