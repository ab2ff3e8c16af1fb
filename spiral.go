package odr2city

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/integrate/quad"
)

// spiral2D is an Euler spiral segment: the curvature interpolates linearly
// from curvStart to curvEnd over the segment length. The local position is
// the integral of the heading, evaluated with Gauss-Legendre quadrature;
// closed-form Fresnel terms do not cover the general start-curvature case.
type spiral2D struct {
	curvStart float64
	curvEnd   float64
	length    float64
}

// quadraturePoints per unit spiral evaluation. The heading polynomial is
// quadratic, so a moderate node count keeps the position error far below
// geometric tolerances.
const spiralQuadraturePoints = 20

func (sp spiral2D) curvatureSlope() float64 {
	if sp.length == 0 {
		return 0
	}
	return (sp.curvEnd - sp.curvStart) / sp.length
}

func (sp spiral2D) localHeadingAt(s float64) float64 {
	return sp.curvStart*s + sp.curvatureSlope()*s*s/2
}

func (sp spiral2D) localPointAt(s float64) orb.Point {
	if s == 0 {
		return orb.Point{0, 0}
	}
	x := quad.Fixed(func(u float64) float64 {
		return math.Cos(sp.localHeadingAt(u))
	}, 0, s, spiralQuadraturePoints, nil, 0)
	y := quad.Fixed(func(u float64) float64 {
		return math.Sin(sp.localHeadingAt(u))
	}, 0, s, spiralQuadraturePoints, nil, 0)
	return orb.Point{x, y}
}
