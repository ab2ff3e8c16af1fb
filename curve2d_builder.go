package odr2city

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// buildCurve2DFromPlanViewGeometries composes the ordered plan view segments
// of a road into one continuous curve. Segments not exceeding the tolerance
// in length are filtered with a warning; a declared length disagreeing with
// the next segment's start position is corrected to the implied length, also
// with a warning. The final segment's domain is closed, all earlier ones are
// half-open.
func buildCurve2DFromPlanViewGeometries(geometries []GeometryElement, offset orb.Point, tolerance float64, report *Report, context string) (*CompositeCurve2D, error) {
	kept := make([]GeometryElement, 0, len(geometries))
	for _, geometry := range geometries {
		if !isFinite(geometry.Length) || geometry.Length <= tolerance {
			report.Warnf(context, "filtered plan view geometry at s=%f with length %f below tolerance", geometry.S, geometry.Length)
			continue
		}
		kept = append(kept, geometry)
	}
	if len(kept) == 0 {
		return nil, errors.Errorf("no plan view geometry with length above tolerance")
	}

	sStart := kept[0].S
	members := make([]curveMember, 0, len(kept))
	for i, geometry := range kept {
		length := geometry.Length
		var domain Range
		if i+1 < len(kept) {
			implied := kept[i+1].S - geometry.S
			if math.Abs(implied-length) > tolerance {
				report.Warnf(context, "plan view geometry at s=%f declares length %f but next segment implies %f, using the implied length", geometry.S, length, implied)
			}
			length = implied
			domain = NewRange(geometry.S-sStart, geometry.S-sStart+length)
		} else {
			domain = NewClosedRange(geometry.S-sStart, geometry.S-sStart+length)
		}

		primitive, err := buildCurvePrimitive(geometry, length)
		if err != nil {
			return nil, errors.Wrapf(err, "plan view geometry at s=%f", geometry.S)
		}
		members = append(members, curveMember{
			primitive: primitive,
			pose: Pose2D{
				Point:   orb.Point{geometry.X + offset[0], geometry.Y + offset[1]},
				Heading: geometry.Hdg,
			},
			domain: domain,
		})
	}

	return &CompositeCurve2D{
		members:   members,
		domain:    NewClosedRange(0, members[len(members)-1].domain.End),
		tolerance: tolerance,
	}, nil
}

// buildCurvePrimitive dispatches on the declared geometry kind
func buildCurvePrimitive(geometry GeometryElement, length float64) (curvePrimitive, error) {
	switch {
	case geometry.Arc != nil:
		if geometry.Arc.Curvature == 0 {
			return lineSegment2D{}, nil
		}
		return arc2D{curvature: geometry.Arc.Curvature}, nil
	case geometry.Spiral != nil:
		return spiral2D{
			curvStart: geometry.Spiral.CurvStart,
			curvEnd:   geometry.Spiral.CurvEnd,
			length:    length,
		}, nil
	case geometry.Poly3 != nil:
		p := geometry.Poly3
		return cubic2D{poly: NewCubicFunction(p.A, p.B, p.C, p.D, NewClosedRange(0, length))}, nil
	case geometry.ParamPoly3 != nil:
		p := geometry.ParamPoly3
		normalized := strings.EqualFold(p.PRange, "normalized") || p.PRange == ""
		paramDomain := NewClosedRange(0, length)
		if normalized {
			paramDomain = NewClosedRange(0, 1)
		}
		return parametricCubic2D{
			u:          NewCubicFunction(p.AU, p.BU, p.CU, p.DU, paramDomain),
			v:          NewCubicFunction(p.AV, p.BV, p.CV, p.DV, paramDomain),
			length:     length,
			normalized: normalized,
		}, nil
	case geometry.Line != nil:
		return lineSegment2D{}, nil
	default:
		// No kind sub-element at all; treat as line, the least surprising
		// reading of a bare geometry record.
		return lineSegment2D{}, nil
	}
}

// buildLateralTranslatedCurve restricts the reference curve to the window
// [start, start+length] of a repeat record and offsets it laterally by the
// given function (window-local domain). Fails when the window is not fully
// enclosed by the curve's domain.
func buildLateralTranslatedCurve(base *CompositeCurve2D, offset UnivariateFunction, window Range) (*LateralTranslatedCurve2D, error) {
	if !base.Domain().Encloses(window, base.Tolerance()) {
		return nil, errors.Errorf("window %s is not enclosed by the curve domain %s", window, base.Domain())
	}
	return &LateralTranslatedCurve2D{
		base:   base,
		offset: offset,
		window: window,
		domain: NewClosedRange(0, window.Length()),
	}, nil
}
