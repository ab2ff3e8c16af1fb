package odr2city

import (
	"github.com/pkg/errors"
)

// buildFromRepeatRecord constructs the geometry of one repeat record
// according to its classified kind. Unsupported kinds are reported and yield
// no object (nil, nil), not an error.
func (b *roadspaceObjectBuilder) buildFromRepeatRecord(id RoadspaceObjectIdentifier, record RoadObjectElement, repeat RepeatElement) (*RoadspaceObject, error) {
	kind := classifyRepeat(repeat, record, b.tolerance)
	context := id.String()

	switch kind {
	case REPEAT_KIND_REPEATED_CUBOID, REPEAT_KIND_REPEATED_CYLINDER:
		b.report.Warnf(context, "repeat record of kind %s is not supported and was not built", kind)
		return nil, nil
	case REPEAT_KIND_MIXED_WIDTH_RADIUS:
		b.report.Warnf(context, "repeat record declares both non-zero width and non-zero radius, which is not clearly specified; not built")
		return nil, nil
	case REPEAT_KIND_UNKNOWN:
		b.report.Warnf(context, "repeat record matches no constructible kind and was not built")
		return nil, nil
	}

	window := NewClosedRange(repeat.S, repeat.S+repeat.Length)
	local := NewClosedRange(0, window.Length())
	lateral := NewLinearFunctionFromEndpoints(repeat.TStart, repeat.TEnd, local)
	baseHeight := buildStackedHeightFunction(b.elevation, repeat, window)

	translated, err := buildLateralTranslatedCurve(b.refLine, lateral, window)
	if err != nil {
		return nil, errors.Wrap(err, "can't restrict the reference curve to the repeat window")
	}

	widthStart, widthEnd := repeatEndpoints(repeat.WidthStart, repeat.WidthEnd, record.Width)
	heightStart, heightEnd := repeat.HeightStart, repeat.HeightEnd
	if heightStart == 0 && heightEnd == 0 && record.Height != nil && isFinite(*record.Height) {
		heightStart, heightEnd = *record.Height, *record.Height
	}
	width := NewLinearFunctionFromEndpoints(widthStart, widthEnd, local)
	height := NewLinearFunctionFromEndpoints(heightStart, heightEnd, local)

	var geometry ObjectGeometry
	switch kind {
	case REPEAT_KIND_CURVE:
		curve, err := NewCurve3DOnTop(translated, baseHeight).Discretize(b.step)
		if err != nil {
			return nil, err
		}
		geometry = CurveGeometry(curve)
	case REPEAT_KIND_HORIZONTAL_SURFACE:
		left, right, err := b.sweepBoundaries(translated, baseHeight, width)
		if err != nil {
			return nil, err
		}
		surface, err := stripSurface(left, right)
		if err != nil {
			return nil, err
		}
		geometry = SurfaceGeometry(surface)
	case REPEAT_KIND_VERTICAL_SURFACE:
		bottom, top, err := b.sweepVerticalBoundaries(translated, baseHeight, height)
		if err != nil {
			return nil, err
		}
		surface, err := stripSurface(bottom, top)
		if err != nil {
			return nil, err
		}
		geometry = SurfaceGeometry(surface)
	case REPEAT_KIND_PARAMETRIC_SWEEP:
		solid, err := b.sweepParametricSolid(translated, baseHeight, width, height)
		if err != nil {
			return nil, err
		}
		geometry = SolidGeometry(solid)
	}

	attributes := objectAttributes(record)
	attributes.AddString("repeatKind", kind.String())
	return &RoadspaceObject{
		ID:         id,
		Name:       record.Name,
		Type:       ParseRoadspaceObjectType(record.Type),
		Geometry:   geometry,
		Attributes: attributes,
	}, nil
}

// sweepSamples returns the sample positions across the window-local domain,
// always including the end
func sweepSamples(domain Range, step float64) []float64 {
	samples := make([]float64, 0, int(domain.Length()/step)+2)
	for s := domain.Start; s < domain.End; s += step {
		samples = append(samples, s)
	}
	return append(samples, domain.End)
}

// sweepBoundaries discretizes the left and right edges of a horizontal band
// of the given width centered on the translated curve, lifted to the base
// height
func (b *roadspaceObjectBuilder) sweepBoundaries(curve *LateralTranslatedCurve2D, baseHeight, width UnivariateFunction) (LineString3D, LineString3D, error) {
	samples := sweepSamples(curve.Domain(), b.step)
	left := make(LineString3D, 0, len(samples))
	right := make(LineString3D, 0, len(samples))
	for _, s := range samples {
		pose, err := curve.PoseAt(s)
		if err != nil {
			return nil, nil, err
		}
		z, err := baseHeight.Value(s)
		if err != nil {
			return nil, nil, err
		}
		w, err := width.Value(s)
		if err != nil {
			return nil, nil, err
		}
		leftPt, rightPt := lateralPair(pose, w/2)
		left = append(left, Vector3D{X: leftPt[0], Y: leftPt[1], Z: z})
		right = append(right, Vector3D{X: rightPt[0], Y: rightPt[1], Z: z})
	}
	return left, right, nil
}

// sweepVerticalBoundaries discretizes the bottom and top edges of a vertical
// band standing on the translated curve
func (b *roadspaceObjectBuilder) sweepVerticalBoundaries(curve *LateralTranslatedCurve2D, baseHeight, height UnivariateFunction) (LineString3D, LineString3D, error) {
	samples := sweepSamples(curve.Domain(), b.step)
	bottom := make(LineString3D, 0, len(samples))
	top := make(LineString3D, 0, len(samples))
	for _, s := range samples {
		pt, err := curve.PointAt(s)
		if err != nil {
			return nil, nil, err
		}
		z, err := baseHeight.Value(s)
		if err != nil {
			return nil, nil, err
		}
		h, err := height.Value(s)
		if err != nil {
			return nil, nil, err
		}
		bottom = append(bottom, Vector3D{X: pt[0], Y: pt[1], Z: z})
		top = append(top, Vector3D{X: pt[0], Y: pt[1], Z: z + h})
	}
	return bottom, top, nil
}

// sweepParametricSolid sweeps a rectangular cross section of interpolated
// width and height along the translated curve and closes it into a solid
func (b *roadspaceObjectBuilder) sweepParametricSolid(curve *LateralTranslatedCurve2D, baseHeight, width, height UnivariateFunction) (*Polyhedron3D, error) {
	samples := sweepSamples(curve.Domain(), b.step)
	bl := make(LineString3D, 0, len(samples))
	br := make(LineString3D, 0, len(samples))
	tr := make(LineString3D, 0, len(samples))
	tl := make(LineString3D, 0, len(samples))
	for _, s := range samples {
		pose, err := curve.PoseAt(s)
		if err != nil {
			return nil, err
		}
		z, err := baseHeight.Value(s)
		if err != nil {
			return nil, err
		}
		w, err := width.Value(s)
		if err != nil {
			return nil, err
		}
		h, err := height.Value(s)
		if err != nil {
			return nil, err
		}
		leftPt, rightPt := lateralPair(pose, w/2)
		bl = append(bl, Vector3D{X: leftPt[0], Y: leftPt[1], Z: z})
		br = append(br, Vector3D{X: rightPt[0], Y: rightPt[1], Z: z})
		tl = append(tl, Vector3D{X: leftPt[0], Y: leftPt[1], Z: z + h})
		tr = append(tr, Vector3D{X: rightPt[0], Y: rightPt[1], Z: z + h})
	}
	return sweepSolid(bl, br, tr, tl)
}
