package odr2city

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// objectShape is the overall shape classification of a road object, decided
// by which of its dimension fields are defined
type objectShape uint16

const (
	OBJECT_SHAPE_POINT = objectShape(iota)
	OBJECT_SHAPE_CUBOID
	OBJECT_SHAPE_RECTANGLE
	OBJECT_SHAPE_CYLINDER
	OBJECT_SHAPE_CIRCLE
)

// String returns pretty printed value for objectShape
func (s objectShape) String() string {
	switch s {
	case OBJECT_SHAPE_CUBOID:
		return "cuboid"
	case OBJECT_SHAPE_RECTANGLE:
		return "rectangle"
	case OBJECT_SHAPE_CYLINDER:
		return "cylinder"
	case OBJECT_SHAPE_CIRCLE:
		return "circle"
	default:
		return "point"
	}
}

func definedPositive(value *float64, tolerance float64) bool {
	return value != nil && isFinite(*value) && *value > tolerance
}

// classifyObjectShape is the strict decision tree over the defined dimension
// fields of an object. Point is the fallback when no more specific shape
// matches.
func classifyObjectShape(object RoadObjectElement, tolerance float64) objectShape {
	length := definedPositive(object.Length, tolerance)
	width := definedPositive(object.Width, tolerance)
	height := definedPositive(object.Height, tolerance)
	radius := definedPositive(object.Radius, tolerance)

	switch {
	case length && width && height:
		return OBJECT_SHAPE_CUBOID
	case length && width:
		return OBJECT_SHAPE_RECTANGLE
	case radius && height:
		return OBJECT_SHAPE_CYLINDER
	case radius:
		return OBJECT_SHAPE_CIRCLE
	default:
		return OBJECT_SHAPE_POINT
	}
}

/* Repeat record classification */

// repeatKind is the geometry kind a repeat record constructs, decided by the
// fixed table over continuous/length/width/height (and radius for the
// circular variants)
type repeatKind uint16

const (
	REPEAT_KIND_UNKNOWN = repeatKind(iota)
	REPEAT_KIND_PARAMETRIC_SWEEP
	REPEAT_KIND_CURVE
	REPEAT_KIND_HORIZONTAL_SURFACE
	REPEAT_KIND_VERTICAL_SURFACE
	REPEAT_KIND_REPEATED_CUBOID
	REPEAT_KIND_REPEATED_CYLINDER
	REPEAT_KIND_MIXED_WIDTH_RADIUS
)

// String returns pretty printed value for repeatKind
func (k repeatKind) String() string {
	switch k {
	case REPEAT_KIND_PARAMETRIC_SWEEP:
		return "parametricSweep"
	case REPEAT_KIND_CURVE:
		return "curve"
	case REPEAT_KIND_HORIZONTAL_SURFACE:
		return "horizontalBoundedSurface"
	case REPEAT_KIND_VERTICAL_SURFACE:
		return "verticalBoundedSurface"
	case REPEAT_KIND_REPEATED_CUBOID:
		return "repeatedCuboid"
	case REPEAT_KIND_REPEATED_CYLINDER:
		return "repeatedCylinder"
	case REPEAT_KIND_MIXED_WIDTH_RADIUS:
		return "mixedWidthRadius"
	default:
		return "unknown"
	}
}

// repeatEndpoints resolves a start/end value pair, falling back to a fixed
// object dimension; fully absent means zero at both ends. A declared value
// holds across the repeat when its counterpart is missing.
func repeatEndpoints(start, end, fallback *float64) (float64, float64) {
	startDefined := start != nil && isFinite(*start)
	endDefined := end != nil && isFinite(*end)
	switch {
	case startDefined && endDefined:
		return *start, *end
	case startDefined:
		return *start, *start
	case endDefined:
		return *end, *end
	case fallback != nil && isFinite(*fallback):
		return *fallback, *fallback
	}
	return 0, 0
}

func anyAboveTolerance(tolerance float64, values ...float64) bool {
	for _, v := range values {
		if math.Abs(v) > tolerance {
			return true
		}
	}
	return false
}

// classifyRepeat applies the decision table. Non-zero width combined with
// non-zero radius is not clearly specified upstream and is flagged instead
// of guessed.
func classifyRepeat(repeat RepeatElement, object RoadObjectElement, tolerance float64) repeatKind {
	continuous := math.Abs(repeat.Distance) <= tolerance
	hasLength := repeat.Length > tolerance

	widthStart, widthEnd := repeatEndpoints(repeat.WidthStart, repeat.WidthEnd, object.Width)
	heightStart, heightEnd := repeat.HeightStart, repeat.HeightEnd
	if heightStart == 0 && heightEnd == 0 && object.Height != nil && isFinite(*object.Height) {
		heightStart, heightEnd = *object.Height, *object.Height
	}
	radiusStart, radiusEnd := repeatEndpoints(repeat.RadiusStart, repeat.RadiusEnd, object.Radius)

	hasWidth := anyAboveTolerance(tolerance, widthStart, widthEnd)
	hasHeight := anyAboveTolerance(tolerance, heightStart, heightEnd)
	hasRadius := anyAboveTolerance(tolerance, radiusStart, radiusEnd)

	if hasWidth && hasRadius {
		return REPEAT_KIND_MIXED_WIDTH_RADIUS
	}

	if continuous {
		switch {
		case !hasLength:
			return REPEAT_KIND_UNKNOWN
		case hasWidth && hasHeight:
			return REPEAT_KIND_PARAMETRIC_SWEEP
		case !hasWidth && !hasHeight && !hasRadius:
			return REPEAT_KIND_CURVE
		case hasWidth:
			return REPEAT_KIND_HORIZONTAL_SURFACE
		case hasHeight && !hasRadius:
			return REPEAT_KIND_VERTICAL_SURFACE
		default:
			return REPEAT_KIND_UNKNOWN
		}
	}
	if hasHeight && hasRadius {
		return REPEAT_KIND_REPEATED_CYLINDER
	}
	if hasLength && hasWidth && hasHeight {
		return REPEAT_KIND_REPEATED_CUBOID
	}
	return REPEAT_KIND_UNKNOWN
}

/* Object builder */

// roadspaceObjectBuilder builds the objects and signals of one road on top
// of its finished surfaces
type roadspaceObjectBuilder struct {
	roadspaceID    RoadspaceIdentifier
	refLine        *CompositeCurve2D
	elevation      UnivariateFunction
	surface        *CurveRelativeSurface3D
	tolerance      float64
	step           float64
	cylinderSlices int
	report         *Report
}

// objectPoseAt resolves the Cartesian pose of an object anchored at
// road-relative (s, t, zOffset) with a heading relative to the reference
// line
func (b *roadspaceObjectBuilder) objectPoseAt(s, t, zOffset, hdg float64) (ObjectPose3D, error) {
	origin, err := b.surface.PointAt(CurveRelativeVector{S: s, T: t, H: zOffset})
	if err != nil {
		return ObjectPose3D{}, err
	}
	pose, err := b.refLine.PoseAt(s)
	if err != nil {
		return ObjectPose3D{}, err
	}
	return ObjectPose3D{Origin: origin, Heading: normalizeAngle(pose.Heading + hdg)}, nil
}

// buildRoadspaceObjects builds one RoadspaceObject per road object (or per
// repeat record of it) and per signal. Construction failures abort only the
// affected object and are reported.
func (b *roadspaceObjectBuilder) buildRoadspaceObjects(objects *RoadObjects, signals *RoadSignals) []RoadspaceObject {
	var built []RoadspaceObject
	if objects != nil {
		for _, object := range objects.Objects {
			built = append(built, b.buildFromObjectRecord(object)...)
		}
	}
	if signals != nil {
		built = append(built, buildEach(signals.Signals, b.report,
			func(signal SignalElement) string {
				return RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: signal.ID}.String()
			},
			b.buildFromSignalRecord)...)
	}
	return built
}

// buildFromObjectRecord resolves the geometry of one road object record.
// Repeat records produce one object each; otherwise outlines win over the
// dimension-field shape.
func (b *roadspaceObjectBuilder) buildFromObjectRecord(record RoadObjectElement) []RoadspaceObject {
	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: record.ID}

	if len(record.Repeats) > 0 {
		var results []RoadspaceObject
		for i, repeat := range record.Repeats {
			repeatID := id
			if len(record.Repeats) > 1 {
				repeatID.ObjectID = fmt.Sprintf("%s_%d", record.ID, i)
			}
			object, err := b.buildFromRepeatRecord(repeatID, record, repeat)
			if err != nil {
				b.report.Warnf(repeatID.String(), "skipped: %s", err.Error())
				continue
			}
			if object != nil {
				results = append(results, *object)
			}
		}
		return results
	}

	geometry, err := b.resolveSingleObjectGeometry(id, record)
	if err != nil {
		b.report.Warnf(id.String(), "skipped: %s", err.Error())
		return nil
	}
	return []RoadspaceObject{b.assembleObject(id, record.Name, record.Type, geometry, record.Validities, objectAttributes(record))}
}

func (b *roadspaceObjectBuilder) assembleObject(id RoadspaceObjectIdentifier, name, objectType string, geometry ObjectGeometry, validities []ValidityElement, attributes Attributes) RoadspaceObject {
	relations := make([]LaneRangeRelation, 0, len(validities))
	for _, validity := range validities {
		relations = append(relations, LaneRangeRelation{FromLane: validity.FromLane, ToLane: validity.ToLane})
	}
	return RoadspaceObject{
		ID:            id,
		Name:          name,
		Type:          ParseRoadspaceObjectType(objectType),
		Geometry:      geometry,
		LaneRelations: relations,
		Attributes:    attributes,
	}
}

// resolveSingleObjectGeometry picks the geometry of a non-repeated object:
// outlines take priority, then the shape decision tree
func (b *roadspaceObjectBuilder) resolveSingleObjectGeometry(id RoadspaceObjectIdentifier, record RoadObjectElement) (ObjectGeometry, error) {
	if outlines := record.AllOutlines(); len(outlines) > 0 {
		return b.buildFromOutlines(id, record, outlines)
	}

	pose, err := b.objectPoseAt(record.S, record.T, record.ZOffset, record.Hdg)
	if err != nil {
		return ObjectGeometry{}, err
	}
	switch classifyObjectShape(record, b.tolerance) {
	case OBJECT_SHAPE_CUBOID:
		solid, err := NewCuboid3D(pose, *record.Length, *record.Width, *record.Height)
		if err != nil {
			return ObjectGeometry{}, err
		}
		return SolidGeometry(solid), nil
	case OBJECT_SHAPE_RECTANGLE:
		surface, err := NewRectangle3D(pose, *record.Length, *record.Width)
		if err != nil {
			return ObjectGeometry{}, err
		}
		return SurfaceGeometry(surface), nil
	case OBJECT_SHAPE_CYLINDER:
		solid, err := NewCylinder3D(pose, *record.Radius, *record.Height, b.cylinderSlices)
		if err != nil {
			return ObjectGeometry{}, err
		}
		return SolidGeometry(solid), nil
	case OBJECT_SHAPE_CIRCLE:
		surface, err := NewCircle3D(pose, *record.Radius, b.cylinderSlices)
		if err != nil {
			return ObjectGeometry{}, err
		}
		return SurfaceGeometry(surface), nil
	default:
		return PointGeometry(pose.Origin), nil
	}
}

// objectAttributes collects the descriptive fields of an object record
func objectAttributes(record RoadObjectElement) Attributes {
	attributes := NewAttributes()
	attributes.AddString("type", record.Type)
	attributes.AddString("name", record.Name)
	attributes.AddFloat("curvePosition", record.S)
	attributes.AddFloat("lateralOffset", record.T)
	attributes.AddFloat("heightOffset", record.ZOffset)
	if record.Length != nil {
		attributes.AddFloat("length", *record.Length)
	}
	if record.Width != nil {
		attributes.AddFloat("width", *record.Width)
	}
	if record.Height != nil {
		attributes.AddFloat("height", *record.Height)
	}
	if record.Radius != nil {
		attributes.AddFloat("radius", *record.Radius)
	}
	return attributes
}

// buildFromOutlines builds a polyhedron when at least one outline corner has
// a positive height, a linear ring when all corner heights are zero. The two
// are mutually exclusive per outline; the first constructible outline wins.
func (b *roadspaceObjectBuilder) buildFromOutlines(id RoadspaceObjectIdentifier, record RoadObjectElement, outlines []OutlineElement) (ObjectGeometry, error) {
	context := id.String()
	var lastErr error
	for _, outline := range outlines {
		elements, anyHeight, err := b.outlineElements(record, outline)
		if err != nil {
			lastErr = err
			continue
		}
		if anyHeight {
			solid, err := buildPolyhedronFromVerticalOutlineElements(elements, b.tolerance, b.report, context)
			if err != nil {
				lastErr = err
				continue
			}
			return SolidGeometry(solid), nil
		}
		surface, err := buildLinearRingFromBasePoints(elements, b.tolerance, b.report, context)
		if err != nil {
			lastErr = err
			continue
		}
		return SurfaceGeometry(surface), nil
	}
	if lastErr == nil {
		lastErr = errors.Errorf("object contains no constructible outline")
	}
	return ObjectGeometry{}, lastErr
}

// buildFromSignalRecord builds a signal object: a planar board when width
// and height are declared, a point otherwise
func (b *roadspaceObjectBuilder) buildFromSignalRecord(record SignalElement) (RoadspaceObject, error) {
	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: record.ID}
	pose, err := b.objectPoseAt(record.S, record.T, record.ZOffset, record.HOffset)
	if err != nil {
		return RoadspaceObject{}, err
	}

	geometry := PointGeometry(pose.Origin)
	if definedPositive(record.Width, b.tolerance) && definedPositive(record.Height, b.tolerance) {
		half := *record.Width / 2
		sin, cos := math.Sincos(pose.Heading + math.Pi/2)
		bl := Vector3D{X: pose.Origin.X - half*cos, Y: pose.Origin.Y - half*sin, Z: pose.Origin.Z}
		br := Vector3D{X: pose.Origin.X + half*cos, Y: pose.Origin.Y + half*sin, Z: pose.Origin.Z}
		ring := Polygon3D{
			bl,
			br,
			{X: br.X, Y: br.Y, Z: br.Z + *record.Height},
			{X: bl.X, Y: bl.Y, Z: bl.Z + *record.Height},
		}
		geometry = SurfaceGeometry(&Surface3D{Polygons: []Polygon3D{ring}})
	}

	attributes := NewAttributes()
	attributes.AddString("name", record.Name)
	attributes.AddString("signalType", record.Type)
	attributes.AddString("signalSubtype", record.Subtype)
	attributes.AddString("country", record.Country)
	attributes.AddString("dynamic", record.Dynamic)
	attributes.AddFloat("curvePosition", record.S)
	attributes.AddFloat("lateralOffset", record.T)

	relations := make([]LaneRangeRelation, 0, len(record.Validities))
	for _, validity := range record.Validities {
		relations = append(relations, LaneRangeRelation{FromLane: validity.FromLane, ToLane: validity.ToLane})
	}

	return RoadspaceObject{
		ID:            id,
		Name:          record.Name,
		Type:          OBJECT_TYPE_SIGNAL,
		Geometry:      geometry,
		LaneRelations: relations,
		Attributes:    attributes,
	}, nil
}

// outlineElements maps outline corners into vertical outline elements.
// Road-relative corners are anchored on the road surface, local corners in
// the object frame. A negative corner height is healed to zero.
func (b *roadspaceObjectBuilder) outlineElements(record RoadObjectElement, outline OutlineElement) ([]VerticalOutlineElement, bool, error) {
	context := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: record.ID}.String()
	anyHeight := false

	healHeight := func(height float64, at string) float64 {
		if !isFinite(height) || height < 0 {
			b.report.Warnf(context, "healed invalid outline corner height %f at %s to 0", height, at)
			return 0
		}
		return height
	}

	var elements []VerticalOutlineElement
	switch {
	case len(outline.CornersRoad) > 0:
		for _, corner := range outline.CornersRoad {
			height := healHeight(corner.Height, fmt.Sprintf("s=%f", corner.S))
			base, err := b.surface.PointAt(CurveRelativeVector{S: corner.S, T: corner.T, H: corner.DZ})
			if err != nil {
				return nil, false, err
			}
			if height > b.tolerance {
				anyHeight = true
				head, err := b.surface.PointAt(CurveRelativeVector{S: corner.S, T: corner.T, H: corner.DZ + height})
				if err != nil {
					return nil, false, err
				}
				elements = append(elements, NewVerticalOutlineElement(base, head))
			} else {
				elements = append(elements, NewVerticalOutlineElement(base))
			}
		}
	case len(outline.CornersLocal) > 0:
		pose, err := b.objectPoseAt(record.S, record.T, record.ZOffset, record.Hdg)
		if err != nil {
			return nil, false, err
		}
		for _, corner := range outline.CornersLocal {
			height := healHeight(corner.Height, fmt.Sprintf("u=%f v=%f", corner.U, corner.V))
			base := pose.Transform(corner.U, corner.V, corner.Z)
			if height > b.tolerance {
				anyHeight = true
				head := pose.Transform(corner.U, corner.V, corner.Z+height)
				elements = append(elements, NewVerticalOutlineElement(base, head))
			} else {
				elements = append(elements, NewVerticalOutlineElement(base))
			}
		}
	default:
		return nil, false, errors.Errorf("outline contains no corner entries")
	}
	return elements, anyHeight, nil
}
