package odr2city

import (
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// buildRoadspace converts one validated road element into a Roadspace: the
// reference line, the sectioned road with lanes and markings, and the
// road-side objects and signals. Non-fatal issues go into the report; only
// aggregate-level invariant violations fail the whole road.
func buildRoadspace(elem RoadElement, modelName string, offset orb.Point, representations map[string]roadMarkRepresentation, tolerance, step float64, cylinderSlices int, report *Report) (*Roadspace, error) {
	id := RoadspaceIdentifier{RoadID: elem.ID, ModelName: modelName}
	context := id.String()

	refCurve, err := buildCurve2DFromPlanViewGeometries(elem.PlanView.Geometries, offset, tolerance, report, context)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: can't build the reference curve", id)
	}
	roadLength := refCurve.Length()

	var elevationEntries, superelevationEntries []CubicProfileEntry
	var shapeEntries []ShapeEntry
	if elem.ElevationProfile != nil {
		elevationEntries = elem.ElevationProfile.Elevations
	}
	if elem.LateralProfile != nil {
		superelevationEntries = elem.LateralProfile.Superelevations
		shapeEntries = elem.LateralProfile.Shapes
	}
	elevation := buildCubicProfileFunction(elevationEntries, roadLength, tolerance, report, context)
	torsion := buildCubicProfileFunction(superelevationEntries, roadLength, tolerance, report, context)
	shape := buildShapeProfile(shapeEntries, tolerance, report, context)
	laneOffset := buildCubicProfileFunction(elem.Lanes.LaneOffsets, roadLength, tolerance, report, context)

	referenceLine := NewCurve3DOnTop(refCurve, elevation)
	// Level lanes stay flat, so the torsion-free twin carries neither the
	// superelevation nor the lateral shape.
	surface := NewShapedCurveRelativeSurface3D(referenceLine, torsion, shape, tolerance)
	surfaceWithoutTorsion := NewCurveRelativeSurface3D(referenceLine, NewConstantFunction(0, surface.Domain()), tolerance)

	road, err := buildRoad(id, elem, surface, surfaceWithoutTorsion, laneOffset, representations, tolerance, report)
	if err != nil {
		return nil, err
	}

	objectBuilder := &roadspaceObjectBuilder{
		roadspaceID:    id,
		refLine:        refCurve,
		elevation:      elevation,
		surface:        surface,
		tolerance:      tolerance,
		step:           step,
		cylinderSlices: cylinderSlices,
		report:         report,
	}
	objects := objectBuilder.buildRoadspaceObjects(elem.Objects, elem.Signals)

	attributes := NewAttributes()
	attributes.AddString("name", elem.Name)
	attributes.AddFloat("length", roadLength)
	if elem.Junction != "" && elem.Junction != "-1" {
		attributes.AddString("junction", elem.Junction)
	}

	return &Roadspace{
		ID:            id,
		Name:          elem.Name,
		ReferenceLine: referenceLine,
		Road:          road,
		Objects:       objects,
		Attributes:    attributes,
	}, nil
}
