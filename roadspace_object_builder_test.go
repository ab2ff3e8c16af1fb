package odr2city

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func newTestObjectBuilder(t *testing.T) *roadspaceObjectBuilder {
	t.Helper()
	report := &Report{}
	geometries := []GeometryElement{{S: 0, X: 0, Y: 0, Hdg: 0, Length: 100, Line: &LineElement{}}}
	refCurve, err := buildCurve2DFromPlanViewGeometries(geometries, orb.Point{}, 1e-7, report, "road '1'")
	require.NoError(t, err)

	elevation := NewConstantFunction(0, NewClosedRange(0, 100))
	refLine := NewCurve3DOnTop(refCurve, elevation)
	surface := NewCurveRelativeSurface3D(refLine, NewConstantFunction(0, NewClosedRange(0, 100)), 1e-7)

	return &roadspaceObjectBuilder{
		roadspaceID:    RoadspaceIdentifier{RoadID: "1", ModelName: "test"},
		refLine:        refCurve,
		elevation:      elevation,
		surface:        surface,
		tolerance:      1e-7,
		step:           0.5,
		cylinderSlices: 8,
		report:         report,
	}
}

func TestClassifyObjectShape(t *testing.T) {
	cases := []struct {
		name     string
		object   RoadObjectElement
		expected objectShape
	}{
		{"all box dimensions", RoadObjectElement{Length: floatPtr(2), Width: floatPtr(1), Height: floatPtr(1)}, OBJECT_SHAPE_CUBOID},
		{"length and width only", RoadObjectElement{Length: floatPtr(2), Width: floatPtr(1)}, OBJECT_SHAPE_RECTANGLE},
		{"radius and height", RoadObjectElement{Radius: floatPtr(0.5), Height: floatPtr(4)}, OBJECT_SHAPE_CYLINDER},
		{"radius only", RoadObjectElement{Radius: floatPtr(0.5)}, OBJECT_SHAPE_CIRCLE},
		{"no dimensions", RoadObjectElement{}, OBJECT_SHAPE_POINT},
		{"zero dimensions", RoadObjectElement{Length: floatPtr(0), Width: floatPtr(0)}, OBJECT_SHAPE_POINT},
		{"height without footprint", RoadObjectElement{Height: floatPtr(2)}, OBJECT_SHAPE_POINT},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyObjectShape(tc.object, 1e-7))
		})
	}
}

func TestClassifyRepeat(t *testing.T) {
	cases := []struct {
		name     string
		repeat   RepeatElement
		object   RoadObjectElement
		expected repeatKind
	}{
		{
			"continuous without extent is a curve",
			RepeatElement{Length: 20},
			RoadObjectElement{},
			REPEAT_KIND_CURVE,
		},
		{
			"continuous with width",
			RepeatElement{Length: 20, WidthStart: floatPtr(2), WidthEnd: floatPtr(2)},
			RoadObjectElement{},
			REPEAT_KIND_HORIZONTAL_SURFACE,
		},
		{
			"continuous with height",
			RepeatElement{Length: 20, HeightStart: 1, HeightEnd: 1},
			RoadObjectElement{},
			REPEAT_KIND_VERTICAL_SURFACE,
		},
		{
			"continuous with width and height",
			RepeatElement{Length: 20, WidthStart: floatPtr(2), WidthEnd: floatPtr(2), HeightStart: 1, HeightEnd: 1},
			RoadObjectElement{},
			REPEAT_KIND_PARAMETRIC_SWEEP,
		},
		{
			"width falls back to the object dimension",
			RepeatElement{Length: 20},
			RoadObjectElement{Width: floatPtr(2)},
			REPEAT_KIND_HORIZONTAL_SURFACE,
		},
		{
			"width and radius conflict",
			RepeatElement{Length: 20, WidthStart: floatPtr(2), WidthEnd: floatPtr(2), RadiusStart: floatPtr(1), RadiusEnd: floatPtr(1)},
			RoadObjectElement{},
			REPEAT_KIND_MIXED_WIDTH_RADIUS,
		},
		{
			"discrete with height and radius",
			RepeatElement{Length: 20, Distance: 5, HeightStart: 2, HeightEnd: 2, RadiusStart: floatPtr(0.3), RadiusEnd: floatPtr(0.3)},
			RoadObjectElement{},
			REPEAT_KIND_REPEATED_CYLINDER,
		},
		{
			"discrete box",
			RepeatElement{Length: 20, Distance: 5, WidthStart: floatPtr(1), WidthEnd: floatPtr(1), HeightStart: 1, HeightEnd: 1},
			RoadObjectElement{},
			REPEAT_KIND_REPEATED_CUBOID,
		},
		{
			"continuous without length",
			RepeatElement{},
			RoadObjectElement{},
			REPEAT_KIND_UNKNOWN,
		},
		{
			"discrete without extent",
			RepeatElement{Length: 20, Distance: 5},
			RoadObjectElement{},
			REPEAT_KIND_UNKNOWN,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyRepeat(tc.repeat, tc.object, 1e-7))
		})
	}
}

func TestBuildFromRepeatRecordCurve(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{ID: "o1", Name: "cable", Type: "none"}
	repeat := RepeatElement{S: 10, Length: 20}

	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o1"}
	object, err := b.buildFromRepeatRecord(id, record, repeat)
	require.NoError(t, err)
	require.NotNil(t, object)
	require.NotNil(t, object.Geometry.Curve)
	assert.Equal(t, "curve", object.Geometry.Kind())

	// The curve starts at the repeat's window start on the reference line.
	first := object.Geometry.Curve[0]
	assert.InDelta(t, 10.0, first.X, 1e-9)
	assert.InDelta(t, 0.0, first.Y, 1e-9)
	last := object.Geometry.Curve[len(object.Geometry.Curve)-1]
	assert.InDelta(t, 30.0, last.X, 1e-9)
}

func TestBuildFromRepeatRecordParametricSweep(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{ID: "o2", Name: "barrier", Type: "barrier"}
	repeat := RepeatElement{
		S:           10,
		Length:      20,
		WidthStart:  floatPtr(0.5),
		WidthEnd:    floatPtr(0.5),
		HeightStart: 1.0,
		HeightEnd:   0.5,
	}

	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o2"}
	object, err := b.buildFromRepeatRecord(id, record, repeat)
	require.NoError(t, err)
	require.NotNil(t, object)
	assert.Equal(t, "solid", object.Geometry.Kind())
	assert.Equal(t, "parametricSweep", object.Attributes["repeatKind"])
	assert.NotEmpty(t, object.Geometry.Solid.Polygons)
}

func TestBuildFromRepeatRecordRejectsMixed(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{ID: "o3"}
	repeat := RepeatElement{
		S:           10,
		Length:      20,
		WidthStart:  floatPtr(1),
		WidthEnd:    floatPtr(1),
		RadiusStart: floatPtr(1),
		RadiusEnd:   floatPtr(1),
	}

	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o3"}
	object, err := b.buildFromRepeatRecord(id, record, repeat)
	require.NoError(t, err)
	assert.Nil(t, object)
	assert.False(t, b.report.IsEmpty(), "the rejected repeat must be reported")
}

func TestResolveSingleObjectGeometry(t *testing.T) {
	b := newTestObjectBuilder(t)
	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o"}

	t.Run("cuboid", func(t *testing.T) {
		record := RoadObjectElement{ID: "o", S: 50, Length: floatPtr(2), Width: floatPtr(1), Height: floatPtr(1)}
		geometry, err := b.resolveSingleObjectGeometry(id, record)
		require.NoError(t, err)
		assert.Equal(t, "solid", geometry.Kind())
		assert.Len(t, geometry.Solid.Polygons, 12)
	})

	t.Run("rectangle without height stays flat", func(t *testing.T) {
		record := RoadObjectElement{ID: "o", S: 50, Length: floatPtr(2), Width: floatPtr(1)}
		geometry, err := b.resolveSingleObjectGeometry(id, record)
		require.NoError(t, err)
		assert.Equal(t, "surface", geometry.Kind())
	})

	t.Run("cylinder", func(t *testing.T) {
		record := RoadObjectElement{ID: "o", S: 50, Radius: floatPtr(0.5), Height: floatPtr(4)}
		geometry, err := b.resolveSingleObjectGeometry(id, record)
		require.NoError(t, err)
		assert.Equal(t, "solid", geometry.Kind())
	})

	t.Run("circle", func(t *testing.T) {
		record := RoadObjectElement{ID: "o", S: 50, Radius: floatPtr(0.5)}
		geometry, err := b.resolveSingleObjectGeometry(id, record)
		require.NoError(t, err)
		require.Equal(t, "surface", geometry.Kind())
		assert.Len(t, geometry.Surface.Polygons[0], 8)
	})

	t.Run("point fallback", func(t *testing.T) {
		record := RoadObjectElement{ID: "o", S: 50, T: 2, ZOffset: 1}
		geometry, err := b.resolveSingleObjectGeometry(id, record)
		require.NoError(t, err)
		require.Equal(t, "point", geometry.Kind())
		assert.InDelta(t, 50.0, geometry.Point.X, 1e-9)
		assert.InDelta(t, 2.0, geometry.Point.Y, 1e-9)
		assert.InDelta(t, 1.0, geometry.Point.Z, 1e-9)
	})
}

func TestBuildFromOutlinesPrefersOutlineOverShape(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{
		ID: "o", S: 50,
		// Tempting cuboid dimensions, but the outline wins.
		Length: floatPtr(10), Width: floatPtr(10), Height: floatPtr(10),
		Outline: &OutlineElement{
			CornersLocal: []CornerLocalEntry{
				{U: 0, V: 0, Height: 2},
				{U: 1, V: 0, Height: 2},
				{U: 1, V: 1, Height: 2},
				{U: 0, V: 1, Height: 2},
			},
		},
	}
	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o"}
	geometry, err := b.resolveSingleObjectGeometry(id, record)
	require.NoError(t, err)
	require.Equal(t, "solid", geometry.Kind())
	assert.Len(t, geometry.Solid.Polygons, 12)
}

func TestBuildFromOutlinesFlatCornersYieldRing(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{
		ID: "o", S: 50,
		Outline: &OutlineElement{
			CornersRoad: []CornerRoadEntry{
				{S: 40, T: -1},
				{S: 60, T: -1},
				{S: 60, T: 1},
				{S: 40, T: 1},
			},
		},
	}
	id := RoadspaceObjectIdentifier{Roadspace: b.roadspaceID, ObjectID: "o"}
	geometry, err := b.resolveSingleObjectGeometry(id, record)
	require.NoError(t, err)
	require.Equal(t, "surface", geometry.Kind())
	require.Len(t, geometry.Surface.Polygons, 1)
	assert.Len(t, geometry.Surface.Polygons[0], 4)
}

func TestOutlineHealsNegativeHeight(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{
		ID: "o", S: 50,
		Outline: &OutlineElement{
			CornersLocal: []CornerLocalEntry{
				{U: 0, V: 0, Height: -1},
				{U: 1, V: 0},
				{U: 0, V: 1},
			},
		},
	}
	elements, anyHeight, err := b.outlineElements(record, *record.Outline)
	require.NoError(t, err)
	assert.False(t, anyHeight)
	assert.Len(t, elements, 3)
	assert.False(t, b.report.IsEmpty(), "healing a negative height must be reported")
}

func TestBuildFromSignalRecord(t *testing.T) {
	b := newTestObjectBuilder(t)

	t.Run("board with dimensions", func(t *testing.T) {
		signal := SignalElement{ID: "s1", Name: "stop", Type: "206", S: 20, T: -5, ZOffset: 2, Width: floatPtr(0.6), Height: floatPtr(0.6)}
		object, err := b.buildFromSignalRecord(signal)
		require.NoError(t, err)
		assert.Equal(t, OBJECT_TYPE_SIGNAL, object.Type)
		require.Equal(t, "surface", object.Geometry.Kind())
		require.Len(t, object.Geometry.Surface.Polygons, 1)
		assert.Len(t, object.Geometry.Surface.Polygons[0], 4)
	})

	t.Run("point without dimensions", func(t *testing.T) {
		signal := SignalElement{ID: "s2", S: 20, T: -5}
		object, err := b.buildFromSignalRecord(signal)
		require.NoError(t, err)
		assert.Equal(t, "point", object.Geometry.Kind())
	})
}

func TestBuildFromObjectRecordMultipleRepeats(t *testing.T) {
	b := newTestObjectBuilder(t)
	record := RoadObjectElement{
		ID: "o", Name: "lines", Type: "none",
		Repeats: []RepeatElement{
			{S: 0, Length: 10},
			{S: 20, Length: 10},
		},
	}
	objects := b.buildFromObjectRecord(record)
	require.Len(t, objects, 2)
	assert.Equal(t, "o_0", objects[0].ID.ObjectID)
	assert.Equal(t, "o_1", objects[1].ID.ObjectID)
}

func TestRepeatEndpointsHoldDeclaredValue(t *testing.T) {
	s, e := repeatEndpoints(floatPtr(2.0), nil, nil)
	assert.Equal(t, 2.0, s)
	assert.Equal(t, 2.0, e)

	s, e = repeatEndpoints(nil, floatPtr(3.0), nil)
	assert.Equal(t, 3.0, s)
	assert.Equal(t, 3.0, e)

	s, e = repeatEndpoints(floatPtr(2.0), floatPtr(3.0), nil)
	assert.Equal(t, 2.0, s)
	assert.Equal(t, 3.0, e)

	s, e = repeatEndpoints(nil, nil, floatPtr(1.5))
	assert.Equal(t, 1.5, s)
	assert.Equal(t, 1.5, e)

	s, e = repeatEndpoints(nil, nil, nil)
	assert.Equal(t, 0.0, s)
	assert.Equal(t, 0.0, e)
}
