package odr2city

import (
	"encoding/xml"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `<?xml version="1.0" encoding="UTF-8"?>
<OpenDRIVE>
  <header revMajor="1" revMinor="6" name="testmap"/>
  <road id="1" name="main" length="100.0" junction="-1">
    <planView>
      <geometry s="0" x="0" y="0" hdg="0" length="100">
        <line/>
      </geometry>
    </planView>
    <lanes>
      <laneSection s="0">
        <left>
          <lane id="1" type="driving" level="false">
            <width sOffset="0" a="3.5" b="0" c="0" d="0"/>
          </lane>
        </left>
        <center>
          <lane id="0" type="none" level="false">
            <roadMark sOffset="0" type="solid" color="standard" width="0.12"/>
          </lane>
        </center>
        <right>
          <lane id="-1" type="driving" level="false">
            <width sOffset="0" a="3.5" b="0" c="0" d="0"/>
          </lane>
        </right>
      </laneSection>
    </lanes>
    <objects>
      <object id="o1" name="box" type="obstacle" s="50" t="5" zOffset="0" hdg="0" length="2" width="1" height="1"/>
    </objects>
  </road>
  <road id="2" name="side" length="50.0" junction="-1">
    <planView>
      <geometry s="0" x="0" y="100" hdg="0" length="50">
        <line/>
      </geometry>
    </planView>
    <lanes>
      <laneSection s="0">
        <left>
          <lane id="1" type="sidewalk" level="false">
            <width sOffset="0" a="2.0" b="0" c="0" d="0"/>
          </lane>
        </left>
        <center>
          <lane id="0" type="none" level="false"/>
        </center>
        <right>
          <lane id="-1" type="driving" level="false">
            <width sOffset="0" a="3.0" b="0" c="0" d="0"/>
          </lane>
        </right>
      </laneSection>
    </lanes>
  </road>
</OpenDRIVE>`

func decodeTestDocument(t *testing.T) *OpenDRIVE {
	t.Helper()
	doc := &OpenDRIVE{}
	require.NoError(t, xml.Unmarshal([]byte(testDocument), doc))
	return doc
}

func TestDecodeOpenDRIVE(t *testing.T) {
	doc := decodeTestDocument(t)
	require.Len(t, doc.Roads, 2)
	assert.Equal(t, "testmap", doc.Header.Name)
	assert.Equal(t, 6, doc.Header.RevMinor)

	road := doc.Roads[0]
	require.Len(t, road.PlanView.Geometries, 1)
	assert.NotNil(t, road.PlanView.Geometries[0].Line)
	require.Len(t, road.Lanes.LaneSections, 1)
	assert.Len(t, road.Lanes.LaneSections[0].AllLanes(), 3)
	require.NotNil(t, road.Objects)
	require.Len(t, road.Objects.Objects, 1)
	require.NotNil(t, road.Objects.Objects[0].Width)
	assert.Equal(t, 1.0, *road.Objects.Objects[0].Width)
}

func TestConvert(t *testing.T) {
	doc := decodeTestDocument(t)
	converter := NewConverter()
	model, err := converter.Convert(doc)
	require.NoError(t, err)
	require.Len(t, model.Roadspaces, 2)
	assert.Equal(t, "testmap", model.Name)

	roadspace, ok := model.Roadspace("1")
	require.True(t, ok)
	assert.InDelta(t, 100.0, roadspace.Road.Length(), 1e-9)

	section, err := roadspace.Road.LaneSection(0)
	require.NoError(t, err)
	if diff := cmp.Diff([]int{-1, 1}, section.LaneIDs()); diff != "" {
		t.Errorf("Lane ids mismatch (-want +got):\n%s", diff)
	}
	lane, ok := section.Lane(1)
	require.True(t, ok)
	assert.Equal(t, LANE_TYPE_DRIVING, lane.Type)

	// The center lane carries the solid road marking.
	require.Len(t, section.CenterLane.RoadMarkings, 1)
	marking := section.CenterLane.RoadMarkings[0]
	assert.True(t, marking.WidthDefined)
	assert.Equal(t, 0.12, marking.Width)

	// The box object resolves into a cuboid solid.
	require.Len(t, roadspace.Objects, 1)
	object := roadspace.Objects[0]
	assert.Equal(t, OBJECT_TYPE_OBSTACLE, object.Type)
	require.Equal(t, "solid", object.Geometry.Kind())
	assert.Len(t, object.Geometry.Solid.Polygons, 12)
	require.NoError(t, object.Geometry.Validate())
}

func TestConvertParallelPreservesOrder(t *testing.T) {
	doc := decodeTestDocument(t)
	sequential, err := NewConverter().Convert(doc)
	require.NoError(t, err)
	parallel, err := NewConverter(WithParallel(true)).Convert(doc)
	require.NoError(t, err)

	ids := func(model *RoadspacesModel) []string {
		out := make([]string, 0, len(model.Roadspaces))
		for _, roadspace := range model.Roadspaces {
			out = append(out, roadspace.ID.RoadID)
		}
		return out
	}
	if diff := cmp.Diff(ids(sequential), ids(parallel)); diff != "" {
		t.Errorf("Roadspace order mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertEmptyDocument(t *testing.T) {
	_, err := NewConverter().Convert(&OpenDRIVE{})
	require.Error(t, err)
	_, err = NewConverter().Convert(nil)
	require.Error(t, err)
}

func TestConvertSkipsBrokenRoad(t *testing.T) {
	doc := decodeTestDocument(t)
	// Remove all plan view geometry from the second road; the first one must
	// still convert.
	doc.Roads[1].PlanView.Geometries = nil
	model, err := NewConverter().Convert(doc)
	require.NoError(t, err)
	require.Len(t, model.Roadspaces, 1)
	assert.Equal(t, "1", model.Roadspaces[0].ID.RoadID)
	assert.False(t, model.Report.IsEmpty(), "the skipped road must be reported")
}

func TestConverterOptions(t *testing.T) {
	converter := NewConverter(
		WithTolerance(1e-5),
		WithDiscretizationStep(1.0),
		WithCylinderSlices(32),
		WithOffset(100, 200),
		WithVerbose(false),
	)
	assert.Equal(t, 1e-5, converter.tolerance)
	assert.Equal(t, 1.0, converter.step)
	assert.Equal(t, 32, converter.cylinderSlices)
	assert.Equal(t, 100.0, converter.offset[0])
}

func TestExportToGeoJSON(t *testing.T) {
	doc := decodeTestDocument(t)
	model, err := NewConverter().Convert(doc)
	require.NoError(t, err)

	collection, err := model.ExportToGeoJSON(10.0)
	require.NoError(t, err)
	// 2 reference lines, 4 lane boundaries and 1 object.
	assert.Len(t, collection.Features, 7)

	data, err := collection.MarshalJSON()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPrepareWKT(t *testing.T) {
	pt := Vector3D{X: 1, Y: 2, Z: 3}
	assert.Equal(t, "POINT Z(1.000000 2.000000 3.000000)", PrepareWKTPoint(pt))

	line := LineString3D{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}
	assert.Equal(t, "LINESTRING Z(0.000000 0.000000 0.000000,1.000000 0.000000 0.000000)", PrepareWKTLinestring(line))

	ring := Polygon3D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	assert.Equal(t, "POLYGON Z((0.000000 0.000000 0.000000,1.000000 0.000000 0.000000,1.000000 1.000000 0.000000,0.000000 0.000000 0.000000))", PrepareWKTPolygon(ring))
}

func TestFootprintArea(t *testing.T) {
	ring := Polygon3D{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	assert.InDelta(t, 4.0, footprintArea(ring), 1e-9)
	reversed := ring.Reverse()
	assert.InDelta(t, 4.0, footprintArea(reversed), 1e-9)
}

func TestClassifyRoadMarkRepresentations(t *testing.T) {
	doc := decodeTestDocument(t)
	// Declare a typeLines variant of the solid mark on the second road; the
	// most detailed representation wins dataset-wide.
	section := &doc.Roads[1].Lanes.LaneSections[0]
	section.Center.Lanes[0].RoadMarks = []RoadMarkElement{{
		Type: "solid",
		TypeLines: &RoadMarkTypeElement{
			Name:  "solid",
			Lines: []RoadMarkLineItem{{Length: 3, Space: 0, Width: 0.12}},
		},
	}}

	representations := classifyRoadMarkRepresentations(doc.Roads)
	assert.Equal(t, representationTypeLines, representations["solid"])
}

func TestPrepareFootprintAndGeoJSONPoint(t *testing.T) {
	line := LineString3D{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}}
	footprint := PrepareWKTFootprint(line)
	assert.Contains(t, footprint, "LINESTRING")
	assert.NotContains(t, footprint, "Z")

	point := PrepareGeoJSONPoint(Vector3D{X: 1, Y: 2, Z: 3})
	assert.Contains(t, point, `"Point"`)
	assert.Contains(t, point, "[1,2,3]")
}
