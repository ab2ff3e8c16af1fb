package odr2city

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoadMarkingsGeneral(t *testing.T) {
	report := &Report{}
	records := []RoadMarkElement{{SOffset: 0, Type: "solid", Color: "standard", Width: floatPtr(0.2)}}
	markings := buildRoadMarkings(records, NewClosedRange(0, 100), map[string]roadMarkRepresentation{}, 1e-7, report, "lane")
	require.Len(t, markings, 1)
	assert.Equal(t, NewClosedRange(0, 100), markings[0].Domain)
	assert.True(t, markings[0].WidthDefined)
	assert.Equal(t, 0.2, markings[0].Width)
	assert.Equal(t, "solid", markings[0].Attributes["type"])
}

func TestBuildRoadMarkingsDomains(t *testing.T) {
	report := &Report{}
	records := []RoadMarkElement{
		{SOffset: 0, Type: "solid"},
		{SOffset: 40, Type: "broken"},
	}
	markings := buildRoadMarkings(records, NewClosedRange(0, 100), map[string]roadMarkRepresentation{}, 1e-7, report, "lane")
	require.Len(t, markings, 2)
	// The first record reaches to the next record's start, half-open.
	assert.Equal(t, NewRange(0, 40), markings[0].Domain)
	assert.Equal(t, NewClosedRange(40, 100), markings[1].Domain)
}

func TestBuildRoadMarkingsDropsUpperBoundRecord(t *testing.T) {
	report := &Report{}
	records := []RoadMarkElement{{SOffset: 100, Type: "solid"}}
	markings := buildRoadMarkings(records, NewClosedRange(0, 100), map[string]roadMarkRepresentation{}, 1e-7, report, "lane")
	assert.Empty(t, markings)
	assert.False(t, report.IsEmpty(), "the dropped record must be reported")
}

func TestBuildRoadMarkingsSkipsNone(t *testing.T) {
	report := &Report{}
	records := []RoadMarkElement{{SOffset: 0, Type: "none"}}
	markings := buildRoadMarkings(records, NewClosedRange(0, 100), map[string]roadMarkRepresentation{}, 1e-7, report, "lane")
	assert.Empty(t, markings)
	assert.True(t, report.IsEmpty())
}

func TestBuildPatternedMarkings(t *testing.T) {
	record := RoadMarkElement{
		SOffset: 0,
		Type:    "broken",
		TypeLines: &RoadMarkTypeElement{
			Name:  "broken",
			Width: 0.15,
			Lines: []RoadMarkLineItem{{Length: 2, Space: 3}},
		},
	}

	t.Run("tiles the domain", func(t *testing.T) {
		markings := buildPatternedMarkings(record, NewClosedRange(0, 10), 1e-7)
		// Periods of 5m: dashes at [0,2] and [5,7].
		require.Len(t, markings, 2)
		assert.Equal(t, NewClosedRange(0, 2), markings[0].Domain)
		assert.Equal(t, NewClosedRange(5, 7), markings[1].Domain)
		// The line inherits the pattern-level width.
		assert.True(t, markings[0].WidthDefined)
		assert.Equal(t, 0.15, markings[0].Width)
	})

	t.Run("clips the final tile", func(t *testing.T) {
		markings := buildPatternedMarkings(record, NewClosedRange(0, 6), 1e-7)
		require.Len(t, markings, 2)
		assert.Equal(t, NewClosedRange(5, 6), markings[1].Domain)
	})

	t.Run("drops sub-tolerance tiles", func(t *testing.T) {
		markings := buildPatternedMarkings(record, NewClosedRange(0, 5.0+1e-9), 1e-7)
		require.Len(t, markings, 1)
	})
}

func TestBuildExplicitMarkings(t *testing.T) {
	report := &Report{}
	record := RoadMarkElement{
		SOffset: 0,
		Type:    "custom",
		Explicit: &RoadMarkExplicitElement{
			Lines: []RoadMarkLineItem{
				{SOffset: 1, Length: 2, TOffset: 0.1, Width: 0.1},
				{SOffset: 50, Length: 10},  // clipped at the domain end
				{SOffset: 200, Length: 1},  // outside of the record domain
			},
		},
	}
	markings := buildExplicitMarkings(record, NewClosedRange(0, 55), 1e-7, report, "lane")
	require.Len(t, markings, 2)
	assert.Equal(t, NewClosedRange(1, 3), markings[0].Domain)
	assert.Equal(t, 0.1, markings[0].LateralOffset)
	assert.True(t, markings[0].WidthDefined)
	assert.Equal(t, NewClosedRange(50, 55), markings[1].Domain)
	assert.False(t, markings[1].WidthDefined)
	assert.False(t, report.IsEmpty(), "the out-of-domain line must be reported")
}

func TestParseLaneChangeType(t *testing.T) {
	assert.Equal(t, LANE_CHANGE_INCREASE, ParseLaneChangeType("increase"))
	assert.Equal(t, LANE_CHANGE_DECREASE, ParseLaneChangeType("decrease"))
	assert.Equal(t, LANE_CHANGE_NONE, ParseLaneChangeType("none"))
	assert.Equal(t, LANE_CHANGE_BOTH, ParseLaneChangeType(""))
	assert.Equal(t, LANE_CHANGE_BOTH, ParseLaneChangeType("unheard-of"))
}
