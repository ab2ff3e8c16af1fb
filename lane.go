package odr2city

import (
	"sort"

	"github.com/pkg/errors"
)

// LaneType categorizes the usage of a lane
type LaneType uint16

const (
	LANE_TYPE_NONE = LaneType(iota)
	LANE_TYPE_DRIVING
	LANE_TYPE_STOP
	LANE_TYPE_SHOULDER
	LANE_TYPE_BIKING
	LANE_TYPE_SIDEWALK
	LANE_TYPE_BORDER
	LANE_TYPE_RESTRICTED
	LANE_TYPE_PARKING
	LANE_TYPE_MEDIAN
	LANE_TYPE_CURB
	LANE_TYPE_EXIT
	LANE_TYPE_ENTRY
	LANE_TYPE_ON_RAMP
	LANE_TYPE_OFF_RAMP
	LANE_TYPE_CONNECTING_RAMP
	LANE_TYPE_BUS
	LANE_TYPE_TAXI
	LANE_TYPE_HOV
	LANE_TYPE_RAIL
	LANE_TYPE_TRAM
	LANE_TYPE_UNDEFINED = LaneType(65535)
)

var laneTypeNames = map[LaneType]string{
	LANE_TYPE_NONE:            "none",
	LANE_TYPE_DRIVING:         "driving",
	LANE_TYPE_STOP:            "stop",
	LANE_TYPE_SHOULDER:        "shoulder",
	LANE_TYPE_BIKING:          "biking",
	LANE_TYPE_SIDEWALK:        "sidewalk",
	LANE_TYPE_BORDER:          "border",
	LANE_TYPE_RESTRICTED:      "restricted",
	LANE_TYPE_PARKING:         "parking",
	LANE_TYPE_MEDIAN:          "median",
	LANE_TYPE_CURB:            "curb",
	LANE_TYPE_EXIT:            "exit",
	LANE_TYPE_ENTRY:           "entry",
	LANE_TYPE_ON_RAMP:         "onRamp",
	LANE_TYPE_OFF_RAMP:        "offRamp",
	LANE_TYPE_CONNECTING_RAMP: "connectingRamp",
	LANE_TYPE_BUS:             "bus",
	LANE_TYPE_TAXI:            "taxi",
	LANE_TYPE_HOV:             "hov",
	LANE_TYPE_RAIL:            "rail",
	LANE_TYPE_TRAM:            "tram",
	LANE_TYPE_UNDEFINED:       "undefined",
}

var laneTypesByName = func() map[string]LaneType {
	m := make(map[string]LaneType, len(laneTypeNames))
	for t, name := range laneTypeNames {
		m[name] = t
	}
	return m
}()

// String returns pretty printed value for LaneType
func (t LaneType) String() string {
	if name, ok := laneTypeNames[t]; ok {
		return name
	}
	return "undefined"
}

// ParseLaneType returns the lane type for an OpenDRIVE type string
func ParseLaneType(name string) LaneType {
	if t, ok := laneTypesByName[name]; ok {
		return t
	}
	return LANE_TYPE_UNDEFINED
}

// Lane is one non-center lane of a lane section. All functions run in
// section-local curve positions. A level lane suppresses the road torsion.
type Lane struct {
	ID                LaneIdentifier
	Type              LaneType
	Level             bool
	Width             UnivariateFunction
	InnerHeightOffset UnivariateFunction
	OuterHeightOffset UnivariateFunction
	RoadMarkings      []RoadMarking
	Predecessors      []int
	Successors        []int
	Attributes        Attributes
}

// CenterLane is the zero-width lane with id 0; every section has exactly one
type CenterLane struct {
	ID           LaneIdentifier
	Level        bool
	RoadMarkings []RoadMarking
	Attributes   Attributes
}

// LaneSection is a longitudinal segment of a road with a fixed lane
// configuration. Domain is the section's window in road-relative curve
// positions; lane math runs shifted so the section starts at 0.
type LaneSection struct {
	ID         LaneSectionIdentifier
	Domain     Range
	CenterLane CenterLane
	lanes      map[int]*Lane
}

// NewLaneSection builds a lane section. Exactly one center lane and at least
// one left or right lane are required.
func NewLaneSection(id LaneSectionIdentifier, domain Range, centerLane CenterLane, lanes []*Lane) (*LaneSection, error) {
	if len(lanes) == 0 {
		return nil, errors.Errorf("%s: lane section contains no left or right lane", id)
	}
	laneMap := make(map[int]*Lane, len(lanes))
	for _, lane := range lanes {
		if lane.ID.ID == 0 {
			return nil, errors.Errorf("%s: lane with id 0 must be the center lane", id)
		}
		if _, exists := laneMap[lane.ID.ID]; exists {
			return nil, errors.Errorf("%s: duplicate lane id %d", id, lane.ID.ID)
		}
		laneMap[lane.ID.ID] = lane
	}
	return &LaneSection{ID: id, Domain: domain, CenterLane: centerLane, lanes: laneMap}, nil
}

// Lane returns the lane with the given nonzero id
func (ls *LaneSection) Lane(id int) (*Lane, bool) {
	lane, ok := ls.lanes[id]
	return lane, ok
}

// LaneIDs returns all nonzero lane ids sorted ascending
func (ls *LaneSection) LaneIDs() []int {
	ids := make([]int, 0, len(ls.lanes))
	for id := range ls.lanes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Lanes returns all nonzero lanes ordered by ascending id
func (ls *LaneSection) Lanes() []*Lane {
	ids := ls.LaneIDs()
	lanes := make([]*Lane, 0, len(ids))
	for _, id := range ids {
		lanes = append(lanes, ls.lanes[id])
	}
	return lanes
}

// LeftLaneIDs returns the ids of left lanes ordered from the center outwards
func (ls *LaneSection) LeftLaneIDs() []int {
	var ids []int
	for id := 1; ; id++ {
		if _, ok := ls.lanes[id]; !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

// RightLaneIDs returns the ids of right lanes ordered from the center
// outwards
func (ls *LaneSection) RightLaneIDs() []int {
	var ids []int
	for id := -1; ; id-- {
		if _, ok := ls.lanes[id]; !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

// LocalLength returns the section length
func (ls *LaneSection) LocalLength() float64 {
	return ls.Domain.Length()
}
