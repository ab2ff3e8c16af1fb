package odr2city

// LaneChangeType is the lane change permission a road marking carries
type LaneChangeType uint16

const (
	LANE_CHANGE_BOTH = LaneChangeType(iota)
	LANE_CHANGE_INCREASE
	LANE_CHANGE_DECREASE
	LANE_CHANGE_NONE
)

// String returns pretty printed value for LaneChangeType
func (t LaneChangeType) String() string {
	switch t {
	case LANE_CHANGE_INCREASE:
		return "increase"
	case LANE_CHANGE_DECREASE:
		return "decrease"
	case LANE_CHANGE_NONE:
		return "none"
	default:
		return "both"
	}
}

// ParseLaneChangeType returns the permission for an OpenDRIVE laneChange
// string; both is the default of the format
func ParseLaneChangeType(name string) LaneChangeType {
	switch name {
	case "increase":
		return LANE_CHANGE_INCREASE
	case "decrease":
		return LANE_CHANGE_DECREASE
	case "none":
		return LANE_CHANGE_NONE
	default:
		return LANE_CHANGE_BOTH
	}
}

// RoadMarking is one discretizable marking segment attached to a lane
// boundary or the center lane. Domain runs in section-local curve positions
// and is never empty; a defined width is strictly positive.
type RoadMarking struct {
	Domain        Range
	Width         float64
	WidthDefined  bool
	LateralOffset float64
	LaneChange    LaneChangeType
	Attributes    Attributes
}

// roadMarkRepresentation orders the detail levels a road mark type can be
// declared with. The most detailed level seen for a mark type anywhere in
// the dataset wins and is applied to every instance of that type.
type roadMarkRepresentation int

const (
	representationGeneral roadMarkRepresentation = iota
	representationTypeLines
	representationExplicit
)

// String returns pretty printed value for roadMarkRepresentation
func (r roadMarkRepresentation) String() string {
	switch r {
	case representationExplicit:
		return "explicit"
	case representationTypeLines:
		return "typeLines"
	default:
		return "general"
	}
}

// classifyRoadMarkRepresentations scans the whole document and returns, per
// road mark type string, the most detailed representation actually used
func classifyRoadMarkRepresentations(roads []RoadElement) map[string]roadMarkRepresentation {
	representations := make(map[string]roadMarkRepresentation)
	observe := func(mark RoadMarkElement) {
		level := representationGeneral
		if mark.TypeLines != nil && len(mark.TypeLines.Lines) > 0 {
			level = representationTypeLines
		}
		if mark.Explicit != nil && len(mark.Explicit.Lines) > 0 {
			level = representationExplicit
		}
		if current, ok := representations[mark.Type]; !ok || level > current {
			representations[mark.Type] = level
		}
	}
	for _, road := range roads {
		for _, section := range road.Lanes.LaneSections {
			for _, lane := range section.AllLanes() {
				for _, mark := range lane.RoadMarks {
					observe(mark)
				}
			}
		}
	}
	return representations
}
