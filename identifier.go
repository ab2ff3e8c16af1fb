package odr2city

import "fmt"

// Hierarchical composite keys of the model: model -> road -> lane section -> lane.

// RoadspaceIdentifier identifies one road element within the source model
type RoadspaceIdentifier struct {
	RoadID    string
	ModelName string
}

// String returns pretty printed value for RoadspaceIdentifier
func (id RoadspaceIdentifier) String() string {
	return fmt.Sprintf("road '%s'", id.RoadID)
}

// LaneSectionIdentifier identifies one lane section within a road. Index is
// the position of the section along the road and is never negative.
type LaneSectionIdentifier struct {
	Roadspace RoadspaceIdentifier
	Index     int
}

// String returns pretty printed value for LaneSectionIdentifier
func (id LaneSectionIdentifier) String() string {
	return fmt.Sprintf("%s, section %d", id.Roadspace, id.Index)
}

// LaneIdentifier identifies one lane within a lane section. Positive ids are
// left lanes, negative ids right lanes, id 0 is the center lane.
type LaneIdentifier struct {
	Section LaneSectionIdentifier
	ID      int
}

// String returns pretty printed value for LaneIdentifier
func (id LaneIdentifier) String() string {
	return fmt.Sprintf("%s, lane %d", id.Section, id.ID)
}

// IsLeft reports whether the lane lies left of the reference line
func (id LaneIdentifier) IsLeft() bool {
	return id.ID > 0
}

// IsRight reports whether the lane lies right of the reference line
func (id LaneIdentifier) IsRight() bool {
	return id.ID < 0
}

// IsCenter reports whether the lane is the center lane
func (id LaneIdentifier) IsCenter() bool {
	return id.ID == 0
}

// RoadspaceObjectIdentifier identifies one road object or signal
type RoadspaceObjectIdentifier struct {
	Roadspace RoadspaceIdentifier
	ObjectID  string
}

// String returns pretty printed value for RoadspaceObjectIdentifier
func (id RoadspaceObjectIdentifier) String() string {
	return fmt.Sprintf("%s, object '%s'", id.Roadspace, id.ObjectID)
}
