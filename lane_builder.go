package odr2city

// buildLane builds one non-center lane from its lane-section-local record.
// Width and height functions run in section-local curve positions.
func buildLane(id LaneIdentifier, record LaneElement, sectionStart, sectionLength, tolerance float64, representations map[string]roadMarkRepresentation, report *Report) *Lane {
	context := id.String()
	width := buildLaneWidthFunction(record.Widths, sectionLength, tolerance, report, context)
	inner, outer := buildLaneHeightFunctions(record.Heights, sectionLength, tolerance, report, context)

	attributes := NewAttributes()
	attributes.AddInt("id", id.ID)
	attributes.AddString("type", record.Type)
	attributes.AddBool("level", record.IsLevel())
	attributes.AddFloat("curvePositionStart", sectionStart)
	switch {
	case id.IsLeft():
		attributes.AddString("side", "left")
	case id.IsRight():
		attributes.AddString("side", "right")
	}

	lane := &Lane{
		ID:                id,
		Type:              ParseLaneType(record.Type),
		Level:             record.IsLevel(),
		Width:             width,
		InnerHeightOffset: inner,
		OuterHeightOffset: outer,
		RoadMarkings:      buildRoadMarkings(record.RoadMarks, NewClosedRange(0, sectionLength), representations, tolerance, report, context),
		Attributes:        attributes,
	}
	if record.Link != nil {
		for _, ref := range record.Link.Predecessors {
			lane.Predecessors = append(lane.Predecessors, ref.ID)
		}
		for _, ref := range record.Link.Successors {
			lane.Successors = append(lane.Successors, ref.ID)
		}
	}
	return lane
}

// buildCenterLane builds the zero-width center lane of a section
func buildCenterLane(sectionID LaneSectionIdentifier, record LaneElement, sectionStart, sectionLength, tolerance float64, representations map[string]roadMarkRepresentation, report *Report) CenterLane {
	id := LaneIdentifier{Section: sectionID, ID: 0}
	attributes := NewAttributes()
	attributes.AddBool("level", record.IsLevel())
	attributes.AddFloat("curvePositionStart", sectionStart)

	return CenterLane{
		ID:           id,
		Level:        record.IsLevel(),
		RoadMarkings: buildRoadMarkings(record.RoadMarks, NewClosedRange(0, sectionLength), representations, tolerance, report, id.String()),
		Attributes:   attributes,
	}
}
