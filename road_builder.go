package odr2city

import (
	"github.com/pkg/errors"
)

// buildRoadLink resolves one predecessor/successor reference into the
// linkage sum type
func buildRoadLink(reference *RoadLinkReference) (RoadLink, error) {
	if reference == nil {
		return nil, nil
	}
	switch reference.ElementType {
	case "road":
		contact := CONTACT_POINT_START
		if reference.ContactPoint == "end" {
			contact = CONTACT_POINT_END
		}
		return RoadContactReference{RoadID: reference.ElementID, Contact: contact}, nil
	case "junction":
		return JunctionReference{JunctionID: reference.ElementID}, nil
	default:
		return nil, errors.Errorf("unknown road link element type '%s'", reference.ElementType)
	}
}

// buildRoadLinkage resolves the road's link element and its junction
// membership, enforcing the mutual exclusion invariant
func buildRoadLinkage(elem RoadElement) (RoadLinkage, error) {
	var predecessor, successor RoadLink
	var err error
	if elem.Link != nil {
		predecessor, err = buildRoadLink(elem.Link.Predecessor)
		if err != nil {
			return RoadLinkage{}, errors.Wrap(err, "can't resolve predecessor")
		}
		successor, err = buildRoadLink(elem.Link.Successor)
		if err != nil {
			return RoadLinkage{}, errors.Wrap(err, "can't resolve successor")
		}
	}
	belongsTo := elem.Junction
	if belongsTo == "-1" {
		belongsTo = ""
	}
	return NewRoadLinkage(predecessor, successor, belongsTo)
}

// sectionDomains derives the road-relative window of every lane section:
// each section reaches to the next section's start, the final one is closed
// at the road length. A first section not starting at 0 is healed with a
// warning.
func sectionDomains(sections []LaneSectionElement, roadLength, tolerance float64, report *Report, context string) []Range {
	domains := make([]Range, len(sections))
	for i, section := range sections {
		start := section.S
		if i == 0 && start != 0 {
			if start > tolerance {
				report.Warnf(context, "first lane section starts at s=%f, continuing it towards 0", start)
			}
			start = 0
		}
		if i+1 < len(sections) {
			domains[i] = NewRange(start, sections[i+1].S)
		} else {
			domains[i] = NewClosedRange(start, roadLength)
		}
	}
	return domains
}

// buildRoad assembles the road aggregate: it partitions the surfaces and the
// lane offset function per lane section window, builds every section's lanes
// and center lane and resolves the road linkage. A section without exactly
// one center lane or without any left or right lane fails the whole road.
func buildRoad(id RoadspaceIdentifier, elem RoadElement, surface, surfaceWithoutTorsion *CurveRelativeSurface3D, laneOffset UnivariateFunction, representations map[string]roadMarkRepresentation, tolerance float64, report *Report) (*Road, error) {
	linkage, err := buildRoadLinkage(elem)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", id)
	}

	sectionRecords := elem.Lanes.LaneSections
	if len(sectionRecords) == 0 {
		return nil, errors.Errorf("%s: road contains no lane sections", id)
	}
	domains := sectionDomains(sectionRecords, surface.Domain().End, tolerance, report, id.String())

	laneSections := make([]*LaneSection, 0, len(sectionRecords))
	for i, record := range sectionRecords {
		sectionID := LaneSectionIdentifier{Roadspace: id, Index: i}
		domain := domains[i]
		if domain.IsEmpty(tolerance) {
			return nil, errors.Errorf("%s: lane section domain %s is empty", sectionID, domain)
		}

		var centerRecords []LaneElement
		var laneRecords []LaneElement
		for _, lane := range record.AllLanes() {
			if lane.ID == 0 {
				centerRecords = append(centerRecords, lane)
			} else {
				laneRecords = append(laneRecords, lane)
			}
		}
		if len(centerRecords) != 1 {
			return nil, errors.Errorf("%s: lane section must contain exactly one center lane, got %d", sectionID, len(centerRecords))
		}
		if len(laneRecords) == 0 {
			return nil, errors.Errorf("%s: lane section contains no left or right lane", sectionID)
		}

		centerLane := buildCenterLane(sectionID, centerRecords[0], domain.Start, domain.Length(), tolerance, representations, report)
		lanes := make([]*Lane, 0, len(laneRecords))
		for _, laneRecord := range laneRecords {
			laneID := LaneIdentifier{Section: sectionID, ID: laneRecord.ID}
			lanes = append(lanes, buildLane(laneID, laneRecord, domain.Start, domain.Length(), tolerance, representations, report))
		}

		laneSection, err := NewLaneSection(sectionID, domain, centerLane, lanes)
		if err != nil {
			return nil, err
		}
		laneSections = append(laneSections, laneSection)
	}

	return NewRoad(id, surface, surfaceWithoutTorsion, laneOffset, laneSections, linkage)
}
