package odr2city

import "math"

// buildRoadMarkings turns the road mark records of one lane into marking
// segments in section-local curve positions. Record domains reach to the
// next record's start; the final one is closed at the section end. A record
// starting at the section's upper bound carries no extent and is dropped
// with a warning.
func buildRoadMarkings(records []RoadMarkElement, sectionDomain Range, representations map[string]roadMarkRepresentation, tolerance float64, report *Report, context string) []RoadMarking {
	var markings []RoadMarking
	for i, record := range records {
		if record.Type == "none" || record.Type == "" {
			continue
		}
		if !sectionDomain.Contains(record.SOffset, tolerance) {
			report.Warnf(context, "dropped road mark at sOffset=%f outside of the lane section domain %s", record.SOffset, sectionDomain)
			continue
		}
		if math.Abs(record.SOffset-sectionDomain.End) <= tolerance {
			report.Warnf(context, "dropped road mark starting exactly at the lane section's upper bound s=%f", record.SOffset)
			continue
		}

		end := sectionDomain.End
		closed := true
		if i+1 < len(records) && records[i+1].SOffset < end {
			end = records[i+1].SOffset
			closed = false
		}
		domain := Range{Start: record.SOffset, End: end, ClosedEnd: closed}
		if domain.IsEmpty(tolerance) {
			report.Warnf(context, "dropped road mark at sOffset=%f with empty domain", record.SOffset)
			continue
		}

		switch representations[record.Type] {
		case representationExplicit:
			markings = append(markings, buildExplicitMarkings(record, domain, tolerance, report, context)...)
		case representationTypeLines:
			markings = append(markings, buildPatternedMarkings(record, domain, tolerance)...)
		default:
			markings = append(markings, buildGeneralMarking(record, domain))
		}
	}
	return markings
}

// buildGeneralMarking emits one marking spanning the whole record domain
func buildGeneralMarking(record RoadMarkElement, domain Range) RoadMarking {
	marking := RoadMarking{
		Domain:     domain,
		LaneChange: ParseLaneChangeType(record.LaneChange),
		Attributes: markingAttributes(record),
	}
	if record.Width != nil && *record.Width > 0 {
		marking.Width = *record.Width
		marking.WidthDefined = true
	}
	return marking
}

// buildPatternedMarkings tiles (length + space) periods of every declared
// line across the record domain, clipping the final tile at the domain's
// upper bound and dropping clipped tiles shorter than tolerance
func buildPatternedMarkings(record RoadMarkElement, domain Range, tolerance float64) []RoadMarking {
	var markings []RoadMarking
	for _, line := range record.TypeLines.Lines {
		period := line.Length + line.Space
		if line.Length <= tolerance || period <= tolerance {
			continue
		}
		width := line.Width
		if width <= 0 && record.TypeLines.Width > 0 {
			width = record.TypeLines.Width
		}
		for start := domain.Start + line.SOffset; start < domain.End; start += period {
			end := math.Min(start+line.Length, domain.End)
			if end-start <= tolerance {
				break
			}
			marking := RoadMarking{
				Domain:        NewClosedRange(start, end),
				LateralOffset: line.TOffset,
				LaneChange:    ParseLaneChangeType(record.LaneChange),
				Attributes:    markingAttributes(record),
			}
			if width > 0 {
				marking.Width = width
				marking.WidthDefined = true
			}
			markings = append(markings, marking)
		}
	}
	return markings
}

// buildExplicitMarkings emits exactly the declared line segments, translated
// into the section's curve position space
func buildExplicitMarkings(record RoadMarkElement, domain Range, tolerance float64, report *Report, context string) []RoadMarking {
	var markings []RoadMarking
	for _, line := range record.Explicit.Lines {
		start := domain.Start + line.SOffset
		end := start + line.Length
		if !domain.Contains(start, tolerance) {
			report.Warnf(context, "dropped explicit road mark line at s=%f outside of the record domain %s", start, domain)
			continue
		}
		if end > domain.End {
			end = domain.End
		}
		if end-start <= tolerance {
			report.Warnf(context, "dropped explicit road mark line at s=%f shorter than tolerance after clipping", start)
			continue
		}
		marking := RoadMarking{
			Domain:        NewClosedRange(start, end),
			LateralOffset: line.TOffset,
			LaneChange:    ParseLaneChangeType(record.LaneChange),
			Attributes:    markingAttributes(record),
		}
		if line.Width > 0 {
			marking.Width = line.Width
			marking.WidthDefined = true
		}
		markings = append(markings, marking)
	}
	return markings
}

func markingAttributes(record RoadMarkElement) Attributes {
	attributes := NewAttributes()
	attributes.AddString("type", record.Type)
	attributes.AddString("weight", record.Weight)
	attributes.AddString("color", record.Color)
	attributes.AddString("material", record.Material)
	return attributes
}
