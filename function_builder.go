package odr2city

import (
	"math"
)

// Builders for the univariate profile functions. Input records arrive sparse
// and occasionally malformed; the builders heal them (drop with a warning)
// so that downstream curve math can rely on strictly increasing starts.

// healProfileEntries drops entries with non-finite values, removes
// consecutive duplicate start positions (first wins) and drops entries that
// break the strictly increasing order. Every removal is reported.
func healProfileEntries(entries []CubicProfileEntry, tolerance float64, report *Report, context string) []CubicProfileEntry {
	healed := make([]CubicProfileEntry, 0, len(entries))
	duplicates := 0
	unordered := 0
	for _, entry := range entries {
		if !isFinite(entry.S) || !isFinite(entry.A) || !isFinite(entry.B) || !isFinite(entry.C) || !isFinite(entry.D) {
			report.Warnf(context, "dropped profile entry with non-finite value at s=%f", entry.S)
			continue
		}
		if len(healed) > 0 {
			last := healed[len(healed)-1].S
			if math.Abs(entry.S-last) <= tolerance {
				duplicates++
				continue
			}
			if entry.S < last {
				unordered++
				continue
			}
		}
		healed = append(healed, entry)
	}
	if duplicates > 0 {
		report.Warnf(context, "removed %d profile entries with duplicate curve position", duplicates)
	}
	if unordered > 0 {
		report.Warnf(context, "removed %d profile entries breaking strictly increasing curve position order", unordered)
	}
	return healed
}

// buildCubicProfileFunction concatenates cubic polynomial profile entries
// into one function over [0, domainEnd]. Zero entries yield the zero
// function; an entry starting after position 0 is continued backwards by the
// first entry.
func buildCubicProfileFunction(entries []CubicProfileEntry, domainEnd, tolerance float64, report *Report, context string) UnivariateFunction {
	domain := NewClosedRange(0, domainEnd)
	healed := healProfileEntries(entries, tolerance, report, context)
	if len(healed) == 0 {
		return NewConstantFunction(0, domain)
	}

	members := make([]UnivariateFunction, 0, len(healed))
	starts := make([]float64, 0, len(healed))
	for i, entry := range healed {
		end := domainEnd
		if i+1 < len(healed) {
			end = healed[i+1].S
		}
		members = append(members, NewCubicFunction(entry.A, entry.B, entry.C, entry.D, NewRange(0, end-entry.S)))
		starts = append(starts, entry.S)
	}
	if starts[0] > tolerance {
		report.Warnf(context, "first profile entry starts at s=%f, continuing its start value towards 0", starts[0])
		// A constant lead-in keeps the first polynomial in its own local
		// coordinates.
		lead := NewConstantFunction(healed[0].A, NewRange(0, starts[0]))
		members = append([]UnivariateFunction{lead}, members...)
		starts = append([]float64{0}, starts...)
	}
	return NewConcatenatedFunction(members, starts, domain, tolerance)
}

// buildShapeProfile groups the lateral shape entries of a road into stations
// of cubic polynomials over the lateral offset. Entries with non-finite
// values, duplicate (s, t) positions or breaking the ascending s-then-t order
// are dropped with a warning. Returns nil when the road declares no shape.
func buildShapeProfile(entries []ShapeEntry, tolerance float64, report *Report, context string) *ShapeProfile {
	if len(entries) == 0 {
		return nil
	}

	profile := &ShapeProfile{}
	dropped := 0
	for _, entry := range entries {
		if !isFinite(entry.S) || !isFinite(entry.T) || !isFinite(entry.A) ||
			!isFinite(entry.B) || !isFinite(entry.C) || !isFinite(entry.D) {
			report.Warnf(context, "dropped shape entry with non-finite value at s=%f t=%f", entry.S, entry.T)
			continue
		}
		member := NewCubicFunction(entry.A, entry.B, entry.C, entry.D, NewRange(0, 0))
		if len(profile.stations) == 0 || entry.S > profile.starts[len(profile.starts)-1]+tolerance {
			profile.stations = append(profile.stations, shapeStation{
				s:       entry.S,
				starts:  []float64{entry.T},
				members: []CubicFunction{member},
			})
			profile.starts = append(profile.starts, entry.S)
			continue
		}
		station := &profile.stations[len(profile.stations)-1]
		if math.Abs(entry.S-station.s) > tolerance || entry.T <= station.starts[len(station.starts)-1]+tolerance {
			dropped++
			continue
		}
		station.starts = append(station.starts, entry.T)
		station.members = append(station.members, member)
	}
	if dropped > 0 {
		report.Warnf(context, "removed %d shape entries with duplicate or unordered position", dropped)
	}
	if len(profile.stations) == 0 {
		return nil
	}
	return profile
}

// buildLaneWidthFunction concatenates the width entries of one lane into a
// function over the section-local domain [0, sectionLength]. Width values
// are defined by the same cubic record shape as profiles.
func buildLaneWidthFunction(entries []LaneWidthEntry, sectionLength, tolerance float64, report *Report, context string) UnivariateFunction {
	profile := make([]CubicProfileEntry, len(entries))
	for i, e := range entries {
		profile[i] = CubicProfileEntry{S: e.SOffset, A: e.A, B: e.B, C: e.C, D: e.D}
	}
	return buildCubicProfileFunction(profile, sectionLength, tolerance, report, context)
}

// buildLaneHeightFunctions builds the inner and outer vertical offset
// functions of a lane from its height entries, piecewise constant per entry
func buildLaneHeightFunctions(entries []LaneHeightEntry, sectionLength, tolerance float64, report *Report, context string) (inner, outer UnivariateFunction) {
	domain := NewClosedRange(0, sectionLength)
	healed := make([]LaneHeightEntry, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		if !isFinite(entry.SOffset) || !isFinite(entry.Inner) || !isFinite(entry.Outer) {
			report.Warnf(context, "dropped height entry with non-finite value at sOffset=%f", entry.SOffset)
			continue
		}
		if len(healed) > 0 && entry.SOffset <= healed[len(healed)-1].SOffset+tolerance {
			dropped++
			continue
		}
		healed = append(healed, entry)
	}
	if dropped > 0 {
		report.Warnf(context, "removed %d height entries with duplicate or unordered curve position", dropped)
	}
	if len(healed) == 0 {
		zero := NewConstantFunction(0, domain)
		return zero, zero
	}

	innerMembers := make([]UnivariateFunction, 0, len(healed))
	outerMembers := make([]UnivariateFunction, 0, len(healed))
	starts := make([]float64, 0, len(healed))
	for _, entry := range healed {
		innerMembers = append(innerMembers, NewConstantFunction(entry.Inner, domain))
		outerMembers = append(outerMembers, NewConstantFunction(entry.Outer, domain))
		starts = append(starts, entry.SOffset)
	}
	if starts[0] > tolerance {
		report.Warnf(context, "first height entry starts at sOffset=%f, continuing it towards 0", starts[0])
		// Height members are constant over the full domain, so rebasing the
		// first start continues its value exactly.
		starts[0] = 0
	}
	return NewConcatenatedFunction(innerMembers, starts, domain, tolerance),
		NewConcatenatedFunction(outerMembers, starts, domain, tolerance)
}

// buildStackedHeightFunction sums the road elevation (rebased to the repeat
// window) with the object's own linear vertical offset; used for repeat
// record geometry lifted to 3D
func buildStackedHeightFunction(elevation UnivariateFunction, repeat RepeatElement, window Range) UnivariateFunction {
	rebased := NewTranslatedFunction(elevation, window.Start)
	local := NewClosedRange(0, window.Length())
	zOffset := NewLinearFunctionFromEndpoints(repeat.ZOffsetStart, repeat.ZOffsetEnd, local)
	return NewStackedFunction(funcValue{domain: local, eval: rebased.Value}, zOffset)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
