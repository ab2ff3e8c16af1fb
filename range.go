package odr2city

import "fmt"

// Range is an interval on the curve position axis. The upper bound is
// half-open by default; the last lane section or geometry segment of a road
// closes it.
type Range struct {
	Start     float64
	End       float64
	ClosedEnd bool
}

// NewRange returns a half-open interval [start, end)
func NewRange(start, end float64) Range {
	return Range{Start: start, End: end}
}

// NewClosedRange returns a closed interval [start, end]
func NewClosedRange(start, end float64) Range {
	return Range{Start: start, End: end, ClosedEnd: true}
}

// String returns pretty printed value for Range
func (r Range) String() string {
	if r.ClosedEnd {
		return fmt.Sprintf("[%f, %f]", r.Start, r.End)
	}
	return fmt.Sprintf("[%f, %f)", r.Start, r.End)
}

// Length returns length of the interval
func (r Range) Length() float64 {
	return r.End - r.Start
}

// IsEmpty reports whether the interval contains no values (up to given tolerance)
func (r Range) IsEmpty(tolerance float64) bool {
	return r.Length() <= tolerance
}

// Contains reports whether x lies within the interval, allowing a fuzzy
// overshoot of tolerance at both bounds. The upper bound is treated as
// inclusive regardless of ClosedEnd, since evaluation at the exact segment
// boundary must succeed for either the ending or the starting segment.
func (r Range) Contains(x, tolerance float64) bool {
	return x >= r.Start-tolerance && x <= r.End+tolerance
}

// ContainsStrict reports whether x lies within the interval honoring the
// open/closed upper bound. Used for dispatching a curve position to exactly
// one member of a sequence of adjacent intervals.
func (r Range) ContainsStrict(x float64) bool {
	if x < r.Start {
		return false
	}
	if r.ClosedEnd {
		return x <= r.End
	}
	return x < r.End
}

// Encloses reports whether the other interval lies completely within this
// one, allowing a fuzzy overshoot of tolerance at both bounds.
func (r Range) Encloses(other Range, tolerance float64) bool {
	return other.Start >= r.Start-tolerance && other.End <= r.End+tolerance
}

// Clamp projects x onto the interval
func (r Range) Clamp(x float64) float64 {
	if x < r.Start {
		return r.Start
	}
	if x > r.End {
		return r.End
	}
	return x
}

// Shift translates both bounds by d
func (r Range) Shift(d float64) Range {
	return Range{Start: r.Start + d, End: r.End + d, ClosedEnd: r.ClosedEnd}
}
