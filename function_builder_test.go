package odr2city

import (
	"math"
	"testing"
)

func TestBuildCubicProfileFunctionEmpty(t *testing.T) {
	report := &Report{}
	f := buildCubicProfileFunction(nil, 100, 1e-7, report, "road '1'")
	v, err := f.Value(42.0)
	if err != nil {
		t.Error(err)
	}
	if v != 0.0 {
		t.Errorf("Empty profile must yield the zero function, but got %f", v)
	}
	if !report.IsEmpty() {
		t.Error("Empty profile must not produce warnings")
	}
}

func TestBuildCubicProfileFunctionDispatch(t *testing.T) {
	report := &Report{}
	entries := []CubicProfileEntry{
		{S: 0, A: 1.0},
		{S: 50, A: 2.0},
	}
	f := buildCubicProfileFunction(entries, 100, 1e-7, report, "road '1'")
	cases := map[float64]float64{
		0.0:   1.0,
		25.0:  1.0,
		50.0:  2.0,
		100.0: 2.0,
	}
	for s, expected := range cases {
		v, err := f.Value(s)
		if err != nil {
			t.Error(err)
		}
		if v != expected {
			t.Errorf("Profile value at s=%f must be %f, but got %f", s, expected, v)
		}
	}
}

func TestBuildCubicProfileFunctionLocalCoordinates(t *testing.T) {
	report := &Report{}
	// The second entry's polynomial runs in local coordinates from its own
	// start position.
	entries := []CubicProfileEntry{
		{S: 0, A: 0.0},
		{S: 50, A: 10.0, B: 1.0},
	}
	f := buildCubicProfileFunction(entries, 100, 1e-7, report, "road '1'")
	v, err := f.Value(60.0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-20.0) > 1e-12 {
		t.Errorf("Profile value at s=60 must be 20.0, but got %f", v)
	}
}

func TestHealProfileEntries(t *testing.T) {
	report := &Report{}
	entries := []CubicProfileEntry{
		{S: 0, A: 1.0},
		{S: 0, A: 9.0},              // duplicate start, first wins
		{S: 50, A: math.NaN()},      // non-finite value
		{S: 60, A: 2.0},
		{S: 55, A: 3.0},             // breaks increasing order
	}
	healed := healProfileEntries(entries, 1e-7, report, "road '1'")
	if len(healed) != 2 {
		t.Errorf("Healing must keep 2 entries, but got %d", len(healed))
		return
	}
	if healed[0].A != 1.0 || healed[1].A != 2.0 {
		t.Errorf("Healing must keep the entries at s=0 and s=60, but got %v", healed)
	}
	if len(report.Messages()) != 3 {
		t.Errorf("Healing must report 3 issues, but got %d:\n%s", len(report.Messages()), report.String())
	}
}

func TestBuildCubicProfileFunctionHealsFirstStart(t *testing.T) {
	report := &Report{}
	entries := []CubicProfileEntry{{S: 5, A: 7.0, B: 1.0}}
	f := buildCubicProfileFunction(entries, 100, 1e-7, report, "road '1'")
	v, err := f.Value(0.0)
	if err != nil {
		t.Error(err)
	}
	if v != 7.0 {
		t.Errorf("The first entry must be continued towards 0, but got %f", v)
	}
	// The continuation must not rebase the entry's local coordinate: inside
	// the entry's own domain, p(s - 5) governs.
	v, err = f.Value(10.0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-12.0) > 1e-12 {
		t.Errorf("Profile value at s=10 must be 12.0, but got %f", v)
	}
	v, err = f.Value(3.0)
	if err != nil {
		t.Error(err)
	}
	if v != 7.0 {
		t.Errorf("The lead-in before the first entry must hold its start value, but got %f", v)
	}
	if report.IsEmpty() {
		t.Error("Continuing the first entry towards 0 must leave a warning")
	}
}

func TestBuildLaneHeightFunctionsHealsFirstStart(t *testing.T) {
	report := &Report{}
	entries := []LaneHeightEntry{{SOffset: 20, Inner: 0.1, Outer: 0.2}}
	inner, _ := buildLaneHeightFunctions(entries, 100, 1e-7, report, "lane")
	v, err := inner.Value(5.0)
	if err != nil {
		t.Error(err)
	}
	if v != 0.1 {
		t.Errorf("The first height entry must be continued towards 0, but got %f", v)
	}
	if report.IsEmpty() {
		t.Error("Continuing the first height entry towards 0 must leave a warning")
	}
}

func TestBuildLaneHeightFunctions(t *testing.T) {
	report := &Report{}
	entries := []LaneHeightEntry{
		{SOffset: 0, Inner: 0.1, Outer: 0.2},
		{SOffset: 50, Inner: 0.3, Outer: 0.4},
	}
	inner, outer := buildLaneHeightFunctions(entries, 100, 1e-7, report, "lane")

	v, err := inner.Value(25.0)
	if err != nil {
		t.Error(err)
	}
	if v != 0.1 {
		t.Errorf("Inner height at s=25 must be 0.1, but got %f", v)
	}
	v, err = inner.Value(75.0)
	if err != nil {
		t.Error(err)
	}
	if v != 0.3 {
		t.Errorf("Inner height at s=75 must be 0.3, but got %f", v)
	}
	v, err = outer.Value(75.0)
	if err != nil {
		t.Error(err)
	}
	if v != 0.4 {
		t.Errorf("Outer height at s=75 must be 0.4, but got %f", v)
	}
}

func TestBuildLaneHeightFunctionsEmpty(t *testing.T) {
	report := &Report{}
	inner, outer := buildLaneHeightFunctions(nil, 100, 1e-7, report, "lane")
	vi, err := inner.Value(10.0)
	if err != nil {
		t.Error(err)
	}
	vo, err := outer.Value(10.0)
	if err != nil {
		t.Error(err)
	}
	if vi != 0.0 || vo != 0.0 {
		t.Errorf("Lanes without height entries must have zero offsets, but got %f and %f", vi, vo)
	}
}

func TestBuildStackedHeightFunction(t *testing.T) {
	elevation := NewLinearFunctionFromEndpoints(0, 100, NewClosedRange(0, 100))
	repeat := RepeatElement{ZOffsetStart: 1.0, ZOffsetEnd: 3.0}
	window := NewClosedRange(10, 30)
	f := buildStackedHeightFunction(elevation, repeat, window)

	// At window-local 0: elevation(10) + zOffset(0) = 10 + 1.
	v, err := f.Value(0.0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-11.0) > 1e-12 {
		t.Errorf("Stacked height at 0 must be 11.0, but got %f", v)
	}
	// At window-local 20: elevation(30) + zOffset(20) = 30 + 3.
	v, err = f.Value(20.0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-33.0) > 1e-12 {
		t.Errorf("Stacked height at 20 must be 33.0, but got %f", v)
	}
}

func TestBuildShapeProfile(t *testing.T) {
	report := &Report{}
	entries := []ShapeEntry{
		{S: 0, T: 0, A: 0.0},
		{S: 0, T: 2, A: 0.5, B: 0.1},
		{S: 50, T: 0, A: 0.0},
		{S: 50, T: 2, A: 1.0},
	}
	shape := buildShapeProfile(entries, 1e-7, report, "road '1'")
	if shape == nil {
		t.Fatal("A declared shape profile must not be nil")
	}
	cases := []struct{ s, t, expected float64 }{
		{0, 1, 0.0},    // the first polynomial governs below t=2
		{0, 2, 0.5},    // the second polynomial in its own local coordinate
		{0, 3, 0.6},    // 0.5 + 0.1*(3-2)
		{25, 2, 0.75},  // linear interpolation between the stations
		{50, 2, 1.0},
		{80, 2, 1.0},   // the last station continues
	}
	for _, c := range cases {
		v, err := shape.Value(c.s, c.t)
		if err != nil {
			t.Error(err)
		}
		if math.Abs(v-c.expected) > 1e-12 {
			t.Errorf("Shape value at s=%f t=%f must be %f, but got %f", c.s, c.t, c.expected, v)
		}
	}
	if !report.IsEmpty() {
		t.Errorf("Well-formed shape entries must not produce warnings:\n%s", report.String())
	}
}

func TestBuildShapeProfileHealing(t *testing.T) {
	report := &Report{}
	entries := []ShapeEntry{
		{S: 0, T: 0, A: 1.0},
		{S: 0, T: 0, A: 9.0},            // duplicate t, first wins
		{S: 0, T: 1, A: math.NaN()},     // non-finite value
		{S: 50, T: 0, A: 2.0},
		{S: 20, T: 0, A: 3.0},           // breaks ascending station order
	}
	shape := buildShapeProfile(entries, 1e-7, report, "road '1'")
	if shape == nil {
		t.Fatal("Healing must keep the valid shape entries")
	}
	v, err := shape.Value(0, 0)
	if err != nil {
		t.Error(err)
	}
	if v != 1.0 {
		t.Errorf("Shape value at s=0 must be 1.0, but got %f", v)
	}
	v, err = shape.Value(50, 0)
	if err != nil {
		t.Error(err)
	}
	if v != 2.0 {
		t.Errorf("Shape value at s=50 must be 2.0, but got %f", v)
	}
	if len(report.Messages()) != 2 {
		t.Errorf("Healing must report 2 issues, but got %d:\n%s", len(report.Messages()), report.String())
	}
}

func TestBuildShapeProfileEmpty(t *testing.T) {
	report := &Report{}
	if shape := buildShapeProfile(nil, 1e-7, report, "road '1'"); shape != nil {
		t.Error("A road without shape entries must have a nil shape profile")
	}
}
