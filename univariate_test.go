package odr2city

import (
	"math"
	"testing"
)

func TestCubicFunctionValueAndSlope(t *testing.T) {
	f := NewCubicFunction(1.0, 2.0, 3.0, 4.0, NewClosedRange(0, 10))
	v, err := f.Value(2.0)
	if err != nil {
		t.Error(err)
	}
	// 1 + 2*2 + 3*4 + 4*8 = 49
	if v != 49.0 {
		t.Errorf("Cubic value must be 49.0, but got %f", v)
	}
	// 2 + 6*2 + 12*4 = 62
	slope := f.Slope(2.0)
	if slope != 62.0 {
		t.Errorf("Cubic slope must be 62.0, but got %f", slope)
	}
}

func TestLinearFunctionFromEndpoints(t *testing.T) {
	f := NewLinearFunctionFromEndpoints(1.0, 3.0, NewClosedRange(10, 20))
	cases := map[float64]float64{
		10.0: 1.0,
		15.0: 2.0,
		20.0: 3.0,
	}
	for x, expected := range cases {
		v, err := f.Value(x)
		if err != nil {
			t.Error(err)
		}
		if math.Abs(v-expected) > 1e-12 {
			t.Errorf("Linear value at %f must be %f, but got %f", x, expected, v)
		}
	}
}

func TestLinearFunctionZeroLengthDomain(t *testing.T) {
	f := NewLinearFunctionFromEndpoints(5.0, 9.0, NewClosedRange(3, 3))
	v, err := f.Value(3.0)
	if err != nil {
		t.Error(err)
	}
	if v != 5.0 {
		t.Errorf("Zero-length domain must yield the start value 5.0, but got %f", v)
	}
}

func TestConcatenatedFunctionDispatch(t *testing.T) {
	domain := NewClosedRange(0, 100)
	members := []UnivariateFunction{
		NewConstantFunction(1.0, NewRange(0, 50)),
		NewConstantFunction(2.0, NewRange(0, 50)),
	}
	f := NewConcatenatedFunction(members, []float64{0, 50}, domain, 1e-7)

	cases := map[float64]float64{
		0.0:   1.0,
		25.0:  1.0,
		49.99: 1.0,
		50.0:  2.0,
		75.0:  2.0,
		100.0: 2.0,
	}
	for x, expected := range cases {
		v, err := f.Value(x)
		if err != nil {
			t.Error(err)
		}
		if v != expected {
			t.Errorf("Concatenated value at %f must be %f, but got %f", x, expected, v)
		}
	}
}

func TestConcatenatedFunctionOutsideDomain(t *testing.T) {
	members := []UnivariateFunction{NewConstantFunction(1.0, NewRange(0, 100))}
	f := NewConcatenatedFunction(members, []float64{0}, NewClosedRange(0, 100), 1e-7)
	if _, err := f.Value(-5.0); err == nil {
		t.Error("Evaluation outside of the domain must fail")
	}
	if _, err := f.Value(105.0); err == nil {
		t.Error("Evaluation outside of the domain must fail")
	}
	// Positions within tolerance of the bounds are clamped, not rejected.
	if _, err := f.Value(100.0 + 1e-8); err != nil {
		t.Errorf("Evaluation within tolerance of the upper bound must succeed, but got %s", err.Error())
	}
}

func TestStackedFunction(t *testing.T) {
	domain := NewClosedRange(0, 10)
	f := NewStackedFunction(
		NewConstantFunction(1.5, domain),
		NewLinearFunctionFromEndpoints(0, 10, domain),
	)
	v, err := f.Value(4.0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-5.5) > 1e-12 {
		t.Errorf("Stacked value must be 5.5, but got %f", v)
	}
}

func TestTranslatedFunction(t *testing.T) {
	inner := NewLinearFunctionFromEndpoints(0, 100, NewClosedRange(0, 100))
	f := NewTranslatedFunction(inner, 40)

	domain := f.Domain()
	if domain.Start != -40 || domain.End != 60 {
		t.Errorf("Translated domain must be [-40, 60], but got %s", domain)
	}
	v, err := f.Value(0)
	if err != nil {
		t.Error(err)
	}
	if math.Abs(v-40.0) > 1e-12 {
		t.Errorf("Translated value at 0 must be 40.0, but got %f", v)
	}
}

func TestRangeContainsStrict(t *testing.T) {
	halfOpen := NewRange(0, 50)
	if halfOpen.ContainsStrict(50.0) {
		t.Error("Half-open interval must not contain its upper bound")
	}
	closed := NewClosedRange(50, 100)
	if !closed.ContainsStrict(50.0) || !closed.ContainsStrict(100.0) {
		t.Error("Closed interval must contain both bounds")
	}
	if !halfOpen.Contains(50.0, 1e-7) {
		t.Error("Fuzzy containment must treat the upper bound as inclusive")
	}
}
