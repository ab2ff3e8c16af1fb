package odr2city

import (
	"sort"

	"github.com/pkg/errors"
)

// UnivariateFunction is a scalar function of the curve position. Width,
// lateral offset, elevation and torsion profiles are all expressed this way
// and combined by pointwise composition rather than mutable accumulators.
type UnivariateFunction interface {
	Domain() Range
	Value(x float64) (float64, error)
}

// ConstantFunction returns the same value everywhere on its domain
type ConstantFunction struct {
	C      float64
	domain Range
}

// NewConstantFunction builds a constant function over the given domain
func NewConstantFunction(c float64, domain Range) ConstantFunction {
	return ConstantFunction{C: c, domain: domain}
}

// Domain returns the definition interval
func (f ConstantFunction) Domain() Range {
	return f.domain
}

// Value evaluates the function
func (f ConstantFunction) Value(x float64) (float64, error) {
	return f.C, nil
}

// LinearFunction is intercept + slope*x over its domain. Repeat records use
// it to interpolate width, height, radius and z-offset between their start
// and end values.
type LinearFunction struct {
	Intercept float64
	Slope     float64
	domain    Range
}

// NewLinearFunctionFromEndpoints builds the linear interpolation between
// (domain.Start, startValue) and (domain.End, endValue). A zero-length
// domain yields the constant startValue.
func NewLinearFunctionFromEndpoints(startValue, endValue float64, domain Range) LinearFunction {
	slope := 0.0
	if domain.Length() > 0 {
		slope = (endValue - startValue) / domain.Length()
	}
	return LinearFunction{
		Intercept: startValue - slope*domain.Start,
		Slope:     slope,
		domain:    domain,
	}
}

// Domain returns the definition interval
func (f LinearFunction) Domain() Range {
	return f.domain
}

// Value evaluates the function
func (f LinearFunction) Value(x float64) (float64, error) {
	return f.Intercept + f.Slope*x, nil
}

// CubicFunction is a + b*x + c*x^2 + d*x^3 on a local domain starting at 0.
// OpenDRIVE width, elevation, superelevation and lane offset entries all
// carry their coefficients in this shape.
type CubicFunction struct {
	A, B, C, D float64
	domain     Range
}

// NewCubicFunction builds a cubic polynomial over the given local domain
func NewCubicFunction(a, b, c, d float64, domain Range) CubicFunction {
	return CubicFunction{A: a, B: b, C: c, D: d, domain: domain}
}

// Domain returns the definition interval
func (f CubicFunction) Domain() Range {
	return f.domain
}

// Value evaluates the polynomial (Horner)
func (f CubicFunction) Value(x float64) (float64, error) {
	return f.A + x*(f.B+x*(f.C+x*f.D)), nil
}

// Slope evaluates the first derivative
func (f CubicFunction) Slope(x float64) float64 {
	return f.B + x*(2*f.C+x*3*f.D)
}

// ConcatenatedFunction is a piecewise function whose members are evaluated
// in local coordinates relative to each member's absolute start. Between the
// last member start and the domain end the last member continues; this is
// value continuation, not smoothing.
type ConcatenatedFunction struct {
	members   []UnivariateFunction
	starts    []float64
	domain    Range
	tolerance float64
}

// NewConcatenatedFunction builds a piecewise function from members and their
// absolute start positions. Preconditions (caller-enforced by the function
// builder): starts strictly increasing, len(members) == len(starts) > 0.
func NewConcatenatedFunction(members []UnivariateFunction, starts []float64, domain Range, tolerance float64) *ConcatenatedFunction {
	return &ConcatenatedFunction{members: members, starts: starts, domain: domain, tolerance: tolerance}
}

// Domain returns the definition interval
func (f *ConcatenatedFunction) Domain() Range {
	return f.domain
}

// Value evaluates the member whose start interval contains x, in member-local
// coordinates. Positions up to tolerance outside the domain are clamped.
func (f *ConcatenatedFunction) Value(x float64) (float64, error) {
	if !f.domain.Contains(x, f.tolerance) {
		return 0, errors.Errorf("curve position %f outside of function domain %s", x, f.domain)
	}
	x = f.domain.Clamp(x)
	idx := sort.SearchFloat64s(f.starts, x)
	// SearchFloat64s returns the insertion index; the governing member is the
	// last one starting at or before x.
	if idx == len(f.starts) || f.starts[idx] > x {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	return f.members[idx].Value(x - f.starts[idx])
}

// StackedFunction is the pointwise sum of two functions, evaluated lazily.
// Repeat records stack the road elevation profile with the object's own
// vertical offset this way.
type StackedFunction struct {
	first  UnivariateFunction
	second UnivariateFunction
	domain Range
}

// NewStackedFunction builds f+g over the domain of the first function
func NewStackedFunction(first, second UnivariateFunction) StackedFunction {
	return StackedFunction{first: first, second: second, domain: first.Domain()}
}

// Domain returns the definition interval
func (f StackedFunction) Domain() Range {
	return f.domain
}

// Value evaluates first(x) + second(x)
func (f StackedFunction) Value(x float64) (float64, error) {
	a, err := f.first.Value(x)
	if err != nil {
		return 0, err
	}
	b, err := f.second.Value(x)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

// TranslatedFunction shifts the argument axis: Value(x) = inner(x + shift).
// Sectioning a road-relative function into section-local coordinates is a
// translation by the section start.
type TranslatedFunction struct {
	inner UnivariateFunction
	shift float64
}

// NewTranslatedFunction rebases inner so that inner's position (shift) maps
// to the new position 0
func NewTranslatedFunction(inner UnivariateFunction, shift float64) TranslatedFunction {
	return TranslatedFunction{inner: inner, shift: shift}
}

// Domain returns the definition interval in rebased coordinates
func (f TranslatedFunction) Domain() Range {
	return f.inner.Domain().Shift(-f.shift)
}

// Value evaluates the rebased function
func (f TranslatedFunction) Value(x float64) (float64, error) {
	return f.inner.Value(x + f.shift)
}

// funcValue is the closure adapter for lane lateral accumulation
type funcValue struct {
	domain Range
	eval   func(x float64) (float64, error)
}

func (f funcValue) Domain() Range {
	return f.domain
}

func (f funcValue) Value(x float64) (float64, error) {
	return f.eval(x)
}
