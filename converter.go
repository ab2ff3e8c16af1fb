package odr2city

import (
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

const (
	defaultTolerance      = 1e-7
	defaultStep           = 0.5
	defaultCylinderSlices = 16
)

// Converter turns an OpenDRIVE element tree into a RoadspacesModel. All
// geometric predicates of one run share the converter's tolerance.
type Converter struct {
	tolerance      float64
	step           float64
	cylinderSlices int
	offset         orb.Point
	parallel       bool
	verbose        bool
}

// NewConverter returns a converter with default parameters, adjustable
// through functional options
func NewConverter(options ...func(*Converter)) *Converter {
	converter := &Converter{
		tolerance:      defaultTolerance,
		step:           defaultStep,
		cylinderSlices: defaultCylinderSlices,
	}
	for _, option := range options {
		option(converter)
	}
	return converter
}

// WithTolerance sets the epsilon below which two values or points are
// treated as equal
func WithTolerance(tolerance float64) func(*Converter) {
	return func(converter *Converter) {
		converter.tolerance = tolerance
	}
}

// WithDiscretizationStep sets the sampling step of discretized curves and
// swept geometries (meters)
func WithDiscretizationStep(step float64) func(*Converter) {
	return func(converter *Converter) {
		converter.step = step
	}
}

// WithCylinderSlices sets the tessellation resolution of cylinders and
// circles
func WithCylinderSlices(slices int) func(*Converter) {
	return func(converter *Converter) {
		converter.cylinderSlices = slices
	}
}

// WithOffset translates all plan view geometry by the given vector
func WithOffset(x, y float64) func(*Converter) {
	return func(converter *Converter) {
		converter.offset = orb.Point{x, y}
	}
}

// WithParallel enables conversion of independent road elements across
// goroutines; the result order is preserved
func WithParallel(parallel bool) func(*Converter) {
	return func(converter *Converter) {
		converter.parallel = parallel
	}
}

// WithVerbose enables progress and warning output
func WithVerbose(verbose bool) func(*Converter) {
	return func(converter *Converter) {
		converter.verbose = verbose
	}
}

// String returns pretty printed value for Converter
func (c *Converter) String() string {
	return fmt.Sprintf(`
Converter parameters:
	tolerance: %g
	step: %f
	cylinder_slices: %d
	offset: %v
	parallel?: %t
	verbose?: %t
	`,
		c.tolerance,
		c.step,
		c.cylinderSlices,
		c.offset,
		c.parallel,
		c.verbose,
	)
}

// Convert builds one Roadspace per road element of the document. A road
// failing an aggregate invariant is skipped with a report entry; the
// conversion of the remaining roads continues.
func (c *Converter) Convert(doc *OpenDRIVE) (*RoadspacesModel, error) {
	if doc == nil || len(doc.Roads) == 0 {
		return nil, errors.Errorf("document contains no road elements")
	}
	if c.verbose {
		fmt.Printf("Converting %d roads...", len(doc.Roads))
	}
	st := time.Now()

	// The most detailed road mark representation per mark type is a
	// dataset-wide decision and must be fixed before any road is built.
	representations := classifyRoadMarkRepresentations(doc.Roads)

	model := &RoadspacesModel{Name: doc.Header.Name}
	roadspaces := make([]*Roadspace, len(doc.Roads))
	reports := make([]Report, len(doc.Roads))

	convertRoad := func(i int) {
		report := &reports[i]
		roadspace, err := buildRoadspace(doc.Roads[i], doc.Header.Name, c.offset, representations, c.tolerance, c.step, c.cylinderSlices, report)
		if err != nil {
			report.Warnf(fmt.Sprintf("road '%s'", doc.Roads[i].ID), "conversion failed: %s", err.Error())
			return
		}
		roadspaces[i] = roadspace
	}

	if c.parallel {
		var wg sync.WaitGroup
		for i := range doc.Roads {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				convertRoad(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range doc.Roads {
			convertRoad(i)
		}
	}

	// Order-preserving gather.
	for i := range roadspaces {
		model.Report.Merge(&reports[i])
		if roadspaces[i] != nil {
			model.Roadspaces = append(model.Roadspaces, roadspaces[i])
		}
	}
	if len(model.Roadspaces) == 0 {
		return nil, errors.Errorf("no road could be converted")
	}

	if c.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		model.Report.Print(true)
	}
	return model, nil
}

// ConvertFile reads an .xodr file and converts it
func (c *Converter) ConvertFile(filename string) (*RoadspacesModel, error) {
	doc, err := ReadOpenDRIVEFile(filename, c.verbose)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read OpenDRIVE file")
	}
	return c.Convert(doc)
}
