package odr2city

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Typed construction failures of the outline geometry builder. The object
// builder matches on these to report the reason without aborting sibling
// objects.
var (
	ErrNotEnoughValidOutlineElements = errors.New("NotEnoughValidOutlineElementsForPolyhedron")
	ErrColinearOutlineElements       = errors.New("ColinearOutlineElementsForPolyhedron")
)

// VerticalOutlineElement is one outline corner during polyhedron
// construction: a base point and up to two head points (the lifted corners
// towards the previous and the next side face). It only lives for the
// duration of one build call.
type VerticalOutlineElement struct {
	Base  Vector3D
	Heads []Vector3D
}

// NewVerticalOutlineElement builds an outline element; a head is added only
// when it does not coincide with the base
func NewVerticalOutlineElement(base Vector3D, heads ...Vector3D) VerticalOutlineElement {
	element := VerticalOutlineElement{Base: base}
	for _, head := range heads {
		if head != base {
			element.Heads = append(element.Heads, head)
		}
	}
	return element
}

// HasHeads reports whether the corner carries any vertical extent
func (e VerticalOutlineElement) HasHeads() bool {
	return len(e.Heads) > 0
}

// headTowardsNext returns the lifted corner used by the side face to the
// next element, falling back to the base
func (e VerticalOutlineElement) headTowardsNext() Vector3D {
	if len(e.Heads) == 0 {
		return e.Base
	}
	return e.Heads[len(e.Heads)-1]
}

// headTowardsPrev returns the lifted corner used by the side face to the
// previous element, falling back to the base
func (e VerticalOutlineElement) headTowardsPrev() Vector3D {
	if len(e.Heads) == 0 {
		return e.Base
	}
	return e.Heads[0]
}

// healVerticalOutlineElements merges adjacent elements sharing a base point
// and removes immediate back-and-forth (A,B,A) patterns. Every removal or
// merge is reported as a non-fatal issue.
func healVerticalOutlineElements(elements []VerticalOutlineElement, tolerance float64, report *Report, context string) []VerticalOutlineElement {
	if len(elements) == 0 {
		return elements
	}

	// Merge runs of consecutively repeated base points.
	merged := make([]VerticalOutlineElement, 0, len(elements))
	chain := 1
	for _, element := range elements {
		if len(merged) > 0 && merged[len(merged)-1].Base.FuzzyEquals(element.Base, tolerance) {
			last := &merged[len(merged)-1]
			for _, head := range element.Heads {
				if len(last.Heads) < 2 {
					last.Heads = append(last.Heads, head)
				}
			}
			chain++
			continue
		}
		if chain > 1 {
			report.Warnf(context, "merged %d consecutive outline corners sharing a base point", chain)
			if chain > 2 {
				report.Warnf(context, "more than two outline corners chained on the same base point")
			}
		}
		chain = 1
		merged = append(merged, element)
	}
	if chain > 1 {
		report.Warnf(context, "merged %d consecutive outline corners sharing a base point", chain)
		if chain > 2 {
			report.Warnf(context, "more than two outline corners chained on the same base point")
		}
	}

	// An explicitly closed ring repeats the first base at the end; drop it.
	if len(merged) > 1 && merged[0].Base.FuzzyEquals(merged[len(merged)-1].Base, tolerance) {
		merged = merged[:len(merged)-1]
	}

	// Drop immediate back-and-forth patterns (A, B, A).
	cleaned := make([]VerticalOutlineElement, 0, len(merged))
	for _, element := range merged {
		if len(cleaned) >= 2 && cleaned[len(cleaned)-2].Base.FuzzyEquals(element.Base, tolerance) {
			report.Warnf(context, "dropped outline corners forming a back-and-forth duplicate pattern")
			cleaned = cleaned[:len(cleaned)-1]
			continue
		}
		cleaned = append(cleaned, element)
	}
	return cleaned
}

// basePointsColinear reports whether the centered base points span less than
// a plane, decided by the singular values of the point matrix
func basePointsColinear(elements []VerticalOutlineElement, tolerance float64) bool {
	centroid := Vector3D{}
	for _, element := range elements {
		centroid = centroid.Add(element.Base)
	}
	centroid = centroid.Scale(1.0 / float64(len(elements)))

	data := make([]float64, 0, len(elements)*3)
	for _, element := range elements {
		d := element.Base.Sub(centroid)
		data = append(data, d.X, d.Y, d.Z)
	}
	points := mat.NewDense(len(elements), 3, data)

	var svd mat.SVD
	if ok := svd.Factorize(points, mat.SVDNone); !ok {
		return true
	}
	values := svd.Values(nil)
	rank := 0
	for _, sv := range values {
		if sv > tolerance {
			rank++
		}
	}
	return rank < 2
}

// buildPolyhedronFromVerticalOutlineElements assembles a closed solid from
// cleaned outline corners. The bottom face is the base ring, the roof ring
// uses each corner's lifted point, and side faces are built between
// consecutive corners unless neither corner has any vertical extent. All
// faces are triangulated independently.
func buildPolyhedronFromVerticalOutlineElements(elements []VerticalOutlineElement, tolerance float64, report *Report, context string) (*Polyhedron3D, error) {
	healed := healVerticalOutlineElements(elements, tolerance, report, context)
	if len(healed) < 3 {
		return nil, errors.Wrapf(ErrNotEnoughValidOutlineElements, "%d distinct base points remain", len(healed))
	}
	if basePointsColinear(healed, tolerance) {
		return nil, ErrColinearOutlineElements
	}

	var faces []Polygon3D

	bottom := make(Polygon3D, len(healed))
	roof := make(Polygon3D, len(healed))
	anyHeads := false
	for i, element := range healed {
		bottom[i] = element.Base
		roof[i] = element.headTowardsNext()
		if element.HasHeads() {
			anyHeads = true
		}
	}
	faces = append(faces, triangulatePolygon(bottom.Reverse())...)
	if anyHeads {
		faces = append(faces, triangulatePolygon(roof)...)
	}

	for i := range healed {
		cur := healed[i]
		next := healed[(i+1)%len(healed)]
		if !cur.HasHeads() && !next.HasHeads() {
			continue
		}
		side := Polygon3D{cur.Base, next.Base}
		if next.HasHeads() {
			side = append(side, next.headTowardsPrev())
		}
		if cur.HasHeads() {
			side = append(side, cur.headTowardsNext())
		}
		faces = append(faces, triangulatePolygon(side)...)
	}

	return &Polyhedron3D{Polygons: faces}, nil
}

// buildLinearRingFromBasePoints assembles a flat ring surface from outline
// corners without vertical extent, applying the same healing and degeneracy
// rules as the polyhedron path
func buildLinearRingFromBasePoints(elements []VerticalOutlineElement, tolerance float64, report *Report, context string) (*Surface3D, error) {
	healed := healVerticalOutlineElements(elements, tolerance, report, context)
	if len(healed) < 3 {
		return nil, errors.Wrapf(ErrNotEnoughValidOutlineElements, "%d distinct base points remain", len(healed))
	}
	if basePointsColinear(healed, tolerance) {
		return nil, ErrColinearOutlineElements
	}

	ring := make([]Vector3D, len(healed))
	for i, element := range healed {
		ring[i] = element.Base
	}
	return NewLinearRing3D(ring)
}
