package odr2city

import (
	"math"

	"github.com/pkg/errors"
)

// ContactPoint marks which end of a linked road is touched
type ContactPoint uint16

const (
	CONTACT_POINT_START = ContactPoint(iota + 1)
	CONTACT_POINT_END
)

// String returns pretty printed value for ContactPoint
func (c ContactPoint) String() string {
	if c == CONTACT_POINT_END {
		return "end"
	}
	return "start"
}

// RoadLink is a predecessor or successor reference of a road: either a
// contact point on another road or a junction, never both. A nil RoadLink
// means no linkage.
type RoadLink interface {
	isRoadLink()
}

// RoadContactReference links to a contact point of another road
type RoadContactReference struct {
	RoadID  string
	Contact ContactPoint
}

func (RoadContactReference) isRoadLink() {}

// JunctionReference links to a junction
type JunctionReference struct {
	JunctionID string
}

func (JunctionReference) isRoadLink() {}

// RoadLinkage carries the resolved predecessor/successor references of a
// road and the junction the road itself belongs to ("" when none). A road
// belonging to a junction must not reference predecessor or successor
// junctions; NewRoadLinkage enforces this.
type RoadLinkage struct {
	Predecessor       RoadLink
	Successor         RoadLink
	BelongsToJunction string
}

// NewRoadLinkage validates the mutual exclusion invariants of road linkage
func NewRoadLinkage(predecessor, successor RoadLink, belongsToJunction string) (RoadLinkage, error) {
	if belongsToJunction != "" {
		if _, ok := predecessor.(JunctionReference); ok {
			return RoadLinkage{}, errors.Errorf("road belonging to junction '%s' must not have a predecessor junction", belongsToJunction)
		}
		if _, ok := successor.(JunctionReference); ok {
			return RoadLinkage{}, errors.Errorf("road belonging to junction '%s' must not have a successor junction", belongsToJunction)
		}
	}
	return RoadLinkage{Predecessor: predecessor, Successor: successor, BelongsToJunction: belongsToJunction}, nil
}

// Road is the aggregate of the sectioned road geometry: the torsion-bearing
// and torsion-free surfaces, the lateral lane offset function and the
// ordered lane sections partitioning [0, roadLength).
type Road struct {
	ID      RoadspaceIdentifier
	Linkage RoadLinkage

	surface                *CurveRelativeSurface3D
	surfaceWithoutTorsion  *CurveRelativeSurface3D
	laneOffset             UnivariateFunction
	laneSections           []*LaneSection
	tolerance              float64
}

// NewRoad validates the construction invariants: both surfaces share domain
// and tolerance, the lane offset domain encloses the surface domain, and
// lane sections contiguously partition the road domain sorted by id.
func NewRoad(id RoadspaceIdentifier, surface, surfaceWithoutTorsion *CurveRelativeSurface3D, laneOffset UnivariateFunction, laneSections []*LaneSection, linkage RoadLinkage) (*Road, error) {
	if surface.Tolerance() != surfaceWithoutTorsion.Tolerance() {
		return nil, errors.Errorf("%s: both road surfaces must use the same tolerance", id)
	}
	tolerance := surface.Tolerance()
	if math.Abs(surface.Domain().Start-surfaceWithoutTorsion.Domain().Start) > tolerance ||
		math.Abs(surface.Domain().End-surfaceWithoutTorsion.Domain().End) > tolerance {
		return nil, errors.Errorf("%s: both road surfaces must share the same domain", id)
	}
	if !laneOffset.Domain().Encloses(surface.Domain(), tolerance) {
		return nil, errors.Errorf("%s: lane offset domain %s does not enclose the surface domain %s", id, laneOffset.Domain(), surface.Domain())
	}
	if len(laneSections) == 0 {
		return nil, errors.Errorf("%s: road contains no lane sections", id)
	}
	for i, section := range laneSections {
		if section.ID.Index != i {
			return nil, errors.Errorf("%s: lane section id %d does not match its list position %d", id, section.ID.Index, i)
		}
		if i > 0 && math.Abs(laneSections[i-1].Domain.End-section.Domain.Start) > tolerance {
			return nil, errors.Errorf("%s: lane sections %d and %d are not contiguous", id, i-1, i)
		}
	}
	first := laneSections[0].Domain
	last := laneSections[len(laneSections)-1].Domain
	if math.Abs(first.Start-surface.Domain().Start) > tolerance || math.Abs(last.End-surface.Domain().End) > tolerance || !last.ClosedEnd {
		return nil, errors.Errorf("%s: lane section domains do not partition the road domain %s", id, surface.Domain())
	}

	return &Road{
		ID:                    id,
		Linkage:               linkage,
		surface:               surface,
		surfaceWithoutTorsion: surfaceWithoutTorsion,
		laneOffset:            laneOffset,
		laneSections:          laneSections,
		tolerance:             tolerance,
	}, nil
}

// Length returns the road length
func (r *Road) Length() float64 {
	return r.surface.Domain().Length()
}

// Tolerance returns the epsilon all fuzzy decisions on this road use
func (r *Road) Tolerance() float64 {
	return r.tolerance
}

// LaneSections returns the ordered lane sections
func (r *Road) LaneSections() []*LaneSection {
	return r.laneSections
}

// LaneSection returns the section with the given index
func (r *Road) LaneSection(index int) (*LaneSection, error) {
	if index < 0 || index >= len(r.laneSections) {
		return nil, errors.Errorf("%s: no lane section with index %d", r.ID, index)
	}
	return r.laneSections[index], nil
}

// sectionedSurfaceForLane selects the torsion-bearing or torsion-free
// surface depending on the lane's level flag and restricts it to the section
func (r *Road) sectionedSurfaceForLane(section *LaneSection, level bool) (*SectionedSurface3D, error) {
	base := r.surface
	if level {
		base = r.surfaceWithoutTorsion
	}
	return NewSectionedSurface3D(base, section.Domain)
}

// laneLateralOffset returns the total lateral offset function of a position
// on a lane in section-local coordinates: the sectioned lane offset plus the
// widths of all lanes between the center and the target lane plus factor
// times the target lane's own width, signed by the lane's side. Factor 0 is
// the inner boundary, 1 the outer boundary, 0.5 the lane centerline.
func (r *Road) laneLateralOffset(section *LaneSection, laneID int, factor float64, extra UnivariateFunction) UnivariateFunction {
	sectionedOffset := NewTranslatedFunction(r.laneOffset, section.Domain.Start)
	domain := NewClosedRange(0, section.LocalLength())

	return funcValue{domain: domain, eval: func(s float64) (float64, error) {
		total, err := sectionedOffset.Value(s)
		if err != nil {
			return 0, err
		}
		if laneID != 0 {
			sign := 1.0
			step := 1
			if laneID < 0 {
				sign = -1.0
				step = -1
			}
			for id := step; id != laneID; id += step {
				lane, ok := section.Lane(id)
				if !ok {
					return 0, errors.Errorf("%s: lane %d between center and lane %d is missing", section.ID, id, laneID)
				}
				width, err := lane.Width.Value(s)
				if err != nil {
					return 0, err
				}
				total += sign * width
			}
			lane, ok := section.Lane(laneID)
			if !ok {
				return 0, errors.Errorf("%s: lane %d is missing", section.ID, laneID)
			}
			width, err := lane.Width.Value(s)
			if err != nil {
				return 0, err
			}
			total += sign * factor * width
		}
		if extra != nil {
			e, err := extra.Value(s)
			if err != nil {
				return 0, err
			}
			total += e
		}
		return total, nil
	}}
}

// laneVerticalOffset interpolates the inner and outer height offset
// functions of a lane by the boundary factor
func laneVerticalOffset(section *LaneSection, laneID int, factor float64) UnivariateFunction {
	domain := NewClosedRange(0, section.LocalLength())
	return funcValue{domain: domain, eval: func(s float64) (float64, error) {
		if laneID == 0 {
			return 0, nil
		}
		lane, ok := section.Lane(laneID)
		if !ok {
			return 0, errors.Errorf("%s: lane %d is missing", section.ID, laneID)
		}
		inner, err := lane.InnerHeightOffset.Value(s)
		if err != nil {
			return 0, err
		}
		outer, err := lane.OuterHeightOffset.Value(s)
		if err != nil {
			return 0, err
		}
		return inner + factor*(outer-inner), nil
	}}
}

// CurveOnLane composes the curve lying on the sectioned road surface at the
// given lateral boundary factor of a lane, optionally displaced by an extra
// lateral offset function (used by road markings). The curve runs in
// section-local curve positions.
func (r *Road) CurveOnLane(id LaneIdentifier, factor float64, extra UnivariateFunction) (Curve3D, error) {
	section, err := r.LaneSection(id.Section.Index)
	if err != nil {
		return nil, err
	}
	level := section.CenterLane.Level
	if !id.IsCenter() {
		lane, ok := section.Lane(id.ID)
		if !ok {
			return nil, errors.Errorf("%s: no lane with id %d", section.ID, id.ID)
		}
		level = lane.Level
	}
	surface, err := r.sectionedSurfaceForLane(section, level)
	if err != nil {
		return nil, err
	}
	return curveOnSurface{
		surface:  surface,
		lateral:  r.laneLateralOffset(section, id.ID, factor, extra),
		vertical: laneVerticalOffset(section, id.ID, factor),
	}, nil
}

// LaneSurface discretizes the inner and outer boundary curves of a lane and
// closes the area between them. Construction fails explicitly when the
// lane's curve position length is below tolerance or the discretized
// boundaries are fuzzily identical (the lane width collapsed).
func (r *Road) LaneSurface(id LaneIdentifier, step float64) (*Surface3D, error) {
	section, err := r.LaneSection(id.Section.Index)
	if err != nil {
		return nil, err
	}
	if section.LocalLength() <= r.tolerance {
		return nil, errors.Errorf("%s: lane section length %f is below tolerance", id, section.LocalLength())
	}
	inner, err := r.CurveOnLane(id, 0.0, nil)
	if err != nil {
		return nil, err
	}
	outer, err := r.CurveOnLane(id, 1.0, nil)
	if err != nil {
		return nil, err
	}
	innerPoints, err := discretizeCurve3D(inner, step)
	if err != nil {
		return nil, err
	}
	outerPoints, err := discretizeCurve3D(outer, step)
	if err != nil {
		return nil, err
	}
	if innerPoints.FuzzyEquals(outerPoints, r.tolerance) {
		return nil, errors.Errorf("%s: discretized lane boundaries are fuzzily identical, the lane has no width", id)
	}
	return stripSurface(innerPoints, outerPoints)
}

// markingEdge composes the boundary curve a marking is attached to,
// displaced by the given lateral offset and restricted to the marking
// domain. Markings of the center lane run on the lane boundary itself,
// markings of nonzero lanes on the lane's outer boundary.
func (r *Road) markingEdge(id LaneIdentifier, marking RoadMarking, offset float64) (Curve3D, error) {
	factor := 1.0
	if id.IsCenter() {
		factor = 0.0
	}
	extra := NewConstantFunction(offset, marking.Domain)
	curve, err := r.CurveOnLane(id, factor, extra)
	if err != nil {
		return nil, err
	}
	return restrictCurve3D(curve, marking.Domain, r.tolerance)
}

// MarkingCurve composes the 3D curve of a road marking without a defined
// width: the lane boundary displaced by the marking's lateral offset
func (r *Road) MarkingCurve(id LaneIdentifier, marking RoadMarking) (Curve3D, error) {
	return r.markingEdge(id, marking, marking.LateralOffset)
}

// MarkingSurface closes the area between the two edge curves of a marking
// with a defined width, at the marking's lateral offset plus and minus half
// its width. The marking width spans the surface, so markings on zero width
// lanes still produce one.
func (r *Road) MarkingSurface(id LaneIdentifier, marking RoadMarking, step float64) (*Surface3D, error) {
	if !marking.WidthDefined || marking.Width <= r.tolerance {
		return nil, errors.Errorf("%s: marking has no width to span a surface", id)
	}
	left, err := r.markingEdge(id, marking, marking.LateralOffset+marking.Width/2)
	if err != nil {
		return nil, err
	}
	right, err := r.markingEdge(id, marking, marking.LateralOffset-marking.Width/2)
	if err != nil {
		return nil, err
	}
	leftPoints, err := discretizeCurve3D(left, step)
	if err != nil {
		return nil, err
	}
	rightPoints, err := discretizeCurve3D(right, step)
	if err != nil {
		return nil, err
	}
	return stripSurface(leftPoints, rightPoints)
}

// LateralFillerSurface closes the gap between the outer boundary of the
// given lane and the inner boundary of the next outer lane, caused for
// example by height offsets. No filler is returned when the discretized
// boundaries already coincide or no outer neighbor exists.
func (r *Road) LateralFillerSurface(id LaneIdentifier, step float64) (*Surface3D, error) {
	section, err := r.LaneSection(id.Section.Index)
	if err != nil {
		return nil, err
	}
	outerID := id.ID + 1
	if id.ID < 0 {
		outerID = id.ID - 1
	}
	if _, ok := section.Lane(outerID); !ok {
		return nil, nil
	}
	thisOuter, err := r.CurveOnLane(id, 1.0, nil)
	if err != nil {
		return nil, err
	}
	neighborInner, err := r.CurveOnLane(LaneIdentifier{Section: id.Section, ID: outerID}, 0.0, nil)
	if err != nil {
		return nil, err
	}
	thisPoints, err := discretizeCurve3D(thisOuter, step)
	if err != nil {
		return nil, err
	}
	neighborPoints, err := discretizeCurve3D(neighborInner, step)
	if err != nil {
		return nil, err
	}
	if thisPoints.FuzzyEquals(neighborPoints, r.tolerance) {
		return nil, nil
	}
	return stripSurface(thisPoints, neighborPoints)
}
