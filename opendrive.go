package odr2city

import "encoding/xml"

// Pragmatic binding of the OpenDRIVE subset the geometric core consumes.
// One struct set covers the 1.4-1.7 revisions; fields absent in older
// revisions simply stay zero.

type OpenDRIVE struct {
	XMLName   xml.Name          `xml:"OpenDRIVE"`
	Header    Header            `xml:"header"`
	Roads     []RoadElement     `xml:"road"`
	Junctions []JunctionElement `xml:"junction"`
}

type Header struct {
	RevMajor int     `xml:"revMajor,attr"`
	RevMinor int     `xml:"revMinor,attr"`
	Name     string  `xml:"name,attr"`
	North    float64 `xml:"north,attr"`
	South    float64 `xml:"south,attr"`
	East     float64 `xml:"east,attr"`
	West     float64 `xml:"west,attr"`
}

type RoadElement struct {
	ID       string  `xml:"id,attr"`
	Name     string  `xml:"name,attr"`
	Length   float64 `xml:"length,attr"`
	Junction string  `xml:"junction,attr"`

	Link             *RoadLinkElement   `xml:"link"`
	PlanView         PlanViewElement    `xml:"planView"`
	ElevationProfile *ElevationProfile  `xml:"elevationProfile"`
	LateralProfile   *LateralProfile    `xml:"lateralProfile"`
	Lanes            LanesElement       `xml:"lanes"`
	Objects          *RoadObjects       `xml:"objects"`
	Signals          *RoadSignals       `xml:"signals"`
}

type RoadLinkElement struct {
	Predecessor *RoadLinkReference `xml:"predecessor"`
	Successor   *RoadLinkReference `xml:"successor"`
}

type RoadLinkReference struct {
	ElementType  string `xml:"elementType,attr"`
	ElementID    string `xml:"elementId,attr"`
	ContactPoint string `xml:"contactPoint,attr"`
}

type JunctionElement struct {
	ID          string              `xml:"id,attr"`
	Name        string              `xml:"name,attr"`
	Connections []ConnectionElement `xml:"connection"`
}

type ConnectionElement struct {
	ID             string `xml:"id,attr"`
	IncomingRoad   string `xml:"incomingRoad,attr"`
	ConnectingRoad string `xml:"connectingRoad,attr"`
	ContactPoint   string `xml:"contactPoint,attr"`
}

/* Plan view */

type PlanViewElement struct {
	Geometries []GeometryElement `xml:"geometry"`
}

// GeometryElement is one plan view segment. Exactly one of the kind
// sub-elements is present in valid input.
type GeometryElement struct {
	S      float64 `xml:"s,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Hdg    float64 `xml:"hdg,attr"`
	Length float64 `xml:"length,attr"`

	Line       *LineElement       `xml:"line"`
	Arc        *ArcElement        `xml:"arc"`
	Spiral     *SpiralElement     `xml:"spiral"`
	Poly3      *Poly3Element      `xml:"poly3"`
	ParamPoly3 *ParamPoly3Element `xml:"paramPoly3"`
}

type LineElement struct{}

type ArcElement struct {
	Curvature float64 `xml:"curvature,attr"`
}

type SpiralElement struct {
	CurvStart float64 `xml:"curvStart,attr"`
	CurvEnd   float64 `xml:"curvEnd,attr"`
}

type Poly3Element struct {
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
}

type ParamPoly3Element struct {
	AU     float64 `xml:"aU,attr"`
	BU     float64 `xml:"bU,attr"`
	CU     float64 `xml:"cU,attr"`
	DU     float64 `xml:"dU,attr"`
	AV     float64 `xml:"aV,attr"`
	BV     float64 `xml:"bV,attr"`
	CV     float64 `xml:"cV,attr"`
	DV     float64 `xml:"dV,attr"`
	PRange string  `xml:"pRange,attr"`
}

/* Profiles */

type ElevationProfile struct {
	Elevations []CubicProfileEntry `xml:"elevation"`
}

type LateralProfile struct {
	Superelevations []CubicProfileEntry `xml:"superelevation"`
	Shapes          []ShapeEntry        `xml:"shape"`
}

// CubicProfileEntry is one cubic polynomial record of an elevation or
// superelevation profile, valid from curve position S.
type CubicProfileEntry struct {
	S float64 `xml:"s,attr"`
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
}

type ShapeEntry struct {
	S float64 `xml:"s,attr"`
	T float64 `xml:"t,attr"`
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
}

/* Lanes */

type LanesElement struct {
	LaneOffsets  []CubicProfileEntry  `xml:"laneOffset"`
	LaneSections []LaneSectionElement `xml:"laneSection"`
}

type LaneSectionElement struct {
	S      float64    `xml:"s,attr"`
	Left   *LaneGroup `xml:"left"`
	Center *LaneGroup `xml:"center"`
	Right  *LaneGroup `xml:"right"`
}

// AllLanes returns left, center and right lane records in one slice
func (ls LaneSectionElement) AllLanes() []LaneElement {
	var lanes []LaneElement
	for _, group := range []*LaneGroup{ls.Left, ls.Center, ls.Right} {
		if group != nil {
			lanes = append(lanes, group.Lanes...)
		}
	}
	return lanes
}

type LaneGroup struct {
	Lanes []LaneElement `xml:"lane"`
}

type LaneElement struct {
	ID    int    `xml:"id,attr"`
	Type  string `xml:"type,attr"`
	Level string `xml:"level,attr"`

	Link      *LaneLinkElement  `xml:"link"`
	Widths    []LaneWidthEntry  `xml:"width"`
	Heights   []LaneHeightEntry `xml:"height"`
	RoadMarks []RoadMarkElement `xml:"roadMark"`
}

// IsLevel reports whether superelevation is suppressed for this lane
func (l LaneElement) IsLevel() bool {
	return l.Level == "true" || l.Level == "1"
}

type LaneLinkElement struct {
	Predecessors []LaneLinkReference `xml:"predecessor"`
	Successors   []LaneLinkReference `xml:"successor"`
}

type LaneLinkReference struct {
	ID int `xml:"id,attr"`
}

// LaneWidthEntry is one cubic width record, valid from SOffset relative to
// the lane section start.
type LaneWidthEntry struct {
	SOffset float64 `xml:"sOffset,attr"`
	A       float64 `xml:"a,attr"`
	B       float64 `xml:"b,attr"`
	C       float64 `xml:"c,attr"`
	D       float64 `xml:"d,attr"`
}

type LaneHeightEntry struct {
	SOffset float64 `xml:"sOffset,attr"`
	Inner   float64 `xml:"inner,attr"`
	Outer   float64 `xml:"outer,attr"`
}

type RoadMarkElement struct {
	SOffset    float64  `xml:"sOffset,attr"`
	Type       string   `xml:"type,attr"`
	Weight     string   `xml:"weight,attr"`
	Color      string   `xml:"color,attr"`
	Material   string   `xml:"material,attr"`
	Width      *float64 `xml:"width,attr"`
	LaneChange string   `xml:"laneChange,attr"`

	TypeLines *RoadMarkTypeElement     `xml:"type"`
	Explicit  *RoadMarkExplicitElement `xml:"explicit"`
}

type RoadMarkTypeElement struct {
	Name  string             `xml:"name,attr"`
	Width float64            `xml:"width,attr"`
	Lines []RoadMarkLineItem `xml:"line"`
}

type RoadMarkExplicitElement struct {
	Lines []RoadMarkLineItem `xml:"line"`
}

type RoadMarkLineItem struct {
	Length  float64 `xml:"length,attr"`
	Space   float64 `xml:"space,attr"`
	TOffset float64 `xml:"tOffset,attr"`
	SOffset float64 `xml:"sOffset,attr"`
	Width   float64 `xml:"width,attr"`
	Rule    string  `xml:"rule,attr"`
}

/* Road objects and signals */

type RoadObjects struct {
	Objects []RoadObjectElement `xml:"object"`
}

type RoadObjectElement struct {
	ID      string   `xml:"id,attr"`
	Name    string   `xml:"name,attr"`
	Type    string   `xml:"type,attr"`
	S       float64  `xml:"s,attr"`
	T       float64  `xml:"t,attr"`
	ZOffset float64  `xml:"zOffset,attr"`
	Hdg     float64  `xml:"hdg,attr"`
	Length  *float64 `xml:"length,attr"`
	Width   *float64 `xml:"width,attr"`
	Height  *float64 `xml:"height,attr"`
	Radius  *float64 `xml:"radius,attr"`

	Outlines   *OutlinesElement  `xml:"outlines"`
	Outline    *OutlineElement   `xml:"outline"`
	Repeats    []RepeatElement   `xml:"repeat"`
	Validities []ValidityElement `xml:"validity"`
}

// AllOutlines joins the single pre-1.5 outline child with the outlines list
func (o RoadObjectElement) AllOutlines() []OutlineElement {
	var outlines []OutlineElement
	if o.Outline != nil {
		outlines = append(outlines, *o.Outline)
	}
	if o.Outlines != nil {
		outlines = append(outlines, o.Outlines.Outlines...)
	}
	return outlines
}

type OutlinesElement struct {
	Outlines []OutlineElement `xml:"outline"`
}

type OutlineElement struct {
	ID           string              `xml:"id,attr"`
	CornersRoad  []CornerRoadEntry   `xml:"cornerRoad"`
	CornersLocal []CornerLocalEntry  `xml:"cornerLocal"`
}

type CornerRoadEntry struct {
	S      float64 `xml:"s,attr"`
	T      float64 `xml:"t,attr"`
	DZ     float64 `xml:"dz,attr"`
	Height float64 `xml:"height,attr"`
}

type CornerLocalEntry struct {
	U      float64 `xml:"u,attr"`
	V      float64 `xml:"v,attr"`
	Z      float64 `xml:"z,attr"`
	Height float64 `xml:"height,attr"`
}

type RepeatElement struct {
	S            float64  `xml:"s,attr"`
	Length       float64  `xml:"length,attr"`
	Distance     float64  `xml:"distance,attr"`
	TStart       float64  `xml:"tStart,attr"`
	TEnd         float64  `xml:"tEnd,attr"`
	HeightStart  float64  `xml:"heightStart,attr"`
	HeightEnd    float64  `xml:"heightEnd,attr"`
	ZOffsetStart float64  `xml:"zOffsetStart,attr"`
	ZOffsetEnd   float64  `xml:"zOffsetEnd,attr"`
	WidthStart   *float64 `xml:"widthStart,attr"`
	WidthEnd     *float64 `xml:"widthEnd,attr"`
	LengthStart  *float64 `xml:"lengthStart,attr"`
	LengthEnd    *float64 `xml:"lengthEnd,attr"`
	RadiusStart  *float64 `xml:"radiusStart,attr"`
	RadiusEnd    *float64 `xml:"radiusEnd,attr"`
}

type ValidityElement struct {
	FromLane int `xml:"fromLane,attr"`
	ToLane   int `xml:"toLane,attr"`
}

type RoadSignals struct {
	Signals []SignalElement `xml:"signal"`
}

type SignalElement struct {
	ID       string   `xml:"id,attr"`
	Name     string   `xml:"name,attr"`
	S        float64  `xml:"s,attr"`
	T        float64  `xml:"t,attr"`
	ZOffset  float64  `xml:"zOffset,attr"`
	HOffset  float64  `xml:"hOffset,attr"`
	Dynamic  string   `xml:"dynamic,attr"`
	Type     string   `xml:"type,attr"`
	Subtype  string   `xml:"subtype,attr"`
	Country  string   `xml:"country,attr"`
	Width    *float64 `xml:"width,attr"`
	Height   *float64 `xml:"height,attr"`

	Validities []ValidityElement `xml:"validity"`
}
