package odr2city

import "github.com/pkg/errors"

// RoadspaceObjectType categorizes a road-side object
type RoadspaceObjectType uint16

const (
	OBJECT_TYPE_NONE = RoadspaceObjectType(iota)
	OBJECT_TYPE_POLE
	OBJECT_TYPE_TREE
	OBJECT_TYPE_VEGETATION
	OBJECT_TYPE_BARRIER
	OBJECT_TYPE_BUILDING
	OBJECT_TYPE_OBSTACLE
	OBJECT_TYPE_PARKING_SPACE
	OBJECT_TYPE_TRAFFIC_ISLAND
	OBJECT_TYPE_CROSSWALK
	OBJECT_TYPE_STREET_LAMP
	OBJECT_TYPE_GANTRY
	OBJECT_TYPE_RAILING
	OBJECT_TYPE_SIGNAL
	OBJECT_TYPE_UNDEFINED = RoadspaceObjectType(65535)
)

var objectTypeNames = map[RoadspaceObjectType]string{
	OBJECT_TYPE_NONE:           "none",
	OBJECT_TYPE_POLE:           "pole",
	OBJECT_TYPE_TREE:           "tree",
	OBJECT_TYPE_VEGETATION:     "vegetation",
	OBJECT_TYPE_BARRIER:        "barrier",
	OBJECT_TYPE_BUILDING:       "building",
	OBJECT_TYPE_OBSTACLE:       "obstacle",
	OBJECT_TYPE_PARKING_SPACE:  "parkingSpace",
	OBJECT_TYPE_TRAFFIC_ISLAND: "trafficIsland",
	OBJECT_TYPE_CROSSWALK:      "crosswalk",
	OBJECT_TYPE_STREET_LAMP:    "streetLamp",
	OBJECT_TYPE_GANTRY:         "gantry",
	OBJECT_TYPE_RAILING:        "railing",
	OBJECT_TYPE_SIGNAL:         "signal",
	OBJECT_TYPE_UNDEFINED:      "undefined",
}

var objectTypesByName = func() map[string]RoadspaceObjectType {
	m := make(map[string]RoadspaceObjectType, len(objectTypeNames))
	for t, name := range objectTypeNames {
		m[name] = t
	}
	return m
}()

// String returns pretty printed value for RoadspaceObjectType
func (t RoadspaceObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "undefined"
}

// ParseRoadspaceObjectType returns the object type for an OpenDRIVE type
// string
func ParseRoadspaceObjectType(name string) RoadspaceObjectType {
	if t, ok := objectTypesByName[name]; ok {
		return t
	}
	return OBJECT_TYPE_UNDEFINED
}

// ObjectGeometry is the resolved geometry of a road-side object: exactly one
// of solid, surface, curve or point is set
type ObjectGeometry struct {
	Solid   *Polyhedron3D
	Surface *Surface3D
	Curve   LineString3D
	Point   *Vector3D
}

// SolidGeometry wraps a solid as object geometry
func SolidGeometry(solid *Polyhedron3D) ObjectGeometry {
	return ObjectGeometry{Solid: solid}
}

// SurfaceGeometry wraps a surface as object geometry
func SurfaceGeometry(surface *Surface3D) ObjectGeometry {
	return ObjectGeometry{Surface: surface}
}

// CurveGeometry wraps a curve as object geometry
func CurveGeometry(curve LineString3D) ObjectGeometry {
	return ObjectGeometry{Curve: curve}
}

// PointGeometry wraps a point as object geometry
func PointGeometry(point Vector3D) ObjectGeometry {
	return ObjectGeometry{Point: &point}
}

// Kind names the variant that is set
func (g ObjectGeometry) Kind() string {
	switch {
	case g.Solid != nil:
		return "solid"
	case g.Surface != nil:
		return "surface"
	case g.Curve != nil:
		return "curve"
	case g.Point != nil:
		return "point"
	default:
		return "empty"
	}
}

// Validate checks that exactly one variant is set
func (g ObjectGeometry) Validate() error {
	set := 0
	if g.Solid != nil {
		set++
	}
	if g.Surface != nil {
		set++
	}
	if g.Curve != nil {
		set++
	}
	if g.Point != nil {
		set++
	}
	if set != 1 {
		return errors.Errorf("object geometry must have exactly one variant set, got %d", set)
	}
	return nil
}

// LaneRangeRelation is the lateral lane range an object is valid for
type LaneRangeRelation struct {
	FromLane int
	ToLane   int
}

// RoadspaceObject is one road-side object or signal with its resolved
// geometry
type RoadspaceObject struct {
	ID            RoadspaceObjectIdentifier
	Name          string
	Type          RoadspaceObjectType
	Geometry      ObjectGeometry
	LaneRelations []LaneRangeRelation
	Attributes    Attributes
}

// Roadspace is the converted model of one road element: the reference line,
// the sectioned road with its lanes and the road-side objects
type Roadspace struct {
	ID            RoadspaceIdentifier
	Name          string
	ReferenceLine *Curve3DOnTop
	Road          *Road
	Objects       []RoadspaceObject
	Attributes    Attributes
}

// RoadspacesModel is the result of one conversion run
type RoadspacesModel struct {
	Name       string
	Roadspaces []*Roadspace
	Report     Report
}

// Roadspace returns the roadspace of the given road id
func (m *RoadspacesModel) Roadspace(roadID string) (*Roadspace, bool) {
	for _, roadspace := range m.Roadspaces {
		if roadspace.ID.RoadID == roadID {
			return roadspace, true
		}
	}
	return nil, false
}
