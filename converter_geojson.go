package odr2city

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PrepareGeoJSONLinestring returns GeoJSON representation of a 3D LineString
func PrepareGeoJSONLinestring(pts LineString3D) string {
	pts3d := make([][]float64, len(pts))
	for i := range pts {
		pts3d[i] = []float64{pts[i].X, pts[i].Y, pts[i].Z}
	}
	b, err := geojson.NewLineStringGeometry(pts3d).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of a 3D Point
func PrepareGeoJSONPoint(pt Vector3D) string {
	b, err := geojson.NewPointGeometry([]float64{pt.X, pt.Y, pt.Z}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// footprintArea returns the unsigned XY area of a polygon ring
func footprintArea(polygon Polygon3D) float64 {
	ring := make(orb.Ring, 0, len(polygon)+1)
	for _, pt := range polygon {
		ring = append(ring, pt.XY())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	area := planar.Area(ring)
	if area < 0 {
		area = -area
	}
	return area
}

// ExportToGeoJSON renders the converted model as a feature collection for
// inspection: reference lines, lane boundary curves and object geometries
func (m *RoadspacesModel) ExportToGeoJSON(step float64) (*geojson.FeatureCollection, error) {
	collection := geojson.NewFeatureCollection()

	for _, roadspace := range m.Roadspaces {
		refLine, err := roadspace.ReferenceLine.Discretize(step)
		if err != nil {
			return nil, err
		}
		feature := geojson.NewFeature(lineStringGeometry(refLine))
		feature.SetProperty("kind", "referenceLine")
		feature.SetProperty("road_id", roadspace.ID.RoadID)
		feature.SetProperty("length", roadspace.Road.Length())
		collection.AddFeature(feature)

		for _, section := range roadspace.Road.LaneSections() {
			for _, lane := range section.Lanes() {
				boundary, err := roadspace.Road.CurveOnLane(lane.ID, 1.0, nil)
				if err != nil {
					return nil, err
				}
				points, err := discretizeCurve3D(boundary, step)
				if err != nil {
					return nil, err
				}
				laneFeature := geojson.NewFeature(lineStringGeometry(points))
				laneFeature.SetProperty("kind", "laneBoundary")
				laneFeature.SetProperty("road_id", roadspace.ID.RoadID)
				laneFeature.SetProperty("section", section.ID.Index)
				laneFeature.SetProperty("lane_id", lane.ID.ID)
				laneFeature.SetProperty("lane_type", lane.Type.String())
				collection.AddFeature(laneFeature)
			}
		}

		for _, object := range roadspace.Objects {
			feature, err := objectFeature(object)
			if err != nil {
				return nil, err
			}
			if feature != nil {
				feature.SetProperty("road_id", roadspace.ID.RoadID)
				collection.AddFeature(feature)
			}
		}
	}
	return collection, nil
}

func lineStringGeometry(pts LineString3D) *geojson.Geometry {
	pts3d := make([][]float64, len(pts))
	for i := range pts {
		pts3d[i] = []float64{pts[i].X, pts[i].Y, pts[i].Z}
	}
	return geojson.NewLineStringGeometry(pts3d)
}

func polygonGeometry(polygon Polygon3D) *geojson.Geometry {
	ring := make([][]float64, 0, len(polygon)+1)
	for _, pt := range polygon {
		ring = append(ring, []float64{pt.X, pt.Y, pt.Z})
	}
	if len(polygon) > 0 {
		first := polygon[0]
		ring = append(ring, []float64{first.X, first.Y, first.Z})
	}
	return geojson.NewPolygonGeometry([][][]float64{ring})
}

func objectFeature(object RoadspaceObject) (*geojson.Feature, error) {
	var feature *geojson.Feature
	geometry := object.Geometry
	switch {
	case geometry.Point != nil:
		feature = geojson.NewFeature(geojson.NewPointGeometry([]float64{geometry.Point.X, geometry.Point.Y, geometry.Point.Z}))
	case geometry.Curve != nil:
		feature = geojson.NewFeature(lineStringGeometry(geometry.Curve))
	case geometry.Surface != nil && len(geometry.Surface.Polygons) > 0:
		feature = geojson.NewFeature(polygonGeometry(geometry.Surface.Polygons[0]))
		feature.SetProperty("footprint_area", footprintArea(geometry.Surface.Polygons[0]))
	case geometry.Solid != nil && len(geometry.Solid.Polygons) > 0:
		// The first face of a polyhedron is its triangulated footprint; the
		// full mesh is the downstream exporter's concern.
		feature = geojson.NewFeature(polygonGeometry(geometry.Solid.Polygons[0]))
	default:
		return nil, nil
	}
	feature.SetProperty("kind", "object")
	feature.SetProperty("object_id", object.ID.ObjectID)
	feature.SetProperty("object_type", object.Type.String())
	feature.SetProperty("geometry_kind", object.Geometry.Kind())
	return feature, nil
}
