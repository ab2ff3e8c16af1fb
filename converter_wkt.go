package odr2city

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTLinestring returns WKT representation of a 3D LineString
func PrepareWKTLinestring(pts LineString3D) string {
	ptsStr := make([]string, len(pts))
	for i := range pts {
		ptsStr[i] = fmt.Sprintf("%f %f %f", pts[i].X, pts[i].Y, pts[i].Z)
	}
	return fmt.Sprintf("LINESTRING Z(%s)", strings.Join(ptsStr, ","))
}

// PrepareWKTPoint returns WKT representation of a 3D Point
func PrepareWKTPoint(pt Vector3D) string {
	return fmt.Sprintf("POINT Z(%f %f %f)", pt.X, pt.Y, pt.Z)
}

// PrepareWKTPolygon returns WKT representation of a 3D Polygon ring
func PrepareWKTPolygon(polygon Polygon3D) string {
	ptsStr := make([]string, 0, len(polygon)+1)
	for _, pt := range polygon {
		ptsStr = append(ptsStr, fmt.Sprintf("%f %f %f", pt.X, pt.Y, pt.Z))
	}
	if len(polygon) > 0 {
		first := polygon[0]
		ptsStr = append(ptsStr, fmt.Sprintf("%f %f %f", first.X, first.Y, first.Z))
	}
	return fmt.Sprintf("POLYGON Z((%s))", strings.Join(ptsStr, ","))
}

// PrepareWKTFootprint returns the 2D WKT representation of a polyline's
// projection onto the XY plane
func PrepareWKTFootprint(pts LineString3D) string {
	return wkt.MarshalString(pts.XY())
}
