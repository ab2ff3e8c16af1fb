package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
	odr2city "github.com/tum-gis/odr2city"
)

var (
	xodrFileName  = flag.String("file", "my_network.xodr", "Filename of *.xodr file (OpenDRIVE)")
	out           = flag.String("out", "my_network.csv", "Filename of 'Comma-Separated Values' (CSV) formatted file. E.g.: if file name is 'map.csv' then files 'map_lanes.csv', 'map_objects.csv' and 'map_graph.csv' will be produced")
	geomFormat    = flag.String("geomf", "wkt", "Format of output geometry. Expected values: wkt / geojson")
	step          = flag.Float64("step", 0.5, "Discretization step for curves and swept geometries (meters)")
	tolerance     = flag.Float64("tolerance", 1e-7, "Numeric tolerance for geometric decisions")
	parallel      = flag.Bool("parallel", false, "Convert independent roads in parallel?")
	geojsonOut    = flag.String("geojson", "", "Optional filename for a GeoJSON feature collection of the converted model")
	doContraction = flag.Bool("contract", true, "Prepare contraction hierarchies for the road topology graph?")
	verbose       = flag.Bool("verbose", true, "Verbose output?")
)

func main() {

	flag.Parse()

	converter := odr2city.NewConverter(
		odr2city.WithTolerance(*tolerance),
		odr2city.WithDiscretizationStep(*step),
		odr2city.WithParallel(*parallel),
		odr2city.WithVerbose(*verbose),
	)

	model, err := converter.ConvertFile(*xodrFileName)
	if err != nil {
		fmt.Println(err)
		return
	}

	fnamePart := strings.Split(*out, ".csv") // to guarantee proper filename and its extension
	fnameLanes := fmt.Sprintf(fnamePart[0] + "_lanes.csv")
	fnameObjects := fmt.Sprintf(fnamePart[0] + "_objects.csv")
	fnameGraph := fmt.Sprintf(fnamePart[0] + "_graph.csv")
	fnameShortcuts := fmt.Sprintf(fnamePart[0] + "_shortcuts.csv")

	if err := exportLanesToCSV(model, fnameLanes, *step, *geomFormat); err != nil {
		fmt.Println(err)
		return
	}
	if err := exportObjectsToCSV(model, fnameObjects, *geomFormat); err != nil {
		fmt.Println(err)
		return
	}
	if err := exportTopologyGraph(model, fnameGraph, fnameShortcuts, *doContraction, *verbose); err != nil {
		fmt.Println(err)
		return
	}
	if *geojsonOut != "" {
		data, err := marshalFeatureCollection(model, *step)
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := os.WriteFile(*geojsonOut, data, 0644); err != nil {
			fmt.Println(err)
			return
		}
	}
}

func exportLanesToCSV(model *odr2city.RoadspacesModel, fname string, step float64, geomFormat string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create lanes file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"road_id", "section", "lane_id", "side", "lane_type", "level", "markings", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, roadspace := range model.Roadspaces {
		for _, section := range roadspace.Road.LaneSections() {
			writeSide := func(side string, laneIDs []int) error {
				for _, id := range laneIDs {
					lane, ok := section.Lane(id)
					if !ok {
						continue
					}
					boundary, err := roadspace.Road.CurveOnLane(lane.ID, 1.0, nil)
					if err != nil {
						return errors.Wrap(err, "Can't build lane boundary")
					}
					points, err := odr2city.DiscretizeCurve(boundary, step)
					if err != nil {
						return errors.Wrap(err, "Can't discretize lane boundary")
					}
					geomStr := ""
					if strings.ToLower(geomFormat) == "geojson" {
						geomStr = odr2city.PrepareGeoJSONLinestring(points)
					} else {
						geomStr = odr2city.PrepareWKTLinestring(points)
					}
					err = writer.Write([]string{
						roadspace.ID.RoadID,
						fmt.Sprintf("%d", section.ID.Index),
						fmt.Sprintf("%d", lane.ID.ID),
						side,
						lane.Type.String(),
						fmt.Sprintf("%t", lane.Level),
						fmt.Sprintf("%d", len(lane.RoadMarkings)),
						geomStr,
					})
					if err != nil {
						return errors.Wrap(err, "Can't write lane")
					}
				}
				return nil
			}
			if err := writeSide("left", section.LeftLaneIDs()); err != nil {
				return err
			}
			if err := writeSide("right", section.RightLaneIDs()); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportObjectsToCSV(model *odr2city.RoadspacesModel, fname, geomFormat string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create objects file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"road_id", "object_id", "object_type", "geometry_kind", "geom", "footprint"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	useGeoJSON := strings.ToLower(geomFormat) == "geojson"
	for _, roadspace := range model.Roadspaces {
		for _, object := range roadspace.Objects {
			geomStr := ""
			footprintStr := ""
			switch {
			case object.Geometry.Point != nil:
				if useGeoJSON {
					geomStr = odr2city.PrepareGeoJSONPoint(*object.Geometry.Point)
				} else {
					geomStr = odr2city.PrepareWKTPoint(*object.Geometry.Point)
				}
			case object.Geometry.Curve != nil:
				if useGeoJSON {
					geomStr = odr2city.PrepareGeoJSONLinestring(object.Geometry.Curve)
				} else {
					geomStr = odr2city.PrepareWKTLinestring(object.Geometry.Curve)
				}
				footprintStr = odr2city.PrepareWKTFootprint(object.Geometry.Curve)
			case object.Geometry.Surface != nil && len(object.Geometry.Surface.Polygons) > 0:
				polygon := object.Geometry.Surface.Polygons[0]
				geomStr = odr2city.PrepareWKTPolygon(polygon)
				footprintStr = odr2city.PrepareWKTFootprint(odr2city.LineString3D(polygon))
			case object.Geometry.Solid != nil && len(object.Geometry.Solid.Polygons) > 0:
				polygon := object.Geometry.Solid.Polygons[0]
				geomStr = odr2city.PrepareWKTPolygon(polygon)
				footprintStr = odr2city.PrepareWKTFootprint(odr2city.LineString3D(polygon))
			}
			err = writer.Write([]string{
				roadspace.ID.RoadID,
				object.ID.ObjectID,
				object.Type.String(),
				object.Geometry.Kind(),
				geomStr,
				footprintStr,
			})
			if err != nil {
				return errors.Wrap(err, "Can't write object")
			}
		}
	}
	return nil
}

// exportTopologyGraph builds a routable graph over the converted roads: one
// edge per road between the vertices its linkage resolves to, optionally
// contracted.
func exportTopologyGraph(model *odr2city.RoadspacesModel, fnameGraph, fnameShortcuts string, doContraction, verbose bool) error {
	file, err := os.Create(fnameGraph)
	if err != nil {
		return errors.Wrap(err, "Can't create graph file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"road_id", "source_vertex_id", "target_vertex_id", "weight", "junction"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	vertexIDs := make(map[string]int64)
	vertexID := func(key string) int64 {
		if id, ok := vertexIDs[key]; ok {
			return id
		}
		id := int64(len(vertexIDs))
		vertexIDs[key] = id
		return id
	}

	graph := ch.Graph{}
	for _, roadspace := range model.Roadspaces {
		linkage := roadspace.Road.Linkage
		source := vertexID(endpointKey(roadspace.ID.RoadID, "start", linkage.Predecessor))
		target := vertexID(endpointKey(roadspace.ID.RoadID, "end", linkage.Successor))

		if err := graph.CreateVertex(source); err != nil {
			return errors.Wrap(err, "Can not create source vertex")
		}
		if err := graph.CreateVertex(target); err != nil {
			return errors.Wrap(err, "Can not create target vertex")
		}
		if err := graph.AddEdge(source, target, roadspace.Road.Length()); err != nil {
			return errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
		}

		err = writer.Write([]string{
			roadspace.ID.RoadID,
			fmt.Sprintf("%d", source),
			fmt.Sprintf("%d", target),
			fmt.Sprintf("%f", roadspace.Road.Length()),
			linkage.BelongsToJunction,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}

	if doContraction {
		if verbose {
			fmt.Println("Starting contraction process....")
		}
		st := time.Now()
		graph.PrepareContractionHierarchies()
		if verbose {
			fmt.Printf("Done contraction process in %v\n", time.Since(st))
		}
		if err := graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
			return errors.Wrap(err, "Can't export shortcuts")
		}
	}
	return nil
}

// endpointKey unifies the vertex shared by linked road endpoints: junction
// references collapse into one vertex per junction, road contact references
// into one vertex per linked endpoint pair
func endpointKey(roadID, end string, link odr2city.RoadLink) string {
	switch l := link.(type) {
	case odr2city.JunctionReference:
		return "junction:" + l.JunctionID
	case odr2city.RoadContactReference:
		own := fmt.Sprintf("%s:%s", roadID, end)
		other := fmt.Sprintf("%s:%s", l.RoadID, l.Contact)
		if own < other {
			return "link:" + own + "|" + other
		}
		return "link:" + other + "|" + own
	default:
		return fmt.Sprintf("dead-end:%s:%s", roadID, end)
	}
}

// marshalFeatureCollection is kept small; the geojson export path shares the
// library model with the core
func marshalFeatureCollection(model *odr2city.RoadspacesModel, step float64) ([]byte, error) {
	collection, err := model.ExportToGeoJSON(step)
	if err != nil {
		return nil, err
	}
	return json.Marshal(collection)
}
