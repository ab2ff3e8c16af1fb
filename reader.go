package odr2city

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// ReadOpenDRIVEFile unmarshals an .xodr file into the OpenDRIVE element tree
func ReadOpenDRIVEFile(filename string, verbose bool) (*OpenDRIVE, error) {
	if verbose {
		fmt.Printf("Reading file '%s'...", filename)
	}
	st := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	doc := &OpenDRIVE{}
	decoder := xml.NewDecoder(file)
	if err := decoder.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "Can't decode OpenDRIVE document")
	}
	if len(doc.Roads) == 0 {
		return nil, errors.Errorf("document '%s' contains no road elements", filename)
	}

	if verbose {
		fmt.Printf("Done in %v\n\tRoads: %d\n\tJunctions: %d\n", time.Since(st), len(doc.Roads), len(doc.Junctions))
	}
	return doc, nil
}
