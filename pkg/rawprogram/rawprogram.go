// Package rawprogram reads and rewrites Qualcomm rawprogram*.xml partition tables.
package rawprogram

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

const programElement = "program"

// Partition is one <program> entry of a partition table.
type Partition struct {
	Label       string `json:"label"`
	LUN         string `json:"lun"`
	StartSector string `json:"start_sector"`
	NumSectors  string `json:"num_sectors"`
	Filename    string `json:"filename"`
	Source      string `json:"source"`
}

func (p Partition) String() string {
	return fmt.Sprintf("%s: lun=%s start_sector=%s num_sectors=%s filename=%q (%s)",
		p.Label, p.LUN, p.StartSector, p.NumSectors, p.Filename, p.Source)
}

// Document is a named partition table document.
type Document struct {
	Name string
	Data []byte
}

// Parse returns the <program> children of the document root in document order.
func Parse(doc Document) ([]Partition, error) {
	var parts []Partition

	dec := xml.NewDecoder(bytes.NewReader(doc.Data))
	dec.CharsetReader = charset.NewReaderLabel
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Document: doc.Name, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if sawRoot {
					return nil, &ParseError{Document: doc.Name, Err: errors.New("junk after document element")}
				}
				sawRoot = true
			}
			if depth == 2 && t.Name.Local == programElement {
				parts = append(parts, newPartition(t.Attr, doc.Name))
			}
		case xml.EndElement:
			depth--
		}
	}
	if !sawRoot {
		return nil, &ParseError{Document: doc.Name, Err: errors.New("no element found")}
	}

	return parts, nil
}

func newPartition(attrs []xml.Attr, source string) Partition {
	p := Partition{Source: source}
	for _, a := range attrs {
		switch a.Name.Local {
		case "label":
			p.Label = a.Value
		case "physical_partition_number":
			p.LUN = a.Value
		case "start_sector":
			p.StartSector = a.Value
		case "num_partition_sectors":
			p.NumSectors = a.Value
		case "filename":
			p.Filename = a.Value
		}
	}
	return p
}
