// Copyright (c) 2024 The EDITO-Infra Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package csw

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Dublin Core records arrive with unpredictable namespace prefixes depending
// on the catalog software behind the endpoint, so decoding matches on local
// element names rather than fully qualified ones.

// one page of a GetRecords response
type recordsPage struct {
	Records    []Record
	Matched    int
	NextRecord int
}

// decodes a CSW GetRecordsResponse document into a page of records
func decodeGetRecordsResponse(data []byte) (recordsPage, error) {
	var page recordsPage
	sawResults := false
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break // io.EOF or malformed trailing content
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "SearchResults":
			sawResults = true
			for _, attr := range start.Attr {
				switch attr.Name.Local {
				case "numberOfRecordsMatched":
					page.Matched, _ = strconv.Atoi(attr.Value)
				case "nextRecord":
					page.NextRecord, _ = strconv.Atoi(attr.Value)
				}
			}
		case "Record", "SummaryRecord", "BriefRecord":
			record, err := decodeRecord(decoder, start)
			if err != nil {
				return page, err
			}
			if record.Identifier != "" {
				page.Records = append(page.Records, record)
			}
		}
	}
	if !sawResults {
		return page, fmt.Errorf("no SearchResults element found")
	}
	return page, nil
}

// DecodeRecord decodes a single csw:Record element (e.g. the payload of a
// GetRecordById response) into a Record.
func DecodeRecord(data []byte) (Record, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return Record{}, fmt.Errorf("no record element found")
		}
		if start, ok := token.(xml.StartElement); ok {
			switch start.Name.Local {
			case "Record", "SummaryRecord", "BriefRecord":
				return decodeRecord(decoder, start)
			}
		}
	}
}

// decodes the contents of one record element, consuming tokens up to and
// including its end element
func decodeRecord(decoder *xml.Decoder, start xml.StartElement) (Record, error) {
	var record Record
	depth := 1
	var element string     // local name of the element text is collected for
	var elementAttr []xml.Attr
	var text strings.Builder

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return record, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			element = t.Name.Local
			elementAttr = t.Attr
			text.Reset()
			// container elements never surface text, so handle their
			// attributes as soon as they open
			if element == "BoundingBox" {
				record.CRS = normalizeCRS(attrValue(t.Attr, "crs"))
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			depth--
			if depth > 0 {
				assignField(&record, element, elementAttr, strings.TrimSpace(text.String()))
			}
			element = ""
			elementAttr = nil
			text.Reset()
		}
	}
	return record, nil
}

// assigns the text collected for one element to the matching record field
func assignField(record *Record, element string, attrs []xml.Attr, value string) {
	switch element {
	case "identifier":
		record.Identifier = value
	case "title":
		record.Title = value
	case "abstract":
		record.Abstract = value
	case "created":
		record.Created = value
	case "date":
		record.Date = value
	case "issued":
		record.Issued = value
	case "modified":
		record.Modified = value
	case "creator":
		record.Creator = value
	case "publisher":
		record.Publisher = value
	case "license":
		record.License = value
	case "rights":
		record.Rights = value
	case "references":
		record.References = value
	case "subject":
		if value != "" {
			record.Subjects = append(record.Subjects, value)
		}
	case "LowerCorner":
		if lon, lat, err := parseCorner(value); err == nil {
			record.BBox = []float64{lon, lat}
		}
	case "UpperCorner":
		if lon, lat, err := parseCorner(value); err == nil && len(record.BBox) == 2 {
			record.BBox = append(record.BBox, lon, lat)
		}
	case "URI":
		if value != "" {
			record.Links = append(record.Links, Link{
				URL:         value,
				Name:        attrValue(attrs, "name"),
				Description: attrValue(attrs, "description"),
				Protocol:    attrValue(attrs, "protocol"),
			})
		}
	}
}

// looks up an attribute by local name
func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// parses a "lon lat" corner of an ows:BoundingBox
func parseCorner(value string) (float64, float64, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two coordinates, got %d", len(fields))
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, err
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}

// reduces a CRS URN (e.g. "urn:x-ogc:def:crs:EPSG:6.11:4326") to "EPSG:n"
func normalizeCRS(urn string) string {
	if urn == "" {
		return ""
	}
	code := urn[strings.LastIndex(urn, ":")+1:]
	code = strings.TrimSuffix(code, ")")
	if code == "" {
		return ""
	}
	return "EPSG:" + code
}
