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

package supplement

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// the fields recoverable from a record's native ISO 19139 (gmd) document
type nativeMetadata struct {
	Providers     []csw.Provider
	Rights        []string
	BBox          []float64 // [lon min, lat min, lon max, lat max]
	TemporalStart string
	TemporalEnd   string
}

// Sources emit gmd documents with unpredictable namespace prefixes, so this
// decoder walks the token stream matching element local names only, like the
// Dublin Core decoder in the csw package.
func decodeISO19139(data []byte) (nativeMetadata, error) {
	var meta nativeMetadata

	// the responsible party currently being decoded (if any)
	var party struct {
		Active bool
		Name   string
		Role   string
	}
	corners := make(map[string]float64)

	var stack []string
	var text strings.Builder

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nativeMetadata{}, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
			switch t.Name.Local {
			case "CI_ResponsibleParty":
				party.Active = true
				party.Name = ""
				party.Role = ""
			case "CI_RoleCode":
				if party.Active {
					party.Role = attrValue(t.Attr, "codeListValue")
				}
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			element := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			value := strings.TrimSpace(text.String())
			text.Reset()
			if value == "" {
				if element == "CI_ResponsibleParty" {
					party.Active = false
					if party.Name != "" {
						meta.Providers = append(meta.Providers, csw.Provider{
							Name: party.Name,
							Role: party.Role,
						})
					}
				}
				continue
			}

			switch element {
			case "CharacterString":
				switch parent {
				case "organisationName":
					if party.Active {
						party.Name = value
					}
				case "otherConstraints", "useLimitation":
					meta.Rights = append(meta.Rights, value)
				}
			case "Decimal":
				switch parent {
				case "westBoundLongitude", "eastBoundLongitude",
					"southBoundLatitude", "northBoundLatitude":
					if number, err := strconv.ParseFloat(value, 64); err == nil {
						corners[parent] = number
					}
				}
			case "beginPosition":
				meta.TemporalStart = value
			case "endPosition":
				meta.TemporalEnd = value
			case "CI_ResponsibleParty":
				party.Active = false
				if party.Name != "" {
					meta.Providers = append(meta.Providers, csw.Provider{
						Name: party.Name,
						Role: party.Role,
					})
				}
			}
		}
	}

	if len(corners) == 4 {
		meta.BBox = []float64{
			corners["westBoundLongitude"],
			corners["southBoundLatitude"],
			corners["eastBoundLongitude"],
			corners["northBoundLatitude"],
		}
	}
	return meta, nil
}

// returns the value of the attribute with the given local name, or ""
func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
