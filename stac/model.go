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

// This package assembles and serializes a self-contained STAC catalog tree
// (root catalog -> variable-family catalogs -> collections -> items).
package stac

// the STAC version written into every object
const stacVersion = "1.0.0"

// the projection extension declared on items
const projectionExtension = "https://stac-extensions.github.io/projection/v1.1.0/schema.json"

// a link between STAC objects; hrefs are relative so the tree remains
// self-contained on disk
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
}

// a STAC catalog (the root, or one variable family)
type Catalog struct {
	Type        string `json:"type"`
	StacVersion string `json:"stac_version"`
	Id          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// a party providing a collection's data
type Provider struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
	URL   string   `json:"url,omitempty"`
}

type SpatialExtent struct {
	BBox [][]float64 `json:"bbox"`
}

type TemporalExtent struct {
	Interval [][]string `json:"interval"`
}

type Extent struct {
	Spatial  SpatialExtent  `json:"spatial"`
	Temporal TemporalExtent `json:"temporal"`
}

// a STAC collection holding the items of one data collection within a
// variable family
type Collection struct {
	Type        string     `json:"type"`
	StacVersion string     `json:"stac_version"`
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	License     string     `json:"license"`
	Providers   []Provider `json:"providers,omitempty"`
	Extent      Extent     `json:"extent"`
	Links       []Link     `json:"links"`
}

// an asset attached to an item
type Asset struct {
	Href  string   `json:"href"`
	Title string   `json:"title,omitempty"`
	Type  string   `json:"type,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// an item's geometry (always a bounding-box polygon)
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

type ItemProperties struct {
	Title string `json:"title"`
	// always null: items carry a start/end range instead of an instant
	Datetime      *string  `json:"datetime"`
	StartDatetime string   `json:"start_datetime"`
	EndDatetime   string   `json:"end_datetime"`
	Keywords      []string `json:"keywords,omitempty"`
	ProjEPSG      int      `json:"proj:epsg"`
	License       string   `json:"license"`
	Provider      string   `json:"provider,omitempty"`
	References    string   `json:"references,omitempty"`
	// the source CSW record ID, keying item replacement across runs
	SourceRecord string `json:"source_record"`
}

// a STAC item assembled from one source record
type Item struct {
	Type           string           `json:"type"`
	StacVersion    string           `json:"stac_version"`
	StacExtensions []string         `json:"stac_extensions"`
	Id             string           `json:"id"`
	Collection     string           `json:"collection,omitempty"`
	Geometry       Geometry         `json:"geometry"`
	BBox           []float64        `json:"bbox"`
	Properties     ItemProperties   `json:"properties"`
	Links          []Link           `json:"links"`
	Assets         map[string]Asset `json:"assets"`
}
