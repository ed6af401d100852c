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

// This package defines the source-record model for a CSW (Catalogue Service
// for the Web) endpoint and a client for harvesting records from it.
package csw

import (
	"context"
)

// a link declared by a CSW record (a dc:URI element)
type Link struct {
	// the link target
	URL string
	// the declared layer/resource name (optional)
	Name string
	// a free-text description (optional)
	Description string
	// the declared protocol (e.g. "OGC:WMS", "WWW:LINK-1.0-http--link")
	Protocol string
}

// a party responsible for a record's data
type Provider struct {
	Name string
	Role string
}

// a metadata record harvested from a CSW source; immutable once fetched
// for a run
type Record struct {
	// the stable record identifier, unique within the CSW source
	Identifier string
	// the record title
	Title string
	// the record abstract
	Abstract string
	// the declared bounding box [lon min, lat min, lon max, lat max]
	BBox []float64
	// the coordinate reference system for the bounding box ("EPSG:n")
	CRS string
	// Dublin Core date fields, as declared (free-form strings)
	Created  string
	Date     string
	Issued   string
	Modified string
	// responsible parties, as declared
	Creator   string
	Publisher string
	// license and access constraints
	License string
	Rights  string
	// a reference URL declared by the record (optional)
	References string
	// subject keywords
	Subjects []string
	// the record's declared links, in declaration order
	Links []Link
	// the thematic lot (family) the record belongs to, when the source
	// catalog declares one
	ThematicLot string
	// providers recovered from the source catalog or native XML
	Providers []Provider
	// temporal extent, when declared or recovered (RFC 3339 strings)
	TemporalStart string
	TemporalEnd   string
}

// RecordSource defines the interface for a CSW source that records are
// harvested from. Both operations are fallible remote calls; retry policy,
// if any, belongs to implementations.
type RecordSource interface {
	// fetches all records from the source
	Records(ctx context.Context) ([]Record, error)
	// fetches the native XML representation of the record with the given ID,
	// returning the document and the URL it was fetched from
	NativeXML(ctx context.Context, id string) ([]byte, string, error)
	// returns the GetRecordById URL for the record with the given ID
	RecordURL(id string) string
}
