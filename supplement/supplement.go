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

// This package recovers record fields that the Dublin Core representation
// drops (providers, rights, extents) from a record's native ISO 19139
// metadata document.
package supplement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// Supplement fetches the record's native ISO 19139 document and overlays
// recovered fields onto the record. A value recovered from the native
// document lands only in fields the CSW representation left empty. On any
// fetch or decode failure the record is returned unchanged along with an
// UnavailableError, which callers treat as recoverable.
func Supplement(ctx context.Context, src csw.RecordSource, rec csw.Record) (csw.Record, error) {
	doc, nativeURL, err := src.NativeXML(ctx, rec.Identifier)
	if err != nil {
		return rec, &UnavailableError{Id: rec.Identifier, Message: err.Error()}
	}

	meta, err := decodeISO19139(doc)
	if err != nil {
		return rec, &UnavailableError{Id: rec.Identifier, Message: err.Error()}
	}

	if len(rec.Providers) == 0 {
		rec.Providers = meta.Providers
	}
	if rec.Rights == "" && len(meta.Rights) > 0 {
		rec.Rights = strings.Join(meta.Rights, "; ")
	}
	if len(rec.BBox) == 0 && len(meta.BBox) == 4 {
		rec.BBox = meta.BBox
		slog.Debug(fmt.Sprintf("Record %s: bounding box recovered from native metadata",
			rec.Identifier))
	}
	if rec.TemporalStart == "" {
		rec.TemporalStart = meta.TemporalStart
	}
	if rec.TemporalEnd == "" {
		rec.TemporalEnd = meta.TemporalEnd
	}
	// an open-ended period runs to the present
	if rec.TemporalStart != "" && rec.TemporalEnd == "" {
		rec.TemporalEnd = time.Now().UTC().Format(time.RFC3339)
	}

	rec.Links = withMetadataLinks(rec.Links, nativeURL, src.RecordURL(rec.Identifier))
	return rec, nil
}

// attaches the native-XML and CSW record URLs as metadata links, skipping
// URLs the record already declares
func withMetadataLinks(links []csw.Link, nativeURL, recordURL string) []csw.Link {
	candidates := []csw.Link{
		{URL: nativeURL, Name: "Native XML metadata", Description: "metadata"},
		{URL: recordURL, Name: "CSW record", Description: "metadata"},
	}
	for _, candidate := range candidates {
		if candidate.URL == "" {
			continue
		}
		declared := false
		for _, link := range links {
			if link.URL == candidate.URL {
				declared = true
				break
			}
		}
		if !declared {
			links = append(links, candidate)
		}
	}
	return links
}
