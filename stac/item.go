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

package stac

import (
	"strconv"
	"strings"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// the license assumed when a record declares none
const defaultLicense = "CC-BY-4.0"

// BuildItem assembles a STAC item from a classified source record. The
// item's ID is the slugified title; the source record's identifier travels
// in the properties so re-runs replace the item instead of duplicating it.
func BuildItem(rec csw.Record, cls assets.Classification, catalogTitle string) (Item, error) {
	itemId := Slugify(rec.Title)
	if strings.TrimSpace(rec.Title) == "" || itemId == "" {
		return Item{}, &NoTitleError{Id: rec.Identifier}
	}

	itemAssets := buildAssets(cls)
	if len(itemAssets) == 0 {
		return Item{}, &NoAssetsError{Id: rec.Identifier}
	}

	bbox := ClampBBox(rec.BBox)
	start, end := TemporalInterval(rec.TemporalStart, rec.TemporalEnd,
		[]string{rec.Created, rec.Date, rec.Issued, rec.Modified})

	properties := ItemProperties{
		Title:         rec.Title,
		StartDatetime: start,
		EndDatetime:   end,
		Keywords:      rec.Subjects,
		ProjEPSG:      epsgCode(rec.CRS),
		License:       itemLicense(rec),
		References:    rec.References,
		SourceRecord:  rec.Identifier,
	}
	if providers := DeriveProviders(rec, catalogTitle); len(providers) > 0 {
		properties.Provider = providers[0].Name
	}

	return Item{
		Type:           "Feature",
		StacVersion:    stacVersion,
		StacExtensions: []string{projectionExtension},
		Id:             itemId,
		Geometry:       polygonFromBBox(bbox),
		BBox:           bbox,
		Properties:     properties,
		Assets:         itemAssets,
	}, nil
}

// turns classified assets into STAC assets keyed by media-type kind
func buildAssets(cls assets.Classification) map[string]Asset {
	itemAssets := make(map[string]Asset)
	for _, asset := range cls.Assets {
		roles := make([]string, len(asset.Roles))
		for i, role := range asset.Roles {
			roles[i] = string(role)
		}
		itemAssets[asset.Kind] = Asset{
			Href:  asset.URL,
			Title: asset.Title,
			Type:  asset.MediaType,
			Roles: roles,
		}
	}
	return itemAssets
}

// builds the closed bounding-box polygon [W,S] -> [E,S] -> [E,N] -> [W,N]
func polygonFromBBox(bbox []float64) Geometry {
	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	return Geometry{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{west, south},
			{east, south},
			{east, north},
			{west, north},
			{west, south},
		}},
	}
}

// extracts the numeric code from an "EPSG:n" CRS, assuming WGS 84 otherwise
func epsgCode(crs string) int {
	if code, found := strings.CutPrefix(crs, "EPSG:"); found {
		if number, err := strconv.Atoi(code); err == nil {
			return number
		}
	}
	return 4326
}

func itemLicense(rec csw.Record) string {
	if rec.License != "" {
		return rec.License
	}
	return defaultLicense
}
