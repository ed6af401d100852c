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
	"math"
	"regexp"
	"strings"
	"time"
)

// datetimes assumed when a record declares no usable temporal information
const (
	defaultStartDatetime = "1970-01-01T00:00:00Z"
	defaultEndDatetime   = "2100-01-01T00:00:00Z"
)

var (
	slugSeparators = regexp.MustCompile(`[-\s]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9_.]`)
)

// Slugify turns free text into a STAC object ID: lowercase, whitespace and
// hyphen runs collapsed to underscores, everything else outside
// [a-z0-9_.] dropped.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugSeparators.ReplaceAllString(slug, "_")
	return slugInvalid.ReplaceAllString(slug, "")
}

// ClampBBox forces a declared bounding box into valid WGS 84 bounds
// [-180, -90, 180, 90], clamping stray coordinates; a missing, short, or
// non-finite box falls back to the whole world.
func ClampBBox(bbox []float64) []float64 {
	world := []float64{-180, -90, 180, 90}
	if len(bbox) != 4 {
		return world
	}
	for _, coordinate := range bbox {
		if math.IsNaN(coordinate) || math.IsInf(coordinate, 0) {
			return world
		}
	}
	return []float64{
		clamp(bbox[0], -180, 180),
		clamp(bbox[1], -90, 90),
		clamp(bbox[2], -180, 180),
		clamp(bbox[3], -90, 90),
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeDatetime pads a partial date (YYYY, YYYY-MM, YYYY-MM-DD, or a
// zoneless timestamp) into a full RFC 3339 UTC string. The second return
// value is false when the input can't be turned into a timestamp.
func NormalizeDatetime(value string) (string, bool) {
	padded := strings.TrimSpace(value)
	switch len(padded) {
	case 4:
		padded += "-01-01T00:00:00Z"
	case 7:
		padded += "-01T00:00:00Z"
	case 10:
		padded += "T00:00:00Z"
	case 16:
		padded += ":00Z"
	case 19:
		padded += "Z"
	}
	parsed, err := time.Parse(time.RFC3339, padded)
	if err != nil {
		return "", false
	}
	return parsed.UTC().Format("2006-01-02T15:04:05Z"), true
}

// TemporalInterval determines an item's [start, end] datetimes from the
// declared temporal extent, falling back to the spread of the record's date
// fields, and finally to the catalog-wide defaults. An end equal to the
// start widens to the default end.
func TemporalInterval(declaredStart, declaredEnd string, dateFields []string) (string, string) {
	start, haveStart := NormalizeDatetime(declaredStart)
	end, haveEnd := NormalizeDatetime(declaredEnd)

	if !haveStart || !haveEnd {
		for _, field := range dateFields {
			normalized, ok := NormalizeDatetime(field)
			if !ok {
				continue
			}
			if !haveStart || normalized < start {
				start = normalized
				haveStart = true
			}
			if !haveEnd || normalized > end {
				end = normalized
				haveEnd = true
			}
		}
	}

	if !haveStart {
		start = defaultStartDatetime
	}
	if !haveEnd || end == start {
		end = defaultEndDatetime
	}
	return start, end
}
