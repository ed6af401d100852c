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

package assets

import (
	"regexp"
	"strings"
)

// the closed role vocabulary links are normalized into
type Role string

const (
	RoleData      Role = "data"
	RoleThumbnail Role = "thumbnail"
	RoleMetadata  Role = "metadata"
	RoleUnknown   Role = "unknown"
)

// normalizes free-text role strings from the CSW source into the closed
// vocabulary, falling back to RoleUnknown
func NormalizeRole(text string) Role {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "data", "download", "geodata":
		return RoleData
	case "thumbnail", "image", "preview", "overview", "browse graphic":
		return RoleThumbnail
	case "metadata", "information", "documentation":
		return RoleMetadata
	default:
		return RoleUnknown
	}
}

// the resolved media type for a link
type MediaType struct {
	// a short label keying the asset in a STAC item ("netcdf", "wms", ...)
	Kind string
	// a human-readable title for the asset
	Title string
	// the mime type
	MIME string
	// the roles implied by the media type
	Roles []Role
}

// a mapping from URL suffixes to media types
var suffixToMediaType = map[string]MediaType{
	".zarr":        {"zarr", "Zarr", "application/vnd+zarr", []Role{RoleData}},
	".zarr/":       {"zarr", "Zarr", "application/vnd+zarr", []Role{RoleData}},
	".nc":          {"netcdf", "NetCDF", "application/vnd+netcdf", []Role{RoleData}},
	".zip":         {"zip", "Zip", "application/zip", []Role{RoleData}},
	".tif":         {"geotiff", "GeoTIFF", "image/tiff; application=geotiff", []Role{RoleData}},
	".tiff":        {"geotiff", "GeoTIFF", "image/tiff; application=geotiff", []Role{RoleData}},
	".parquet":     {"parquet", "Parquet", "application/vnd+parquet", []Role{RoleData}},
	".parquet/":    {"parquet", "Parquet", "application/vnd+parquet", []Role{RoleData}},
	".geoparquet":  {"geoparquet", "GeoParquet", "application/vnd+parquet", []Role{RoleData}},
	".geoparquet/": {"geoparquet", "GeoParquet", "application/vnd+parquet", []Role{RoleData}},
	".csv":         {"csv", "CSV", "text/csv", []Role{RoleData}},
	".json":        {"json", "JSON", "application/json", []Role{RoleMetadata}},
	".html":        {"html", "HTML", "text/html", []Role{RoleMetadata}},
	".png":         {"png", "PNG", "image/png", []Role{RoleThumbnail}},
	".jpg":         {"jpg", "JPEG", "image/jpeg", []Role{RoleThumbnail}},
}

// a mapping from declared link protocols to media types (checked before any
// URL-based inference)
var protocolToMediaType = map[string]MediaType{
	"OGC:WMS":     {"wms", "WMS", "OGC:WMS", []Role{RoleThumbnail}},
	"OGC:WFS":     {"wfs", "WFS", "OGC:WFS", []Role{RoleData}},
	"OPeNDAP:DAP": {"opendap", "OPeNDAP", "application/opendap", []Role{RoleData}},
}

// URL patterns matched in order after suffix lookup fails; more specific
// patterns come first
var urlPatternMediaTypes = []struct {
	pattern   *regexp.Regexp
	mediaType MediaType
}{
	{regexp.MustCompile(`request=GetFeature&outputFormat=text%2Fcsv`),
		MediaType{"wfscsv", "CSV", "text/csv", []Role{RoleData}}},
	{regexp.MustCompile(`eurobis\.org/toolbox/en/download/`),
		MediaType{"eurobistoolbox", "Eurobis toolbox", "application/html", []Role{RoleMetadata}}},
	{regexp.MustCompile(`gbif\.org/dataset/`),
		MediaType{"gbifdataset", "GBIF Dataset", "application/html", []Role{RoleMetadata}}},
	{regexp.MustCompile(`ipt\.[a-zA-Z0-9-]+\.[a-zA-Z]+(?:/.*)?/archive\.do\?`),
		MediaType{"iptdwca", "Darwin Core Archive", "application/zip", []Role{RoleData}}},
	{regexp.MustCompile(`ipt\.[a-zA-Z0-9-]+\.[a-zA-Z]+(?:/.*)?/resource\?r=`),
		MediaType{"iptresource", "IPT Resource", "application/html", []Role{RoleMetadata}}},
	{regexp.MustCompile(`mda\.vliz\.be(?:/mda)?/directlink\.php\?`),
		MediaType{"mdazip", "Zip", "application/zip", []Role{RoleData}}},
	{regexp.MustCompile(`opendap`),
		MediaType{"opendap", "OPeNDAP", "application/opendap", []Role{RoleData}}},
	{regexp.MustCompile(`csw\?request=`),
		MediaType{"csw", "CSW", "application/csw", []Role{RoleMetadata}}},
	{regexp.MustCompile(`wms`),
		MediaType{"wms", "WMS", "OGC:WMS", []Role{RoleThumbnail}}},
	{regexp.MustCompile(`wfs`),
		MediaType{"wfs", "WFS", "OGC:WFS", []Role{RoleData}}},
	{regexp.MustCompile(`xml`),
		MediaType{"xml", "XML", "application/xml", []Role{RoleMetadata}}},
	{regexp.MustCompile(`doi\.org|doi:`),
		MediaType{"doi", "DOI", "application/vnd+doi", []Role{RoleData}}},
}

// Resolve determines the media type for a link from its declared protocol,
// its URL suffix, or a URL pattern, in that order. The second return value
// is false when no media type could be determined.
func Resolve(linkURL, protocol string) (MediaType, bool) {
	for prefix, mediaType := range protocolToMediaType {
		if strings.HasPrefix(protocol, prefix) {
			return mediaType, true
		}
	}
	for suffix, mediaType := range suffixToMediaType {
		if strings.HasSuffix(linkURL, suffix) {
			return mediaType, true
		}
	}
	for _, entry := range urlPatternMediaTypes {
		if entry.pattern.MatchString(linkURL) {
			return entry.mediaType, true
		}
	}
	return MediaType{}, false
}
