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
	"strings"
)

// Some providers declare links to landing pages rather than to the data
// behind them. These rewrites turn such links into direct download requests
// before classification; both are pure string transformations.

// rewrites an IPT resource page URL into the matching Darwin Core Archive
// download URL; the second return value is false if the URL doesn't look
// like an IPT resource page
func RewriteIPTResource(pageURL string) (string, bool) {
	marker := "/resource?r="
	index := strings.Index(pageURL, marker)
	if index == -1 {
		return pageURL, false
	}
	resource := pageURL[index+len(marker):]
	if resource == "" {
		return pageURL, false
	}
	return pageURL[:index] + "/archive.do?r=" + resource, true
}

// rewrites a EuroBIS toolbox download page URL into a WFS CSV request for
// the same dataset; the second return value is false if no dataset ID can
// be extracted
func RewriteEurobisToolbox(pageURL string) (string, bool) {
	marker := "/toolbox/en/download/"
	index := strings.Index(pageURL, marker)
	if index == -1 {
		return pageURL, false
	}
	datasetId := strings.Trim(pageURL[index+len(marker):], "/")
	if datasetId == "" {
		return pageURL, false
	}
	return "https://geo.vliz.be/geoserver/Dataportal/wfs?service=wfs&version=1.1.0" +
		"&request=GetFeature&outputFormat=text%2Fcsv&typeName=Dataportal%3Aeurobis-obisenv" +
		"&viewParams=datasetid%3A" + datasetId, true
}
