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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/EDITO-Infra/csw-to-stac/config"
)

// the number of records requested per GetRecords page
const recordPageSize = 100

// This type implements RecordSource against an HTTP CSW endpoint using the
// CSW 2.0.2 GetRecords / GetRecordById operations.
type Client struct {
	// the base URL of the CSW endpoint
	BaseURL string
	// a printf-style URL for native XML lookups (empty: lookups unavailable)
	NativeURL string
	// the HTTP client used for all requests
	Http http.Client
}

// creates a new CSW client using the information supplied in the pipeline
// configuration
func NewClient() (*Client, error) {
	if config.Pipeline.CSWCatalogURL == "" {
		return nil, fmt.Errorf("No CSW catalog URL found in the configuration")
	}
	return &Client{
		BaseURL:   config.Pipeline.CSWCatalogURL,
		NativeURL: config.Pipeline.NativeXMLURL,
		Http:      FetchClient(),
	}, nil
}

// fetches all records from the CSW source, paging through GetRecords
// responses until the source reports no further records
func (c *Client) Records(ctx context.Context) ([]Record, error) {
	allRecords := make([]Record, 0)
	start := 1
	for {
		pageURL := c.getRecordsURL(start)
		slog.Info(fmt.Sprintf("Fetching records %d-%d from %s", start,
			start+recordPageSize-1, c.BaseURL))
		body, err := c.get(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		page, err := decodeGetRecordsResponse(body)
		if err != nil {
			return nil, &InvalidResponseError{URL: pageURL, Message: err.Error()}
		}
		// records carry the catalog title as their thematic lot
		for i := range page.Records {
			page.Records[i].ThematicLot = config.Pipeline.CSWCatalogTitle
		}
		allRecords = append(allRecords, page.Records...)

		if page.NextRecord <= 0 || page.NextRecord > page.Matched ||
			len(page.Records) == 0 {
			break
		}
		start = page.NextRecord
	}
	slog.Info(fmt.Sprintf("Fetched %d records from %s", len(allRecords), c.BaseURL))
	return allRecords, nil
}

// fetches the native XML representation for the record with the given ID
func (c *Client) NativeXML(ctx context.Context, id string) ([]byte, string, error) {
	if c.NativeURL == "" {
		return nil, "", &RecordNotFoundError{Id: id}
	}
	xmlURL := fmt.Sprintf(c.NativeURL, url.PathEscape(id))
	body, err := c.get(ctx, xmlURL)
	if err != nil {
		return nil, xmlURL, err
	}
	return body, xmlURL, nil
}

// returns the GetRecordById URL for the record with the given ID
func (c *Client) RecordURL(id string) string {
	params := url.Values{}
	params.Set("service", "CSW")
	params.Set("version", "2.0.2")
	params.Set("request", "GetRecordById")
	params.Set("elementSetName", "full")
	params.Set("id", id)
	return fmt.Sprintf("%s?%s", c.BaseURL, params.Encode())
}

// constructs the GetRecords URL for the page beginning at the given position
func (c *Client) getRecordsURL(startPosition int) string {
	params := url.Values{}
	params.Set("service", "CSW")
	params.Set("version", "2.0.2")
	params.Set("request", "GetRecords")
	params.Set("typeNames", "csw:Record")
	params.Set("elementSetName", "full")
	params.Set("resultType", "results")
	params.Set("startPosition", fmt.Sprintf("%d", startPosition))
	params.Set("maxRecords", fmt.Sprintf("%d", recordPageSize))
	return fmt.Sprintf("%s?%s", c.BaseURL, params.Encode())
}

// performs a GET request against the source, mapping HTTP failures to our
// error taxonomy
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.Http.Do(req)
	if err != nil {
		return nil, &UnreachableError{URL: requestURL, Message: err.Error()}
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, &RecordNotFoundError{Id: requestURL}
	default:
		return nil, &BadStatusError{URL: requestURL, StatusCode: resp.StatusCode}
	}
}
