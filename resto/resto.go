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

// This package pushes a finished on-disk catalog tree into a resto STAC API
// instance. Stable object IDs make re-ingestion an update rather than a
// duplication: a conflicting POST is retried as a PUT.
package resto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/EDITO-Infra/csw-to-stac/config"
	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// Client talks to one resto instance with a password-grant bearer token.
type Client struct {
	// the API base URL (e.g. "https://api.staging.edito.eu")
	APIBase string
	// the OpenID Connect token endpoint
	AuthURL string

	Username string
	Password string

	Http  http.Client
	token string
}

// what happened during one ingestion pass
type Report struct {
	Catalogs    int
	Collections int
	Items       int
	Failures    int
}

// NewClient creates a resto client from the resto section of the
// configuration.
func NewClient() *Client {
	return &Client{
		APIBase:  strings.TrimSuffix(config.Resto.Instance, "/"),
		AuthURL:  config.Resto.AuthURL,
		Username: config.Resto.Username,
		Password: config.Resto.Password,
		Http:     csw.FetchClient(),
	}
}

// Ingest walks the catalog tree previously written to the given directory
// and posts the root catalog, the family catalogs, every collection, and
// every item to the instance. Per-object failures are counted and logged,
// never fatal; the local tree is never touched.
func (c *Client) Ingest(ctx context.Context, dir string) (Report, error) {
	var report Report
	if err := c.authenticate(ctx); err != nil {
		return report, err
	}

	rootCatalog, err := readObject(filepath.Join(dir, "catalog.json"))
	if err != nil {
		return report, err
	}
	children := childLinks(rootCatalog) // posting strips the links
	c.postObject(ctx, c.APIBase+"/data/catalogs/", rootCatalog, &report.Catalogs, &report.Failures)

	for _, href := range children {
		familyPath := filepath.Join(dir, filepath.FromSlash(href))
		if err := c.ingestFamily(ctx, familyPath, &report); err != nil {
			return report, err
		}
	}

	slog.Info(fmt.Sprintf("Ingested %d catalogs, %d collections, %d items (%d failures)",
		report.Catalogs, report.Collections, report.Items, report.Failures))
	return report, nil
}

func (c *Client) ingestFamily(ctx context.Context, path string, report *Report) error {
	familyCatalog, err := readObject(path)
	if err != nil {
		return err
	}
	children := childLinks(familyCatalog)
	c.postObject(ctx, c.APIBase+"/data/catalogs/", familyCatalog, &report.Catalogs, &report.Failures)

	familyDir := filepath.Dir(path)
	for _, href := range children {
		collectionPath := filepath.Join(familyDir, filepath.FromSlash(href))
		if err := c.ingestCollection(ctx, collectionPath, report); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) ingestCollection(ctx context.Context, path string, report *Report) error {
	collection, err := readObject(path)
	if err != nil {
		return err
	}
	items := itemLinks(collection)
	collectionId, _ := collection["id"].(string)
	c.postObject(ctx, c.APIBase+"/data/collections/", collection,
		&report.Collections, &report.Failures)

	itemsURL := fmt.Sprintf("%s/data/collections/%s/items/", c.APIBase,
		url.PathEscape(collectionId))

	collectionDir := filepath.Dir(path)
	for _, href := range items {
		item, err := readObject(filepath.Join(collectionDir, filepath.FromSlash(href)))
		if err != nil {
			return err
		}
		c.postObject(ctx, itemsURL, item, &report.Items, &report.Failures)
	}
	return nil
}

// posts one STAC object, updating in place on a conflict and refreshing the
// token once on an expiry
func (c *Client) postObject(ctx context.Context, postURL string, object map[string]any,
	posted, failures *int) {
	// local cross-references don't survive outside the tree
	delete(object, "links")
	objectId, _ := object["id"].(string)

	status, err := c.send(ctx, http.MethodPost, postURL, object)
	if status == http.StatusUnauthorized {
		if err := c.authenticate(ctx); err == nil {
			status, err = c.send(ctx, http.MethodPost, postURL, object)
		}
	}
	if status == http.StatusConflict {
		// the object exists from an earlier run: make this an update
		status, err = c.send(ctx, http.MethodPut, postURL+url.PathEscape(objectId), object)
	}

	if err != nil || status >= 300 {
		message := fmt.Sprintf("status %d", status)
		if err != nil {
			message = err.Error()
		}
		slog.Error(fmt.Sprintf("Couldn't ingest '%s': %s", objectId, message))
		*failures++
		return
	}
	slog.Debug(fmt.Sprintf("Ingested '%s'", objectId))
	*posted++
}

func (c *Client) send(ctx context.Context, method, targetURL string, object map[string]any) (int, error) {
	payload, err := json.Marshal(object)
	if err != nil {
		return 0, err
	}
	request, err := http.NewRequestWithContext(ctx, method, targetURL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.token)

	response, err := c.Http.Do(request)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()
	io.Copy(io.Discard, response.Body)
	return response.StatusCode, nil
}

// fetches a bearer token from the instance's OpenID Connect endpoint using
// the password grant
func (c *Client) authenticate(ctx context.Context) error {
	form := url.Values{
		"client_id":  {"edito"},
		"username":   {c.Username},
		"password":   {c.Password},
		"grant_type": {"password"},
		"scope":      {"openid"},
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AuthURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return &AuthError{Message: err.Error()}
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.Http.Do(request)
	if err != nil {
		return &AuthError{Message: err.Error()}
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return &AuthError{Message: fmt.Sprintf("status %d from %s",
			response.StatusCode, c.AuthURL)}
	}

	var grant struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(response.Body).Decode(&grant); err != nil {
		return &AuthError{Message: err.Error()}
	}
	if grant.AccessToken == "" {
		return &AuthError{Message: "no access token in the grant response"}
	}
	c.token = grant.AccessToken
	return nil
}

//-----------
// Internals
//-----------

// reads one STAC JSON file as a generic object so it can be posted verbatim
func readObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IngestError{Path: path, Message: err.Error()}
	}
	var object map[string]any
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, &IngestError{Path: path, Message: err.Error()}
	}
	return object, nil
}

func childLinks(object map[string]any) []string {
	return linksWithRel(object, "child")
}

func itemLinks(object map[string]any) []string {
	return linksWithRel(object, "item")
}

func linksWithRel(object map[string]any, rel string) []string {
	var hrefs []string
	links, _ := object["links"].([]any)
	for _, entry := range links {
		link, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if link["rel"] == rel {
			if href, ok := link["href"].(string); ok {
				hrefs = append(hrefs, href)
			}
		}
	}
	return hrefs
}
