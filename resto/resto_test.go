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

package resto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/csw"
	"github.com/EDITO-Infra/csw-to-stac/stac"
)

// a resto fake: issues tokens, accepts POSTed objects, and answers 409 for
// objects it already holds so clients retry with PUT
type restoFake struct {
	mutex   sync.Mutex
	objects map[string]bool
	puts    int
}

func (f *restoFake) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/data/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mutex.Lock()
		defer f.mutex.Unlock()

		if r.Method == http.MethodPut {
			f.puts++
			w.WriteHeader(http.StatusOK)
			return
		}

		var object map[string]any
		json.NewDecoder(r.Body).Decode(&object)
		id, _ := object["id"].(string)
		if f.objects[id] {
			w.WriteHeader(http.StatusConflict)
			return
		}
		f.objects[id] = true
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

// writes a one-item tree to a temporary directory
func writeTestTree(t *testing.T) string {
	dir, err := os.MkdirTemp(os.TempDir(), "resto-tests-")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	tree := stac.NewTree("test_catalog", "Test", "A test catalog")
	familyId := tree.EnsureFamily("Temperature")
	collectionId, err := tree.EnsureCollection(familyId, "Physics", nil, "")
	if err != nil {
		t.Fatal(err)
	}

	dataAsset := assets.Asset{
		URL:       "https://data.test/products/sst.nc",
		Kind:      "netcdf",
		MediaType: "application/vnd+netcdf",
		Roles:     []assets.Role{assets.RoleData},
		Live:      true,
	}
	item, err := stac.BuildItem(csw.Record{
		Identifier: "record-1",
		Title:      "North Sea Temperature",
		BBox:       []float64{-4.5, 50, 9, 62},
	}, assets.Classification{
		Assets:     []assets.Asset{dataAsset},
		DataAssets: []assets.Asset{dataAsset},
	}, "Test")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.UpsertItem(familyId, collectionId, item); err != nil {
		t.Fatal(err)
	}
	if err := tree.Write(dir); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestIngest(t *testing.T) {
	assert := assert.New(t)

	fake := &restoFake{objects: make(map[string]bool)}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := &Client{
		APIBase:  server.URL,
		AuthURL:  server.URL + "/token",
		Username: "tester",
		Password: "secret",
		Http:     http.Client{},
	}

	dir := writeTestTree(t)
	report, err := client.Ingest(context.Background(), dir)
	assert.Nil(err)
	assert.Equal(2, report.Catalogs) // the root and the family
	assert.Equal(1, report.Collections)
	assert.Equal(1, report.Items)
	assert.Equal(0, report.Failures)
	assert.Equal(0, fake.puts)

	// re-ingesting the same tree updates instead of duplicating
	report, err = client.Ingest(context.Background(), dir)
	assert.Nil(err)
	assert.Equal(0, report.Failures)
	assert.Equal(2, report.Catalogs)
	assert.Equal(1, report.Collections)
	assert.Equal(1, report.Items)
	assert.Equal(4, fake.puts)
}

func TestIngestRequiresToken(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := &Client{
		APIBase: server.URL,
		AuthURL: server.URL + "/token",
		Http:    http.Client{},
	}
	_, err := client.Ingest(context.Background(), writeTestTree(t))
	assert.NotNil(err)
	assert.IsType(&AuthError{}, err)
}
