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

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("stac/catalog.json", objectKey("stac", "catalog.json"))
	assert.Equal("stac/temperature/catalog.json",
		objectKey("stac", "temperature/catalog.json"))
	assert.Equal("catalog.json", objectKey("", "catalog.json"))
}

func TestContentTypeFor(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("application/json", contentTypeFor("catalog.json"))
	assert.Equal("application/xml", contentTypeFor("record.XML"))
	assert.Equal("application/octet-stream", contentTypeFor("data.bin"))
}

func TestSyncRequiresConfiguration(t *testing.T) {
	assert := assert.New(t)

	// no storage endpoint is configured in this test process
	_, err := Sync(context.Background(), t.TempDir())
	assert.IsType(&NotConfiguredError{}, err)
}
