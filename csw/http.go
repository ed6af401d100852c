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
	"fmt"
	"net/http"
	"time"

	"github.com/StalkR/hsts"

	"github.com/EDITO-Infra/csw-to-stac/config"
)

// the timeout for CSW fetches and resto calls; liveness probes carry their
// own, shorter timeout from the pipeline configuration
const fetchTimeout = 60 * time.Second

// SecureHttpClient builds an outbound HTTP client with a bounded timeout,
// HTTP Strict Transport Security (HSTS), and no silent downgrades to HTTP.
// All of this program's outbound traffic goes through one of these.
func SecureHttpClient(timeout time.Duration) http.Client {
	client := http.Client{
		Timeout:       timeout,
		CheckRedirect: rejectDowngrade,
	}
	client.Transport = hsts.New(client.Transport) // enable HSTS
	return client
}

// FetchClient returns the client used for CSW record fetches and resto
// ingestion calls.
func FetchClient() http.Client {
	return SecureHttpClient(fetchTimeout)
}

// ProbeClient returns the client used for link liveness probes, bounded by
// the per-link probe timeout in the pipeline configuration.
func ProbeClient() http.Client {
	return SecureHttpClient(time.Duration(config.Pipeline.ProbeTimeout) * time.Second)
}

// redirects may move between hosts, but never from HTTPS down to HTTP
func rejectDowngrade(req *http.Request, via []*http.Request) error {
	if req.URL.Scheme == "http" {
		return &DowngradedRedirectError{
			Endpoint: fmt.Sprintf("%s%s", req.URL.Host, req.URL.Path),
		}
	}
	return http.ErrUseLastResponse
}
