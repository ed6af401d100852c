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
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// Prober checks whether a link's URL answers at classification time. A
// probe must never fail the pipeline: timeouts and transport errors simply
// report the link as unreachable.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

// This type implements Prober with bounded HTTP GET requests.
type HttpProber struct {
	Client http.Client
}

// creates a prober with the probe timeout supplied in the pipeline
// configuration
func NewProber() *HttpProber {
	return &HttpProber{
		Client: csw.ProbeClient(),
	}
}

func (p *HttpProber) Probe(ctx context.Context, probeURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, http.NoBody)
	if err != nil {
		return false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		slog.Debug(fmt.Sprintf("Probe of %s failed: %s", probeURL, err.Error()))
		return false
	}
	resp.Body.Close() // the body is never read; reachability is all we check
	if resp.StatusCode != http.StatusOK {
		slog.Debug(fmt.Sprintf("Probe of %s failed with status %d", probeURL,
			resp.StatusCode))
		return false
	}
	return true
}
