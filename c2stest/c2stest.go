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

// This package contains testing utilities for the CSW-to-STAC pipeline.
package c2stest

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/EDITO-Infra/csw-to-stac/csw"
	"github.com/EDITO-Infra/csw-to-stac/journal"
)

// Enables DEBUG log messages for the pipeline's structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

//------------------------
// Record Source Fixtures
//------------------------

// This type implements csw.RecordSource with canned records and native XML
// documents.
type RecordSource struct {
	// records returned by Records, in order
	Recs []csw.Record
	// native XML documents by record ID
	XML map[string][]byte
	// if non-nil, Records fails with this error
	FetchErr error
}

func (s *RecordSource) Records(ctx context.Context) ([]csw.Record, error) {
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return s.Recs, nil
}

func (s *RecordSource) NativeXML(ctx context.Context, id string) ([]byte, string, error) {
	doc, found := s.XML[id]
	if !found {
		return nil, "", &csw.RecordNotFoundError{Id: id}
	}
	return doc, s.nativeURL(id), nil
}

func (s *RecordSource) RecordURL(id string) string {
	return "https://csw.test/csw?request=GetRecordById&id=" + id
}

func (s *RecordSource) nativeURL(id string) string {
	return "https://csw.test/records/" + id + "/formatters/xml"
}

//------------------------
// Liveness Probe Fixtures
//------------------------

// This type implements assets.Prober with a scripted URL-to-liveness map;
// unlisted URLs report as unreachable.
type Prober struct {
	Live map[string]bool
}

func (p *Prober) Probe(ctx context.Context, url string) bool {
	return p.Live[url]
}

//------------------------
// Ledger Fixtures
//------------------------

// This type implements the pipeline's Ledger interface in memory.
type Ledger struct {
	mutex   sync.Mutex
	entries map[string]journal.Entry
	order   []string
}

func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]journal.Entry),
	}
}

func (l *Ledger) Processed(id string) (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	_, found := l.entries[id]
	return found, nil
}

func (l *Ledger) Mark(entry journal.Entry) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if existing, found := l.entries[entry.Id]; found {
		if existing.Outcome == entry.Outcome {
			return nil // idempotent
		}
	} else {
		l.order = append(l.order, entry.Id)
	}
	l.entries[entry.Id] = entry
	return nil
}

func (l *Ledger) Entries() ([]journal.Entry, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	entries := make([]journal.Entry, 0, len(l.order))
	for _, id := range l.order {
		entries = append(entries, l.entries[id])
	}
	return entries, nil
}
