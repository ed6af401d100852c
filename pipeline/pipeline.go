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

// This package drives a harvest run: fetch source records, skip the ones
// already journaled, enrich and classify the rest concurrently, and fold the
// survivors into the STAC catalog tree.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/config"
	"github.com/EDITO-Infra/csw-to-stac/csw"
	"github.com/EDITO-Infra/csw-to-stac/journal"
	"github.com/EDITO-Infra/csw-to-stac/stac"
	"github.com/EDITO-Infra/csw-to-stac/supplement"
)

// reasons recorded for rejected records
const (
	ReasonNoAssets       = "no_assets"
	ReasonNoData         = "no_data"
	ReasonNoTitle        = "no_title"
	ReasonAssemblyFailed = "assembly_failed"
)

// Ledger is the processed-record store a run consults and updates. The
// journal package provides the durable implementation; tests inject an
// in-memory one.
type Ledger interface {
	Processed(id string) (bool, error)
	Mark(entry journal.Entry) error
	Entries() ([]journal.Entry, error)
}

// the collaborators a run is wired to
type Dependencies struct {
	Source csw.RecordSource
	Prober assets.Prober
	Ledger Ledger
	Tree   *stac.Tree
}

// the outcome of one harvest run
type Summary struct {
	// a unique ID for this run
	RunId uuid.UUID
	// the number of records the source reported
	Fetched int
	// records outside the configured allow-list
	Filtered int
	// records skipped because they were already journaled
	Skipped int
	// records accepted into the catalog
	Accepted int
	// records rejected (journaled with a reason)
	Rejected int
	// records whose outcome couldn't be recorded
	Errored int

	Started  time.Time
	Finished time.Time
}

// the result of enriching one record
type enriched struct {
	rec csw.Record
	cls assets.Classification
}

// Run executes one harvest. It is fatal only when the source yields no
// record list at all or the finished tree can't be written; everything else
// is journaled per record and reported in the summary.
func Run(ctx context.Context, deps Dependencies) (Summary, error) {
	summary := Summary{
		RunId:   uuid.New(),
		Started: time.Now(),
	}
	slog.Info(fmt.Sprintf("Starting harvest run %s", summary.RunId.String()))

	records, err := deps.Source.Records(ctx)
	if err != nil {
		return summary, &FetchFailedError{Message: err.Error()}
	}
	summary.Fetched = len(records)
	slog.Info(fmt.Sprintf("Fetched %d records from %s", len(records),
		config.Pipeline.CSWCatalogURL))

	pending := selectPending(records, deps.Ledger, &summary)
	results := enrichRecords(ctx, deps, pending)

	// assembly is serialized in this goroutine: the tree is a single-writer
	// structure
	for _, result := range results {
		assembleRecord(deps, result, &summary)
	}

	if err := deps.Tree.Write(config.Pipeline.CatalogDirectory); err != nil {
		return summary, err
	}

	summary.Finished = time.Now()
	slog.Info(fmt.Sprintf(
		"Run %s finished: %d fetched, %d filtered, %d skipped, %d accepted, %d rejected, %d errored",
		summary.RunId.String(), summary.Fetched, summary.Filtered,
		summary.Skipped, summary.Accepted, summary.Rejected, summary.Errored))
	return summary, nil
}

// applies the allow-list and the journal to decide which records this run
// processes
func selectPending(records []csw.Record, ledger Ledger, summary *Summary) []csw.Record {
	var pending []csw.Record
	for _, rec := range records {
		if len(config.Pipeline.Records) > 0 && !allowListed(rec.Identifier) {
			summary.Filtered++
			continue
		}
		// forced and allow-listed records reprocess even when journaled
		if config.Pipeline.ForceReprocess || allowListed(rec.Identifier) {
			pending = append(pending, rec)
			continue
		}
		processed, err := ledger.Processed(rec.Identifier)
		if err != nil {
			slog.Error(fmt.Sprintf("Record %s: journal lookup failed (%s), reprocessing",
				rec.Identifier, err.Error()))
			processed = false
		}
		if processed {
			slog.Debug(fmt.Sprintf("Record %s already processed, skipping", rec.Identifier))
			summary.Skipped++
			continue
		}
		pending = append(pending, rec)
	}
	return pending
}

func allowListed(id string) bool {
	return slices.Contains(config.Pipeline.Records, id)
}

// supplements and classifies the pending records on a worker pool; results
// land in input order so assembly stays deterministic
func enrichRecords(ctx context.Context, deps Dependencies, pending []csw.Record) []enriched {
	results := make([]enriched, len(pending))
	indices := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < config.Pipeline.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = enrichRecord(ctx, deps, pending[i])
			}
		}()
	}
	for i := range pending {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return results
}

func enrichRecord(ctx context.Context, deps Dependencies, rec csw.Record) enriched {
	supplemented, err := supplement.Supplement(ctx, deps.Source, rec)
	if err != nil {
		// recoverable: the record proceeds with its CSW fields only
		slog.Warn(err.Error())
	}
	cls := assets.Classify(ctx, supplemented.Identifier, supplemented.Links, deps.Prober)
	return enriched{rec: supplemented, cls: cls}
}

// gates the enriched record, folds it into the tree if eligible, and
// journals the outcome
func assembleRecord(deps Dependencies, result enriched, summary *Summary) {
	rec := result.rec

	outcome, reason := journal.OutcomeRejected, ""
	switch {
	case rec.Title == "":
		reason = ReasonNoTitle
	case len(result.cls.Assets) == 0 && len(result.cls.Dead) == 0:
		reason = ReasonNoAssets
	case len(result.cls.DataAssets) == 0:
		reason = ReasonNoData
	default:
		if err := addToTree(deps.Tree, rec, result.cls); err != nil {
			slog.Error(fmt.Sprintf("Record %s: %s", rec.Identifier, err.Error()))
			reason = ReasonAssemblyFailed
		} else {
			outcome = journal.OutcomeAccepted
		}
	}

	if outcome == journal.OutcomeAccepted {
		summary.Accepted++
	} else {
		summary.Rejected++
		slog.Info(fmt.Sprintf("Record %s rejected: %s", rec.Identifier, reason))
	}

	err := deps.Ledger.Mark(journal.Entry{
		Id:      rec.Identifier,
		Outcome: outcome,
		Reason:  reason,
		Time:    time.Now(),
	})
	if err != nil {
		slog.Error(fmt.Sprintf("Record %s: couldn't journal outcome (%s)",
			rec.Identifier, err.Error()))
		summary.Errored++
	}
}

func addToTree(tree *stac.Tree, rec csw.Record, cls assets.Classification) error {
	item, err := stac.BuildItem(rec, cls, config.Pipeline.CSWCatalogTitle)
	if err != nil {
		return err
	}

	familyId := tree.EnsureFamily(stac.LookupFamily(rec, cls))
	providers := stac.DeriveProviders(rec, config.Pipeline.CSWCatalogTitle)
	collectionId, err := tree.EnsureCollection(familyId,
		stac.LookupCollection(rec, cls), providers, rec.License)
	if err != nil {
		return err
	}

	replaced, err := tree.UpsertItem(familyId, collectionId, item)
	if err != nil {
		return err
	}
	if replaced {
		slog.Info(fmt.Sprintf("Record %s: replaced existing item %s", rec.Identifier, item.Id))
	} else {
		slog.Info(fmt.Sprintf("Record %s: added item %s to %s/%s", rec.Identifier,
			item.Id, familyId, collectionId))
	}
	return nil
}
