package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/config"
	"github.com/EDITO-Infra/csw-to-stac/csw"
	"github.com/EDITO-Infra/csw-to-stac/journal"
	"github.com/EDITO-Infra/csw-to-stac/pipeline"
	"github.com/EDITO-Infra/csw-to-stac/resto"
	"github.com/EDITO-Infra/csw-to-stac/stac"
	"github.com/EDITO-Infra/csw-to-stac/storage"
)

// Prints usage info.
func usage() {
	fmt.Fprintf(os.Stderr, "%s: usage:\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "%s <config_file> [-force] [-sync] [-ingest]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "See README.md for details on config files.\n")
	os.Exit(1)
}

func main() {

	// The first argument is the configuration filename; flags follow it.
	if len(os.Args) < 2 {
		usage()
	}
	configFile := os.Args[1]

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	force := flags.Bool("force", false, "reprocess records already journaled")
	syncTree := flags.Bool("sync", false, "sync the finished tree to object storage")
	ingest := flags.Bool("ingest", false, "ingest the finished tree into resto")
	flags.Parse(os.Args[2:])

	// Read the configuration file.
	log.Printf("Reading configuration from '%s'...\n", configFile)
	b, err := os.ReadFile(configFile)
	if err != nil {
		log.Panicf("Couldn't read %s: %s\n", configFile, err.Error())
	}
	if err := config.Init(b); err != nil {
		log.Panicf("Couldn't initialize the configuration: %s\n", err.Error())
	}
	if *force {
		config.Pipeline.ForceReprocess = true
	}

	// Open the processed-record journal, closing it on the way out.
	if err := journal.Init(); err != nil {
		log.Panicf("Couldn't open the journal: %s\n", err.Error())
	}
	defer journal.Finalize()

	// Intercept the SIGINT, SIGHUP, SIGTERM, and SIGQUIT signals, cancelling
	// the run as gracefully as possible if they are encountered.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-sigChan
		log.Println("Interrupted, finishing up")
		cancel()
	}()

	// Load the existing catalog tree (or start a fresh one) and run the
	// harvest.
	tree, err := stac.Open(config.Pipeline.CatalogDirectory, config.Pipeline.StacId,
		config.Pipeline.StacTitle, config.Pipeline.StacDescription)
	if err != nil {
		log.Panicf("Couldn't open the catalog tree: %s\n", err.Error())
	}

	source, err := csw.NewClient()
	if err != nil {
		log.Panicf("Couldn't create the CSW client: %s\n", err.Error())
	}
	summary, err := pipeline.Run(ctx, pipeline.Dependencies{
		Source: source,
		Prober: assets.NewProber(),
		Ledger: journal.Store{},
		Tree:   tree,
	})
	if err != nil {
		log.Panicf("The harvest run failed: %s\n", err.Error())
	}
	log.Printf("Run %s: %d fetched, %d filtered, %d skipped, %d accepted, %d rejected, %d errored (%s)\n",
		summary.RunId.String(), summary.Fetched, summary.Filtered, summary.Skipped,
		summary.Accepted, summary.Rejected, summary.Errored,
		summary.Finished.Sub(summary.Started))

	// Optionally mirror the finished tree to object storage and into resto.
	if *syncTree {
		uploaded, err := storage.Sync(ctx, config.Pipeline.CatalogDirectory)
		if err != nil {
			log.Panicf("Couldn't sync the catalog tree: %s\n", err.Error())
		}
		log.Printf("Synced %d files to object storage\n", uploaded)
	}
	if *ingest {
		report, err := resto.NewClient().Ingest(ctx, config.Pipeline.CatalogDirectory)
		if err != nil {
			log.Panicf("Couldn't ingest the catalog tree: %s\n", err.Error())
		}
		log.Printf("Ingested %d catalogs, %d collections, %d items (%d failures)\n",
			report.Catalogs, report.Collections, report.Items, report.Failures)
	}
}
