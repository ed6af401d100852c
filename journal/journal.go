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

package journal

import (
	"encoding/json"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/EDITO-Infra/csw-to-stac/config"
)

// This is the processed-record journal. It remembers which source records
// have already been run through the pipeline (and with what outcome) so that
// incremental re-runs skip them.

// outcomes a record can be journaled with
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// a journal entry for one processed source record
type Entry struct {
	// the source record ID
	Id string `json:"id"`
	// the processing outcome ("accepted" or "rejected")
	Outcome string `json:"outcome"`
	// for rejected records, why ("no_assets", "no_data", "no_title",
	// "assembly_failed")
	Reason string `json:"reason,omitempty"`
	// when the record was processed
	Time time.Time `json:"time"`
}

// initialize the processed-record journal
func Init() error {
	if !IsOpen() {
		go journalProcess()
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// saves and closes the journal (if it's been opened)
func Finalize() error {
	if IsOpen() {
		channels_.Input.Shutdown <- struct{}{}
		closeChannels()
	}
	return nil
}

// returns true if the journal is open for writing, false if not
func IsOpen() bool {
	if channels_.Open { // has Init() been called?
		channels_.Input.CheckIfOpen <- struct{}{}
		select {
		case isOpen := <-channels_.Output.IsOpen:
			return isOpen
		case <-time.After(1 * time.Second): // after a second, we assume the goroutine has crashed
			closeChannels()
			return false
		}
	}
	return false
}

// records the outcome of processing a source record; marking the same ID
// twice with the same outcome is a no-op, while marking it with a different
// outcome updates the entry
func Mark(entry Entry) error {
	switch entry.Outcome {
	case OutcomeAccepted, OutcomeRejected:
		// pass-through (see below)
	default:
		return &InvalidOutcomeError{
			Id:      entry.Id,
			Outcome: entry.Outcome,
		}
	}

	if !IsOpen() {
		return &NotOpenError{}
	}

	channels_.Input.Mark <- entry
	return <-channels_.Output.Error
}

// returns true if the record with the given ID has a journal entry
func Processed(id string) (bool, error) {
	if !IsOpen() {
		return false, &NotOpenError{}
	}
	channels_.Input.Lookup <- id
	select {
	case found := <-channels_.Output.Found:
		return found, nil
	case err := <-channels_.Output.Error:
		return false, err
	}
}

// retrieves all journal entries, ordered by record ID
func Entries() ([]Entry, error) {
	if !IsOpen() {
		return nil, &NotOpenError{}
	}
	channels_.Input.Fetch <- struct{}{}
	select {
	case entries := <-channels_.Output.Entries:
		return entries, nil
	case err := <-channels_.Output.Error:
		return nil, err
	}
}

// This type adapts the package-level journal to the pipeline's Ledger
// interface so the driver can be handed an in-memory fake in tests.
type Store struct{}

func (Store) Processed(id string) (bool, error) { return Processed(id) }
func (Store) Mark(entry Entry) error            { return Mark(entry) }
func (Store) Entries() ([]Entry, error)         { return Entries() }

//-----------
// Internals
//-----------

// The journal gets its own goroutine so a crash in it doesn't take down the
// whole pipeline. Here we define "input" channels (main process -> goroutine)
// and "output" channels (goroutine -> main process) for passing data back
// and forth.

var channels_ struct {
	Open  bool // true if channels are open, false if not
	Input struct {
		Mark        chan Entry    // for creating/updating entries
		Lookup      chan string   // for checking whether an ID was processed
		Fetch       chan struct{} // for fetching all entries
		CheckIfOpen chan struct{} // for checking whether the database is open
		Shutdown    chan struct{} // for shutting down the database
	}

	Output struct {
		Entries chan []Entry // for returning entries
		Found   chan bool    // for answering lookup queries
		Error   chan error   // for returning errors
		IsOpen  chan bool    // for answering queries about whether the database is open
	}
}

const recordBucket = "records"

func journalProcess() {

	// open the database, creating the schema if necessary
	dbPath := filepath.Join(config.Pipeline.DataDirectory, "journal.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		channels_.Output.Error <- &CantOpenError{
			Message: err.Error(),
		}
		return
	}

	db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordBucket))
		return err
	})

	openChannels()

	// handle requests
	running := true
	for running {
		select {

		case <-channels_.Input.CheckIfOpen:
			channels_.Output.IsOpen <- true // always true if this goroutine is running!

		case entry := <-channels_.Input.Mark:
			channels_.Output.Error <- markEntry(db, entry)

		case id := <-channels_.Input.Lookup:
			found, err := lookupEntry(db, id)
			if err != nil {
				channels_.Output.Error <- err
			} else {
				channels_.Output.Found <- found
			}

		case <-channels_.Input.Fetch:
			entries, err := fetchEntries(db)
			if err != nil {
				channels_.Output.Error <- err
			} else {
				channels_.Output.Entries <- entries
			}

		case <-channels_.Input.Shutdown:
			err := db.Close()
			if err != nil {
				channels_.Output.Error <- &CantCloseError{
					Message: err.Error(),
				}
			}
			running = false
		}
	}
}

func openChannels() {
	channels_.Open = true
	channels_.Input.Mark = make(chan Entry)
	channels_.Input.Lookup = make(chan string)
	channels_.Input.Fetch = make(chan struct{})
	channels_.Input.CheckIfOpen = make(chan struct{})
	channels_.Input.Shutdown = make(chan struct{})
	channels_.Output.Entries = make(chan []Entry)
	channels_.Output.Found = make(chan bool)
	channels_.Output.Error = make(chan error)
	channels_.Output.IsOpen = make(chan bool)
}

func closeChannels() {
	channels_.Open = false
	close(channels_.Input.Mark)
	close(channels_.Input.Lookup)
	close(channels_.Input.Fetch)
	close(channels_.Input.CheckIfOpen)
	close(channels_.Input.Shutdown)
	close(channels_.Output.Entries)
	close(channels_.Output.Found)
	close(channels_.Output.Error)
	close(channels_.Output.IsOpen)
}

func markEntry(db *bolt.DB, entry Entry) error {
	return db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucket))

		// marking an ID twice with the same outcome is a no-op, which keeps
		// the original timestamp for unchanged entries across re-runs
		if existing := bucket.Get([]byte(entry.Id)); existing != nil {
			var current Entry
			if err := json.Unmarshal(existing, &current); err == nil &&
				current.Outcome == entry.Outcome && current.Reason == entry.Reason {
				return nil
			}
		}

		jsonBytes, err := json.Marshal(&entry)
		if err != nil {
			return &InvalidEntryError{Id: entry.Id, Message: err.Error()}
		}
		return bucket.Put([]byte(entry.Id), jsonBytes)
	})
}

func lookupEntry(db *bolt.DB, id string) (bool, error) {
	var found bool
	err := db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(recordBucket)).Get([]byte(id)) != nil
		return nil
	})
	return found, err
}

func fetchEntries(db *bolt.DB) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(recordBucket)).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return &InvalidEntryError{Id: string(k), Message: err.Error()}
			}
			entries = append(entries, entry)
			return nil
		})
	})
	return entries, err
}
