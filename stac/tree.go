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

package stac

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Tree is the in-memory catalog being assembled: a root catalog whose
// children are variable-family catalogs, whose children are collections
// holding items. It is NOT safe for concurrent use; the pipeline mutates it
// from a single goroutine.
type Tree struct {
	id, title, description string

	families map[string]*familyNode
	order    []string
}

type familyNode struct {
	id, title, description string

	collections map[string]*collectionNode
	order       []string
}

type collectionNode struct {
	id, title, description, license string
	providers                       []Provider

	items map[string]*Item
	order []string
}

// NewTree creates an empty catalog tree with the given root identity.
func NewTree(id, title, description string) *Tree {
	return &Tree{
		id:          id,
		title:       title,
		description: description,
		families:    make(map[string]*familyNode),
	}
}

// Open loads the catalog tree previously written to the given directory, or
// creates an empty one if none exists there, so re-runs mutate the existing
// tree instead of regrowing it.
func Open(dir, id, title, description string) (*Tree, error) {
	_, err := os.Stat(filepath.Join(dir, "catalog.json"))
	if os.IsNotExist(err) {
		return NewTree(id, title, description), nil
	}
	return load(dir)
}

// EnsureFamily returns the ID of the variable-family catalog with the given
// name, creating it if the tree doesn't hold one yet.
func (t *Tree) EnsureFamily(name string) string {
	familyId := Slugify(name)
	if _, found := t.families[familyId]; !found {
		t.families[familyId] = &familyNode{
			id:          familyId,
			title:       name,
			description: fmt.Sprintf("Variable Family %s", name),
			collections: make(map[string]*collectionNode),
		}
		t.order = append(t.order, familyId)
	}
	return familyId
}

// EnsureCollection returns the ID of the collection with the given name
// within the given family, creating it if needed. The providers and license
// apply only at creation, so the first record routed to a collection decides
// its metadata.
func (t *Tree) EnsureCollection(familyId, name string, providers []Provider, license string) (string, error) {
	family, found := t.families[familyId]
	if !found {
		return "", &NotInTreeError{Id: familyId}
	}

	collectionId := collectionIdFor(name)
	if _, found := family.collections[collectionId]; !found {
		if license == "" {
			license = defaultLicense
		}
		family.collections[collectionId] = &collectionNode{
			id:          collectionId,
			title:       fmt.Sprintf("%s (EMODnet Convention)", name),
			description: fmt.Sprintf("Collection of %s data", name),
			license:     license,
			providers:   providers,
			items:       make(map[string]*Item),
		}
		family.order = append(family.order, collectionId)
	}
	return collectionId, nil
}

// UpsertItem places the item into the given collection. Any existing item
// built from the same source record (anywhere in the tree) is removed first,
// so reprocessing a record replaces its item instead of duplicating it. The
// returned flag reports whether a replacement happened.
func (t *Tree) UpsertItem(familyId, collectionId string, item Item) (bool, error) {
	family, found := t.families[familyId]
	if !found {
		return false, &NotInTreeError{Id: familyId}
	}
	collection, found := family.collections[collectionId]
	if !found {
		return false, &NotInTreeError{Id: collectionId}
	}

	replaced := t.removeBySourceRecord(item.Properties.SourceRecord)

	item.Collection = collectionId
	// two records can share a title; qualify the ID with the source record
	// rather than overwrite the other record's item
	if existing, found := collection.items[item.Id]; found &&
		existing.Properties.SourceRecord != item.Properties.SourceRecord {
		item.Id = fmt.Sprintf("%s_%s", item.Id, Slugify(item.Properties.SourceRecord))
	}
	if _, found := collection.items[item.Id]; !found {
		collection.order = append(collection.order, item.Id)
	}
	collection.items[item.Id] = &item
	return replaced, nil
}

// FindBySourceRecord returns the item built from the given source record, if
// the tree holds one.
func (t *Tree) FindBySourceRecord(recordId string) (Item, bool) {
	for _, familyId := range t.order {
		family := t.families[familyId]
		for _, collectionId := range family.order {
			collection := family.collections[collectionId]
			for _, itemId := range collection.order {
				item := collection.items[itemId]
				if item.Properties.SourceRecord == recordId {
					return *item, true
				}
			}
		}
	}
	return Item{}, false
}

// ItemCount returns the number of items held anywhere in the tree.
func (t *Tree) ItemCount() int {
	count := 0
	for _, family := range t.families {
		for _, collection := range family.collections {
			count += len(collection.items)
		}
	}
	return count
}

// Families returns the IDs of the tree's variable-family catalogs, in
// creation order.
func (t *Tree) Families() []string {
	return append([]string{}, t.order...)
}

// Collections returns the IDs of the collections within the given family,
// in creation order.
func (t *Tree) Collections(familyId string) []string {
	if family, found := t.families[familyId]; found {
		return append([]string{}, family.order...)
	}
	return nil
}

// Write serializes the tree under the given directory as a self-contained
// STAC layout: catalog.json at the root, one subdirectory per family, one
// per collection, one per item, all cross-referenced with relative links.
func (t *Tree) Write(dir string) error {
	rootCatalog := Catalog{
		Type:        "Catalog",
		StacVersion: stacVersion,
		Id:          t.id,
		Title:       t.title,
		Description: t.description,
		Links: []Link{
			{Rel: "root", Href: "./catalog.json", Type: "application/json"},
		},
	}
	for _, familyId := range t.order {
		rootCatalog.Links = append(rootCatalog.Links, Link{
			Rel:   "child",
			Href:  fmt.Sprintf("./%s/catalog.json", familyId),
			Type:  "application/json",
			Title: t.families[familyId].title,
		})
	}
	if err := writeJSON(filepath.Join(dir, "catalog.json"), rootCatalog); err != nil {
		return err
	}
	if err := pruneStale(dir, t.order); err != nil {
		return err
	}

	for _, familyId := range t.order {
		if err := t.writeFamily(dir, t.families[familyId]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) writeFamily(dir string, family *familyNode) error {
	familyCatalog := Catalog{
		Type:        "Catalog",
		StacVersion: stacVersion,
		Id:          family.id,
		Title:       family.title,
		Description: family.description,
		Links: []Link{
			{Rel: "root", Href: "../catalog.json", Type: "application/json"},
			{Rel: "parent", Href: "../catalog.json", Type: "application/json"},
		},
	}
	for _, collectionId := range family.order {
		familyCatalog.Links = append(familyCatalog.Links, Link{
			Rel:   "child",
			Href:  fmt.Sprintf("./%s/collection.json", collectionId),
			Type:  "application/json",
			Title: family.collections[collectionId].title,
		})
	}
	familyDir := filepath.Join(dir, family.id)
	if err := writeJSON(filepath.Join(familyDir, "catalog.json"), familyCatalog); err != nil {
		return err
	}
	if err := pruneStale(familyDir, family.order); err != nil {
		return err
	}

	for _, collectionId := range family.order {
		if err := writeCollection(familyDir, family.collections[collectionId]); err != nil {
			return err
		}
	}
	return nil
}

func writeCollection(familyDir string, collection *collectionNode) error {
	serialized := Collection{
		Type:        "Collection",
		StacVersion: stacVersion,
		Id:          collection.id,
		Title:       collection.title,
		Description: collection.description,
		License:     collection.license,
		Providers:   collection.providers,
		Extent:      collection.extent(),
		Links: []Link{
			{Rel: "root", Href: "../../catalog.json", Type: "application/json"},
			{Rel: "parent", Href: "../catalog.json", Type: "application/json"},
		},
	}
	for _, itemId := range collection.order {
		serialized.Links = append(serialized.Links, Link{
			Rel:  "item",
			Href: fmt.Sprintf("./%s/%s.json", itemId, itemId),
			Type: "application/geo+json",
		})
	}
	collectionDir := filepath.Join(familyDir, collection.id)
	if err := writeJSON(filepath.Join(collectionDir, "collection.json"), serialized); err != nil {
		return err
	}
	if err := pruneStale(collectionDir, collection.order); err != nil {
		return err
	}

	for _, itemId := range collection.order {
		item := *collection.items[itemId]
		item.Links = []Link{
			{Rel: "root", Href: "../../../catalog.json", Type: "application/json"},
			{Rel: "parent", Href: "../collection.json", Type: "application/json"},
			{Rel: "collection", Href: "../collection.json", Type: "application/json"},
		}
		itemPath := filepath.Join(collectionDir, itemId, itemId+".json")
		if err := writeJSON(itemPath, item); err != nil {
			return err
		}
	}
	return nil
}

// recomputes the collection extent as the union of its items' bounding
// boxes and temporal intervals
func (c *collectionNode) extent() Extent {
	if len(c.order) == 0 {
		return Extent{
			Spatial:  SpatialExtent{BBox: [][]float64{{-180, -90, 180, 90}}},
			Temporal: TemporalExtent{Interval: [][]string{{defaultStartDatetime, defaultEndDatetime}}},
		}
	}

	first := c.items[c.order[0]]
	bbox := append([]float64{}, first.BBox...)
	start := first.Properties.StartDatetime
	end := first.Properties.EndDatetime
	for _, itemId := range c.order[1:] {
		item := c.items[itemId]
		bbox[0] = min(bbox[0], item.BBox[0])
		bbox[1] = min(bbox[1], item.BBox[1])
		bbox[2] = max(bbox[2], item.BBox[2])
		bbox[3] = max(bbox[3], item.BBox[3])
		if item.Properties.StartDatetime < start {
			start = item.Properties.StartDatetime
		}
		if item.Properties.EndDatetime > end {
			end = item.Properties.EndDatetime
		}
	}
	return Extent{
		Spatial:  SpatialExtent{BBox: [][]float64{bbox}},
		Temporal: TemporalExtent{Interval: [][]string{{start, end}}},
	}
}

//-----------
// Internals
//-----------

// removes the item built from the given source record, wherever it sits
func (t *Tree) removeBySourceRecord(recordId string) bool {
	for _, familyId := range t.order {
		family := t.families[familyId]
		for _, collectionId := range family.order {
			collection := family.collections[collectionId]
			for i, itemId := range collection.order {
				if collection.items[itemId].Properties.SourceRecord == recordId {
					delete(collection.items, itemId)
					collection.order = append(collection.order[:i], collection.order[i+1:]...)
					return true
				}
			}
		}
	}
	return false
}

// removes subdirectories left over from earlier writes that the tree no
// longer references, so the on-disk layout always matches the assembled tree
func pruneStale(dir string, keep []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &WriteError{Path: dir, Message: err.Error()}
	}
	for _, entry := range entries {
		if !entry.IsDir() || slices.Contains(keep, entry.Name()) {
			continue
		}
		stale := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(stale); err != nil {
			return &WriteError{Path: stale, Message: err.Error()}
		}
	}
	return nil
}

// builds a collection's ID from its name, applying the catalog's EMODnet
// naming convention
func collectionIdFor(name string) string {
	slug := Slugify(name)
	if strings.Contains(slug, "emodnet") {
		return slug
	}
	return "emodnet-" + slug
}

func writeJSON(path string, payload any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &WriteError{Path: path, Message: err.Error()}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Message: err.Error()}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Message: err.Error()}
	}
	return nil
}

// rebuilds the in-memory tree from a layout previously produced by Write
func load(dir string) (*Tree, error) {
	var rootCatalog Catalog
	rootPath := filepath.Join(dir, "catalog.json")
	if err := readJSON(rootPath, &rootCatalog); err != nil {
		return nil, err
	}

	tree := NewTree(rootCatalog.Id, rootCatalog.Title, rootCatalog.Description)
	for _, link := range rootCatalog.Links {
		if link.Rel != "child" {
			continue
		}
		familyPath := filepath.Join(dir, filepath.FromSlash(link.Href))
		if err := loadFamily(tree, familyPath); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func loadFamily(tree *Tree, path string) error {
	var familyCatalog Catalog
	if err := readJSON(path, &familyCatalog); err != nil {
		return err
	}

	family := &familyNode{
		id:          familyCatalog.Id,
		title:       familyCatalog.Title,
		description: familyCatalog.Description,
		collections: make(map[string]*collectionNode),
	}
	tree.families[family.id] = family
	tree.order = append(tree.order, family.id)

	familyDir := filepath.Dir(path)
	for _, link := range familyCatalog.Links {
		if link.Rel != "child" {
			continue
		}
		collectionPath := filepath.Join(familyDir, filepath.FromSlash(link.Href))
		if err := loadCollection(family, collectionPath); err != nil {
			return err
		}
	}
	return nil
}

func loadCollection(family *familyNode, path string) error {
	var serialized Collection
	if err := readJSON(path, &serialized); err != nil {
		return err
	}

	collection := &collectionNode{
		id:          serialized.Id,
		title:       serialized.Title,
		description: serialized.Description,
		license:     serialized.License,
		providers:   serialized.Providers,
		items:       make(map[string]*Item),
	}
	family.collections[collection.id] = collection
	family.order = append(family.order, collection.id)

	collectionDir := filepath.Dir(path)
	for _, link := range serialized.Links {
		if link.Rel != "item" {
			continue
		}
		var item Item
		itemPath := filepath.Join(collectionDir, filepath.FromSlash(link.Href))
		if err := readJSON(itemPath, &item); err != nil {
			return err
		}
		item.Links = nil // links are regenerated at write time
		collection.items[item.Id] = &item
		collection.order = append(collection.order, item.Id)
	}
	return nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Message: err.Error()}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &LoadError{Path: path, Message: err.Error()}
	}
	return nil
}
