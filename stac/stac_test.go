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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/csw"
)

func TestSlugify(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("north_sea_temperature", Slugify("North Sea  Temperature"))
	assert.Equal("seabed_habitats", Slugify("Seabed-Habitats"))
	assert.Equal("sst_v2.1", Slugify("SST (v2.1)"))
	assert.Equal("", Slugify("???"))
}

func TestClampBBox(t *testing.T) {
	assert := assert.New(t)
	world := []float64{-180, -90, 180, 90}

	assert.Equal([]float64{-4.5, 50, 9, 62}, ClampBBox([]float64{-4.5, 50, 9, 62}))
	assert.Equal([]float64{-180, -90, 180, 90}, ClampBBox([]float64{-200, -95, 185, 92}))
	assert.Equal(world, ClampBBox(nil))
	assert.Equal(world, ClampBBox([]float64{1, 2, 3}))
}

func TestNormalizeDatetime(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]string{
		"2019":                 "2019-01-01T00:00:00Z",
		"2019-06":              "2019-06-01T00:00:00Z",
		"2019-06-15":           "2019-06-15T00:00:00Z",
		"2019-06-15T12:30":     "2019-06-15T12:30:00Z",
		"2019-06-15T12:30:45":  "2019-06-15T12:30:45Z",
		"2019-06-15T12:30:45Z": "2019-06-15T12:30:45Z",
	}
	for input, expected := range cases {
		normalized, ok := NormalizeDatetime(input)
		assert.True(ok, input)
		assert.Equal(expected, normalized)
	}

	_, ok := NormalizeDatetime("not a date")
	assert.False(ok)
	_, ok = NormalizeDatetime("")
	assert.False(ok)
}

func TestTemporalInterval(t *testing.T) {
	assert := assert.New(t)

	// declared extents win
	start, end := TemporalInterval("2001-03-15", "2019-12-31", nil)
	assert.Equal("2001-03-15T00:00:00Z", start)
	assert.Equal("2019-12-31T00:00:00Z", end)

	// date fields fill an undeclared extent
	start, end = TemporalInterval("", "", []string{"2010-05", "2008", "2012-01-01"})
	assert.Equal("2008-01-01T00:00:00Z", start)
	assert.Equal("2012-01-01T00:00:00Z", end)

	// nothing usable: catalog-wide defaults
	start, end = TemporalInterval("", "", []string{"unknown"})
	assert.Equal("1970-01-01T00:00:00Z", start)
	assert.Equal("2100-01-01T00:00:00Z", end)

	// a single instant widens to the default end
	start, end = TemporalInterval("", "", []string{"2015-07-01"})
	assert.Equal("2015-07-01T00:00:00Z", start)
	assert.Equal("2100-01-01T00:00:00Z", end)
}

func TestLookups(t *testing.T) {
	assert := assert.New(t)

	rec := csw.Record{
		Title:    "Macrobenthos monitoring",
		Subjects: []string{"benthos"},
	}
	cls := assets.Classification{Assets: []assets.Asset{
		{URL: "https://ipt.vliz.be/eurobis/archive.do?r=some-dataset"},
	}}
	assert.Equal("Biodiversity", LookupFamily(rec, cls))
	assert.Equal("Biology", LookupCollection(rec, cls))

	rec = csw.Record{Title: "North Sea bathymetry DTM"}
	assert.Equal("Elevation", LookupFamily(rec, assets.Classification{}))
	assert.Equal("Bathymetry", LookupCollection(rec, assets.Classification{}))

	rec = csw.Record{Title: "something unclassifiable"}
	assert.Equal("EMODnet", LookupFamily(rec, assets.Classification{}))
	assert.Equal("EMODnet", LookupCollection(rec, assets.Classification{}))
}

func TestDeriveProviders(t *testing.T) {
	assert := assert.New(t)

	rec := csw.Record{Providers: []csw.Provider{{Name: "VLIZ", Role: "distributor"}}}
	providers := DeriveProviders(rec, "EMODnet")
	assert.Equal(1, len(providers))
	assert.Equal("VLIZ", providers[0].Name)
	assert.Equal([]string{"host"}, providers[0].Roles)

	rec = csw.Record{Creator: "Ifremer"}
	providers = DeriveProviders(rec, "EMODnet")
	assert.Equal("Ifremer", providers[0].Name)

	providers = DeriveProviders(csw.Record{}, "EMODnet")
	assert.Equal("EMODnet", providers[0].Name)
}

func testRecord() csw.Record {
	return csw.Record{
		Identifier:    "record-1",
		Title:         "North Sea Temperature",
		Abstract:      "Gridded temperature fields.",
		BBox:          []float64{-4.5, 50, 9, 62},
		CRS:           "EPSG:4326",
		Subjects:      []string{"temperature"},
		TemporalStart: "2001-03-15",
		TemporalEnd:   "2019-12-31",
	}
}

func testClassification() assets.Classification {
	dataAsset := assets.Asset{
		URL:       "https://data.test/products/sst.nc",
		Kind:      "netcdf",
		Title:     "NetCDF",
		MediaType: "application/vnd+netcdf",
		Roles:     []assets.Role{assets.RoleData},
		Live:      true,
	}
	return assets.Classification{
		Assets:     []assets.Asset{dataAsset},
		DataAssets: []assets.Asset{dataAsset},
	}
}

func TestBuildItem(t *testing.T) {
	assert := assert.New(t)

	item, err := BuildItem(testRecord(), testClassification(), "EMODnet")
	assert.Nil(err)
	assert.Equal("north_sea_temperature", item.Id)
	assert.Equal([]float64{-4.5, 50, 9, 62}, item.BBox)
	assert.Equal("Polygon", item.Geometry.Type)
	assert.Equal(5, len(item.Geometry.Coordinates[0]))
	assert.Equal("2001-03-15T00:00:00Z", item.Properties.StartDatetime)
	assert.Equal("2019-12-31T00:00:00Z", item.Properties.EndDatetime)
	assert.Nil(item.Properties.Datetime)
	assert.Equal(4326, item.Properties.ProjEPSG)
	assert.Equal("CC-BY-4.0", item.Properties.License)
	assert.Equal("record-1", item.Properties.SourceRecord)
	assert.Contains(item.Assets, "netcdf")
	assert.Equal([]string{projectionExtension}, item.StacExtensions)
}

func TestBuildItemRequiresTitle(t *testing.T) {
	assert := assert.New(t)

	rec := testRecord()
	rec.Title = ""
	_, err := BuildItem(rec, testClassification(), "EMODnet")
	assert.IsType(&NoTitleError{}, err)
}

func TestBuildItemRequiresAssets(t *testing.T) {
	assert := assert.New(t)

	_, err := BuildItem(testRecord(), assets.Classification{}, "EMODnet")
	assert.IsType(&NoAssetsError{}, err)
}

func TestEnsureNeverDuplicates(t *testing.T) {
	assert := assert.New(t)
	tree := NewTree("test_catalog", "Test", "A test catalog")

	familyId := tree.EnsureFamily("Temperature")
	assert.Equal("temperature", familyId)
	assert.Equal(familyId, tree.EnsureFamily("Temperature"))
	assert.Equal(1, len(tree.Families()))

	collectionId, err := tree.EnsureCollection(familyId, "Physics", nil, "")
	assert.Nil(err)
	assert.Equal("emodnet-physics", collectionId)
	again, err := tree.EnsureCollection(familyId, "Physics", nil, "")
	assert.Nil(err)
	assert.Equal(collectionId, again)
	assert.Equal(1, len(tree.Collections(familyId)))

	_, err = tree.EnsureCollection("no_such_family", "Physics", nil, "")
	assert.IsType(&NotInTreeError{}, err)
}

func TestUpsertReplacesBySourceRecord(t *testing.T) {
	assert := assert.New(t)
	tree := NewTree("test_catalog", "Test", "A test catalog")
	familyId := tree.EnsureFamily("Temperature")
	collectionId, _ := tree.EnsureCollection(familyId, "Physics", nil, "")

	item, err := BuildItem(testRecord(), testClassification(), "EMODnet")
	assert.Nil(err)
	replaced, err := tree.UpsertItem(familyId, collectionId, item)
	assert.Nil(err)
	assert.False(replaced)
	assert.Equal(1, tree.ItemCount())

	// the same source record under a new title replaces the item
	rec := testRecord()
	rec.Title = "North Sea Temperature (updated)"
	updated, err := BuildItem(rec, testClassification(), "EMODnet")
	assert.Nil(err)
	replaced, err = tree.UpsertItem(familyId, collectionId, updated)
	assert.Nil(err)
	assert.True(replaced)
	assert.Equal(1, tree.ItemCount())

	found, ok := tree.FindBySourceRecord("record-1")
	assert.True(ok)
	assert.Equal("north_sea_temperature_updated", found.Id)
}

func TestUpsertKeepsTitleCollisions(t *testing.T) {
	assert := assert.New(t)
	tree := NewTree("test_catalog", "Test", "A test catalog")
	familyId := tree.EnsureFamily("Temperature")
	collectionId, _ := tree.EnsureCollection(familyId, "Physics", nil, "")

	// two distinct records whose titles slugify to the same ID
	first, err := BuildItem(testRecord(), testClassification(), "EMODnet")
	assert.Nil(err)
	rec := testRecord()
	rec.Identifier = "record-2"
	second, err := BuildItem(rec, testClassification(), "EMODnet")
	assert.Nil(err)
	assert.Equal(first.Id, second.Id)

	_, err = tree.UpsertItem(familyId, collectionId, first)
	assert.Nil(err)
	_, err = tree.UpsertItem(familyId, collectionId, second)
	assert.Nil(err)

	// both items survive, with distinct IDs
	assert.Equal(2, tree.ItemCount())
	kept, ok := tree.FindBySourceRecord("record-1")
	assert.True(ok)
	assert.Equal("north_sea_temperature", kept.Id)
	added, ok := tree.FindBySourceRecord("record-2")
	assert.True(ok)
	assert.Equal("north_sea_temperature_record_2", added.Id)

	// reprocessing the second record still replaces rather than duplicates
	replaced, err := tree.UpsertItem(familyId, collectionId, second)
	assert.Nil(err)
	assert.True(replaced)
	assert.Equal(2, tree.ItemCount())
}

func TestWriteAndReload(t *testing.T) {
	assert := assert.New(t)
	dir, err := os.MkdirTemp(os.TempDir(), "stac-tests-")
	assert.Nil(err)
	defer os.RemoveAll(dir)

	tree := NewTree("test_catalog", "Test", "A test catalog")
	familyId := tree.EnsureFamily("Temperature")
	collectionId, _ := tree.EnsureCollection(familyId, "Physics",
		[]Provider{{Name: "VLIZ", Roles: []string{"host"}}}, "")
	item, _ := BuildItem(testRecord(), testClassification(), "EMODnet")
	_, err = tree.UpsertItem(familyId, collectionId, item)
	assert.Nil(err)
	assert.Nil(tree.Write(dir))

	// the self-contained layout
	for _, path := range []string{
		"catalog.json",
		"temperature/catalog.json",
		"temperature/emodnet-physics/collection.json",
		"temperature/emodnet-physics/north_sea_temperature/north_sea_temperature.json",
	} {
		_, err := os.Stat(filepath.Join(dir, path))
		assert.Nil(err, path)
	}

	// reloading yields the same tree, and re-runs mutate it
	reloaded, err := Open(dir, "test_catalog", "Test", "A test catalog")
	assert.Nil(err)
	assert.Equal(1, reloaded.ItemCount())
	assert.Equal([]string{"temperature"}, reloaded.Families())
	assert.Equal([]string{"emodnet-physics"}, reloaded.Collections("temperature"))

	found, ok := reloaded.FindBySourceRecord("record-1")
	assert.True(ok)
	assert.Equal("north_sea_temperature", found.Id)

	rec := testRecord()
	rec.Title = "North Sea Temperature (updated)"
	updated, _ := BuildItem(rec, testClassification(), "EMODnet")
	replaced, err := reloaded.UpsertItem("temperature", "emodnet-physics", updated)
	assert.Nil(err)
	assert.True(replaced)
	assert.Equal(1, reloaded.ItemCount())

	// an empty directory opens as an empty tree
	empty, err := Open(filepath.Join(dir, "nowhere"), "test_catalog", "Test", "empty")
	assert.Nil(err)
	assert.Equal(0, empty.ItemCount())
}

func TestWritePrunesReplacedItems(t *testing.T) {
	assert := assert.New(t)
	dir, err := os.MkdirTemp(os.TempDir(), "stac-tests-")
	assert.Nil(err)
	defer os.RemoveAll(dir)

	tree := NewTree("test_catalog", "Test", "A test catalog")
	familyId := tree.EnsureFamily("Temperature")
	collectionId, _ := tree.EnsureCollection(familyId, "Physics", nil, "")
	item, _ := BuildItem(testRecord(), testClassification(), "EMODnet")
	_, err = tree.UpsertItem(familyId, collectionId, item)
	assert.Nil(err)
	assert.Nil(tree.Write(dir))

	// retitling the record replaces its item; rewriting must drop the old
	// item's directory so the on-disk layout matches the tree
	rec := testRecord()
	rec.Title = "North Sea Temperature (updated)"
	updated, _ := BuildItem(rec, testClassification(), "EMODnet")
	replaced, err := tree.UpsertItem(familyId, collectionId, updated)
	assert.Nil(err)
	assert.True(replaced)
	assert.Nil(tree.Write(dir))

	_, err = os.Stat(filepath.Join(dir,
		"temperature/emodnet-physics/north_sea_temperature"))
	assert.True(os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir,
		"temperature/emodnet-physics/north_sea_temperature_updated/north_sea_temperature_updated.json"))
	assert.Nil(err)
}
