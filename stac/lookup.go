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
	"strings"

	"github.com/EDITO-Infra/csw-to-stac/assets"
	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// the family and collection a record lands in when no keyword matches
const defaultGroup = "EMODnet"

// keywords (matched case-insensitively against titles, subjects, asset URLs,
// and provider names) mapping records to variable families
var familyKeywords = []struct {
	keyword string
	family  string
}{
	{"litter", "Litter"},
	{"oxygen", "O2"},
	{"alkalinity", "pH"},
	{"acidity", "pH"},
	{"salinity", "Salinity"},
	{"contaminants", "Contaminants"},
	{"phosphate", "Nutrients"},
	{"nitrate", "Nutrients"},
	{"silicate", "Nutrients"},
	{"currents", "Currents"},
	{"temperature", "Temperature"},
	{"waves", "Waves"},
	{"elevation", "Elevation"},
	{"seabed-habitats", "Seabed habitats"},
	{"seabedhabitats", "Seabed habitats"},
	{"seabed habitats", "Seabed habitats"},
	{"bathymetry", "Elevation"},
	{"geology", "Marine geology"},
	{"chemistry", "Chemistry"},
	{"eurobis", "Biodiversity"},
	{"gbif", "Biodiversity"},
	{"obis", "Biodiversity"},
	{"ipt", "Biodiversity"},
	{"mda.vliz", "Biodiversity"},
	{"biology", "Biodiversity"},
	{"physics", "Physics"},
	{"humanactivities", "Human marine activities"},
	{"human activities", "Human marine activities"},
}

// keywords mapping records to collections within a family
var collectionKeywords = []struct {
	keyword    string
	collection string
}{
	{"seabed-habitats", "Seabed Habitats"},
	{"seabedhabitats", "Seabed Habitats"},
	{"seabed habitats", "Seabed Habitats"},
	{"bathymetry", "Bathymetry"},
	{"geology", "Geology"},
	{"chemistry", "Chemistry"},
	{"gbif", "Biology"},
	{"eurobis", "Biology"},
	{"obis", "Biology"},
	{"ipt", "Biology"},
	{"mda.vliz", "Biology"},
	{"biology", "Biology"},
	{"physics", "Physics"},
	{"humanactivities", "Human Activities"},
	{"human activities", "Human Activities"},
}

// LookupFamily determines the variable family a record belongs to by
// matching keywords against the record's thematic lot, title, subjects,
// asset URLs, and providers, in that order.
func LookupFamily(rec csw.Record, cls assets.Classification) string {
	for _, candidate := range lookupCandidates(rec, cls) {
		for _, entry := range familyKeywords {
			if strings.Contains(candidate, entry.keyword) {
				return entry.family
			}
		}
	}
	return defaultGroup
}

// LookupCollection determines the collection a record belongs to within its
// family, the same way LookupFamily does.
func LookupCollection(rec csw.Record, cls assets.Classification) string {
	for _, candidate := range lookupCandidates(rec, cls) {
		for _, entry := range collectionKeywords {
			if strings.Contains(candidate, entry.keyword) {
				return entry.collection
			}
		}
	}
	return defaultGroup
}

// collects the lowercased text fields keyword lookup runs over
func lookupCandidates(rec csw.Record, cls assets.Classification) []string {
	candidates := make([]string, 0, 8)
	appendCandidate := func(text string) {
		if text != "" {
			candidates = append(candidates, strings.ToLower(text))
		}
	}

	appendCandidate(rec.ThematicLot)
	appendCandidate(rec.Title)
	for _, subject := range rec.Subjects {
		appendCandidate(subject)
	}
	for _, asset := range cls.Assets {
		appendCandidate(asset.URL)
	}
	for _, provider := range rec.Providers {
		appendCandidate(provider.Name)
	}
	appendCandidate(rec.Creator)
	appendCandidate(rec.Publisher)
	return candidates
}

// DeriveProviders builds the provider list for a record from its recovered
// responsible parties, falling back to the Dublin Core creator/publisher,
// the thematic lot, and finally the source catalog title.
func DeriveProviders(rec csw.Record, catalogTitle string) []Provider {
	var providers []Provider
	for _, party := range rec.Providers {
		providers = append(providers, Provider{
			Name:  party.Name,
			Roles: []string{providerRole(party.Role)},
		})
	}
	if len(providers) > 0 {
		return providers
	}

	for _, name := range []string{rec.Creator, rec.Publisher, rec.ThematicLot, catalogTitle} {
		if name != "" {
			return []Provider{{Name: name, Roles: []string{"provider"}}}
		}
	}
	return nil
}

// maps an ISO 19139 responsible-party role onto the STAC provider role
// vocabulary (producer | licensor | processor | host)
func providerRole(role string) string {
	switch strings.ToLower(role) {
	case "originator", "author", "principalinvestigator":
		return "producer"
	case "owner":
		return "licensor"
	case "processor":
		return "processor"
	case "distributor", "publisher", "resourceprovider":
		return "host"
	default:
		return "producer"
	}
}
