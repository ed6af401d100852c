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

package supplement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EDITO-Infra/csw-to-stac/c2stest"
	"github.com/EDITO-Infra/csw-to-stac/csw"
)

// a native ISO 19139 document with providers, constraints, and extents
const nativeDocument string = `<?xml version="1.0" encoding="UTF-8"?>
<gmd:MD_Metadata xmlns:gmd="http://www.isotc211.org/2005/gmd"
                 xmlns:gco="http://www.isotc211.org/2005/gco"
                 xmlns:gml="http://www.opengis.net/gml">
  <gmd:contact>
    <gmd:CI_ResponsibleParty>
      <gmd:organisationName>
        <gco:CharacterString>Flanders Marine Institute</gco:CharacterString>
      </gmd:organisationName>
      <gmd:role>
        <gmd:CI_RoleCode codeList="...#CI_RoleCode" codeListValue="pointOfContact"/>
      </gmd:role>
    </gmd:CI_ResponsibleParty>
  </gmd:contact>
  <gmd:identificationInfo>
    <gmd:resourceConstraints>
      <gmd:MD_LegalConstraints>
        <gmd:otherConstraints>
          <gco:CharacterString>CC-BY 4.0</gco:CharacterString>
        </gmd:otherConstraints>
      </gmd:MD_LegalConstraints>
    </gmd:resourceConstraints>
    <gmd:extent>
      <gmd:EX_Extent>
        <gmd:geographicElement>
          <gmd:EX_GeographicBoundingBox>
            <gmd:westBoundLongitude><gco:Decimal>-4.5</gco:Decimal></gmd:westBoundLongitude>
            <gmd:eastBoundLongitude><gco:Decimal>9.0</gco:Decimal></gmd:eastBoundLongitude>
            <gmd:southBoundLatitude><gco:Decimal>50.0</gco:Decimal></gmd:southBoundLatitude>
            <gmd:northBoundLatitude><gco:Decimal>62.0</gco:Decimal></gmd:northBoundLatitude>
          </gmd:EX_GeographicBoundingBox>
        </gmd:geographicElement>
        <gmd:temporalElement>
          <gmd:EX_TemporalExtent>
            <gmd:extent>
              <gml:TimePeriod>
                <gml:beginPosition>2001-03-15</gml:beginPosition>
                <gml:endPosition>2019-12-31</gml:endPosition>
              </gml:TimePeriod>
            </gmd:extent>
          </gmd:EX_TemporalExtent>
        </gmd:temporalElement>
      </gmd:EX_Extent>
    </gmd:extent>
  </gmd:identificationInfo>
</gmd:MD_Metadata>`

func testSource() *c2stest.RecordSource {
	return &c2stest.RecordSource{
		XML: map[string][]byte{
			"record-1": []byte(nativeDocument),
		},
	}
}

func TestDecodeISO19139(t *testing.T) {
	assert := assert.New(t)

	meta, err := decodeISO19139([]byte(nativeDocument))
	assert.Nil(err)
	assert.Equal([]csw.Provider{{Name: "Flanders Marine Institute", Role: "pointOfContact"}},
		meta.Providers)
	assert.Equal([]string{"CC-BY 4.0"}, meta.Rights)
	assert.Equal([]float64{-4.5, 50.0, 9.0, 62.0}, meta.BBox)
	assert.Equal("2001-03-15", meta.TemporalStart)
	assert.Equal("2019-12-31", meta.TemporalEnd)
}

// tests that recovered values fill only fields the CSW record left empty
func TestSupplementOverlay(t *testing.T) {
	assert := assert.New(t)

	rec := csw.Record{
		Identifier: "record-1",
		Title:      "North Sea temperature",
		Rights:     "all rights reserved", // the CSW value must win
	}
	rec, err := Supplement(context.Background(), testSource(), rec)
	assert.Nil(err)

	assert.Equal("all rights reserved", rec.Rights)
	assert.Equal([]float64{-4.5, 50.0, 9.0, 62.0}, rec.BBox)
	assert.Equal("2001-03-15", rec.TemporalStart)
	assert.Equal("2019-12-31", rec.TemporalEnd)
	assert.Equal(1, len(rec.Providers))
	assert.Equal("Flanders Marine Institute", rec.Providers[0].Name)
}

// tests that the native-XML and CSW record URLs are attached as metadata
// links, without duplicating declared ones
func TestSupplementAttachesMetadataLinks(t *testing.T) {
	assert := assert.New(t)
	src := testSource()

	rec := csw.Record{Identifier: "record-1"}
	rec, err := Supplement(context.Background(), src, rec)
	assert.Nil(err)
	assert.Equal(2, len(rec.Links))
	for _, link := range rec.Links {
		assert.Equal("metadata", link.Description)
	}

	// a second pass must not attach the links again
	rec, err = Supplement(context.Background(), src, rec)
	assert.Nil(err)
	assert.Equal(2, len(rec.Links))
}

// tests that a missing native document leaves the record unchanged with a
// recoverable error
func TestSupplementUnavailable(t *testing.T) {
	assert := assert.New(t)

	rec := csw.Record{Identifier: "record-2", Title: "unchanged"}
	supplemented, err := Supplement(context.Background(), testSource(), rec)
	assert.NotNil(err)
	assert.IsType(&UnavailableError{}, err)
	assert.Equal(rec, supplemented)
}

func TestSupplementMalformedXML(t *testing.T) {
	assert := assert.New(t)

	src := &c2stest.RecordSource{
		XML: map[string][]byte{
			"record-3": []byte("<gmd:MD_Metadata><unclosed>"),
		},
	}
	rec := csw.Record{Identifier: "record-3"}
	supplemented, err := Supplement(context.Background(), src, rec)
	assert.NotNil(err)
	assert.IsType(&UnavailableError{}, err)
	assert.Equal(rec, supplemented)
}
