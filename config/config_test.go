package config

// These tests verify that we can properly configure the pipeline with
// YAML input.
import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// a valid pipeline config entry
const VALID_PIPELINE string = `
pipeline:
  csw_catalog_url: https://www.emodnet.eu/geonetwork/srv/eng/csw
  csw_catalog_title: emodnetgeonetwork
  native_xml_url: https://emodnet.ec.europa.eu/geonetwork/srv/api/records/%s/formatters/xml
  stac_id: emodnet_geonetwork
  stac_title: EMODnet Geonetwork
  catalog_directory: data/stac
  data_directory: data
`

// a valid storage config entry
const VALID_STORAGE string = `
storage:
  endpoint: s3.waw3-1.cloudferro.com
  bucket: emodnet
  prefix: geonetwork_stac
  use_ssl: true
  access_key: ${C2S_ACCESS_KEY}
  secret_key: ${C2S_SECRET_KEY}
`

// a valid resto config entry
const VALID_RESTO string = `
resto:
  instance: https://catalog.dive.edito.eu
  auth_url: https://auth.lab.dive.edito.eu/auth/realms/datalab/protocol/openid-connect/token
  username: ${RESTO_USERNAME}
  password: ${RESTO_PASSWORD}
`

// tests whether config.Init reports an error for blank input
func TestInitRejectsBlankInput(t *testing.T) {
	b := []byte("")
	err := Init(b)
	assert.NotNil(t, err, "Blank config didn't trigger an error.")
}

// tests whether config.Init reports an error for a missing CSW URL
func TestInitRejectsMissingCSWURL(t *testing.T) {
	yaml := "pipeline:\n  stac_id: some_catalog\n  catalog_directory: stac\n  data_directory: data\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with no CSW URL didn't trigger an error.")
}

// tests whether config.Init reports an error for a native XML URL with no
// record ID placeholder
func TestInitRejectsBadNativeXMLURL(t *testing.T) {
	yaml := `
pipeline:
  csw_catalog_url: https://www.emodnet.eu/geonetwork/srv/eng/csw
  native_xml_url: https://emodnet.ec.europa.eu/geonetwork/srv/api/records/xml
  stac_id: emodnet_geonetwork
  catalog_directory: data/stac
  data_directory: data
`
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Native XML URL without %s didn't trigger an error.")
}

// tests whether config.Init reports an error for a bad probe timeout
func TestInitRejectsBadProbeTimeout(t *testing.T) {
	yaml := VALID_PIPELINE + "  probe_timeout: -1\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad probe timeout didn't trigger an error.")
}

// tests whether config.Init reports an error for a bad worker count
func TestInitRejectsBadWorkerCount(t *testing.T) {
	yaml := VALID_PIPELINE + "  workers: 0\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Config with bad worker count didn't trigger an error.")
}

// tests whether config.Init rejects a storage section with no bucket
func TestInitRejectsStorageWithoutBucket(t *testing.T) {
	yaml := VALID_PIPELINE + "storage:\n  endpoint: s3.waw3-1.cloudferro.com\n"
	err := Init([]byte(yaml))
	assert.NotNil(t, err, "Storage config without bucket didn't trigger an error.")
}

// Tests whether config.Init returns no error for a configuration that is
// (ostensibly) valid.
func TestInitAcceptsValidInput(t *testing.T) {
	yaml := VALID_PIPELINE + VALID_STORAGE + VALID_RESTO
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
}

// Tests whether config.Init properly initializes its globals for valid input.
func TestInitProperlySetsGlobals(t *testing.T) {
	yaml := VALID_PIPELINE + VALID_STORAGE + VALID_RESTO
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))

	// Check data
	assert.Equal(t, "emodnetgeonetwork", Pipeline.CSWCatalogTitle)
	assert.Equal(t, "emodnet_geonetwork", Pipeline.StacId)
	assert.Equal(t, 10, Pipeline.ProbeTimeout)
	assert.Equal(t, 4, Pipeline.Workers)
	assert.Equal(t, "emodnet", Storage.Bucket)
	assert.Equal(t, "https://catalog.dive.edito.eu", Resto.Instance)
}

// Tests whether environment variables in the config are expanded.
func TestInitExpandsEnvironmentVariables(t *testing.T) {
	os.Setenv("C2S_ACCESS_KEY", "ACCESS")
	os.Setenv("C2S_SECRET_KEY", "SECRET")
	defer os.Unsetenv("C2S_ACCESS_KEY")
	defer os.Unsetenv("C2S_SECRET_KEY")

	yaml := VALID_PIPELINE + VALID_STORAGE
	err := Init([]byte(yaml))
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
	assert.Equal(t, "ACCESS", Storage.AccessKey)
	assert.Equal(t, "SECRET", Storage.SecretKey)
}
