package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// global config variables
var Pipeline pipelineConfig
var Storage storageConfig
var Resto restoConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Pipeline pipelineConfig `yaml:"pipeline"`
	Storage  storageConfig  `yaml:"storage"`
	Resto    restoConfig    `yaml:"resto"`
}

// This helper reads configuration data, returning an error indicating success
// or failure. All environment variables of the form ${ENV_VAR} are expanded.
func readConfig(bytes []byte) error {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Pipeline.ProbeTimeout = 10
	conf.Pipeline.Workers = 4
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		return err
	}

	// copy the config data into place
	Pipeline = conf.Pipeline
	Storage = conf.Storage
	Resto = conf.Resto

	return nil
}

// This helper validates the pipeline parameters, returning an error
// indicating success or failure.
func validatePipelineParameters(params pipelineConfig) error {
	if params.CSWCatalogURL == "" {
		return fmt.Errorf("No CSW catalog URL was provided!")
	}
	if _, err := url.ParseRequestURI(params.CSWCatalogURL); err != nil {
		return fmt.Errorf("Invalid CSW catalog URL: %s", params.CSWCatalogURL)
	}
	if params.NativeXMLURL != "" && !strings.Contains(params.NativeXMLURL, "%s") {
		return fmt.Errorf("The native XML URL must contain a %%s record ID placeholder")
	}
	if params.StacId == "" {
		return fmt.Errorf("No STAC catalog ID was provided!")
	}
	if params.CatalogDirectory == "" {
		return fmt.Errorf("No catalog directory was provided!")
	}
	if params.DataDirectory == "" {
		return fmt.Errorf("No data directory was provided!")
	}
	if params.ProbeTimeout <= 0 {
		return fmt.Errorf("Invalid probe timeout: %d (must be positive)",
			params.ProbeTimeout)
	}
	if params.Workers <= 0 {
		return fmt.Errorf("Invalid worker count: %d (must be positive)",
			params.Workers)
	}
	return nil
}

// This helper validates the configuration, returning an error that indicates
// success or failure.
func validateConfig() error {
	err := validatePipelineParameters(Pipeline)
	if err != nil {
		return err
	}

	// the storage and resto sections are optional, but must be complete
	// when present
	if Storage.Endpoint != "" && Storage.Bucket == "" {
		return fmt.Errorf("A storage endpoint was given without a bucket!")
	}
	if Resto.Instance != "" && Resto.AuthURL == "" {
		return fmt.Errorf("A resto instance was given without an auth URL!")
	}
	return nil
}

// Initializes the pipeline configuration using the given YAML byte data.
func Init(yamlData []byte) error {
	err := readConfig(yamlData)
	if err != nil {
		return err
	}
	return validateConfig()
}
