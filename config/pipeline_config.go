package config

// The pipeline section describes the CSW source, the identity of the STAC
// catalog built from it, and the knobs controlling record processing.
type pipelineConfig struct {
	// the base URL of the CSW endpoint records are harvested from
	CSWCatalogURL string `yaml:"csw_catalog_url"`
	// a short name for the CSW source, used in journal and state file names
	CSWCatalogTitle string `yaml:"csw_catalog_title"`
	// a printf-style URL for a record's native XML representation, with a %s
	// placeholder for the record ID (optional -- supplementation is skipped
	// when absent)
	NativeXMLURL string `yaml:"native_xml_url"`
	// the ID of the root STAC catalog
	StacId string `yaml:"stac_id"`
	// the title of the root STAC catalog
	StacTitle string `yaml:"stac_title"`
	// a description for the root STAC catalog
	StacDescription string `yaml:"stac_description"`
	// the directory the STAC catalog tree is written to
	CatalogDirectory string `yaml:"catalog_directory"`
	// the directory holding pipeline state (the record journal)
	DataDirectory string `yaml:"data_directory"`
	// an optional allow-list of record IDs to process (empty: all records)
	Records []string `yaml:"records,omitempty"`
	// if true, records already present in the journal are reprocessed
	ForceReprocess bool `yaml:"force_reprocess,omitempty"`
	// the per-link liveness probe timeout in seconds (default: 10)
	ProbeTimeout int `yaml:"probe_timeout,omitempty"`
	// the number of records enriched concurrently (default: 4)
	Workers int `yaml:"workers,omitempty"`
}
