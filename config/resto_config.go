package config

// The resto section identifies the catalog-serving API instance the published
// STAC is registered with.
type restoConfig struct {
	// the base URL of the resto instance (e.g. "https://catalog.dive.edito.eu")
	Instance string `yaml:"instance"`
	// the OpenID token endpoint used for the password grant
	AuthURL string `yaml:"auth_url"`
	// account credentials (passed as ${ENV_VAR} references)
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}
