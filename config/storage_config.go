package config

// The storage section identifies the S3-compatible object store the finished
// catalog tree is synced to. Credentials are passed as ${ENV_VAR} references
// and expanded when the configuration is read.
type storageConfig struct {
	// the S3 endpoint host (e.g. "s3.waw3-1.cloudferro.com")
	Endpoint string `yaml:"endpoint"`
	// the region for the bucket (optional)
	Region string `yaml:"region,omitempty"`
	// the bucket the catalog tree is uploaded to
	Bucket string `yaml:"bucket"`
	// a key prefix prepended to every uploaded object (optional)
	Prefix string `yaml:"prefix,omitempty"`
	// whether to connect over TLS (default: true in practice; set explicitly)
	UseSSL bool `yaml:"use_ssl"`
	// access credentials
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}
