// File: internal/services/storage/config.go
package storage

import "fmt"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PublicBaseURL overrides the scheme+endpoint part of derived public
	// URLs, for deployments that front the bucket with a CDN or reverse
	// proxy. Empty means the endpoint itself serves the objects.
	PublicBaseURL string
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("storage endpoint is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("storage credentials are required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint: "localhost:9000",
		Bucket:   "documents",
		UseSSL:   false,
	}
}
