// File: internal/services/ingest/config.go
package ingest

import "fmt"

type Config struct {
	// MaxFileSize is the upload ceiling in bytes.
	MaxFileSize int64
	// AllowedExtensions is the lowercase allow-set, dot included.
	AllowedExtensions []string
}

func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("at least one allowed extension is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:       20 * 1024 * 1024,
		AllowedExtensions: []string{".pdf", ".docx", ".doc", ".txt", ".md"},
	}
}
