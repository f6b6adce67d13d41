// File: internal/services/ingest/validator.go
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Logger interface for ingest operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// allowedMimes maps a detected content type to the extensions it may
// legitimately carry. Markdown has no magic bytes: it detects as plain
// text, or as HTML when the file opens with markup, so .md accepts all
// three. Everything else must match exactly.
var allowedMimes = map[string][]string{
	"application/pdf": {".pdf"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
	"application/msword": {".doc"},
	"text/plain":         {".txt", ".md"},
	"text/markdown":      {".md"},
	"text/html":          {".md"},
}

// FileInfo describes a validated upload. ContentType is the detected
// type, never the extension's claim.
type FileInfo struct {
	Extension   string
	ContentType string
	Size        int64
}

// Validator gates every document upload. All checks run before any
// remote call is made, so a rejected file has zero side effects.
type Validator struct {
	config *Config
	logger Logger
}

func NewValidator(config *Config, logger Logger) (*Validator, error) {
	if config == nil {
		return nil, NewConfigError("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}
	return &Validator{config: config, logger: logger}, nil
}

// Validate checks, in order: size ceiling, extension allow-set, detected
// content type, extension/type match, and that parseable formats yield
// extractable text. The first violated rule decides the error.
func (v *Validator) Validate(filename string, data []byte) (*FileInfo, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, NewValidationError("validate", "filename is required")
	}
	if len(data) == 0 {
		return nil, v.reject(filename, "file is empty")
	}

	if int64(len(data)) > v.config.MaxFileSize {
		return nil, v.reject(filename, fmt.Sprintf("file size exceeds maximum limit of %dMB",
			v.config.MaxFileSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !v.extensionAllowed(ext) {
		return nil, v.reject(filename, fmt.Sprintf("file type %s not allowed. Allowed types: %s",
			ext, strings.Join(v.config.AllowedExtensions, ", ")))
	}

	mtype := mimetype.Detect(data)
	matchedExts, ok := detectedExtensions(mtype)
	if !ok {
		return nil, v.reject(filename, fmt.Sprintf("invalid file type: %s", bareMime(mtype.String())))
	}
	if !containsString(matchedExts, ext) {
		return nil, v.reject(filename, "file extension does not match content type")
	}

	if probed(ext) {
		if _, err := ExtractText(ext, data); err != nil {
			v.logger.Warn("upload rejected by extraction probe", "filename", filename, "error", err)
			return nil, err
		}
	}

	return &FileInfo{
		Extension:   ext,
		ContentType: bareMime(mtype.String()),
		Size:        int64(len(data)),
	}, nil
}

func (v *Validator) reject(filename, reason string) *IngestError {
	v.logger.Warn("upload rejected", "filename", filename, "reason", reason)
	return NewValidationError("validate", reason)
}

func (v *Validator) extensionAllowed(ext string) bool {
	return containsString(v.config.AllowedExtensions, ext)
}

// detectedExtensions returns the extensions a detected type may carry.
// Matching goes through mimetype.Is so aliases and charset parameters
// are handled by the library, not by string comparison.
func detectedExtensions(mtype *mimetype.MIME) ([]string, bool) {
	for mime, exts := range allowedMimes {
		if mtype.Is(mime) {
			return exts, true
		}
	}
	return nil, false
}

// bareMime strips parameters such as "; charset=utf-8" for messages
// and stored content types.
func bareMime(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
