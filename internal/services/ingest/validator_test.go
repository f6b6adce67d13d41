package ingest

import (
	"strings"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(DefaultConfig(), nopLogger{})
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}
	return v
}

func TestValidateRejectsDisallowedExtension(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.Validate("notes.exe", []byte("MZ\x90\x00"))
	if err == nil {
		t.Fatal("Validate() accepted notes.exe")
	}
	ie, ok := err.(*IngestError)
	if !ok || ie.Type != ErrTypeValidation {
		t.Fatalf("Validate() error = %v, want validation IngestError", err)
	}
	if !strings.Contains(ie.Message, "file type .exe not allowed") {
		t.Fatalf("Message = %q, want the file-type reason", ie.Message)
	}
	if !strings.Contains(ie.Message, ".pdf") {
		t.Fatalf("Message = %q, want the allowed list included", ie.Message)
	}
}

func TestValidateRejectsOversizeFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxFileSize = 16
	v, err := NewValidator(cfg, nopLogger{})
	if err != nil {
		t.Fatalf("NewValidator() error = %v", err)
	}

	_, err = v.Validate("notes.txt", []byte(strings.Repeat("a", 17)))
	if err == nil {
		t.Fatal("Validate() accepted an oversize file")
	}
	if !strings.Contains(err.(*IngestError).Message, "file size exceeds maximum limit") {
		t.Fatalf("Message = %q, want the size reason", err.(*IngestError).Message)
	}
}

func TestValidateRejectsEmptyFile(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.Validate("notes.txt", nil)
	if err == nil {
		t.Fatal("Validate() accepted an empty file")
	}
}

func TestValidateRejectsExtensionContentMismatch(t *testing.T) {
	v := newTestValidator(t)

	// Plain text wearing a .pdf extension.
	_, err := v.Validate("notes.pdf", []byte("just some plain text, no PDF header"))
	if err == nil {
		t.Fatal("Validate() accepted a spoofed extension")
	}
	if got := err.(*IngestError).Message; got != "file extension does not match content type" {
		t.Fatalf("Message = %q, want the mismatch reason", got)
	}
}

func TestValidateRejectsUndetectableType(t *testing.T) {
	v := newTestValidator(t)

	// PNG magic bytes behind an allowed extension.
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	_, err := v.Validate("notes.txt", png)
	if err == nil {
		t.Fatal("Validate() accepted a PNG")
	}
	if !strings.Contains(err.(*IngestError).Message, "invalid file type:") {
		t.Fatalf("Message = %q, want the invalid-type reason", err.(*IngestError).Message)
	}
}

func TestValidateAcceptsPlainText(t *testing.T) {
	v := newTestValidator(t)

	info, err := v.Validate("unit3.txt", []byte("Osmosis moves water across a membrane."))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if info.Extension != ".txt" {
		t.Fatalf("Extension = %q, want .txt", info.Extension)
	}
	if info.ContentType != "text/plain" {
		t.Fatalf("ContentType = %q, want text/plain", info.ContentType)
	}
	if info.Size != 38 {
		t.Fatalf("Size = %d, want 38", info.Size)
	}
}

func TestValidateAcceptsMarkdownDetectedAsPlainText(t *testing.T) {
	v := newTestValidator(t)

	if _, err := v.Validate("review.md", []byte("# Unit 3\n\nKey topics: osmosis, diffusion.")); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsEmptyProbedText(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.Validate("blank.txt", []byte("   \n\t  "))
	if err == nil {
		t.Fatal("Validate() accepted a file with no extractable text")
	}
	ie := err.(*IngestError)
	if ie.Type != ErrTypeExtraction {
		t.Fatalf("error type = %v, want %v", ie.Type, ErrTypeExtraction)
	}
}

func TestValidateAcceptsGeneratedDOCX(t *testing.T) {
	v := newTestValidator(t)

	data := buildDOCX(t, "Photosynthesis turns light into sugar.")
	info, err := v.Validate("bio.docx", data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if info.Extension != ".docx" {
		t.Fatalf("Extension = %q, want .docx", info.Extension)
	}
}

func TestValidateAcceptsGeneratedPDF(t *testing.T) {
	v := newTestValidator(t)

	data := buildPDF(t, "Hello Bio")
	info, err := v.Validate("bio.pdf", data)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if info.ContentType != "application/pdf" {
		t.Fatalf("ContentType = %q, want application/pdf", info.ContentType)
	}
}
