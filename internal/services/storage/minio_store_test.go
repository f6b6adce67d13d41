package storage

import "testing"

func TestObjectKey(t *testing.T) {
	got := ObjectKey("a-42", "unit 3 review.pdf")
	want := "documents/a-42/unit 3 review.pdf"
	if got != want {
		t.Fatalf("ObjectKey() = %q, want %q", got, want)
	}
}

func TestPublicURLFromEndpoint(t *testing.T) {
	m := &MinioStore{config: &Config{Endpoint: "minio.local:9000", Bucket: "documents"}}
	got := m.PublicURL("documents/a-1/notes.pdf")
	want := "http://minio.local:9000/documents/documents/a-1/notes.pdf"
	if got != want {
		t.Fatalf("PublicURL() = %q, want %q", got, want)
	}
}

func TestPublicURLUsesSSLScheme(t *testing.T) {
	m := &MinioStore{config: &Config{Endpoint: "minio.local:9000", Bucket: "documents", UseSSL: true}}
	got := m.PublicURL("documents/a-1/notes.pdf")
	if got != "https://minio.local:9000/documents/documents/a-1/notes.pdf" {
		t.Fatalf("PublicURL() = %q, want https scheme", got)
	}
}

func TestPublicURLPrefersConfiguredBase(t *testing.T) {
	m := &MinioStore{config: &Config{
		Endpoint:      "minio.local:9000",
		Bucket:        "documents",
		PublicBaseURL: "https://files.example.edu/",
	}}
	got := m.PublicURL("documents/a-1/notes.pdf")
	want := "https://files.example.edu/documents/documents/a-1/notes.pdf"
	if got != want {
		t.Fatalf("PublicURL() = %q, want %q", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AccessKey = "minio"
	cfg.SecretKey = "miniosecret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	missing := &Config{Endpoint: "localhost:9000", Bucket: "documents"}
	if err := missing.Validate(); err == nil {
		t.Fatal("Validate() accepted missing credentials")
	}
}
