package config

import "testing"

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_PATH", "test.db")
	t.Setenv("ASSISTANT_MODEL", "gpt-4o")
	t.Setenv("MAX_FILE_SIZE_MB", "5")
	t.Setenv("MAX_THREAD_MESSAGES", "50")
	t.Setenv("MAX_MESSAGE_LENGTH", "2000")
	t.Setenv("RUN_POLL_INTERVAL_MS", "250")
	t.Setenv("RUN_TIMEOUT_SECONDS", "30")
	t.Setenv("MINIO_BUCKET", "curriculum")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()
	if cfg.ServerPort != "9090" {
		t.Fatalf("ServerPort = %q, want %q", cfg.ServerPort, "9090")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("DatabasePath = %q, want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.AssistantModel != "gpt-4o" {
		t.Fatalf("AssistantModel = %q, want %q", cfg.AssistantModel, "gpt-4o")
	}
	if cfg.MaxFileSizeMB != 5 {
		t.Fatalf("MaxFileSizeMB = %d, want 5", cfg.MaxFileSizeMB)
	}
	if cfg.MaxThreadMessages != 50 {
		t.Fatalf("MaxThreadMessages = %d, want 50", cfg.MaxThreadMessages)
	}
	if cfg.MaxMessageLength != 2000 {
		t.Fatalf("MaxMessageLength = %d, want 2000", cfg.MaxMessageLength)
	}
	if cfg.RunPollIntervalMS != 250 {
		t.Fatalf("RunPollIntervalMS = %d, want 250", cfg.RunPollIntervalMS)
	}
	if cfg.RunTimeoutSeconds != 30 {
		t.Fatalf("RunTimeoutSeconds = %d, want 30", cfg.RunTimeoutSeconds)
	}
	if cfg.MinioBucket != "curriculum" {
		t.Fatalf("MinioBucket = %q, want %q", cfg.MinioBucket, "curriculum")
	}
	if !cfg.MinioUseSSL {
		t.Fatalf("MinioUseSSL = false, want true")
	}
}

func TestLoadFallsBackOnUnparsableInt(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("MAX_THREAD_MESSAGES", "not-a-number")

	cfg := Load()
	if cfg.MaxThreadMessages != 100 {
		t.Fatalf("MaxThreadMessages = %d, want default 100", cfg.MaxThreadMessages)
	}
}

func TestMaxFileSizeBytes(t *testing.T) {
	cfg := &Config{MaxFileSizeMB: 20}
	if got := cfg.MaxFileSizeBytes(); got != 20*1024*1024 {
		t.Fatalf("MaxFileSizeBytes() = %d, want %d", got, 20*1024*1024)
	}
}
