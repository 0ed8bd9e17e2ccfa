package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/medbill")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDev() {
		t.Errorf("expected development default, got %s", cfg.Env)
	}
	if cfg.StorageBucket != "document" {
		t.Errorf("expected default bucket, got %s", cfg.StorageBucket)
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/medbill")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CORSOrigins[1] != "http://b.example" {
		t.Errorf("unexpected origin: %s", cfg.CORSOrigins[1])
	}
}

func TestValidate_RequiresAPIKey(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when ANTHROPIC_API_KEY is missing")
	}
}

func TestValidate_StorageCredentials(t *testing.T) {
	cfg := &Config{
		AnthropicAPIKey: "sk-test",
		StorageEndpoint: "minio.local:9000",
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for incomplete storage credentials")
	}

	cfg.StorageAccessKey = "ak"
	cfg.StorageSecretKey = "sk"
	cfg.StorageBucket = "document"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
