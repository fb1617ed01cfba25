// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8600", cfg.Server.Listen)
	assert.Equal(t, "profilium.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "profilium.idx", cfg.Storage.IndexPath)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, 64, cfg.Embedding.BatchSize)
	assert.Equal(t, "gemini-2.5-flash", cfg.Generate.Model)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PROFILIUM_SERVER_LISTEN", "0.0.0.0:9000")
	t.Setenv("PROFILIUM_EMBEDDING_API_KEY", "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, "env-key", cfg.Embedding.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  listen: "127.0.0.1:7777"
storage:
  database_path: "/var/lib/profilium/profiles.db"
  index_path: "/var/lib/profilium/profiles.idx"
retrieval:
  top_k: 5
  scope_terms: ["ceo", "team"]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7777", cfg.Server.Listen)
	assert.Equal(t, "/var/lib/profilium/profiles.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, []string{"ceo", "team"}, cfg.Retrieval.ScopeTerms)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Listen: "not-an-address"},
		Storage:   StorageConfig{},
		Embedding: EmbeddingConfig{},
		Generate:  GenerateConfig{},
		Retrieval: RetrievalConfig{TopK: 0, ScopeTerms: []string{" "}},
	}

	errs := cfg.Validate()
	assert.GreaterOrEqual(t, len(errs), 7)
}

func TestValidateListen(t *testing.T) {
	tests := []struct {
		name    string
		listen  string
		wantErr bool
	}{
		{"valid", "127.0.0.1:8600", false},
		{"empty host", ":8600", false},
		{"empty", "", true},
		{"no port", "127.0.0.1", true},
		{"bad port", "127.0.0.1:notaport", true},
		{"port out of range", "127.0.0.1:70000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			cfg.Server.Listen = tt.listen

			errs := cfg.Validate()
			if tt.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}
