// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// Config is the top-level Profilium configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Generate  GenerateConfig  `mapstructure:"generate"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
}

// ServerConfig controls how the HTTP API listens for connections.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// StorageConfig locates the profile database and the vector index snapshot.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	IndexPath    string `mapstructure:"index_path"`
}

// EmbeddingConfig holds the embedding provider credentials and model.
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	BatchSize  int    `mapstructure:"batch_size"`
}

// GenerateConfig holds the generation provider credentials and model.
type GenerateConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RetrievalConfig tunes the per-query retrieval pipeline.
type RetrievalConfig struct {
	TopK       int      `mapstructure:"top_k"`
	ScopeTerms []string `mapstructure:"scope_terms"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix PROFILIUM_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.listen", "127.0.0.1:8600")
	v.SetDefault("storage.database_path", "profilium.db")
	v.SetDefault("storage.index_path", "profilium.idx")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("embedding.batch_size", 64)
	v.SetDefault("generate.model", "gemini-2.5-flash")
	v.SetDefault("retrieval.top_k", 3)

	// Environment
	v.SetEnvPrefix("PROFILIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, perr.Errorf(perr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, perr.Errorf(perr.CodeConfigLoadReadFailure, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, perr.Errorf(perr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns all
// validation errors found, not just the first.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateRetrieval()...)
	errs = append(errs, c.validateProviders()...)

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: server.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err,
		))
		return errs
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q", portStr))
	} else if port < 1 || port > 65535 {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 1 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	if c.Storage.DatabasePath == "" {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: storage.database_path must not be empty"))
	}
	if c.Storage.IndexPath == "" {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: storage.index_path must not be empty"))
	}

	return errs
}

func (c *Config) validateRetrieval() []error {
	var errs []error

	if c.Retrieval.TopK < 1 {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: retrieval.top_k must be at least 1, got %d", c.Retrieval.TopK))
	}
	for i, term := range c.Retrieval.ScopeTerms {
		if strings.TrimSpace(term) == "" {
			errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
				"config: retrieval.scope_terms[%d] must not be blank", i))
		}
	}

	return errs
}

func (c *Config) validateProviders() []error {
	var errs []error

	if c.Embedding.Dimensions < 1 {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: embedding.dimensions must be at least 1, got %d", c.Embedding.Dimensions))
	}
	if c.Embedding.BatchSize < 1 {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: embedding.batch_size must be at least 1, got %d", c.Embedding.BatchSize))
	}
	if c.Embedding.Model == "" {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: embedding.model must not be empty"))
	}
	if c.Generate.Model == "" {
		errs = append(errs, perr.Errorf(perr.CodeConfigValidateInvalidValue,
			"config: generate.model must not be empty"))
	}

	return errs
}
