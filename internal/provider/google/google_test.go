// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package google_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider/google"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

func mustNewGenerator(t *testing.T) *google.Generator {
	t.Helper()
	g, err := google.New(google.Config{APIKey: "test-key"})
	require.NoError(t, err)
	return g
}

func TestGoogleGenerator_ImplementsInterface(t *testing.T) {
	var g provider.Generator = mustNewGenerator(t)
	assert.NotNil(t, g)
}

func TestGoogleGenerator_Name(t *testing.T) {
	assert.Equal(t, "google", mustNewGenerator(t).Name())
}

func TestGoogleGenerator_MissingAPIKey(t *testing.T) {
	_, err := google.New(google.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, perr.IsInvalidInput(err))
	assert.True(t, perr.HasCode(err, perr.CodeProviderRequestInvalid))
}

func TestGoogleGenerator_RejectsEmptyPrompt(t *testing.T) {
	g := mustNewGenerator(t)

	_, err := g.Generate(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, perr.IsInvalidInput(err))
}
