// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package store

import (
	"net/url"
	"strings"

	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// maxNameLen bounds profile names; FTS tokenization degrades on
// pathologically long single fields.
const maxNameLen = 256

// Profile is a stored biographical record. ID is assigned by the store,
// is immutable, monotonic, and never reused.
type Profile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Candidate is an unsaved profile record produced by ingestion,
// administrative edit, or bulk import. It is validated at every boundary
// before it touches the store.
type Candidate struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Validate checks that the candidate has all required fields set correctly.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return perr.New(perr.CodeStoreInvalidInput, "candidate: Name is required")
	}
	if len(c.Name) > maxNameLen {
		return perr.Errorf(perr.CodeStoreInvalidInput, "candidate: Name exceeds %d bytes", maxNameLen)
	}
	if strings.TrimSpace(c.Role) == "" {
		return perr.New(perr.CodeStoreInvalidInput, "candidate: Role is required",
			perr.FieldProfileName(c.Name))
	}
	if c.PhotoURL != "" {
		u, err := url.Parse(c.PhotoURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return perr.Errorf(perr.CodeStoreInvalidInput,
				"candidate: PhotoURL %q is not an absolute URL", c.PhotoURL)
		}
	}
	return nil
}

// Candidate returns the unsaved form of a stored profile, used by export.
func (p *Profile) Candidate() Candidate {
	return Candidate{
		Name:     p.Name,
		Role:     p.Role,
		Bio:      p.Bio,
		PhotoURL: p.PhotoURL,
	}
}

// IndexText concatenates the profile's textual fields into the single
// embedding input used by the indexing pipeline.
func (p *Profile) IndexText() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Name, p.Role, p.Bio} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
