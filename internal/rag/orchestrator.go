// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

// Package rag turns one natural-language query into a refusal, a
// no-results notice, a grounded answer, or a service-error notice. All
// four outcomes are ordinary data; the orchestrator never surfaces an
// internal error to its caller.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/vecindex"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// Status is the terminal state of one answered query.
type Status string

const (
	StatusRejected     Status = "rejected"
	StatusNoResults    Status = "no_results"
	StatusGenerated    Status = "generated"
	StatusServiceError Status = "service_error"
)

// Canned response texts for the non-generated terminal states.
const (
	RefusalMessage = "I'm sorry, I only have information about the leadership team. " +
		"I can't help with questions about other topics. Try asking something like 'Who is the CEO?'"
	NoResultsMessage = "I couldn't find any specific profiles related to your question, " +
		"but I can tell you about the leadership team in general."
	ServiceErrorMessage = "Sorry, I'm having trouble connecting to the AI service right now."
)

// DefaultScopeTerms is the allow-list the scope gate matches queries
// against, case-insensitive, as substrings.
var DefaultScopeTerms = []string{
	"who", "ceo", "team", "leadership", "director",
	"head", "manager", "executive", "founder", "president",
	"role", "background", "experience", "profile", "about",
}

// DefaultTopK is how many nearest profiles ground an answer.
const DefaultTopK = 3

// Answer is the terminal outcome of one query.
type Answer struct {
	Status  Status           `json:"status"`
	Text    string           `json:"text"`
	Sources []*store.Profile `json:"sources,omitempty"`
}

// Options tune an orchestrator; zero values take defaults.
type Options struct {
	ScopeTerms []string
	TopK       int
}

// Orchestrator wires the scope gate, the two retrieval stores, and the
// model providers into the per-query pipeline.
type Orchestrator struct {
	store      store.ProfileStore
	index      *vecindex.Index
	embedder   provider.Embedder
	generator  provider.Generator
	scopeTerms []string
	topK       int
}

// New creates an orchestrator. All four collaborators are required.
func New(st store.ProfileStore, ix *vecindex.Index, emb provider.Embedder, gen provider.Generator, opts Options) (*Orchestrator, error) {
	if st == nil || ix == nil || emb == nil || gen == nil {
		return nil, perr.New(perr.CodeServerInternalFailure,
			"orchestrator requires a store, index, embedder, and generator")
	}

	terms := opts.ScopeTerms
	if len(terms) == 0 {
		terms = DefaultScopeTerms
	}
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &Orchestrator{
		store:      st,
		index:      ix,
		embedder:   emb,
		generator:  gen,
		scopeTerms: lowered,
		topK:       topK,
	}, nil
}

// InScope reports whether the query matches the scope allow-list.
func (o *Orchestrator) InScope(query string) bool {
	q := strings.ToLower(query)
	for _, term := range o.scopeTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

// Ask answers one query. Scope-check precedes retrieval, retrieval
// precedes generation; an out-of-scope query never reaches the embedder.
func (o *Orchestrator) Ask(ctx context.Context, query string) Answer {
	if !o.InScope(query) {
		return Answer{Status: StatusRejected, Text: RefusalMessage}
	}

	profiles, err := o.retrieve(ctx, query)
	if err != nil {
		slog.ErrorContext(ctx, "retrieval failed", "error", err)
		return Answer{Status: StatusServiceError, Text: ServiceErrorMessage}
	}
	if len(profiles) == 0 {
		return Answer{Status: StatusNoResults, Text: NoResultsMessage}
	}

	prompt := BuildPrompt(query, profiles)
	text, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "generation failed",
			"provider", o.generator.Name(), "error", err)
		return Answer{Status: StatusServiceError, Text: ServiceErrorMessage, Sources: profiles}
	}

	return Answer{Status: StatusGenerated, Text: text, Sources: profiles}
}

// retrieve embeds the query, searches the vector index, and resolves the
// returned ids against the profile store. Stale ids with no live profile
// drop out silently.
func (o *Orchestrator) retrieve(ctx context.Context, query string) ([]*store.Profile, error) {
	vectors, err := o.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, perr.Errorf(perr.CodeProviderUpstreamFailure,
			"embedder returned %d vectors for one query", len(vectors))
	}

	matches, err := o.index.Search(ctx, vectors[0], o.topK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.ProfileID
	}
	return o.store.GetByIDs(ctx, ids)
}

// BuildContext concatenates each profile's name, role, and bio in fixed
// field order, one block per profile.
func BuildContext(profiles []*store.Profile) string {
	blocks := make([]string, len(profiles))
	for i, p := range profiles {
		blocks[i] = fmt.Sprintf("Name: %s\nRole: %s\nBio: %s", p.Name, p.Role, p.Bio)
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt embeds the grounding context with an instruction that
// restricts the answer to it.
func BuildPrompt(query string, profiles []*store.Profile) string {
	return fmt.Sprintf(`You are a helpful assistant. Your knowledge is strictly limited to the information provided below about the company's leadership team.
Do not answer any questions outside of this context. If the information is not in the context, say you don't have that specific detail.

Context:
---
%s
---

Question: %s

Answer:`, BuildContext(profiles), query)
}
