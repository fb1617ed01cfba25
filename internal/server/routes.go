// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/indexer"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/rag"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/vecindex"
	"github.com/RevanthYalamanch/Project-3-SMR/pkg/health"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// Services holds the collaborators the REST routes delegate to.
type Services struct {
	Store        store.ProfileStore
	Index        *vecindex.Index
	Orchestrator *rag.Orchestrator
	Pipeline     *indexer.Pipeline
	Embedder     provider.Embedder
	Generator    provider.Generator
}

// RegisterServices sets the service dependencies and registers REST routes.
func (s *Server) RegisterServices(svc *Services) {
	s.services = svc
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	// Profile endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles",
		Summary:     "List all profiles sorted by name",
		Tags:        []string{"profiles"},
	}, s.handleListProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID:   "add-profile",
		Method:        http.MethodPost,
		Path:          "/api/v1/profiles",
		Summary:       "Add a profile",
		Tags:          []string{"profiles"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-profiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/search",
		Summary:     "Keyword search over profiles",
		Tags:        []string{"profiles"},
	}, s.handleSearchProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID: "export-profiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/export",
		Summary:     "Export all profiles as the bulk transfer format",
		Tags:        []string{"profiles"},
	}, s.handleExportProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID: "import-profiles",
		Method:      http.MethodPost,
		Path:        "/api/v1/profiles/import",
		Summary:     "Replace all profiles from the bulk transfer format",
		Tags:        []string{"profiles"},
	}, s.handleImportProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{id}",
		Summary:     "Get a profile by id",
		Tags:        []string{"profiles"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPut,
		Path:        "/api/v1/profiles/{id}",
		Summary:     "Update a profile",
		Tags:        []string{"profiles"},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-profile",
		Method:        http.MethodDelete,
		Path:          "/api/v1/profiles/{id}",
		Summary:       "Delete a profile",
		Tags:          []string{"profiles"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteProfile)

	// Question answering
	huma.Register(s.api, huma.Operation{
		OperationID: "ask",
		Method:      http.MethodPost,
		Path:        "/api/v1/ask",
		Summary:     "Answer a question grounded in profile data",
		Tags:        []string{"ask"},
	}, s.handleAsk)

	// Index management
	huma.Register(s.api, huma.Operation{
		OperationID: "reindex",
		Method:      http.MethodPost,
		Path:        "/api/v1/reindex",
		Summary:     "Rebuild the vector index from current profiles",
		Tags:        []string{"system"},
	}, s.handleReindex)

	// Status endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Service status",
		Tags:        []string{"system"},
	}, s.handleStatus)
}

// --- Request/Response types for huma ---

type listProfilesOutput struct {
	Body struct {
		Profiles []*store.Profile `json:"profiles"`
	}
}

type candidateBody struct {
	Name     string `json:"name" minLength:"1" doc:"Unique profile name"`
	Role     string `json:"role" minLength:"1" doc:"Role or title"`
	Bio      string `json:"bio,omitempty" doc:"Short biography"`
	PhotoURL string `json:"photo_url,omitempty" doc:"Absolute photo URL"`
}

func (b candidateBody) candidate() store.Candidate {
	return store.Candidate{Name: b.Name, Role: b.Role, Bio: b.Bio, PhotoURL: b.PhotoURL}
}

type addProfileInput struct {
	Body candidateBody
}
type addProfileOutput struct {
	Body struct {
		ID int64 `json:"id" doc:"Assigned profile id"`
	}
}

type profileIDInput struct {
	ID int64 `path:"id"`
}
type getProfileOutput struct {
	Body store.Profile
}

type updateProfileInput struct {
	ID   int64 `path:"id"`
	Body candidateBody
}

type searchProfilesInput struct {
	Term string `query:"term" doc:"Keyword search term"`
}

type exportProfilesOutput struct {
	Body struct {
		Profiles []store.Candidate `json:"profiles"`
	}
}

type importProfilesInput struct {
	Body struct {
		Profiles []candidateBody `json:"profiles" doc:"Replacement profile set"`
	}
}
type importProfilesOutput struct {
	Body struct {
		Imported int `json:"imported" doc:"Number of profiles imported"`
	}
}

type askInput struct {
	Body struct {
		Query string `json:"query" minLength:"1" doc:"Natural-language question"`
	}
}
type askOutput struct {
	Body rag.Answer
}

type reindexOutput struct {
	Body indexer.Stats
}

type statusOutput struct {
	Body StatusBody
}

// StatusBody reports store, index, and provider state.
type StatusBody struct {
	Status    string          `json:"status" example:"ok"`
	Profiles  int64           `json:"profiles"`
	Index     IndexStatus     `json:"index"`
	Providers ProviderHealths `json:"providers"`
}

// IndexStatus reports the live vector index snapshot.
type IndexStatus struct {
	Loaded     bool  `json:"loaded"`
	Entries    int64 `json:"entries"`
	Dimensions int   `json:"dimensions"`
}

// ProviderHealths reports per-provider availability.
type ProviderHealths struct {
	Embedder  *health.Metrics `json:"embedder,omitempty"`
	Generator *health.Metrics `json:"generator,omitempty"`
}

// --- Handlers ---

// mapError converts a coded error into the matching huma status error.
func mapError(err error, msg string) error {
	return huma.NewError(perr.HTTPStatus(err), fmt.Sprintf("%s: %s", msg, err.Error()))
}

func (s *Server) handleListProfiles(ctx context.Context, _ *struct{}) (*listProfilesOutput, error) {
	profiles, err := s.services.Store.GetAll(ctx)
	if err != nil {
		return nil, mapError(err, "listing profiles")
	}
	out := &listProfilesOutput{}
	out.Body.Profiles = profiles
	return out, nil
}

func (s *Server) handleAddProfile(ctx context.Context, input *addProfileInput) (*addProfileOutput, error) {
	id, err := s.services.Store.Add(ctx, input.Body.candidate())
	if err != nil {
		return nil, mapError(err, "adding profile")
	}
	out := &addProfileOutput{}
	out.Body.ID = id
	return out, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *profileIDInput) (*getProfileOutput, error) {
	p, err := s.services.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("getting profile %d", input.ID))
	}
	return &getProfileOutput{Body: *p}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *updateProfileInput) (*getProfileOutput, error) {
	if err := s.services.Store.Update(ctx, input.ID, input.Body.candidate()); err != nil {
		return nil, mapError(err, fmt.Sprintf("updating profile %d", input.ID))
	}
	p, err := s.services.Store.Get(ctx, input.ID)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("getting profile %d", input.ID))
	}
	return &getProfileOutput{Body: *p}, nil
}

func (s *Server) handleDeleteProfile(ctx context.Context, input *profileIDInput) (*struct{}, error) {
	if err := s.services.Store.Delete(ctx, input.ID); err != nil {
		return nil, mapError(err, fmt.Sprintf("deleting profile %d", input.ID))
	}
	return &struct{}{}, nil
}

func (s *Server) handleSearchProfiles(ctx context.Context, input *searchProfilesInput) (*listProfilesOutput, error) {
	profiles, err := s.services.Store.SearchKeyword(ctx, input.Term)
	if err != nil {
		return nil, mapError(err, "searching profiles")
	}
	out := &listProfilesOutput{}
	out.Body.Profiles = profiles
	return out, nil
}

func (s *Server) handleExportProfiles(ctx context.Context, _ *struct{}) (*exportProfilesOutput, error) {
	records, err := s.services.Store.Export(ctx)
	if err != nil {
		return nil, mapError(err, "exporting profiles")
	}
	out := &exportProfilesOutput{}
	out.Body.Profiles = records
	return out, nil
}

func (s *Server) handleImportProfiles(ctx context.Context, input *importProfilesInput) (*importProfilesOutput, error) {
	records := make([]store.Candidate, len(input.Body.Profiles))
	for i, b := range input.Body.Profiles {
		records[i] = b.candidate()
	}

	imported, err := s.services.Store.ImportReplaceAll(ctx, records)
	if err != nil {
		return nil, mapError(err, "importing profiles")
	}
	out := &importProfilesOutput{}
	out.Body.Imported = imported
	return out, nil
}

func (s *Server) handleAsk(ctx context.Context, input *askInput) (*askOutput, error) {
	// Terminal outcomes are data; the orchestrator never returns an error.
	ans := s.services.Orchestrator.Ask(ctx, input.Body.Query)
	return &askOutput{Body: ans}, nil
}

func (s *Server) handleReindex(ctx context.Context, _ *struct{}) (*reindexOutput, error) {
	stats, err := s.services.Pipeline.Run(ctx)
	if err != nil {
		return nil, mapError(err, "rebuilding index")
	}
	return &reindexOutput{Body: stats}, nil
}

// healthReporter is satisfied by providers that expose a tracker.
type healthReporter interface {
	Health() *provider.HealthTracker
}

func (s *Server) handleStatus(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	count, err := s.services.Store.Count(ctx)
	if err != nil {
		return nil, mapError(err, "counting profiles")
	}

	out := &statusOutput{}
	out.Body.Status = "ok"
	out.Body.Profiles = count

	if s.services.Index != nil && s.services.Index.Loaded() {
		entries, err := s.services.Index.Count()
		if err != nil {
			return nil, mapError(err, "counting index entries")
		}
		out.Body.Index = IndexStatus{
			Loaded:     true,
			Entries:    entries,
			Dimensions: s.services.Index.Dimensions(),
		}
	}

	if hr, ok := s.services.Embedder.(healthReporter); ok {
		m := hr.Health().Metrics()
		out.Body.Providers.Embedder = &m
	}
	if hr, ok := s.services.Generator.(healthReporter); ok {
		m := hr.Health().Metrics()
		out.Body.Providers.Generator = &m
	}

	return out, nil
}
