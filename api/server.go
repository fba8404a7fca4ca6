// Package api exposes the HTTP surface of the pipeline. Tenancy comes
// from the X-Tenant-ID header, set by the authenticating proxy in
// front of this service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/ingest"
	"github.com/verdantlabs/carbonpeer/knowledge"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/recommend"
	"github.com/verdantlabs/carbonpeer/registry"
	"github.com/verdantlabs/carbonpeer/store"
)

const tenantHeader = "X-Tenant-ID"

type ctxKey int

const tenantKey ctxKey = iota

// Server wires the pipeline services behind the HTTP API.
type Server struct {
	store    store.Store
	registry *registry.Registry
	ingest   *ingest.Service
	cache    *recommend.Cache
	graph    *knowledge.Graph
	handler  http.Handler
}

func New(st store.Store, reg *registry.Registry, ing *ingest.Service, cache *recommend.Cache, graph *knowledge.Graph) *Server {
	s := &Server{
		store:    st,
		registry: reg,
		ingest:   ing,
		cache:    cache,
		graph:    graph,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireTenant)
		r.Post("/sources", s.handleRegisterSource)
		r.Get("/sources", s.handleListSources)
		r.Post("/ingest", s.handleIngest)
		r.Post("/generate-batch", s.handleGenerateBatch)
		r.Get("/recommendations/supplier/{supplierID}/deep-dive", s.handleDeepDive)
	})
	return r
}

// requireTenant rejects requests without a tenant header. Every /v1
// operation is tenant-scoped.
func (s *Server) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := r.Header.Get(tenantHeader)
		if tenant == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + tenantHeader + " header"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey, tenant)))
	})
}

func tenantFrom(r *http.Request) string {
	tenant, _ := r.Context().Value(tenantKey).(string)
	return tenant
}

type errorResponse struct {
	Error string `json:"error"`
}

type registerSourceRequest struct {
	CompanyID string `json:"company_id"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Location  string `json:"location"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegisterSource(w http.ResponseWriter, r *http.Request) {
	var req registerSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "decode request: " + err.Error()})
		return
	}

	src, err := s.registry.Register(r.Context(), model.DisclosureSource{
		TenantID:  tenantFrom(r),
		CompanyID: req.CompanyID,
		Category:  req.Category,
		Title:     req.Title,
		Location:  req.Location,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, src)
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.registry.List(r.Context(), tenantFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sources == nil {
		sources = []model.DisclosureSource{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.ingest.Run(r.Context(), tenantFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	generated, err := s.cache.GenerateBatch(r.Context(), tenantFrom(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"generated": generated})
}

type deepDiveResponse struct {
	recommend.DeepDive
	Provenance *knowledge.CompanyInsight `json:"provenance,omitempty"`
}

func (s *Server) handleDeepDive(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFrom(r)
	supplierID := chi.URLParam(r, "supplierID")

	benchmark, err := s.store.GetBenchmark(r.Context(), tenant, supplierID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "supplier not found"})
			return
		}
		s.writeError(w, err)
		return
	}

	rec, err := s.cache.GetOrGenerate(r.Context(), *benchmark)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := deepDiveResponse{DeepDive: recommend.BuildDeepDive(*benchmark, *rec)}
	if s.graph != nil {
		insight, err := s.graph.CompanyInsights(r.Context(), tenant, benchmark.PeerID)
		if err != nil {
			zap.L().Warn("provenance lookup failed",
				zap.String("peer_id", benchmark.PeerID),
				zap.Error(err))
		} else {
			resp.Provenance = insight
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return
	}
	if errors.Is(err, model.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	zap.L().Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
