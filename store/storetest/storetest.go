// Package storetest provides a fully functional in-memory Store for
// package tests.
package storetest

import (
	"context"
	"sync"

	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

// MemStore implements store.Store in memory. Chunks keep insertion
// order; sources upsert on (tenant, company, category, location) and
// overwrite the title only, matching the database drivers.
type MemStore struct {
	mu         sync.Mutex
	Sources    []model.DisclosureSource
	Docs       []model.DisclosureDocument
	Chunks     []model.DisclosureChunk
	Benchmarks []model.Benchmark
	Recs       map[string]model.RecommendationContent

	// Optional error injection.
	FindChunksErr error
}

func New() *MemStore {
	return &MemStore{Recs: make(map[string]model.RecommendationContent)}
}

func (m *MemStore) UpsertSource(_ context.Context, src model.DisclosureSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.Sources {
		if existing.TenantID == src.TenantID && existing.CompanyID == src.CompanyID &&
			existing.Category == src.Category && existing.Location == src.Location {
			m.Sources[i].Title = src.Title
			return nil
		}
	}
	m.Sources = append(m.Sources, src)
	return nil
}

func (m *MemStore) ListSources(_ context.Context, tenantID string) ([]model.DisclosureSource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.DisclosureSource
	for _, src := range m.Sources {
		if src.TenantID == tenantID {
			out = append(out, src)
		}
	}
	return out, nil
}

func (m *MemStore) GetDocument(_ context.Context, tenantID, docID string) (*model.DisclosureDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.Docs {
		if doc.TenantID == tenantID && doc.DocID == docID {
			return &doc, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *MemStore) UpsertDocument(_ context.Context, doc model.DisclosureDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.Docs {
		if existing.TenantID == doc.TenantID && existing.DocID == doc.DocID {
			m.Docs[i] = doc
			return nil
		}
	}
	m.Docs = append(m.Docs, doc)
	return nil
}

func (m *MemStore) DeleteChunks(_ context.Context, tenantID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []model.DisclosureChunk
	var deleted int64
	for _, c := range m.Chunks {
		if c.TenantID == tenantID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	m.Chunks = kept
	return deleted, nil
}

func (m *MemStore) UpsertChunks(_ context.Context, chunks []model.DisclosureChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chunks = append(m.Chunks, chunks...)
	return nil
}

func (m *MemStore) FindChunks(_ context.Context, tenantID, companyID, category string) ([]model.DisclosureChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindChunksErr != nil {
		return nil, m.FindChunksErr
	}
	var out []model.DisclosureChunk
	for _, c := range m.Chunks {
		if c.TenantID == tenantID && c.CompanyID == companyID && c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemStore) UpsertBenchmark(_ context.Context, b model.Benchmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.Benchmarks {
		if existing.TenantID == b.TenantID && existing.ID == b.ID {
			m.Benchmarks[i] = b
			return nil
		}
	}
	m.Benchmarks = append(m.Benchmarks, b)
	return nil
}

func (m *MemStore) GetBenchmark(_ context.Context, tenantID, identifier string) (*model.Benchmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Benchmarks {
		if b.TenantID == tenantID && b.ID == identifier {
			return &b, nil
		}
	}
	for _, b := range m.Benchmarks {
		if b.TenantID == tenantID && b.SupplierID == identifier {
			return &b, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *MemStore) ListBenchmarks(_ context.Context, tenantID string) ([]model.Benchmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Benchmark
	for _, b := range m.Benchmarks {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *MemStore) GetRecommendation(_ context.Context, tenantID, benchmarkID string) (*model.RecommendationContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.Recs[tenantID+"|"+benchmarkID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &rec, nil
}

func (m *MemStore) ReplaceRecommendation(_ context.Context, rec model.RecommendationContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Recs[rec.TenantID+"|"+rec.BenchmarkID] = rec
	return nil
}

func (m *MemStore) Migrate(context.Context) error { return nil }
func (m *MemStore) Close() error                  { return nil }

var _ store.Store = (*MemStore)(nil)
