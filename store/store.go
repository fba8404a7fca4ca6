// Package store provides the tenant-scoped document-store abstraction over
// the pipeline's logical collections: disclosure_sources,
// disclosure_documents, disclosure_chunks, supplier_benchmarks, and
// recommendation_content.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/model"
)

// Store is the persistence interface for the pipeline. Every operation is
// scoped by a mandatory tenant identifier; no query may cross tenants.
type Store interface {
	// Sources
	UpsertSource(ctx context.Context, src model.DisclosureSource) error
	ListSources(ctx context.Context, tenantID string) ([]model.DisclosureSource, error)

	// Documents
	GetDocument(ctx context.Context, tenantID, docID string) (*model.DisclosureDocument, error)
	UpsertDocument(ctx context.Context, doc model.DisclosureDocument) error

	// Chunks. FindChunks returns chunks in original insertion order.
	DeleteChunks(ctx context.Context, tenantID string) (int64, error)
	UpsertChunks(ctx context.Context, chunks []model.DisclosureChunk) error
	FindChunks(ctx context.Context, tenantID, companyID, category string) ([]model.DisclosureChunk, error)

	// Benchmarks (consumed input; seeded or imported, never computed here).
	UpsertBenchmark(ctx context.Context, b model.Benchmark) error
	GetBenchmark(ctx context.Context, tenantID, supplierIdentifier string) (*model.Benchmark, error)
	ListBenchmarks(ctx context.Context, tenantID string) ([]model.Benchmark, error)

	// Recommendations. ReplaceRecommendation upserts by (tenant, benchmark).
	GetRecommendation(ctx context.Context, tenantID, benchmarkID string) (*model.RecommendationContent, error)
	ReplaceRecommendation(ctx context.Context, rec model.RecommendationContent) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the store selected by configuration.
func New(ctx context.Context, cfg config.StoreConfig, dimension int) (Store, error) {
	switch cfg.Driver {
	case "postgres", "":
		return NewPostgres(ctx, cfg.DatabaseURL, dimension)
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
