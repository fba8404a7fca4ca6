// Package ingest runs the full evidence pipeline for a tenant: acquire
// each registered source, extract pages, chunk, embed, and store.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verdantlabs/carbonpeer/acquire"
	"github.com/verdantlabs/carbonpeer/chunker"
	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/embedder"
	"github.com/verdantlabs/carbonpeer/knowledge"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

// Failure records one source that could not be ingested. The run keeps
// going; failures are reported, never fatal.
type Failure struct {
	SourceID string `json:"source_id"`
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

// Result summarizes one ingestion run.
type Result struct {
	SourcesProcessed int       `json:"sources_processed"`
	ChunksCreated    int       `json:"chunks_created"`
	ChunksDeleted    int64     `json:"chunks_deleted"`
	Failures         []Failure `json:"failures,omitempty"`
	Duration         string    `json:"duration"`
}

// Service coordinates one ingestion run per tenant. Runs rebuild the
// tenant's evidence store from scratch so removed sources leave no
// stale chunks behind.
type Service struct {
	store    store.Store
	acquirer *acquire.Service
	chunker  chunker.Chunker
	embedder embedder.Embedder
	graph    *knowledge.Graph

	concurrency   int
	sourceTimeout time.Duration
}

func NewService(st store.Store, acq *acquire.Service, ch chunker.Chunker, emb embedder.Embedder, graph *knowledge.Graph, cfg config.IngestConfig) *Service {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:         st,
		acquirer:      acq,
		chunker:       ch,
		embedder:      emb,
		graph:         graph,
		concurrency:   concurrency,
		sourceTimeout: time.Duration(cfg.FetchTimeoutSecs+60) * time.Second,
	}
}

// Run ingests every registered source for the tenant. Existing chunks
// are dropped first; per-source failures are collected into the result
// while the remaining sources proceed.
func (s *Service) Run(ctx context.Context, tenantID string) (*Result, error) {
	if tenantID == "" {
		return nil, &model.ValidationError{Field: "tenant_id", Reason: "required"}
	}
	start := time.Now()

	sources, err := s.store.ListSources(ctx, tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: list sources")
	}

	deleted, err := s.store.DeleteChunks(ctx, tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: clear existing chunks")
	}

	perSource := make([][]model.DisclosureChunk, len(sources))
	var (
		mu       sync.Mutex
		failures []Failure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			chunks, err := s.ingestSource(gctx, src)
			if err != nil {
				zap.L().Warn("source ingestion failed",
					zap.String("tenant_id", tenantID),
					zap.String("source_id", src.ID),
					zap.String("location", src.Location),
					zap.Error(err))
				mu.Lock()
				failures = append(failures, Failure{
					SourceID: src.ID,
					Location: src.Location,
					Reason:   err.Error(),
				})
				mu.Unlock()
				return nil
			}
			perSource[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "ingest: run workers")
	}

	// Flatten in registration order so stored order is stable across
	// runs regardless of worker scheduling.
	var all []model.DisclosureChunk
	for _, chunks := range perSource {
		all = append(all, chunks...)
	}
	if len(all) > 0 {
		if err := s.store.UpsertChunks(ctx, all); err != nil {
			return nil, eris.Wrap(err, "ingest: store chunks")
		}
	}
	if s.graph != nil {
		if err := s.graph.RecordIngestion(ctx, tenantID, all); err != nil {
			zap.L().Warn("provenance graph update failed", zap.Error(err))
		}
	}

	result := &Result{
		SourcesProcessed: len(sources),
		ChunksCreated:    len(all),
		ChunksDeleted:    deleted,
		Failures:         failures,
		Duration:         time.Since(start).Round(time.Millisecond).String(),
	}
	zap.L().Info("ingestion run complete",
		zap.String("tenant_id", tenantID),
		zap.Int("sources", result.SourcesProcessed),
		zap.Int("chunks", result.ChunksCreated),
		zap.Int("failures", len(result.Failures)))
	return result, nil
}

func (s *Service) ingestSource(ctx context.Context, src model.DisclosureSource) ([]model.DisclosureChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	doc, err := s.acquirer.Acquire(ctx, src)
	if err != nil {
		return nil, err
	}
	pages, err := s.acquirer.ExtractPages(ctx, doc)
	if err != nil {
		return nil, err
	}

	title := src.Title
	if title == "" {
		title = doc.Title
	}

	now := time.Now().UTC()
	var chunks []model.DisclosureChunk
	var texts []string
	for _, page := range pages {
		for _, excerpt := range s.chunker.Chunk(page.Text) {
			chunk := model.DisclosureChunk{
				ID:        chunkID(src, page.Number, excerpt),
				TenantID:  src.TenantID,
				CompanyID: src.CompanyID,
				Category:  src.Category,
				Title:     title,
				Location:  src.Location,
				Page:      page.Number,
				Excerpt:   excerpt,
				CreatedAt: now,
			}
			chunks = append(chunks, chunk)
			texts = append(texts, excerpt)
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: embed chunks")
	}
	if len(vectors) != len(chunks) {
		return nil, eris.Errorf("ingest: embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return chunks, nil
}

// chunkID derives a stable identifier from the chunk's scope and
// content prefix, so re-ingesting unchanged documents replaces rather
// than duplicates.
func chunkID(src model.DisclosureSource, page int, excerpt string) string {
	prefix := excerpt
	if len(prefix) > 64 {
		prefix = prefix[:64]
	}
	key := strings.Join([]string{
		src.TenantID, src.CompanyID, src.Category, src.Location,
		fmt.Sprintf("%d", page), prefix,
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
