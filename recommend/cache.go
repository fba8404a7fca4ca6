package recommend

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store"
)

// Cache is the read-through recommendation store. Concurrent requests
// for the same benchmark may both generate; the later write wins, and
// both produce equivalent content.
type Cache struct {
	store     store.Store
	generator *Generator
}

func NewCache(st store.Store, generator *Generator) *Cache {
	return &Cache{store: st, generator: generator}
}

// GetOrGenerate returns the cached recommendation for the benchmark,
// generating and storing one on a miss.
func (c *Cache) GetOrGenerate(ctx context.Context, b model.Benchmark) (*model.RecommendationContent, error) {
	cached, err := c.store.GetRecommendation(ctx, b.TenantID, b.ID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, eris.Wrap(err, "recommend: read cache")
	}

	rec := c.generator.Generate(ctx, b)
	if err := c.store.ReplaceRecommendation(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "recommend: store recommendation")
	}
	return &rec, nil
}

// GenerateBatch regenerates recommendations for every benchmark of the
// tenant, replacing any cached content. Benchmarks whose supplier
// already performs at or below the peer are skipped. Returns the
// number generated.
func (c *Cache) GenerateBatch(ctx context.Context, tenantID string) (int, error) {
	if tenantID == "" {
		return 0, &model.ValidationError{Field: "tenant_id", Reason: "required"}
	}

	benchmarks, err := c.store.ListBenchmarks(ctx, tenantID)
	if err != nil {
		return 0, eris.Wrap(err, "recommend: list benchmarks")
	}

	generated := 0
	for _, b := range benchmarks {
		if b.IsLeader() {
			zap.L().Debug("skipping leader benchmark",
				zap.String("benchmark_id", b.ID),
				zap.String("supplier_id", b.SupplierID))
			continue
		}
		rec := c.generator.Generate(ctx, b)
		if err := c.store.ReplaceRecommendation(ctx, rec); err != nil {
			return generated, eris.Wrap(err, "recommend: store recommendation")
		}
		generated++
	}

	zap.L().Info("batch generation complete",
		zap.String("tenant_id", tenantID),
		zap.Int("benchmarks", len(benchmarks)),
		zap.Int("generated", generated))
	return generated, nil
}
