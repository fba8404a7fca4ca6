package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/model"
)

// PostgresStore implements Store on pgx with a pgvector embedding column.
type PostgresStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgres connects a pool and returns the postgres-backed store.
func NewPostgres(ctx context.Context, dsn string, dimension int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "store: create postgres pool")
	}
	return &PostgresStore{pool: pool, dimension: dimension}, nil
}

// Migrate creates the logical collections if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if s.dimension <= 0 {
		return eris.New("store: embedding dimension must be positive")
	}

	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		`CREATE TABLE IF NOT EXISTS disclosure_sources (
			id UUID PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			location TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (tenant_id, company_id, category, location)
		)`,
		`CREATE TABLE IF NOT EXISTS disclosure_documents (
			doc_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL,
			storage_ref TEXT NOT NULL,
			downloaded_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (tenant_id, doc_id)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS disclosure_chunks (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			page INT NOT NULL,
			excerpt TEXT NOT NULL,
			embedding VECTOR(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`, s.dimension),
		"CREATE INDEX IF NOT EXISTS idx_disclosure_chunks_scope ON disclosure_chunks(tenant_id, company_id, category)",
		`CREATE TABLE IF NOT EXISTS supplier_benchmarks (
			id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			supplier_id TEXT NOT NULL,
			supplier_name TEXT NOT NULL,
			peer_id TEXT NOT NULL,
			peer_name TEXT NOT NULL,
			category TEXT NOT NULL,
			supplier_intensity DOUBLE PRECISION NOT NULL,
			peer_intensity DOUBLE PRECISION NOT NULL,
			potential_reduction_pct DOUBLE PRECISION NOT NULL,
			cee_rating TEXT NOT NULL DEFAULT '',
			upstream_impact_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
			industry_sector TEXT NOT NULL DEFAULT '',
			revenue_band TEXT NOT NULL DEFAULT '',
			comparison_year INT NOT NULL DEFAULT 0,
			PRIMARY KEY (tenant_id, id)
		)`,
		"CREATE INDEX IF NOT EXISTS idx_supplier_benchmarks_supplier ON supplier_benchmarks(tenant_id, supplier_id)",
		`CREATE TABLE IF NOT EXISTS recommendation_content (
			tenant_id TEXT NOT NULL,
			benchmark_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (tenant_id, benchmark_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return eris.Wrap(err, "store: execute schema statement")
		}
	}
	return nil
}

func (s *PostgresStore) UpsertSource(ctx context.Context, src model.DisclosureSource) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO disclosure_sources (id, tenant_id, company_id, category, title, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, company_id, category, location)
		DO UPDATE SET title = EXCLUDED.title
	`, src.ID, src.TenantID, src.CompanyID, src.Category, src.Title, src.Location, src.CreatedAt)
	if err != nil {
		return eris.Wrap(err, "store: upsert source")
	}
	return nil
}

func (s *PostgresStore) ListSources(ctx context.Context, tenantID string) ([]model.DisclosureSource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, company_id, category, title, location, created_at
		FROM disclosure_sources
		WHERE tenant_id = $1
		ORDER BY created_at, id
	`, tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "store: list sources")
	}
	defer rows.Close()

	var sources []model.DisclosureSource
	for rows.Next() {
		var src model.DisclosureSource
		if err := rows.Scan(&src.ID, &src.TenantID, &src.CompanyID, &src.Category, &src.Title, &src.Location, &src.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan source")
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (s *PostgresStore) GetDocument(ctx context.Context, tenantID, docID string) (*model.DisclosureDocument, error) {
	var doc model.DisclosureDocument
	err := s.pool.QueryRow(ctx, `
		SELECT doc_id, tenant_id, company_id, title, location, content_hash, storage_ref, downloaded_at
		FROM disclosure_documents
		WHERE tenant_id = $1 AND doc_id = $2
	`, tenantID, docID).Scan(&doc.DocID, &doc.TenantID, &doc.CompanyID, &doc.Title, &doc.Location,
		&doc.ContentHash, &doc.StorageRef, &doc.DownloadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get document")
	}
	return &doc, nil
}

func (s *PostgresStore) UpsertDocument(ctx context.Context, doc model.DisclosureDocument) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO disclosure_documents (doc_id, tenant_id, company_id, title, location, content_hash, storage_ref, downloaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, doc_id) DO UPDATE SET
			title = EXCLUDED.title,
			location = EXCLUDED.location,
			downloaded_at = EXCLUDED.downloaded_at
	`, doc.DocID, doc.TenantID, doc.CompanyID, doc.Title, doc.Location, doc.ContentHash, doc.StorageRef, doc.DownloadedAt)
	if err != nil {
		return eris.Wrap(err, "store: upsert document")
	}
	return nil
}

func (s *PostgresStore) DeleteChunks(ctx context.Context, tenantID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM disclosure_chunks WHERE tenant_id = $1", tenantID)
	if err != nil {
		return 0, eris.Wrap(err, "store: delete chunks")
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) UpsertChunks(ctx context.Context, chunks []model.DisclosureChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return eris.Wrap(err, "store: begin chunk tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range chunks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO disclosure_chunks (id, tenant_id, company_id, category, title, location, page, excerpt, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				excerpt = EXCLUDED.excerpt,
				embedding = EXCLUDED.embedding,
				created_at = EXCLUDED.created_at
		`, c.ID, c.TenantID, c.CompanyID, c.Category, c.Title, c.Location, c.Page, c.Excerpt,
			pgvector.NewVector(c.Embedding), c.CreatedAt); err != nil {
			return eris.Wrap(err, "store: upsert chunk")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "store: commit chunk tx")
	}
	return nil
}

func (s *PostgresStore) FindChunks(ctx context.Context, tenantID, companyID, category string) ([]model.DisclosureChunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, company_id, category, title, location, page, excerpt, embedding, created_at
		FROM disclosure_chunks
		WHERE tenant_id = $1 AND company_id = $2 AND category = $3
		ORDER BY seq
	`, tenantID, companyID, category)
	if err != nil {
		return nil, eris.Wrap(err, "store: find chunks")
	}
	defer rows.Close()

	var chunks []model.DisclosureChunk
	for rows.Next() {
		var (
			c   model.DisclosureChunk
			vec pgvector.Vector
		)
		if err := rows.Scan(&c.ID, &c.TenantID, &c.CompanyID, &c.Category, &c.Title, &c.Location,
			&c.Page, &c.Excerpt, &vec, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan chunk")
		}
		c.Embedding = vec.Slice()
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *PostgresStore) UpsertBenchmark(ctx context.Context, b model.Benchmark) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO supplier_benchmarks (id, tenant_id, supplier_id, supplier_name, peer_id, peer_name,
			category, supplier_intensity, peer_intensity, potential_reduction_pct,
			cee_rating, upstream_impact_pct, industry_sector, revenue_band, comparison_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			supplier_id = EXCLUDED.supplier_id,
			supplier_name = EXCLUDED.supplier_name,
			peer_id = EXCLUDED.peer_id,
			peer_name = EXCLUDED.peer_name,
			category = EXCLUDED.category,
			supplier_intensity = EXCLUDED.supplier_intensity,
			peer_intensity = EXCLUDED.peer_intensity,
			potential_reduction_pct = EXCLUDED.potential_reduction_pct,
			cee_rating = EXCLUDED.cee_rating,
			upstream_impact_pct = EXCLUDED.upstream_impact_pct,
			industry_sector = EXCLUDED.industry_sector,
			revenue_band = EXCLUDED.revenue_band,
			comparison_year = EXCLUDED.comparison_year
	`, b.ID, b.TenantID, b.SupplierID, b.SupplierName, b.PeerID, b.PeerName, b.Category,
		b.SupplierIntensity, b.PeerIntensity, b.PotentialReductionPct,
		b.CEERating, b.UpstreamImpactPct, b.IndustrySector, b.RevenueBand, b.ComparisonYear)
	if err != nil {
		return eris.Wrap(err, "store: upsert benchmark")
	}
	return nil
}

const benchmarkColumns = `id, tenant_id, supplier_id, supplier_name, peer_id, peer_name,
	category, supplier_intensity, peer_intensity, potential_reduction_pct,
	cee_rating, upstream_impact_pct, industry_sector, revenue_band, comparison_year`

func scanBenchmark(row pgx.Row) (*model.Benchmark, error) {
	var b model.Benchmark
	err := row.Scan(&b.ID, &b.TenantID, &b.SupplierID, &b.SupplierName, &b.PeerID, &b.PeerName,
		&b.Category, &b.SupplierIntensity, &b.PeerIntensity, &b.PotentialReductionPct,
		&b.CEERating, &b.UpstreamImpactPct, &b.IndustrySector, &b.RevenueBand, &b.ComparisonYear)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBenchmark resolves either a benchmark id or a supplier id, preferring
// the benchmark id when both match.
func (s *PostgresStore) GetBenchmark(ctx context.Context, tenantID, supplierIdentifier string) (*model.Benchmark, error) {
	b, err := scanBenchmark(s.pool.QueryRow(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = $1 AND id = $2",
		tenantID, supplierIdentifier))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrap(err, "store: get benchmark by id")
	}

	b, err = scanBenchmark(s.pool.QueryRow(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = $1 AND supplier_id = $2",
		tenantID, supplierIdentifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get benchmark by supplier id")
	}
	return b, nil
}

func (s *PostgresStore) ListBenchmarks(ctx context.Context, tenantID string) ([]model.Benchmark, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = $1 ORDER BY upstream_impact_pct DESC, id",
		tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "store: list benchmarks")
	}
	defer rows.Close()

	var benchmarks []model.Benchmark
	for rows.Next() {
		b, err := scanBenchmark(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan benchmark")
		}
		benchmarks = append(benchmarks, *b)
	}
	return benchmarks, rows.Err()
}

func (s *PostgresStore) GetRecommendation(ctx context.Context, tenantID, benchmarkID string) (*model.RecommendationContent, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM recommendation_content
		WHERE tenant_id = $1 AND benchmark_id = $2
	`, tenantID, benchmarkID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get recommendation")
	}

	var rec model.RecommendationContent
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, eris.Wrap(err, "store: decode recommendation")
	}
	return &rec, nil
}

func (s *PostgresStore) ReplaceRecommendation(ctx context.Context, rec model.RecommendationContent) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "store: encode recommendation")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO recommendation_content (tenant_id, benchmark_id, payload, generated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, benchmark_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			generated_at = EXCLUDED.generated_at
	`, rec.TenantID, rec.BenchmarkID, payload, rec.GeneratedAt)
	if err != nil {
		return eris.Wrap(err, "store: replace recommendation")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
