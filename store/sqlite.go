package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/verdantlabs/carbonpeer/model"
)

// SQLiteStore implements Store on modernc sqlite for single-node and local
// development use. Embeddings are serialized as JSON; ranking happens in
// Go either way, so the drivers behave identically to callers.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the sqlite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open sqlite")
	}
	// modernc sqlite serializes writes; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS disclosure_sources (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			location TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
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
			downloaded_at TIMESTAMP NOT NULL,
			PRIMARY KEY (tenant_id, doc_id)
		)`,
		`CREATE TABLE IF NOT EXISTS disclosure_chunks (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			category TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			page INTEGER NOT NULL,
			excerpt TEXT NOT NULL,
			embedding TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_disclosure_chunks_scope ON disclosure_chunks(tenant_id, company_id, category)",
		`CREATE TABLE IF NOT EXISTS supplier_benchmarks (
			id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			supplier_id TEXT NOT NULL,
			supplier_name TEXT NOT NULL,
			peer_id TEXT NOT NULL,
			peer_name TEXT NOT NULL,
			category TEXT NOT NULL,
			supplier_intensity REAL NOT NULL,
			peer_intensity REAL NOT NULL,
			potential_reduction_pct REAL NOT NULL,
			cee_rating TEXT NOT NULL DEFAULT '',
			upstream_impact_pct REAL NOT NULL DEFAULT 0,
			industry_sector TEXT NOT NULL DEFAULT '',
			revenue_band TEXT NOT NULL DEFAULT '',
			comparison_year INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (tenant_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS recommendation_content (
			tenant_id TEXT NOT NULL,
			benchmark_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			generated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (tenant_id, benchmark_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrap(err, "store: execute schema statement")
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertSource(ctx context.Context, src model.DisclosureSource) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO disclosure_sources (id, tenant_id, company_id, category, title, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, company_id, category, location)
		DO UPDATE SET title = excluded.title
	`, src.ID, src.TenantID, src.CompanyID, src.Category, src.Title, src.Location, src.CreatedAt)
	if err != nil {
		return eris.Wrap(err, "store: upsert source")
	}
	return nil
}

func (s *SQLiteStore) ListSources(ctx context.Context, tenantID string) ([]model.DisclosureSource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, company_id, category, title, location, created_at
		FROM disclosure_sources
		WHERE tenant_id = ?
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

func (s *SQLiteStore) GetDocument(ctx context.Context, tenantID, docID string) (*model.DisclosureDocument, error) {
	var doc model.DisclosureDocument
	err := s.db.QueryRowContext(ctx, `
		SELECT doc_id, tenant_id, company_id, title, location, content_hash, storage_ref, downloaded_at
		FROM disclosure_documents
		WHERE tenant_id = ? AND doc_id = ?
	`, tenantID, docID).Scan(&doc.DocID, &doc.TenantID, &doc.CompanyID, &doc.Title, &doc.Location,
		&doc.ContentHash, &doc.StorageRef, &doc.DownloadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get document")
	}
	return &doc, nil
}

func (s *SQLiteStore) UpsertDocument(ctx context.Context, doc model.DisclosureDocument) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO disclosure_documents (doc_id, tenant_id, company_id, title, location, content_hash, storage_ref, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, doc_id) DO UPDATE SET
			title = excluded.title,
			location = excluded.location,
			downloaded_at = excluded.downloaded_at
	`, doc.DocID, doc.TenantID, doc.CompanyID, doc.Title, doc.Location, doc.ContentHash, doc.StorageRef, doc.DownloadedAt)
	if err != nil {
		return eris.Wrap(err, "store: upsert document")
	}
	return nil
}

func (s *SQLiteStore) DeleteChunks(ctx context.Context, tenantID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM disclosure_chunks WHERE tenant_id = ?", tenantID)
	if err != nil {
		return 0, eris.Wrap(err, "store: delete chunks")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "store: delete chunks rows affected")
	}
	return n, nil
}

func (s *SQLiteStore) UpsertChunks(ctx context.Context, chunks []model.DisclosureChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin chunk tx")
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range chunks {
		embedding, err := json.Marshal(c.Embedding)
		if err != nil {
			return eris.Wrap(err, "store: encode embedding")
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO disclosure_chunks (id, tenant_id, company_id, category, title, location, page, excerpt, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				excerpt = excluded.excerpt,
				embedding = excluded.embedding,
				created_at = excluded.created_at
		`, c.ID, c.TenantID, c.CompanyID, c.Category, c.Title, c.Location, c.Page, c.Excerpt,
			string(embedding), c.CreatedAt); err != nil {
			return eris.Wrap(err, "store: upsert chunk")
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "store: commit chunk tx")
	}
	return nil
}

func (s *SQLiteStore) FindChunks(ctx context.Context, tenantID, companyID, category string) ([]model.DisclosureChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, company_id, category, title, location, page, excerpt, embedding, created_at
		FROM disclosure_chunks
		WHERE tenant_id = ? AND company_id = ? AND category = ?
		ORDER BY rowid
	`, tenantID, companyID, category)
	if err != nil {
		return nil, eris.Wrap(err, "store: find chunks")
	}
	defer rows.Close()

	var chunks []model.DisclosureChunk
	for rows.Next() {
		var (
			c        model.DisclosureChunk
			embedded string
		)
		if err := rows.Scan(&c.ID, &c.TenantID, &c.CompanyID, &c.Category, &c.Title, &c.Location,
			&c.Page, &c.Excerpt, &embedded, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan chunk")
		}
		if err := json.Unmarshal([]byte(embedded), &c.Embedding); err != nil {
			return nil, eris.Wrap(err, "store: decode embedding")
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) UpsertBenchmark(ctx context.Context, b model.Benchmark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_benchmarks (id, tenant_id, supplier_id, supplier_name, peer_id, peer_name,
			category, supplier_intensity, peer_intensity, potential_reduction_pct,
			cee_rating, upstream_impact_pct, industry_sector, revenue_band, comparison_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, id) DO UPDATE SET
			supplier_id = excluded.supplier_id,
			supplier_name = excluded.supplier_name,
			peer_id = excluded.peer_id,
			peer_name = excluded.peer_name,
			category = excluded.category,
			supplier_intensity = excluded.supplier_intensity,
			peer_intensity = excluded.peer_intensity,
			potential_reduction_pct = excluded.potential_reduction_pct,
			cee_rating = excluded.cee_rating,
			upstream_impact_pct = excluded.upstream_impact_pct,
			industry_sector = excluded.industry_sector,
			revenue_band = excluded.revenue_band,
			comparison_year = excluded.comparison_year
	`, b.ID, b.TenantID, b.SupplierID, b.SupplierName, b.PeerID, b.PeerName, b.Category,
		b.SupplierIntensity, b.PeerIntensity, b.PotentialReductionPct,
		b.CEERating, b.UpstreamImpactPct, b.IndustrySector, b.RevenueBand, b.ComparisonYear)
	if err != nil {
		return eris.Wrap(err, "store: upsert benchmark")
	}
	return nil
}

func (s *SQLiteStore) scanBenchmarkRow(row interface{ Scan(...any) error }) (*model.Benchmark, error) {
	var b model.Benchmark
	err := row.Scan(&b.ID, &b.TenantID, &b.SupplierID, &b.SupplierName, &b.PeerID, &b.PeerName,
		&b.Category, &b.SupplierIntensity, &b.PeerIntensity, &b.PotentialReductionPct,
		&b.CEERating, &b.UpstreamImpactPct, &b.IndustrySector, &b.RevenueBand, &b.ComparisonYear)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLiteStore) GetBenchmark(ctx context.Context, tenantID, supplierIdentifier string) (*model.Benchmark, error) {
	b, err := s.scanBenchmarkRow(s.db.QueryRowContext(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = ? AND id = ?",
		tenantID, supplierIdentifier))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrap(err, "store: get benchmark by id")
	}

	b, err = s.scanBenchmarkRow(s.db.QueryRowContext(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = ? AND supplier_id = ?",
		tenantID, supplierIdentifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get benchmark by supplier id")
	}
	return b, nil
}

func (s *SQLiteStore) ListBenchmarks(ctx context.Context, tenantID string) ([]model.Benchmark, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+benchmarkColumns+" FROM supplier_benchmarks WHERE tenant_id = ? ORDER BY upstream_impact_pct DESC, id",
		tenantID)
	if err != nil {
		return nil, eris.Wrap(err, "store: list benchmarks")
	}
	defer rows.Close()

	var benchmarks []model.Benchmark
	for rows.Next() {
		b, err := s.scanBenchmarkRow(rows)
		if err != nil {
			return nil, eris.Wrap(err, "store: scan benchmark")
		}
		benchmarks = append(benchmarks, *b)
	}
	return benchmarks, rows.Err()
}

func (s *SQLiteStore) GetRecommendation(ctx context.Context, tenantID, benchmarkID string) (*model.RecommendationContent, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM recommendation_content
		WHERE tenant_id = ? AND benchmark_id = ?
	`, tenantID, benchmarkID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: get recommendation")
	}

	var rec model.RecommendationContent
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, eris.Wrap(err, "store: decode recommendation")
	}
	return &rec, nil
}

func (s *SQLiteStore) ReplaceRecommendation(ctx context.Context, rec model.RecommendationContent) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "store: encode recommendation")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recommendation_content (tenant_id, benchmark_id, payload, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tenant_id, benchmark_id) DO UPDATE SET
			payload = excluded.payload,
			generated_at = excluded.generated_at
	`, rec.TenantID, rec.BenchmarkID, string(payload), rec.GeneratedAt)
	if err != nil {
		return eris.Wrap(err, "store: replace recommendation")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
