// Package knowledge mirrors evidence provenance into a graph database:
// which peer companies disclosed what, where, and under which emissions
// category. The graph is optional; a nil Graph disables it.
package knowledge

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rotisserie/eris"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/model"
)

type Graph struct {
	driver neo4j.DriverWithContext
}

// CompanyInsight summarizes a peer company's evidence footprint.
type CompanyInsight struct {
	CompanyID  string   `json:"company_id"`
	Categories []string `json:"categories"`
	Documents  []string `json:"documents"`
	ChunkCount int64    `json:"chunk_count"`
}

// NewGraph connects to the provenance graph. Returns nil when the
// graph is disabled in configuration.
func NewGraph(ctx context.Context, cfg config.GraphConfig) (*Graph, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, eris.Wrap(err, "knowledge: create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, eris.Wrap(err, "knowledge: verify neo4j connectivity")
	}
	return &Graph{driver: driver}, nil
}

func (g *Graph) Close(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.driver.Close(ctx)
}

// RecordIngestion rebuilds the tenant's provenance subgraph from the
// chunks produced by an ingestion run.
func (g *Graph) RecordIngestion(ctx context.Context, tenantID string, chunks []model.DisclosureChunk) error {
	if g == nil {
		return nil
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if _, err := tx.Run(ctx, `
			MATCH (c:Chunk {tenant_id: $tenant_id})
			DETACH DELETE c
		`, map[string]any{"tenant_id": tenantID}); err != nil {
			return nil, eris.Wrap(err, "clear existing chunk nodes")
		}

		for _, chunk := range chunks {
			if _, err := tx.Run(ctx, `
				MERGE (co:Company {id: $company_id, tenant_id: $tenant_id})
				MERGE (d:Document {location: $location, tenant_id: $tenant_id})
				SET d.title = $title,
				    d.updated_at = datetime()
				MERGE (co)-[:DISCLOSED]->(d)
				MERGE (cat:Category {name: $category})
				MERGE (d)-[:COVERS]->(cat)
				MERGE (ch:Chunk {id: $chunk_id})
				SET ch.tenant_id = $tenant_id,
				    ch.page = $page
				MERGE (d)-[:HAS_CHUNK {page: $page}]->(ch)
			`, map[string]any{
				"tenant_id":  tenantID,
				"company_id": chunk.CompanyID,
				"location":   chunk.Location,
				"title":      chunk.Title,
				"category":   chunk.Category,
				"chunk_id":   chunk.ID,
				"page":       chunk.Page,
			}); err != nil {
				return nil, eris.Wrap(err, "upsert chunk provenance")
			}
		}

		if _, err := tx.Run(ctx, `
			MATCH (d:Document {tenant_id: $tenant_id})
			WHERE NOT (d)-[:HAS_CHUNK]->(:Chunk)
			DETACH DELETE d
		`, map[string]any{"tenant_id": tenantID}); err != nil {
			return nil, eris.Wrap(err, "prune empty documents")
		}
		return nil, nil
	})
	return err
}

// CompanyInsights reports categories, documents, and chunk counts for
// one peer company.
func (g *Graph) CompanyInsights(ctx context.Context, tenantID, companyID string) (*CompanyInsight, error) {
	if g == nil {
		return nil, eris.New("knowledge: graph disabled")
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	record, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (co:Company {id: $company_id, tenant_id: $tenant_id})-[:DISCLOSED]->(d:Document)
			OPTIONAL MATCH (d)-[:COVERS]->(cat:Category)
			OPTIONAL MATCH (d)-[:HAS_CHUNK]->(ch:Chunk)
			RETURN collect(DISTINCT cat.name) AS categories,
			       collect(DISTINCT d.title) AS documents,
			       count(DISTINCT ch) AS chunk_count
		`, map[string]any{"tenant_id": tenantID, "company_id": companyID})
		if err != nil {
			return nil, err
		}
		return result.Single(ctx)
	})
	if err != nil {
		return nil, eris.Wrap(err, "knowledge: query company insights")
	}

	rec := record.(*neo4j.Record)
	insight := &CompanyInsight{CompanyID: companyID}
	if values, ok := rec.Get("categories"); ok {
		for _, v := range values.([]any) {
			if name, ok := v.(string); ok && name != "" {
				insight.Categories = append(insight.Categories, name)
			}
		}
	}
	if values, ok := rec.Get("documents"); ok {
		for _, v := range values.([]any) {
			if title, ok := v.(string); ok && title != "" {
				insight.Documents = append(insight.Documents, title)
			}
		}
	}
	if count, ok := rec.Get("chunk_count"); ok {
		if n, ok := count.(int64); ok {
			insight.ChunkCount = n
		}
	}
	return insight, nil
}
