// Package model holds the shared domain types and the error taxonomy for
// the evidence and recommendation pipeline.
package model

import "time"

// SeedScheme prefixes locations that resolve against the built-in sample
// corpus instead of the network.
const SeedScheme = "seed://"

// DisclosureSource is a durable pointer to one candidate evidence document
// for a (peer company, category) pair.
type DisclosureSource struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CompanyID string    `json:"company_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// DisclosureDocument is an acquired artifact. DocID is derived from the
// content hash, so identical bytes never duplicate storage.
type DisclosureDocument struct {
	DocID        string    `json:"doc_id"`
	TenantID     string    `json:"tenant_id"`
	CompanyID    string    `json:"company_id"`
	Title        string    `json:"title"`
	Location     string    `json:"location"`
	ContentHash  string    `json:"content_hash"`
	StorageRef   string    `json:"storage_reference"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// DisclosureChunk is one retrievable unit of evidence. ID is a
// deterministic hash of the chunk's identity fields, so re-ingestion
// replaces rather than duplicates.
type DisclosureChunk struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CompanyID string    `json:"company_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	Page      int       `json:"page"`
	Excerpt   string    `json:"excerpt"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	DisclosureChunk
	Score float64 `json:"score"`
}

// Page is one page of extracted plain text.
type Page struct {
	Number int
	Text   string
}
