package model

import "time"

// EvidenceStatus enumerates why a recommendation does or does not carry a
// specific action plan.
type EvidenceStatus string

const (
	// EvidenceOK means the generator produced a grounded, cited plan.
	EvidenceOK EvidenceStatus = "ok"
	// EvidenceMissingReport means retrieval found no chunks at all for the
	// peer and category.
	EvidenceMissingReport EvidenceStatus = "missing_public_report"
	// EvidenceInsufficient means evidence existed but the generator could
	// not (or failed to) produce supportable actions from it.
	EvidenceInsufficient EvidenceStatus = "insufficient_context"
)

// ActionStep is one ordered step of a generated action plan. Citation is a
// free-text pointer into the evidence context, e.g. "Pg 45".
type ActionStep struct {
	Step     int    `json:"step"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Citation string `json:"citation"`
}

// Citation traces an action-plan claim back to a specific retrieved chunk.
type Citation struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Page     string `json:"page"`
	Quote    string `json:"quote"`
}

// RecommendationContent is the generated (or fallback) artifact for one
// benchmark. ActionPlan is nil exactly when EvidenceStatus != EvidenceOK.
type RecommendationContent struct {
	BenchmarkID         string         `json:"benchmark_id"`
	TenantID            string         `json:"tenant_id"`
	Headline            string         `json:"headline"`
	ActionPlan          []ActionStep   `json:"action_plan"`
	CaseStudySummary    string         `json:"case_study_summary"`
	ContractClause      string         `json:"contract_clause"`
	FeasibilityTimeline string         `json:"feasibility_timeline"`
	SourceCitations     []Citation     `json:"source_citations"`
	EvidenceStatus      EvidenceStatus `json:"evidence_status"`
	GeneratedAt         time.Time      `json:"generated_at"`
}
