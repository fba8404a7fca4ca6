package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/verdantlabs/carbonpeer/llm"
	"github.com/verdantlabs/carbonpeer/model"
)

const fallbackTimeline = "4-12 weeks to produce plan; 12-36 months to implement"

const defaultGenerateTimeout = 45 * time.Second

const fallbackContractClause = "Supplier shall, within ninety (90) days of the Effective Date, deliver to Customer a category-specific " +
	"Scope 3 emissions reduction plan (including baselines, measures, milestones, and reporting cadence) and " +
	"thereafter report progress quarterly. Failure to provide such plan or reports shall constitute a material breach."

// Generator produces recommendation content for a benchmark. It always
// returns content: when evidence is missing or the model fails, it
// falls back to a deterministic template instead of erroring.
type Generator struct {
	retriever *Retriever
	client    llm.Client
	timeout   time.Duration
}

// NewGenerator builds a generator. Every model invocation runs under
// the given timeout regardless of provider; non-positive values take
// the default.
func NewGenerator(retriever *Retriever, client llm.Client, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	return &Generator{retriever: retriever, client: client, timeout: timeout}
}

// generatedContent is the JSON contract the model must honor.
type generatedContent struct {
	Headline            string             `json:"headline"`
	ActionPlan          []model.ActionStep `json:"action_plan"`
	CaseStudySummary    string             `json:"case_study_summary"`
	ContractClause      string             `json:"contract_clause"`
	FeasibilityTimeline string             `json:"feasibility_timeline"`
}

// Generate builds a recommendation for the benchmark. Evidence status
// records which path produced it: "ok" for a grounded plan,
// "missing_public_report" when retrieval found nothing, and
// "insufficient_context" when evidence existed but no supportable plan
// came out of it.
func (g *Generator) Generate(ctx context.Context, b model.Benchmark) model.RecommendationContent {
	chunks, err := g.retriever.Retrieve(ctx, b)
	if err != nil {
		zap.L().Warn("evidence retrieval failed",
			zap.String("benchmark_id", b.ID),
			zap.Error(err))
		return fallback(b, model.EvidenceInsufficient)
	}
	if len(chunks) == 0 {
		return fallback(b, model.EvidenceMissingReport)
	}

	content, err := g.invoke(ctx, b, chunks)
	if err != nil {
		zap.L().Warn("grounded generation failed",
			zap.String("benchmark_id", b.ID),
			zap.String("peer_id", b.PeerID),
			zap.Error(err))
		return fallback(b, model.EvidenceInsufficient)
	}
	if len(content.ActionPlan) == 0 {
		return fallback(b, model.EvidenceInsufficient)
	}

	return model.RecommendationContent{
		BenchmarkID:         b.ID,
		TenantID:            b.TenantID,
		Headline:            content.Headline,
		ActionPlan:          content.ActionPlan,
		CaseStudySummary:    content.CaseStudySummary,
		ContractClause:      content.ContractClause,
		FeasibilityTimeline: content.FeasibilityTimeline,
		SourceCitations:     citationsFrom(chunks),
		EvidenceStatus:      model.EvidenceOK,
		GeneratedAt:         time.Now().UTC(),
	}
}

func (g *Generator) invoke(ctx context.Context, b model.Benchmark, chunks []model.ScoredChunk) (*generatedContent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemInstruction},
		{Role: llm.RoleUser, Content: buildUserPrompt(b, buildContext(chunks))},
	})
	if err != nil {
		return nil, &model.GenerationInvocationError{Reason: "model invocation failed", Err: err}
	}

	var content generatedContent
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &content); err != nil {
		return nil, &model.GenerationInvocationError{Reason: "model output was not valid JSON", Err: err}
	}
	if content.Headline == "" {
		return nil, &model.GenerationInvocationError{Reason: "model output missing headline"}
	}
	return &content, nil
}

// fallback is the deterministic template returned whenever a grounded
// plan cannot be produced. ActionPlan stays nil and citations stay
// empty so consumers can distinguish it from generated content.
func fallback(b model.Benchmark, status model.EvidenceStatus) model.RecommendationContent {
	var headline, caseStudy string
	switch status {
	case model.EvidenceMissingReport:
		headline = fmt.Sprintf("No public sustainability report could be retrieved for %s in %s.", b.PeerName, b.Category)
		caseStudy = fmt.Sprintf(
			"We could not retrieve a public report for %s to provide peer-validated steps. "+
				"To proceed, request primary data from your supplier and ask for a category-specific reduction roadmap.",
			b.PeerName)
	default:
		headline = fmt.Sprintf("Insufficient evidence in the retrieved context to produce a peer-validated action plan for %s.", b.Category)
		caseStudy = fmt.Sprintf(
			"We retrieved limited disclosures for %s, but did not find explicit, technical actions tied to %s. "+
				"Ask your supplier for a detailed abatement plan and supporting documentation.",
			b.PeerName, b.Category)
	}

	return model.RecommendationContent{
		BenchmarkID:         b.ID,
		TenantID:            b.TenantID,
		Headline:            headline,
		ActionPlan:          nil,
		CaseStudySummary:    caseStudy,
		ContractClause:      fallbackContractClause,
		FeasibilityTimeline: fallbackTimeline,
		SourceCitations:     []model.Citation{},
		EvidenceStatus:      status,
		GeneratedAt:         time.Now().UTC(),
	}
}
