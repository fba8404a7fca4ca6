package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/llm"
	"github.com/verdantlabs/carbonpeer/model"
	"github.com/verdantlabs/carbonpeer/store/storetest"
)

const validModelOutput = "```json\n" + `{
  "headline": "SSAB cut steel intensity 39% by converting to electric arc furnaces.",
  "action_plan": [
    {"step": 1, "title": "EAF Conversion", "detail": "Convert blast furnace lines to electric arc furnaces using recycled scrap feedstock.", "citation": "Pg 12"},
    {"step": 2, "title": "Renewable Energy PPAs", "detail": "Contract long-term wind power purchase agreements for fossil-free electricity.", "citation": "Pg 47"}
  ],
  "case_study_summary": "SSAB converted its Oxelosund line to EAF production. The route uses recycled scrap and fossil-free electricity. Certified volumes now ship to automotive customers.",
  "contract_clause": "Supplier shall transition no less than forty percent (40%) of delivered steel volumes to EAF-route production by 2028.",
  "feasibility_timeline": "18-30 months"
}` + "\n```"

func testBenchmark() model.Benchmark {
	return model.Benchmark{
		ID:                    "bm-1",
		TenantID:              "t-1",
		SupplierID:            "nucor_001",
		SupplierName:          "Nucor Steel",
		PeerID:                "ssab_001",
		PeerName:              "SSAB AB",
		Category:              "Purchased Goods & Services",
		SupplierIntensity:     0.28,
		PeerIntensity:         0.19,
		PotentialReductionPct: 32.1,
		IndustrySector:        "Steel Production",
	}
}

func evidenceChunk(id string, page int, excerpt string, embedding []float32) model.DisclosureChunk {
	return model.DisclosureChunk{
		ID:        id,
		TenantID:  "t-1",
		CompanyID: "ssab_001",
		Category:  "Purchased Goods & Services",
		Title:     "SSAB Annual and Sustainability Report 2023",
		Location:  "seed://ssab-annual-report-2023",
		Page:      page,
		Excerpt:   excerpt,
		Embedding: embedding,
	}
}

func newTestGenerator(st *storetest.MemStore, client llm.Client) *Generator {
	retriever := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})
	return NewGenerator(retriever, client, 5*time.Second)
}

func TestGenerateGroundedPlan(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("c-1", 12, "The EAF route uses recycled scrap as primary feedstock.", []float32{0.9, 0.1, 0}),
		evidenceChunk("c-2", 47, "Ten year power purchase agreement covering 1.2 TWh of wind.", []float32{0.8, 0.2, 0}),
	)
	client := &scriptedLLM{response: validModelOutput}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())

	assert.Equal(t, model.EvidenceOK, rec.EvidenceStatus)
	require.Len(t, rec.ActionPlan, 2)
	assert.Equal(t, 1, rec.ActionPlan[0].Step)
	assert.Equal(t, "EAF Conversion", rec.ActionPlan[0].Title)
	assert.Equal(t, "Pg 12", rec.ActionPlan[0].Citation)
	assert.Equal(t, "18-30 months", rec.FeasibilityTimeline)

	// Citations are copied verbatim from the retrieved chunks.
	require.Len(t, rec.SourceCitations, 2)
	quotes := []string{rec.SourceCitations[0].Quote, rec.SourceCitations[1].Quote}
	assert.Contains(t, quotes, "The EAF route uses recycled scrap as primary feedstock.")
	assert.Contains(t, quotes, "Ten year power purchase agreement covering 1.2 TWh of wind.")
	assert.Equal(t, "12", rec.SourceCitations[0].Page)
}

func TestGenerateNoEvidenceFallsBackToMissingReport(t *testing.T) {
	st := storetest.New()
	client := &scriptedLLM{response: validModelOutput}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())

	assert.Equal(t, model.EvidenceMissingReport, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
	assert.Empty(t, rec.SourceCitations)
	assert.Contains(t, rec.Headline, "No public sustainability report could be retrieved for SSAB AB")
	assert.Contains(t, rec.ContractClause, "ninety (90) days")
	assert.Equal(t, fallbackTimeline, rec.FeasibilityTimeline)
	assert.Equal(t, 0, client.callCount())
}

func TestGenerateInvocationFailureFallsBack(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks, evidenceChunk("c-1", 12, "EAF conversion details.", []float32{1, 0, 0}))
	client := &scriptedLLM{err: errors.New("upstream timeout")}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())

	assert.Equal(t, model.EvidenceInsufficient, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
	assert.Empty(t, rec.SourceCitations)
	assert.Contains(t, rec.Headline, "Insufficient evidence")
}

func TestGenerateRetrievalErrorFallsBack(t *testing.T) {
	st := storetest.New()
	st.FindChunksErr = errors.New("connection reset")
	client := &scriptedLLM{response: validModelOutput}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())

	assert.Equal(t, model.EvidenceInsufficient, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
	assert.Equal(t, 0, client.callCount())
}

func TestGenerateMalformedOutputFallsBack(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks, evidenceChunk("c-1", 12, "EAF conversion details.", []float32{1, 0, 0}))
	client := &scriptedLLM{response: "I cannot produce JSON for this request."}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())
	assert.Equal(t, model.EvidenceInsufficient, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
}

func TestGenerateEmptyActionPlanFallsBack(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks, evidenceChunk("c-1", 12, "Vague sustainability statement.", []float32{1, 0, 0}))
	client := &scriptedLLM{response: `{"headline": "h", "action_plan": [], "case_study_summary": "s", "contract_clause": "c", "feasibility_timeline": "t"}`}
	gen := newTestGenerator(st, client)

	rec := gen.Generate(context.Background(), testBenchmark())
	assert.Equal(t, model.EvidenceInsufficient, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
}

func TestEvidenceStatusMatchesActionPlan(t *testing.T) {
	cases := []struct {
		name   string
		chunks []model.DisclosureChunk
		client *scriptedLLM
	}{
		{"grounded", []model.DisclosureChunk{evidenceChunk("c-1", 12, "EAF details.", []float32{1, 0, 0})}, &scriptedLLM{response: validModelOutput}},
		{"no evidence", nil, &scriptedLLM{response: validModelOutput}},
		{"model failure", []model.DisclosureChunk{evidenceChunk("c-1", 12, "EAF details.", []float32{1, 0, 0})}, &scriptedLLM{err: errors.New("boom")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := storetest.New()
			st.Chunks = tc.chunks
			gen := newTestGenerator(st, tc.client)

			rec := gen.Generate(context.Background(), testBenchmark())
			if rec.EvidenceStatus == model.EvidenceOK {
				assert.NotEmpty(t, rec.ActionPlan)
			} else {
				assert.Nil(t, rec.ActionPlan)
				assert.Empty(t, rec.SourceCitations)
			}
		})
	}
}

func TestGeneratePromptCarriesEvidence(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("c-2", 47, "Wind power purchase agreement.", []float32{0.5, 0, 0}),
		evidenceChunk("c-1", 12, "EAF conversion with recycled scrap.", []float32{0.9, 0, 0}),
	)
	client := &scriptedLLM{response: validModelOutput}
	gen := newTestGenerator(st, client)

	gen.Generate(context.Background(), testBenchmark())

	require.Len(t, client.last, 2)
	assert.Contains(t, client.last[0].Content, "Zero Hallucination")
	user := client.last[1].Content
	assert.Contains(t, user, "SUPPLIER: Nucor Steel")
	assert.Contains(t, user, "PEER (Leader): SSAB AB")
	// Evidence lines appear in page order regardless of rank order.
	idx12 := strings.Index(user, "[Pg 12]")
	idx47 := strings.Index(user, "[Pg 47]")
	require.GreaterOrEqual(t, idx12, 0)
	require.GreaterOrEqual(t, idx47, 0)
	assert.Less(t, idx12, idx47)
}

type stallingLLM struct{}

func (stallingLLM) Generate(ctx context.Context, _ []llm.Message) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestGenerateBoundsModelInvocation(t *testing.T) {
	st := storetest.New()
	st.Chunks = append(st.Chunks,
		evidenceChunk("c-1", 12, "The EAF route uses recycled scrap as primary feedstock.", []float32{0.9, 0.1, 0}),
	)
	retriever := NewRetriever(st, stubEmbedder{vector: []float32{1, 0, 0}}, config.RetrievalConfig{TopK: 6})
	gen := NewGenerator(retriever, stallingLLM{}, 20*time.Millisecond)

	start := time.Now()
	rec := gen.Generate(context.Background(), testBenchmark())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, model.EvidenceInsufficient, rec.EvidenceStatus)
	assert.Nil(t, rec.ActionPlan)
	assert.Empty(t, rec.SourceCitations)
}
