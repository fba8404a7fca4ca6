package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/model"
)

func TestBuildDeepDiveEnvelope(t *testing.T) {
	b := testBenchmark()
	b.CEERating = "B+"
	b.UpstreamImpactPct = 1.76
	b.RevenueBand = "$20B-$50B"
	b.ComparisonYear = 2023

	rec := model.RecommendationContent{
		BenchmarkID:         b.ID,
		TenantID:            b.TenantID,
		Headline:            "SSAB cut intensity via EAF conversion.",
		ActionPlan:          []model.ActionStep{{Step: 1, Title: "EAF Conversion", Citation: "Pg 12"}},
		CaseStudySummary:    "summary",
		ContractClause:      "clause",
		FeasibilityTimeline: "18-30 months",
		SourceCitations: []model.Citation{
			{Title: "SSAB Report", Location: "seed://ssab-annual-report-2023", Page: "12", Quote: "EAF"},
			{Title: "SSAB Report", Location: "seed://ssab-annual-report-2023", Page: "47", Quote: "PPA"},
		},
		EvidenceStatus: model.EvidenceOK,
		GeneratedAt:    time.Now().UTC(),
	}

	dive := BuildDeepDive(b, rec)

	assert.Equal(t, "Nucor Steel", dive.Meta.SupplierName)
	assert.Equal(t, "SSAB AB", dive.Meta.PeerName)
	assert.Equal(t, "2023", dive.Meta.ComparisonYear)
	assert.Equal(t, "Steel Production", dive.Meta.IndustrySector)
	assert.Equal(t, "$20B-$50B", dive.Meta.RevenueBand)

	assert.Equal(t, 0.28, dive.Metrics.CurrentIntensity)
	assert.Equal(t, 0.19, dive.Metrics.TargetIntensity)
	assert.Equal(t, 32.1, dive.Metrics.ReductionPotentialPercentage)
	assert.Equal(t, "B+", dive.Metrics.CEERating)

	assert.Equal(t, rec.Headline, dive.Content.Headline)
	assert.Equal(t, model.EvidenceOK, dive.Content.EvidenceStatus)
	assert.Len(t, dive.Content.SourceCitations, 2)

	// Duplicate (title, location) citations collapse into one doc.
	require.Len(t, dive.Content.SourceDocs, 1)
	assert.Equal(t, "SSAB Report", dive.Content.SourceDocs[0].Title)
}

func TestBuildDeepDiveDefaultsComparisonYear(t *testing.T) {
	dive := BuildDeepDive(testBenchmark(), model.RecommendationContent{})
	assert.Equal(t, "2024", dive.Meta.ComparisonYear)
}

func TestBuildDeepDiveFallbackContent(t *testing.T) {
	b := testBenchmark()
	rec := fallback(b, model.EvidenceMissingReport)

	dive := BuildDeepDive(b, rec)
	assert.Nil(t, dive.Content.ActionPlan)
	assert.Empty(t, dive.Content.SourceDocs)
	assert.Equal(t, model.EvidenceMissingReport, dive.Content.EvidenceStatus)
}
