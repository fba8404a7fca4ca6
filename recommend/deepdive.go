package recommend

import (
	"strconv"

	"github.com/verdantlabs/carbonpeer/model"
)

// DeepDive is the full supplier recommendation view: benchmark
// identity, the consumed metrics, and the generated content with its
// evidence trail.
type DeepDive struct {
	Meta    DeepDiveMeta    `json:"meta"`
	Metrics DeepDiveMetrics `json:"metrics"`
	Content DeepDiveContent `json:"content"`
}

type DeepDiveMeta struct {
	SupplierName   string `json:"supplier_name"`
	PeerName       string `json:"peer_name"`
	ComparisonYear string `json:"comparison_year"`
	IndustrySector string `json:"industry_sector,omitempty"`
	Category       string `json:"category"`
	RevenueBand    string `json:"revenue_band,omitempty"`
}

type DeepDiveMetrics struct {
	CurrentIntensity             float64 `json:"current_intensity"`
	TargetIntensity              float64 `json:"target_intensity"`
	ReductionPotentialPercentage float64 `json:"reduction_potential_percentage"`
	UpstreamImpactPercentage     float64 `json:"upstream_impact_percentage,omitempty"`
	CEERating                    string  `json:"cee_rating,omitempty"`
}

type DeepDiveContent struct {
	Headline            string               `json:"headline"`
	ActionPlan          []model.ActionStep   `json:"action_plan"`
	CaseStudySummary    string               `json:"case_study_summary"`
	ContractClause      string               `json:"contract_clause"`
	FeasibilityTimeline string               `json:"feasibility_timeline"`
	SourceDocs          []SourceDoc          `json:"source_docs"`
	SourceCitations     []model.Citation     `json:"source_citations"`
	EvidenceStatus      model.EvidenceStatus `json:"evidence_status"`
}

// SourceDoc is the document-level rollup of the citations.
type SourceDoc struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Page     string `json:"page,omitempty"`
}

// BuildDeepDive assembles the deep-dive view for one benchmark and its
// recommendation.
func BuildDeepDive(b model.Benchmark, rec model.RecommendationContent) DeepDive {
	year := b.ComparisonYear
	if year == 0 {
		year = 2024
	}

	sourceDocs := make([]SourceDoc, 0, len(rec.SourceCitations))
	seen := make(map[string]bool)
	for _, c := range rec.SourceCitations {
		key := c.Title + "|" + c.Location
		if seen[key] {
			continue
		}
		seen[key] = true
		sourceDocs = append(sourceDocs, SourceDoc{
			Title:    c.Title,
			Location: c.Location,
			Page:     c.Page,
		})
	}

	return DeepDive{
		Meta: DeepDiveMeta{
			SupplierName:   b.SupplierName,
			PeerName:       b.PeerName,
			ComparisonYear: strconv.Itoa(year),
			IndustrySector: b.IndustrySector,
			Category:       b.Category,
			RevenueBand:    b.RevenueBand,
		},
		Metrics: DeepDiveMetrics{
			CurrentIntensity:             b.SupplierIntensity,
			TargetIntensity:              b.PeerIntensity,
			ReductionPotentialPercentage: b.PotentialReductionPct,
			UpstreamImpactPercentage:     b.UpstreamImpactPct,
			CEERating:                    b.CEERating,
		},
		Content: DeepDiveContent{
			Headline:            rec.Headline,
			ActionPlan:          rec.ActionPlan,
			CaseStudySummary:    rec.CaseStudySummary,
			ContractClause:      rec.ContractClause,
			FeasibilityTimeline: rec.FeasibilityTimeline,
			SourceDocs:          sourceDocs,
			SourceCitations:     rec.SourceCitations,
			EvidenceStatus:      rec.EvidenceStatus,
		},
	}
}
