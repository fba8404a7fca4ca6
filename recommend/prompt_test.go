package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/carbonpeer/model"
)

func scored(page int, excerpt string, score float64) model.ScoredChunk {
	return model.ScoredChunk{
		DisclosureChunk: model.DisclosureChunk{
			Title:    "Report",
			Location: "seed://report",
			Page:     page,
			Excerpt:  excerpt,
		},
		Score: score,
	}
}

func TestBuildContextOrdersByPage(t *testing.T) {
	chunks := []model.ScoredChunk{
		scored(47, "wind PPA", 0.9),
		scored(12, "EAF conversion", 0.7),
		scored(13, "SSAB Zero shipments", 0.5),
	}

	context := buildContext(chunks)
	assert.Equal(t, "[Pg 12] EAF conversion\n\n[Pg 13] SSAB Zero shipments\n\n[Pg 47] wind PPA", context)
}

func TestBuildContextTrimsExcerpts(t *testing.T) {
	context := buildContext([]model.ScoredChunk{scored(5, "  padded excerpt \n", 1)})
	assert.Equal(t, "[Pg 5] padded excerpt", context)
}

func TestCitationsFromCopiesVerbatim(t *testing.T) {
	chunks := []model.ScoredChunk{scored(12, "The EAF route uses recycled scrap.", 0.8)}

	citations := citationsFrom(chunks)
	require.Len(t, citations, 1)
	assert.Equal(t, "Report", citations[0].Title)
	assert.Equal(t, "seed://report", citations[0].Location)
	assert.Equal(t, "12", citations[0].Page)
	assert.Equal(t, "The EAF route uses recycled scrap.", citations[0].Quote)
}

func TestCitationsFromDefaultsTitle(t *testing.T) {
	chunk := scored(3, "q", 1)
	chunk.Title = ""
	citations := citationsFrom([]model.ScoredChunk{chunk})
	assert.Equal(t, "Sustainability Report", citations[0].Title)
}

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanJSON(tc.in))
		})
	}
}

func TestBuildUserPromptIncludesBenchmarkFacts(t *testing.T) {
	prompt := buildUserPrompt(testBenchmark(), "[Pg 12] evidence")

	assert.Contains(t, prompt, "SUPPLIER: Nucor Steel (Current Intensity: 0.28 kgCO2e/unit)")
	assert.Contains(t, prompt, "PEER (Leader): SSAB AB (Intensity: 0.19 kgCO2e/unit)")
	assert.Contains(t, prompt, "CATEGORY: Purchased Goods & Services")
	assert.Contains(t, prompt, "INDUSTRY: Steel Production")
	assert.Contains(t, prompt, "REDUCTION POTENTIAL: 32.1%")
	assert.Contains(t, prompt, "[Pg 12] evidence")
}
