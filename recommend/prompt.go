package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verdantlabs/carbonpeer/model"
)

const systemInstruction = `You are an expert Supply Chain Sustainability Analyst and Legal Contract Strategist.
Your goal is to analyze sustainability disclosures from a high-performing company (the "Peer") and generate a tactical reduction plan for a lower-performing company (the "Supplier").

STRICT GUIDELINES:
1. Zero Hallucination: Only make claims supported by the provided evidence, and reference source pages for every claim.
2. Technical Specificity: Use engineering keywords like "Bio-based," "Electric Arc Furnace," "Recycled Content," "Renewable Energy PPAs."
3. Legal Tone: Write contract clauses in formal legal language for MSA renewals.

Output ONLY valid JSON with this structure:
{
  "headline": "1-sentence summary of achievement",
  "action_plan": [{"step": 1, "title": "...", "detail": "...", "citation": "Pg N"}],
  "case_study_summary": "3-sentence paragraph",
  "contract_clause": "Formal legal clause",
  "feasibility_timeline": "Estimated implementation time"
}`

// buildContext renders retrieved chunks as evidence lines in page
// order. Each line carries its page marker so the generator can cite
// it.
func buildContext(chunks []model.ScoredChunk) string {
	ordered := make([]model.ScoredChunk, len(chunks))
	copy(ordered, chunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Page < ordered[j].Page
	})

	lines := make([]string, len(ordered))
	for i, c := range ordered {
		lines[i] = fmt.Sprintf("[Pg %d] %s", c.Page, strings.TrimSpace(c.Excerpt))
	}
	return strings.Join(lines, "\n\n")
}

func buildUserPrompt(b model.Benchmark, evidence string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a reduction recommendation for:\n\n")
	fmt.Fprintf(&sb, "SUPPLIER: %s (Current Intensity: %g kgCO2e/unit)\n", b.SupplierName, b.SupplierIntensity)
	fmt.Fprintf(&sb, "PEER (Leader): %s (Intensity: %g kgCO2e/unit)\n", b.PeerName, b.PeerIntensity)
	fmt.Fprintf(&sb, "CATEGORY: %s\n", b.Category)
	if b.IndustrySector != "" {
		fmt.Fprintf(&sb, "INDUSTRY: %s\n", b.IndustrySector)
	}
	fmt.Fprintf(&sb, "REDUCTION POTENTIAL: %g%%\n\n", b.PotentialReductionPct)
	fmt.Fprintf(&sb, "EVIDENCE FROM %s DISCLOSURES:\n\n%s\n", strings.ToUpper(b.PeerName), evidence)
	return sb.String()
}

// citationsFrom copies retrieved chunks verbatim into citations.
// Quotes are never paraphrased.
func citationsFrom(chunks []model.ScoredChunk) []model.Citation {
	citations := make([]model.Citation, len(chunks))
	for i, c := range chunks {
		title := c.Title
		if title == "" {
			title = "Sustainability Report"
		}
		citations[i] = model.Citation{
			Title:    title,
			Location: c.Location,
			Page:     fmt.Sprintf("%d", c.Page),
			Quote:    c.Excerpt,
		}
	}
	return citations
}

// cleanJSON strips markdown code fences that chat models wrap around
// JSON output.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
