package model

// Benchmark is a finished supplier/peer comparison record supplied by the
// benchmark-computation service. The pipeline consumes it as-is and never
// recomputes any of the intensity fields.
type Benchmark struct {
	ID                    string  `json:"id"`
	TenantID              string  `json:"tenant_id"`
	SupplierID            string  `json:"supplier_id"`
	SupplierName          string  `json:"supplier_name"`
	PeerID                string  `json:"peer_id"`
	PeerName              string  `json:"peer_name"`
	Category              string  `json:"category"`
	SupplierIntensity     float64 `json:"supplier_intensity"`
	PeerIntensity         float64 `json:"peer_intensity"`
	PotentialReductionPct float64 `json:"potential_reduction_pct"`

	// Display fields carried through to the deep-dive view.
	CEERating         string  `json:"cee_rating,omitempty"`
	UpstreamImpactPct float64 `json:"upstream_impact_pct,omitempty"`
	IndustrySector    string  `json:"industry_sector,omitempty"`
	RevenueBand       string  `json:"revenue_band,omitempty"`
	ComparisonYear    int     `json:"comparison_year,omitempty"`
}

// IsLeader reports whether the supplier already performs at or below the
// peer's intensity. Leaders are skipped during batch generation.
func (b Benchmark) IsLeader() bool {
	return b.SupplierIntensity <= b.PeerIntensity
}
