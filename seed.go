package main

import (
	"github.com/google/uuid"

	"github.com/verdantlabs/carbonpeer/model"
)

// mockBenchmarks is the demonstration benchmark set: supplier/peer
// comparisons across common Scope 3 categories, as delivered by the
// benchmark-computation service.
func mockBenchmarks(tenantID string) []model.Benchmark {
	rows := []model.Benchmark{
		{
			SupplierID: "ppg_001", SupplierName: "PPG Industries",
			PeerID: "sika_001", PeerName: "Sika AG",
			Category: "Purchased Goods & Services", CEERating: "C-",
			SupplierIntensity: 0.45, PeerIntensity: 0.35,
			PotentialReductionPct: 22.0, UpstreamImpactPct: 8.78,
			IndustrySector: "Chemicals & Coatings", RevenueBand: "$10B-$20B",
		},
		{
			SupplierID: "ups_001", SupplierName: "UPS Logistics",
			PeerID: "dhl_001", PeerName: "DHL Express",
			Category: "Transport & Distribution", CEERating: "B",
			SupplierIntensity: 0.32, PeerIntensity: 0.27,
			PotentialReductionPct: 15.6, UpstreamImpactPct: 4.12,
			IndustrySector: "Logistics", RevenueBand: "$50B+",
		},
		{
			SupplierID: "dow_001", SupplierName: "Dow Chemical",
			PeerID: "basf_001", PeerName: "BASF SE",
			Category: "Fuel & Energy Activities", CEERating: "C",
			SupplierIntensity: 0.58, PeerIntensity: 0.47,
			PotentialReductionPct: 18.9, UpstreamImpactPct: 3.05,
			IndustrySector: "Petrochemicals", RevenueBand: "$50B+",
		},
		{
			SupplierID: "cat_001", SupplierName: "Caterpillar Inc",
			PeerID: "komatsu_001", PeerName: "Komatsu Ltd",
			Category: "Capital Goods", CEERating: "C+",
			SupplierIntensity: 0.42, PeerIntensity: 0.33,
			PotentialReductionPct: 21.4, UpstreamImpactPct: 2.89,
			IndustrySector: "Heavy Machinery", RevenueBand: "$50B+",
		},
		{
			SupplierID: "ford_001", SupplierName: "Ford Motor Co",
			PeerID: "tesla_001", PeerName: "Tesla Inc",
			Category: "Purchased Goods & Services", CEERating: "D+",
			SupplierIntensity: 0.68, PeerIntensity: 0.41,
			PotentialReductionPct: 39.7, UpstreamImpactPct: 2.45,
			IndustrySector: "Automotive", RevenueBand: "$100B+",
		},
		{
			SupplierID: "alcoa_001", SupplierName: "Alcoa Corporation",
			PeerID: "novelis_001", PeerName: "Novelis Inc",
			Category: "Purchased Goods & Services", CEERating: "C-",
			SupplierIntensity: 0.72, PeerIntensity: 0.52,
			PotentialReductionPct: 27.8, UpstreamImpactPct: 2.31,
			IndustrySector: "Aluminum Production", RevenueBand: "$10B-$20B",
		},
		{
			SupplierID: "maersk_001", SupplierName: "Maersk Line",
			PeerID: "cma_001", PeerName: "CMA CGM",
			Category: "Transport & Distribution", CEERating: "B-",
			SupplierIntensity: 0.38, PeerIntensity: 0.31,
			PotentialReductionPct: 18.4, UpstreamImpactPct: 1.98,
			IndustrySector: "Maritime Shipping", RevenueBand: "$50B+",
		},
		{
			SupplierID: "nucor_001", SupplierName: "Nucor Steel",
			PeerID: "ssab_001", PeerName: "SSAB AB",
			Category: "Purchased Goods & Services", CEERating: "B+",
			SupplierIntensity: 0.28, PeerIntensity: 0.19,
			PotentialReductionPct: 32.1, UpstreamImpactPct: 1.76,
			IndustrySector: "Steel Production", RevenueBand: "$20B-$50B",
		},
		{
			SupplierID: "dupont_001", SupplierName: "DuPont de Nemours",
			PeerID: "dsm_001", PeerName: "DSM-Firmenich",
			Category: "Fuel & Energy Activities", CEERating: "B",
			SupplierIntensity: 0.35, PeerIntensity: 0.28,
			PotentialReductionPct: 20.0, UpstreamImpactPct: 1.54,
			IndustrySector: "Specialty Chemicals", RevenueBand: "$10B-$20B",
		},
		{
			SupplierID: "fedex_001", SupplierName: "FedEx Corporation",
			PeerID: "ups_green_001", PeerName: "UPS Green Fleet",
			Category: "Transport & Distribution", CEERating: "B-",
			SupplierIntensity: 0.41, PeerIntensity: 0.32,
			PotentialReductionPct: 22.0, UpstreamImpactPct: 1.42,
			IndustrySector: "Logistics", RevenueBand: "$50B+",
		},
		{
			SupplierID: "packaging_001", SupplierName: "International Paper",
			PeerID: "stora_001", PeerName: "Stora Enso",
			Category: "Packaging Materials", CEERating: "C+",
			SupplierIntensity: 0.48, PeerIntensity: 0.36,
			PotentialReductionPct: 25.0, UpstreamImpactPct: 1.28,
			IndustrySector: "Paper & Packaging", RevenueBand: "$20B-$50B",
		},
		{
			SupplierID: "cement_001", SupplierName: "LafargeHolcim",
			PeerID: "heidelberg_001", PeerName: "Heidelberg Materials",
			Category: "Purchased Goods & Services", CEERating: "D",
			SupplierIntensity: 0.82, PeerIntensity: 0.65,
			PotentialReductionPct: 20.7, UpstreamImpactPct: 1.15,
			IndustrySector: "Cement & Aggregates", RevenueBand: "$20B-$50B",
		},
	}

	for i := range rows {
		rows[i].ID = uuid.NewString()
		rows[i].TenantID = tenantID
		rows[i].ComparisonYear = 2024
	}
	return rows
}

// seedSources maps built-in corpus documents to the peers and
// categories they evidence.
func seedSources(tenantID string) []model.DisclosureSource {
	return []model.DisclosureSource{
		{TenantID: tenantID, CompanyID: "ssab_001", Category: "Purchased Goods & Services", Location: "seed://ssab-annual-report-2023"},
		{TenantID: tenantID, CompanyID: "sika_001", Category: "Purchased Goods & Services", Location: "seed://sika-sustainability-report-2023"},
		{TenantID: tenantID, CompanyID: "dhl_001", Category: "Transport & Distribution", Location: "seed://dhl-esg-report-2023"},
		{TenantID: tenantID, CompanyID: "cma_001", Category: "Transport & Distribution", Location: "seed://cmacgm-csr-report-2023"},
		{TenantID: tenantID, CompanyID: "stora_001", Category: "Packaging Materials", Location: "seed://storaenso-annual-report-2023"},
	}
}
