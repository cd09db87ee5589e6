package service

import "github.com/shopspring/decimal"

// ModelInfo describes a model the platform knows a power factor for. The
// power factor feeds the deterministic formula as kWh per token-hour.
type ModelInfo struct {
	Name        string          `json:"name"`
	PowerFactor decimal.Decimal `json:"power_factor"`
	Provider    string          `json:"provider"`
}

// KnownModels returns the stable model catalog. The platform still accepts
// arbitrary model names with caller-supplied power factors.
func KnownModels() []ModelInfo {
	return []ModelInfo{
		{Name: "gpt-4", PowerFactor: decimal.RequireFromString("0.0000036"), Provider: "OpenAI"},
		{Name: "gpt-4o", PowerFactor: decimal.RequireFromString("0.0000028"), Provider: "OpenAI"},
		{Name: "gpt-4o-mini", PowerFactor: decimal.RequireFromString("0.0000012"), Provider: "OpenAI"},

		{Name: "claude-3-opus", PowerFactor: decimal.RequireFromString("0.0000032"), Provider: "Anthropic"},
		{Name: "claude-3.5-sonnet", PowerFactor: decimal.RequireFromString("0.0000024"), Provider: "Anthropic"},

		{Name: "gemini-1.5-pro", PowerFactor: decimal.RequireFromString("0.0000026"), Provider: "Google"},
		{Name: "gemini-1.5-flash", PowerFactor: decimal.RequireFromString("0.0000015"), Provider: "Google"},

		{Name: "llama-3.1-70b", PowerFactor: decimal.RequireFromString("0.0000036"), Provider: "Meta"},
		{Name: "llama-3.1-8b", PowerFactor: decimal.RequireFromString("0.0000010"), Provider: "Meta"},

		{Name: "mistral-large", PowerFactor: decimal.RequireFromString("0.0000027"), Provider: "Mistral"},
		{Name: "mistral-small", PowerFactor: decimal.RequireFromString("0.0000014"), Provider: "Mistral"},
	}
}

// KnownRegions lists common region identifiers (GCP-style). Custom regions
// are accepted everywhere; unknown ones resolve to the default intensity.
func KnownRegions() []string {
	return []string{
		"africa-south1",

		"asia-east1",
		"asia-east2",
		"asia-northeast1",
		"asia-south1",
		"asia-southeast1",

		"australia-southeast1",

		"europe-central2",
		"europe-north1",
		"europe-west1",
		"europe-west2",
		"europe-west3",
		"europe-west4",

		"me-central1",
		"me-west1",

		"northamerica-northeast1",
		"southamerica-east1",

		"us-central1",
		"us-east1",
		"us-east4",
		"us-south1",
		"us-west1",
		"us-west2",
	}
}
