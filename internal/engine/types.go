package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DTOs mirroring the ai-engine JSON contract. Field names are kept stable;
// the engine speaks camelCase.

// RegionCarbonResponse is the intensity lookup result.
type RegionCarbonResponse struct {
	Region                 string           `json:"region"`
	CarbonIntensityGPerKWh *decimal.Decimal `json:"carbonIntensityGPerKwh"`
	Source                 string           `json:"source"`
}

// EmissionCalcRequest asks the engine to compute a full emission breakdown.
type EmissionCalcRequest struct {
	Model                 string          `json:"model"`
	Region                string          `json:"region"`
	Tokens                int64           `json:"tokens"`
	RuntimeSeconds        float64         `json:"runtimeSeconds"`
	ModelPowerFactor      decimal.Decimal `json:"modelPowerFactor"`
	RegionCarbonIntensity decimal.Decimal `json:"regionCarbonIntensity"`
	WaterFactor           decimal.Decimal `json:"waterFactor"`
}

// EmissionCalcResponse is the engine's emission breakdown. GreenScore is
// optional: older engine builds omit it and the caller derives one locally.
type EmissionCalcResponse struct {
	EnergyKWh   decimal.Decimal        `json:"energyKwh"`
	CO2Grams    decimal.Decimal        `json:"co2Grams"`
	WaterLiters decimal.Decimal        `json:"waterLiters"`
	GreenScore  *int                   `json:"greenScore"`
	Extras      map[string]interface{} `json:"extras,omitempty"`
}

// AdvisorRequest asks for usage-reduction advice.
type AdvisorRequest struct {
	Model          string          `json:"model"`
	Region         string          `json:"region"`
	Tokens         int64           `json:"tokens"`
	RuntimeSeconds float64         `json:"runtimeSeconds"`
	CO2Grams       decimal.Decimal `json:"co2Grams"`
	EnergyKWh      decimal.Decimal `json:"energyKwh"`
}

// AdvisorResponse groups advice by theme.
type AdvisorResponse struct {
	Recommendations       []string `json:"recommendations"`
	ModelSuggestions      []string `json:"modelSuggestions"`
	TokenOptimizationTips []string `json:"tokenOptimizationTips"`
}

// ScheduleRequest asks for the best region and start time for a workload.
type ScheduleRequest struct {
	Model            string     `json:"model"`
	Tokens           int64      `json:"tokens"`
	RuntimeSeconds   float64    `json:"runtimeSeconds"`
	CandidateRegions []string   `json:"candidateRegions"`
	NotBefore        *time.Time `json:"notBefore,omitempty"`
	NotAfter         *time.Time `json:"notAfter,omitempty"`
}

// ScheduleResponse is a scheduling recommendation.
type ScheduleResponse struct {
	RecommendedRegion    string    `json:"recommendedRegion"`
	RecommendedStartTime time.Time `json:"recommendedStartTime"`
	Rationale            string    `json:"rationale"`
}

// OptimizeRequest asks for a greener variant of a planned usage.
type OptimizeRequest struct {
	Model          string   `json:"model"`
	Region         string   `json:"region"`
	Tokens         int64    `json:"tokens"`
	RuntimeSeconds float64  `json:"runtimeSeconds"`
	Constraints    []string `json:"constraints"`
}

// OptimizeResponse is an optimization recommendation.
type OptimizeResponse struct {
	RecommendedModel  string `json:"recommendedModel"`
	RecommendedRegion string `json:"recommendedRegion"`
	RecommendedTokens int64  `json:"recommendedTokens"`
	Rationale         string `json:"rationale"`
}
