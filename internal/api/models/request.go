package models

// SimulateRequest carries a complete inline simulation setup.
type SimulateRequest struct {
	Run        RunRequest         `json:"run" binding:"required"`
	Grasses    []GrassRequest     `json:"grasses" binding:"required,min=1"`
	Herbivores []HerbivoreRequest `json:"herbivores" binding:"required,min=1"`

	// Preferences maps herbivore name to per-grass preference weights.
	Preferences map[string]map[string]float64 `json:"preferences"`

	// Persist stores the finished run in the results database.
	Persist bool `json:"persist"`
}

type RunRequest struct {
	StartYear  int `json:"start_year" binding:"required"`
	StartMonth int `json:"start_month" binding:"required,min=1,max=12"`
	Months     int `json:"months" binding:"required,min=1"`

	ManagementThreshold   float64 `json:"management_threshold"`
	EstimateDigestibility bool    `json:"estimate_digestibility"`
}

type GrassRequest struct {
	Name  string `json:"name" binding:"required"`
	Habit string `json:"habit"`

	GreenKgHa float64 `json:"green_kg_ha"`
	DeadKgHa  float64 `json:"dead_kg_ha"`

	GreenDigestibility float64 `json:"dmd_green"`
	DeadDigestibility  float64 `json:"dmd_dead"`
	GreenCrudeProtein  float64 `json:"cp_green"`
	DeadCrudeProtein   float64 `json:"cp_dead"`

	GrowthRate     float64 `json:"growth_rate"`
	CarryingKgHa   float64 `json:"carrying_kg_ha"`
	SenescenceRate float64 `json:"senescence_rate"`
	DecayRate      float64 `json:"decay_rate"`
}

type HerbivoreRequest struct {
	Name          string  `json:"name" binding:"required"`
	Breed         string  `json:"breed" binding:"required"`
	Sex           string  `json:"sex"`
	SRWKg         float64 `json:"srw_kg" binding:"required"`
	BirthWeightKg float64 `json:"birth_weight_kg" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	AgeDays       float64 `json:"age_days"`
	DensityPerHa  float64 `json:"density_per_ha"`
	Stage         string  `json:"stage"`
	StageDays     float64 `json:"stage_days"`
	Offspring     int     `json:"offspring"`
}
