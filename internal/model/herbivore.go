package model

import "math"

// Stage is the reproductive state of a herbivore type. Transitions between
// stages are supplied by the caller; the engine only advances day counters.
type Stage string

const (
	StageNonBreeding Stage = "non_breeding"
	StagePregnant    Stage = "pregnant"
	StageLactating   Stage = "lactating"
)

// Sex scales the standard reference weight and maintenance requirement.
type Sex string

const (
	SexFemale      Sex = "female"
	SexEntireMale  Sex = "entire_m"
	SexCastrate    Sex = "castrate"
	SexHerdAverage Sex = "herd_average"
)

// refMatureWeightKg is the reference mature cow weight used to express
// absolute animal size for bite-size effects on intake.
const refMatureWeightKg = 542.0

// HerbivoreParams defines a herbivore type.
// Units:
// - SRWKg: standard reference weight of a mature female, kg
// - DensityPerHa: individuals per hectare
// - Preferences: grass label -> weight in [0, 1]; an absent label means 1
type HerbivoreParams struct {
	Name          string
	Breed         string
	Sex           Sex
	SRWKg         float64
	BirthWeightKg float64
	DensityPerHa  float64
	Preferences   map[string]float64
}

// HerbivoreState captures the mutable physiological state carried across
// steps. It is replaced wholesale by the physiology update each step.
type HerbivoreState struct {
	WeightKg     float64
	PrevWeightKg float64
	AgeDays      float64

	Stage Stage
	// StageDays counts days into gestation or lactation; unused while
	// non-breeding.
	StageDays float64
	// Offspring is the number of suckling young while lactating.
	Offspring int
}

// Herbivore bundles params, breed constants and state for one herbivore type.
type Herbivore struct {
	Params HerbivoreParams
	Breed  BreedParams
	State  HerbivoreState
}

// NewHerbivore resolves the breed, applies the sex scaling of reference
// weight, and validates the result.
func NewHerbivore(params HerbivoreParams, state HerbivoreState) (*Herbivore, error) {
	breed, err := BreedByName(params.Breed)
	if err != nil {
		return nil, &ValidationError{Subject: params.Name, Field: "breed", Reason: err.Error()}
	}
	switch params.Sex {
	case SexEntireMale:
		params.SRWKg *= 1.4
	case SexCastrate:
		params.SRWKg *= 1.2
	case SexHerdAverage:
		params.SRWKg *= (1.0 + 1.4) / 2
	}
	if state.PrevWeightKg == 0 {
		state.PrevWeightKg = state.WeightKg
	}
	h := &Herbivore{Params: params, Breed: breed, State: state}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Herbivore) Validate() error {
	p := h.Params
	if p.Name == "" {
		return &ValidationError{Subject: "herbivore", Field: "name", Reason: "name is required"}
	}
	if p.SRWKg <= 0 {
		return &ValidationError{Subject: p.Name, Field: "srw_kg", Value: p.SRWKg, Reason: "standard reference weight must be > 0"}
	}
	if p.BirthWeightKg <= 0 || p.BirthWeightKg >= p.SRWKg {
		return &ValidationError{Subject: p.Name, Field: "birth_weight_kg", Value: p.BirthWeightKg, Reason: "birth weight must be in (0, srw)"}
	}
	if p.DensityPerHa < 0 {
		return &ValidationError{Subject: p.Name, Field: "density_per_ha", Value: p.DensityPerHa, Reason: "density must be >= 0"}
	}
	for grass, w := range p.Preferences {
		if w < 0 || w > 1 {
			return &ValidationError{Subject: p.Name, Field: "preference." + grass, Value: w, Reason: "preference weight must be in [0, 1]"}
		}
	}
	switch p.Sex {
	case SexFemale, SexEntireMale, SexCastrate, SexHerdAverage:
	default:
		return &ValidationError{Subject: p.Name, Field: "sex", Reason: "unknown sex class"}
	}
	s := h.State
	if s.WeightKg <= 0 {
		return &ValidationError{Subject: p.Name, Field: "weight_kg", Value: s.WeightKg, Reason: "weight must be > 0"}
	}
	if s.AgeDays < 0 {
		return &ValidationError{Subject: p.Name, Field: "age_days", Value: s.AgeDays, Reason: "age must be >= 0"}
	}
	switch s.Stage {
	case StageNonBreeding, StagePregnant, StageLactating:
	default:
		return &ValidationError{Subject: p.Name, Field: "stage", Reason: "unknown reproductive stage"}
	}
	if s.StageDays < 0 {
		return &ValidationError{Subject: p.Name, Field: "stage_days", Value: s.StageDays, Reason: "stage day counter must be >= 0"}
	}
	if s.Stage == StagePregnant && s.StageDays > h.Breed.GestationDays {
		return &ValidationError{Subject: p.Name, Field: "stage_days", Value: s.StageDays, Reason: "gestation day counter exceeds gestation length"}
	}
	return nil
}

// Preference returns the diet-preference weight for a grass label,
// defaulting to 1 for grasses the type has no stated preference about.
func (h *Herbivore) Preference(grass string) float64 {
	if h.Params.Preferences == nil {
		return 1
	}
	if w, ok := h.Params.Preferences[grass]; ok {
		return w
	}
	return 1
}

// MaxNormalWeightKg is the weight the animal would have reached at its age
// under unrestricted nutrition.
func (h *Herbivore) MaxNormalWeightKg() float64 {
	srw, wb := h.Params.SRWKg, h.Params.BirthWeightKg
	return srw - (srw-wb)*math.Exp(-h.Breed.GrowthRate*h.State.AgeDays/math.Pow(srw, h.Breed.GrowthExponent))
}

// NormalWeightKg blends the age-expected weight with achieved weight, so an
// animal held below its growth curve is treated as a smaller animal rather
// than a thin large one.
func (h *Herbivore) NormalWeightKg() float64 {
	nmax := h.MaxNormalWeightKg()
	if h.State.PrevWeightKg >= nmax {
		return nmax
	}
	blend := h.Breed.NormalWeightBlend
	return blend*nmax + (1-blend)*h.State.PrevWeightKg
}

// RelativeSize is normal weight relative to the standard reference weight.
func (h *Herbivore) RelativeSize() float64 {
	return h.NormalWeightKg() / h.Params.SRWKg
}

// Condition is current weight relative to normal weight: the body-condition
// analogue used to modulate intake and gain composition.
func (h *Herbivore) Condition() float64 {
	return h.State.WeightKg / h.NormalWeightKg()
}

// AbsoluteSize expresses normal weight against a reference mature cow, used
// for the bite-size limitation on intake of sparse swards.
func (h *Herbivore) AbsoluteSize() float64 {
	return h.NormalWeightKg() / refMatureWeightKg
}

// BiteSizeFactor scales the effective sward density for small animals,
// whose smaller bites harvest short pasture relatively better.
func (h *Herbivore) BiteSizeFactor() float64 {
	if z := h.AbsoluteSize(); z < h.Breed.SmallSizeRef {
		return 1 + (h.Breed.SmallSizeRef - z)
	}
	return 1
}
