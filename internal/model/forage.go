package model

// PoolClass distinguishes the live and standing-dead fractions of a grass
// type, which differ in digestibility and protein content.
type PoolClass string

const (
	ClassGreen PoolClass = "green"
	ClassDead  PoolClass = "dead"
)

// GrowthHabit is the photosynthetic pathway of a grass type. C4 grasses get
// an ingestibility offset during diet selection.
type GrowthHabit string

const (
	HabitC3 GrowthHabit = "C3"
	HabitC4 GrowthHabit = "C4"
)

// PoolKey identifies one selectable forage pool: a grass type plus its
// green or dead fraction.
type PoolKey struct {
	Grass string
	Class PoolClass
}

// FeedPool describes one selectable forage pool for a step.
// Units:
// - BiomassKgHa: kg dry matter per hectare
// - Digestibility: fraction 0..1
// - CrudeProtein: fraction 0..1
type FeedPool struct {
	Grass string
	Class PoolClass
	Habit GrowthHabit

	BiomassKgHa   float64
	Digestibility float64
	CrudeProtein  float64
}

func (p FeedPool) Key() PoolKey {
	return PoolKey{Grass: p.Grass, Class: p.Class}
}

// IngestibilityOffset is the habit-dependent term added to digestibility
// when computing relative ingestibility. C4 grasses are selected as if
// slightly more digestible than their measured digestibility.
func (p FeedPool) IngestibilityOffset() float64 {
	if p.Habit == HabitC4 {
		return 0.16
	}
	return 0
}

// EstimateDigestibilityFromProtein replaces the pool's digestibility with a
// value regressed from crude protein concentration (Illius et al. 1995,
// developed for African perennial grasses). Green and dead fractions use
// different regression constants.
func (p *FeedPool) EstimateDigestibilityFromProtein() {
	nitrogen := p.CrudeProtein * 100 / 6.25
	if p.Class == ClassGreen {
		p.Digestibility = ((nitrogen + 1.07) / 0.053) / 100
	} else {
		p.Digestibility = ((nitrogen + 0.77) / 0.034) / 100
	}
}

// ForageState is the step-scoped forage picture handed to diet selection:
// one pool per (grass type, class) present in the pasture.
type ForageState struct {
	Pools []FeedPool
}

// TotalBiomassKgHa sums standing biomass across all pools.
func (f ForageState) TotalBiomassKgHa() float64 {
	sum := 0.0
	for _, p := range f.Pools {
		sum += p.BiomassKgHa
	}
	return sum
}

// GreenBiomassKgHa sums standing biomass of green pools.
func (f ForageState) GreenBiomassKgHa() float64 {
	sum := 0.0
	for _, p := range f.Pools {
		if p.Class == ClassGreen {
			sum += p.BiomassKgHa
		}
	}
	return sum
}

// Pool returns the pool for key, if present.
func (f ForageState) Pool(key PoolKey) (FeedPool, bool) {
	for _, p := range f.Pools {
		if p.Key() == key {
			return p, true
		}
	}
	return FeedPool{}, false
}

// RelativeAvailability is the pool's share of total standing biomass.
// Returns 0 for an empty pasture.
func (f ForageState) RelativeAvailability(key PoolKey) float64 {
	total := f.TotalBiomassKgHa()
	if total <= 0 {
		return 0
	}
	p, ok := f.Pool(key)
	if !ok {
		return 0
	}
	return p.BiomassKgHa / total
}

// Validate checks every pool attribute against its valid domain.
func (f ForageState) Validate() error {
	if len(f.Pools) == 0 {
		return &ValidationError{Subject: "forage", Field: "pools", Reason: "no forage pools supplied"}
	}
	seen := make(map[PoolKey]bool, len(f.Pools))
	for _, p := range f.Pools {
		subject := p.Grass + "/" + string(p.Class)
		if p.Grass == "" {
			return &ValidationError{Subject: subject, Field: "grass", Reason: "grass label is required"}
		}
		if p.Class != ClassGreen && p.Class != ClassDead {
			return &ValidationError{Subject: subject, Field: "class", Reason: "class must be green or dead"}
		}
		if p.Habit != HabitC3 && p.Habit != HabitC4 {
			return &ValidationError{Subject: subject, Field: "habit", Reason: "growth habit must be C3 or C4"}
		}
		if seen[p.Key()] {
			return &ValidationError{Subject: subject, Field: "class", Reason: "duplicate forage pool"}
		}
		seen[p.Key()] = true
		if p.BiomassKgHa < 0 {
			return &ValidationError{Subject: subject, Field: "biomass_kg_ha", Value: p.BiomassKgHa, Reason: "biomass must be >= 0"}
		}
		if p.Digestibility < 0 || p.Digestibility > 1 {
			return &ValidationError{Subject: subject, Field: "digestibility", Value: p.Digestibility, Reason: "digestibility must be in [0, 1]"}
		}
		if p.CrudeProtein < 0 || p.CrudeProtein > 1 {
			return &ValidationError{Subject: subject, Field: "crude_protein", Value: p.CrudeProtein, Reason: "crude protein must be in [0, 1]"}
		}
	}
	return nil
}

// GrazingFeedback is the per-pool defoliation signal returned to the grass
// growth model after a step: total offtake aggregated over all herbivore
// types and densities.
type GrazingFeedback struct {
	Grass string
	Class PoolClass

	// OfftakeKgHa is biomass removed by grazing during the step.
	OfftakeKgHa float64
	// FracRemoved is offtake as a fraction of pre-grazing biomass, the form
	// most growth models take a defoliation event in. Zero for an empty pool.
	FracRemoved float64
}
