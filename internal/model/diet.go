package model

// DietAllocation is the product of diet selection for one herbivore type:
// kg dry matter per individual per day taken from each forage pool, plus
// the intake-weighted quality totals the physiology update consumes.
type DietAllocation struct {
	Herbivore string

	// IntakeKgDay is daily intake per individual from each pool.
	IntakeKgDay map[PoolKey]float64

	// TotalKgDay is the summed daily dry-matter intake per individual.
	TotalKgDay float64
	// Digestibility is the intake-weighted mean digestibility of the diet.
	Digestibility float64
	// CrudeProteinKgDay is daily crude protein intake per individual.
	CrudeProteinKgDay float64
}

// NewDietAllocation returns an allocation with zero intake from every pool
// in forage, so downstream aggregation sees every pool it expects.
func NewDietAllocation(herbivore string, forage ForageState) DietAllocation {
	intake := make(map[PoolKey]float64, len(forage.Pools))
	for _, p := range forage.Pools {
		intake[p.Key()] = 0
	}
	return DietAllocation{Herbivore: herbivore, IntakeKgDay: intake}
}

// Recompute rebuilds the diet totals from the per-pool intakes. Called
// after cross-herbivore demand reduction rescales the intakes.
func (d *DietAllocation) Recompute(forage ForageState) {
	d.TotalKgDay = 0
	d.Digestibility = 0
	d.CrudeProteinKgDay = 0
	for _, p := range forage.Pools {
		kg := d.IntakeKgDay[p.Key()]
		d.TotalKgDay += kg
		d.Digestibility += kg * p.Digestibility
		d.CrudeProteinKgDay += kg * p.CrudeProtein
	}
	if d.TotalKgDay > 0 {
		d.Digestibility /= d.TotalKgDay
	}
}

// NutrientBalance is the per-step nutritional outcome for one herbivore
// type. Energy is metabolizable energy in MJ/day; protein is kg/day.
type NutrientBalance struct {
	Herbivore string

	// EnergyReqMJ is the daily maintenance energy requirement including
	// pregnancy and lactation terms.
	EnergyReqMJ float64
	// ProteinReqKg is the daily maintenance protein requirement including
	// pregnancy and lactation terms.
	ProteinReqKg float64
	// MEIMJ is realized metabolizable energy intake.
	MEIMJ float64
	// DPLSKg is realized digestible protein leaving the stomach.
	DPLSKg float64

	// IntakeKgDay is realized dry-matter intake per individual.
	IntakeKgDay float64
	// MilkKgDay is milk yield while lactating, else 0.
	MilkKgDay float64
	// WeightDeltaKg is the daily live-weight change driven by the balance.
	WeightDeltaKg float64
}

// EnergyRatio is intake relative to requirement; the headline diet
// sufficiency signal. Returns 0 when the requirement is zero.
func (b NutrientBalance) EnergyRatio() float64 {
	if b.EnergyReqMJ == 0 {
		return 0
	}
	return b.MEIMJ / b.EnergyReqMJ
}

// ProteinRatio is protein supply relative to requirement.
func (b NutrientBalance) ProteinRatio() float64 {
	if b.ProteinReqKg == 0 {
		return 0
	}
	return b.DPLSKg / b.ProteinReqKg
}
