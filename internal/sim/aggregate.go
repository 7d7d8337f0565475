package sim

import (
	"gonum.org/v1/gonum/floats"

	"rangeland-forage/internal/diet"
	"rangeland-forage/internal/model"
)

// Aggregate folds the per-herbivore diet allocations into one grazing
// feedback per forage pool, in kg/ha over the step. Each herbivore type's
// contribution is its per-individual daily intake scaled by density and
// step length; the fold is a plain sum, so the result is independent of
// herbivore ordering.
func Aggregate(forage model.ForageState, herd []*model.Herbivore, allocs []model.DietAllocation) []model.GrazingFeedback {
	feedback := make([]model.GrazingFeedback, 0, len(forage.Pools))
	contributions := make([]float64, len(herd))
	for _, p := range forage.Pools {
		key := p.Key()
		for i, h := range herd {
			contributions[i] = allocs[i].IntakeKgDay[key] * h.Params.DensityPerHa * model.DaysPerStep
		}
		offtake := floats.Sum(contributions)
		fb := model.GrazingFeedback{Grass: p.Grass, Class: p.Class, OfftakeKgHa: offtake}
		if p.BiomassKgHa > 0 {
			fb.FracRemoved = offtake / p.BiomassKgHa
		}
		feedback = append(feedback, fb)
	}
	return feedback
}

// meanSegregation is the step's diet segregation score: the mean pairwise
// segregation over the herbivore types with a nonzero diet. 0 for fewer
// than two grazing types.
func meanSegregation(allocs []model.DietAllocation) float64 {
	sum, pairs := 0.0, 0
	for i := range allocs {
		if allocs[i].TotalKgDay == 0 {
			continue
		}
		for j := i + 1; j < len(allocs); j++ {
			if allocs[j].TotalKgDay == 0 {
				continue
			}
			sum += diet.Segregation(allocs[i], allocs[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}
