// Package diet implements diet selection: allocating daily dry-matter
// intake across forage pools for a herbivore type, under the gut-capacity
// and forage-availability constraints.
package diet

import (
	"sort"

	"rangeland-forage/internal/model"
)

// rankedPool pairs a forage pool with the marginal value driving the
// allocation order.
type rankedPool struct {
	pool  model.FeedPool
	value float64
}

// Ingestibility is the relative nutritional value of a pool to a grazing
// ruminant: it saturates at the breed's quality ceiling and falls off
// linearly with the digestibility deficit, with the C4 habit offset applied.
func Ingestibility(breed model.BreedParams, pool model.FeedPool) float64 {
	rq := 1 - breed.QualitySlope*(breed.QualityCeiling-pool.IngestibilityOffset()-pool.Digestibility)
	if rq < 0 {
		return 0
	}
	if rq > 1 {
		return 1
	}
	return rq
}

// availabilityBoost raises a pool's marginal value with its share of the
// standing sward. The boost scales with the bite-size factor: small
// animals crop short swards relatively better, so abundance matters more
// to them.
func availabilityBoost(forage model.ForageState, h *model.Herbivore, p model.FeedPool) float64 {
	return 1 + h.Breed.RelAvailScale*forage.RelativeAvailability(p.Key())*h.BiteSizeFactor()
}

// Select computes the diet of one herbivore type given the step's forage
// state and a daily intake capacity (kg dry matter per individual).
//
// Pools are ranked by marginal nutrient value: the preference-weighted
// ingestibility of the pool, raised with the pool's share of the standing
// sward. The ranking's tie-breaks are exact: higher digestibility first,
// green before dead, then grass label. Intake is then filled greedily:
// each pool contributes up to the lesser of the remaining capacity and
// the pool's standing biomass divided over this type's density for the
// step. Pools with zero biomass or zero marginal value contribute
// nothing, so forage too poor to yield metabolizable energy is refused
// rather than eaten; a zero-density or zero-capacity herbivore receives
// an all-zero allocation.
//
// Select is a pure function of its inputs. Competition between herbivore
// types for the same pool is resolved afterwards by ReduceDemand.
func Select(forage model.ForageState, h *model.Herbivore, capacityKgDay float64) model.DietAllocation {
	alloc := model.NewDietAllocation(h.Params.Name, forage)
	if capacityKgDay <= 0 || h.Params.DensityPerHa <= 0 {
		return alloc
	}

	ranked := make([]rankedPool, 0, len(forage.Pools))
	for _, p := range forage.Pools {
		if p.BiomassKgHa <= 0 {
			continue
		}
		value := h.Preference(p.Grass) * Ingestibility(h.Breed, p) * availabilityBoost(forage, h, p)
		if value <= 0 {
			continue
		}
		ranked = append(ranked, rankedPool{pool: p, value: value})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.value != b.value {
			return a.value > b.value
		}
		if a.pool.Digestibility != b.pool.Digestibility {
			return a.pool.Digestibility > b.pool.Digestibility
		}
		if a.pool.Class != b.pool.Class {
			return a.pool.Class == model.ClassGreen
		}
		return a.pool.Grass < b.pool.Grass
	})

	remaining := capacityKgDay
	for _, r := range ranked {
		if remaining <= 0 {
			break
		}
		// The most one individual can claim without this type alone
		// oversubscribing the pool over the step.
		availKgDay := r.pool.BiomassKgHa / (h.Params.DensityPerHa * model.DaysPerStep)
		take := remaining
		if availKgDay < take {
			take = availKgDay
		}
		alloc.IntakeKgDay[r.pool.Key()] = take
		remaining -= take
	}
	alloc.Recompute(forage)
	return alloc
}

// ReduceDemand resolves competition between herbivore types for the same
// forage pool. Where the density-weighted step demand on a pool exceeds its
// standing biomass, every type's intake of that pool is scaled down by its
// share of total demand, and diet totals are recomputed. The reduction is
// proportional, so it is independent of herbivore ordering.
//
// Returns an AllocationError if a pool would be left with negative residual
// biomass even after reduction.
func ReduceDemand(step model.Step, forage model.ForageState, herd []*model.Herbivore, allocs []model.DietAllocation) error {
	for _, p := range forage.Pools {
		key := p.Key()
		demand := 0.0
		for i, h := range herd {
			demand += allocs[i].IntakeKgDay[key] * h.Params.DensityPerHa * model.DaysPerStep
		}
		if demand <= p.BiomassKgHa {
			continue
		}
		if p.BiomassKgHa < 0 || demand <= 0 {
			return &model.AllocationError{
				Step:         step.Index,
				Grass:        p.Grass,
				Class:        p.Class,
				DemandKgHa:   demand,
				StandingKgHa: p.BiomassKgHa,
			}
		}
		scale := p.BiomassKgHa / demand
		for i := range allocs {
			allocs[i].IntakeKgDay[key] *= scale
		}
	}
	for i := range allocs {
		allocs[i].Recompute(forage)
	}
	return nil
}
