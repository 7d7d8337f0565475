// Package analysis summarizes a finished run: per-herbivore diet
// sufficiency statistics and the segregation between herbivore diets.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"rangeland-forage/internal/sim"
)

// Sufficiency summarizes how well one herbivore type's diet covered its
// requirements over a run. Ratios are intake over requirement, so 1.0 is
// exactly maintenance.
type Sufficiency struct {
	Herbivore string

	MeanEnergyRatio  float64
	MinEnergyRatio   float64
	P10EnergyRatio   float64
	MeanProteinRatio float64
	MinProteinRatio  float64
	P10ProteinRatio  float64

	// MonthsBelowMaintenance counts steps with an energy ratio under 1.
	MonthsBelowMaintenance int
	// TotalWeightChangeKg is final minus initial weight.
	TotalWeightChangeKg float64
}

// Sufficiencies computes the per-herbivore sufficiency summary from a
// run's records, ordered by herbivore name. The spin-up record carries no
// balance and is excluded.
func Sufficiencies(records []sim.StepRecord) []Sufficiency {
	energy := make(map[string][]float64)
	protein := make(map[string][]float64)
	firstW := make(map[string]float64)
	lastW := make(map[string]float64)
	for _, r := range records {
		for _, h := range r.Herbivores {
			if _, ok := firstW[h.Herbivore]; !ok {
				firstW[h.Herbivore] = h.WeightKg
			}
			lastW[h.Herbivore] = h.WeightKg
			if r.Step.Index < 0 {
				continue
			}
			energy[h.Herbivore] = append(energy[h.Herbivore], h.EnergyRatio)
			protein[h.Herbivore] = append(protein[h.Herbivore], h.ProteinRatio)
		}
	}

	names := make([]string, 0, len(energy))
	for name := range energy {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Sufficiency, 0, len(names))
	for _, name := range names {
		e, p := energy[name], protein[name]
		sort.Float64s(e)
		sort.Float64s(p)
		s := Sufficiency{
			Herbivore:           name,
			MeanEnergyRatio:     stat.Mean(e, nil),
			MinEnergyRatio:      e[0],
			P10EnergyRatio:      stat.Quantile(0.1, stat.Empirical, e, nil),
			MeanProteinRatio:    stat.Mean(p, nil),
			MinProteinRatio:     p[0],
			P10ProteinRatio:     stat.Quantile(0.1, stat.Empirical, p, nil),
			TotalWeightChangeKg: lastW[name] - firstW[name],
		}
		for _, ratio := range e {
			if ratio < 1 {
				s.MonthsBelowMaintenance++
			}
		}
		out = append(out, s)
	}
	return out
}
