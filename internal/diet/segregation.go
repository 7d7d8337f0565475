package diet

import (
	"math"

	"rangeland-forage/internal/model"
)

// Segregation measures how separately two herbivore types graze: the mean
// absolute difference between the fractions of their diets taken from each
// forage pool. 0 means identical selection proportions; 1 means fully
// disjoint diets. Returns 0 when either diet is empty.
func Segregation(a, b model.DietAllocation) float64 {
	if a.TotalKgDay == 0 || b.TotalKgDay == 0 {
		return 0
	}
	keys := make(map[model.PoolKey]bool, len(a.IntakeKgDay))
	for k := range a.IntakeKgDay {
		keys[k] = true
	}
	for k := range b.IntakeKgDay {
		keys[k] = true
	}
	sum, n := 0.0, 0
	for k := range keys {
		fa := a.IntakeKgDay[k] / a.TotalKgDay
		fb := b.IntakeKgDay[k] / b.TotalKgDay
		sum += math.Abs(fa - fb)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
