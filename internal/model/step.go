package model

import "time"

// DaysPerStep is the length of one simulation step. The model runs on
// calendar months; 30.4 is the mean month length used to convert daily
// rates (intake, weight change) to per-step amounts.
const DaysPerStep = 30.4

// SpinUpIndex marks the post-spin-up initial-conditions record. Regular
// steps are numbered 0, 1, 2, ... one per calendar month.
const SpinUpIndex = -1

// Step identifies one simulation step and its calendar position.
type Step struct {
	Index int
	Year  int
	Month time.Month
}

// Next returns the step for the following calendar month.
func (s Step) Next() Step {
	year, month := s.Year, s.Month+1
	if month > time.December {
		year++
		month = time.January
	}
	return Step{Index: s.Index + 1, Year: year, Month: month}
}
