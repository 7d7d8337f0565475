package model

import "fmt"

// ValidationError reports an input attribute that is missing or outside its
// valid domain. It aborts a step before any allocation is attempted.
type ValidationError struct {
	Subject string // herbivore label or "grass/class" pool label
	Field   string
	Value   float64
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s (%s = %g)", e.Subject, e.Reason, e.Field, e.Value)
}

// AllocationError reports that the availability constraint cannot be
// satisfied: aggregate density-weighted demand on a forage pool would leave
// negative residual biomass.
type AllocationError struct {
	Step         int
	Grass        string
	Class        PoolClass
	DemandKgHa   float64
	StandingKgHa float64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("step %d: infeasible allocation for %s/%s: demand %.3f kg/ha exceeds standing %.3f kg/ha",
		e.Step, e.Grass, e.Class, e.DemandKgHa, e.StandingKgHa)
}

// NutrientBalanceError reports a requirement or intake computation that
// produced a non-physical value. The affected herbivore state is not
// updated and the run halts.
type NutrientBalanceError struct {
	Step      int
	Herbivore string
	Quantity  string
	Value     float64
}

func (e *NutrientBalanceError) Error() string {
	return fmt.Sprintf("step %d: non-physical %s for %s: %g", e.Step, e.Quantity, e.Herbivore, e.Value)
}
