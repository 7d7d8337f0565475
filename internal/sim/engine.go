package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rangeland-forage/internal/diet"
	"rangeland-forage/internal/growth"
	"rangeland-forage/internal/model"
	"rangeland-forage/internal/physiology"
)

// State is the orchestrator lifecycle.
type State string

const (
	StateSpinUp   State = "SPIN_UP"
	StateStepping State = "STEPPING"
	StateDone     State = "DONE"
	StateFailed   State = "FAILED"
)

// Params configures a run.
type Params struct {
	StartYear  int
	StartMonth time.Month
	Months     int

	// ManagementThreshold is the fraction of the initial total standing
	// biomass that grazing must leave in place. Zero disables the check.
	ManagementThreshold float64

	// EstimateDigestibility replaces supplied pool digestibilities with
	// values regressed from crude protein each step.
	EstimateDigestibility bool
}

func (p Params) Validate() error {
	if p.Months <= 0 {
		return fmt.Errorf("months must be > 0")
	}
	if p.StartMonth < time.January || p.StartMonth > time.December {
		return fmt.Errorf("start month must be 1..12")
	}
	if p.ManagementThreshold < 0 || p.ManagementThreshold >= 1 {
		return fmt.Errorf("management threshold must be in [0, 1)")
	}
	return nil
}

// ThresholdError reports a step whose grazing would push total standing
// biomass below the management threshold.
type ThresholdError struct {
	Step          int
	RemainingKgHa float64
	ThresholdKgHa float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("step %d: grazing leaves %.1f kg/ha standing, below the management threshold of %.1f kg/ha",
		e.Step, e.RemainingKgHa, e.ThresholdKgHa)
}

// Orchestrator sequences a run: forage in, diet selection and physiology
// per herbivore type, aggregated grazing feedback out, one summary record
// per step. It owns the persistent herbivore states; everything else is
// step-scoped.
type Orchestrator struct {
	params Params
	collab growth.Collaborator
	herd   []*model.Herbivore

	state    State
	onRecord func(StepRecord)
}

// An Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithRecordObserver registers a callback invoked with every summary
// record as it is produced, before the run finishes. Used for streaming.
func WithRecordObserver(fn func(StepRecord)) Option {
	return func(o *Orchestrator) { o.onRecord = fn }
}

func New(params Params, collab growth.Collaborator, herd []*model.Herbivore, opts ...Option) (*Orchestrator, error) {
	if collab == nil {
		return nil, fmt.Errorf("growth collaborator is nil")
	}
	if len(herd) == 0 {
		return nil, fmt.Errorf("no herbivore types")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	for _, h := range herd {
		if err := h.Validate(); err != nil {
			return nil, err
		}
	}
	o := &Orchestrator{params: params, collab: collab, herd: herd, state: StateSpinUp}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

func (o *Orchestrator) State() State { return o.state }

// Run executes the whole horizon. Any unrecoverable error moves the
// orchestrator to FAILED and halts: no step is retried and no partial step
// is committed downstream.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{FinalStates: make(map[string]model.HerbivoreState, len(o.herd))}

	spinUp := model.Step{Index: model.SpinUpIndex, Year: o.params.StartYear, Month: o.params.StartMonth}
	baseline, err := o.acquireForage(ctx, spinUp)
	if err != nil {
		return o.fail(err)
	}
	thresholdKgHa := baseline.TotalBiomassKgHa() * o.params.ManagementThreshold
	o.record(result, o.spinUpRecord(spinUp, baseline))

	o.state = StateStepping
	step := model.Step{Index: 0, Year: o.params.StartYear, Month: o.params.StartMonth}
	for i := 0; i < o.params.Months; i++ {
		if err := ctx.Err(); err != nil {
			// Cancellation is honored only between steps.
			return o.fail(err)
		}
		forage, err := o.acquireForage(ctx, step)
		if err != nil {
			return o.fail(err)
		}

		allocs, err := o.selectDiets(step, forage)
		if err != nil {
			return o.fail(err)
		}
		if err := diet.ReduceDemand(step, forage, o.herd, allocs); err != nil {
			return o.fail(err)
		}

		feedback := Aggregate(forage, o.herd, allocs)
		if thresholdKgHa > 0 {
			removed := 0.0
			for _, fb := range feedback {
				removed += fb.OfftakeKgHa
			}
			if remaining := forage.TotalBiomassKgHa() - removed; remaining < thresholdKgHa {
				return o.fail(&ThresholdError{Step: step.Index, RemainingKgHa: remaining, ThresholdKgHa: thresholdKgHa})
			}
		}

		record := StepRecord{Step: step, DietSegregation: meanSegregation(allocs)}
		for i, h := range o.herd {
			if h.Params.DensityPerHa == 0 {
				record.Herbivores = append(record.Herbivores, herbivoreRecord(step, h, model.NutrientBalance{Herbivore: h.Params.Name}))
				continue
			}
			balance, next, err := physiology.Update(step, h, allocs[i])
			if err != nil {
				return o.fail(err)
			}
			h.State = next
			record.Herbivores = append(record.Herbivores, herbivoreRecord(step, h, balance))
		}
		for i, p := range forage.Pools {
			record.Forage = append(record.Forage, ForageRecord{
				Step: step.Index, Year: step.Year, Month: step.Month,
				Grass: p.Grass, Class: p.Class,
				PreGrazeKgHa: p.BiomassKgHa,
				OfftakeKgHa:  feedback[i].OfftakeKgHa,
				FracRemoved:  feedback[i].FracRemoved,
			})
		}
		o.record(result, record)

		if err := o.collab.ApplyGrazing(ctx, step, feedback); err != nil {
			return o.fail(&growth.CollaboratorError{Step: step.Index, Op: "apply_grazing", Err: err})
		}
		step = step.Next()
	}

	for _, h := range o.herd {
		result.FinalStates[h.Params.Name] = h.State
	}
	o.state = StateDone
	return result, nil
}

// selectDiets runs selection and the protein-driven intake reduction for
// every herbivore type. Types are independent within a step, so they run
// concurrently; results land in positional slices, keeping the outcome
// identical to sequential execution.
func (o *Orchestrator) selectDiets(step model.Step, forage model.ForageState) ([]model.DietAllocation, error) {
	allocs := make([]model.DietAllocation, len(o.herd))
	errs := make([]error, len(o.herd))

	var wg sync.WaitGroup
	for i, h := range o.herd {
		wg.Add(1)
		go func(i int, h *model.Herbivore) {
			defer wg.Done()
			capacity := physiology.MaxIntakeKgDay(h)
			alloc := diet.Select(forage, h, capacity)
			interm, err := physiology.Derive(step, h, alloc)
			if err != nil {
				errs[i] = err
				return
			}
			if reduced := physiology.ReducedIntake(h, alloc, interm, capacity); reduced < capacity {
				alloc = diet.Select(forage, h, reduced)
				if _, err = physiology.Derive(step, h, alloc); err != nil {
					errs[i] = err
					return
				}
			}
			allocs[i] = alloc
		}(i, h)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return allocs, nil
}

func (o *Orchestrator) acquireForage(ctx context.Context, step model.Step) (model.ForageState, error) {
	forage, err := o.collab.Forage(ctx, step)
	if err != nil {
		return model.ForageState{}, &growth.CollaboratorError{Step: step.Index, Op: "forage", Err: err}
	}
	if err := forage.Validate(); err != nil {
		return model.ForageState{}, err
	}
	if o.params.EstimateDigestibility {
		for i := range forage.Pools {
			forage.Pools[i].EstimateDigestibilityFromProtein()
		}
	}
	return forage, nil
}

// spinUpRecord captures initial conditions: the baseline forage state and
// herbivore weights, with no grazing applied.
func (o *Orchestrator) spinUpRecord(step model.Step, forage model.ForageState) StepRecord {
	record := StepRecord{Step: step}
	for _, h := range o.herd {
		record.Herbivores = append(record.Herbivores, herbivoreRecord(step, h, model.NutrientBalance{Herbivore: h.Params.Name}))
	}
	for _, p := range forage.Pools {
		record.Forage = append(record.Forage, ForageRecord{
			Step: step.Index, Year: step.Year, Month: step.Month,
			Grass: p.Grass, Class: p.Class, PreGrazeKgHa: p.BiomassKgHa,
		})
	}
	return record
}

func (o *Orchestrator) record(result *Result, record StepRecord) {
	result.Records = append(result.Records, record)
	if o.onRecord != nil {
		o.onRecord(record)
	}
}

func (o *Orchestrator) fail(err error) (*Result, error) {
	o.state = StateFailed
	return nil, err
}

func herbivoreRecord(step model.Step, h *model.Herbivore, balance model.NutrientBalance) HerbivoreRecord {
	return HerbivoreRecord{
		Step: step.Index, Year: step.Year, Month: step.Month,
		Herbivore:     h.Params.Name,
		EnergyReqMJ:   balance.EnergyReqMJ,
		ProteinReqKg:  balance.ProteinReqKg,
		MEIMJ:         balance.MEIMJ,
		DPLSKg:        balance.DPLSKg,
		IntakeKgDay:   balance.IntakeKgDay,
		MilkKgDay:     balance.MilkKgDay,
		WeightKg:      h.State.WeightKg,
		WeightDeltaKg: balance.WeightDeltaKg,
		EnergyRatio:   balance.EnergyRatio(),
		ProteinRatio:  balance.ProteinRatio(),
	}
}
