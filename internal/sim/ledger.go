package sim

import (
	"time"

	"rangeland-forage/internal/model"
)

// HerbivoreRecord is one herbivore type's slice of a step's summary.
// This is the primary "what happened" artifact of a run.
type HerbivoreRecord struct {
	Step      int        `csv:"step"`
	Year      int        `csv:"year"`
	Month     time.Month `csv:"month"`
	Herbivore string     `csv:"herbivore"`

	EnergyReqMJ  float64 `csv:"energy_req_mj"`
	ProteinReqKg float64 `csv:"protein_req_kg"`
	MEIMJ        float64 `csv:"mei_mj"`
	DPLSKg       float64 `csv:"dpls_kg"`

	IntakeKgDay   float64 `csv:"intake_kg_day"`
	MilkKgDay     float64 `csv:"milk_kg_day"`
	WeightKg      float64 `csv:"weight_kg"`
	WeightDeltaKg float64 `csv:"weight_delta_kg_day"`

	EnergyRatio  float64 `csv:"energy_ratio"`
	ProteinRatio float64 `csv:"protein_ratio"`
}

// ForageRecord is one forage pool's slice of a step's summary: the
// pre-selection standing biomass and the aggregated offtake.
type ForageRecord struct {
	Step  int             `csv:"step"`
	Year  int             `csv:"year"`
	Month time.Month      `csv:"month"`
	Grass string          `csv:"grass"`
	Class model.PoolClass `csv:"class"`

	PreGrazeKgHa float64 `csv:"pre_graze_kg_ha"`
	OfftakeKgHa  float64 `csv:"offtake_kg_ha"`
	FracRemoved  float64 `csv:"frac_removed"`
}

// StepRecord is the per-step summary record handed to the reporting layer.
// Step index -1 carries the post-spin-up initial conditions.
type StepRecord struct {
	Step       model.Step
	Herbivores []HerbivoreRecord
	Forage     []ForageRecord

	// DietSegregation is the mean pairwise segregation score across the
	// herbivore types grazing this step. 0 for fewer than two grazing
	// types, and on the spin-up record.
	DietSegregation float64
}

// GroupHerbivoreRecords rebuilds per-step records from flat herbivore
// rows, grouped by step index in first-seen order. Rows of a step that
// recurs later in the input land in that step's existing record.
func GroupHerbivoreRecords(rows []HerbivoreRecord) []StepRecord {
	index := make(map[int]int, len(rows))
	var records []StepRecord
	for _, r := range rows {
		i, ok := index[r.Step]
		if !ok {
			i = len(records)
			index[r.Step] = i
			records = append(records, StepRecord{Step: model.Step{Index: r.Step, Year: r.Year, Month: r.Month}})
		}
		records[i].Herbivores = append(records[i].Herbivores, r)
	}
	return records
}

// Result is a completed run.
type Result struct {
	Records []StepRecord
	// FinalStates maps herbivore name to its state after the last step.
	FinalStates map[string]model.HerbivoreState
}
