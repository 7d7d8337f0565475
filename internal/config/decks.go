package config

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"rangeland-forage/internal/growth"
	"rangeland-forage/internal/model"
)

// HerbivoreRow is one row of the herbivore input deck.
type HerbivoreRow struct {
	Name          string  `csv:"name"`
	Breed         string  `csv:"breed"`
	Sex           string  `csv:"sex"`
	SRWKg         float64 `csv:"srw_kg"`
	BirthWeightKg float64 `csv:"birth_weight_kg"`
	WeightKg      float64 `csv:"weight_kg"`
	AgeDays       float64 `csv:"age_days"`
	DensityPerHa  float64 `csv:"density_per_ha"`
	Stage         string  `csv:"stage"`
	StageDays     float64 `csv:"stage_days"`
	Offspring     int     `csv:"offspring"`
}

// GrassRow is one row of the grass input deck. The growth columns
// parameterize the built-in pasture model; runs against an external growth
// model ignore them.
type GrassRow struct {
	Name  string `csv:"name"`
	Habit string `csv:"habit"`

	GreenKgHa float64 `csv:"green_kg_ha"`
	DeadKgHa  float64 `csv:"dead_kg_ha"`

	GreenDigestibility float64 `csv:"dmd_green"`
	DeadDigestibility  float64 `csv:"dmd_dead"`
	GreenCrudeProtein  float64 `csv:"cp_green"`
	DeadCrudeProtein   float64 `csv:"cp_dead"`

	GrowthRate     float64 `csv:"growth_rate"`
	CarryingKgHa   float64 `csv:"carrying_kg_ha"`
	SenescenceRate float64 `csv:"senescence_rate"`
	DecayRate      float64 `csv:"decay_rate"`
}

// LoadHerd reads the herbivore deck and builds the herd, attaching any
// preference weights from the config.
func (c *Config) LoadHerd() ([]*model.Herbivore, error) {
	f, err := os.Open(c.HerbivoreCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []HerbivoreRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.HerbivoreCSV, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no herbivore rows", c.HerbivoreCSV)
	}

	herd := make([]*model.Herbivore, 0, len(rows))
	for _, row := range rows {
		stage := model.Stage(row.Stage)
		if row.Stage == "" {
			stage = model.StageNonBreeding
		}
		sex := model.Sex(row.Sex)
		if row.Sex == "" {
			sex = model.SexFemale
		}
		h, err := model.NewHerbivore(
			model.HerbivoreParams{
				Name:          row.Name,
				Breed:         row.Breed,
				Sex:           sex,
				SRWKg:         row.SRWKg,
				BirthWeightKg: row.BirthWeightKg,
				DensityPerHa:  row.DensityPerHa,
				Preferences:   c.Preferences[row.Name],
			},
			model.HerbivoreState{
				WeightKg:  row.WeightKg,
				AgeDays:   row.AgeDays,
				Stage:     stage,
				StageDays: row.StageDays,
				Offspring: row.Offspring,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("herbivore %q: %w", row.Name, err)
		}
		herd = append(herd, h)
	}
	return herd, nil
}

// LoadGrassSpecs reads the grass deck for the built-in pasture model.
func (c *Config) LoadGrassSpecs() ([]growth.GrassSpec, error) {
	f, err := os.Open(c.GrassCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []GrassRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.GrassCSV, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no grass rows", c.GrassCSV)
	}

	specs := make([]growth.GrassSpec, 0, len(rows))
	for _, row := range rows {
		habit := model.GrowthHabit(row.Habit)
		if row.Habit == "" {
			habit = model.HabitC4
		}
		specs = append(specs, growth.GrassSpec{
			Name:               row.Name,
			Habit:              habit,
			GreenKgHa:          row.GreenKgHa,
			DeadKgHa:           row.DeadKgHa,
			GreenDigestibility: row.GreenDigestibility,
			DeadDigestibility:  row.DeadDigestibility,
			GreenCrudeProtein:  row.GreenCrudeProtein,
			DeadCrudeProtein:   row.DeadCrudeProtein,
			GrowthRate:         row.GrowthRate,
			CarryingKgHa:       row.CarryingKgHa,
			SenescenceRate:     row.SenescenceRate,
			DecayRate:          row.DecayRate,
		})
	}
	return specs, nil
}
