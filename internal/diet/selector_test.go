package diet

import (
	"math"
	"testing"

	"rangeland-forage/internal/model"
	"rangeland-forage/internal/physiology"
)

func testHerbivore(t *testing.T, density float64, prefs map[string]float64) *model.Herbivore {
	t.Helper()
	h, err := model.NewHerbivore(
		model.HerbivoreParams{
			Name: "cattle", Breed: "B_indicus", Sex: model.SexFemale,
			SRWKg: 450, BirthWeightKg: 30, DensityPerHa: density, Preferences: prefs,
		},
		model.HerbivoreState{WeightKg: 300, AgeDays: 3 * 365, Stage: model.StageNonBreeding},
	)
	if err != nil {
		t.Fatalf("NewHerbivore: %v", err)
	}
	return h
}

func singleGrass(greenKgHa float64) model.ForageState {
	return model.ForageState{Pools: []model.FeedPool{
		{Grass: "grass", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: greenKgHa, Digestibility: 0.6, CrudeProtein: 0.1},
		{Grass: "grass", Class: model.ClassDead, Habit: model.HabitC4, BiomassKgHa: 0, Digestibility: 0.4, CrudeProtein: 0.04},
	}}
}

func TestSelectAbundantForageFillsCapacity(t *testing.T) {
	h := testHerbivore(t, 1, nil)
	forage := singleGrass(1000)

	alloc := Select(forage, h, 8)

	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "grass", Class: model.ClassGreen}]; math.Abs(got-8) > 1e-9 {
		t.Errorf("expected 8 kg/day from the green pool, got %f", got)
	}
	if math.Abs(alloc.TotalKgDay-8) > 1e-9 {
		t.Errorf("expected total intake 8 kg/day, got %f", alloc.TotalKgDay)
	}
	if offtake := alloc.TotalKgDay * h.Params.DensityPerHa * model.DaysPerStep; offtake >= 1000 {
		t.Errorf("step offtake %f must stay below standing biomass", offtake)
	}
	if math.Abs(alloc.Digestibility-0.6) > 1e-9 {
		t.Errorf("diet digestibility = %f, want 0.6", alloc.Digestibility)
	}
}

func TestSelectExhaustsPreferredThenFills(t *testing.T) {
	h := testHerbivore(t, 1, map[string]float64{"alpha": 0.9, "beta": 0.1})
	forage := model.ForageState{Pools: []model.FeedPool{
		{Grass: "alpha", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 2, Digestibility: 0.6, CrudeProtein: 0.1},
		{Grass: "beta", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 500, Digestibility: 0.6, CrudeProtein: 0.1},
	}}

	alloc := Select(forage, h, 8)

	wantAlpha := 2.0 / (h.Params.DensityPerHa * model.DaysPerStep)
	gotAlpha := alloc.IntakeKgDay[model.PoolKey{Grass: "alpha", Class: model.ClassGreen}]
	if math.Abs(gotAlpha-wantAlpha) > 1e-9 {
		t.Errorf("alpha intake = %f, want %f (exhausted)", gotAlpha, wantAlpha)
	}
	gotBeta := alloc.IntakeKgDay[model.PoolKey{Grass: "beta", Class: model.ClassGreen}]
	if math.Abs(gotBeta-(8-wantAlpha)) > 1e-9 {
		t.Errorf("beta intake = %f, want %f (fills remaining capacity)", gotBeta, 8-wantAlpha)
	}
}

func TestSelectGreenBeforeDeadOnEqualValue(t *testing.T) {
	h := testHerbivore(t, 1, nil)
	// Same digestibility and protein, so marginal value ties; green wins.
	forage := model.ForageState{Pools: []model.FeedPool{
		{Grass: "grass", Class: model.ClassDead, Habit: model.HabitC4, BiomassKgHa: 800, Digestibility: 0.55, CrudeProtein: 0.06},
		{Grass: "grass", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 800, Digestibility: 0.55, CrudeProtein: 0.06},
	}}

	alloc := Select(forage, h, 5)

	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "grass", Class: model.ClassGreen}]; math.Abs(got-5) > 1e-9 {
		t.Errorf("green pool should fill the whole capacity first, got %f", got)
	}
	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "grass", Class: model.ClassDead}]; got != 0 {
		t.Errorf("dead pool should be untouched, got %f", got)
	}
}

func TestSelectZeroBiomassAndZeroDensity(t *testing.T) {
	h := testHerbivore(t, 1, nil)
	alloc := Select(singleGrass(0), h, 8)
	if alloc.TotalKgDay != 0 {
		t.Errorf("zero biomass should yield zero intake, got %f", alloc.TotalKgDay)
	}

	idle := testHerbivore(t, 0, nil)
	alloc = Select(singleGrass(1000), idle, 8)
	if alloc.TotalKgDay != 0 {
		t.Errorf("zero density should yield zero intake, got %f", alloc.TotalKgDay)
	}
	for key, kg := range alloc.IntakeKgDay {
		if kg != 0 {
			t.Errorf("pool %v: expected zero intake, got %f", key, kg)
		}
	}
}

func TestSelectDeterministic(t *testing.T) {
	h := testHerbivore(t, 1.5, map[string]float64{"alpha": 0.8})
	forage := model.ForageState{Pools: []model.FeedPool{
		{Grass: "alpha", Class: model.ClassGreen, Habit: model.HabitC3, BiomassKgHa: 120, Digestibility: 0.65, CrudeProtein: 0.12},
		{Grass: "alpha", Class: model.ClassDead, Habit: model.HabitC3, BiomassKgHa: 300, Digestibility: 0.45, CrudeProtein: 0.05},
		{Grass: "beta", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 90, Digestibility: 0.6, CrudeProtein: 0.1},
	}}

	first := Select(forage, h, 7.3)
	for i := 0; i < 10; i++ {
		again := Select(forage, h, 7.3)
		if again.TotalKgDay != first.TotalKgDay || again.Digestibility != first.Digestibility ||
			again.CrudeProteinKgDay != first.CrudeProteinKgDay {
			t.Fatalf("run %d: totals differ from first run", i)
		}
		for key, kg := range first.IntakeKgDay {
			if again.IntakeKgDay[key] != kg {
				t.Fatalf("run %d: intake for %v differs: %v vs %v", i, key, again.IntakeKgDay[key], kg)
			}
		}
	}
}

func TestSelectRefusesValuelessForage(t *testing.T) {
	h := testHerbivore(t, 1, nil)
	// A trace of good forage in a sward dominated by straw too poor to
	// digest. The straw's marginal value clamps to zero, so none of it
	// may be eaten even with capacity to spare.
	forage := model.ForageState{Pools: []model.FeedPool{
		{Grass: "good", Class: model.ClassGreen, Habit: model.HabitC3, BiomassKgHa: 2, Digestibility: 0.65, CrudeProtein: 0.12},
		{Grass: "straw", Class: model.ClassDead, Habit: model.HabitC3, BiomassKgHa: 2000, Digestibility: 0.05, CrudeProtein: 0.01},
	}}

	alloc := Select(forage, h, 8)

	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "straw", Class: model.ClassDead}]; got != 0 {
		t.Fatalf("straw intake = %f, want 0", got)
	}
	wantGood := 2.0 / (h.Params.DensityPerHa * model.DaysPerStep)
	if math.Abs(alloc.TotalKgDay-wantGood) > 1e-9 {
		t.Errorf("total intake = %f, want %f (good pool only)", alloc.TotalKgDay, wantGood)
	}
	if math.Abs(alloc.Digestibility-0.65) > 1e-9 {
		t.Errorf("diet digestibility = %f, want 0.65", alloc.Digestibility)
	}

	// The near-empty diet must still be physiologically consistent.
	in, err := physiology.Derive(model.Step{Index: 0, Year: 2013, Month: 1}, h, alloc)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if in.MEIMJ < 0 {
		t.Errorf("metabolizable energy intake = %f MJ, want >= 0", in.MEIMJ)
	}
}

func TestSelectAvailabilityBoostFavorsAbundantPool(t *testing.T) {
	h := testHerbivore(t, 1, nil)
	// Equal preference and digestibility, so only the availability boost
	// separates the pools. Every tie-break would pick "aaa" first.
	forage := model.ForageState{Pools: []model.FeedPool{
		{Grass: "aaa", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 10, Digestibility: 0.6, CrudeProtein: 0.1},
		{Grass: "zzz", Class: model.ClassGreen, Habit: model.HabitC4, BiomassKgHa: 1000, Digestibility: 0.6, CrudeProtein: 0.1},
	}}

	alloc := Select(forage, h, 5)

	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "zzz", Class: model.ClassGreen}]; math.Abs(got-5) > 1e-9 {
		t.Errorf("abundant pool should fill the whole capacity, got %f", got)
	}
	if got := alloc.IntakeKgDay[model.PoolKey{Grass: "aaa", Class: model.ClassGreen}]; got != 0 {
		t.Errorf("sparse pool should be untouched, got %f", got)
	}
}

func TestReduceDemandScalesProportionally(t *testing.T) {
	a := testHerbivore(t, 1, nil)
	b := testHerbivore(t, 1, nil)
	b.Params.Name = "cattle_b"
	forage := singleGrass(100)
	herd := []*model.Herbivore{a, b}

	allocs := []model.DietAllocation{
		Select(forage, a, 5),
		Select(forage, b, 5),
	}
	step := model.Step{Index: 0, Year: 2013, Month: 1}
	if err := ReduceDemand(step, forage, herd, allocs); err != nil {
		t.Fatalf("ReduceDemand: %v", err)
	}

	key := model.PoolKey{Grass: "grass", Class: model.ClassGreen}
	demand := 0.0
	for i, h := range herd {
		demand += allocs[i].IntakeKgDay[key] * h.Params.DensityPerHa * model.DaysPerStep
	}
	if math.Abs(demand-100) > 1e-6 {
		t.Errorf("reduced demand = %f kg/ha, want exactly the standing 100", demand)
	}
	if math.Abs(allocs[0].IntakeKgDay[key]-allocs[1].IntakeKgDay[key]) > 1e-9 {
		t.Errorf("equal claims should be reduced equally: %f vs %f",
			allocs[0].IntakeKgDay[key], allocs[1].IntakeKgDay[key])
	}
	if allocs[0].TotalKgDay != allocs[0].IntakeKgDay[key] {
		t.Errorf("diet totals must be recomputed after reduction")
	}
}

func TestIngestibilityClampedAndHabitOffset(t *testing.T) {
	breed, err := model.BreedByName("B_taurus")
	if err != nil {
		t.Fatalf("BreedByName: %v", err)
	}
	poor := model.FeedPool{Grass: "g", Class: model.ClassDead, Habit: model.HabitC3, Digestibility: 0.1}
	if got := Ingestibility(breed, poor); got != 0 {
		t.Errorf("ingestibility of very poor forage = %f, want 0", got)
	}
	c3 := model.FeedPool{Grass: "g", Class: model.ClassGreen, Habit: model.HabitC3, Digestibility: 0.6}
	c4 := c3
	c4.Habit = model.HabitC4
	if Ingestibility(breed, c4) <= Ingestibility(breed, c3) {
		t.Errorf("C4 habit should lift ingestibility at equal digestibility")
	}
}
