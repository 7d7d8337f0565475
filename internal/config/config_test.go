package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rangeland-forage/internal/model"
)

const herbivoreDeck = `name,breed,sex,srw_kg,birth_weight_kg,weight_kg,age_days,density_per_ha,stage,stage_days,offspring
cows,B_indicus,female,450,30,320,1460,0.5,lactating,45,1
steers,B_taurus,castrate,550,35,280,730,0.3,,0,0
`

const grassDeck = `name,habit,green_kg_ha,dead_kg_ha,dmd_green,dmd_dead,cp_green,cp_dead,growth_rate,carrying_kg_ha,senescence_rate,decay_rate
themeda,C4,1500,600,0.62,0.45,0.11,0.04,0.3,4000,0.1,0.05
pennisetum,,900,300,0.66,0.48,0.13,0.05,0.35,3000,0.08,0.05
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func writeTestConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "herbivores.csv", herbivoreDeck)
	writeFixture(t, dir, "grass.csv", grassDeck)
	return writeFixture(t, dir, "config.yaml", yaml)
}

const baseConfig = `run:
  start_year: 2013
  months: 12
herbivore_csv: herbivores.csv
grass_csv: grass.csv
preferences:
  cows:
    themeda: 1.0
    pennisetum: 0.7
`

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTestConfig(t, baseConfig)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Run.StartMonth != 1 {
		t.Errorf("start month should default to January, got %d", c.Run.StartMonth)
	}
	if c.OutputDir != "results" {
		t.Errorf("output dir should default to results, got %q", c.OutputDir)
	}
	if filepath.Dir(c.HerbivoreCSV) != filepath.Dir(path) {
		t.Errorf("deck path not resolved against the config dir: %q", c.HerbivoreCSV)
	}
	params := c.Run.ToSimParams()
	if params.StartYear != 2013 || params.StartMonth != time.January || params.Months != 12 {
		t.Errorf("unexpected sim params: %+v", params)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing herbivore deck", "run:\n  start_year: 2013\n  months: 12\ngrass_csv: grass.csv\n"},
		{"missing grass deck", "run:\n  start_year: 2013\n  months: 12\nherbivore_csv: herbivores.csv\n"},
		{"zero months", "run:\n  start_year: 2013\nherbivore_csv: herbivores.csv\ngrass_csv: grass.csv\n"},
		{"preference out of range", baseConfig + "  steers:\n    themeda: 1.4\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTestConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Errorf("expected a load error")
			}
		})
	}
}

func TestLoadHerd(t *testing.T) {
	c, err := Load(writeTestConfig(t, baseConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	herd, err := c.LoadHerd()
	if err != nil {
		t.Fatalf("LoadHerd: %v", err)
	}
	if len(herd) != 2 {
		t.Fatalf("herd size = %d, want 2", len(herd))
	}

	cows := herd[0]
	if cows.Params.Name != "cows" || cows.State.Stage != model.StageLactating {
		t.Errorf("unexpected first herbivore: %+v", cows.Params)
	}
	if got := cows.Preference("pennisetum"); got != 0.7 {
		t.Errorf("config preferences not attached, got %f", got)
	}

	steers := herd[1]
	if steers.State.Stage != model.StageNonBreeding {
		t.Errorf("empty stage should default to non-breeding, got %q", steers.State.Stage)
	}
	if want := 550 * 1.2; steers.Params.SRWKg != want {
		t.Errorf("castrate reference weight = %f, want %f", steers.Params.SRWKg, want)
	}
}

func TestLoadGrassSpecs(t *testing.T) {
	c, err := Load(writeTestConfig(t, baseConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	specs, err := c.LoadGrassSpecs()
	if err != nil {
		t.Fatalf("LoadGrassSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].Name != "themeda" || specs[0].Habit != model.HabitC4 || specs[0].CarryingKgHa != 4000 {
		t.Errorf("unexpected first spec: %+v", specs[0])
	}
	if specs[1].Habit != model.HabitC4 {
		t.Errorf("empty habit should default to C4, got %q", specs[1].Habit)
	}
}

func TestLoadHerdRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "herbivores.csv",
		"name,breed,sex,srw_kg,birth_weight_kg,weight_kg,age_days,density_per_ha,stage,stage_days,offspring\n"+
			"cows,B_bogus,female,450,30,320,1460,0.5,non_breeding,0,0\n")
	writeFixture(t, dir, "grass.csv", grassDeck)
	path := writeFixture(t, dir, "config.yaml",
		"run:\n  start_year: 2013\n  months: 12\nherbivore_csv: herbivores.csv\ngrass_csv: grass.csv\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := c.LoadHerd(); err == nil {
		t.Errorf("unknown breed should fail herd loading")
	}
}
