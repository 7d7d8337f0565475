package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"rangeland-forage/internal/model"
	"rangeland-forage/internal/sim"
)

// Config is the on-disk run configuration (YAML). The herbivore herd and
// the grass types come from CSV decks next to the config file.
type Config struct {
	Run RunConfig `yaml:"run"`

	// HerbivoreCSV and GrassCSV are the input decks, resolved relative to
	// the config file's directory when not absolute.
	HerbivoreCSV string `yaml:"herbivore_csv"`
	GrassCSV     string `yaml:"grass_csv"`

	// Preferences maps herbivore name to per-grass diet preference
	// weights in [0, 1]. Grasses not listed default to 1.
	Preferences map[string]map[string]float64 `yaml:"preferences"`

	OutputDir string `yaml:"output_dir"`
	// ResultsDB is an optional SQLite file recording finished runs.
	ResultsDB string `yaml:"results_db"`
}

type RunConfig struct {
	StartYear  int `yaml:"start_year"`
	StartMonth int `yaml:"start_month"`
	Months     int `yaml:"months"`

	ManagementThreshold   float64 `yaml:"management_threshold"`
	EstimateDigestibility bool    `yaml:"estimate_digestibility"`
}

func (r RunConfig) ToSimParams() sim.Params {
	return sim.Params{
		StartYear:             r.StartYear,
		StartMonth:            time.Month(r.StartMonth),
		Months:                r.Months,
		ManagementThreshold:   r.ManagementThreshold,
		EstimateDigestibility: r.EstimateDigestibility,
	}
}

// Load reads, defaults and validates a config.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Run.StartMonth == 0 {
		c.Run.StartMonth = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a config and resolves its deck paths, but does not
// validate it. Useful for debugging or printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	c.HerbivoreCSV = resolve(dir, c.HerbivoreCSV)
	c.GrassCSV = resolve(dir, c.GrassCSV)
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HerbivoreCSV == "" {
		return errors.New("herbivore_csv is required")
	}
	if c.GrassCSV == "" {
		return errors.New("grass_csv is required")
	}
	if err := c.Run.ToSimParams().Validate(); err != nil {
		return fmt.Errorf("run config invalid: %w", err)
	}
	for herbivore, prefs := range c.Preferences {
		for grass, w := range prefs {
			if w < 0 || w > 1 {
				return &model.ValidationError{
					Subject: herbivore, Field: "preference." + grass, Value: w,
					Reason: "preference weight must be in [0, 1]",
				}
			}
		}
	}
	return nil
}

// resolve interprets relative deck paths against the config directory,
// falling back to the path as given when no such file exists there.
func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	cand := filepath.Join(dir, path)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return path
}
