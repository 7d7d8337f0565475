package sim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// WriteSummaryCSVs writes the run's summary records under dir as two flat
// files: herbivores.csv (one row per step and herbivore type) and
// forage.csv (one row per step and forage pool).
func WriteSummaryCSVs(dir string, records []StepRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var herbivores []HerbivoreRecord
	var forage []ForageRecord
	for _, r := range records {
		herbivores = append(herbivores, r.Herbivores...)
		forage = append(forage, r.Forage...)
	}

	if err := writeCSV(filepath.Join(dir, "herbivores.csv"), herbivores); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "forage.csv"), forage)
}

func writeCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// MarshalHerbivoreCSV renders herbivore rows to a CSV string. Used by the
// API layer and in golden-output tests.
func MarshalHerbivoreCSV(rows []HerbivoreRecord) (string, error) {
	return gocsv.MarshalString(rows)
}
