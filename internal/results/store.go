// Package results persists finished runs to SQLite for the reporting
// layer: one row per run plus its flattened per-step records.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"rangeland-forage/internal/sim"
)

// Store manages run history in SQLite.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Run is one persisted run.
type Run struct {
	ID         int64
	StartedAt  time.Time
	Months     int
	Herbivores int
	Grasses    int
}

// Open opens or creates the results database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve results db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure results db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}

	store := &Store{DBPath: absPath, db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	months INTEGER NOT NULL,
	herbivores INTEGER NOT NULL,
	grasses INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS herbivore_records (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	step INTEGER NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	herbivore TEXT NOT NULL,
	energy_req_mj REAL NOT NULL,
	protein_req_kg REAL NOT NULL,
	mei_mj REAL NOT NULL,
	dpls_kg REAL NOT NULL,
	intake_kg_day REAL NOT NULL,
	milk_kg_day REAL NOT NULL,
	weight_kg REAL NOT NULL,
	weight_delta_kg_day REAL NOT NULL,
	PRIMARY KEY (run_id, step, herbivore)
);

CREATE TABLE IF NOT EXISTS forage_records (
	run_id INTEGER NOT NULL REFERENCES runs(id),
	step INTEGER NOT NULL,
	year INTEGER NOT NULL,
	month INTEGER NOT NULL,
	grass TEXT NOT NULL,
	class TEXT NOT NULL,
	pre_graze_kg_ha REAL NOT NULL,
	offtake_kg_ha REAL NOT NULL,
	frac_removed REAL NOT NULL,
	PRIMARY KEY (run_id, step, grass, class)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure results schema: %w", err)
	}
	return nil
}

// SaveRun stores a finished run and all its step records in one
// transaction, returning the run ID.
func (s *Store) SaveRun(startedAt time.Time, result *sim.Result) (int64, error) {
	months, herbivores, grasses := 0, 0, 0
	for _, r := range result.Records {
		if r.Step.Index >= 0 {
			months++
		}
	}
	if len(result.Records) > 0 {
		herbivores = len(result.Records[0].Herbivores)
		grasses = len(result.Records[0].Forage) / 2
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, months, herbivores, grasses) VALUES (?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), months, herbivores, grasses,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, record := range result.Records {
		for _, h := range record.Herbivores {
			if _, err := tx.Exec(
				`INSERT INTO herbivore_records
				 (run_id, step, year, month, herbivore, energy_req_mj, protein_req_kg, mei_mj, dpls_kg,
				  intake_kg_day, milk_kg_day, weight_kg, weight_delta_kg_day)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, h.Step, h.Year, int(h.Month), h.Herbivore, h.EnergyReqMJ, h.ProteinReqKg,
				h.MEIMJ, h.DPLSKg, h.IntakeKgDay, h.MilkKgDay, h.WeightKg, h.WeightDeltaKg,
			); err != nil {
				return 0, fmt.Errorf("insert herbivore record: %w", err)
			}
		}
		for _, f := range record.Forage {
			if _, err := tx.Exec(
				`INSERT INTO forage_records
				 (run_id, step, year, month, grass, class, pre_graze_kg_ha, offtake_kg_ha, frac_removed)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				runID, f.Step, f.Year, int(f.Month), f.Grass, string(f.Class),
				f.PreGrazeKgHa, f.OfftakeKgHa, f.FracRemoved,
			); err != nil {
				return 0, fmt.Errorf("insert forage record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save run: %w", err)
	}
	return runID, nil
}

// ListRuns returns persisted runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, started_at, months, herbivores, grasses FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		if err := rows.Scan(&r.ID, &started, &r.Months, &r.Herbivores, &r.Grasses); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// HerbivoreRecords returns one run's herbivore rows ordered by step.
func (s *Store) HerbivoreRecords(runID int64) ([]sim.HerbivoreRecord, error) {
	rows, err := s.db.Query(
		`SELECT step, year, month, herbivore, energy_req_mj, protein_req_kg, mei_mj, dpls_kg,
		        intake_kg_day, milk_kg_day, weight_kg, weight_delta_kg_day
		 FROM herbivore_records WHERE run_id = ? ORDER BY step, herbivore`, runID)
	if err != nil {
		return nil, fmt.Errorf("query herbivore records: %w", err)
	}
	defer rows.Close()

	var records []sim.HerbivoreRecord
	for rows.Next() {
		var r sim.HerbivoreRecord
		var month int
		if err := rows.Scan(&r.Step, &r.Year, &month, &r.Herbivore, &r.EnergyReqMJ, &r.ProteinReqKg,
			&r.MEIMJ, &r.DPLSKg, &r.IntakeKgDay, &r.MilkKgDay, &r.WeightKg, &r.WeightDeltaKg); err != nil {
			return nil, fmt.Errorf("scan herbivore record: %w", err)
		}
		r.Month = time.Month(month)
		if r.EnergyReqMJ > 0 {
			r.EnergyRatio = r.MEIMJ / r.EnergyReqMJ
		}
		if r.ProteinReqKg > 0 {
			r.ProteinRatio = r.DPLSKg / r.ProteinReqKg
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
