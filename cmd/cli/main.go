package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"rangeland-forage/internal/analysis"
	"rangeland-forage/internal/config"
	"rangeland-forage/internal/growth"
	"rangeland-forage/internal/results"
	"rangeland-forage/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "report":
		cmdReport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config examples/config.yaml")
	fmt.Println("  cli report --db runs.db --run 1")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run simulates the configured horizon against the built-in pasture model")
	fmt.Println("    and writes herbivores.csv and forage.csv to the output directory")
	fmt.Println("  - report prints diet-sufficiency statistics for a stored run")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal(err)
	}
	herd, err := cfg.LoadHerd()
	if err != nil {
		fatal(err)
	}
	specs, err := cfg.LoadGrassSpecs()
	if err != nil {
		fatal(err)
	}

	orch, err := sim.New(cfg.Run.ToSimParams(), growth.NewLogisticPasture(specs), herd)
	if err != nil {
		fatal(err)
	}

	started := time.Now()
	result, err := orch.Run(context.Background())
	if err != nil {
		fatal(err)
	}

	if err := sim.WriteSummaryCSVs(cfg.OutputDir, result.Records); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d step records to %s\n", len(result.Records), cfg.OutputDir)

	if cfg.ResultsDB != "" {
		store, err := results.Open(cfg.ResultsDB)
		if err != nil {
			fatal(err)
		}
		defer store.Close()
		runID, err := store.SaveRun(started, result)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Stored as run %d in %s\n", runID, store.DBPath)
	}

	printSufficiency(analysis.Sufficiencies(result.Records))
}

func cmdReport(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "Path to results database")
	runID := fs.Int64("run", 0, "Run ID (0 = latest)")
	_ = fs.Parse(args)

	store, err := results.Open(*dbPath)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	if *runID == 0 {
		runs, err := store.ListRuns()
		if err != nil {
			fatal(err)
		}
		if len(runs) == 0 {
			fmt.Println("no stored runs")
			os.Exit(1)
		}
		*runID = runs[0].ID
	}

	records, err := store.HerbivoreRecords(*runID)
	if err != nil {
		fatal(err)
	}
	printSufficiency(analysis.Sufficiencies(sim.GroupHerbivoreRecords(records)))
}

func printSufficiency(stats []analysis.Sufficiency) {
	for _, s := range stats {
		fmt.Printf("%s: energy ratio mean=%.2f min=%.2f p10=%.2f | protein ratio mean=%.2f min=%.2f | months below maintenance=%d | weight change=%+.1f kg\n",
			s.Herbivore, s.MeanEnergyRatio, s.MinEnergyRatio, s.P10EnergyRatio,
			s.MeanProteinRatio, s.MinProteinRatio, s.MonthsBelowMaintenance, s.TotalWeightChangeKg)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
