package models

import (
	"rangeland-forage/internal/analysis"
	"rangeland-forage/internal/sim"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SimulateResponse is a finished run.
type SimulateResponse struct {
	RunID       int64                  `json:"run_id,omitempty"`
	Herbivores  []sim.HerbivoreRecord  `json:"herbivores"`
	Forage      []sim.ForageRecord     `json:"forage"`
	Sufficiency []analysis.Sufficiency `json:"sufficiency"`
}

// BreedInfo describes one supported breed.
type BreedInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RunInfo summarizes a persisted run.
type RunInfo struct {
	ID         int64  `json:"id"`
	StartedAt  string `json:"started_at"`
	Months     int    `json:"months"`
	Herbivores int    `json:"herbivores"`
	Grasses    int    `json:"grasses"`
}
