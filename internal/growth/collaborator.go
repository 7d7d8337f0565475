// Package growth defines the boundary to the external grass-growth model.
// The simulation core never parses the growth model's files or manages its
// process; it only reads forage state per step and hands back grazing
// feedback through this interface.
package growth

import (
	"context"
	"fmt"

	"rangeland-forage/internal/model"
)

// Collaborator is the synchronous request/response boundary to the grass
// growth model. Forage for step n+1 cannot exist until ApplyGrazing for
// step n has returned, so the orchestrator never pipelines calls.
type Collaborator interface {
	// Forage returns the standing forage pools for the step. The spin-up
	// step (index -1) returns the post-spin-up initial conditions.
	Forage(ctx context.Context, step model.Step) (model.ForageState, error)

	// ApplyGrazing delivers the step's defoliation to the growth model.
	// The next Forage call reflects both regrowth and this offtake.
	ApplyGrazing(ctx context.Context, step model.Step, feedback []model.GrazingFeedback) error
}

// CollaboratorError wraps a failure at the growth-model boundary. It is
// fatal to the run: forage state for a failed step cannot be safely
// reconstructed, so there is no automatic retry.
type CollaboratorError struct {
	Step int
	Op   string // "forage" or "apply_grazing"
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("step %d: growth model %s failed: %v", e.Step, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
