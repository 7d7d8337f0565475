package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rangeland-forage/internal/analysis"
	"rangeland-forage/internal/api/middleware"
	"rangeland-forage/internal/api/models"
	"rangeland-forage/internal/growth"
	"rangeland-forage/internal/model"
	"rangeland-forage/internal/results"
	"rangeland-forage/internal/sim"
)

// SimulateHandler runs simulations from inline request payloads.
type SimulateHandler struct {
	store *results.Store // nil disables persistence
}

// NewSimulateHandler creates a simulate handler. store may be nil.
func NewSimulateHandler(store *results.Store) *SimulateHandler {
	return &SimulateHandler{store: store}
}

// Simulate handles POST /api/v1/simulate.
func (h *SimulateHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	orch, err := buildRun(req, nil)
	if err != nil {
		status, code := middleware.StatusForError(err)
		c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{Code: code, Message: err.Error()}})
		return
	}

	started := time.Now()
	result, err := orch.Run(c.Request.Context())
	if err != nil {
		status, code := middleware.StatusForError(err)
		c.JSON(status, models.ErrorResponse{Error: models.ErrorDetail{Code: code, Message: err.Error()}})
		return
	}

	resp := models.SimulateResponse{Sufficiency: analysis.Sufficiencies(result.Records)}
	for _, r := range result.Records {
		resp.Herbivores = append(resp.Herbivores, r.Herbivores...)
		resp.Forage = append(resp.Forage, r.Forage...)
	}
	if req.Persist && h.store != nil {
		runID, err := h.store.SaveRun(started, result)
		if err != nil {
			log.Printf("SimulateHandler: persisting run failed: %v", err)
		} else {
			resp.RunID = runID
		}
	}

	if c.Query("format") == "csv" {
		csv, err := sim.MarshalHerbivoreCSV(resp.Herbivores)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()},
			})
			return
		}
		c.Data(http.StatusOK, "text/csv", []byte(csv))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// buildRun assembles an orchestrator from an inline request. A non-nil
// observer receives each summary record as it is produced.
func buildRun(req models.SimulateRequest, observer func(sim.StepRecord)) (*sim.Orchestrator, error) {
	specs := make([]growth.GrassSpec, 0, len(req.Grasses))
	for _, g := range req.Grasses {
		habit := model.GrowthHabit(g.Habit)
		if g.Habit == "" {
			habit = model.HabitC4
		}
		specs = append(specs, growth.GrassSpec{
			Name:               g.Name,
			Habit:              habit,
			GreenKgHa:          g.GreenKgHa,
			DeadKgHa:           g.DeadKgHa,
			GreenDigestibility: g.GreenDigestibility,
			DeadDigestibility:  g.DeadDigestibility,
			GreenCrudeProtein:  g.GreenCrudeProtein,
			DeadCrudeProtein:   g.DeadCrudeProtein,
			GrowthRate:         g.GrowthRate,
			CarryingKgHa:       g.CarryingKgHa,
			SenescenceRate:     g.SenescenceRate,
			DecayRate:          g.DecayRate,
		})
	}

	herd := make([]*model.Herbivore, 0, len(req.Herbivores))
	for _, hr := range req.Herbivores {
		sex := model.Sex(hr.Sex)
		if hr.Sex == "" {
			sex = model.SexFemale
		}
		stage := model.Stage(hr.Stage)
		if hr.Stage == "" {
			stage = model.StageNonBreeding
		}
		herbivore, err := model.NewHerbivore(
			model.HerbivoreParams{
				Name:          hr.Name,
				Breed:         hr.Breed,
				Sex:           sex,
				SRWKg:         hr.SRWKg,
				BirthWeightKg: hr.BirthWeightKg,
				DensityPerHa:  hr.DensityPerHa,
				Preferences:   req.Preferences[hr.Name],
			},
			model.HerbivoreState{
				WeightKg:  hr.WeightKg,
				AgeDays:   hr.AgeDays,
				Stage:     stage,
				StageDays: hr.StageDays,
				Offspring: hr.Offspring,
			},
		)
		if err != nil {
			return nil, err
		}
		herd = append(herd, herbivore)
	}

	params := sim.Params{
		StartYear:             req.Run.StartYear,
		StartMonth:            time.Month(req.Run.StartMonth),
		Months:                req.Run.Months,
		ManagementThreshold:   req.Run.ManagementThreshold,
		EstimateDigestibility: req.Run.EstimateDigestibility,
	}
	var opts []sim.Option
	if observer != nil {
		opts = append(opts, sim.WithRecordObserver(observer))
	}
	return sim.New(params, growth.NewLogisticPasture(specs), herd, opts...)
}
