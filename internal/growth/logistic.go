package growth

import (
	"context"
	"math"
	"sync"

	"rangeland-forage/internal/model"
)

// GrassSpec parameterizes one grass type of the built-in pasture model.
type GrassSpec struct {
	Name  string
	Habit model.GrowthHabit

	// Initial standing biomass, kg/ha.
	GreenKgHa float64
	DeadKgHa  float64

	// Nutrient attributes, fractions.
	GreenDigestibility float64
	DeadDigestibility  float64
	GreenCrudeProtein  float64
	DeadCrudeProtein   float64

	// Logistic growth of the green pool.
	GrowthRate   float64 // per month
	CarryingKgHa float64
	// SenescenceRate is the monthly fraction of green that moves to dead.
	SenescenceRate float64
	// DecayRate is the monthly fraction of dead lost to litter.
	DecayRate float64
}

// LogisticPasture is a deterministic stand-in for the external grass-growth
// model: logistic regrowth of green biomass, first-order senescence into
// the dead pool, first-order decay of the dead pool, and defoliation from
// the grazing feedback. It exists for demos and tests; production runs talk
// to the real growth model through an adapter implementing Collaborator.
type LogisticPasture struct {
	mu      sync.Mutex
	specs   []GrassSpec
	green   map[string]float64
	dead    map[string]float64
	stepped int
}

var _ Collaborator = (*LogisticPasture)(nil)

func NewLogisticPasture(specs []GrassSpec) *LogisticPasture {
	p := &LogisticPasture{
		specs:   specs,
		green:   make(map[string]float64, len(specs)),
		dead:    make(map[string]float64, len(specs)),
		stepped: model.SpinUpIndex,
	}
	for _, s := range specs {
		p.green[s.Name] = s.GreenKgHa
		p.dead[s.Name] = s.DeadKgHa
	}
	return p
}

// Forage reports the current standing pools. The spin-up step reports the
// initial conditions unchanged; later steps grow the sward first.
func (p *LogisticPasture) Forage(_ context.Context, step model.Step) (model.ForageState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if step.Index > model.SpinUpIndex && step.Index > p.stepped {
		p.grow()
		p.stepped = step.Index
	}
	state := model.ForageState{Pools: make([]model.FeedPool, 0, 2*len(p.specs))}
	for _, s := range p.specs {
		state.Pools = append(state.Pools,
			model.FeedPool{
				Grass: s.Name, Class: model.ClassGreen, Habit: s.Habit,
				BiomassKgHa: p.green[s.Name], Digestibility: s.GreenDigestibility, CrudeProtein: s.GreenCrudeProtein,
			},
			model.FeedPool{
				Grass: s.Name, Class: model.ClassDead, Habit: s.Habit,
				BiomassKgHa: p.dead[s.Name], Digestibility: s.DeadDigestibility, CrudeProtein: s.DeadCrudeProtein,
			},
		)
	}
	return state, nil
}

// ApplyGrazing removes the step's offtake from the standing pools.
func (p *LogisticPasture) ApplyGrazing(_ context.Context, step model.Step, feedback []model.GrazingFeedback) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, fb := range feedback {
		pool := p.green
		if fb.Class == model.ClassDead {
			pool = p.dead
		}
		standing, ok := pool[fb.Grass]
		if !ok {
			return &CollaboratorError{Step: step.Index, Op: "apply_grazing",
				Err: &model.ValidationError{Subject: fb.Grass, Field: "grass", Reason: "unknown grass type in grazing feedback"}}
		}
		pool[fb.Grass] = math.Max(0, standing-fb.OfftakeKgHa)
	}
	return nil
}

func (p *LogisticPasture) grow() {
	for _, s := range p.specs {
		green, dead := p.green[s.Name], p.dead[s.Name]
		growth := 0.0
		if s.CarryingKgHa > 0 {
			growth = s.GrowthRate * green * (1 - green/s.CarryingKgHa)
		}
		senesced := s.SenescenceRate * green
		p.green[s.Name] = math.Max(0, green+growth-senesced)
		p.dead[s.Name] = math.Max(0, dead+senesced-s.DecayRate*dead)
	}
}
