// Package physiology implements the herbivore energy and protein balance:
// intake capacity, maintenance and reproduction requirements, realized
// nutrient intake from a selected diet, and the resulting weight change.
// The equation set follows the GRAZPLAN animal biology model (Freer, Moore
// and Donnelly 2012), restricted to grazing cattle.
package physiology

import (
	"math"

	"rangeland-forage/internal/model"
)

// twinMilkBoost lifts potential milk yield per additional suckling young.
const twinMilkBoost = 0.4

// Intermediates holds the quantities derived from a selected diet that feed
// the intake-ceiling check and the weight update.
type Intermediates struct {
	MEIMJ float64

	MaintEnergyMJ float64
	PregEnergyMJ  float64
	LactEnergyMJ  float64

	MaintProteinKg float64
	PregProteinKg  float64
	LactProteinKg  float64

	MilkKgDay float64
	DPLSKg    float64

	// RDPSupplyKg and RDPReqKg are the rumen-degradable protein supply of
	// the diet and the rumen microbes' demand for it.
	RDPSupplyKg float64
	RDPReqKg    float64

	// DietDensityMJKg is metabolizable energy per kg of diet dry matter.
	DietDensityMJKg float64
	// EnergyPlane is MEI relative to maintenance, minus one.
	EnergyPlane float64

	km float64 // efficiency of energy use for maintenance
	kl float64 // efficiency of energy use for lactation
}

// EnergyReqMJ is the total daily energy requirement.
func (in Intermediates) EnergyReqMJ() float64 {
	return in.MaintEnergyMJ + in.PregEnergyMJ + in.LactEnergyMJ
}

// ProteinReqKg is the total daily protein requirement.
func (in Intermediates) ProteinReqKg() float64 {
	return in.MaintProteinKg + in.PregProteinKg + in.LactProteinKg
}

// MaxIntakeKgDay is the gut-fill ceiling: the most dry matter one
// individual can eat in a day, from its size and condition, lifted during
// lactation. Diet quality acts on this ceiling separately, through
// ReducedIntake.
func MaxIntakeKgDay(h *model.Herbivore) float64 {
	if h.State.WeightKg <= h.Params.BirthWeightKg {
		return 0
	}
	b := h.Breed
	cf := 1.0
	if bc := h.Condition(); bc > 1 {
		// Over-condition animals eat below potential.
		cf = bc * (b.ConditionCeiling - bc) / (b.ConditionCeiling - 1)
		if cf < 0 {
			cf = 0
		}
	}
	lf := 1.0
	if h.State.Stage == model.StageLactating {
		mi := (h.State.StageDays + 1) / b.LactationPeakIntakeDay
		lf = 1 + b.LactationIntakeScale*math.Pow(mi, b.LactationIntakeShape)*
			math.Exp(b.LactationIntakeShape*(1-mi))
	}
	z := h.RelativeSize()
	return b.IntakeScale * h.Params.SRWKg * z * (b.IntakeCurvature - z) * cf * lf
}

// Derive computes the requirement and intake quantities for a selected
// diet. It is a pure function; errors are NutrientBalanceErrors for
// non-physical results.
func Derive(step model.Step, h *model.Herbivore, d model.DietAllocation) (Intermediates, error) {
	b := h.Breed
	w := h.State.WeightKg
	intake := d.TotalKgDay
	dmd := d.Digestibility
	cpi := d.CrudeProteinKgDay

	var in Intermediates
	if intake > 0 {
		in.MEIMJ = (17.0*dmd - 2.0) * intake
		in.DietDensityMJKg = in.MEIMJ / intake
	}
	if err := checkQuantity(step, h, "metabolizable energy intake", in.MEIMJ); err != nil {
		return in, err
	}

	in.km = b.MaintEffBase + b.MaintEffSlope*in.DietDensityMJKg
	in.kl = b.LactEffBase + b.LactEffSlope*in.DietDensityMJKg

	metab := b.MetabScale * math.Pow(w, 0.75) *
		math.Max(math.Exp(-b.MetabAgeDecay*h.State.AgeDays), b.MetabAgeFloor)
	graze := b.GrazeEnergyScale * w * intake * (b.GrazeQualityRef - dmd)
	if graze < 0 {
		graze = 0
	}
	in.MaintEnergyMJ = (metab+graze)/in.km + b.HeatIncrement*in.MEIMJ
	switch h.Params.Sex {
	case model.SexEntireMale, model.SexCastrate:
		in.MaintEnergyMJ *= b.MaleMaintMult
	case model.SexHerdAverage:
		in.MaintEnergyMJ *= (1 + b.MaleMaintMult) / 2
	}
	in.EnergyPlane = in.MEIMJ/in.MaintEnergyMJ - 1

	in.MaintProteinKg = b.ProteinWeightScale*math.Log(w) - b.ProteinBase +
		b.ProteinIntakeScale*intake + b.ProteinMetabScale*math.Pow(w, 0.75)

	switch h.State.Stage {
	case model.StagePregnant:
		progress := h.State.StageDays / b.GestationDays
		rise := math.Exp(b.PregShape * (progress - 1))
		in.PregEnergyMJ = b.PregEnergyScale * h.Params.BirthWeightKg * rise
		in.PregProteinKg = b.PregProteinScale * h.Params.BirthWeightKg * rise
	case model.StageLactating:
		mm := (h.State.StageDays + b.LactationOffsetDays) / b.LactationPeakDay
		curve := math.Pow(mm, b.LactationShape) * math.Exp(b.LactationShape*(1-mm))
		litter := 1.0
		if h.State.Offspring > 1 {
			litter += twinMilkBoost * float64(h.State.Offspring-1)
		}
		in.MilkKgDay = b.PeakMilkScale * h.Params.SRWKg * curve * litter
		in.LactEnergyMJ = in.MilkKgDay * b.MilkEnergyDensity / (b.MilkEfficiency * in.kl)
		in.LactProteinKg = in.MilkKgDay * b.MilkProteinContent
	}

	// Digestible protein leaving the stomach: rumen-degradable supply plus
	// microbial crude protein, with digestion of the undegraded fraction.
	degradability := math.Min(0.84*dmd+0.33, 1)
	in.RDPSupplyKg = cpi * degradability
	in.RDPReqKg = (b.RDPBase + b.RDPSlope*(1-math.Exp(-b.RDPShape*(in.EnergyPlane+1)))) * in.MEIMJ
	udp := cpi - in.RDPSupplyKg
	udpDigest := math.Max(b.UDPDigestFloor, math.Min(b.UDPDigestSlope*cpi-b.UDPDigestOffset, b.UDPDigestCeiling))
	in.DPLSKg = udpDigest*udp + b.MicrobialYield*b.MicrobialDigest*in.RDPReqKg

	for _, q := range []struct {
		name  string
		value float64
	}{
		{"energy requirement", in.EnergyReqMJ()},
		{"protein requirement", in.ProteinReqKg()},
		{"digestible protein leaving the stomach", in.DPLSKg},
	} {
		if err := checkQuantity(step, h, q.name, q.value); err != nil {
			return in, err
		}
	}
	return in, nil
}

// ReducedIntake lowers the intake ceiling when the selected diet cannot
// supply the rumen-degradable protein its own energy plane demands. Diet
// selection is then repeated with the reduced ceiling, making the capacity
// a function of forage quality as well as animal size.
func ReducedIntake(h *model.Herbivore, d model.DietAllocation, in Intermediates, maxIntakeKgDay float64) float64 {
	if maxIntakeKgDay == 0 {
		return 0
	}
	supply := in.RDPSupplyKg
	if in.EnergyPlane > 0 {
		supply *= 1 - (0.3-0.25*d.Digestibility)*in.EnergyPlane
	}
	if in.RDPReqKg <= supply || in.RDPReqKg <= 0 {
		return maxIntakeKgDay
	}
	factor := 1 - (1-supply/in.RDPReqKg)*h.Breed.IntakeDeficitWeight
	if factor < 0 {
		factor = 0
	}
	return maxIntakeKgDay * factor
}

// Update turns a selected diet into the step's nutrient balance and the
// herbivore state for the next step. The input herbivore is not mutated.
//
// The energy balance drives daily weight change: a surplus is converted to
// gain at the growth efficiency for the diet, limited by the protein
// balance and the breed's maximum daily gain; a deficit mobilizes body
// tissue, floored so weight never falls below birth weight.
func Update(step model.Step, h *model.Herbivore, d model.DietAllocation) (model.NutrientBalance, model.HerbivoreState, error) {
	in, err := Derive(step, h, d)
	if err != nil {
		return model.NutrientBalance{}, h.State, err
	}

	energyBalance := in.MEIMJ - in.EnergyReqMJ()
	proteinBalance := in.DPLSKg - in.ProteinReqKg()

	var deltaKgDay float64
	if energyBalance >= 0 {
		kg := h.Breed.GrowthEffScale * in.DietDensityMJKg
		gainFromEnergy := kg * energyBalance / h.Breed.GainEnergyDensity
		gainFromProtein := math.Max(0, proteinBalance) / h.Breed.GainProteinContent
		deltaKgDay = math.Min(gainFromEnergy, gainFromProtein) * h.Breed.EmptyBodyToLive
		if deltaKgDay > h.Breed.MaxDailyGainKg {
			deltaKgDay = h.Breed.MaxDailyGainKg
		}
	} else {
		deltaKgDay = energyBalance * h.Breed.LowPlaneGrowthDivisor /
			h.Breed.GainEnergyDensity * h.Breed.EmptyBodyToLive
	}
	if math.IsNaN(deltaKgDay) || math.IsInf(deltaKgDay, 0) {
		return model.NutrientBalance{}, h.State, &model.NutrientBalanceError{
			Step: step.Index, Herbivore: h.Params.Name, Quantity: "weight change", Value: deltaKgDay,
		}
	}

	next := h.State
	next.PrevWeightKg = h.State.WeightKg
	next.WeightKg = h.State.WeightKg + deltaKgDay*model.DaysPerStep
	if next.WeightKg < h.Params.BirthWeightKg {
		next.WeightKg = h.Params.BirthWeightKg
	}
	next.AgeDays += model.DaysPerStep
	switch h.State.Stage {
	case model.StagePregnant:
		next.StageDays = math.Min(h.State.StageDays+model.DaysPerStep, h.Breed.GestationDays)
	case model.StageLactating:
		next.StageDays = h.State.StageDays + model.DaysPerStep
	}

	balance := model.NutrientBalance{
		Herbivore:     h.Params.Name,
		EnergyReqMJ:   in.EnergyReqMJ(),
		ProteinReqKg:  in.ProteinReqKg(),
		MEIMJ:         in.MEIMJ,
		DPLSKg:        in.DPLSKg,
		IntakeKgDay:   d.TotalKgDay,
		MilkKgDay:     in.MilkKgDay,
		WeightDeltaKg: deltaKgDay,
	}
	return balance, next, nil
}

func checkQuantity(step model.Step, h *model.Herbivore, name string, value float64) error {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return &model.NutrientBalanceError{
			Step:      step.Index,
			Herbivore: h.Params.Name,
			Quantity:  name,
			Value:     value,
		}
	}
	return nil
}
