package model

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// BreedParams holds the physiological constants of a breed, following the
// GRAZPLAN animal biology model (Freer, Moore and Donnelly 2012).
// Energy values are metabolizable energy in MJ; protein values are kg.
type BreedParams struct {
	Name string

	// Growth curve toward standard reference weight.
	GrowthRate        float64 // curvature of maximum normal weight vs age
	GrowthExponent    float64 // size scaling of the growth curve
	NormalWeightBlend float64 // blend of curve weight and achieved weight

	// Potential intake.
	IntakeScale            float64 // kg intake per kg reference weight
	IntakeCurvature        float64 // relative-size term of potential intake
	ConditionCeiling       float64 // condition above which intake falls off
	LactationPeakIntakeDay float64 // day of lactation with highest appetite
	LactationIntakeShape   float64 // shape of the lactation appetite curve
	LactationIntakeScale   float64 // appetite lift at peak lactation
	SmallSizeRef           float64 // absolute size below which bite size limits intake

	// Rate of eating and relative ingestibility.
	QualityCeiling float64 // digestibility at which ingestibility saturates
	QualitySlope   float64 // ingestibility penalty per unit digestibility deficit
	RelAvailScale  float64 // boost of harvest rate with relative availability

	// Efficiencies of metabolizable energy use.
	MaintEffBase          float64
	MaintEffSlope         float64
	LactEffBase           float64
	LactEffSlope          float64
	GrowthEffScale        float64 // efficiency of gain per MJ/kg diet density
	LowPlaneGrowthDivisor float64 // tissue mobilization efficiency below maintenance

	// Maintenance.
	HeatIncrement      float64 // maintenance cost per MJ of intake
	MetabScale         float64 // basal metabolism per kg^0.75
	MetabAgeDecay      float64 // decline of basal metabolism with age (per day)
	MetabAgeFloor      float64 // mature floor of the age decline
	GrazeEnergyScale   float64 // energy cost of grazing per kg weight per kg intake
	GrazeQualityRef    float64 // digestibility at which grazing cost vanishes
	MaleMaintMult      float64 // maintenance multiplier for male cattle
	ProteinWeightScale float64 // maintenance protein per ln(kg) weight
	ProteinBase        float64 // maintenance protein offset
	ProteinIntakeScale float64 // endogenous protein loss per kg intake
	ProteinMetabScale  float64 // dermal/metabolic protein loss per kg^0.75

	// Rumen-degradable protein supply and the intake response to its deficit.
	RDPBase             float64
	RDPSlope            float64
	RDPShape            float64
	IntakeDeficitWeight float64 // fraction of a protein deficit expressed as intake reduction

	// Digestion of protein escaping the rumen.
	UDPDigestFloor   float64
	UDPDigestCeiling float64
	UDPDigestSlope   float64
	UDPDigestOffset  float64
	MicrobialYield   float64 // microbial crude protein per unit degradable supply
	MicrobialDigest  float64 // digestibility of microbial protein

	// Lactation.
	PeakMilkScale       float64 // peak milk yield as fraction of reference weight
	LactationShape      float64 // Wood-curve shape of the yield trajectory
	LactationOffsetDays float64 // pre-peak offset of the yield trajectory
	LactationPeakDay    float64 // day of lactation at peak yield
	MilkEnergyDensity   float64 // MJ per kg milk
	MilkEfficiency      float64 // efficiency of milk energy secretion
	MilkProteinContent  float64 // kg protein per kg milk

	// Pregnancy.
	GestationDays    float64
	PregEnergyScale  float64 // MJ/day per kg birth weight at term
	PregProteinScale float64 // kg/day per kg birth weight at term
	PregShape        float64 // steepness of the rise toward term

	// Composition of gain and loss.
	GainEnergyDensity  float64 // MJ per kg empty-body gain
	GainProteinContent float64 // kg protein per kg empty-body gain
	EmptyBodyToLive    float64 // live-weight change per empty-body change
	MaxDailyGainKg     float64 // ceiling on daily live-weight gain
}

// cattleBase holds the parameters shared by all cattle breeds; breed entries
// below override the indicus/taurus-sensitive constants.
func cattleBase(name string) BreedParams {
	return BreedParams{
		Name: name,

		GrowthRate:        0.0115,
		GrowthExponent:    0.27,
		NormalWeightBlend: 0.4,

		IntakeScale:            0.025,
		IntakeCurvature:        1.7,
		ConditionCeiling:       1.5,
		LactationPeakIntakeDay: 62,
		LactationIntakeShape:   1.7,
		LactationIntakeScale:   0.416,
		SmallSizeRef:           0.5,

		QualityCeiling: 0.8,
		QualitySlope:   1.7,
		RelAvailScale:  0.35,

		MaintEffBase:          0.5,
		MaintEffSlope:         0.02,
		LactEffBase:           0.4,
		LactEffSlope:          0.02,
		GrowthEffScale:        0.035,
		LowPlaneGrowthDivisor: 0.8,

		HeatIncrement:      0.09,
		MetabScale:         0.36,
		MetabAgeDecay:      0.00008,
		MetabAgeFloor:      0.84,
		GrazeEnergyScale:   0.0025,
		GrazeQualityRef:    0.9,
		MaleMaintMult:      1.15,
		ProteinWeightScale: 0.0161,
		ProteinBase:        0.0422,
		ProteinIntakeScale: 0.0152,
		ProteinMetabScale:  0.00011,

		RDPBase:             0.007,
		RDPSlope:            0.005,
		RDPShape:            0.35,
		IntakeDeficitWeight: 1.0,

		UDPDigestFloor:   0.05,
		UDPDigestCeiling: 0.85,
		UDPDigestSlope:   5.5,
		UDPDigestOffset:  0.178,
		MicrobialYield:   1.0,
		MicrobialDigest:  0.6,

		PeakMilkScale:       0.05,
		LactationShape:      0.6,
		LactationOffsetDays: 4,
		LactationPeakDay:    30,
		MilkEnergyDensity:   3.1,
		MilkEfficiency:      0.94,
		MilkProteinContent:  0.032,

		GestationDays:    285,
		PregEnergyScale:  0.85,
		PregProteinScale: 0.0042,
		PregShape:        4.0,

		GainEnergyDensity:  20.0,
		GainProteinContent: 0.15,
		EmptyBodyToLive:    1.09,
		MaxDailyGainKg:     1.5,
	}
}

func breedTable() map[string]BreedParams {
	taurus := cattleBase("B_taurus")

	indicus := cattleBase("B_indicus")
	indicus.MetabScale = 0.31
	indicus.ProteinWeightScale = 0.0129
	indicus.ProteinBase = 0.0338
	indicus.IntakeDeficitWeight = 0.5

	cross := cattleBase("indicus_x_taurus")
	cross.MetabScale = 0.335
	cross.ProteinWeightScale = 0.0145
	cross.ProteinBase = 0.038
	cross.IntakeDeficitWeight = 0.75

	return map[string]BreedParams{
		taurus.Name:  taurus,
		indicus.Name: indicus,
		cross.Name:   cross,
	}
}

// BreedNames lists the supported breed names, sorted.
func BreedNames() []string {
	table := breedTable()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BreedByName looks up the parameter set for a breed. An unknown name
// produces an error naming the closest supported breed.
func BreedByName(name string) (BreedParams, error) {
	if params, ok := breedTable()[name]; ok {
		return params, nil
	}
	closest, best := "", -1
	for _, candidate := range BreedNames() {
		if d := levenshtein.ComputeDistance(name, candidate); best < 0 || d < best {
			closest, best = candidate, d
		}
	}
	return BreedParams{}, fmt.Errorf("unknown breed %q (closest match: %q)", name, closest)
}
