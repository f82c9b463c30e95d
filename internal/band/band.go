package band

import "strings"

type Tier string

const (
	TierFrio   Tier = "Frio"
	TierAmeno  Tier = "Ameno"
	TierQuente Tier = "Quente"
)

type Condition string

const (
	ConditionSeco    Condition = "Seco"
	ConditionChuvoso Condition = "Chuvoso"
)

const (
	coldBelowC  = 15.0
	warmFromC   = 25.0
	rainAboveMM = 0.0
)

type Band struct {
	Tier      Tier
	Condition Condition
}

func Classify(tempC, precipMM float64) Band {
	return Band{
		Tier:      classifyTier(tempC),
		Condition: classifyCondition(precipMM),
	}
}

func classifyTier(tempC float64) Tier {
	switch {
	case tempC < coldBelowC:
		return TierFrio
	case tempC >= warmFromC:
		return TierQuente
	default:
		return TierAmeno
	}
}

func classifyCondition(precipMM float64) Condition {
	if precipMM > rainAboveMM {
		return ConditionChuvoso
	}
	return ConditionSeco
}

// String renders the band in the dataset label format, e.g. "Ameno_Chuvoso".
func (b Band) String() string {
	return string(b.Tier) + "_" + string(b.Condition)
}

// Parse splits a dataset label back into its tier and condition.
func Parse(label string) (Band, bool) {
	tier, cond, ok := strings.Cut(label, "_")
	if !ok {
		return Band{}, false
	}
	b := Band{Tier: Tier(tier), Condition: Condition(cond)}
	switch b.Tier {
	case TierFrio, TierAmeno, TierQuente:
	default:
		return Band{}, false
	}
	switch b.Condition {
	case ConditionSeco, ConditionChuvoso:
	default:
		return Band{}, false
	}
	return b, true
}
