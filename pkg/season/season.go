package season

import "time"

const (
	Spring = "spring"
	Summer = "summer"
	Fall   = "fall"
	Winter = "winter"
)

// Of returns the northern-hemisphere season for t's month.
func Of(t time.Time) string {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return Spring
	case m >= time.June && m <= time.August:
		return Summer
	case m >= time.September && m <= time.November:
		return Fall
	}
	return Winter
}

type Context struct {
	Season             string `json:"season"`
	GrowthPhase        string `json:"growth_phase"`
	WateringAdjustment string `json:"watering_adjustment"`
	Fertilizing        string `json:"fertilizing"`
	Notes              string `json:"notes"`
}

var contexts = map[string]Context{
	Spring: {Spring, "active growth beginning", "gradually increase watering", "begin regular fertilizing",
		"Plants are waking up from dormancy. Watch for new growth."},
	Summer: {Summer, "peak growth", "water more frequently, check soil daily in heat", "continue regular fertilizing",
		"High heat may stress plants. Watch for wilting."},
	Fall: {Fall, "slowing growth", "gradually reduce watering", "reduce or stop fertilizing",
		"Plants preparing for dormancy. Less water needed."},
	Winter: {Winter, "dormancy or slow growth", "water sparingly, let soil dry more", "stop fertilizing for most plants",
		"Low light and dry indoor air. Watch humidity."},
}

func ContextFor(season string) Context {
	if c, ok := contexts[season]; ok {
		return c
	}
	return contexts[Spring]
}
