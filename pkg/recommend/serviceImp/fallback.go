package serviceImp

import (
	"fmt"
	"strings"

	"plantcare/entities"
	"plantcare/pkg/recommend/service"
	"plantcare/pkg/season"
)

var (
	waterAmounts = map[string]string{"small": "100-200ml", "medium": "300-500ml", "large": "500-750ml", "xlarge": "1-1.5L"}
	strengths    = map[string]string{"small": "1/4", "medium": "1/2", "large": "1/2-full", "xlarge": "full"}
)

func lookup(m map[string]string, potSize string) string {
	if v, ok := m[potSize]; ok {
		return v
	}
	return m["medium"]
}

// fallback is the rule table used when no provider answer is usable. arid
// comes from the species catalog or the plant's species name.
func fallback(in service.Input, arid bool) *service.Recommendation {
	name := in.Plant.Name
	pot := strings.ToLower(in.Plant.PotSize)
	r := &service.Recommendation{
		Source:   entities.SourceFallback,
		Timing:   "Morning is generally best",
		Steps:    []string{},
		Warnings: []string{},
		Tips:     []string{},
	}
	if entities.NeedsAttention(in.Plant.HealthStatus) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("This plant is currently %s - proceed carefully and monitor closely after care.", in.Plant.HealthStatus))
	}
	if in.Season.Season != "" {
		r.Tips = append(r.Tips, fmt.Sprintf("Seasonal note (%s): %s", in.Season.Season, in.Season.WateringAdjustment))
	}

	switch in.Task.TaskType {
	case entities.TaskWater:
		r.Summary = fmt.Sprintf("Water %s thoroughly until water drains from the bottom.", name)
		r.Amount = lookup(waterAmounts, pot)
		r.Steps = []string{
			"Check soil moisture 1-2 inches deep with your finger or moisture meter",
			"If dry, water slowly around the base of the plant",
			"Continue until water drains from drainage holes",
			"Empty saucer after 30 minutes to prevent root rot",
		}
		if arid {
			r.Warnings = append(r.Warnings, "Succulents prefer to dry out completely between waterings")
			r.Amount = "Soak thoroughly, then wait until bone dry"
		}
	case entities.TaskFertilize:
		st := lookup(strengths, pot)
		r.Summary = fmt.Sprintf("Apply balanced fertilizer at %s strength to support growth.", st)
		r.Amount = st + " strength dilution"
		r.Steps = []string{
			"Ensure soil is moist before fertilizing (water lightly first if dry)",
			"Mix fertilizer at recommended dilution",
			"Apply evenly around the soil surface",
			"Water again lightly to help distribute nutrients",
		}
		if in.Season.Season == season.Winter {
			r.Warnings = append(r.Warnings, "Most plants don't need fertilizer in winter - consider skipping")
		}
	case entities.TaskTrim, "prune":
		r.Summary = fmt.Sprintf("Remove dead or yellowing leaves and shape %s as needed.", name)
		r.Steps = []string{
			"Use clean, sharp scissors or pruning shears",
			"Remove any yellow, brown, or dead leaves at their base",
			"Trim leggy growth to encourage bushier shape",
			"Cut just above a leaf node for best regrowth",
		}
		r.Tips = append(r.Tips, "Healthy cuttings can often be propagated in water!")
	case entities.TaskRepot:
		r.Summary = fmt.Sprintf("Move %s to a slightly larger pot with fresh soil.", name)
		r.Amount = "New pot should be 1-2 inches larger in diameter"
		r.Steps = []string{
			"Water the plant 1-2 days before repotting",
			"Prepare new pot with drainage and fresh potting mix",
			"Gently remove plant and loosen root ball",
			"Place in new pot at same depth, fill with soil",
			"Water thoroughly and keep in indirect light for a week",
		}
	case entities.TaskMist:
		r.Summary = fmt.Sprintf("Mist %s to increase humidity around the leaves.", name)
		r.Steps = []string{
			"Use room temperature water in a spray bottle",
			"Mist around and above the plant, not directly on leaves",
			"Focus on the air around the plant",
		}
		r.Timing = "Morning is best - leaves need time to dry before evening"
		if arid {
			r.Warnings = append(r.Warnings, "Skip misting! Succulents and cacti prefer dry conditions.")
		}
	case entities.TaskRotate:
		r.Summary = fmt.Sprintf("Turn %s 1/4 turn for even light exposure.", name)
		r.Steps = []string{
			"Rotate the pot 90 degrees (1/4 turn)",
			"Always rotate in the same direction",
			"Mark the pot if needed to track rotation",
		}
		r.Tips = append(r.Tips, "This prevents lopsided growth toward the light source")
	case entities.TaskCheck:
		r.Summary = fmt.Sprintf("Inspect %s for overall health and any issues.", name)
		r.Steps = []string{
			"Check leaves (top and bottom) for pests or spots",
			"Feel soil moisture level",
			"Look for new growth or changes",
			"Check for yellowing, browning, or drooping",
		}
		r.Tips = append(r.Tips, "Take a photo to track changes over time")
	case entities.TaskChangeWater:
		r.Summary = fmt.Sprintf("Replace the water for %s with fresh room-temperature water.", name)
		r.Steps = []string{
			"Pour out the old water and rinse the container",
			"Refill with room temperature water to just cover the nodes",
			"Keep leaves above the waterline",
		}
		r.Tips = append(r.Tips, "Cloudy water or slimy roots mean it needs changing more often")
	default:
		r.Summary = fmt.Sprintf("Complete the %s task for %s.", in.Task.TaskType, name)
		r.Steps = []string{"Follow standard care practices for this task type"}
	}
	return r
}
