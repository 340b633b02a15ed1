package engine

import (
	"math"

	"github.com/stillerfuchssss/Tennis-Tournament-sub000/models"
)

// weightDamping limits how much of the theoretical sqrt bonus a small
// group actually receives.
const weightDamping = 0.2

// GroupKey identifies one competition cell.
type GroupKey struct {
	Bracket models.AgeBracket
	Tier    models.SkillTier
}

// WeightTable computes per-group scoring multipliers. Sizes holds the
// current participant count of every cell; Overrides short-circuit the
// computation for specific cells.
type WeightTable struct {
	Sizes     map[GroupKey]int
	Overrides map[GroupKey]float64
}

// GroupWeight returns the multiplier for a group of participantCount
// players in the given cell. The reference size is the largest sibling
// group within the same age bracket across all tiers, never less than
// participantCount itself. Smaller groups get a small bounded bonus so
// that totals stay comparable across unevenly sized groups.
func (t WeightTable) GroupWeight(participantCount int, bracket models.AgeBracket, tier models.SkillTier) float64 {
	if w, ok := t.Overrides[GroupKey{Bracket: bracket, Tier: tier}]; ok {
		return w
	}
	if participantCount <= 0 {
		return 1.0
	}
	max := participantCount
	for key, size := range t.Sizes {
		if key.Bracket == bracket && size > max {
			max = size
		}
	}
	return dampedWeight(participantCount, max)
}

func dampedWeight(participantCount, maxGroupSize int) float64 {
	base := math.Sqrt(float64(maxGroupSize)) / math.Sqrt(float64(participantCount))
	w := 1.0 + (base-1.0)*weightDamping
	if w < 1.0 {
		w = 1.0
	}
	return math.Round(w*100) / 100
}
