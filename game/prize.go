package game

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tier adds Prize to the pot once peak card sales reach Target.
type Tier struct {
	Target int             `json:"target"`
	Prize  decimal.Decimal `json:"prize"`
}

// CurrentPrize sums the base prize with every tier whose target has been
// reached by the historical peak of cards sold. Tiers are independent, not
// exclusive bands, so evaluation order does not change the result.
func CurrentPrize(base decimal.Decimal, tiers []Tier, peakCardsSold int) decimal.Decimal {
	total := base
	for _, t := range tiers {
		if peakCardsSold >= t.Target {
			total = total.Add(t.Prize)
		}
	}
	return total
}

// NextTarget returns the smallest tier target strictly above the peak, or
// nil when every tier has been reached.
func NextTarget(tiers []Tier, peakCardsSold int) *int {
	sorted := append([]Tier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Target < sorted[j].Target })
	for _, t := range sorted {
		if peakCardsSold < t.Target {
			target := t.Target
			return &target
		}
	}
	return nil
}

// ProgressPercentage is how far current sales are toward the next tier,
// capped at 100. It is 0 when no tier remains.
func ProgressPercentage(totalCardsSold int, nextTarget *int) float64 {
	if nextTarget == nil || *nextTarget == 0 {
		return 0
	}
	pct := float64(totalCardsSold) / float64(*nextTarget) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
