package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(target int, prize int64) Tier {
	return Tier{Target: target, Prize: decimal.NewFromInt(prize)}
}

func TestCurrentPrizeAccumulatesTiers(t *testing.T) {
	base := decimal.NewFromInt(50)
	tiers := []Tier{tier(5, 100), tier(10, 200)}

	assert.True(t, CurrentPrize(base, tiers, 0).Equal(decimal.NewFromInt(50)))
	assert.True(t, CurrentPrize(base, tiers, 4).Equal(decimal.NewFromInt(50)))
	assert.True(t, CurrentPrize(base, tiers, 5).Equal(decimal.NewFromInt(150)))
	assert.True(t, CurrentPrize(base, tiers, 12).Equal(decimal.NewFromInt(350)))
}

func TestCurrentPrizeOrderIndependent(t *testing.T) {
	base := decimal.Zero
	forward := []Tier{tier(5, 100), tier(10, 200)}
	backward := []Tier{tier(10, 200), tier(5, 100)}

	assert.True(t, CurrentPrize(base, forward, 12).Equal(CurrentPrize(base, backward, 12)))
}

func TestNextTarget(t *testing.T) {
	tiers := []Tier{tier(10, 200), tier(5, 100)}

	next := NextTarget(tiers, 0)
	require.NotNil(t, next)
	assert.Equal(t, 5, *next)

	next = NextTarget(tiers, 5)
	require.NotNil(t, next)
	assert.Equal(t, 10, *next)

	assert.Nil(t, NextTarget(tiers, 12))
	assert.Nil(t, NextTarget(nil, 0))
}

func TestProgressPercentage(t *testing.T) {
	target := 5
	assert.InDelta(t, 60, ProgressPercentage(3, &target), 0.001)
	assert.InDelta(t, 100, ProgressPercentage(5, &target), 0.001)
	assert.InDelta(t, 100, ProgressPercentage(9, &target), 0.001, "capped at 100")
	assert.Zero(t, ProgressPercentage(3, nil))

	zero := 0
	assert.Zero(t, ProgressPercentage(3, &zero))
}

func TestSingleTierScenario(t *testing.T) {
	// base 0 with one tier: the prize appears exactly at the target
	tiers := []Tier{tier(5, 100)}

	assert.True(t, CurrentPrize(decimal.Zero, tiers, 4).IsZero())
	assert.True(t, CurrentPrize(decimal.Zero, tiers, 5).Equal(decimal.NewFromInt(100)))
	assert.Nil(t, NextTarget(tiers, 5))
}
