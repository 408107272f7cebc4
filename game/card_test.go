package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	card := NewCard(rng)

	assert.Equal(t, Wildcard, card[2][2])

	for col := 0; col < 5; col++ {
		lo, hi := columnRanges[col][0], columnRanges[col][1]
		seen := make(map[int]bool)
		for row := 0; row < 5; row++ {
			if row == 2 && col == 2 {
				continue
			}
			n := card[row][col]
			require.GreaterOrEqual(t, n, lo, "column %d", col)
			require.LessOrEqual(t, n, hi, "column %d", col)
			require.False(t, seen[n], "duplicate %d in column %d", n, col)
			seen[n] = true
		}
	}
}

func TestNewCardSeededReproducibly(t *testing.T) {
	a := NewCard(rand.New(rand.NewSource(7)))
	b := NewCard(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)

	c := NewCard(rand.New(rand.NewSource(8)))
	assert.NotEqual(t, a, c)
}
