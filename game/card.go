package game

import "math/rand"

// column ranges for the classic B-I-N-G-O layout
var columnRanges = [5][2]int{
	{1, 15},
	{16, 30},
	{31, 45},
	{46, 60},
	{61, 75},
}

// NewCard generates a 5x5 card: each column is drawn without replacement
// from its range and the center cell is the wildcard.
func NewCard(rng *rand.Rand) Card {
	var card Card
	for col := 0; col < 5; col++ {
		lo, hi := columnRanges[col][0], columnRanges[col][1]
		picks := rng.Perm(hi - lo + 1)[:5]
		for row := 0; row < 5; row++ {
			card[row][col] = lo + picks[row]
		}
	}
	card[2][2] = Wildcard
	return card
}
