package game

// Pattern is the winning-shape rule configured per game.
type Pattern string

const (
	PatternHorizontal Pattern = "HORIZONTAL"
	PatternVertical   Pattern = "VERTICAL"
	PatternDiagonal   Pattern = "DIAGONAL"
	PatternFull       Pattern = "FULL"
	PatternCorners    Pattern = "CORNERS"
	PatternCustom     Pattern = "CUSTOM"
)

// Valid reports whether p names a known pattern.
func (p Pattern) Valid() bool {
	switch p {
	case PatternHorizontal, PatternVertical, PatternDiagonal, PatternFull, PatternCorners, PatternCustom:
		return true
	}
	return false
}

// Wildcard is the free-cell sentinel; it counts as marked on every card.
const Wildcard = 0

// Card is a 5x5 grid of numbers in row order.
type Card [5][5]int

// Matrix is a custom winning pattern: 1 marks a required cell.
type Matrix [5][5]int

type markedSet map[int]bool

func (m markedSet) has(n int) bool {
	return n == Wildcard || m[n]
}

// Matches reports whether card satisfies pattern given the called numbers.
// custom is consulted only for PatternCustom. The function has no side
// effects and is safe for concurrent use.
func Matches(card Card, called []int, pattern Pattern, custom *Matrix) bool {
	set := make(markedSet, len(called))
	for _, n := range called {
		set[n] = true
	}
	return matches(card, set, pattern, custom)
}

func matches(card Card, set markedSet, pattern Pattern, custom *Matrix) bool {
	switch pattern {
	case PatternHorizontal:
		for row := 0; row < 5; row++ {
			full := true
			for col := 0; col < 5; col++ {
				if !set.has(card[row][col]) {
					full = false
					break
				}
			}
			if full {
				return true
			}
		}
	case PatternVertical:
		for col := 0; col < 5; col++ {
			full := true
			for row := 0; row < 5; row++ {
				if !set.has(card[row][col]) {
					full = false
					break
				}
			}
			if full {
				return true
			}
		}
	case PatternDiagonal:
		// both diagonals are required, not either
		for i := 0; i < 5; i++ {
			if !set.has(card[i][i]) || !set.has(card[i][4-i]) {
				return false
			}
		}
		return true
	case PatternFull:
		for row := 0; row < 5; row++ {
			for col := 0; col < 5; col++ {
				if !set.has(card[row][col]) {
					return false
				}
			}
		}
		return true
	case PatternCorners:
		return set.has(card[0][0]) && set.has(card[0][4]) && set.has(card[4][0]) && set.has(card[4][4])
	case PatternCustom:
		if custom == nil {
			return false
		}
		for i := 0; i < 5; i++ {
			for j := 0; j < 5; j++ {
				if custom[i][j] == 1 && !set.has(card[i][j]) {
					return false
				}
			}
		}
		return true
	}
	return false
}

// AnyMatches reports whether any of the cards satisfies the pattern.
func AnyMatches(cards []Card, called []int, pattern Pattern, custom *Matrix) bool {
	set := make(markedSet, len(called))
	for _, n := range called {
		set[n] = true
	}
	for _, c := range cards {
		if matches(c, set, pattern, custom) {
			return true
		}
	}
	return false
}
