package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard() Card {
	return Card{
		{1, 16, 31, 46, 61},
		{2, 17, 32, 47, 62},
		{3, 18, Wildcard, 48, 63},
		{4, 19, 34, 49, 64},
		{5, 20, 35, 50, 65},
	}
}

func allNumbers(c Card) []int {
	var nums []int
	for _, row := range c {
		for _, n := range row {
			if n != Wildcard {
				nums = append(nums, n)
			}
		}
	}
	return nums
}

func TestHorizontal(t *testing.T) {
	card := testCard()
	assert.True(t, Matches(card, []int{1, 16, 31, 46, 61}, PatternHorizontal, nil))
	assert.False(t, Matches(card, []int{1, 16, 31, 46}, PatternHorizontal, nil))
	// the wildcard row needs only its four real numbers
	assert.True(t, Matches(card, []int{3, 18, 48, 63}, PatternHorizontal, nil))
}

func TestVertical(t *testing.T) {
	card := testCard()
	assert.True(t, Matches(card, []int{1, 2, 3, 4, 5}, PatternVertical, nil))
	assert.False(t, Matches(card, []int{1, 2, 3, 4}, PatternVertical, nil))
	// the wildcard column needs only its four real numbers
	assert.True(t, Matches(card, []int{31, 32, 34, 35}, PatternVertical, nil))
	// a full row does not satisfy the vertical pattern
	assert.False(t, Matches(card, []int{1, 16, 31, 46, 61}, PatternVertical, nil))
}

func TestDiagonalRequiresBoth(t *testing.T) {
	card := testCard()
	main := []int{1, 17, 49, 65}
	anti := []int{61, 47, 19, 5}

	assert.False(t, Matches(card, main, PatternDiagonal, nil), "one diagonal is not enough")
	assert.False(t, Matches(card, anti, PatternDiagonal, nil), "one diagonal is not enough")
	assert.True(t, Matches(card, append(main, anti...), PatternDiagonal, nil))
}

func TestCorners(t *testing.T) {
	card := testCard()
	assert.True(t, Matches(card, []int{1, 61, 5, 65}, PatternCorners, nil))
	assert.False(t, Matches(card, []int{1, 61, 5}, PatternCorners, nil))
}

func TestFull(t *testing.T) {
	card := testCard()
	nums := allNumbers(card)
	require.Len(t, nums, 24)

	assert.True(t, Matches(card, nums, PatternFull, nil))
	assert.False(t, Matches(card, nums[1:], PatternFull, nil))
}

func TestCustom(t *testing.T) {
	card := testCard()
	// plus shape: middle row and middle column
	var m Matrix
	for i := 0; i < 5; i++ {
		m[2][i] = 1
		m[i][2] = 1
	}
	called := []int{3, 18, 48, 63, 31, 32, 34, 35}

	assert.True(t, Matches(card, called, PatternCustom, &m))
	assert.False(t, Matches(card, called[1:], PatternCustom, &m))
	assert.False(t, Matches(card, called, PatternCustom, nil), "custom without a matrix never matches")
}

func TestUnknownPattern(t *testing.T) {
	assert.False(t, Matches(testCard(), []int{1, 2, 3}, Pattern("SPIRAL"), nil))
	assert.False(t, Pattern("SPIRAL").Valid())
	assert.True(t, PatternDiagonal.Valid())
}

func TestAnyMatches(t *testing.T) {
	winner := testCard()
	loser := Card{
		{6, 21, 36, 51, 66},
		{7, 22, 37, 52, 67},
		{8, 23, Wildcard, 53, 68},
		{9, 24, 39, 54, 69},
		{10, 25, 40, 55, 70},
	}
	called := []int{1, 61, 5, 65}

	assert.True(t, AnyMatches([]Card{loser, winner}, called, PatternCorners, nil))
	assert.False(t, AnyMatches([]Card{loser}, called, PatternCorners, nil))
	assert.False(t, AnyMatches(nil, called, PatternCorners, nil))
}
