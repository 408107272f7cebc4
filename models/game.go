package models

import (
	"encoding/json"
	"time"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Game holds one bingo session's configuration and durable state.
// MaxCardsSold is the historical peak of TotalCardsSold; prize math always
// uses the peak so a prize never shrinks after refunds or resets.
type Game struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100" json:"name"`
	OrganizerID uint   `gorm:"index" json:"organizer_id"`

	EntryPrice        decimal.Decimal `gorm:"type:numeric(12,2)" json:"entry_price"`
	CardPrice         decimal.Decimal `gorm:"type:numeric(12,2)" json:"card_price"`
	MaxCardsPerPlayer int             `gorm:"default:1" json:"max_cards_per_player"`

	WinningPattern game.Pattern   `gorm:"size:20;default:FULL" json:"winning_pattern"`
	CustomPattern  datatypes.JSON `json:"custom_pattern,omitempty"` // 5x5 matrix of 0/1, CUSTOM only

	BasePrize        decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"base_prize"`
	ProgressiveTiers datatypes.JSON  `json:"progressive_tiers"` // [{"target":N,"prize":M}, ...]
	CurrentPrize     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"current_prize"`
	NextPrizeTarget  *int            `json:"next_prize_target"`

	TotalCardsSold int `gorm:"default:0" json:"total_cards_sold"`
	MaxCardsSold   int `gorm:"default:0" json:"max_cards_sold"`

	IsStarted        bool `gorm:"default:false" json:"is_started"`
	IsFinished       bool `gorm:"default:false" json:"is_finished"`
	IsAutoCalling    bool `gorm:"default:false" json:"is_auto_calling"`
	AutoCallInterval int  `gorm:"default:5" json:"auto_call_interval"` // seconds

	CurrentNumber *int           `json:"current_number"`
	CalledNumbers datatypes.JSON `json:"called_numbers"`

	WinnerID  *uint     `json:"winner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Called decodes the called-number sequence. A nil column reads as empty.
func (g *Game) Called() []int {
	if len(g.CalledNumbers) == 0 {
		return nil
	}
	var nums []int
	if err := json.Unmarshal(g.CalledNumbers, &nums); err != nil {
		return nil
	}
	return nums
}

// SetCalled replaces the stored called-number sequence.
func (g *Game) SetCalled(nums []int) error {
	b, err := json.Marshal(nums)
	if err != nil {
		return err
	}
	g.CalledNumbers = datatypes.JSON(b)
	return nil
}

// Tiers decodes the progressive-prize configuration.
func (g *Game) Tiers() ([]game.Tier, error) {
	if len(g.ProgressiveTiers) == 0 {
		return nil, nil
	}
	var tiers []game.Tier
	if err := json.Unmarshal(g.ProgressiveTiers, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// CustomMatrix decodes the custom winning pattern, or nil when unset.
func (g *Game) CustomMatrix() (*game.Matrix, error) {
	if len(g.CustomPattern) == 0 {
		return nil, nil
	}
	var m game.Matrix
	if err := json.Unmarshal(g.CustomPattern, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
