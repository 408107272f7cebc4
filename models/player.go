package models

import (
	"encoding/json"
	"time"

	"github.com/bellapacxx/bingo-hall/game"
	"gorm.io/datatypes"
)

// Player is one user's participation in one game, created lazily on first
// interaction. At most one row exists per (user, game) pair.
type Player struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index:idx_player_user_game,unique" json:"user_id"`
	GameID    uint           `gorm:"index:idx_player_user_game,unique" json:"game_id"`
	Cards     datatypes.JSON `json:"cards"` // list of 5x5 grids
	IsWinner  bool           `gorm:"default:false" json:"is_winner"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// OwnedCards decodes the player's cards. A nil column reads as empty.
func (p *Player) OwnedCards() []game.Card {
	if len(p.Cards) == 0 {
		return nil
	}
	var cards []game.Card
	if err := json.Unmarshal(p.Cards, &cards); err != nil {
		return nil
	}
	return cards
}

// AppendCard adds a card to the player's list.
func (p *Player) AppendCard(c game.Card) error {
	cards := append(p.OwnedCards(), c)
	b, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	p.Cards = datatypes.JSON(b)
	return nil
}
