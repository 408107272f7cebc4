package services

import (
	"encoding/json"

	"github.com/bellapacxx/bingo-hall/game"
)

// Event is the closed set of outbound realtime messages. Each variant knows
// its wire tag, so adding one is a compile-time change rather than a string
// scattered through the code.
type Event interface {
	eventType() string
}

// GameStatus is pushed to a viewer on connect.
type GameStatus struct {
	IsStarted          bool    `json:"is_started"`
	IsFinished         bool    `json:"is_finished"`
	IsAutoCalling      bool    `json:"is_auto_calling"`
	CurrentNumber      *int    `json:"current_number"`
	CalledNumbers      []int   `json:"called_numbers"`
	CurrentPrize       float64 `json:"current_prize"`
	TotalCardsSold     int     `json:"total_cards_sold"`
	NextPrizeTarget    *int    `json:"next_prize_target"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

func (GameStatus) eventType() string { return "game_status" }

type NumberCalled struct {
	Number        int   `json:"number"`
	CalledNumbers []int `json:"called_numbers"`
}

func (NumberCalled) eventType() string { return "number_called" }

type GameStarted struct {
	IsStarted      bool `json:"is_started"`
	TotalCardsSold int  `json:"total_cards_sold"`
	MaxCardsSold   int  `json:"max_cards_sold"`
}

func (GameStarted) eventType() string { return "game_started" }

type AutoCallToggled struct {
	IsAutoCalling bool `json:"is_auto_calling"`
}

func (AutoCallToggled) eventType() string { return "auto_call_toggled" }

type CardPurchased struct {
	User               string    `json:"user"`
	NewBalance         float64   `json:"new_balance"`
	PlayerCardsCount   int       `json:"player_cards_count"`
	NewCard            game.Card `json:"new_card"`
	PrizeIncreased     bool      `json:"prize_increased"`
	NewPrize           float64   `json:"new_prize"`
	IncreaseAmount     float64   `json:"increase_amount"`
	TotalCardsSold     int       `json:"total_cards_sold"`
	NextPrizeTarget    *int      `json:"next_prize_target"`
	ProgressPercentage float64   `json:"progress_percentage"`
}

func (CardPurchased) eventType() string { return "card_purchased" }

type PrizeUpdated struct {
	NewPrize           float64 `json:"new_prize"`
	IncreaseAmount     float64 `json:"increase_amount"`
	TotalCards         int     `json:"total_cards"`
	NextTarget         *int    `json:"next_target"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

func (PrizeUpdated) eventType() string { return "prize_updated" }

type GameEnded struct {
	Winner        string  `json:"winner"`
	Prize         float64 `json:"prize"`
	CalledNumbers []int   `json:"called_numbers"`
}

func (GameEnded) eventType() string { return "game_ended" }

// WinNotification goes to the winner's private channel only.
type WinNotification struct {
	Message string   `json:"message"`
	Prize   *float64 `json:"prize,omitempty"`
}

func (WinNotification) eventType() string { return "win_notification" }

// ErrorMessage carries a user-visible rejection back over the socket.
type ErrorMessage struct {
	Message string `json:"message"`
}

func (ErrorMessage) eventType() string { return "error" }

// marshalEvent wraps the event payload with its wire tag.
func marshalEvent(ev Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	m["type"] = ev.eventType()
	return json.Marshal(m)
}

// Broadcaster fans session state changes out to viewers. It carries no
// business logic.
type Broadcaster interface {
	ToGame(gameID uint, ev Event)
	ToUser(userID uint, ev Event)
}
