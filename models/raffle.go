package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RaffleStatus string

const (
	RaffleWaiting    RaffleStatus = "WAITING"
	RaffleInProgress RaffleStatus = "IN_PROGRESS"
	RaffleFinished   RaffleStatus = "FINISHED"
)

// Raffle is a numbered-ticket draw. The organizer escrows the prize at
// creation; the draw distributes it with the same share policy as games.
type Raffle struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrganizerID uint   `gorm:"index" json:"organizer_id"`
	Title       string `gorm:"size:100" json:"title"`
	Description string `json:"description"`

	TicketPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"ticket_price"`
	Prize       decimal.Decimal `gorm:"type:numeric(12,2)" json:"prize"`

	StartNumber int `gorm:"default:1" json:"start_number"`
	EndNumber   int `json:"end_number"`

	Status        RaffleStatus `gorm:"size:20;default:WAITING;index" json:"status"`
	WinnerID      *uint        `json:"winner_id"`
	WinningNumber *int         `json:"winning_number"`

	// organizer may fix the winning number ahead of the draw; the draw
	// then fails until that number has actually been sold
	IsManualWinner      bool `gorm:"default:false" json:"is_manual_winner"`
	ManualWinningNumber *int `json:"manual_winning_number"`

	// filled at draw time
	FinalPrize    *decimal.Decimal `gorm:"type:numeric(12,2)" json:"final_prize,omitempty"`
	TicketsIncome *decimal.Decimal `gorm:"type:numeric(12,2)" json:"tickets_income,omitempty"`

	DrawDate  *time.Time `json:"draw_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalTickets is the size of the number range.
func (r *Raffle) TotalTickets() int {
	return r.EndNumber - r.StartNumber + 1
}

// Ticket is one purchased number in a raffle. Numbers are unique per raffle.
type Ticket struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RaffleID    uint      `gorm:"index:idx_ticket_raffle_number,unique" json:"raffle_id"`
	Number      int       `gorm:"index:idx_ticket_raffle_number,unique" json:"number"`
	OwnerID     uint      `gorm:"index" json:"owner_id"`
	PurchasedAt time.Time `gorm:"autoCreateTime" json:"purchased_at"`
}
