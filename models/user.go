package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is any party that can hold credits: player, organizer or the
// platform admin. CreditBalance is only ever written by the ledger.
type User struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Username      string          `gorm:"uniqueIndex;size:64" json:"username"`
	IsOrganizer   bool            `gorm:"default:false" json:"is_organizer"`
	IsAdmin       bool            `gorm:"default:false" json:"is_admin"`
	CreditBalance decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"credit_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
