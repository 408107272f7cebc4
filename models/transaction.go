package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxPurchase         TransactionType = "PURCHASE"
	TxPrize            TransactionType = "PRIZE"
	TxAdminCredit      TransactionType = "ADMIN_CREDIT"
	TxOrganizerPrize   TransactionType = "ORGANIZER_PRIZE"
	TxCardsRevenue     TransactionType = "CARDS_REVENUE"
	TxRaffleIncome     TransactionType = "RAFFLE_INCOME"
	TxWithdrawal       TransactionType = "WITHDRAWAL"
	TxWithdrawalRefund TransactionType = "WITHDRAWAL_REFUND"
)

// Transaction is an immutable ledger entry. Rows are never updated or
// deleted; an account's balance history must be reconstructible by summing
// its transactions.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Type          TransactionType `gorm:"size:20;index" json:"type"`
	Description   string          `json:"description"`
	Reference     string          `gorm:"size:36;uniqueIndex" json:"reference"`
	RelatedGameID *uint           `gorm:"index" json:"related_game_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
