package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCompleted RequestStatus = "COMPLETED"
)

// CreditRequest is a player's request to have credits added after an
// off-platform payment. An admin approves or rejects it.
type CreditRequest struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Proof       string          `json:"proof"` // reference to the payment evidence
	Status      RequestStatus   `gorm:"size:20;default:PENDING;index" json:"status"`
	AdminNotes  string          `json:"admin_notes"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
}

// WithdrawalRequest reserves credits for an off-platform payout. Rejection
// refunds the reserved amount through the ledger.
type WithdrawalRequest struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"index" json:"user_id"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	BankName          string          `gorm:"size:100" json:"bank_name"`
	AccountNumber     string          `gorm:"size:50" json:"account_number"`
	AccountHolderName string          `gorm:"size:100" json:"account_holder_name"`
	Status            RequestStatus   `gorm:"size:20;default:PENDING;index" json:"status"`
	AdminNotes        string          `json:"admin_notes"`
	TransactionRef    string          `gorm:"size:100" json:"transaction_ref"`
	CreatedAt         time.Time       `json:"created_at"`
	ProcessedAt       *time.Time      `json:"processed_at"`
}
