package services

import (
	"fmt"

	"github.com/bellapacxx/bingo-hall/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one ledger posting: a signed delta against an account plus the
// transaction record that documents it.
type Entry struct {
	UserID      uint
	Amount      decimal.Decimal
	Type        models.TransactionType
	Description string
	GameID      *uint
}

// Ledger is the sole writer of credit balances. It does not check
// sufficiency: callers pre-check, and admin-issued penalties legitimately
// drive a balance negative.
type Ledger interface {
	// Post applies a single entry atomically.
	Post(e Entry) (*models.Transaction, error)
	// PostAll applies a batch all-or-nothing. Deltas for the same account
	// are summed into one balance update, so crediting an account twice in
	// one batch never races against itself; every entry still gets its own
	// transaction row.
	PostAll(entries []Entry) error
}

func (s *GormStore) Post(e Entry) (*models.Transaction, error) {
	var rec *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = postOne(tx, e)
		return err
	})
	return rec, err
}

func (s *GormStore) PostAll(entries []Entry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		// one balance update per distinct account
		order := make([]uint, 0, len(entries))
		deltas := make(map[uint]decimal.Decimal, len(entries))
		for _, e := range entries {
			if _, ok := deltas[e.UserID]; !ok {
				order = append(order, e.UserID)
			}
			deltas[e.UserID] = deltas[e.UserID].Add(e.Amount)
		}
		for _, userID := range order {
			if err := applyDelta(tx, userID, deltas[userID]); err != nil {
				return err
			}
		}
		for _, e := range entries {
			if err := tx.Create(newRecord(e)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func postOne(tx *gorm.DB, e Entry) (*models.Transaction, error) {
	if err := applyDelta(tx, e.UserID, e.Amount); err != nil {
		return nil, err
	}
	rec := newRecord(e)
	if err := tx.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// applyDelta locks the account row and increments the balance in the
// database, so concurrent credits from different games never lose an update.
func applyDelta(tx *gorm.DB, userID uint, delta decimal.Decimal) error {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		return fmt.Errorf("lock account %d: %w", userID, err)
	}
	res := tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("update balance for account %d: %w", userID, res.Error)
	}
	return nil
}

func newRecord(e Entry) *models.Transaction {
	return &models.Transaction{
		UserID:        e.UserID,
		Amount:        e.Amount,
		Type:          e.Type,
		Description:   e.Description,
		Reference:     uuid.NewString(),
		RelatedGameID: e.GameID,
	}
}
