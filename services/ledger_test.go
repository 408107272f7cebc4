package services

import (
	"errors"
	"testing"

	"github.com/bellapacxx/bingo-hall/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var assertErr = errors.New("boom")

func TestPostDebitAndCredit(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", 100, false, false)

	rec, err := store.Post(Entry{
		UserID:      alice.ID,
		Amount:      decimal.NewFromInt(-30),
		Type:        models.TxPurchase,
		Description: "Card purchase in Friday Night",
	})
	require.NoError(t, err)
	require.NotEmpty(t, rec.Reference)
	require.Equal(t, models.TxPurchase, rec.Type)

	_, err = store.Post(Entry{UserID: alice.ID, Amount: decimal.NewFromInt(55), Type: models.TxPrize})
	require.NoError(t, err)

	require.True(t, balanceOf(t, store, alice.ID).Equal(decimal.NewFromInt(125)))
	require.EqualValues(t, 2, txCount(t, store, alice.ID))
}

func TestPostUnknownAccount(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Post(Entry{UserID: 999, Amount: decimal.NewFromInt(10), Type: models.TxPrize})
	require.Error(t, err)
}

func TestPostAllMergesSameAccount(t *testing.T) {
	store := newTestStore(t)
	// an organizer who also wins gets one combined update, two rows
	organizer := createUser(t, store, "organizer", 0, true, false)

	err := store.PostAll([]Entry{
		{UserID: organizer.ID, Amount: decimal.NewFromInt(70), Type: models.TxPrize},
		{UserID: organizer.ID, Amount: decimal.NewFromInt(20), Type: models.TxOrganizerPrize},
	})
	require.NoError(t, err)

	require.True(t, balanceOf(t, store, organizer.ID).Equal(decimal.NewFromInt(90)))
	require.EqualValues(t, 2, txCount(t, store, organizer.ID))
}

func TestPostAllMultipleAccounts(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", 10, false, false)
	bob := createUser(t, store, "bob", 10, false, false)

	err := store.PostAll([]Entry{
		{UserID: alice.ID, Amount: decimal.NewFromInt(-5), Type: models.TxPurchase},
		{UserID: bob.ID, Amount: decimal.NewFromInt(5), Type: models.TxAdminCredit},
	})
	require.NoError(t, err)

	require.True(t, balanceOf(t, store, alice.ID).Equal(decimal.NewFromInt(5)))
	require.True(t, balanceOf(t, store, bob.ID).Equal(decimal.NewFromInt(15)))
}

func TestPostAllIsAllOrNothing(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", 10, false, false)

	err := store.PostAll([]Entry{
		{UserID: alice.ID, Amount: decimal.NewFromInt(50), Type: models.TxPrize},
		{UserID: 999, Amount: decimal.NewFromInt(1), Type: models.TxPrize},
	})
	require.Error(t, err)

	require.True(t, balanceOf(t, store, alice.ID).Equal(decimal.NewFromInt(10)))
	require.EqualValues(t, 0, txCount(t, store, alice.ID))
}

func TestTransactionSumMatchesBalanceDelta(t *testing.T) {
	store := newTestStore(t)
	initial := decimal.NewFromInt(200)
	alice := createUser(t, store, "alice", 200, false, false)

	entries := []Entry{
		{UserID: alice.ID, Amount: decimal.NewFromInt(-30), Type: models.TxPurchase},
		{UserID: alice.ID, Amount: decimal.NewFromFloat(70.50), Type: models.TxPrize},
		{UserID: alice.ID, Amount: decimal.NewFromInt(-15), Type: models.TxWithdrawal},
		{UserID: alice.ID, Amount: decimal.NewFromInt(15), Type: models.TxWithdrawalRefund},
	}
	for _, e := range entries {
		_, err := store.Post(e)
		require.NoError(t, err)
	}

	var rows []models.Transaction
	require.NoError(t, store.db.Where("user_id = ?", alice.ID).Find(&rows).Error)
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Amount)
	}
	require.True(t, balanceOf(t, store, alice.ID).Sub(initial).Equal(sum))
}

func TestLedgerAllowsNegativeBalance(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", 10, false, false)

	_, err := store.Post(Entry{UserID: alice.ID, Amount: decimal.NewFromInt(-25), Type: models.TxWithdrawal})
	require.NoError(t, err)
	require.True(t, balanceOf(t, store, alice.ID).Equal(decimal.NewFromInt(-15)))
}
