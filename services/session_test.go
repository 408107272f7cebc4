package services

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// recordBus captures broadcasts for assertions.
type recordBus struct {
	mu     sync.Mutex
	toGame []Event
	toUser map[uint][]Event
}

func newRecordBus() *recordBus {
	return &recordBus{toUser: make(map[uint][]Event)}
}

func (b *recordBus) ToGame(gameID uint, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toGame = append(b.toGame, ev)
}

func (b *recordBus) ToUser(userID uint, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toUser[userID] = append(b.toUser[userID], ev)
}

func (b *recordBus) gameEvents() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.toGame...)
}

func (b *recordBus) userEvents(userID uint) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.toUser[userID]...)
}

// failStore wires selected failures into an otherwise real store.
type failStore struct {
	Store
	failAtomic  bool
	failPlayers bool
}

func (f *failStore) Atomic(fn func(Store) error) error {
	if f.failAtomic {
		return assertErr
	}
	return f.Store.Atomic(fn)
}

func (f *failStore) PlayersByGame(gameID uint) ([]models.Player, error) {
	if f.failPlayers {
		return nil, assertErr
	}
	return f.Store.PlayersByGame(gameID)
}

type sessionFixture struct {
	store     *GormStore
	bus       *recordBus
	session   *GameSession
	organizer *models.User
	admin     *models.User
	alice     *models.User
}

func newSessionFixture(t *testing.T, pattern game.Pattern) *sessionFixture {
	t.Helper()
	store := newTestStore(t)
	createPolicy(t, store)

	f := &sessionFixture{
		store:     store,
		bus:       newRecordBus(),
		organizer: createUser(t, store, "organizer", 1000, true, false),
		admin:     createUser(t, store, "admin", 0, false, true),
		alice:     createUser(t, store, "alice", 500, false, false),
	}

	g := &models.Game{
		Name:              "Friday Night",
		OrganizerID:       f.organizer.ID,
		EntryPrice:        decimal.NewFromInt(10),
		CardPrice:         decimal.NewFromInt(20),
		MaxCardsPerPlayer: 2,
		WinningPattern:    pattern,
		BasePrize:         decimal.NewFromInt(100),
		CurrentPrize:      decimal.NewFromInt(100),
	}
	require.NoError(t, store.db.Create(g).Error)
	f.session = newGameSession(g, store, f.bus)
	return f
}

func TestJoinChargesEntryFee(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)

	p, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)
	require.Equal(t, f.alice.ID, p.UserID)
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(490)))
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)

	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)
	_, err = f.session.Join(f.alice.ID)
	require.NoError(t, err)

	// charged once
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(490)))
	require.EqualValues(t, 1, txCount(t, f.store, f.alice.ID))
}

func TestOrganizerJoinsFree(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)

	_, err := f.session.Join(f.organizer.ID)
	require.NoError(t, err)
	require.True(t, balanceOf(t, f.store, f.organizer.ID).Equal(decimal.NewFromInt(1000)))
}

func TestJoinInsufficientFunds(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	poor := createUser(t, f.store, "poor", 5, false, false)

	_, err := f.session.Join(poor.ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// no player row was left behind
	_, err = f.store.PlayerFor(f.session.GameID(), poor.ID)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPurchaseCardSplitsPrice(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)

	purchase, err := f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, purchase.PlayerCardsCount)

	// 490 entry-paid balance minus the 20 card price
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(470)))
	// 10% to admin, 20% to organizer
	require.True(t, balanceOf(t, f.store, f.admin.ID).Equal(decimal.NewFromInt(2)))
	require.True(t, balanceOf(t, f.store, f.organizer.ID).Equal(decimal.NewFromInt(1004)))
}

func TestPurchaseBalanceIncludesBuyerSplit(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.organizer.ID)
	require.NoError(t, err)

	purchase, err := f.session.PurchaseCard(f.organizer.ID)
	require.NoError(t, err)

	// 1000 minus the 20 card price plus the organizer's own 4 sale split
	require.InDelta(t, 984, purchase.NewBalance, 0.001)
}

func TestPurchaseCardRequiresJoin(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.PurchaseCard(f.alice.ID)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPurchaseCardLimit(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)

	_, err = f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)
	_, err = f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)
	_, err = f.session.PurchaseCard(f.alice.ID)
	require.ErrorIs(t, err, ErrCardLimitReached)
}

func TestPurchaseCardAfterStart(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)
	require.NoError(t, f.session.Start(f.organizer.ID))

	_, err = f.session.PurchaseCard(f.alice.ID)
	require.ErrorIs(t, err, ErrGameAlreadyStarted)
}

func TestPurchaseCrossingTierRaisesPrize(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	tiers, err := json.Marshal([]game.Tier{{Target: 1, Prize: decimal.NewFromInt(50)}})
	require.NoError(t, err)
	f.session.game.ProgressiveTiers = datatypes.JSON(tiers)
	require.NoError(t, f.store.SaveGame(f.session.game))

	_, err = f.session.Join(f.alice.ID)
	require.NoError(t, err)
	purchase, err := f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)

	require.True(t, purchase.PrizeIncreased)
	require.InDelta(t, 150, purchase.NewPrize, 0.001)
	require.InDelta(t, 50, purchase.IncreaseAmount, 0.001)

	var sawPrizeUpdate bool
	for _, ev := range f.bus.gameEvents() {
		if _, ok := ev.(PrizeUpdated); ok {
			sawPrizeUpdate = true
		}
	}
	require.True(t, sawPrizeUpdate)
}

func TestStartRequiresOrganizer(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.ErrorIs(t, f.session.Start(f.alice.ID), ErrNotOrganizer)
	require.NoError(t, f.session.Start(f.organizer.ID))
	require.ErrorIs(t, f.session.Start(f.organizer.ID), ErrInvalidState)
}

func TestCallNumberValidation(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))

	bad := 91
	_, err := f.session.CallNumber(&bad)
	require.ErrorIs(t, err, ErrInvalidNumber)

	n := 7
	_, err = f.session.CallNumber(&n)
	require.NoError(t, err)
	_, err = f.session.CallNumber(&n)
	require.ErrorIs(t, err, ErrNumberAlreadyCalled)
}

func TestCallBroadcastsEvenWhenSweepFails(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))
	f.session.store = &failStore{Store: f.store, failPlayers: true}

	n := 7
	number, err := f.session.CallNumber(&n)
	require.ErrorIs(t, err, assertErr)
	require.Equal(t, 7, number)

	// the call is durable and the room heard it
	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	require.Contains(t, g.Called(), 7)

	events := f.bus.gameEvents()
	require.NotEmpty(t, events)
	last, ok := events[len(events)-1].(NumberCalled)
	require.True(t, ok)
	require.Equal(t, 7, last.Number)
}

func TestCallNumberBeforeStart(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.CallNumber(nil)
	require.ErrorIs(t, err, ErrInvalidState)
}

// call the four corners of alice's card so the corners pattern completes
func winByCorners(t *testing.T, f *sessionFixture) game.Card {
	t.Helper()
	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)
	purchase, err := f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)
	require.NoError(t, f.session.Start(f.organizer.ID))

	card := purchase.NewCard
	for _, n := range []int{card[0][0], card[0][4], card[4][0], card[4][4]} {
		n := n
		_, err := f.session.CallNumber(&n)
		require.NoError(t, err)
	}
	return card
}

func TestWinnerPayout(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	winByCorners(t, f)

	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	require.True(t, g.IsFinished)
	require.NotNil(t, g.WinnerID)
	require.Equal(t, f.alice.ID, *g.WinnerID)

	// prize 100 split 70/20/10, plus one sold card's 20 revenue to the organizer
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(540)),
		"winner balance: %s", balanceOf(t, f.store, f.alice.ID))
	require.True(t, balanceOf(t, f.store, f.organizer.ID).Equal(decimal.NewFromInt(1044)),
		"organizer balance: %s", balanceOf(t, f.store, f.organizer.ID))
	require.True(t, balanceOf(t, f.store, f.admin.ID).Equal(decimal.NewFromInt(12)),
		"admin balance: %s", balanceOf(t, f.store, f.admin.ID))

	player, err := f.store.PlayerFor(g.ID, f.alice.ID)
	require.NoError(t, err)
	require.True(t, player.IsWinner)

	events := f.bus.gameEvents()
	ended, ok := events[len(events)-1].(GameEnded)
	require.True(t, ok)
	require.Equal(t, "alice", ended.Winner)
	require.InDelta(t, 100, ended.Prize, 0.001)

	private := f.bus.userEvents(f.alice.ID)
	require.Len(t, private, 1)
	_, ok = private[0].(WinNotification)
	require.True(t, ok)
}

func TestOrganizerWinsOwnGame(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.organizer.ID)
	require.NoError(t, err)
	purchase, err := f.session.PurchaseCard(f.organizer.ID)
	require.NoError(t, err)
	require.NoError(t, f.session.Start(f.organizer.ID))

	card := purchase.NewCard
	for _, n := range []int{card[0][0], card[0][4], card[4][0], card[4][4]} {
		n := n
		_, err := f.session.CallNumber(&n)
		require.NoError(t, err)
	}

	// 1000, -20 card, +4 sale split, then one combined credit of
	// 70 player + 20 organizer + 20 cards revenue
	require.True(t, balanceOf(t, f.store, f.organizer.ID).Equal(decimal.NewFromInt(1094)),
		"organizer balance: %s", balanceOf(t, f.store, f.organizer.ID))
}

func TestFinishIsIdempotent(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	winByCorners(t, f)

	before := txCount(t, f.store, f.alice.ID)
	require.ErrorIs(t, f.session.Finish(f.alice.ID), ErrInvalidState)
	require.Equal(t, before, txCount(t, f.store, f.alice.ID))
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(540)))
}

func TestCallAfterFinish(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	winByCorners(t, f)

	_, err := f.session.CallNumber(nil)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestFailedPayoutLeavesGameRetryable(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	_, err := f.session.Join(f.alice.ID)
	require.NoError(t, err)
	purchase, err := f.session.PurchaseCard(f.alice.ID)
	require.NoError(t, err)
	require.NoError(t, f.session.Start(f.organizer.ID))

	fs := &failStore{Store: f.store, failAtomic: true}
	f.session.store = fs

	card := purchase.NewCard
	corners := []int{card[0][0], card[0][4], card[4][0], card[4][4]}
	for _, n := range corners[:3] {
		n := n
		_, err := f.session.CallNumber(&n)
		require.NoError(t, err)
	}
	last := corners[3]
	_, err = f.session.CallNumber(&last)
	require.ErrorIs(t, err, ErrPayoutFailed)

	// unfinished and unpaid, ready for a retry
	require.False(t, f.session.game.IsFinished)
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(470)))

	fs.failAtomic = false
	require.NoError(t, f.session.Finish(f.alice.ID))
	require.True(t, balanceOf(t, f.store, f.alice.ID).Equal(decimal.NewFromInt(540)))
}

func TestExhaustionEndsInDraw(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))

	for n := 1; n <= maxNumber; n++ {
		n := n
		_, err := f.session.CallNumber(&n)
		require.NoError(t, err)
	}

	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	require.True(t, g.IsFinished)
	require.Nil(t, g.WinnerID)

	events := f.bus.gameEvents()
	ended, ok := events[len(events)-1].(GameEnded)
	require.True(t, ok)
	require.Equal(t, "", ended.Winner)
	require.Zero(t, ended.Prize)
}

func TestToggleAutoCall(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)

	_, err := f.session.ToggleAutoCall(f.alice.ID)
	require.ErrorIs(t, err, ErrNotOrganizer)
	_, err = f.session.ToggleAutoCall(f.organizer.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, f.session.Start(f.organizer.ID))

	on, err := f.session.ToggleAutoCall(f.organizer.ID)
	require.NoError(t, err)
	require.True(t, on)

	off, err := f.session.ToggleAutoCall(f.organizer.ID)
	require.NoError(t, err)
	require.False(t, off)
}

func TestConcurrentCallsNeverDuplicate(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.session.CallNumber(nil)
		}()
	}
	wg.Wait()

	g, err := f.store.GameByID(f.session.GameID())
	require.NoError(t, err)
	called := g.Called()
	require.Len(t, called, 20)
	seen := make(map[int]bool)
	for _, n := range called {
		require.False(t, seen[n], "number %d called twice", n)
		seen[n] = true
	}
}

func TestStatusSnapshot(t *testing.T) {
	f := newSessionFixture(t, game.PatternCorners)
	require.NoError(t, f.session.Start(f.organizer.ID))
	n := 42
	_, err := f.session.CallNumber(&n)
	require.NoError(t, err)

	st := f.session.Status()
	require.True(t, st.IsStarted)
	require.False(t, st.IsFinished)
	require.Equal(t, []int{42}, st.CalledNumbers)
	require.NotNil(t, st.CurrentNumber)
	require.Equal(t, 42, *st.CurrentNumber)
}
