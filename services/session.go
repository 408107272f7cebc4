package services

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/utils/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// numbers are drawn from 1..maxNumber
const maxNumber = 90

var hundred = decimal.NewFromInt(100)

// GameSession is the single live authority for one game. Every state-mutating
// operation holds the session mutex for its full duration, payout included,
// so organizer commands, the auto-call timer and card purchases serialize
// within the game.
type GameSession struct {
	mu    sync.Mutex
	store Store
	bus   Broadcaster
	game  *models.Game
	rng   *rand.Rand

	stopAuto chan struct{}

	// set by the registry; runs once a finish has committed and the
	// timer is stopped, so the registry can release the session
	onFinished func()
}

func newGameSession(g *models.Game, store Store, bus Broadcaster) *GameSession {
	s := &GameSession{
		store: store,
		bus:   bus,
		game:  g,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if g.IsAutoCalling && g.IsStarted && !g.IsFinished {
		// resume the timer after a process restart
		s.stopAuto = make(chan struct{})
		go s.autoCallLoop(s.stopAuto, s.interval())
	}
	return s
}

func (s *GameSession) interval() time.Duration {
	if s.game.AutoCallInterval <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.game.AutoCallInterval) * time.Second
}

// GameID returns the identifier of the underlying game.
func (s *GameSession) GameID() uint {
	return s.game.ID
}

// OrganizerID returns the owning organizer's user id.
func (s *GameSession) OrganizerID() uint {
	return s.game.OrganizerID
}

// Status snapshots the session for a freshly connected viewer.
func (s *GameSession) Status() GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GameStatus{
		IsStarted:          s.game.IsStarted,
		IsFinished:         s.game.IsFinished,
		IsAutoCalling:      s.game.IsAutoCalling,
		CurrentNumber:      s.game.CurrentNumber,
		CalledNumbers:      s.game.Called(),
		CurrentPrize:       money(s.game.CurrentPrize),
		TotalCardsSold:     s.game.TotalCardsSold,
		NextPrizeTarget:    s.game.NextPrizeTarget,
		ProgressPercentage: game.ProgressPercentage(s.game.TotalCardsSold, s.game.NextPrizeTarget),
	}
}

// Join returns the caller's Player row, creating it on first touch. Joining
// charges the entry price; the organizer is exempt.
func (s *GameSession) Join(userID uint) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.PlayerFor(s.game.ID, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPlayerNotFound) {
		return nil, err
	}

	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	isOrganizer := userID == s.game.OrganizerID
	if !isOrganizer && user.CreditBalance.LessThan(s.game.EntryPrice) {
		return nil, ErrInsufficientFunds
	}

	player := &models.Player{UserID: userID, GameID: s.game.ID, Cards: datatypes.JSON("[]")}
	err = s.store.Atomic(func(tx Store) error {
		if err := tx.SavePlayer(player); err != nil {
			return err
		}
		if isOrganizer || !s.game.EntryPrice.IsPositive() {
			return nil
		}
		gid := s.game.ID
		_, err := tx.Post(Entry{
			UserID:      userID,
			Amount:      s.game.EntryPrice.Neg(),
			Type:        models.TxPurchase,
			Description: fmt.Sprintf("Entry fee for %s", s.game.Name),
			GameID:      &gid,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("game %d: user %d joined", s.game.ID, userID)
	return player, nil
}

// PurchaseCard sells one card to a joined player. Valid only before the game
// starts. The card append, the buyer debit, the admin/organizer split and the
// counter updates commit together or not at all.
func (s *GameSession) PurchaseCard(userID uint) (*CardPurchased, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsFinished {
		return nil, ErrInvalidState
	}
	if s.game.IsStarted {
		return nil, ErrGameAlreadyStarted
	}

	player, err := s.store.PlayerFor(s.game.ID, userID)
	if err != nil {
		return nil, err
	}
	if len(player.OwnedCards()) >= s.game.MaxCardsPerPlayer {
		return nil, ErrCardLimitReached
	}
	user, err := s.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.CreditBalance.LessThan(s.game.CardPrice) {
		return nil, ErrInsufficientFunds
	}
	policy, err := s.store.Policy()
	if err != nil {
		return nil, err
	}
	admin, err := s.store.AdminUser()
	if err != nil {
		return nil, err
	}
	tiers, err := s.game.Tiers()
	if err != nil {
		return nil, err
	}

	card := game.NewCard(s.rng)
	gid := s.game.ID
	oldPrize := s.game.CurrentPrize

	prevTotal, prevMax := s.game.TotalCardsSold, s.game.MaxCardsSold
	prevNext := s.game.NextPrizeTarget

	err = s.store.Atomic(func(tx Store) error {
		if err := player.AppendCard(card); err != nil {
			return err
		}
		if err := tx.SavePlayer(player); err != nil {
			return err
		}

		entries := []Entry{{
			UserID:      userID,
			Amount:      s.game.CardPrice.Neg(),
			Type:        models.TxPurchase,
			Description: fmt.Sprintf("Card purchase in %s", s.game.Name),
			GameID:      &gid,
		}}
		if organizerShare := share(s.game.CardPrice, policy.OrganizerPercentage); organizerShare.IsPositive() {
			entries = append(entries, Entry{
				UserID:      s.game.OrganizerID,
				Amount:      organizerShare,
				Type:        models.TxAdminCredit,
				Description: fmt.Sprintf("Organizer split of card sale in %s", s.game.Name),
				GameID:      &gid,
			})
		}
		if admin != nil {
			if adminShare := share(s.game.CardPrice, policy.AdminPercentage); adminShare.IsPositive() {
				entries = append(entries, Entry{
					UserID:      admin.ID,
					Amount:      adminShare,
					Type:        models.TxAdminCredit,
					Description: fmt.Sprintf("Admin split of card sale in %s", s.game.Name),
					GameID:      &gid,
				})
			}
		}

		s.game.TotalCardsSold++
		if s.game.TotalCardsSold > s.game.MaxCardsSold {
			s.game.MaxCardsSold = s.game.TotalCardsSold
		}
		s.game.CurrentPrize = game.CurrentPrize(s.game.BasePrize, tiers, s.game.MaxCardsSold)
		s.game.NextPrizeTarget = game.NextTarget(tiers, s.game.MaxCardsSold)
		if err := tx.SaveGame(s.game); err != nil {
			return err
		}
		return tx.PostAll(entries)
	})
	if err != nil {
		s.game.TotalCardsSold, s.game.MaxCardsSold = prevTotal, prevMax
		s.game.CurrentPrize, s.game.NextPrizeTarget = oldPrize, prevNext
		return nil, err
	}

	// re-read the balance: when the buyer is the organizer or the admin
	// part of the card price came straight back as their split
	newBalance := user.CreditBalance.Sub(s.game.CardPrice)
	if refreshed, err := s.store.UserByID(userID); err == nil {
		newBalance = refreshed.CreditBalance
	}

	increase := s.game.CurrentPrize.Sub(oldPrize)
	ev := CardPurchased{
		User:               user.Username,
		NewBalance:         money(newBalance),
		PlayerCardsCount:   len(player.OwnedCards()),
		NewCard:            card,
		PrizeIncreased:     increase.IsPositive(),
		NewPrize:           money(s.game.CurrentPrize),
		IncreaseAmount:     money(increase),
		TotalCardsSold:     s.game.TotalCardsSold,
		NextPrizeTarget:    s.game.NextPrizeTarget,
		ProgressPercentage: game.ProgressPercentage(s.game.TotalCardsSold, s.game.NextPrizeTarget),
	}
	s.bus.ToGame(s.game.ID, ev)
	if increase.IsPositive() {
		s.bus.ToGame(s.game.ID, PrizeUpdated{
			NewPrize:           money(s.game.CurrentPrize),
			IncreaseAmount:     money(increase),
			TotalCards:         s.game.MaxCardsSold,
			NextTarget:         s.game.NextPrizeTarget,
			ProgressPercentage: game.ProgressPercentage(s.game.TotalCardsSold, s.game.NextPrizeTarget),
		})
	}
	return &ev, nil
}

// Start moves the game from pending to running. Organizer only.
func (s *GameSession) Start(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID != s.game.OrganizerID {
		return ErrNotOrganizer
	}
	if s.game.IsStarted || s.game.IsFinished {
		return ErrInvalidState
	}

	s.game.IsStarted = true
	if s.game.TotalCardsSold > s.game.MaxCardsSold {
		s.game.MaxCardsSold = s.game.TotalCardsSold
	}
	if err := s.store.SaveGame(s.game); err != nil {
		s.game.IsStarted = false
		return err
	}
	s.bus.ToGame(s.game.ID, GameStarted{
		IsStarted:      true,
		TotalCardsSold: s.game.TotalCardsSold,
		MaxCardsSold:   s.game.MaxCardsSold,
	})
	logger.Infof("game %d: started by organizer %d", s.game.ID, userID)
	return nil
}

// ToggleAutoCall flips automatic calling while the game runs. Turning it on
// spawns the timer task; turning it off cancels the pending wait.
func (s *GameSession) ToggleAutoCall(userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID != s.game.OrganizerID {
		return false, ErrNotOrganizer
	}
	if !s.game.IsStarted || s.game.IsFinished {
		return false, ErrInvalidState
	}

	enable := !s.game.IsAutoCalling
	s.game.IsAutoCalling = enable
	if err := s.store.SaveGame(s.game); err != nil {
		s.game.IsAutoCalling = !enable
		return false, err
	}
	if enable {
		s.stopAuto = make(chan struct{})
		go s.autoCallLoop(s.stopAuto, s.interval())
	} else {
		s.stopAutoLocked()
	}
	s.bus.ToGame(s.game.ID, AutoCallToggled{IsAutoCalling: enable})
	return enable, nil
}

// CallNumber reveals one number. With explicit set it is an organizer's
// manual call; otherwise a uniformly random pick from the numbers not yet
// called. Finding a winner finishes the game; exhausting all numbers without
// one ends it as a draw.
func (s *GameSession) CallNumber(explicit *int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callLocked(explicit)
}

func (s *GameSession) callLocked(explicit *int) (int, error) {
	if !s.game.IsStarted || s.game.IsFinished {
		return 0, ErrInvalidState
	}

	called := s.game.Called()
	seen := make(map[int]bool, len(called))
	for _, n := range called {
		seen[n] = true
	}

	var number int
	if explicit != nil {
		number = *explicit
		if number < 1 || number > maxNumber {
			return 0, ErrInvalidNumber
		}
		if seen[number] {
			return 0, ErrNumberAlreadyCalled
		}
	} else {
		remaining := make([]int, 0, maxNumber-len(called))
		for n := 1; n <= maxNumber; n++ {
			if !seen[n] {
				remaining = append(remaining, n)
			}
		}
		if len(remaining) == 0 {
			return 0, ErrInvalidState
		}
		number = remaining[s.rng.Intn(len(remaining))]
	}

	called = append(called, number)
	prevCurrent := s.game.CurrentNumber
	if err := s.game.SetCalled(called); err != nil {
		return 0, err
	}
	s.game.CurrentNumber = &number
	if err := s.store.SaveGame(s.game); err != nil {
		s.game.CurrentNumber = prevCurrent
		_ = s.game.SetCalled(called[:len(called)-1])
		return 0, err
	}

	// the number is durable past this point; clients hear about it even
	// when the winner sweep fails
	players, err := s.store.PlayersByGame(s.game.ID)
	if err != nil {
		s.bus.ToGame(s.game.ID, NumberCalled{Number: number, CalledNumbers: called})
		return number, err
	}
	custom, err := s.game.CustomMatrix()
	if err != nil {
		s.bus.ToGame(s.game.ID, NumberCalled{Number: number, CalledNumbers: called})
		return number, err
	}
	for i := range players {
		if game.AnyMatches(players[i].OwnedCards(), called, s.game.WinningPattern, custom) {
			if err := s.finishLocked(&players[i]); err != nil {
				return 0, err
			}
			return number, nil
		}
	}

	if len(called) == maxNumber {
		// every number called with no winner: the game ends as a draw
		s.game.IsFinished = true
		s.game.IsAutoCalling = false
		if err := s.store.SaveGame(s.game); err != nil {
			s.game.IsFinished = false
			return 0, err
		}
		s.stopAutoLocked()
		s.bus.ToGame(s.game.ID, GameEnded{Winner: "", Prize: 0, CalledNumbers: called})
		logger.Infof("game %d: finished as a draw", s.game.ID)
		s.notifyFinishedLocked()
		return number, nil
	}

	s.bus.ToGame(s.game.ID, NumberCalled{Number: number, CalledNumbers: called})
	return number, nil
}

// Finish names a winner and runs the payout. Exposed so an operator can
// retry after a failed payout; a finished game never pays twice.
func (s *GameSession) Finish(winnerUserID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.IsFinished {
		return ErrInvalidState
	}
	player, err := s.store.PlayerFor(s.game.ID, winnerUserID)
	if err != nil {
		return err
	}
	return s.finishLocked(player)
}

// finishLocked marks the winner and distributes the prize. The state flip,
// the winner flag, every balance change and every transaction row commit in
// one unit; on failure the game stays unfinished so finish can be retried.
func (s *GameSession) finishLocked(winner *models.Player) error {
	if !s.game.IsStarted || s.game.IsFinished {
		return ErrInvalidState
	}

	user, err := s.store.UserByID(winner.UserID)
	if err != nil {
		return err
	}
	policy, err := s.store.Policy()
	if err != nil {
		return fmt.Errorf("%w: load distribution policy: %v", ErrPayoutFailed, err)
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	admin, err := s.store.AdminUser()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	tiers, err := s.game.Tiers()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	// the peak counter is authoritative: prizes never shrink with refunds
	prize := game.CurrentPrize(s.game.BasePrize, tiers, s.game.MaxCardsSold)
	entries := payoutEntries(s.game, user.ID, prize, policy, admin)

	prevPrize := s.game.CurrentPrize
	s.game.CurrentPrize = prize
	s.game.IsFinished = true
	s.game.IsAutoCalling = false
	s.game.WinnerID = &user.ID
	winner.IsWinner = true

	err = s.store.Atomic(func(tx Store) error {
		if err := tx.SaveGame(s.game); err != nil {
			return err
		}
		if err := tx.SavePlayer(winner); err != nil {
			return err
		}
		return tx.PostAll(entries)
	})
	if err != nil {
		s.game.IsFinished = false
		s.game.IsAutoCalling = false
		s.game.WinnerID = nil
		s.game.CurrentPrize = prevPrize
		winner.IsWinner = false
		logger.Errorf("game %d: payout failed: %v", s.game.ID, err)
		return fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	s.stopAutoLocked()

	playerShare := share(prize, policy.PlayerPercentage)
	shareF := money(playerShare)
	s.bus.ToUser(user.ID, WinNotification{
		Message: fmt.Sprintf("BINGO! You won %s credits in %s", playerShare, s.game.Name),
		Prize:   &shareF,
	})
	s.bus.ToGame(s.game.ID, GameEnded{
		Winner:        user.Username,
		Prize:         money(prize),
		CalledNumbers: s.game.Called(),
	})
	logger.Infof("game %d: won by user %d, prize %s", s.game.ID, user.ID, prize)
	s.notifyFinishedLocked()
	return nil
}

// notifyFinishedLocked hands the session back to the registry. The hook
// runs on its own goroutine: eviction re-acquires the session lock, which
// the caller still holds.
func (s *GameSession) notifyFinishedLocked() {
	if s.onFinished != nil {
		go s.onFinished()
	}
}

func (s *GameSession) stopAutoLocked() {
	if s.stopAuto != nil {
		close(s.stopAuto)
		s.stopAuto = nil
	}
}

// autoCallLoop drives the timer while auto-calling is on. A wake after the
// flag was toggled off or the game finished is a no-op. Any other error
// stops the loop; the organizer resumes manually.
func (s *GameSession) autoCallLoop(stop chan struct{}, interval time.Duration) {
	for {
		select {
		case <-stop:
			return
		case <-time.After(interval):
		}

		s.mu.Lock()
		if !s.game.IsAutoCalling || s.game.IsFinished {
			s.mu.Unlock()
			return
		}
		_, err := s.callLocked(nil)
		if err != nil {
			s.game.IsAutoCalling = false
			if saveErr := s.store.SaveGame(s.game); saveErr != nil {
				logger.Errorf("game %d: persist auto-call stop: %v", s.game.ID, saveErr)
			}
			s.stopAutoLocked()
			gameID := s.game.ID
			s.mu.Unlock()
			logger.Errorf("game %d: auto-call stopped: %v", gameID, err)
			s.bus.ToGame(gameID, AutoCallToggled{IsAutoCalling: false})
			return
		}
		finished := s.game.IsFinished
		s.mu.Unlock()
		if finished {
			return
		}
	}
}

// payoutEntries builds the distribution for one finished game: the winner's
// share, the organizer's share, the admin's share when an admin account
// exists, and the full card-sales revenue to the organizer. PostAll merges
// the deltas per distinct account, so an organizer who also wins receives a
// single combined balance update.
func payoutEntries(g *models.Game, winnerID uint, prize decimal.Decimal, policy *models.PercentageSettings, admin *models.User) []Entry {
	gid := g.ID
	entries := []Entry{
		{
			UserID:      winnerID,
			Amount:      share(prize, policy.PlayerPercentage),
			Type:        models.TxPrize,
			Description: fmt.Sprintf("Prize for winning %s", g.Name),
			GameID:      &gid,
		},
		{
			UserID:      g.OrganizerID,
			Amount:      share(prize, policy.OrganizerPercentage),
			Type:        models.TxOrganizerPrize,
			Description: fmt.Sprintf("Organizer share of %s", g.Name),
			GameID:      &gid,
		},
	}
	if admin != nil {
		entries = append(entries, Entry{
			UserID:      admin.ID,
			Amount:      share(prize, policy.AdminPercentage),
			Type:        models.TxAdminCredit,
			Description: fmt.Sprintf("Admin share of %s", g.Name),
			GameID:      &gid,
		})
	}
	cardsRevenue := g.CardPrice.Mul(decimal.NewFromInt(int64(g.MaxCardsSold)))
	if cardsRevenue.IsPositive() {
		entries = append(entries, Entry{
			UserID:      g.OrganizerID,
			Amount:      cardsRevenue,
			Type:        models.TxCardsRevenue,
			Description: fmt.Sprintf("Card sales revenue for %s", g.Name),
			GameID:      &gid,
		})
	}
	return entries
}

// share applies a percentage with decimal arithmetic, truncating to cents.
// The rounding residue stays uncredited.
func share(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).RoundDown(2)
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
