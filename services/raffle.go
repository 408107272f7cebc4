package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/utils/logger"
	"github.com/shopspring/decimal"
)

// RaffleEngine runs number raffles alongside the bingo games. The prize is
// escrowed from the organizer at creation, so a drawn raffle can always pay.
type RaffleEngine struct {
	mu    sync.Mutex
	store Store
	bus   Broadcaster
	rng   *rand.Rand
}

func NewRaffleEngine(store Store, bus Broadcaster) *RaffleEngine {
	return &RaffleEngine{
		store: store,
		bus:   bus,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create opens a raffle and escrows its prize from the organizer's balance.
func (e *RaffleEngine) Create(r *models.Raffle) (*models.Raffle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r.EndNumber < r.StartNumber || !r.TicketPrice.IsPositive() || !r.Prize.IsPositive() {
		return nil, ErrInvalidState
	}
	organizer, err := e.store.UserByID(r.OrganizerID)
	if err != nil {
		return nil, err
	}
	if organizer.CreditBalance.LessThan(r.Prize) {
		return nil, ErrInsufficientFunds
	}

	r.Status = models.RaffleWaiting
	err = e.store.Atomic(func(tx Store) error {
		if err := tx.SaveRaffle(r); err != nil {
			return err
		}
		_, err := tx.Post(Entry{
			UserID:      r.OrganizerID,
			Amount:      r.Prize.Neg(),
			Type:        models.TxPurchase,
			Description: fmt.Sprintf("Prize escrow for raffle %s", r.Title),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Infof("raffle %d: created by organizer %d, prize %s", r.ID, r.OrganizerID, r.Prize)
	return r, nil
}

// BuyTicket sells one numbered ticket. Every number sells at most once;
// passing half the tickets sold moves the raffle from waiting to in
// progress.
func (e *RaffleEngine) BuyTicket(raffleID, userID uint, number int) (*models.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.store.RaffleByID(raffleID)
	if err != nil {
		return nil, err
	}
	if r.Status == models.RaffleFinished {
		return nil, ErrRaffleClosed
	}
	if number < r.StartNumber || number > r.EndNumber {
		return nil, ErrInvalidNumber
	}

	tickets, err := e.store.TicketsByRaffle(raffleID)
	if err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if t.Number == number {
			return nil, ErrTicketTaken
		}
	}

	user, err := e.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.CreditBalance.LessThan(r.TicketPrice) {
		return nil, ErrInsufficientFunds
	}

	ticket := &models.Ticket{RaffleID: raffleID, OwnerID: userID, Number: number}
	err = e.store.Atomic(func(tx Store) error {
		if err := tx.CreateTicket(ticket); err != nil {
			return err
		}
		_, err := tx.Post(Entry{
			UserID:      userID,
			Amount:      r.TicketPrice.Neg(),
			Type:        models.TxPurchase,
			Description: fmt.Sprintf("Ticket %d in raffle %s", number, r.Title),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	sold := len(tickets) + 1
	if r.Status == models.RaffleWaiting && sold*2 >= r.TotalTickets() {
		r.Status = models.RaffleInProgress
		if err := e.store.SaveRaffle(r); err != nil {
			logger.Errorf("raffle %d: persist status: %v", raffleID, err)
		}
	}
	return ticket, nil
}

// Draw settles the raffle. The winning ticket is the organizer's
// pre-chosen number when one is set, otherwise a uniformly random sold
// ticket. The winner takes the player share of the escrowed prize, the
// organizer takes their share plus all ticket income, the admin takes the
// admin share.
func (e *RaffleEngine) Draw(raffleID, callerID uint) (*models.Raffle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.store.RaffleByID(raffleID)
	if err != nil {
		return nil, err
	}
	if callerID != r.OrganizerID {
		return nil, ErrNotOrganizer
	}
	if r.Status == models.RaffleFinished {
		return nil, ErrRaffleClosed
	}

	tickets, err := e.store.TicketsByRaffle(raffleID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrNoTicketsSold
	}

	policy, err := e.store.Policy()
	if err != nil {
		return nil, fmt.Errorf("%w: load distribution policy: %v", ErrPayoutFailed, err)
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	admin, err := e.store.AdminUser()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	var winning models.Ticket
	if r.IsManualWinner && r.ManualWinningNumber != nil {
		idx := -1
		for i, ticket := range tickets {
			if ticket.Number == *r.ManualWinningNumber {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrTicketNotSold
		}
		winning = tickets[idx]
	} else {
		winning = tickets[e.rng.Intn(len(tickets))]
	}
	ticketsIncome := r.TicketPrice.Mul(decimal.NewFromInt(int64(len(tickets))))
	playerShare := share(r.Prize, policy.PlayerPercentage)
	organizerShare := share(r.Prize, policy.OrganizerPercentage).Add(ticketsIncome)

	entries := []Entry{
		{
			UserID:      winning.OwnerID,
			Amount:      playerShare,
			Type:        models.TxPrize,
			Description: fmt.Sprintf("Winning ticket %d in raffle %s", winning.Number, r.Title),
		},
		{
			UserID:      r.OrganizerID,
			Amount:      organizerShare,
			Type:        models.TxRaffleIncome,
			Description: fmt.Sprintf("Organizer income from raffle %s", r.Title),
		},
	}
	if admin != nil {
		entries = append(entries, Entry{
			UserID:      admin.ID,
			Amount:      share(r.Prize, policy.AdminPercentage),
			Type:        models.TxAdminCredit,
			Description: fmt.Sprintf("Admin share of raffle %s", r.Title),
		})
	}

	now := time.Now()
	r.Status = models.RaffleFinished
	r.WinnerID = &winning.OwnerID
	r.WinningNumber = &winning.Number
	r.FinalPrize = &playerShare
	r.TicketsIncome = &ticketsIncome
	r.DrawDate = &now

	err = e.store.Atomic(func(tx Store) error {
		if err := tx.SaveRaffle(r); err != nil {
			return err
		}
		return tx.PostAll(entries)
	})
	if err != nil {
		r.Status = models.RaffleInProgress
		r.WinnerID, r.WinningNumber = nil, nil
		r.FinalPrize, r.TicketsIncome, r.DrawDate = nil, nil, nil
		logger.Errorf("raffle %d: settlement failed: %v", raffleID, err)
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}

	shareF := money(playerShare)
	e.bus.ToUser(winning.OwnerID, WinNotification{
		Message: fmt.Sprintf("Your ticket %d won raffle %s! Prize: %s credits", winning.Number, r.Title, playerShare),
		Prize:   &shareF,
	})
	logger.Infof("raffle %d: won by user %d with ticket %d", raffleID, winning.OwnerID, winning.Number)
	return r, nil
}
