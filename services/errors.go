package services

import "errors"

// Validation failures are returned to the caller; no partial effect occurs.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrCardLimitReached    = errors.New("card limit reached")
	ErrInvalidState        = errors.New("operation not valid in current state")
	ErrNotOrganizer        = errors.New("only the organizer may do this")
	ErrInvalidNumber       = errors.New("number out of range")
	ErrNumberAlreadyCalled = errors.New("number already called")
	ErrPlayerNotFound      = errors.New("player not found in this game")
	ErrPayoutFailed        = errors.New("payout failed")
	ErrTicketTaken         = errors.New("ticket number already sold")
	ErrTicketNotSold       = errors.New("ticket number not sold")
	ErrRaffleClosed        = errors.New("raffle is not open for purchases")
	ErrNoTicketsSold       = errors.New("no tickets sold")
	ErrInvalidCommand      = errors.New("unknown command")
)

// UserMessage maps an error to the message shown to the acting user.
// Internal failures keep their detail in the logs only.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient balance for this action."
	case errors.Is(err, ErrGameAlreadyStarted):
		return "Cards cannot be bought after the game has started."
	case errors.Is(err, ErrCardLimitReached):
		return "You have reached the card limit for this game."
	case errors.Is(err, ErrInvalidState):
		return "That action is not available right now."
	case errors.Is(err, ErrNotOrganizer):
		return "Only the organizer can do that."
	case errors.Is(err, ErrInvalidNumber):
		return "Number must be between 1 and 90."
	case errors.Is(err, ErrNumberAlreadyCalled):
		return "That number was already called."
	case errors.Is(err, ErrPlayerNotFound):
		return "Join the game before buying cards."
	case errors.Is(err, ErrTicketTaken):
		return "That ticket number is already sold."
	case errors.Is(err, ErrTicketNotSold):
		return "That ticket number has not been sold."
	case errors.Is(err, ErrRaffleClosed):
		return "This raffle is not selling tickets."
	case errors.Is(err, ErrNoTicketsSold):
		return "No tickets have been sold yet."
	case errors.Is(err, ErrInvalidCommand):
		return "Unknown command."
	default:
		return "Something went wrong, please try again."
	}
}
