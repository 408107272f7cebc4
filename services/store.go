package services

import (
	"errors"

	"github.com/bellapacxx/bingo-hall/models"
	"gorm.io/gorm"
)

// Store is the persistence surface consumed by sessions and the raffle
// engine. Atomic runs fn inside one durable transaction: every store and
// ledger call made through the passed Store commits together or not at all.
type Store interface {
	Ledger

	GameByID(id uint) (*models.Game, error)
	SaveGame(g *models.Game) error

	UserByID(id uint) (*models.User, error)
	AdminUser() (*models.User, error)

	PlayerFor(gameID, userID uint) (*models.Player, error)
	SavePlayer(p *models.Player) error
	PlayersByGame(gameID uint) ([]models.Player, error)

	Policy() (*models.PercentageSettings, error)

	RaffleByID(id uint) (*models.Raffle, error)
	SaveRaffle(r *models.Raffle) error
	CreateTicket(t *models.Ticket) error
	TicketsByRaffle(raffleID uint) ([]models.Ticket, error)

	Atomic(fn func(Store) error) error
}

// ErrNotFound is returned by lookups when no row exists.
var ErrNotFound = gorm.ErrRecordNotFound

// GormStore backs Store with a relational database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GameByID(id uint) (*models.Game, error) {
	var g models.Game
	if err := s.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GormStore) SaveGame(g *models.Game) error {
	return s.db.Save(g).Error
}

func (s *GormStore) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminUser returns the platform admin account, or nil when none exists.
func (s *GormStore) AdminUser() (*models.User, error) {
	var u models.User
	err := s.db.Where("is_admin = ?", true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) PlayerFor(gameID, userID uint) (*models.Player, error) {
	var p models.Player
	err := s.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) SavePlayer(p *models.Player) error {
	return s.db.Save(p).Error
}

func (s *GormStore) PlayersByGame(gameID uint) ([]models.Player, error) {
	var players []models.Player
	if err := s.db.Where("game_id = ?", gameID).Order("id").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (s *GormStore) Policy() (*models.PercentageSettings, error) {
	var p models.PercentageSettings
	if err := s.db.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) RaffleByID(id uint) (*models.Raffle, error) {
	var r models.Raffle
	if err := s.db.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *GormStore) SaveRaffle(r *models.Raffle) error {
	return s.db.Save(r).Error
}

func (s *GormStore) CreateTicket(t *models.Ticket) error {
	return s.db.Create(t).Error
}

func (s *GormStore) TicketsByRaffle(raffleID uint) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := s.db.Where("raffle_id = ?", raffleID).Order("number").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *GormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
