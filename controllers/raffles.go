package controllers

import (
	"net/http"
	"time"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateRaffle opens a raffle; the prize is escrowed from the organizer
func CreateRaffle(c *gin.Context) {
	var req struct {
		OrganizerID uint            `json:"organizer_id" binding:"required"`
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		TicketPrice decimal.Decimal `json:"ticket_price" binding:"required"`
		Prize       decimal.Decimal `json:"prize" binding:"required"`
		StartNumber int             `json:"start_number"`
		EndNumber   int             `json:"end_number" binding:"required"`

		IsManualWinner      bool `json:"is_manual_winner"`
		ManualWinningNumber *int `json:"manual_winning_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var organizer models.User
	if err := config.DB.First(&organizer, req.OrganizerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organizer not found"})
		return
	}
	if !organizer.IsOrganizer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only organizers can create raffles"})
		return
	}

	if req.StartNumber == 0 {
		req.StartNumber = 1
	}
	raffle, err := services.Raffles.Create(&models.Raffle{
		OrganizerID: req.OrganizerID,
		Title:       req.Title,
		Description: req.Description,
		TicketPrice: req.TicketPrice,
		Prize:       req.Prize,
		StartNumber: req.StartNumber,
		EndNumber:   req.EndNumber,

		IsManualWinner:      req.IsManualWinner,
		ManualWinningNumber: req.ManualWinningNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

// ListRaffles returns all raffles, open first
func ListRaffles(c *gin.Context) {
	var raffles []models.Raffle
	config.DB.Order("status asc, created_at desc").Find(&raffles)
	c.JSON(http.StatusOK, raffles)
}

// GetRaffle returns one raffle with its sold tickets
func GetRaffle(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var raffle models.Raffle
	if err := config.DB.First(&raffle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Raffle not found"})
		return
	}
	var tickets []models.Ticket
	config.DB.Where("raffle_id = ?", id).Order("number asc").Find(&tickets)

	sold := len(tickets)
	total := raffle.TotalTickets()
	progress := 0.0
	if total > 0 {
		progress = float64(sold) / float64(total) * 100
	}
	c.JSON(http.StatusOK, gin.H{
		"raffle":       raffle,
		"tickets":      tickets,
		"sold_tickets": sold,
		"progress":     progress,
		"draw_ready":   sold > 0 && raffle.Status != models.RaffleFinished,
	})
}

// BuyTicket sells one numbered ticket
func BuyTicket(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
		Number int  `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := services.Raffles.BuyTicket(id, req.UserID, req.Number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// DrawRaffle settles a raffle. Organizer only.
func DrawRaffle(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := services.Raffles.Draw(id, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"raffle":     raffle,
		"drawn_at":   time.Now(),
		"winner_id":  raffle.WinnerID,
		"winning_nr": raffle.WinningNumber,
	})
}
