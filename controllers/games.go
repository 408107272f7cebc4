package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/bellapacxx/bingo-hall/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CreateGame lets an organizer open a new game
func CreateGame(c *gin.Context) {
	var req struct {
		Name              string          `json:"name" binding:"required"`
		OrganizerID       uint            `json:"organizer_id" binding:"required"`
		EntryPrice        decimal.Decimal `json:"entry_price"`
		CardPrice         decimal.Decimal `json:"card_price"`
		MaxCardsPerPlayer int             `json:"max_cards_per_player"`
		WinningPattern    game.Pattern    `json:"winning_pattern"`
		CustomPattern     *game.Matrix    `json:"custom_pattern"`
		BasePrize         decimal.Decimal `json:"base_prize"`
		ProgressiveTiers  []game.Tier     `json:"progressive_tiers"`
		AutoCallInterval  int             `json:"auto_call_interval"`
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only organizers can create games"})
		return
	}

	if req.WinningPattern == "" {
		req.WinningPattern = game.PatternFull
	}
	if !req.WinningPattern.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown winning pattern"})
		return
	}
	if req.WinningPattern == game.PatternCustom && req.CustomPattern == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Custom pattern requires a matrix"})
		return
	}
	if req.MaxCardsPerPlayer <= 0 {
		req.MaxCardsPerPlayer = 1
	}

	g := models.Game{
		Name:              req.Name,
		OrganizerID:       req.OrganizerID,
		EntryPrice:        req.EntryPrice,
		CardPrice:         req.CardPrice,
		MaxCardsPerPlayer: req.MaxCardsPerPlayer,
		WinningPattern:    req.WinningPattern,
		BasePrize:         req.BasePrize,
		CurrentPrize:      req.BasePrize,
		AutoCallInterval:  req.AutoCallInterval,
	}
	if req.CustomPattern != nil {
		b, err := json.Marshal(req.CustomPattern)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid custom pattern"})
			return
		}
		g.CustomPattern = datatypes.JSON(b)
	}
	if len(req.ProgressiveTiers) > 0 {
		b, err := json.Marshal(req.ProgressiveTiers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid progressive tiers"})
			return
		}
		g.ProgressiveTiers = datatypes.JSON(b)
		g.NextPrizeTarget = game.NextTarget(req.ProgressiveTiers, 0)
	}

	if err := config.DB.Create(&g).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

// ListGames returns all games
func ListGames(c *gin.Context) {
	var games []models.Game
	config.DB.Order("created_at desc").Find(&games)
	c.JSON(http.StatusOK, games)
}

// GetGame returns single game info
func GetGame(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var g models.Game
	if err := config.DB.First(&g, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, g)
}

// GameStatus returns the live session snapshot
func GameStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, session.Status())
}

type actorRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// JoinGame registers a player and charges the entry fee
func JoinGame(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	player, err := session.Join(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// BuyCard sells one card to a joined player
func BuyCard(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	purchase, err := session.PurchaseCard(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// StartGame moves a pending game to running. Organizer only.
func StartGame(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if err := session.Start(req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game started"})
}

// ToggleAutoCall flips the automatic caller. Organizer only.
func ToggleAutoCall(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	enabled, err := session.ToggleAutoCall(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_auto_calling": enabled})
}

// CallNumber reveals a number: the organizer's pick, or random when omitted
func CallNumber(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
		Number *int `json:"number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := services.Sessions.GetOrCreate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if req.UserID != session.OrganizerID() {
		respondError(c, services.ErrNotOrganizer)
		return
	}
	number, err := session.CallNumber(req.Number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number})
}
