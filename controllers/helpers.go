package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bellapacxx/bingo-hall/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps engine errors onto HTTP statuses. Internal detail never
// reaches the client; services.UserMessage keeps the wording consistent with
// the websocket error events.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, services.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNotOrganizer):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNumberAlreadyCalled),
		errors.Is(err, services.ErrTicketTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, services.ErrPayoutFailed):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": services.UserMessage(err)})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}
