package controllers

import (
	"net/http"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetPolicy returns the live prize-distribution percentages
func GetPolicy(c *gin.Context) {
	var policy models.PercentageSettings
	if err := config.DB.First(&policy).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not configured"})
		return
	}
	c.JSON(http.StatusOK, policy)
}

// UpdatePolicy replaces the distribution percentages. Admin only; the new
// shares apply to payouts from this moment on.
func UpdatePolicy(c *gin.Context) {
	var req struct {
		AdminID             uint            `json:"admin_id" binding:"required"`
		AdminPercentage     decimal.Decimal `json:"admin_percentage"`
		OrganizerPercentage decimal.Decimal `json:"organizer_percentage"`
		PlayerPercentage    decimal.Decimal `json:"player_percentage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.User
	if err := config.DB.First(&admin, req.AdminID).Error; err != nil || !admin.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only an admin can change the policy"})
		return
	}

	var policy models.PercentageSettings
	if err := config.DB.First(&policy).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not configured"})
		return
	}

	policy.AdminPercentage = req.AdminPercentage
	policy.OrganizerPercentage = req.OrganizerPercentage
	policy.PlayerPercentage = req.PlayerPercentage
	policy.UpdatedByID = &admin.ID
	if err := policy.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&policy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update policy"})
		return
	}
	c.JSON(http.StatusOK, policy)
}
