package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func pct(admin, organizer, player float64) *PercentageSettings {
	return &PercentageSettings{
		AdminPercentage:     decimal.NewFromFloat(admin),
		OrganizerPercentage: decimal.NewFromFloat(organizer),
		PlayerPercentage:    decimal.NewFromFloat(player),
	}
}

func TestDefaultPolicyIsValid(t *testing.T) {
	assert.NoError(t, DefaultPercentageSettings().Validate())
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, pct(33.33, 33.33, 33.34).Validate())
	assert.NoError(t, pct(0, 0, 100).Validate())

	assert.Error(t, pct(30, 30, 30).Validate(), "sums to 90")
	assert.Error(t, pct(40, 40, 40).Validate(), "sums to 120")
	assert.Error(t, pct(-10, 40, 70).Validate(), "negative share")
	assert.Error(t, pct(110, -5, -5).Validate(), "share above 100")
}

func TestPolicyToleranceBoundary(t *testing.T) {
	assert.NoError(t, pct(10, 20, 70.01).Validate())
	assert.Error(t, pct(10, 20, 70.02).Validate())
}
