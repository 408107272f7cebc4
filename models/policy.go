package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// distribution shares must sum to 100 within this tolerance
var policyTolerance = decimal.NewFromFloat(0.01)

// PercentageSettings is the live prize-distribution policy. It is read at
// payout time and not versioned: historical payouts keep whatever policy was
// live when they ran.
type PercentageSettings struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	AdminPercentage     decimal.Decimal `gorm:"type:numeric(5,2);default:10" json:"admin_percentage"`
	OrganizerPercentage decimal.Decimal `gorm:"type:numeric(5,2);default:20" json:"organizer_percentage"`
	PlayerPercentage    decimal.Decimal `gorm:"type:numeric(5,2);default:70" json:"player_percentage"`
	UpdatedAt           time.Time       `json:"updated_at"`
	UpdatedByID         *uint           `json:"updated_by_id"`
}

// DefaultPercentageSettings is the 10/20/70 admin/organizer/player split.
func DefaultPercentageSettings() *PercentageSettings {
	return &PercentageSettings{
		AdminPercentage:     decimal.NewFromInt(10),
		OrganizerPercentage: decimal.NewFromInt(20),
		PlayerPercentage:    decimal.NewFromInt(70),
	}
}

// Validate rejects share sets that do not sum to 100 (within 0.01) or that
// contain a negative share.
func (p *PercentageSettings) Validate() error {
	hundred := decimal.NewFromInt(100)
	for _, pct := range []decimal.Decimal{p.AdminPercentage, p.OrganizerPercentage, p.PlayerPercentage} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("percentage %s out of range", pct)
		}
	}
	sum := p.AdminPercentage.Add(p.OrganizerPercentage).Add(p.PlayerPercentage)
	if sum.Sub(hundred).Abs().GreaterThan(policyTolerance) {
		return fmt.Errorf("percentages sum to %s, want 100", sum)
	}
	return nil
}
