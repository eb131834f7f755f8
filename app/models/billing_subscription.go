package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillingCycleMonthly = "Monthly"
	BillingCycleAnnual  = "Annual"
)

const (
	BillingStatusActive    = "Active"
	BillingStatusPaused    = "Paused"
	BillingStatusCancelled = "Cancelled"
)

// BillingSubscription is the single current subscription row of a user.
type BillingSubscription struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan            string          `gorm:"type:varchar(20);not null;default:'Basic'" json:"plan"`
	BillingCycle    string          `gorm:"type:varchar(16);not null;default:'Monthly'" json:"billing_cycle"`
	Status          string          `gorm:"type:varchar(16);not null;default:'Active';index" json:"status"`
	Cost            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	NextBillingDate *time.Time      `gorm:"type:date;default:null" json:"next_billing_date,omitempty"`
	LastTxHash      string          `gorm:"type:varchar(66);default:''" json:"last_tx_hash"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
