package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingUsage tracks one metered resource of a user.
type BillingUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_billing_usages_user_resource,unique,priority:1" json:"user_id"`
	Resource  string    `gorm:"type:varchar(50);not null;index:ux_billing_usages_user_resource,unique,priority:2" json:"resource"`
	Used      int       `gorm:"not null;default:0" json:"used"`
	Limit     int       `gorm:"column:usage_limit;not null;default:0" json:"limit"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BillingPaymentMethod is a stored, already tokenized payment method.
type BillingPaymentMethod struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"`
	Last4     string    `gorm:"type:varchar(4);default:''" json:"last4"`
	Expiry    string    `gorm:"type:varchar(7);default:''" json:"expiry"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BillingTransaction is one entry of the billing history.
type BillingTransaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Plan      string          `gorm:"type:varchar(20);default:''" json:"plan"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Currency  string          `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"`
	Method    string          `gorm:"type:varchar(100);not null" json:"method"`
	TxHash    string          `gorm:"type:varchar(66);index;default:''" json:"tx_hash"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// BillingReferral aggregates referral statistics of a user.
type BillingReferral struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	Count      int             `gorm:"not null;default:0" json:"count"`
	Earnings   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"earnings"`
	VisitCount int64           `gorm:"not null;default:0" json:"visit_count"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
