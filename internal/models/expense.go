package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single spending record owned by a user.
type Expense struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string          `gorm:"size:200;not null" json:"title"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Category      string          `gorm:"size:50;not null;index" json:"category"`
	Date          time.Time       `gorm:"type:date;not null;index" json:"date"`
	PaymentMethod *string         `gorm:"size:50" json:"payment_method,omitempty"`
	Notes         *string         `gorm:"size:500" json:"notes,omitempty"`
}
