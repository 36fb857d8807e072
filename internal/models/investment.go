package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType represents the type of investment asset.
type AssetType string

const (
	AssetTypeStock      AssetType = "Stock"
	AssetTypeMutualFund AssetType = "MutualFund"
	AssetTypeFD         AssetType = "FD"
	AssetTypeGold       AssetType = "Gold"
	AssetTypeCrypto     AssetType = "Crypto"
	AssetTypeBond       AssetType = "Bond"
	AssetTypeOther      AssetType = "Other"
)

// AssetTypes lists every accepted asset type in display order.
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeMutualFund,
	AssetTypeFD,
	AssetTypeGold,
	AssetTypeCrypto,
	AssetTypeBond,
	AssetTypeOther,
}

// Valid reports whether t is one of the fixed asset types.
func (t AssetType) Valid() bool {
	for _, known := range AssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Investment represents a holding of a single asset owned by a user.
// Derived figures (invested amount, gains, days held) are never stored;
// see the analytics package.
type Investment struct {
	Base
	UserID        string           `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetType     AssetType        `gorm:"size:50;not null;index" json:"asset_type"`
	AssetName     string           `gorm:"size:200;not null" json:"asset_name"`
	Symbol        *string          `gorm:"size:20" json:"symbol,omitempty"`
	Quantity      decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"quantity"`
	PurchasePrice decimal.Decimal  `gorm:"type:numeric(15,2);not null" json:"purchase_price"`
	CurrentPrice  decimal.Decimal  `gorm:"type:numeric(15,2);not null" json:"current_price"`
	PurchaseDate  time.Time        `gorm:"type:date;not null;index" json:"purchase_date"`
	MaturityDate  *time.Time       `gorm:"type:date" json:"maturity_date,omitempty"`
	Platform      *string          `gorm:"size:100" json:"platform,omitempty"`
	InterestRate  *decimal.Decimal `gorm:"type:numeric(5,2)" json:"interest_rate,omitempty"`
	Notes         *string          `gorm:"size:500" json:"notes,omitempty"`
}
