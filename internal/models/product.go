package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Products are deactivated, never deleted, once ordered.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SKU         string          `json:"sku" gorm:"uniqueIndex;size:64;not null"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Active      bool            `json:"active" gorm:"not null;index"`
}
