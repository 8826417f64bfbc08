package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"size:200;not null"`
	SKU           *string         `gorm:"column:sku;size:64;uniqueIndex"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null"`
	StockQuantity int64           `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index"`
}

func (Product) TableName() string {
	return "products"
}
