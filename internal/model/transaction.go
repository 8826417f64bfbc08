package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSale   TransactionType = "SALE"
	TransactionRefund TransactionType = "REFUND"
)

func (t TransactionType) Valid() bool {
	return t == TransactionSale || t == TransactionRefund
}

// Transaction rows are unique per (order_id, type).
type Transaction struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	OrderID    *uint64         `gorm:"column:order_id;uniqueIndex:ux_transactions_order_type"`
	RetailerID *uint64         `gorm:"column:retailer_id;index"`
	CustomerID *uint64         `gorm:"column:customer_id;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Type       TransactionType `gorm:"size:16;not null;uniqueIndex:ux_transactions_order_type"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type TransactionWithParties struct {
	ID           uint64
	OrderID      *uint64
	RetailerID   *uint64
	RetailerName *string
	CustomerID   *uint64
	CustomerName *string
	Amount       decimal.Decimal
	Type         TransactionType
	CreatedAt    time.Time
}
