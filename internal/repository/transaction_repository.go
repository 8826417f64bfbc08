package repository

import (
	"context"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	ListRecent(ctx context.Context, limit int) ([]model.TransactionWithParties, error)
	// ListBetween returns transactions created in [from, to); nil bounds are open.
	ListBetween(ctx context.Context, from, to *time.Time) ([]model.Transaction, error)
	SetDB(db *gorm.DB)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepository) ListRecent(ctx context.Context, limit int) ([]model.TransactionWithParties, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var list []model.TransactionWithParties
	if err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.id, t.order_id, t.retailer_id, r.name AS retailer_name, t.customer_id, cu.name AS customer_name, t.amount, t.type, t.created_at").
		Joins("LEFT JOIN retailers r ON r.id = t.retailer_id").
		Joins("LEFT JOIN customers cu ON cu.id = t.customer_id").
		Order("t.created_at DESC, t.id DESC").
		Limit(limit).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *transactionRepository) ListBetween(ctx context.Context, from, to *time.Time) ([]model.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}
	var list []model.Transaction
	if err := q.Order("created_at ASC, id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *transactionRepository) SetDB(db *gorm.DB) {
	r.db = db
}
