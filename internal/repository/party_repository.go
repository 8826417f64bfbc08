package repository

import (
	"context"

	"github.com/flrdepot/crm-backend/internal/model"
	"gorm.io/gorm"
)

type RetailerRepository interface {
	Create(ctx context.Context, r *model.Retailer) error
	FindByID(ctx context.Context, id uint64) (*model.Retailer, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]model.Retailer, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
	IsReferenced(ctx context.Context, id uint64) (bool, error)
	SetDB(db *gorm.DB)
}

type retailerRepository struct {
	db *gorm.DB
}

func NewRetailerRepository(db *gorm.DB) RetailerRepository {
	return &retailerRepository{db: db}
}

func (r *retailerRepository) Create(ctx context.Context, m *model.Retailer) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *retailerRepository) FindByID(ctx context.Context, id uint64) (*model.Retailer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var m model.Retailer
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *retailerRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	cnt, err := countWhere(r.db.WithContext(ctx), &model.Retailer{}, "id = ?", id)
	return cnt > 0, err
}

func (r *retailerRepository) List(ctx context.Context) ([]model.Retailer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Retailer
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *retailerRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return updateByID(r.db.WithContext(ctx), &model.Retailer{}, id, fields)
}

func (r *retailerRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return deleteByID(r.db.WithContext(ctx), &model.Retailer{}, id)
}

// IsReferenced reports whether orders, complaints, transactions or user links point at the retailer.
func (r *retailerRepository) IsReferenced(ctx context.Context, id uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.Order{}, &model.Complaint{}, &model.Transaction{}, &model.User{}} {
		cnt, err := countWhere(db, m, "retailer_id = ?", id)
		if err != nil {
			return false, err
		}
		if cnt > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *retailerRepository) SetDB(db *gorm.DB) {
	r.db = db
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uint64) (*model.Customer, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint64) error
	IsReferenced(ctx context.Context, id uint64) (bool, error)
	SetDB(db *gorm.DB)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, m *model.Customer) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uint64) (*model.Customer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var m model.Customer
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *customerRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	cnt, err := countWhere(r.db.WithContext(ctx), &model.Customer{}, "id = ?", id)
	return cnt > 0, err
}

func (r *customerRepository) List(ctx context.Context) ([]model.Customer, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Customer
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *customerRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return updateByID(r.db.WithContext(ctx), &model.Customer{}, id, fields)
}

func (r *customerRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return deleteByID(r.db.WithContext(ctx), &model.Customer{}, id)
}

func (r *customerRepository) IsReferenced(ctx context.Context, id uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	db := r.db.WithContext(ctx)
	for _, m := range []interface{}{&model.Complaint{}, &model.Transaction{}} {
		cnt, err := countWhere(db, m, "customer_id = ?", id)
		if err != nil {
			return false, err
		}
		if cnt > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (r *customerRepository) SetDB(db *gorm.DB) {
	r.db = db
}
