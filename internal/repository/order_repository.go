package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderLine struct {
	ProductID uint64
	Quantity  int64
}

type OrderRepository interface {
	// CreateWithItems writes the order, its priced lines and the recomputed total
	// in one serializable transaction.
	CreateWithItems(ctx context.Context, retailerID uint64, lines []OrderLine) (*model.Order, error)
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	List(ctx context.Context, retailerID *uint64) ([]model.OrderWithRetailer, error)
	ListByStatuses(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderWithRetailer, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error
	Exists(ctx context.Context, id uint64) (bool, error)
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, retailerID uint64, lines []OrderLine) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var created model.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := model.Order{
			RetailerID:  retailerID,
			Status:      model.OrderStatusPending,
			TotalAmount: decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		running := decimal.Zero
		for _, l := range lines {
			var p model.Product
			if err := tx.Select("id", "unit_price").Where("id = ?", l.ProductID).Take(&p).Error; err != nil {
				if IsNotFound(err) {
					return &MissingProductError{ProductID: l.ProductID}
				}
				return err
			}
			lineTotal := p.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)).Round(model.MoneyScale)
			running = running.Add(lineTotal)
			if !model.MoneyInRange(lineTotal) || !model.MoneyInRange(running) {
				return &AmountOutOfRangeError{ProductID: p.ID}
			}
			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Quantity:  l.Quantity,
				UnitPrice: p.UnitPrice,
				LineTotal: lineTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		// total is the decimal sum of the stored lines; sqlite SUM would return a float
		var stored []decimal.Decimal
		if err := tx.Model(&model.OrderItem{}).
			Where("order_id = ?", order.ID).
			Pluck("line_total", &stored).Error; err != nil {
			return err
		}
		total := decimal.Zero
		for _, lt := range stored {
			total = total.Add(lt)
		}
		total = total.Round(model.MoneyScale)
		if err := tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"total_amount": total,
				"updated_at":   time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).First(&created, order.ID).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) withRetailer(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id, o.retailer_id, r.name AS retailer_name, o.status, o.total_amount, o.created_at, o.updated_at").
		Joins("JOIN retailers r ON r.id = o.retailer_id")
}

func (r *orderRepository) List(ctx context.Context, retailerID *uint64) ([]model.OrderWithRetailer, error) {
	var list []model.OrderWithRetailer
	q := r.withRetailer(ctx)
	if retailerID != nil {
		q = q.Where("o.retailer_id = ?", *retailerID)
	}
	if err := q.Order("o.created_at DESC, o.id DESC").Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) ListByStatuses(ctx context.Context, statuses []model.OrderStatus) ([]model.OrderWithRetailer, error) {
	var list []model.OrderWithRetailer
	if err := r.withRetailer(ctx).
		Where("o.status IN ?", statuses).
		Order("o.created_at DESC, o.id DESC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	return updateByID(r.db.WithContext(ctx), &model.Order{}, id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

func (r *orderRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	cnt, err := countWhere(r.db.WithContext(ctx), &model.Order{}, "id = ?", id)
	return cnt > 0, err
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}
