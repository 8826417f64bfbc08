package repository

import (
	"context"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"gorm.io/gorm"
)

type ComplaintRepository interface {
	Create(ctx context.Context, c *model.Complaint) error
	FindByID(ctx context.Context, id uint64) (*model.Complaint, error)
	List(ctx context.Context, retailerID *uint64) ([]model.ComplaintWithParties, error)
	// ListOpenedBefore returns unsettled complaints created before the cutoff, oldest first.
	ListOpenedBefore(ctx context.Context, cutoff time.Time) ([]model.ComplaintWithParties, error)
	ListByStatuses(ctx context.Context, statuses []model.ComplaintStatus) ([]model.ComplaintWithParties, error)
	Update(ctx context.Context, id uint64, fields map[string]interface{}) error
	SetDB(db *gorm.DB)
}

type complaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, c *model.Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *complaintRepository) FindByID(ctx context.Context, id uint64) (*model.Complaint, error) {
	var c model.Complaint
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *complaintRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("complaints AS c").
		Select("c.id, c.retailer_id, r.name AS retailer_name, c.customer_id, cu.name AS customer_name, " +
			"c.submitted_by_user_id, c.subject, c.description, c.status, c.assigned_to_user_id, c.created_at, c.resolved_at").
		Joins("LEFT JOIN retailers r ON r.id = c.retailer_id").
		Joins("LEFT JOIN customers cu ON cu.id = c.customer_id")
}

func (r *complaintRepository) List(ctx context.Context, retailerID *uint64) ([]model.ComplaintWithParties, error) {
	var list []model.ComplaintWithParties
	q := r.withParties(ctx)
	if retailerID != nil {
		q = q.Where("c.retailer_id = ?", *retailerID)
	}
	if err := q.Order("c.created_at DESC, c.id DESC").Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *complaintRepository) ListOpenedBefore(ctx context.Context, cutoff time.Time) ([]model.ComplaintWithParties, error) {
	var list []model.ComplaintWithParties
	if err := r.withParties(ctx).
		Where("c.status IN ?", []model.ComplaintStatus{model.ComplaintStatusOpen, model.ComplaintStatusInProgress}).
		Where("c.created_at < ?", cutoff).
		Order("c.created_at ASC, c.id ASC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *complaintRepository) ListByStatuses(ctx context.Context, statuses []model.ComplaintStatus) ([]model.ComplaintWithParties, error) {
	var list []model.ComplaintWithParties
	if err := r.withParties(ctx).
		Where("c.status IN ?", statuses).
		Order("c.created_at DESC, c.id DESC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *complaintRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return updateByID(r.db.WithContext(ctx), &model.Complaint{}, id, fields)
}

func (r *complaintRepository) SetDB(db *gorm.DB) {
	r.db = db
}
