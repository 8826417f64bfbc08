package model

import "time"

type NotificationType string

const (
	NotificationLowStock          NotificationType = "low_stock"
	NotificationLongPending       NotificationType = "long_pending_complaint"
	NotificationOrderStatusChange NotificationType = "order_status_change"
	NotificationComplaintAssigned NotificationType = "complaint_assigned"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Notification is a dispatched alert kept for staff review.
type Notification struct {
	ID          uint64           `gorm:"primaryKey;autoIncrement"`
	Type        NotificationType `gorm:"column:type;size:64;index;not null"`
	Severity    Severity         `gorm:"column:severity;size:16;not null"`
	Title       string           `gorm:"column:title;size:255"`
	Body        string           `gorm:"column:body;type:text"`
	UserID      *uint64          `gorm:"column:user_id;index"`
	ProductID   *uint64          `gorm:"column:product_id;index"`
	OrderID     *uint64          `gorm:"column:order_id;index"`
	ComplaintID *uint64          `gorm:"column:complaint_id;index"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}
