package model

import "time"

type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatus = "CLOSED"
)

var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
}

func (s ComplaintStatus) Valid() bool {
	for _, v := range ComplaintStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Settled reports whether entering this status stamps resolved_at.
func (s ComplaintStatus) Settled() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed
}

type Complaint struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement"`
	RetailerID        *uint64         `gorm:"column:retailer_id;index"`
	CustomerID        *uint64         `gorm:"column:customer_id;index"`
	SubmittedByUserID uint64          `gorm:"column:submitted_by_user_id;index;not null"`
	Subject           string          `gorm:"size:255;not null"`
	Description       string          `gorm:"type:text;not null"`
	Status            ComplaintStatus `gorm:"size:16;index;not null"`
	AssignedToUserID  *uint64         `gorm:"column:assigned_to_user_id;index"`
	CreatedAt         time.Time       `gorm:"autoCreateTime;index"`
	ResolvedAt        *time.Time      `gorm:"column:resolved_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

type ComplaintWithParties struct {
	ID                uint64
	RetailerID        *uint64
	RetailerName      *string
	CustomerID        *uint64
	CustomerName      *string
	SubmittedByUserID uint64
	Subject           string
	Description       string
	Status            ComplaintStatus
	AssignedToUserID  *uint64
	CreatedAt         time.Time
	ResolvedAt        *time.Time
}
