package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
)

type CreateComplaintInput struct {
	Subject     string
	Description string
	RetailerID  *uint64
	CustomerID  *uint64
}

// UpdateComplaintInput is a partial update; nil fields are left unchanged.
type UpdateComplaintInput struct {
	Status           *model.ComplaintStatus
	AssignedToUserID *uint64
}

type ComplaintService interface {
	CreateComplaint(ctx context.Context, id Identity, in CreateComplaintInput) (*model.Complaint, error)
	ListComplaints(ctx context.Context, id Identity) ([]model.ComplaintWithParties, error)
	UpdateComplaint(ctx context.Context, id Identity, complaintID uint64, in UpdateComplaintInput) (*model.Complaint, error)
}

type complaintService struct {
	gate       *Gate
	complaints repository.ComplaintRepository
	retailers  repository.RetailerRepository
	customers  repository.CustomerRepository
	users      repository.UserRepository
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewComplaintService(
	gate *Gate,
	complaints repository.ComplaintRepository,
	retailers repository.RetailerRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	dispatcher *Dispatcher,
) ComplaintService {
	return &complaintService{
		gate:       gate,
		complaints: complaints,
		retailers:  retailers,
		customers:  customers,
		users:      users,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *complaintService) CreateComplaint(ctx context.Context, id Identity, in CreateComplaintInput) (*model.Complaint, error) {
	scope, err := s.gate.Authorize(ctx, id, ActionCreateComplaint)
	if err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(in.Subject)
	description := strings.TrimSpace(in.Description)
	if subject == "" || description == "" {
		return nil, validationError("subject and description are required")
	}

	retailerID := in.RetailerID
	if scope.Restricted() {
		retailerID = scope.RetailerID
	} else if retailerID != nil {
		ok, err := s.retailers.Exists(ctx, *retailerID)
		if err != nil {
			return nil, storageError(err)
		}
		if !ok {
			return nil, notFoundError("retailer %d not found", *retailerID)
		}
	}
	if in.CustomerID != nil {
		ok, err := s.customers.Exists(ctx, *in.CustomerID)
		if err != nil {
			return nil, storageError(err)
		}
		if !ok {
			return nil, notFoundError("customer %d not found", *in.CustomerID)
		}
	}

	c := &model.Complaint{
		RetailerID:        retailerID,
		CustomerID:        in.CustomerID,
		SubmittedByUserID: id.UserID,
		Subject:           subject,
		Description:       description,
		Status:            model.ComplaintStatusOpen,
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

func (s *complaintService) ListComplaints(ctx context.Context, id Identity) ([]model.ComplaintWithParties, error) {
	scope, err := s.gate.Authorize(ctx, id, ActionListComplaints)
	if err != nil {
		return nil, err
	}
	list, err := s.complaints.List(ctx, scope.RetailerID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *complaintService) UpdateComplaint(ctx context.Context, id Identity, complaintID uint64, in UpdateComplaintInput) (*model.Complaint, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionUpdateComplaint); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, validationError("invalid status %q", *in.Status)
		}
		fields["status"] = *in.Status
		// resolved_at is only ever set, never cleared
		if in.Status.Settled() {
			fields["resolved_at"] = s.now()
		}
	}
	if in.AssignedToUserID != nil {
		if err := s.checkAssignee(ctx, *in.AssignedToUserID); err != nil {
			return nil, err
		}
		fields["assigned_to_user_id"] = *in.AssignedToUserID
	}

	if len(fields) == 0 {
		return s.find(ctx, complaintID)
	}
	if err := s.complaints.Update(ctx, complaintID, fields); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("complaint %d not found", complaintID)
		}
		return nil, storageError(err)
	}
	c, err := s.find(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	if in.AssignedToUserID != nil {
		s.dispatcher.Dispatch(ctx, &model.Notification{
			Type:        model.NotificationComplaintAssigned,
			Severity:    model.SeverityMedium,
			Title:       "Complaint assigned: " + c.Subject,
			Body:        fmt.Sprintf("Complaint #%d was assigned to user %d", c.ID, *in.AssignedToUserID),
			ComplaintID: uint64Ptr(c.ID),
			UserID:      in.AssignedToUserID,
		})
	}
	return c, nil
}

func (s *complaintService) checkAssignee(ctx context.Context, userID uint64) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFoundError("user %d not found", userID)
		}
		return storageError(err)
	}
	if u.Role != model.RoleAdmin && u.Role != model.RoleStaff {
		return validationError("complaints can only be assigned to ADMIN or STAFF users")
	}
	return nil
}

func (s *complaintService) find(ctx context.Context, complaintID uint64) (*model.Complaint, error) {
	c, err := s.complaints.FindByID(ctx, complaintID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("complaint %d not found", complaintID)
		}
		return nil, storageError(err)
	}
	return c, nil
}
