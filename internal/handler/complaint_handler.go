package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ComplaintHandler struct {
	svc service.ComplaintService
}

func NewComplaintHandler(svc service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

type createComplaintRequest struct {
	Subject     string  `json:"subject" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	RetailerID  *uint64 `json:"retailer_id"`
	CustomerID  *uint64 `json:"customer_id"`
}

type updateComplaintRequest struct {
	Status           *string `json:"status"`
	AssignedToUserID *uint64 `json:"assigned_to_user_id"`
}

type ComplaintResponse struct {
	ID                uint64  `json:"id"`
	RetailerID        *uint64 `json:"retailer_id"`
	RetailerName      *string `json:"retailer_name,omitempty"`
	CustomerID        *uint64 `json:"customer_id"`
	CustomerName      *string `json:"customer_name,omitempty"`
	SubmittedByUserID uint64  `json:"submitted_by_user_id"`
	Subject           string  `json:"subject"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	AssignedToUserID  *uint64 `json:"assigned_to_user_id"`
	CreatedAt         string  `json:"created_at"`
	ResolvedAt        *string `json:"resolved_at"`
}

func toComplaintResponse(cm *model.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                cm.ID,
		RetailerID:        cm.RetailerID,
		CustomerID:        cm.CustomerID,
		SubmittedByUserID: cm.SubmittedByUserID,
		Subject:           cm.Subject,
		Description:       cm.Description,
		Status:            string(cm.Status),
		AssignedToUserID:  cm.AssignedToUserID,
		CreatedAt:         formatTime(cm.CreatedAt),
		ResolvedAt:        formatTimePtr(cm.ResolvedAt),
	}
}

func toComplaintRows(list []model.ComplaintWithParties) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(list))
	for _, cm := range list {
		out = append(out, ComplaintResponse{
			ID:                cm.ID,
			RetailerID:        cm.RetailerID,
			RetailerName:      cm.RetailerName,
			CustomerID:        cm.CustomerID,
			CustomerName:      cm.CustomerName,
			SubmittedByUserID: cm.SubmittedByUserID,
			Subject:           cm.Subject,
			Description:       cm.Description,
			Status:            string(cm.Status),
			AssignedToUserID:  cm.AssignedToUserID,
			CreatedAt:         formatTime(cm.CreatedAt),
			ResolvedAt:        formatTimePtr(cm.ResolvedAt),
		})
	}
	return out
}

func (h *ComplaintHandler) Create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req createComplaintRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	cm, err := h.svc.CreateComplaint(c.Request().Context(), id, service.CreateComplaintInput{
		Subject:     req.Subject,
		Description: req.Description,
		RetailerID:  req.RetailerID,
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toComplaintResponse(cm))
}

func (h *ComplaintHandler) List(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListComplaints(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toComplaintRows(list))
}

func (h *ComplaintHandler) Update(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	cid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid complaint id")
	}
	var req updateComplaintRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	in := service.UpdateComplaintInput{AssignedToUserID: req.AssignedToUserID}
	if req.Status != nil {
		st := model.ComplaintStatus(*req.Status)
		in.Status = &st
	}
	cm, err := h.svc.UpdateComplaint(c.Request().Context(), id, cid, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toComplaintResponse(cm))
}
