package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	svc service.TransactionService
}

func NewTransactionHandler(svc service.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

type createTransactionRequest struct {
	OrderID    *uint64         `json:"order_id"`
	RetailerID *uint64         `json:"retailer_id"`
	CustomerID *uint64         `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" validate:"required,oneof=SALE REFUND"`
}

type TransactionResponse struct {
	ID           uint64          `json:"id"`
	OrderID      *uint64         `json:"order_id"`
	RetailerID   *uint64         `json:"retailer_id"`
	RetailerName *string         `json:"retailer_name,omitempty"`
	CustomerID   *uint64         `json:"customer_id"`
	CustomerName *string         `json:"customer_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Type         string          `json:"type"`
	CreatedAt    string          `json:"created_at"`
}

func (h *TransactionHandler) Create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req createTransactionRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	t, err := h.svc.CreateTransaction(c.Request().Context(), id, service.CreateTransactionInput{
		OrderID:    req.OrderID,
		RetailerID: req.RetailerID,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		Type:       model.TransactionType(req.Type),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, TransactionResponse{
		ID:         t.ID,
		OrderID:    t.OrderID,
		RetailerID: t.RetailerID,
		CustomerID: t.CustomerID,
		Amount:     t.Amount,
		Type:       string(t.Type),
		CreatedAt:  formatTime(t.CreatedAt),
	})
}

func (h *TransactionHandler) List(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListTransactions(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, TransactionResponse{
			ID:           t.ID,
			OrderID:      t.OrderID,
			RetailerID:   t.RetailerID,
			RetailerName: t.RetailerName,
			CustomerID:   t.CustomerID,
			CustomerName: t.CustomerName,
			Amount:       t.Amount,
			Type:         string(t.Type),
			CreatedAt:    formatTime(t.CreatedAt),
		})
	}
	return c.JSON(http.StatusOK, out)
}
