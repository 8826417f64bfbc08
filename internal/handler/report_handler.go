package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type SalesDayResponse struct {
	Day               string          `json:"day"`
	TransactionsCount int64           `json:"transactions_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// Sales accepts optional from/to query values in YYYY-MM-DD.
func (h *ReportHandler) Sales(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	from, err := service.ParseDay(c.QueryParam("from"))
	if err != nil {
		return writeError(c, err)
	}
	to, err := service.ParseDay(c.QueryParam("to"))
	if err != nil {
		return writeError(c, err)
	}
	days, err := h.svc.Sales(c.Request().Context(), id, from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]SalesDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, SalesDayResponse{Day: d.Day, TransactionsCount: d.TransactionsCount, TotalAmount: d.TotalAmount})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Stock(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.Stock(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *ReportHandler) PendingOrders(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.PendingOrders(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderRows(list))
}

func (h *ReportHandler) Complaints(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.UnresolvedComplaints(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toComplaintRows(list))
}
