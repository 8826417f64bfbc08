package handler

import (
	"net/http"
	"strconv"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type lowStockProduct struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	StockQuantity int64           `json:"stock_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Severity      string          `json:"severity"`
}

type LowStockResponse struct {
	Count     int               `json:"count"`
	Threshold int64             `json:"threshold"`
	Products  []lowStockProduct `json:"products"`
}

type pendingComplaint struct {
	ID               uint64  `json:"id"`
	Subject          string  `json:"subject"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	HoursOpen        float64 `json:"hours_open"`
	AssignedToUserID *uint64 `json:"assigned_to_user_id"`
	RetailerName     *string `json:"retailer_name"`
	CustomerName     *string `json:"customer_name"`
	Severity         string  `json:"severity"`
}

type PendingComplaintsResponse struct {
	Count        int                `json:"count"`
	WarningHours float64            `json:"warning_hours"`
	Complaints   []pendingComplaint `json:"complaints"`
}

type AlertResponse struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	UserID      *uint64 `json:"user_id,omitempty"`
	ProductID   *uint64 `json:"product_id,omitempty"`
	OrderID     *uint64 `json:"order_id,omitempty"`
	ComplaintID *uint64 `json:"complaint_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toLowStockResponse(r *service.LowStockReport) LowStockResponse {
	out := LowStockResponse{Count: len(r.Items), Threshold: r.Threshold, Products: make([]lowStockProduct, 0, len(r.Items))}
	for _, it := range r.Items {
		out.Products = append(out.Products, lowStockProduct{
			ID:            it.Product.ID,
			Name:          it.Product.Name,
			SKU:           it.Product.SKU,
			StockQuantity: it.Product.StockQuantity,
			UnitPrice:     it.Product.UnitPrice,
			Severity:      string(it.Severity),
		})
	}
	return out
}

func toPendingResponse(r *service.PendingComplaintReport) PendingComplaintsResponse {
	out := PendingComplaintsResponse{Count: len(r.Items), WarningHours: r.WarningHours, Complaints: make([]pendingComplaint, 0, len(r.Items))}
	for _, it := range r.Items {
		cm := it.Complaint
		out.Complaints = append(out.Complaints, pendingComplaint{
			ID:               cm.ID,
			Subject:          cm.Subject,
			Status:           string(cm.Status),
			CreatedAt:        formatTime(cm.CreatedAt),
			HoursOpen:        it.HoursOpen,
			AssignedToUserID: cm.AssignedToUserID,
			RetailerName:     cm.RetailerName,
			CustomerName:     cm.CustomerName,
			Severity:         string(it.Severity),
		})
	}
	return out
}

// queryInt64 returns nil for absent or unparsable values so the configured default applies.
func queryInt64(c echo.Context, name string) *int64 {
	v, err := strconv.ParseInt(c.QueryParam(name), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryFloat(c echo.Context, name string) *float64 {
	v, err := strconv.ParseFloat(c.QueryParam(name), 64)
	if err != nil {
		return nil
	}
	return &v
}

func (h *NotificationHandler) Summary(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	s, err := h.svc.Summary(c.Request().Context(), id, queryInt64(c, "lowStockThreshold"), queryFloat(c, "complaintWarningHours"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"low_stock":               toLowStockResponse(&s.LowStock),
		"long_pending_complaints": toPendingResponse(&s.LongPendingComplaints),
		"timestamp":               formatTime(s.Timestamp),
	})
}

func (h *NotificationHandler) LowStock(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	r, err := h.svc.LowStock(c.Request().Context(), id, queryInt64(c, "threshold"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toLowStockResponse(r))
}

func (h *NotificationHandler) LongPendingComplaints(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	r, err := h.svc.LongPendingComplaints(c.Request().Context(), id, queryFloat(c, "hours"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPendingResponse(r))
}

func (h *NotificationHandler) Alerts(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, err := h.svc.ListAlerts(c.Request().Context(), id, model.NotificationType(c.QueryParam("type")), limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]AlertResponse, 0, len(list))
	for _, n := range list {
		out = append(out, AlertResponse{
			ID:          n.ID,
			Type:        string(n.Type),
			Severity:    string(n.Severity),
			Title:       n.Title,
			Body:        n.Body,
			UserID:      n.UserID,
			ProductID:   n.ProductID,
			OrderID:     n.OrderID,
			ComplaintID: n.ComplaintID,
			CreatedAt:   formatTime(n.CreatedAt),
		})
	}
	return c.JSON(http.StatusOK, out)
}
