package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

type createOrderRequest struct {
	RetailerID *uint64            `json:"retailer_id"`
	Items      []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderItemResponse struct {
	ID        uint64          `json:"id"`
	ProductID uint64          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID           uint64              `json:"id"`
	RetailerID   uint64              `json:"retailer_id"`
	RetailerName *string             `json:"retailer_name,omitempty"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Items        []OrderItemResponse `json:"items,omitempty"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return OrderResponse{
		ID:          o.ID,
		RetailerID:  o.RetailerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   formatTime(o.CreatedAt),
		UpdatedAt:   formatTime(o.UpdatedAt),
	}
}

func toOrderRows(list []model.OrderWithRetailer) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		name := o.RetailerName
		out = append(out, OrderResponse{
			ID:           o.ID,
			RetailerID:   o.RetailerID,
			RetailerName: &name,
			Status:       string(o.Status),
			TotalAmount:  o.TotalAmount,
			CreatedAt:    formatTime(o.CreatedAt),
			UpdatedAt:    formatTime(o.UpdatedAt),
		})
	}
	return out
}

func (h *OrderHandler) Create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	in := service.CreateOrderInput{RetailerID: req.RetailerID}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.OrderLineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	o, err := h.svc.CreateOrder(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) List(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListOrders(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderRows(list))
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	oid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}
	o, err := h.svc.GetOrder(c.Request().Context(), id, oid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	oid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	o, err := h.svc.UpdateOrderStatus(c.Request().Context(), id, oid, model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}
