package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	svc service.CatalogService
}

func NewProductHandler(svc service.CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// productRequest serves both create and partial update; absent fields stay nil.
type productRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	SKU           *string          `json:"sku" validate:"omitempty,max=64"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	StockQuantity *int64           `json:"stock_quantity"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{Name: r.Name, SKU: r.SKU, UnitPrice: r.UnitPrice, StockQuantity: r.StockQuantity}
}

type ProductResponse struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int64           `json:"stock_quantity"`
	CreatedAt     string          `json:"created_at"`
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		CreatedAt:     formatTime(p.CreatedAt),
	}
}

func toProductResponses(list []model.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, toProductResponse(&list[i]))
	}
	return out
}

func (h *ProductHandler) List(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListProducts(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponses(list))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	pid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, err := h.svc.GetProduct(c.Request().Context(), id, pid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Create(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.CreateProduct(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	pid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req productRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.UpdateProduct(c.Request().Context(), id, pid, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	pid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.svc.DeleteProduct(c.Request().Context(), id, pid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
