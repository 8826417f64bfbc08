package handler

import (
	"net/http"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type PartyHandler struct {
	svc service.PartyService
}

func NewPartyHandler(svc service.PartyService) *PartyHandler {
	return &PartyHandler{svc: svc}
}

type partyRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=200"`
	Phone       *string `json:"phone" validate:"omitempty,max=64"`
	Email       *string `json:"email" validate:"omitempty,max=255"`
	Address     *string `json:"address"`
}

func (r partyRequest) input() service.PartyInput {
	return service.PartyInput{Name: r.Name, ContactName: r.ContactName, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

type RetailerResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	CreatedAt   string  `json:"created_at"`
}

type CustomerResponse struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"created_at"`
}

func toRetailerResponse(r *model.Retailer) RetailerResponse {
	return RetailerResponse{
		ID: r.ID, Name: r.Name, ContactName: r.ContactName, Phone: r.Phone,
		Email: r.Email, Address: r.Address, CreatedAt: formatTime(r.CreatedAt),
	}
}

func toCustomerResponse(cu *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID: cu.ID, Name: cu.Name, Phone: cu.Phone,
		Email: cu.Email, Address: cu.Address, CreatedAt: formatTime(cu.CreatedAt),
	}
}

func (h *PartyHandler) ListRetailers(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListRetailers(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]RetailerResponse, 0, len(list))
	for i := range list {
		out = append(out, toRetailerResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PartyHandler) GetRetailer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	rid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid retailer id")
	}
	r, err := h.svc.GetRetailer(c.Request().Context(), id, rid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRetailerResponse(r))
}

func (h *PartyHandler) CreateRetailer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req partyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	r, err := h.svc.CreateRetailer(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRetailerResponse(r))
}

func (h *PartyHandler) UpdateRetailer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	rid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid retailer id")
	}
	var req partyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	r, err := h.svc.UpdateRetailer(c.Request().Context(), id, rid, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRetailerResponse(r))
}

func (h *PartyHandler) DeleteRetailer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	rid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid retailer id")
	}
	if err := h.svc.DeleteRetailer(c.Request().Context(), id, rid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PartyHandler) ListCustomers(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.svc.ListCustomers(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]CustomerResponse, 0, len(list))
	for i := range list {
		out = append(out, toCustomerResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PartyHandler) GetCustomer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	cid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	cu, err := h.svc.GetCustomer(c.Request().Context(), id, cid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cu))
}

func (h *PartyHandler) CreateCustomer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	var req partyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	cu, err := h.svc.CreateCustomer(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(cu))
}

func (h *PartyHandler) UpdateCustomer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	cid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	var req partyRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	cu, err := h.svc.UpdateCustomer(c.Request().Context(), id, cid, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(cu))
}

func (h *PartyHandler) DeleteCustomer(c echo.Context) error {
	id, ok := identity(c)
	if !ok {
		return unauthenticated(c)
	}
	cid, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	if err := h.svc.DeleteCustomer(c.Request().Context(), id, cid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
