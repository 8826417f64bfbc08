package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
)

type OrderLineInput struct {
	ProductID uint64
	Quantity  int64
}

type CreateOrderInput struct {
	Items      []OrderLineInput
	RetailerID *uint64
}

type OrderService interface {
	CreateOrder(ctx context.Context, id Identity, in CreateOrderInput) (*model.Order, error)
	ListOrders(ctx context.Context, id Identity) ([]model.OrderWithRetailer, error)
	GetOrder(ctx context.Context, id Identity, orderID uint64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id Identity, orderID uint64, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	gate       *Gate
	orders     repository.OrderRepository
	retailers  repository.RetailerRepository
	dispatcher *Dispatcher
}

func NewOrderService(gate *Gate, orders repository.OrderRepository, retailers repository.RetailerRepository, dispatcher *Dispatcher) OrderService {
	return &orderService{gate: gate, orders: orders, retailers: retailers, dispatcher: dispatcher}
}

func (s *orderService) CreateOrder(ctx context.Context, id Identity, in CreateOrderInput) (*model.Order, error) {
	scope, err := s.gate.Authorize(ctx, id, ActionCreateOrder)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, validationError("items must not be empty")
	}
	lines := make([]repository.OrderLine, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == 0 {
			return nil, validationError("items[%d]: product_id is required", i)
		}
		if it.Quantity <= 0 {
			return nil, validationError("items[%d]: quantity must be a positive integer", i)
		}
		lines = append(lines, repository.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	var retailerID uint64
	if scope.Restricted() {
		retailerID = *scope.RetailerID
	} else {
		if in.RetailerID == nil || *in.RetailerID == 0 {
			return nil, validationError("retailer_id is required")
		}
		ok, err := s.retailers.Exists(ctx, *in.RetailerID)
		if err != nil {
			return nil, storageError(err)
		}
		if !ok {
			return nil, notFoundError("retailer %d not found", *in.RetailerID)
		}
		retailerID = *in.RetailerID
	}

	order, err := s.orders.CreateWithItems(ctx, retailerID, lines)
	if err != nil {
		var missing *repository.MissingProductError
		if errors.As(err, &missing) {
			return nil, notFoundError("product %d not found", missing.ProductID)
		}
		var outOfRange *repository.AmountOutOfRangeError
		if errors.As(err, &outOfRange) {
			return nil, validationError("order total must be less than %s", model.MaxMoney.String())
		}
		return nil, storageError(err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, id Identity) ([]model.OrderWithRetailer, error) {
	scope, err := s.gate.Authorize(ctx, id, ActionListOrders)
	if err != nil {
		return nil, err
	}
	list, err := s.orders.List(ctx, scope.RetailerID)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *orderService) GetOrder(ctx context.Context, id Identity, orderID uint64) (*model.Order, error) {
	scope, err := s.gate.Authorize(ctx, id, ActionReadOrder)
	if err != nil {
		return nil, err
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(o.RetailerID) {
		return nil, forbiddenError("order %d belongs to another retailer", orderID)
	}
	return o, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id Identity, orderID uint64, status model.OrderStatus) (*model.Order, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionUpdateOrderStatus); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, validationError("invalid status %q", status)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("order %d not found", orderID)
		}
		return nil, storageError(err)
	}
	o, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, &model.Notification{
		Type:     model.NotificationOrderStatusChange,
		Severity: model.SeverityLow,
		Title:    fmt.Sprintf("Order #%d %s", o.ID, o.Status),
		Body:     fmt.Sprintf("Order #%d for retailer %d moved to %s", o.ID, o.RetailerID, o.Status),
		OrderID:  uint64Ptr(o.ID),
		UserID:   uint64Ptr(id.UserID),
	})
	return o, nil
}

func (s *orderService) find(ctx context.Context, orderID uint64) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("order %d not found", orderID)
		}
		return nil, storageError(err)
	}
	return o, nil
}
