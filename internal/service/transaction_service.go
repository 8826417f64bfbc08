package service

import (
	"context"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/shopspring/decimal"
)

type CreateTransactionInput struct {
	OrderID    *uint64
	RetailerID *uint64
	CustomerID *uint64
	Amount     decimal.Decimal
	Type       model.TransactionType
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, id Identity, in CreateTransactionInput) (*model.Transaction, error)
	ListTransactions(ctx context.Context, id Identity) ([]model.TransactionWithParties, error)
}

type transactionService struct {
	gate         *Gate
	transactions repository.TransactionRepository
	orders       repository.OrderRepository
	retailers    repository.RetailerRepository
	customers    repository.CustomerRepository
}

func NewTransactionService(
	gate *Gate,
	transactions repository.TransactionRepository,
	orders repository.OrderRepository,
	retailers repository.RetailerRepository,
	customers repository.CustomerRepository,
) TransactionService {
	return &transactionService{
		gate:         gate,
		transactions: transactions,
		orders:       orders,
		retailers:    retailers,
		customers:    customers,
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, id Identity, in CreateTransactionInput) (*model.Transaction, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageTransactions); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, validationError("type must be SALE or REFUND")
	}
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be positive")
	}
	if err := checkMoney("amount", in.Amount); err != nil {
		return nil, err
	}

	type ref struct {
		id     *uint64
		name   string
		exists func(context.Context, uint64) (bool, error)
	}
	for _, r := range []ref{
		{in.OrderID, "order", s.orders.Exists},
		{in.RetailerID, "retailer", s.retailers.Exists},
		{in.CustomerID, "customer", s.customers.Exists},
	} {
		if r.id == nil {
			continue
		}
		ok, err := r.exists(ctx, *r.id)
		if err != nil {
			return nil, storageError(err)
		}
		if !ok {
			return nil, notFoundError("%s %d not found", r.name, *r.id)
		}
	}

	t := &model.Transaction{
		OrderID:    in.OrderID,
		RetailerID: in.RetailerID,
		CustomerID: in.CustomerID,
		Amount:     in.Amount,
		Type:       in.Type,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		if repository.IsDuplicate(err) {
			return nil, conflictError("a %s transaction already exists for this order", in.Type)
		}
		return nil, storageError(err)
	}
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, id Identity) ([]model.TransactionWithParties, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionManageTransactions); err != nil {
		return nil, err
	}
	list, err := s.transactions.ListRecent(ctx, 100)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}
