package service

import (
	"context"
	"testing"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	cust := f.customer(t, "Jane")
	a := f.product(t, "Product A", "10", 5)
	o, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
		Items:      []OrderLineInput{{ProductID: a.ID, Quantity: 2}},
		RetailerID: u64(r.ID),
	})
	require.NoError(t, err)

	sale := CreateTransactionInput{OrderID: u64(o.ID), RetailerID: u64(r.ID), Amount: o.TotalAmount, Type: model.TransactionSale}
	_, err = f.transactions.CreateTransaction(ctx, f.staff, sale)
	require.NoError(t, err)

	_, err = f.transactions.CreateTransaction(ctx, f.staff, sale)
	assert.ErrorIs(t, err, ErrConflict)

	refund := sale
	refund.Type = model.TransactionRefund
	_, err = f.transactions.CreateTransaction(ctx, f.admin, refund)
	require.NoError(t, err)

	// without an order the pair constraint does not apply
	for i := 0; i < 2; i++ {
		_, err = f.transactions.CreateTransaction(ctx, f.staff, CreateTransactionInput{
			CustomerID: u64(cust.ID), Amount: decimal.NewFromInt(5), Type: model.TransactionSale,
		})
		require.NoError(t, err)
	}

	bad := []struct {
		name string
		in   CreateTransactionInput
		want error
	}{
		{"zero amount", CreateTransactionInput{Amount: decimal.Zero, Type: model.TransactionSale}, ErrValidation},
		{"fractional cent", CreateTransactionInput{Amount: decimal.RequireFromString("0.001"), Type: model.TransactionSale}, ErrValidation},
		{"too large", CreateTransactionInput{Amount: decimal.New(1, 10), Type: model.TransactionSale}, ErrValidation},
		{"bad type", CreateTransactionInput{Amount: decimal.NewFromInt(1), Type: "GIFT"}, ErrValidation},
		{"unknown order", CreateTransactionInput{OrderID: u64(999), Amount: decimal.NewFromInt(1), Type: model.TransactionSale}, ErrNotFound},
		{"unknown customer", CreateTransactionInput{CustomerID: u64(999), Amount: decimal.NewFromInt(1), Type: model.TransactionSale}, ErrNotFound},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transactions.CreateTransaction(ctx, f.staff, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	me, _ := f.retailerUser(t, "Mine")
	_, err = f.transactions.ListTransactions(ctx, me)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := f.transactions.ListTransactions(ctx, f.staff)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Nil(t, list[0].RetailerName)
	require.NotNil(t, list[0].CustomerName)
	assert.Equal(t, "Jane", *list[0].CustomerName)
	require.NotNil(t, list[3].RetailerName)
	assert.Equal(t, "Retailer One", *list[3].RetailerName)
}
