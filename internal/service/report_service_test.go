package service

import (
	"context"
	"testing"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	f.product(t, "Zucchini", "2", 10)
	a := f.product(t, "Apples", "3", 10)

	mk := func() *model.Order {
		o, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
			Items:      []OrderLineInput{{ProductID: a.ID, Quantity: 1}},
			RetailerID: u64(r.ID),
		})
		require.NoError(t, err)
		return o
	}
	open := mk()
	done := mk()
	_, err := f.orders.UpdateOrderStatus(ctx, f.staff, done.ID, model.OrderStatusDelivered)
	require.NoError(t, err)

	today := time.Now().UTC().Format(dayLayout)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, f.db.Create(&model.Transaction{Amount: decimal.NewFromInt(7), Type: model.TransactionSale, CreatedAt: yesterday}).Error)
	for _, amt := range []int64{10, 15} {
		_, err := f.transactions.CreateTransaction(ctx, f.staff, CreateTransactionInput{Amount: decimal.NewFromInt(amt), Type: model.TransactionSale})
		require.NoError(t, err)
	}

	sales, err := f.reports.Sales(ctx, f.staff, nil, nil)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, today, sales[0].Day)
	assert.Equal(t, int64(2), sales[0].TransactionsCount)
	assert.True(t, sales[0].TotalAmount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, yesterday.Format(dayLayout), sales[1].Day)

	from, _ := ParseDay(today)
	to, _ := ParseDay(yesterday.Format(dayLayout))
	_, err = f.reports.Sales(ctx, f.staff, from, to)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseDay("16/10/2026")
	assert.ErrorIs(t, err, ErrValidation)

	stock, err := f.reports.Stock(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, "Apples", stock[0].Name)

	pending, err := f.reports.PendingOrders(ctx, f.staff)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open.ID, pending[0].ID)
	assert.Equal(t, "Retailer One", pending[0].RetailerName)

	c, err := f.complaints.CreateComplaint(ctx, f.staff, CreateComplaintInput{Subject: "s", Description: "d"})
	require.NoError(t, err)
	_, err = f.complaints.CreateComplaint(ctx, f.staff, CreateComplaintInput{Subject: "t", Description: "d"})
	require.NoError(t, err)
	_, err = f.complaints.UpdateComplaint(ctx, f.staff, c.ID, UpdateComplaintInput{Status: statusPtr(model.ComplaintStatusClosed)})
	require.NoError(t, err)
	unresolved, err := f.reports.UnresolvedComplaints(ctx, f.staff)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "t", unresolved[0].Subject)

	me, _ := f.retailerUser(t, "Mine")
	_, err = f.reports.Stock(ctx, me)
	assert.ErrorIs(t, err, ErrForbidden)

	snap, err := f.reports.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Sales, 2)
	assert.Len(t, snap.Stock, 2)
	assert.Len(t, snap.PendingOrders, 1)
	assert.Len(t, snap.UnresolvedComplaints, 1)
}
