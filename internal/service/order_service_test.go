package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_TotalFromCatalogPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	a := f.product(t, "Product A", "8500", 100)

	o, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
		Items:      []OrderLineInput{{ProductID: a.ID, Quantity: 10}},
		RetailerID: u64(r.ID),
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, r.ID, o.RetailerID)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(85000)), "total %s", o.TotalAmount)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromInt(8500)))
	assert.True(t, o.Items[0].LineTotal.Equal(decimal.NewFromInt(85000)))

	// stock is left untouched
	p, err := f.productRepo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.StockQuantity)
}

func TestCreateOrder_MultipleLinesAndPriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	a := f.product(t, "Product A", "12.50", 5)
	b := f.product(t, "Product B", "8500", 5)

	o, err := f.orders.CreateOrder(ctx, f.admin, CreateOrderInput{
		Items: []OrderLineInput{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: b.ID, Quantity: 2},
		},
		RetailerID: u64(r.ID),
	})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("17037.50")), "total %s", o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, a.ID, o.Items[0].ProductID)
	assert.Equal(t, b.ID, o.Items[1].ProductID)

	newPrice := decimal.NewFromInt(99)
	_, err = f.catalog.UpdateProduct(ctx, f.staff, a.ID, ProductInput{UnitPrice: &newPrice})
	require.NoError(t, err)

	got, err := f.orders.GetOrder(ctx, f.staff, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))
}

func TestCreateOrder_FailureLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	a := f.product(t, "Product A", "10", 5)

	cases := []struct {
		name  string
		items []OrderLineInput
		kind  Kind
	}{
		{"empty items", nil, KindValidation},
		{"zero quantity", []OrderLineInput{{ProductID: a.ID, Quantity: 1}, {ProductID: a.ID, Quantity: 0}}, KindValidation},
		{"negative quantity", []OrderLineInput{{ProductID: a.ID, Quantity: -2}}, KindValidation},
		{"missing product after valid line", []OrderLineInput{{ProductID: a.ID, Quantity: 1}, {ProductID: 9999, Quantity: 1}}, KindNotFound},
		{"line total out of range", []OrderLineInput{{ProductID: a.ID, Quantity: 1_000_000_000}}, KindValidation},
		{"order total out of range", []OrderLineInput{{ProductID: a.ID, Quantity: 600_000_000}, {ProductID: a.ID, Quantity: 600_000_000}}, KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{Items: tc.items, RetailerID: u64(r.ID)})
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))
			assert.Equal(t, int64(0), f.count(t, &model.Order{}))
			assert.Equal(t, int64(0), f.count(t, &model.OrderItem{}))
		})
	}
}

func TestCreateOrder_RetailerResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Product A", "10", 5)
	items := []OrderLineInput{{ProductID: a.ID, Quantity: 1}}

	t.Run("staff must name a retailer", func(t *testing.T) {
		_, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{Items: items})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("staff with unknown retailer", func(t *testing.T) {
		_, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{Items: items, RetailerID: u64(4242)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("retailer value from client is ignored", func(t *testing.T) {
		me, mine := f.retailerUser(t, "Mine")
		other := f.retailer(t, "Other")
		o, err := f.orders.CreateOrder(ctx, me, CreateOrderInput{Items: items, RetailerID: u64(other.ID)})
		require.NoError(t, err)
		assert.Equal(t, mine.ID, o.RetailerID)
	})

	t.Run("retailer without link", func(t *testing.T) {
		orphan := f.user(t, model.RoleRetailer, nil)
		before := f.count(t, &model.Order{})
		_, err := f.orders.CreateOrder(ctx, orphan, CreateOrderInput{Items: items})
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "no retailer linked")
		assert.Equal(t, before, f.count(t, &model.Order{}))
	})
}

func TestListOrders_RetailerSeesOnlyOwnRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Product A", "10", 5)
	items := []OrderLineInput{{ProductID: a.ID, Quantity: 1}}

	me, mine := f.retailerUser(t, "Mine")
	other := f.retailer(t, "Other")

	var mineIDs []uint64
	for i := 0; i < 2; i++ {
		o, err := f.orders.CreateOrder(ctx, me, CreateOrderInput{Items: items})
		require.NoError(t, err)
		mineIDs = append(mineIDs, o.ID)
		_, err = f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{Items: items, RetailerID: u64(other.ID)})
		require.NoError(t, err)
	}

	list, err := f.orders.ListOrders(ctx, me)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, o := range list {
		assert.Equal(t, mine.ID, o.RetailerID)
		assert.Equal(t, "Mine", o.RetailerName)
	}
	// newest first
	assert.Equal(t, mineIDs[1], list[0].ID)
	assert.Equal(t, mineIDs[0], list[1].ID)

	all, err := f.orders.ListOrders(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetOrder_Scoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "Product A", "10", 5)
	other := f.retailer(t, "Other")
	o, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
		Items:      []OrderLineInput{{ProductID: a.ID, Quantity: 1}},
		RetailerID: u64(other.ID),
	})
	require.NoError(t, err)

	me, _ := f.retailerUser(t, "Mine")
	_, err = f.orders.GetOrder(ctx, me, o.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.orders.GetOrder(ctx, f.staff, 777)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	a := f.product(t, "Product A", "8500", 5)
	o, err := f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
		Items:      []OrderLineInput{{ProductID: a.ID, Quantity: 10}},
		RetailerID: u64(r.ID),
	})
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderStatus(ctx, f.staff, o.ID, "LOST")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.UpdateOrderStatus(ctx, f.staff, 9999, model.OrderStatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	me, _ := f.retailerUser(t, "Mine")
	_, err = f.orders.UpdateOrderStatus(ctx, me, o.ID, model.OrderStatusApproved)
	assert.ErrorIs(t, err, ErrForbidden)

	first, err := f.orders.UpdateOrderStatus(ctx, f.staff, o.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := f.orders.UpdateOrderStatus(ctx, f.admin, o.ID, model.OrderStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusShipped, second.Status)
	assert.True(t, second.TotalAmount.Equal(o.TotalAmount))
	require.Len(t, second.Items, 1)
	assert.Equal(t, o.Items[0].ID, second.Items[0].ID)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	// any status may follow any other
	back, err := f.orders.UpdateOrderStatus(ctx, f.staff, o.ID, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, back.Status)

	assert.Len(t, f.hook.byType(model.NotificationOrderStatusChange), 3)
}

func TestCreateOrder_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.retailer(t, "Retailer One")
	a := f.product(t, "Product A", "8500", 5)
	b := f.product(t, "Product B", "1.25", 5)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	orders := make([]*model.Order, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders[i], errs[i] = f.orders.CreateOrder(ctx, f.staff, CreateOrderInput{
				Items: []OrderLineInput{
					{ProductID: a.ID, Quantity: int64(i + 1)},
					{ProductID: b.ID, Quantity: 4},
				},
				RetailerID: u64(r.ID),
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		want := decimal.NewFromInt(int64(8500 * (i + 1))).Add(decimal.NewFromInt(5))
		assert.True(t, orders[i].TotalAmount.Equal(want), "order %d total %s want %s", i, orders[i].TotalAmount, want)
	}
	assert.Equal(t, int64(n), f.count(t, &model.Order{}))
	assert.Equal(t, int64(2*n), f.count(t, &model.OrderItem{}))
}
