package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityBands(t *testing.T) {
	stock := []struct {
		stock, threshold int64
		want             model.Severity
	}{
		{0, 10, model.SeverityCritical},
		{1, 10, model.SeverityHigh},
		{5, 10, model.SeverityHigh},
		{6, 10, model.SeverityMedium},
		{10, 10, model.SeverityMedium},
	}
	for _, tc := range stock {
		assert.Equal(t, tc.want, LowStockSeverity(tc.stock, tc.threshold), "stock %d", tc.stock)
	}

	pending := []struct {
		hours, warn float64
		want        model.Severity
	}{
		{24, 24, model.SeverityMedium},
		{35.9, 24, model.SeverityMedium},
		{36, 24, model.SeverityHigh},
		{48, 24, model.SeverityCritical},
	}
	for _, tc := range pending {
		assert.Equal(t, tc.want, PendingSeverity(tc.hours, tc.warn), "hours %v", tc.hours)
	}
}

func TestNotifications_ThresholdChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "Empty", "1", 0)
	f.product(t, "Low", "1", 4)
	f.product(t, "Plenty", "1", 50)

	old, err := f.complaints.CreateComplaint(ctx, f.staff, CreateComplaintInput{Subject: "old", Description: "d"})
	require.NoError(t, err)
	_, err = f.complaints.CreateComplaint(ctx, f.staff, CreateComplaintInput{Subject: "fresh", Description: "d"})
	require.NoError(t, err)

	svc := f.notifications.(*notificationService)
	base := time.Now()
	svc.now = func() time.Time { return base.Add(50 * time.Hour) }
	// only the first complaint is old enough; push the second past the cutoff
	require.NoError(t, f.db.Model(&model.Complaint{}).Where("id <> ?", old.ID).Update("created_at", base.Add(40*time.Hour)).Error)

	low, err := f.notifications.LowStock(ctx, f.staff, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), low.Threshold)
	require.Len(t, low.Items, 2)
	assert.Equal(t, "Empty", low.Items[0].Product.Name)
	assert.Equal(t, model.SeverityCritical, low.Items[0].Severity)
	assert.Equal(t, model.SeverityHigh, low.Items[1].Severity)

	custom := int64(100)
	low, err = f.notifications.LowStock(ctx, f.staff, &custom)
	require.NoError(t, err)
	assert.Len(t, low.Items, 3)

	pending, err := f.notifications.LongPendingComplaints(ctx, f.staff, nil)
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, old.ID, pending.Items[0].Complaint.ID)
	assert.Equal(t, model.SeverityCritical, pending.Items[0].Severity)
	assert.InDelta(t, 50, pending.Items[0].HoursOpen, 0.2)

	summary, err := f.notifications.Summary(ctx, f.admin, nil, nil)
	require.NoError(t, err)
	assert.Len(t, summary.LowStock.Items, 2)
	assert.Len(t, summary.LongPendingComplaints.Items, 1)

	me, _ := f.retailerUser(t, "Mine")
	_, err = f.notifications.Summary(ctx, me, nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	sent, err := f.notifications.RunChecks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	assert.Len(t, f.hook.byType(model.NotificationLowStock), 2)
	assert.Len(t, f.hook.byType(model.NotificationLongPending), 1)

	stored, err := f.notifications.ListAlerts(ctx, f.staff, model.NotificationLowStock, 10)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	all, err := f.notifications.ListAlerts(ctx, f.staff, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDispatcher_HookFailureIsIsolated(t *testing.T) {
	rec := &recordHook{}
	d := NewDispatcher(failingHook{}, LogHook{})
	d.Register(rec)

	n := d.Dispatch(context.Background(), &model.Notification{Type: model.NotificationLowStock, Severity: model.SeverityHigh})
	assert.Equal(t, 2, n)
	assert.Len(t, rec.byType(model.NotificationLowStock), 1)

	var nilDispatcher *Dispatcher
	assert.Equal(t, 0, nilDispatcher.Dispatch(context.Background(), &model.Notification{}))
}

type countingChecks struct {
	NotificationService
	runs atomic.Int32
}

func (c *countingChecks) RunChecks(context.Context) (int, error) {
	c.runs.Add(1)
	return 0, nil
}

func TestThresholdMonitor(t *testing.T) {
	checks := &countingChecks{}
	stop := NewThresholdMonitor(checks, 5*time.Millisecond).Start()
	assert.Eventually(t, func() bool { return checks.runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
	require.NoError(t, stop(ctx))

	after := checks.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, checks.runs.Load())

	disabled := NewThresholdMonitor(checks, 0).Start()
	assert.NoError(t, disabled(ctx))
}
