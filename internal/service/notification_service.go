package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"go.uber.org/zap"
)

// Hook receives every dispatched alert.
type Hook interface {
	Name() string
	Handle(ctx context.Context, n *model.Notification) error
}

// Dispatcher fans alerts out to its hooks. A failing hook never stops the others.
type Dispatcher struct {
	mu    sync.RWMutex
	hooks []Hook
}

func NewDispatcher(hooks ...Hook) *Dispatcher {
	return &Dispatcher{hooks: hooks}
}

func (d *Dispatcher) Register(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// Dispatch is best-effort; it logs hook errors but does not return them to avoid breaking main flows.
// It returns the number of hooks that accepted the alert.
func (d *Dispatcher) Dispatch(ctx context.Context, n *model.Notification) int {
	if d == nil || n == nil {
		return 0
	}
	d.mu.RLock()
	hooks := append([]Hook(nil), d.hooks...)
	d.mu.RUnlock()

	delivered := 0
	for _, h := range hooks {
		hctx, cancel := withShortDeadline(ctx)
		err := h.Handle(hctx, n)
		cancel()
		if err != nil {
			logger.Warn("notification hook failed",
				zap.String("hook", h.Name()),
				zap.String("type", string(n.Type)),
				zap.Error(err))
			continue
		}
		delivered++
	}
	return delivered
}

// LogHook writes alerts to the process log.
type LogHook struct{}

func (LogHook) Name() string { return "log" }

func (LogHook) Handle(_ context.Context, n *model.Notification) error {
	logger.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("severity", string(n.Severity)),
		zap.String("title", n.Title),
		zap.String("body", n.Body))
	return nil
}

// StoreHook persists alerts so staff can list them later.
type StoreHook struct {
	repo repository.NotificationRepository
}

func NewStoreHook(repo repository.NotificationRepository) *StoreHook {
	return &StoreHook{repo: repo}
}

func (h *StoreHook) Name() string { return "store" }

func (h *StoreHook) Handle(ctx context.Context, n *model.Notification) error {
	return h.repo.Create(ctx, n)
}

type LowStockItem struct {
	Product  model.Product
	Severity model.Severity
}

type LowStockReport struct {
	Threshold int64
	Items     []LowStockItem
}

type PendingComplaintItem struct {
	Complaint model.ComplaintWithParties
	HoursOpen float64
	Severity  model.Severity
}

type PendingComplaintReport struct {
	WarningHours float64
	Items        []PendingComplaintItem
}

type NotificationSummary struct {
	LowStock              LowStockReport
	LongPendingComplaints PendingComplaintReport
	Timestamp             time.Time
}

type NotificationService interface {
	LowStock(ctx context.Context, id Identity, threshold *int64) (*LowStockReport, error)
	LongPendingComplaints(ctx context.Context, id Identity, hours *float64) (*PendingComplaintReport, error)
	Summary(ctx context.Context, id Identity, threshold *int64, hours *float64) (*NotificationSummary, error)
	ListAlerts(ctx context.Context, id Identity, kind model.NotificationType, limit int) ([]model.Notification, error)
	// RunChecks evaluates both thresholds with configured defaults and dispatches an alert per hit.
	RunChecks(ctx context.Context) (int, error)
}

type notificationService struct {
	gate          *Gate
	products      repository.ProductRepository
	complaints    repository.ComplaintRepository
	notifications repository.NotificationRepository
	dispatcher    *Dispatcher
	lowStock      int64
	warningHours  float64
	now           func() time.Time
}

func NewNotificationService(
	gate *Gate,
	products repository.ProductRepository,
	complaints repository.ComplaintRepository,
	notifications repository.NotificationRepository,
	dispatcher *Dispatcher,
	lowStockThreshold int64,
	warningHours float64,
) NotificationService {
	return &notificationService{
		gate:          gate,
		products:      products,
		complaints:    complaints,
		notifications: notifications,
		dispatcher:    dispatcher,
		lowStock:      lowStockThreshold,
		warningHours:  warningHours,
		now:           time.Now,
	}
}

// LowStockSeverity grades a product at or below the threshold.
func LowStockSeverity(stock, threshold int64) model.Severity {
	switch {
	case stock <= 0:
		return model.SeverityCritical
	case float64(stock) <= float64(threshold)*0.5:
		return model.SeverityHigh
	default:
		return model.SeverityMedium
	}
}

// PendingSeverity grades a complaint open past the warning window.
func PendingSeverity(hoursOpen, warningHours float64) model.Severity {
	switch {
	case hoursOpen >= warningHours*2:
		return model.SeverityCritical
	case hoursOpen >= warningHours*1.5:
		return model.SeverityHigh
	default:
		return model.SeverityMedium
	}
}

func (s *notificationService) LowStock(ctx context.Context, id Identity, threshold *int64) (*LowStockReport, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewNotifications); err != nil {
		return nil, err
	}
	return s.lowStockReport(ctx, s.resolveThreshold(threshold))
}

func (s *notificationService) LongPendingComplaints(ctx context.Context, id Identity, hours *float64) (*PendingComplaintReport, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewNotifications); err != nil {
		return nil, err
	}
	return s.pendingReport(ctx, s.resolveHours(hours))
}

func (s *notificationService) Summary(ctx context.Context, id Identity, threshold *int64, hours *float64) (*NotificationSummary, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewNotifications); err != nil {
		return nil, err
	}
	low, err := s.lowStockReport(ctx, s.resolveThreshold(threshold))
	if err != nil {
		return nil, err
	}
	pending, err := s.pendingReport(ctx, s.resolveHours(hours))
	if err != nil {
		return nil, err
	}
	return &NotificationSummary{LowStock: *low, LongPendingComplaints: *pending, Timestamp: s.now().UTC()}, nil
}

func (s *notificationService) ListAlerts(ctx context.Context, id Identity, kind model.NotificationType, limit int) ([]model.Notification, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewNotifications); err != nil {
		return nil, err
	}
	list, err := s.notifications.ListRecent(ctx, kind, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *notificationService) RunChecks(ctx context.Context) (int, error) {
	low, err := s.lowStockReport(ctx, s.lowStock)
	if err != nil {
		return 0, err
	}
	pending, err := s.pendingReport(ctx, s.warningHours)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, it := range low.Items {
		p := it.Product
		sku := ""
		if p.SKU != nil && *p.SKU != "" {
			sku = fmt.Sprintf(" (%s)", *p.SKU)
		}
		s.dispatcher.Dispatch(ctx, &model.Notification{
			Type:      model.NotificationLowStock,
			Severity:  it.Severity,
			Title:     "Low Stock Alert: " + p.Name,
			Body:      fmt.Sprintf("Product %q%s has only %d units remaining (threshold: %d)", p.Name, sku, p.StockQuantity, low.Threshold),
			ProductID: uint64Ptr(p.ID),
		})
		sent++
	}
	for _, it := range pending.Items {
		c := it.Complaint
		s.dispatcher.Dispatch(ctx, &model.Notification{
			Type:        model.NotificationLongPending,
			Severity:    it.Severity,
			Title:       "Long-Pending Complaint: " + c.Subject,
			Body:        fmt.Sprintf("Complaint #%d has been %s for %.1f hours (warning threshold: %g hours)", c.ID, c.Status, it.HoursOpen, pending.WarningHours),
			ComplaintID: uint64Ptr(c.ID),
			UserID:      c.AssignedToUserID,
		})
		sent++
	}
	return sent, nil
}

func (s *notificationService) lowStockReport(ctx context.Context, threshold int64) (*LowStockReport, error) {
	products, err := s.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, storageError(err)
	}
	out := &LowStockReport{Threshold: threshold, Items: make([]LowStockItem, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, LowStockItem{Product: p, Severity: LowStockSeverity(p.StockQuantity, threshold)})
	}
	return out, nil
}

func (s *notificationService) pendingReport(ctx context.Context, hours float64) (*PendingComplaintReport, error) {
	now := s.now()
	cutoff := now.Add(-time.Duration(hours * float64(time.Hour)))
	complaints, err := s.complaints.ListOpenedBefore(ctx, cutoff)
	if err != nil {
		return nil, storageError(err)
	}
	out := &PendingComplaintReport{WarningHours: hours, Items: make([]PendingComplaintItem, 0, len(complaints))}
	for _, c := range complaints {
		open := math.Round(now.Sub(c.CreatedAt).Hours()*10) / 10
		out.Items = append(out.Items, PendingComplaintItem{
			Complaint: c,
			HoursOpen: open,
			Severity:  PendingSeverity(open, hours),
		})
	}
	return out, nil
}

func (s *notificationService) resolveThreshold(v *int64) int64 {
	if v != nil && *v > 0 {
		return *v
	}
	return s.lowStock
}

func (s *notificationService) resolveHours(v *float64) float64 {
	if v != nil && *v > 0 {
		return *v
	}
	return s.warningHours
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

// withShortDeadline keeps a slow hook from blocking the caller.
func withShortDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*time.Second)
}
