package service

import (
	"context"
	"sort"
	"time"

	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type SalesDay struct {
	Day               string
	TransactionsCount int64
	TotalAmount       decimal.Decimal
}

// Snapshot bundles every report for export.
type Snapshot struct {
	GeneratedAt          time.Time
	Sales                []SalesDay
	Stock                []model.Product
	PendingOrders        []model.OrderWithRetailer
	UnresolvedComplaints []model.ComplaintWithParties
}

type ReportService interface {
	// Sales groups transactions per UTC day, newest day first. from and to are inclusive days.
	Sales(ctx context.Context, id Identity, from, to *time.Time) ([]SalesDay, error)
	Stock(ctx context.Context, id Identity) ([]model.Product, error)
	PendingOrders(ctx context.Context, id Identity) ([]model.OrderWithRetailer, error)
	UnresolvedComplaints(ctx context.Context, id Identity) ([]model.ComplaintWithParties, error)
	// Snapshot collects all reports without an identity; used by the export job.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type reportService struct {
	gate         *Gate
	transactions repository.TransactionRepository
	products     repository.ProductRepository
	orders       repository.OrderRepository
	complaints   repository.ComplaintRepository
	now          func() time.Time
}

func NewReportService(
	gate *Gate,
	transactions repository.TransactionRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	complaints repository.ComplaintRepository,
) ReportService {
	return &reportService{
		gate:         gate,
		transactions: transactions,
		products:     products,
		orders:       orders,
		complaints:   complaints,
		now:          time.Now,
	}
}

var (
	pendingOrderStatuses    = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusApproved, model.OrderStatusShipped}
	unresolvedComplaintList = []model.ComplaintStatus{model.ComplaintStatusOpen, model.ComplaintStatusInProgress}
)

// ParseDay parses a YYYY-MM-DD query value as a UTC day.
func ParseDay(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dayLayout, v, time.UTC)
	if err != nil {
		return nil, validationError("invalid date %q, expected YYYY-MM-DD", v)
	}
	return &t, nil
}

func (s *reportService) Sales(ctx context.Context, id Identity, from, to *time.Time) ([]SalesDay, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewReports); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, validationError("to must not be before from")
	}
	return s.sales(ctx, from, to)
}

func (s *reportService) sales(ctx context.Context, from, to *time.Time) ([]SalesDay, error) {
	var start, end *time.Time
	if from != nil {
		v := truncateDay(*from)
		start = &v
	}
	if to != nil {
		v := truncateDay(*to).AddDate(0, 0, 1)
		end = &v
	}
	txs, err := s.transactions.ListBetween(ctx, start, end)
	if err != nil {
		return nil, storageError(err)
	}

	byDay := map[string]*SalesDay{}
	for _, t := range txs {
		day := t.CreatedAt.UTC().Format(dayLayout)
		d, ok := byDay[day]
		if !ok {
			d = &SalesDay{Day: day, TotalAmount: decimal.Zero}
			byDay[day] = d
		}
		d.TransactionsCount++
		d.TotalAmount = d.TotalAmount.Add(t.Amount)
	}
	out := make([]SalesDay, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	return out, nil
}

func (s *reportService) Stock(ctx context.Context, id Identity) ([]model.Product, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewReports); err != nil {
		return nil, err
	}
	list, err := s.products.ListByName(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *reportService) PendingOrders(ctx context.Context, id Identity) ([]model.OrderWithRetailer, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewReports); err != nil {
		return nil, err
	}
	list, err := s.orders.ListByStatuses(ctx, pendingOrderStatuses)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *reportService) UnresolvedComplaints(ctx context.Context, id Identity) ([]model.ComplaintWithParties, error) {
	if _, err := s.gate.Authorize(ctx, id, ActionViewReports); err != nil {
		return nil, err
	}
	list, err := s.complaints.ListByStatuses(ctx, unresolvedComplaintList)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

func (s *reportService) Snapshot(ctx context.Context) (*Snapshot, error) {
	sales, err := s.sales(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	stock, err := s.products.ListByName(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	pending, err := s.orders.ListByStatuses(ctx, pendingOrderStatuses)
	if err != nil {
		return nil, storageError(err)
	}
	complaints, err := s.complaints.ListByStatuses(ctx, unresolvedComplaintList)
	if err != nil {
		return nil, storageError(err)
	}
	return &Snapshot{
		GeneratedAt:          s.now().UTC(),
		Sales:                sales,
		Stock:                stock,
		PendingOrders:        pending,
		UnresolvedComplaints: complaints,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
