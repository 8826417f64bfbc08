// Package export writes report snapshots to object storage.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/flrdepot/crm-backend/internal/logger"
	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sink stores one named object.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
}

type Exporter struct {
	reports service.ReportService
	sink    Sink
	prefix  string
}

func NewExporter(reports service.ReportService, sink Sink, prefix string) *Exporter {
	if prefix == "" {
		prefix = "reports"
	}
	return &Exporter{reports: reports, sink: sink, prefix: prefix}
}

type salesRow struct {
	Day               string          `json:"day"`
	TransactionsCount int64           `json:"transactions_count"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

type stockRow struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int64           `json:"stock_quantity"`
}

type orderRow struct {
	ID           uint64            `json:"id"`
	RetailerID   uint64            `json:"retailer_id"`
	RetailerName string            `json:"retailer_name"`
	Status       model.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	CreatedAt    time.Time         `json:"created_at"`
}

type complaintRow struct {
	ID           uint64                `json:"id"`
	Subject      string                `json:"subject"`
	Status       model.ComplaintStatus `json:"status"`
	RetailerName *string               `json:"retailer_name"`
	CustomerName *string               `json:"customer_name"`
	AssignedTo   *uint64               `json:"assigned_to_user_id"`
	CreatedAt    time.Time             `json:"created_at"`
}

type manifest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Objects     []string  `json:"objects"`
}

// Export takes a snapshot and writes one JSON object per report plus a manifest.
// It returns the object names written.
func (e *Exporter) Export(ctx context.Context) ([]string, error) {
	snap, err := e.reports.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	dir := fmt.Sprintf("%s/%s", e.prefix, snap.GeneratedAt.Format("20060102T150405Z"))

	sales := make([]salesRow, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		sales = append(sales, salesRow{Day: s.Day, TransactionsCount: s.TransactionsCount, TotalAmount: s.TotalAmount})
	}
	stock := make([]stockRow, 0, len(snap.Stock))
	for _, p := range snap.Stock {
		stock = append(stock, stockRow{ID: p.ID, Name: p.Name, SKU: p.SKU, UnitPrice: p.UnitPrice, StockQuantity: p.StockQuantity})
	}
	orders := make([]orderRow, 0, len(snap.PendingOrders))
	for _, o := range snap.PendingOrders {
		orders = append(orders, orderRow{
			ID: o.ID, RetailerID: o.RetailerID, RetailerName: o.RetailerName,
			Status: o.Status, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt,
		})
	}
	complaints := make([]complaintRow, 0, len(snap.UnresolvedComplaints))
	for _, c := range snap.UnresolvedComplaints {
		complaints = append(complaints, complaintRow{
			ID: c.ID, Subject: c.Subject, Status: c.Status,
			RetailerName: c.RetailerName, CustomerName: c.CustomerName,
			AssignedTo: c.AssignedToUserID, CreatedAt: c.CreatedAt,
		})
	}

	parts := []struct {
		name string
		v    interface{}
	}{
		{"sales", sales},
		{"stock", stock},
		{"pending-orders", orders},
		{"complaints", complaints},
	}
	written := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		name := fmt.Sprintf("%s/%s.json", dir, p.name)
		if err := e.putJSON(ctx, name, p.v); err != nil {
			return written, err
		}
		written = append(written, name)
	}

	manifestName := dir + "/manifest.json"
	if err := e.putJSON(ctx, manifestName, manifest{GeneratedAt: snap.GeneratedAt, Objects: written}); err != nil {
		return written, err
	}
	written = append(written, manifestName)
	logger.Info("report snapshot exported", zap.String("dir", dir), zap.Int("objects", len(written)))
	return written, nil
}

func (e *Exporter) putJSON(ctx context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := e.sink.Put(ctx, name, "application/json", data); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}
