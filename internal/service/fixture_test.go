package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/flrdepot/crm-backend/internal/db/dbtest"
	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordHook struct {
	mu   sync.Mutex
	seen []model.Notification
}

func (h *recordHook) Name() string { return "record" }

func (h *recordHook) Handle(_ context.Context, n *model.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, *n)
	return nil
}

func (h *recordHook) byType(t model.NotificationType) []model.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []model.Notification
	for _, n := range h.seen {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type failingHook struct{}

func (failingHook) Name() string { return "failing" }

func (failingHook) Handle(context.Context, *model.Notification) error {
	return errors.New("boom")
}

type fixture struct {
	db *gorm.DB

	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	retailerRepo  repository.RetailerRepository
	customerRepo  repository.CustomerRepository
	orderRepo     repository.OrderRepository
	complaintRepo repository.ComplaintRepository
	txRepo        repository.TransactionRepository
	notifRepo     repository.NotificationRepository

	gate          *Gate
	hook          *recordHook
	dispatcher    *Dispatcher
	catalog       CatalogService
	parties       PartyService
	orders        OrderService
	complaints    ComplaintService
	transactions  TransactionService
	reports       ReportService
	notifications NotificationService

	admin Identity
	staff Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	f := &fixture{db: gdb}

	f.userRepo = repository.NewUserRepository(gdb)
	f.productRepo = repository.NewProductRepository(gdb)
	f.retailerRepo = repository.NewRetailerRepository(gdb)
	f.customerRepo = repository.NewCustomerRepository(gdb)
	f.orderRepo = repository.NewOrderRepository(gdb)
	f.complaintRepo = repository.NewComplaintRepository(gdb)
	f.txRepo = repository.NewTransactionRepository(gdb)
	f.notifRepo = repository.NewNotificationRepository(gdb)

	f.gate = NewGate(f.userRepo, nil)
	f.hook = &recordHook{}
	f.dispatcher = NewDispatcher(f.hook, NewStoreHook(f.notifRepo))

	f.catalog = NewCatalogService(f.gate, f.productRepo)
	f.parties = NewPartyService(f.gate, f.retailerRepo, f.customerRepo)
	f.orders = NewOrderService(f.gate, f.orderRepo, f.retailerRepo, f.dispatcher)
	f.complaints = NewComplaintService(f.gate, f.complaintRepo, f.retailerRepo, f.customerRepo, f.userRepo, f.dispatcher)
	f.transactions = NewTransactionService(f.gate, f.txRepo, f.orderRepo, f.retailerRepo, f.customerRepo)
	f.reports = NewReportService(f.gate, f.txRepo, f.productRepo, f.orderRepo, f.complaintRepo)
	f.notifications = NewNotificationService(f.gate, f.productRepo, f.complaintRepo, f.notifRepo, f.dispatcher, 10, 24)

	f.admin = f.user(t, model.RoleAdmin, nil)
	f.staff = f.user(t, model.RoleStaff, nil)
	return f
}

func (f *fixture) user(t *testing.T, role model.Role, retailerID *uint64) Identity {
	t.Helper()
	u := &model.User{
		Name:         string(role) + " user",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		RetailerID:   retailerID,
	}
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return Identity{UserID: u.ID, Role: role}
}

func (f *fixture) retailer(t *testing.T, name string) model.Retailer {
	t.Helper()
	r := model.Retailer{Name: name}
	require.NoError(t, f.retailerRepo.Create(context.Background(), &r))
	return r
}

func (f *fixture) customer(t *testing.T, name string) model.Customer {
	t.Helper()
	c := model.Customer{Name: name}
	require.NoError(t, f.customerRepo.Create(context.Background(), &c))
	return c
}

func (f *fixture) product(t *testing.T, name, price string, stock int64) model.Product {
	t.Helper()
	p := model.Product{Name: name, UnitPrice: decimal.RequireFromString(price), StockQuantity: stock}
	require.NoError(t, f.productRepo.Create(context.Background(), &p))
	return p
}

// retailerUser creates a RETAILER identity linked to a fresh retailer.
func (f *fixture) retailerUser(t *testing.T, name string) (Identity, model.Retailer) {
	t.Helper()
	r := f.retailer(t, name)
	id := r.ID
	return f.user(t, model.RoleRetailer, &id), r
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func u64(v uint64) *uint64 { return &v }
