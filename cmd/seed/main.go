package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/flrdepot/crm-backend/internal/config"
	"github.com/flrdepot/crm-backend/internal/db"
	"github.com/flrdepot/crm-backend/internal/model"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoPassword = "password123"

type seedProduct struct {
	Name  string
	SKU   string
	Price int64
	Stock int64
}

type seedOrder struct {
	Retailer int
	Product  int
	Quantity int64
	Status   model.OrderStatus
}

type seedComplaint struct {
	Retailer    int
	Customer    int
	Subject     string
	Description string
	Status      model.ComplaintStatus
	HoursAgo    int
}

type seedCounts struct {
	Users, Retailers, Customers, Products, Orders, Transactions, Complaints int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	canSeed, err := shouldSeed(ctx, gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("products already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	counts, err := seed(ctx, gdb, string(hash), time.Now())
	if err != nil {
		return err
	}
	log.Printf("seeded %d users, %d retailers, %d customers, %d products, %d orders, %d transactions, %d complaints",
		counts.Users, counts.Retailers, counts.Customers, counts.Products, counts.Orders, counts.Transactions, counts.Complaints)
	return nil
}

func shouldSeed(ctx context.Context, gdb *gorm.DB) (bool, error) {
	var cnt int64
	if err := gdb.WithContext(ctx).Model(&model.Product{}).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count products: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	return strings.EqualFold(os.Getenv("FORCE_SEED"), "true"), nil
}

// seed writes the demo data set in one transaction. Users and SKUs that already
// exist are left untouched.
func seed(ctx context.Context, gdb *gorm.DB, passwordHash string, now time.Time) (seedCounts, error) {
	var counts seedCounts
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		retailers := demoRetailers()
		for i := range retailers {
			if err := tx.Create(&retailers[i]).Error; err != nil {
				return fmt.Errorf("insert retailer %q: %w", retailers[i].Name, err)
			}
		}
		counts.Retailers = len(retailers)

		users := []model.User{
			{Name: "Admin User", Email: "admin@example.com", Role: model.RoleAdmin},
			{Name: "Staff Member", Email: "staff@example.com", Role: model.RoleStaff},
			{Name: "John Manager", Email: "staff2@example.com", Role: model.RoleStaff},
		}
		for i := range retailers {
			first := strings.Fields(retailers[i].Name)[0]
			users = append(users, model.User{
				Name:       first + " User",
				Email:      fmt.Sprintf("retailer%d@example.com", i+1),
				Role:       model.RoleRetailer,
				RetailerID: &retailers[i].ID,
			})
		}
		for i := range users {
			users[i].PasswordHash = passwordHash
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[i])
			if res.Error != nil {
				return fmt.Errorf("insert user %q: %w", users[i].Email, res.Error)
			}
			counts.Users += int(res.RowsAffected)
		}

		customers := demoCustomers()
		for i := range customers {
			if err := tx.Create(&customers[i]).Error; err != nil {
				return fmt.Errorf("insert customer %q: %w", customers[i].Name, err)
			}
		}
		counts.Customers = len(customers)

		products := make([]model.Product, 0)
		for _, p := range demoProducts() {
			sku := p.SKU
			row := model.Product{Name: p.Name, SKU: &sku, UnitPrice: decimal.NewFromInt(p.Price), StockQuantity: p.Stock}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("insert product %q: %w", p.Name, res.Error)
			}
			if res.RowsAffected == 0 {
				var existing model.Product
				if err := tx.Where("sku = ?", sku).Take(&existing).Error; err != nil {
					return fmt.Errorf("load product %q: %w", sku, err)
				}
				row = existing
			} else {
				counts.Products++
			}
			products = append(products, row)
		}

		for _, so := range demoOrders() {
			p := products[so.Product]
			lineTotal := p.UnitPrice.Mul(decimal.NewFromInt(so.Quantity))
			order := model.Order{
				RetailerID:  retailers[so.Retailer].ID,
				Status:      so.Status,
				TotalAmount: lineTotal,
				Items: []model.OrderItem{{
					ProductID: p.ID,
					Quantity:  so.Quantity,
					UnitPrice: p.UnitPrice,
					LineTotal: lineTotal,
				}},
			}
			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			counts.Orders++

			if so.Status == model.OrderStatusDelivered {
				t := model.Transaction{
					OrderID:    &order.ID,
					RetailerID: &order.RetailerID,
					Amount:     lineTotal,
					Type:       model.TransactionSale,
				}
				if err := tx.Create(&t).Error; err != nil {
					return fmt.Errorf("insert transaction for order %d: %w", order.ID, err)
				}
				counts.Transactions++
			}
		}

		for i, amount := range []int64{50000, 75000} {
			t := model.Transaction{
				RetailerID: &retailers[i].ID,
				CustomerID: &customers[i].ID,
				Amount:     decimal.NewFromInt(amount),
				Type:       model.TransactionSale,
			}
			if err := tx.Create(&t).Error; err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			counts.Transactions++
		}

		var submitter model.User
		if err := tx.Where("email = ?", "staff@example.com").Take(&submitter).Error; err != nil {
			return fmt.Errorf("load staff user: %w", err)
		}
		for _, sc := range demoComplaints() {
			c := model.Complaint{
				RetailerID:        &retailers[sc.Retailer].ID,
				SubmittedByUserID: submitter.ID,
				Subject:           sc.Subject,
				Description:       sc.Description,
				Status:            sc.Status,
				CreatedAt:         now.Add(-time.Duration(sc.HoursAgo) * time.Hour),
			}
			if sc.Customer >= 0 {
				c.CustomerID = &customers[sc.Customer].ID
			}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("insert complaint %q: %w", sc.Subject, err)
			}
			counts.Complaints++
		}
		return nil
	})
	return counts, err
}

func strPtr(s string) *string { return &s }

func demoRetailers() []model.Retailer {
	return []model.Retailer{
		{Name: "Kigali Central Store", ContactName: strPtr("Alice Retail"), Phone: strPtr("+250788123456"), Email: strPtr("kigali@retailer.com"), Address: strPtr("KN 4 Ave, Kigali")},
		{Name: "Musanze Retail Outlet", ContactName: strPtr("Bob Sales"), Phone: strPtr("+250788234567"), Email: strPtr("musanze@retailer.com"), Address: strPtr("Main Street, Musanze")},
		{Name: "Gisenyi Shop", ContactName: strPtr("Charlie Owner"), Phone: strPtr("+250788345678"), Email: strPtr("gisenyi@retailer.com"), Address: strPtr("Lake Road, Gisenyi")},
		{Name: "Butare Market", ContactName: strPtr("Diana Manager"), Phone: strPtr("+250788456789"), Email: strPtr("butare@retailer.com"), Address: strPtr("University Road, Butare")},
	}
}

func demoCustomers() []model.Customer {
	return []model.Customer{
		{Name: "Rwanda Business Corp", Phone: strPtr("+250788111111"), Email: strPtr("contact@rwandabiz.com"), Address: strPtr("KG 7 Ave, Kigali")},
		{Name: "Mountain View Hotel", Phone: strPtr("+250788222222"), Email: strPtr("manager@mountainview.rw"), Address: strPtr("Volcanoes National Park Road")},
		{Name: "Lake Kivu Resort", Phone: strPtr("+250788333333"), Email: strPtr("info@lakekivu.com"), Address: strPtr("Lake Kivu, Karongi")},
		{Name: "City Center Restaurant", Phone: strPtr("+250788444444"), Email: strPtr("orders@citycenter.rw"), Address: strPtr("KN 5 St, Kigali")},
		{Name: "Green Valley Farms", Phone: strPtr("+250788555555"), Email: strPtr("sales@greenvalley.rw"), Address: strPtr("Rubavu District")},
	}
}

// Several products sit under the default low-stock threshold so alerts show up.
func demoProducts() []seedProduct {
	return []seedProduct{
		{Name: "Premium Coffee Beans (1kg)", SKU: "COFFEE-1KG", Price: 8500, Stock: 5},
		{Name: "Tea Leaves (500g)", SKU: "TEA-500G", Price: 3500, Stock: 25},
		{Name: "Honey (250ml)", SKU: "HONEY-250", Price: 4500, Stock: 0},
		{Name: "Maize Flour (5kg)", SKU: "MAIZE-5KG", Price: 3200, Stock: 50},
		{Name: "Rice (10kg)", SKU: "RICE-10KG", Price: 8500, Stock: 30},
		{Name: "Beans (2kg)", SKU: "BEANS-2KG", Price: 2800, Stock: 8},
		{Name: "Sugar (1kg)", SKU: "SUGAR-1KG", Price: 1500, Stock: 40},
		{Name: "Cooking Oil (1L)", SKU: "OIL-1L", Price: 2500, Stock: 15},
		{Name: "Salt (500g)", SKU: "SALT-500G", Price: 800, Stock: 60},
		{Name: "Tomatoes (1kg)", SKU: "TOMATO-1KG", Price: 2000, Stock: 12},
	}
}

func demoOrders() []seedOrder {
	return []seedOrder{
		{Retailer: 0, Product: 0, Quantity: 10, Status: model.OrderStatusDelivered},
		{Retailer: 0, Product: 1, Quantity: 5, Status: model.OrderStatusShipped},
		{Retailer: 1, Product: 2, Quantity: 3, Status: model.OrderStatusPending},
		{Retailer: 1, Product: 3, Quantity: 20, Status: model.OrderStatusApproved},
		{Retailer: 2, Product: 4, Quantity: 15, Status: model.OrderStatusDelivered},
		{Retailer: 2, Product: 5, Quantity: 8, Status: model.OrderStatusPending},
	}
}

// Customer -1 leaves the complaint without a customer.
func demoComplaints() []seedComplaint {
	return []seedComplaint{
		{Retailer: 0, Customer: 0, Subject: "Delayed delivery", Description: "Order was supposed to arrive last week but still waiting", Status: model.ComplaintStatusOpen, HoursAgo: 48},
		{Retailer: 1, Customer: 1, Subject: "Wrong product received", Description: "Received tea instead of coffee", Status: model.ComplaintStatusInProgress, HoursAgo: 36},
		{Retailer: 2, Customer: 2, Subject: "Product quality issue", Description: "Honey jar was leaking", Status: model.ComplaintStatusOpen, HoursAgo: 72},
		{Retailer: 0, Customer: -1, Subject: "Stock availability", Description: "Need to know when coffee beans will be back in stock", Status: model.ComplaintStatusOpen, HoursAgo: 12},
	}
}
