package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/flrdepot/crm-backend/internal/cache"
	"github.com/flrdepot/crm-backend/internal/config"
	"github.com/flrdepot/crm-backend/internal/handler"
	"github.com/flrdepot/crm-backend/internal/logger"
	appmw "github.com/flrdepot/crm-backend/internal/middleware"
	"github.com/flrdepot/crm-backend/internal/repository"
	"github.com/flrdepot/crm-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e             *echo.Echo
	notifications service.NotificationService
}

// New wires repositories, services and handlers onto a fresh echo instance.
// links may be nil, in which case retailer links are read from the database.
func New(db *gorm.DB, cfg *config.Config, links cache.LinkCache, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID)
	e.Use(appmw.RequestLogger(logger.L()))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.RequestIDHeader},
		ExposeHeaders:    []string{appmw.RequestIDHeader},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin,
	}))

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	retailerRepo := repository.NewRetailerRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	gate := service.NewGate(userRepo, links)
	dispatcher := service.NewDispatcher(service.LogHook{}, service.NewStoreHook(notifRepo))

	authSvc := service.NewAuthService(userRepo, retailerRepo, cfg.JWTSecret, cfg.JWTTTL)
	catalogSvc := service.NewCatalogService(gate, productRepo)
	partySvc := service.NewPartyService(gate, retailerRepo, customerRepo)
	orderSvc := service.NewOrderService(gate, orderRepo, retailerRepo, dispatcher)
	complaintSvc := service.NewComplaintService(gate, complaintRepo, retailerRepo, customerRepo, userRepo, dispatcher)
	txSvc := service.NewTransactionService(gate, txRepo, orderRepo, retailerRepo, customerRepo)
	reportSvc := service.NewReportService(gate, txRepo, productRepo, orderRepo, complaintRepo)
	notifSvc := service.NewNotificationService(gate, productRepo, complaintRepo, notifRepo, dispatcher,
		cfg.LowStockThreshold, cfg.ComplaintWarningHours)

	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(catalogSvc)
	partyHandler := handler.NewPartyHandler(partySvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc)
	txHandler := handler.NewTransactionHandler(txSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)

	authMw := appmw.NewAuthMiddleware(authSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	p := api.Group("", authMw.RequireAuth)

	p.GET("/products", productHandler.List)
	p.GET("/products/:id", productHandler.Get)
	p.POST("/products", productHandler.Create)
	p.PUT("/products/:id", productHandler.Update)
	p.DELETE("/products/:id", productHandler.Delete)

	p.GET("/retailers", partyHandler.ListRetailers)
	p.POST("/retailers", partyHandler.CreateRetailer)
	p.GET("/retailers/:id", partyHandler.GetRetailer)
	p.PUT("/retailers/:id", partyHandler.UpdateRetailer)
	p.DELETE("/retailers/:id", partyHandler.DeleteRetailer)

	p.GET("/customers", partyHandler.ListCustomers)
	p.POST("/customers", partyHandler.CreateCustomer)
	p.GET("/customers/:id", partyHandler.GetCustomer)
	p.PUT("/customers/:id", partyHandler.UpdateCustomer)
	p.DELETE("/customers/:id", partyHandler.DeleteCustomer)

	p.GET("/orders", orderHandler.List)
	p.POST("/orders", orderHandler.Create)
	p.GET("/orders/:id", orderHandler.Get)
	p.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

	p.GET("/complaints", complaintHandler.List)
	p.POST("/complaints", complaintHandler.Create)
	p.PATCH("/complaints/:id", complaintHandler.Update)

	p.GET("/transactions", txHandler.List)
	p.POST("/transactions", txHandler.Create)

	p.GET("/reports/sales", reportHandler.Sales)
	p.GET("/reports/stock", reportHandler.Stock)
	p.GET("/reports/pending-orders", reportHandler.PendingOrders)
	p.GET("/reports/complaints", reportHandler.Complaints)

	p.GET("/notifications", notifHandler.Summary)
	p.GET("/notifications/low-stock", notifHandler.LowStock)
	p.GET("/notifications/long-pending-complaints", notifHandler.LongPendingComplaints)
	p.GET("/alerts", notifHandler.Alerts)

	return &Server{e: e, notifications: notifSvc}
}

func allowOrigin(origin string) (bool, error) {
	low := strings.ToLower(origin)
	if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
		strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
		return true, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false, nil
	}
	if u.Scheme != "https" {
		return false, nil
	}
	return strings.HasSuffix(u.Hostname(), ".flrdepot.com"), nil
}

func (s *Server) Handler() http.Handler {
	return s.e
}

// Monitor returns the periodic threshold checker bound to this server's services.
func (s *Server) Monitor(cfg *config.Config) *service.ThresholdMonitor {
	return service.NewThresholdMonitor(s.notifications, cfg.NotifyInterval)
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
