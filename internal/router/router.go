package router

import (
	"time"

	"timecafe/internal/config"
	"timecafe/internal/handler"
	"timecafe/internal/middleware"
	"timecafe/internal/repository"
	"timecafe/internal/service"
	"timecafe/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	periodRepo := repository.NewPeriodRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(deviceRepo, productRepo)
	ledgerSvc := service.NewLedgerService(ledgerRepo, financeRepo, recordRepo, periodRepo)
	customerSvc := service.NewCustomerService(customerRepo, ledgerRepo, periodRepo)
	sessionSvc := service.NewSessionService(sessionRepo, deviceRepo, productRepo, customerRepo, recordRepo, ledgerRepo, periodRepo, cfg)
	recordSvc := service.NewRecordService(recordRepo, ledgerRepo, customerRepo, periodRepo, cfg)
	financeSvc := service.NewFinanceService(financeRepo, ledgerRepo, periodRepo, ledgerSvc)
	savingsSvc := service.NewSavingsService(periodRepo, ledgerRepo, ledgerSvc)
	cycleSvc := service.NewCycleService(periodRepo, sessionRepo, ledgerRepo)

	// Worker dispatcher — injected into the archive flow for async reports
	dispatcher := worker.NewDispatcher(rdb)
	distributionSvc := service.NewDistributionService(cfg, periodRepo, ledgerRepo, recordRepo, financeRepo, customerRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	recordsH := handler.NewRecordsHandler(recordSvc)
	financeH := handler.NewFinanceHandler(financeSvc)
	ledgerH := handler.NewLedgerHandler(ledgerSvc)
	savingsH := handler.NewSavingsHandler(savingsSvc)
	cyclesH := handler.NewCyclesHandler(cycleSvc)
	distributionH := handler.NewDistributionHandler(distributionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: staff, manager, admin — declared per-endpoint
		anyStaff := middleware.RequireRole("staff", "manager", "admin")
		managers := middleware.RequireRole("manager", "admin")
		admins := middleware.RequireRole("admin")

		// Sessions — the daily floor operation
		v1.POST("/sessions", anyStaff, sessionsH.Open)
		v1.GET("/sessions", anyStaff, sessionsH.ListActive)
		v1.POST("/sessions/:id/device", anyStaff, sessionsH.ChangeDevice)
		v1.POST("/sessions/:id/orders", anyStaff, sessionsH.AddOrder)
		v1.DELETE("/sessions/:id/orders/:order_id", anyStaff, sessionsH.DeleteOrder)
		v1.POST("/sessions/:id/checkout", anyStaff, sessionsH.Checkout)

		// Archived records — historical corrections need a manager
		v1.GET("/records", anyStaff, recordsH.List)
		v1.GET("/records/:id", anyStaff, recordsH.Get)
		v1.PUT("/records/:id/orders/:order_id", managers, recordsH.EditOrder)
		v1.DELETE("/records/:id/orders/:order_id", managers, recordsH.DeleteOrder)
		v1.DELETE("/records/:id", managers, recordsH.Delete)

		// Customers
		v1.POST("/customers", anyStaff, customersH.Create)
		v1.GET("/customers", anyStaff, customersH.List)
		v1.GET("/customers/:id", anyStaff, customersH.Get)
		v1.DELETE("/customers/:id", managers, customersH.Deactivate)
		v1.POST("/customers/:id/repay", anyStaff, customersH.RepayDebt)

		// Catalog — devices and products are admin-managed, readable by all
		v1.GET("/devices", anyStaff, catalogH.ListDevices)
		v1.GET("/products", anyStaff, catalogH.ListProducts)
		v1.GET("/items", anyStaff, catalogH.ListItems)
		catalog := v1.Group("", admins)
		{
			catalog.POST("/devices", catalogH.CreateDevice)
			catalog.DELETE("/devices/:id", catalogH.DeactivateDevice)
			catalog.POST("/products", catalogH.CreateProduct)
			catalog.DELETE("/products/:id", catalogH.DeactivateProduct)
			catalog.POST("/items", catalogH.CreateItem)
		}
		v1.POST("/items/:id/restock", managers, catalogH.Restock)
		v1.GET("/items/:id/movements", managers, catalogH.ListMovements)

		// Ledger
		v1.GET("/ledger", managers, ledgerH.ListEntries)
		v1.GET("/ledger/balance", anyStaff, ledgerH.Balance)
		v1.GET("/ledger/integrity", managers, ledgerH.Integrity)
		v1.POST("/ledger/migrate", admins, ledgerH.MigrateLegacy)

		// Finance
		fin := v1.Group("", managers)
		{
			fin.POST("/expenses", financeH.CreateExpense)
			fin.GET("/expenses", financeH.ListExpenses)
			fin.DELETE("/expenses/:id", financeH.DeleteExpense)
			fin.POST("/purchases", financeH.CreatePurchase)
			fin.GET("/purchases", financeH.ListPurchases)
			fin.DELETE("/purchases/:id", financeH.DeletePurchase)
			fin.POST("/loans", financeH.CreateLoan)
			fin.GET("/loans", financeH.ListLoans)
			fin.POST("/loans/:id/repay", financeH.RepayLoan)
			fin.POST("/transfers", financeH.CreateTransfer)
			fin.GET("/transfers", financeH.ListTransfers)
			fin.DELETE("/transfers/:id", financeH.DeleteTransfer)
			fin.POST("/partner-debts", financeH.CreatePartnerDebt)
			fin.GET("/partner-debts", financeH.ListPartnerDebts)
			fin.POST("/bank-accounts", financeH.CreateBankAccount)
			fin.GET("/bank-accounts", financeH.ListBankAccounts)
		}

		// Savings
		sav := v1.Group("/savings", managers)
		{
			sav.POST("/deposits", savingsH.ManualDeposit)
			sav.PUT("/deposits/:id", savingsH.AmendDeposit)
			sav.POST("/plans", savingsH.CreatePlan)
			sav.GET("/plans", savingsH.ListPlans)
			sav.DELETE("/plans/:id", savingsH.DeactivatePlan)
			sav.GET("/preview", savingsH.Preview)
			sav.POST("/confirm", savingsH.Confirm)
		}

		// Day cycles
		v1.GET("/cycles/current", anyStaff, cyclesH.Current)
		v1.POST("/cycles", anyStaff, cyclesH.Start)
		v1.GET("/cycles/preview", anyStaff, cyclesH.Preview)
		v1.POST("/cycles/close", managers, cyclesH.Close)
		v1.GET("/cycles", managers, cyclesH.History)

		// User management
		users := v1.Group("/users", admins)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
		}

		// Distribution — period closing is admin territory
		dist := v1.Group("/distribution", admins)
		{
			dist.POST("/compute", distributionH.Compute)
			dist.POST("/archive", distributionH.Archive)
			dist.GET("/snapshots", distributionH.ListSnapshots)
			dist.GET("/snapshots/:id", distributionH.GetSnapshot)
			dist.POST("/snapshots/:id/rebuild", distributionH.Rebuild)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
