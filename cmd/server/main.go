package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/crmgrid/internal/api"
	"github.com/lalith-99/crmgrid/internal/config"
	"github.com/lalith-99/crmgrid/internal/db"
	"github.com/lalith-99/crmgrid/internal/observ"
	"github.com/lalith-99/crmgrid/internal/repository/postgres"
	"github.com/lalith-99/crmgrid/internal/seed"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 3. Connect to Postgres and bootstrap the schema
	//
	// Why context.Background() here?
	//   - At startup, there's no parent request or deadline. Once the
	//     server is running, each HTTP request gets its own context;
	//     startup is "take as long as you need to connect."
	//
	// Bootstrap is idempotent (IF NOT EXISTS / OR REPLACE), so deploying
	// against an empty database and restarting against a full one are
	// the same code path.
	// ---------------------------------------------------------------
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Bootstrap(context.Background()); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}

	// ---------------------------------------------------------------
	// 4. Create repositories
	//
	// Each store gets the same pool; the pool is goroutine-safe, so
	// sharing is fine. Handlers receive the interface types, which
	// proves at compile time that each store satisfies its contract.
	// ---------------------------------------------------------------
	pool := database.Pool()
	tenantRepo := postgres.NewTenantStore(pool)
	roleRepo := postgres.NewRoleStore(pool)
	userRepo := postgres.NewUserStore(pool)
	accountRepo := postgres.NewAccountStore(pool)
	contactRepo := postgres.NewContactStore(pool)
	sourceRepo := postgres.NewLeadSourceStore(pool)
	leadRepo := postgres.NewLeadStore(pool)
	productRepo := postgres.NewProductStore(pool)
	oppRepo := postgres.NewOpportunityStore(pool)
	activityRepo := postgres.NewActivityStore(pool)
	reportRepo := postgres.NewReportStore(pool)

	// ---------------------------------------------------------------
	// 5. Optionally load the demo dataset
	// ---------------------------------------------------------------
	if cfg.SeedDemo {
		err := seed.Apply(context.Background(), seed.Stores{
			Tenants:       tenantRepo,
			Roles:         roleRepo,
			Users:         userRepo,
			Sources:       sourceRepo,
			Accounts:      accountRepo,
			Leads:         leadRepo,
			Products:      productRepo,
			Opportunities: oppRepo,
		}, logger)
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	// ---------------------------------------------------------------
	// 6. Set up HTTP server
	// ---------------------------------------------------------------
	tenantHandler := api.NewTenantHandler(tenantRepo, logger)
	roleHandler := api.NewRoleHandler(roleRepo, logger)
	userHandler := api.NewUserHandler(userRepo, logger)
	accountHandler := api.NewAccountHandler(accountRepo, logger)
	contactHandler := api.NewContactHandler(contactRepo, logger)
	leadHandler := api.NewLeadHandler(leadRepo, sourceRepo, logger)
	productHandler := api.NewProductHandler(productRepo, logger)
	oppHandler := api.NewOpportunityHandler(oppRepo, logger)
	activityHandler := api.NewActivityHandler(activityRepo, logger)
	reportHandler := api.NewReportHandler(reportRepo, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	logger.Info("starting crmgrid",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	// Health check is PUBLIC and cheap — load balancers hit this.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := srv.Group("/v1")

	v1.POST("/tenants", tenantHandler.Create)
	v1.GET("/tenants/:tenantID", tenantHandler.GetByID)
	v1.PATCH("/tenants/:tenantID/active", tenantHandler.SetActive)

	v1.POST("/roles", roleHandler.Create)
	v1.GET("/roles", roleHandler.List)

	v1.POST("/tenants/:tenantID/users", userHandler.Create)
	v1.GET("/tenants/:tenantID/users", userHandler.List)
	v1.GET("/tenants/:tenantID/users/:userID", userHandler.GetByID)
	v1.PUT("/tenants/:tenantID/users/:userID/manager", userHandler.SetManager)
	v1.GET("/tenants/:tenantID/users/:userID/reports", userHandler.Reports)
	v1.POST("/tenants/:tenantID/users/:userID/login", userHandler.RecordLogin)

	v1.POST("/tenants/:tenantID/accounts", accountHandler.Create)
	v1.GET("/tenants/:tenantID/accounts", accountHandler.List)
	v1.GET("/tenants/:tenantID/accounts/:accountID", accountHandler.GetByID)
	v1.DELETE("/tenants/:tenantID/accounts/:accountID", accountHandler.Delete)
	v1.PUT("/tenants/:tenantID/accounts/:accountID/parent", accountHandler.SetParent)
	v1.GET("/tenants/:tenantID/accounts/:accountID/ancestors", accountHandler.Ancestors)
	v1.GET("/tenants/:tenantID/accounts/:accountID/subtree", accountHandler.Subtree)
	v1.GET("/tenants/:tenantID/accounts/:accountID/revenue", accountHandler.Revenue)
	v1.POST("/tenants/:tenantID/accounts/:accountID/contacts", contactHandler.Create)
	v1.GET("/tenants/:tenantID/accounts/:accountID/contacts", contactHandler.ListByAccount)
	v1.GET("/tenants/:tenantID/accounts/:accountID/opportunities", oppHandler.ListByAccount)

	v1.GET("/contacts/:contactID", contactHandler.GetByID)
	v1.PUT("/contacts/:contactID/primary", contactHandler.SetPrimary)

	v1.POST("/lead-sources", leadHandler.CreateSource)
	v1.GET("/lead-sources", leadHandler.ListSources)

	v1.POST("/tenants/:tenantID/leads", leadHandler.Create)
	v1.GET("/tenants/:tenantID/leads", leadHandler.List)
	v1.GET("/tenants/:tenantID/leads/:leadID", leadHandler.GetByID)
	v1.POST("/tenants/:tenantID/leads/:leadID/transition", leadHandler.Transition)
	v1.POST("/tenants/:tenantID/leads/:leadID/convert", leadHandler.Convert)

	v1.POST("/products", productHandler.Create)
	v1.GET("/products", productHandler.List)
	v1.GET("/products/:sku", productHandler.GetBySKU)
	v1.PUT("/products/:sku/price", productHandler.UpdatePrice)

	v1.POST("/opportunities", oppHandler.Create)
	v1.GET("/opportunities/:opportunityID", oppHandler.GetByID)
	v1.PUT("/opportunities/:opportunityID", oppHandler.Update)
	v1.POST("/opportunities/:opportunityID/items", oppHandler.AddItem)
	v1.GET("/opportunities/:opportunityID/items", oppHandler.ListItems)
	v1.PUT("/items/:itemID", oppHandler.UpdateItem)

	v1.POST("/activities", activityHandler.Log)
	v1.GET("/activities", activityHandler.ListFor)
	v1.PUT("/activities/:activityID/status", activityHandler.SetStatus)

	v1.GET("/reports/sales-funnel", reportHandler.SalesFunnel)
	v1.GET("/reports/revenue-forecast", reportHandler.RevenueForecast)
	v1.GET("/reports/lead-conversion", reportHandler.LeadConversion)

	return srv.Run(":" + cfg.Port)
}
