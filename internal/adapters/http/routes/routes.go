package routes

import (
	"time"

	"debo-loans/internal/adapters/http/handlers"
	"debo-loans/internal/adapters/http/middleware"
	"debo-loans/internal/adapters/persistence/repositories"
	"debo-loans/internal/config"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the adapters the routes are built on
type Dependencies struct {
	Store      *repositories.Store
	Config     *config.Config
	Storage    fiber.Storage
	Mailer     services.Mailer
	Publisher  services.EventPublisher
	Receipts   services.ReceiptStore
	Background *services.Background
	Now        services.Clock
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Dependencies) {
	store, cfg := deps.Store, deps.Config

	// Initialize services
	notificationService := services.NewNotificationService(store, deps.Publisher, deps.Background)
	authService := services.NewAuthService(store, deps.Mailer, deps.Background, cfg, deps.Now)
	userService := services.NewUserService(store)
	applicationService := services.NewApplicationService(store, notificationService)
	reviewService := services.NewReviewService(store, notificationService, deps.Now)
	documentService := services.NewDocumentService(store, notificationService)
	paymentService := services.NewPaymentService(store, notificationService, deps.Receipts, deps.Now)
	loanService := services.NewLoanService(store)
	productService := services.NewLoanProductService(store)
	reportService := services.NewReportService(store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(userService)
	applicationHandler := handlers.NewLoanApplicationHandler(applicationService)
	loanHandler := handlers.NewLoanHandler(reviewService, loanService, documentService, paymentService, reportService)
	cashierHandler := handlers.NewCashierHandler(documentService, paymentService)
	productHandler := handlers.NewLoanProductHandler(productService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")

	// Auth routes (public except /me)
	authRoutes := apiV1.Group("/auth", middleware.NoCacheHeaders())
	authRoutes.Post("/register", middleware.AuthRateLimiter(cfg, deps.Storage), authHandler.Register)
	authRoutes.Post("/verify-email", middleware.AuthRateLimiter(cfg, deps.Storage), authHandler.VerifyEmail)
	authRoutes.Post("/resend-code", middleware.StrictRateLimiter(cfg, deps.Storage), authHandler.ResendCode)
	authRoutes.Post("/login", middleware.AuthRateLimiter(cfg, deps.Storage), authHandler.Login)
	authRoutes.Post("/refresh", middleware.AuthRateLimiter(cfg, deps.Storage), authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	protected := apiV1.Group("", middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(protected, applicationHandler)
	setupLoanRoutes(protected, loanHandler)
	setupCashierRoutes(protected, cashierHandler)
	setupAdminRoutes(protected, adminHandler)
	setupProductRoutes(protected, productHandler)

	protected.Get("/notifications", middleware.NoCacheHeaders(), notificationHandler.List)
}

func setupApplicationRoutes(router fiber.Router, handler *handlers.LoanApplicationHandler) {
	router.Post("/loan-applications", middleware.Require(domain.ActionSubmitApplication), handler.Submit)
	router.Get("/loan-applications", handler.List)
}

func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	loans := router.Group("/loans")

	// Borrowers see their own records
	loans.Get("/", handler.List)
	loans.Get("/payment-receipts", handler.PaymentReceipts)

	loans.Post("/collateral", middleware.Require(domain.ActionAttachDocuments), handler.AttachCollateral)
	loans.Post("/income-proof", middleware.Require(domain.ActionAttachDocuments), handler.AttachIncomeProof)
	loans.Post("/identification", middleware.Require(domain.ActionAttachDocuments), handler.AttachIdentification)

	// Review workflow
	loans.Post("/", middleware.Require(domain.ActionReviewApplication), handler.Create)
	loans.Post("/approve-or-reject", middleware.Require(domain.ActionReviewApplication), handler.ApproveOrReject)
	loans.Post("/transfer", middleware.Require(domain.ActionTransferApplication), handler.Transfer)

	loans.Get("/transactions", middleware.Require(domain.ActionViewTransactions), handler.Transactions)
	loans.Get("/reports", middleware.Require(domain.ActionViewReports), handler.Reports)
}

func setupCashierRoutes(router fiber.Router, handler *handlers.CashierHandler) {
	casher := router.Group("/casher")
	casher.Post("/verify-document", middleware.Require(domain.ActionVerifyDocument), handler.VerifyDocument)
	casher.Post("/verify-payment", middleware.Require(domain.ActionRecordPayment), handler.VerifyPayment)
}

func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler) {
	admin := router.Group("/admin", middleware.Require(domain.ActionManageUsers))
	admin.Post("/change-role", handler.ChangeRole)
	admin.Post("/change-status", handler.ChangeStatus)
	admin.Get("/users", handler.Users)
}

func setupProductRoutes(router fiber.Router, handler *handlers.LoanProductHandler) {
	products := router.Group("/loan-products")
	products.Get("/", middleware.PrivateCacheHeaders(5*time.Minute), handler.List)
	products.Get("/:id", middleware.PrivateCacheHeaders(5*time.Minute), handler.Get)

	manage := middleware.Require(domain.ActionManageProducts)
	products.Post("/", manage, handler.Create)
	products.Put("/:id", manage, handler.Update)
	products.Delete("/:id", manage, handler.Delete)
}
