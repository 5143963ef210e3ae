// Package routes wires repositories, services, and handlers together
// and registers every HTTP route.
package routes

import (
	"time"

	"github.com/gungun88/merchant-platform-sub002/internal/config"
	"github.com/gungun88/merchant-platform-sub002/internal/handlers"
	"github.com/gungun88/merchant-platform-sub002/internal/metrics"
	"github.com/gungun88/merchant-platform-sub002/internal/middleware"
	"github.com/gungun88/merchant-platform-sub002/internal/models"
	"github.com/gungun88/merchant-platform-sub002/internal/repositories"
	"github.com/gungun88/merchant-platform-sub002/internal/services/audit"
	"github.com/gungun88/merchant-platform-sub002/internal/services/auth"
	"github.com/gungun88/merchant-platform-sub002/internal/services/content"
	"github.com/gungun88/merchant-platform-sub002/internal/services/deposit"
	"github.com/gungun88/merchant-platform-sub002/internal/services/ledger"
	"github.com/gungun88/merchant-platform-sub002/internal/services/notification"
	"github.com/gungun88/merchant-platform-sub002/internal/services/partner"
	"github.com/gungun88/merchant-platform-sub002/internal/services/report"
	"github.com/gungun88/merchant-platform-sub002/internal/services/reward"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Background holds the services whose loops run outside the request
// path; main starts them after route setup.
type Background struct {
	Reward  *reward.Service
	Content *content.Service
}

// SetupRoutes configures every application route and returns the
// services that need background goroutines.
func SetupRoutes(app *fiber.App) *Background {
	// Repositories share the global DB and cache opened by InitDB.
	userRepo := repositories.NewUserRepository(repositories.DB)
	merchantRepo := repositories.NewMerchantRepository(repositories.DB, repositories.CacheService)
	depositStore := repositories.NewDepositStore(repositories.DB)
	partnerStore := repositories.NewPartnerStore(repositories.DB)
	reportStore := repositories.NewReportStore(repositories.DB)
	rewardStore := repositories.NewRewardStore(repositories.DB)
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)
	auditRepo := repositories.NewAuditRepository(repositories.DB)
	notificationRepo := repositories.NewNotificationRepository(repositories.DB)
	contentRepo := repositories.NewContentRepository(repositories.DB)

	// Services.
	authService := auth.NewService(userRepo)
	notificationService := notification.NewService(notificationRepo)
	auditService := audit.NewService(auditRepo)
	ledgerService := ledger.NewService(ledgerRepo, auditRepo)
	depositService := deposit.NewService(
		depositStore,
		notificationService,
		ledgerService,
		auditService,
		repositories.CacheService,
		metrics.NewDepositMetrics(),
	)
	partnerService := partner.NewService(partnerStore, notificationService, ledgerService, auditService)
	reportService := report.NewService(reportStore, notificationService, auditService)
	rewardService := reward.NewService(
		rewardStore,
		notificationService,
		auditService,
		config.GetIntEnv("DAILY_REWARD_POINTS", 10),
	)
	contentService := content.NewService(contentRepo)

	// Handlers.
	authHandler := handlers.NewAuthHandler(authService)
	depositHandler := handlers.NewDepositHandler(
		depositService,
		depositStore,
		merchantRepo,
		config.GetFloatEnv("DEPOSIT_REFUND_FEE_RATE", 10),
	)
	merchantHandler := handlers.NewMerchantHandler(merchantRepo, depositService)
	partnerHandler := handlers.NewPartnerHandler(partnerService, partnerStore)
	rewardHandler := handlers.NewRewardHandler(rewardService)
	reportHandler := handlers.NewReportHandler(reportService, reportStore)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	contentHandler := handlers.NewContentHandler(contentService)
	auditHandler := handlers.NewAuditHandler(auditService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Public routes.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Merchant Platform API",
			"version": "1.0.0",
		})
	})
	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	loginLimiter := limiter.New(limiter.Config{
		Max:        config.GetIntEnv("LOGIN_RATE_LIMIT", 10),
		Expiration: time.Minute,
	})
	api.Post("/login", loginLimiter, authHandler.Login)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Get("/banners", contentHandler.ListBanners)
	api.Get("/announcements", contentHandler.ListAnnouncements)

	// Authenticated routes.
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/logout", authHandler.Logout)
	protected.Get("/notifications", notificationHandler.ListMine)
	protected.Put("/notifications/:id/read", notificationHandler.MarkRead)
	protected.Post("/reports", reportHandler.FileReport)

	// Merchant-facing deposit flow.
	merchantGroup := protected.Group("/merchant")
	merchantGroup.Post("/deposit/apply", depositHandler.SubmitDepositApplication)
	merchantGroup.Post("/deposit/topup", depositHandler.SubmitTopUpApplication)
	merchantGroup.Post("/deposit/refund", depositHandler.SubmitRefundApplication)
	merchantGroup.Post("/reward/claim", rewardHandler.ClaimDailyReward)

	// Partner self-service.
	partnerGroup := protected.Group("/partners")
	partnerGroup.Post("/", partnerHandler.CreatePartner)
	partnerGroup.Post("/:id/subscriptions", partnerHandler.SubmitSubscription)

	// Admin routes behind the single role gate.
	admin := app.Group("/api/admin",
		authMiddleware.Handler,
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
	)

	admin.Get("/merchants", merchantHandler.ListMerchants)
	admin.Get("/merchants/:id", merchantHandler.GetMerchant)
	admin.Put("/merchants/:id/pin", merchantHandler.SetPinned)
	admin.Put("/merchants/:id/top", merchantHandler.SetTop)
	admin.Post("/merchants/:id/activate", merchantHandler.ActivateMerchant)
	admin.Post("/merchants/:id/deactivate", merchantHandler.DeactivateMerchant)
	admin.Post("/merchants/:id/violate", depositHandler.ViolateMerchant)
	admin.Post("/merchants/:id/compensation", depositHandler.CompleteCompensation)

	admin.Get("/deposit-applications", depositHandler.ListDepositApplications)
	admin.Post("/deposit-applications/:id/approve", depositHandler.ApproveDepositApplication)
	admin.Post("/deposit-applications/:id/reject", depositHandler.RejectDepositApplication)
	admin.Get("/topup-applications", depositHandler.ListTopUpApplications)
	admin.Post("/topup-applications/:id/approve", depositHandler.ApproveTopUpApplication)
	admin.Post("/topup-applications/:id/reject", depositHandler.RejectTopUpApplication)
	admin.Get("/refund-applications", depositHandler.ListRefundApplications)
	admin.Post("/refund-applications/:id/approve", depositHandler.ApproveRefundApplication)
	admin.Post("/refund-applications/:id/reject", depositHandler.RejectRefundApplication)

	admin.Get("/partners", partnerHandler.ListPartners)
	admin.Get("/partner-applications", partnerHandler.ListApplications)
	admin.Post("/partner-applications/:id/approve", partnerHandler.ApproveSubscription)
	admin.Post("/partner-applications/:id/reject", partnerHandler.RejectSubscription)

	admin.Get("/reward-plans", rewardHandler.ListPlans)
	admin.Post("/reward-plans", rewardHandler.CreatePlan)
	admin.Post("/reward-plans/:id/cancel", rewardHandler.CancelPlan)

	admin.Get("/reports", reportHandler.ListReports)
	admin.Post("/reports/:id/resolve", reportHandler.ResolveReport)
	admin.Post("/reports/:id/dismiss", reportHandler.DismissReport)

	admin.Get("/ledger", ledgerHandler.ListEntries)
	admin.Get("/ledger/summary", ledgerHandler.Summary)
	admin.Post("/ledger", ledgerHandler.CreateManualEntry)
	admin.Put("/ledger/:id/note", ledgerHandler.UpdateAdminNote)

	admin.Get("/operations", auditHandler.ListOperations)

	admin.Post("/banners", contentHandler.CreateBanner)
	admin.Put("/banners/:id/active", contentHandler.SetBannerActive)
	admin.Delete("/banners/:id", contentHandler.DeleteBanner)
	admin.Post("/announcements", contentHandler.CreateAnnouncement)
	admin.Put("/announcements/:id", contentHandler.UpdateAnnouncement)
	admin.Delete("/announcements/:id", contentHandler.DeleteAnnouncement)

	return &Background{
		Reward:  rewardService,
		Content: contentService,
	}
}
