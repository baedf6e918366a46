package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/Alemu2502/mern-ecommerce-portfolio/external/midtrans"
	"github.com/Alemu2502/mern-ecommerce-portfolio/external/oauthprov"
	"github.com/Alemu2502/mern-ecommerce-portfolio/external/resend"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/auth"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/config"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/db"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/middleware"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/services"
)

func main() {
	ctx := context.Background()

	// ======================
	// INFRA
	// ======================
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatal(err)
	}

	// ======================
	// EXTERNALS
	// ======================
	mailer, err := resend.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	if err != nil {
		log.Fatal(err)
	}
	snapClient := midtrans.NewSnapClient(cfg.MidtransServerKey)

	apiBase := "http://localhost:" + cfg.Port + "/api"
	var google, github *oauthprov.Provider
	if cfg.GoogleClientID != "" {
		google = oauthprov.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, apiBase+"/auth/google/callback")
	}
	if cfg.GithubClientID != "" {
		github = oauthprov.NewGithub(cfg.GithubClientID, cfg.GithubClientSecret, apiBase+"/auth/github/callback")
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	outboxRepo := repository.NewEmailOutboxRepository(pool)

	if n, err := refreshRepo.DeleteExpired(ctx); err != nil {
		log.WithError(err).Warn("refresh token cleanup failed")
	} else if n > 0 {
		log.WithField("deleted", n).Info("expired refresh tokens removed")
	}

	// ======================
	// SERVICES
	// ======================
	issuer := auth.NewIssuer(auth.IssuerConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		VerifySecret:  cfg.EmailVerifySecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		VerifyTTL:     cfg.EmailVerifyTTL,
	}, refreshRepo)

	mailSvc := services.NewMailService(outboxRepo, mailer)
	go retryMailLoop(ctx, mailSvc)
	authSvc := services.NewAuthService(userRepo, issuer, refreshRepo, mailSvc, cfg.ClientURL, cfg.ResetTokenTTL)
	userSvc := services.NewUserService(userRepo, orderRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, productRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, orderRepo, snapClient, cfg.MidtransServerKey)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))

	api := e.Group("/api")

	signin := middleware.RequireSignin(issuer)
	ownerOrAdmin := middleware.RequireOwnerOrAdmin(userRepo)

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, cfg.IsProduction())
	registerOAuthRoutes(api, authSvc, google, github, cfg.ClientURL, cfg.IsProduction())
	registerUserRoutes(api, userSvc, signin, ownerOrAdmin)
	registerCategoryRoutes(api, categorySvc, signin, ownerOrAdmin)
	registerProductRoutes(api, productSvc, signin, ownerOrAdmin)
	registerReviewRoutes(api, reviewSvc, signin)
	registerOrderRoutes(api, orderSvc, signin, ownerOrAdmin)
	registerPaymentRoutes(api, paymentSvc, signin, ownerOrAdmin)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// retryMailLoop periodically redelivers outbox messages that failed their
// first attempt.
func retryMailLoop(ctx context.Context, mailSvc *services.MailService) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := mailSvc.RetryFailed(ctx, 50)
			if err != nil {
				log.WithError(err).Warn("outbox retry failed")
			} else if sent > 0 {
				log.WithField("sent", sent).Info("outbox messages redelivered")
			}
		}
	}
}
