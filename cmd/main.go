package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Myphz/wwwallet-be/internal/config"
	"github.com/Myphz/wwwallet-be/internal/controllers"
	"github.com/Myphz/wwwallet-be/internal/dto"
	"github.com/Myphz/wwwallet-be/internal/engine"
	"github.com/Myphz/wwwallet-be/internal/middleware"
	"github.com/Myphz/wwwallet-be/internal/monitoring"
	"github.com/Myphz/wwwallet-be/internal/providers/binance"
	"github.com/Myphz/wwwallet-be/internal/providers/coinmarketcap"
	mongorepo "github.com/Myphz/wwwallet-be/internal/repositories/mongo"
	"github.com/Myphz/wwwallet-be/internal/services"
	"github.com/Myphz/wwwallet-be/pkg/database"
	"github.com/Myphz/wwwallet-be/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Logger)
	dto.RegisterCustomValidators()

	db, err := database.NewMongoDB(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close(context.Background())

	userRepo := mongorepo.NewUserRepository(db.GetDatabase())

	ledgerEngine := engine.NewLedgerEngine()
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	transactionService := services.NewTransactionService(userRepo, ledgerEngine)

	binanceClient := binance.NewClient(&binance.Config{
		BaseURL:   cfg.MarketData.BinanceBaseURL,
		Timeout:   cfg.MarketData.RequestTimeout,
		RateLimit: cfg.MarketData.BinanceRateLimit,
	})
	cmcClient := coinmarketcap.NewClient(&coinmarketcap.Config{
		BaseURL: cfg.MarketData.CoinMarketCapURL,
		APIKey:  cfg.MarketData.CoinMarketCapAPIKey,
		Timeout: cfg.MarketData.RequestTimeout,
	})

	metrics := monitoring.NewPrometheusMetrics()
	monitoring.StartSystemMetricsRecording(metrics, 30*time.Second)

	authController := controllers.NewAuthController(authService, tokenService, &cfg.JWT, cfg.IsProduction())
	accountController := controllers.NewAccountController(userService)
	transactionController := controllers.NewTransactionController(transactionService, metrics)
	marketController := controllers.NewMarketController(binanceClient, cmcClient, metrics)
	healthController := controllers.NewHealthController(db)

	router := setupRouter(cfg, metrics, tokenService,
		authController, accountController, transactionController, marketController, healthController)

	logrus.WithField("port", cfg.Server.Port).Info("Starting server")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}

func setupRouter(
	cfg *config.Config,
	metrics monitoring.MetricsService,
	tokenService services.TokenService,
	authController *controllers.AuthController,
	accountController *controllers.AccountController,
	transactionController *controllers.TransactionController,
	marketController *controllers.MarketController,
	healthController *controllers.HealthController,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.LoggingMiddleware())
	router.Use(monitoring.Middleware(metrics))
	router.Use(gin.Recovery())

	router.GET("/health", healthController.Health)
	router.GET("/live", healthController.Liveness)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authLimiter := middleware.NewRateLimitMiddleware(10, time.Minute)
	writeLimiter := middleware.NewRateLimitMiddleware(60, time.Minute)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter.Handler(), authController.Register)
			auth.POST("/login", authLimiter.Handler(), authController.Login)
			auth.DELETE("/logout", authController.Logout)
			auth.GET("/verify", middleware.AuthMiddleware(tokenService, cfg.JWT.CookieName), authController.Verify)
		}

		account := api.Group("/account")
		account.Use(middleware.AuthMiddleware(tokenService, cfg.JWT.CookieName))
		{
			account.PUT("/password", accountController.ChangePassword)
			account.DELETE("", accountController.DeleteAccount)
		}

		transactions := api.Group("/transactions")
		transactions.Use(middleware.AuthMiddleware(tokenService, cfg.JWT.CookieName))
		{
			transactions.GET("", transactionController.ListTransactions)
			transactions.POST("", writeLimiter.Handler(), transactionController.CreateTransaction)
			transactions.PUT("/:id", writeLimiter.Handler(), transactionController.UpdateTransaction)
			transactions.DELETE("/:id", writeLimiter.Handler(), transactionController.DeleteTransaction)
			transactions.DELETE("", writeLimiter.Handler(), transactionController.ClearTransactions)
		}

		crypto := api.Group("/crypto")
		{
			crypto.GET("/binance/*endpoint", marketController.ProxyBinance)
			crypto.GET("/info", marketController.GetCryptoInfo)
		}
	}

	return router
}
