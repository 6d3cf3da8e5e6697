package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/carteiralabs/carteira/internal/db"
	"github.com/carteiralabs/carteira/internal/handlers"
	"github.com/carteiralabs/carteira/internal/logger"
	"github.com/carteiralabs/carteira/internal/models"
	"github.com/carteiralabs/carteira/internal/repositories"
	"github.com/carteiralabs/carteira/internal/services"
)

func main() {
	// .env is optional; real deployments set variables directly
	_ = godotenv.Load()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Database connection
	config := db.NewConfig()
	database, err := db.Connect(config)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zapLogger.Fatal("Database health check failed", zap.Error(err))
	}
	zapLogger.Info("Database connection established", zap.String("driver", config.Driver))

	if err := database.AutoMigrate(
		&models.Transaction{},
		&models.Dividend{},
		&models.AssetPrice{},
		&models.DailySnapshot{},
	); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	txRepo := repositories.NewTransactionRepository(database)
	divRepo := repositories.NewDividendRepository(database)
	priceRepo := repositories.NewPriceHistoryRepository(database)
	snapRepo := repositories.NewSnapshotRepository(database)

	// External providers and caches
	quoteProvider := services.NewBrapiProvider(zapLogger)
	indexProvider := services.NewBCBProvider(zapLogger)
	quoteCache := services.NewQuoteCache()
	session := services.NewPricingSession()

	// Services
	positionService := services.NewPositionService(zapLogger)
	accrualService := services.NewAccrualService(zapLogger)
	pricingService := services.NewPricingService(quoteProvider, quoteCache, priceRepo, accrualService, session, zapLogger)
	valuationService := services.NewValuationService(zapLogger)
	snapshotService := services.NewSnapshotService(priceRepo, accrualService, zapLogger)
	portfolioService := services.NewPortfolioService(
		txRepo, divRepo, snapRepo, priceRepo,
		positionService, pricingService, valuationService, snapshotService,
		indexProvider, zapLogger,
	)

	// Handlers
	transactionHandler := handlers.NewTransactionHandler(txRepo)
	dividendHandler := handlers.NewDividendHandler(divRepo)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	priceHandler := handlers.NewPriceHandler(quoteProvider, priceRepo)

	// Routes
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "carteira-backend",
		})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/transactions", transactionHandler.HandleTransactions)
	api.HandleFunc("/transactions/{id}", transactionHandler.HandleTransaction)
	api.HandleFunc("/dividends", dividendHandler.HandleDividends)
	api.HandleFunc("/dividends/{id}", dividendHandler.HandleDividend)
	api.HandleFunc("/portfolio/summary", portfolioHandler.HandleSummary)
	api.HandleFunc("/portfolio/evolution", portfolioHandler.HandleEvolution)
	api.HandleFunc("/portfolio/daychange", portfolioHandler.HandleDayChange)
	api.HandleFunc("/prices/{ticker}/history", priceHandler.HandleHistory)
	api.HandleFunc("/prices/{ticker}/populate", priceHandler.HandlePopulate)

	// CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	zapLogger.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
		zapLogger.Fatal("Server stopped", zap.Error(err))
	}
}
