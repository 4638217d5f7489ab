package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logging"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/pricecache"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logging.New(cfg.Log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}
	log.Info().Str("path", cfg.Database.Path).Int64("migrations_applied", applied).Msg("connected to database")

	// Price sources
	yahooOracle := yahoo.NewOracle(yahoo.NewFinanceClient(&http.Client{Timeout: cfg.Prices.OracleTimeout}))
	prices := pricecache.New(yahooOracle, cfg.Prices.CacheTTL).WithFetchTimeout(cfg.Prices.OracleTimeout)

	// Create repositories
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	cashRepo := repository.NewCashRepository(db)

	var refresher *pricecache.Refresher
	if cfg.Prices.RefreshSchedule != "" {
		refresher, err = pricecache.NewRefresher(prices, heldSymbols(holdingRepo), cfg.Prices.RefreshSchedule, cfg.Prices.OracleTimeout, log)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid PRICE_REFRESH_SCHEDULE")
		}
		refresher.Start()
	}

	// Create services
	locks := service.NewLedgerLocks()
	features := map[string]bool{
		"cash_settlement": cfg.Portfolio.CashSettlement,
		"api_key_auth":    cfg.Auth.InternalAPIKey != "",
		"price_refresh":   refresher != nil,
	}

	services := api.Services{
		System: service.NewSystemService(db, features),
		Trade: service.NewTradeService(db, holdingRepo, transactionRepo, cashRepo, prices, locks,
			service.TradeOptions{
				CashSettlement: cfg.Portfolio.CashSettlement,
				OracleTimeout:  cfg.Prices.OracleTimeout,
			}, log),
		Cash: service.NewCashService(db, cashRepo, locks, log),
		Portfolio: service.NewPortfolioService(db, holdingRepo, transactionRepo, cashRepo, prices, yahooOracle,
			service.PortfolioSettings{
				InitialInvestment: cfg.Portfolio.InitialInvestment,
				InceptionDate:     cfg.Portfolio.InceptionDate,
				BenchmarkSymbol:   cfg.Portfolio.BenchmarkSymbol,
				FetchConcurrency:  cfg.Prices.FetchConcurrency,
				OracleTimeout:     cfg.Prices.OracleTimeout,
			}, log),
		Transaction: service.NewTransactionService(transactionRepo, holdingRepo),
		Market:      service.NewMarketService(yahooOracle, cfg.Prices.OracleTimeout, log),
	}

	// Create router
	router := api.NewRouter(services, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	if refresher != nil {
		<-refresher.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}

// heldSymbols lists the symbols with open positions, the ones worth keeping warm.
func heldSymbols(holdings *repository.HoldingRepository) pricecache.SymbolLister {
	return func(ctx context.Context) ([]string, error) {
		rows, err := holdings.GetHoldings(ctx)
		if err != nil {
			return nil, err
		}
		symbols := make([]string, 0, len(rows))
		for _, h := range rows {
			if h.Quantity.IsPositive() {
				symbols = append(symbols, h.Symbol)
			}
		}
		return symbols, nil
	}
}
