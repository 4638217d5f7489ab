package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
)

// requestTimeout bounds a request including its oracle calls.
const requestTimeout = 60 * time.Second

// Services bundles the services the HTTP layer depends on.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Trade       *service.TradeService
	Cash        *service.CashService
	Transaction *service.TransactionService
	Market      *service.MarketService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// Mutating routes require the API key and a fresh time token when a key is configured.
	protected := func(next http.Handler) http.Handler { return next }
	if cfg.Auth.InternalAPIKey != "" {
		protected = custommiddleware.NewAPIKeyMiddleware(cfg.Auth.InternalAPIKey)
	}

	systemHandler := handlers.NewSystemHandler(svc.System)
	portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
	tradeHandler := handlers.NewTradeHandler(svc.Trade)
	cashHandler := handlers.NewCashHandler(svc.Cash)
	transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
	marketHandler := handlers.NewMarketHandler(svc.Market)

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Get("/portfolio", portfolioHandler.Snapshot)
		r.Get("/holdings", transactionHandler.Holdings)
		r.Get("/cash", cashHandler.Overview)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionHandler.Transactions)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", transactionHandler.GetTransaction)
		})

		r.Get("/stocks/search", marketHandler.Search)
		r.Get("/stocks/{symbol}", marketHandler.Quote)
		r.Get("/market/movers", marketHandler.Movers)

		r.Group(func(r chi.Router) {
			r.Use(protected)
			r.Post("/trade", tradeHandler.ExecuteTrade)
			r.Post("/add-funds", cashHandler.AddFunds)
			r.Post("/withdraw-funds", cashHandler.WithdrawFunds)
		})
	})

	return r
}
