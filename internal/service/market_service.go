package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// MarketIndex names an index shown in the market movers.
type MarketIndex struct {
	Symbol string
	Name   string
}

// DefaultMarketIndices are the indices reported by GetMarketMovers.
var DefaultMarketIndices = []MarketIndex{
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^DJI", Name: "Dow Jones"},
	{Symbol: "^IXIC", Name: "NASDAQ"},
}

// MarketService serves quotes and index moves.
type MarketService struct {
	quotes  QuoteProvider
	indices []MarketIndex
	timeout time.Duration
	log     zerolog.Logger
}

// NewMarketService creates a new MarketService over the DefaultMarketIndices.
func NewMarketService(quotes QuoteProvider, timeout time.Duration, log zerolog.Logger) *MarketService {
	return &MarketService{
		quotes:  quotes,
		indices: DefaultMarketIndices,
		timeout: timeout,
		log:     log.With().Str("service", "market").Logger(),
	}
}

// GetQuote returns the latest quote of symbol.
func (s *MarketService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Quote{}, apperrors.ErrInvalidSymbol
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	quote, err := s.quotes.Quote(ctx, symbol)
	if errors.Is(err, apperrors.ErrSymbolNotFound) {
		return model.Quote{}, err
	}
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuote, err)
	}
	return quote, nil
}

// MaxSearchResults caps the results of SearchSymbols.
const MaxSearchResults = 10

// SearchSymbols returns the instruments matching query.
func (s *MarketService) SearchSymbols(ctx context.Context, query string) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q", apperrors.ErrMissingRequiredField)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	results, err := s.quotes.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToSearchSymbols, err)
	}
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results, nil
}

// GetMarketMovers returns the day move of each market index, in index order.
// An index whose quote fails is left out; the call only fails when every quote fails.
func (s *MarketService) GetMarketMovers(ctx context.Context) ([]model.MarketMover, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	results := make([]*model.MarketMover, len(s.indices))
	errs := make([]error, len(s.indices))

	var g errgroup.Group
	for i, index := range s.indices {
		g.Go(func() error {
			quote, err := s.quotes.Quote(ctx, index.Symbol)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = &model.MarketMover{
				Symbol:        index.Symbol,
				Name:          index.Name,
				Value:         quote.Price.Round(2),
				ChangePercent: quote.ChangePercent.Round(2),
			}
			return nil
		})
	}
	_ = g.Wait()

	movers := make([]model.MarketMover, 0, len(results))
	for i, m := range results {
		if m == nil {
			s.log.Warn().Err(errs[i]).Str("symbol", s.indices[i].Symbol).Msg("index quote unavailable")
			continue
		}
		movers = append(movers, *m)
	}
	if len(movers) == 0 && len(s.indices) > 0 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveMarketMovers, errors.Join(errs...))
	}
	return movers, nil
}
