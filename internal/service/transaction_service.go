package service

import (
	"context"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/repository"
)

// TransactionService exposes the trade log and the holdings read model.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	holdingRepo     *repository.HoldingRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	holdingRepo *repository.HoldingRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		holdingRepo:     holdingRepo,
	}
}

// GetRecentTransactions returns up to limit trades, newest first, with their totals.
func (s *TransactionService) GetRecentTransactions(ctx context.Context, limit int) ([]model.TransactionRecord, error) {
	txs, err := s.transactionRepo.GetRecentTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}
	records := make([]model.TransactionRecord, len(txs))
	for i, t := range txs {
		records[i] = model.NewTransactionRecord(t)
	}
	return records, nil
}

// GetTransaction retrieves a single trade by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id string) (model.TransactionRecord, error) {
	t, err := s.transactionRepo.GetTransaction(ctx, id)
	if err != nil {
		return model.TransactionRecord{}, err
	}
	return model.NewTransactionRecord(t), nil
}

// GetHoldings returns every holding row, including positions closed to zero.
func (s *TransactionService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	return s.holdingRepo.GetHoldings(ctx)
}
