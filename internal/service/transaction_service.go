package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// TransactionService records and lists cash transactions.
type TransactionService struct {
	accountRepo     *repository.AccountRepository
	positionRepo    *repository.PositionRepository
	transactionRepo *repository.CashTransactionRepository
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	accountRepo *repository.AccountRepository,
	positionRepo *repository.PositionRepository,
	transactionRepo *repository.CashTransactionRepository,
) *TransactionService {
	return &TransactionService{
		accountRepo:     accountRepo,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
	}
}

// GetTransactions lists cash transactions newest first, optionally for one account.
func (s *TransactionService) GetTransactions(ctx context.Context, accountName string) ([]model.Transaction, error) {
	id, err := accountID(ctx, s.accountRepo, accountName)
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactions(ctx, id)
}

// CreateTransaction records a dividend, tax or fee.
// A given position must belong to the transaction's account, otherwise
// apperrors.ErrDataInconsistency is returned.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	date, err := validation.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetAccountOnID(ctx, req.AccountID); err != nil {
		return nil, err
	}

	if req.PositionID != "" {
		position, err := s.positionRepo.GetPositionOnID(ctx, req.PositionID)
		if err != nil {
			return nil, err
		}
		if position.AccountID != req.AccountID {
			return nil, fmt.Errorf("%w: position %s belongs to another account",
				apperrors.ErrDataInconsistency, req.PositionID)
		}
	}

	transaction := &model.Transaction{
		ID:          uuid.New().String(),
		AccountID:   req.AccountID,
		PositionID:  req.PositionID,
		Date:        date,
		Type:        model.TransactionKind(req.Type),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return transaction, nil
}
