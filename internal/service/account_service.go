package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/currency"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/repository"
)

// AccountService handles accounts and instruments, the reference data trades are recorded against.
type AccountService struct {
	accountRepo    *repository.AccountRepository
	instrumentRepo *repository.InstrumentRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo *repository.AccountRepository, instrumentRepo *repository.InstrumentRepository) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
	}
}

// GetAccounts retrieves all accounts.
func (s *AccountService) GetAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accountRepo.GetAccounts(ctx)
}

// CreateAccount creates an account. Names are unique; a duplicate returns apperrors.ErrDuplicateEntry.
func (s *AccountService) CreateAccount(ctx context.Context, req request.CreateAccountRequest) (*model.Account, error) {
	account := &model.Account{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.accountRepo.InsertAccount(ctx, account); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account %q", apperrors.ErrDuplicateEntry, account.Name)
		}
		return nil, err
	}
	return account, nil
}

// GetInstruments retrieves all instruments.
func (s *AccountService) GetInstruments(ctx context.Context) ([]model.Instrument, error) {
	return s.instrumentRepo.GetInstruments(ctx)
}

// CreateInstrument creates an instrument. ISINs are unique; a duplicate returns apperrors.ErrDuplicateEntry.
func (s *AccountService) CreateInstrument(ctx context.Context, req request.CreateInstrumentRequest) (*model.Instrument, error) {
	instrument := &model.Instrument{
		ID:          uuid.New().String(),
		ISIN:        strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(req.ISIN), " ", "")),
		Ticker:      strings.TrimSpace(req.Ticker),
		Name:        strings.TrimSpace(req.Name),
		NameLong:    strings.TrimSpace(req.NameLong),
		Category:    req.Category,
		Description: strings.TrimSpace(req.Description),
		Currency:    currency.Normalize(req.Currency),
	}

	if err := s.instrumentRepo.InsertInstrument(ctx, instrument); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: instrument %s", apperrors.ErrDuplicateEntry, instrument.ISIN)
		}
		return nil, err
	}
	return instrument, nil
}
