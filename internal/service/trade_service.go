package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/pnl"
	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// TradeService records and lists trades.
type TradeService struct {
	db             *sql.DB
	accountRepo    *repository.AccountRepository
	instrumentRepo *repository.InstrumentRepository
	positionRepo   *repository.PositionRepository
	tradeRepo      *repository.TradeRepository
	log            zerolog.Logger
}

// NewTradeService creates a new TradeService.
func NewTradeService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	instrumentRepo *repository.InstrumentRepository,
	positionRepo *repository.PositionRepository,
	tradeRepo *repository.TradeRepository,
	log zerolog.Logger,
) *TradeService {
	return &TradeService{
		db:             db,
		accountRepo:    accountRepo,
		instrumentRepo: instrumentRepo,
		positionRepo:   positionRepo,
		tradeRepo:      tradeRepo,
		log:            log.With().Str("service", "trades").Logger(),
	}
}

// GetTrades lists trades newest first, optionally for one account.
func (s *TradeService) GetTrades(ctx context.Context, accountName string) ([]model.TradeResponse, error) {
	id, err := accountID(ctx, s.accountRepo, accountName)
	if err != nil {
		return nil, err
	}
	return s.tradeRepo.GetTrades(ctx, id)
}

// CreateTrade records a trade on the position of the requested account and
// instrument, creating the position on its first trade.
//
// The position's whole history including the new trade is matched before
// anything is stored: a sell exceeding the open quantity at its date, or a
// backdated sell that makes a later sell oversell, fails with
// apperrors.ErrInsufficientShares. The stored closed flag and closing date
// are updated in the same database transaction.
func (s *TradeService) CreateTrade(ctx context.Context, req request.CreateTradeRequest) (*model.Trade, error) {
	tradeDate, err := validation.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.accountRepo.WithTx(tx).GetAccountOnID(ctx, req.AccountID); err != nil {
		return nil, err
	}
	if _, err := s.instrumentRepo.WithTx(tx).GetInstrumentOnID(ctx, req.InstrumentID); err != nil {
		return nil, err
	}

	positionRepo := s.positionRepo.WithTx(tx)
	tradeRepo := s.tradeRepo.WithTx(tx)

	position, err := positionRepo.GetOrCreatePosition(ctx, req.AccountID, req.InstrumentID)
	if err != nil {
		return nil, err
	}

	history, err := tradeRepo.GetTradesForPositions(ctx, []string{position.ID})
	if err != nil {
		return nil, err
	}

	trade := &model.Trade{
		ID:          uuid.New().String(),
		PositionID:  position.ID,
		Date:        tradeDate,
		Type:        model.TradeSide(req.Type),
		Quantity:    req.Quantity,
		Price:       req.Price,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}

	result, err := pnl.Match(append(history, *trade))
	if err != nil {
		var oversell *pnl.OversellError
		if errors.As(err, &oversell) {
			return nil, fmt.Errorf("%w: %d requested, %d open on %s",
				apperrors.ErrInsufficientShares, oversell.Requested, oversell.Available,
				oversell.Date.Format(time.DateOnly))
		}
		return nil, err
	}

	if err := tradeRepo.InsertTrade(ctx, trade); err != nil {
		return nil, err
	}

	closed := result.ClosingDate != nil
	if err := positionRepo.UpdatePositionStatus(ctx, position.ID, closed, result.ClosingDate); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	s.log.Info().
		Str("trade_id", trade.ID).
		Str("position_id", position.ID).
		Str("type", string(trade.Type)).
		Int64("quantity", trade.Quantity).
		Msg("trade recorded")

	return trade, nil
}
