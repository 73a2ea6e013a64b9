package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/yahoo"
)

// maxConcurrentFetches bounds parallel Yahoo Finance requests during a refresh.
const maxConcurrentFetches = 4

// PriceService keeps the price table fed from Yahoo Finance.
type PriceService struct {
	yahooClient    yahoo.Client
	instrumentRepo *repository.InstrumentRepository
	priceRepo      *repository.PriceRepository
	log            zerolog.Logger
	now            func() time.Time
}

// NewPriceService creates a new PriceService.
func NewPriceService(
	yahooClient yahoo.Client,
	instrumentRepo *repository.InstrumentRepository,
	priceRepo *repository.PriceRepository,
	log zerolog.Logger,
) *PriceService {
	return &PriceService{
		yahooClient:    yahooClient,
		instrumentRepo: instrumentRepo,
		priceRepo:      priceRepo,
		log:            log.With().Str("service", "prices").Logger(),
		now:            time.Now,
	}
}

// GetLatestPrices returns the latest stored price of every instrument that has one.
func (s *PriceService) GetLatestPrices(ctx context.Context) ([]model.LatestPrice, error) {
	instruments, err := s.instrumentRepo.GetInstruments(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(instruments))
	for i, inst := range instruments {
		ids[i] = inst.ID
	}

	latest, err := s.priceRepo.GetLatestPrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePrices, err)
	}

	prices := make([]model.LatestPrice, 0, len(latest))
	for _, inst := range instruments {
		if p, ok := latest[inst.ID]; ok {
			prices = append(prices, p)
		}
	}
	return prices, nil
}

// RefreshLatestPrices fetches the last five trading days for every instrument
// with a ticker and stores the days not yet known.
//
// A failing instrument is reported in the result and does not stop the others.
// Success is true when at least one instrument was refreshed.
func (s *PriceService) RefreshLatestPrices(ctx context.Context) (model.PriceRefreshResult, error) {
	instruments, err := s.instrumentRepo.GetInstrumentsWithTicker(ctx)
	if err != nil {
		return model.PriceRefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	result := model.PriceRefreshResult{
		Updated: make([]model.UpdatedInstrument, 0, len(instruments)),
		Errors:  make([]model.UpdatedInstrumentError, 0),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, inst := range instruments {
		g.Go(func() error {
			added, err := s.refreshInstrument(gctx, inst)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn().Err(err).Str("ticker", inst.Ticker).Msg("price refresh failed")
				result.Errors = append(result.Errors, model.UpdatedInstrumentError{
					InstrumentID: inst.ID,
					Ticker:       inst.Ticker,
					Error:        err.Error(),
				})
				return nil
			}
			result.Updated = append(result.Updated, model.UpdatedInstrument{
				InstrumentID: inst.ID,
				Ticker:       inst.Ticker,
				PricesAdded:  added,
			})
			return nil
		})
	}
	_ = g.Wait()

	result.TotalUpdated = len(result.Updated)
	result.TotalErrors = len(result.Errors)
	result.Success = result.TotalUpdated > 0

	s.log.Info().
		Int("updated", result.TotalUpdated).
		Int("errors", result.TotalErrors).
		Msg("price refresh finished")

	return result, nil
}

func (s *PriceService) refreshInstrument(ctx context.Context, inst model.Instrument) (int, error) {
	raw, err := s.yahooClient.QueryYahooFiveDaySymbol(ctx, inst.Ticker)
	if err != nil {
		return 0, err
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return 0, err
	}
	return s.priceRepo.InsertPrices(ctx, pricesFromChart(inst.ID, chart.Indicators, time.Time{}))
}

// LoadHistory backfills daily closes of an instrument for the given number of
// days up to yesterday. Days already stored are left untouched.
func (s *PriceService) LoadHistory(ctx context.Context, instrumentID string, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}

	inst, err := s.instrumentRepo.GetInstrumentOnID(ctx, instrumentID)
	if err != nil {
		return 0, err
	}
	if inst.Ticker == "" {
		return 0, apperrors.ErrInvalidTicker
	}

	now := s.now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)
	start := yesterday.AddDate(0, 0, -days+1)

	raw, err := s.yahooClient.QueryYahooSymbolByDateRange(ctx, inst.Ticker, start, yesterday)
	if err != nil {
		return 0, err
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return 0, err
	}

	added, err := s.priceRepo.InsertPrices(ctx, pricesFromChart(inst.ID, chart.Indicators, start))
	if err != nil {
		return added, err
	}

	s.log.Info().
		Str("ticker", inst.Ticker).
		Int("days", days).
		Int("added", added).
		Msg("price history loaded")
	return added, nil
}

// LoadChart stores the daily closes of a chart fetched earlier, for the
// instrument whose ticker matches the chart symbol. Days already stored are
// left untouched.
func (s *PriceService) LoadChart(ctx context.Context, raw yahoo.Response) (model.Instrument, int, error) {
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return model.Instrument{}, 0, err
	}
	if chart.Symbol == "" {
		return model.Instrument{}, 0, apperrors.ErrInvalidTicker
	}

	inst, err := s.instrumentRepo.GetInstrumentByTicker(ctx, chart.Symbol)
	if err != nil {
		return model.Instrument{}, 0, err
	}

	added, err := s.priceRepo.InsertPrices(ctx, pricesFromChart(inst.ID, chart.Indicators, time.Time{}))
	if err != nil {
		return inst, added, err
	}

	s.log.Info().
		Str("ticker", inst.Ticker).
		Int("days", len(chart.Indicators)).
		Int("added", added).
		Msg("price chart loaded")
	return inst, added, nil
}

// pricesFromChart converts chart days on or after from into daily prices.
func pricesFromChart(instrumentID string, indicators []yahoo.Indicators, from time.Time) []model.Price {
	prices := make([]model.Price, 0, len(indicators))
	for _, ind := range indicators {
		day := ind.Date.UTC().Truncate(24 * time.Hour)
		if day.Before(from) {
			continue
		}
		prices = append(prices, model.Price{
			ID:           uuid.New().String(),
			InstrumentID: instrumentID,
			Date:         day,
			Price:        ind.PriceClose,
			Granularity:  model.GranularityDaily,
		})
	}
	return prices
}
