package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/api/handlers"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/testutil"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestTradeHandler_CreateTrade tests trade creation over HTTP.
//
// WHY: Status codes distinguish client mistakes (400), missing reference data
// (404) and a sell the position cannot cover (409).
func TestTradeHandler_CreateTrade(t *testing.T) {
	setup := func(t *testing.T) (*handlers.TradeHandler, model.Account, model.Instrument) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		account := testutil.CreateAccount(t, db, "Broker")
		instrument := testutil.CreateInstrument(t, db, "EUR")
		return handlers.NewTradeHandler(testutil.NewTestTradeService(t, db)), account, instrument
	}

	body := func(accountID, instrumentID, side string, qty string) string {
		return `{"accountId":"` + accountID + `","instrumentId":"` + instrumentID +
			`","date":"2024-01-02","type":"` + side + `","quantity":` + qty + `,"price":"10.5"}`
	}

	t.Run("creates a buy", func(t *testing.T) {
		handler, account, instrument := setup(t)

		w := httptest.NewRecorder()
		handler.CreateTrade(w, postJSON("/api/trades", body(account.ID, instrument.ID, "buy", "3")))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var trade model.Trade
		require.NoError(t, json.NewDecoder(w.Body).Decode(&trade))
		assert.Equal(t, int64(3), trade.Quantity)
		assert.Equal(t, "10.5", trade.Price.String())
	})

	t.Run("oversell is a conflict", func(t *testing.T) {
		handler, account, instrument := setup(t)

		w := httptest.NewRecorder()
		handler.CreateTrade(w, postJSON("/api/trades", body(account.ID, instrument.ID, "sell", "1")))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation errors list the fields", func(t *testing.T) {
		handler, account, _ := setup(t)

		w := httptest.NewRecorder()
		handler.CreateTrade(w, postJSON("/api/trades", body(account.ID, "nope", "hold", "0")))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp struct {
			Details map[string]string `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Details, "instrumentId")
		assert.Contains(t, resp.Details, "type")
		assert.Contains(t, resp.Details, "quantity")
	})

	t.Run("unknown instrument is not found", func(t *testing.T) {
		handler, account, _ := setup(t)

		w := httptest.NewRecorder()
		handler.CreateTrade(w, postJSON("/api/trades", body(account.ID, testutil.MakeID(), "buy", "1")))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		handler, _, _ := setup(t)

		w := httptest.NewRecorder()
		handler.CreateTrade(w, postJSON("/api/trades", `{"quantity":"many"`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTradeHandler_Trades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	account := testutil.CreateAccount(t, db, "Broker")
	position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
	testutil.NewTrade(position.ID).Build(t, db)
	handler := handlers.NewTradeHandler(testutil.NewTestTradeService(t, db))

	req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/trades", map[string]string{"account_name": "Broker"})
	w := httptest.NewRecorder()
	handler.Trades(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var trades []model.TradeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&trades))
	require.Len(t, trades, 1)
	assert.Equal(t, "Broker", trades[0].AccountName)
}
