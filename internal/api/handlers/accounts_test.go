package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/api/handlers"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/testutil"
)

func TestAccountHandler(t *testing.T) {
	t.Run("creates and lists accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewAccountHandler(testutil.NewTestAccountService(t, db))

		w := httptest.NewRecorder()
		handler.CreateAccount(w, postJSON("/api/accounts", `{"name":"Broker","description":"main"}`))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.NewRecorder()
		handler.CreateAccount(w, postJSON("/api/accounts", `{"name":"Broker"}`))
		assert.Equal(t, http.StatusConflict, w.Code)

		w = httptest.NewRecorder()
		handler.Accounts(w, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var accounts []model.Account
		require.NoError(t, json.NewDecoder(w.Body).Decode(&accounts))
		assert.Len(t, accounts, 1)
	})

	t.Run("reserved account name is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewAccountHandler(testutil.NewTestAccountService(t, db))

		w := httptest.NewRecorder()
		handler.CreateAccount(w, postJSON("/api/accounts", `{"name":"All"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("instrument with a bad ISIN is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewAccountHandler(testutil.NewTestAccountService(t, db))

		w := httptest.NewRecorder()
		handler.CreateInstrument(w, postJSON("/api/instruments",
			`{"isin":"US0378331006","name":"Apple","category":"acc","currency":"USD"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("creates an instrument", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewAccountHandler(testutil.NewTestAccountService(t, db))

		w := httptest.NewRecorder()
		handler.CreateInstrument(w, postJSON("/api/instruments",
			`{"isin":"US0378331005","ticker":"AAPL","name":"Apple","category":"acc","currency":"usd"}`))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.NewRecorder()
		handler.Instruments(w, httptest.NewRequest(http.MethodGet, "/api/instruments", nil))
		var instruments []model.Instrument
		require.NoError(t, json.NewDecoder(w.Body).Decode(&instruments))
		require.Len(t, instruments, 1)
		assert.Equal(t, "USD", instruments[0].Currency)
	})
}
