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

func TestPriceHandler(t *testing.T) {
	t.Run("refresh then list latest prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewInstrument().WithTicker("AAA").Build(t, db)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceServiceWithMockYahoo(t, db, testutil.NewMockYahooClient()))

		w := httptest.NewRecorder()
		handler.RefreshPrices(w, httptest.NewRequest(http.MethodPost, "/api/prices/refresh", nil))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result model.PriceRefreshResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.True(t, result.Success)

		w = httptest.NewRecorder()
		handler.LatestPrices(w, httptest.NewRequest(http.MethodGet, "/api/prices/latest", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var latest []model.LatestPrice
		require.NoError(t, json.NewDecoder(w.Body).Decode(&latest))
		assert.Len(t, latest, 1)
	})

	t.Run("history validates its body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceServiceWithMockYahoo(t, db, testutil.NewMockYahooClient()))

		w := httptest.NewRecorder()
		handler.LoadHistory(w, postJSON("/api/prices/history", `{"instrumentId":"x","days":0}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("history of an unknown instrument is not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewPriceHandler(testutil.NewTestPriceServiceWithMockYahoo(t, db, testutil.NewMockYahooClient()))

		w := httptest.NewRecorder()
		handler.LoadHistory(w, postJSON("/api/prices/history", `{"instrumentId":"`+testutil.MakeID()+`","days":5}`))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
