package request

// LoadPriceHistoryRequest represents the request body for backfilling prices
// of one instrument.
type LoadPriceHistoryRequest struct {
	InstrumentID string `json:"instrumentId"`
	Days         int    `json:"days"`
}
