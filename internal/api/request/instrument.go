package request

// CreateInstrumentRequest represents the request body for creating an instrument
type CreateInstrumentRequest struct {
	ISIN        string `json:"isin"`
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	NameLong    string `json:"nameLong"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}
