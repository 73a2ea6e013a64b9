package model

// Instrument represents a tradable security. Every instrument is priced in
// its own currency; amounts are never converted between currencies.
type Instrument struct {
	ID          string `json:"id"`
	ISIN        string `json:"isin"`
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	NameLong    string `json:"nameLong,omitempty"`
	Category    string `json:"category,omitempty"` // acc or dist
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency"`
}
