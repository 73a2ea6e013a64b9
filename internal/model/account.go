package model

// Account represents a brokerage or custody account holding positions.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
