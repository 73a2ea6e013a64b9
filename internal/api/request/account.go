package request

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
