package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/pip-tracker/pip-backend/internal/api/response"
)

// timeTokenTTL is how long a generated time token stays valid.
const timeTokenTTL = 5 * time.Minute

var timeTokenPayload = []byte("pip-internal")

// timeTokenKey derives the fernet key of the time token from the API key.
func timeTokenKey(apiKey string) *fernet.Key {
	k := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &k
}

// GenerateTimeToken returns a short-lived token proving knowledge of apiKey.
// It is sent as X-Time-Token next to X-API-Key.
func GenerateTimeToken(apiKey string) string {
	tok, err := fernet.EncryptAndSign(timeTokenPayload, timeTokenKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// APIKeyMiddleware guards internal endpoints. Requests need the INTERNAL_API_KEY
// in X-API-Key and a token from GenerateTimeToken, younger than five minutes,
// in X-Time-Token.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := os.Getenv("INTERNAL_API_KEY")
		if apiKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
			return
		}

		provided := r.Header.Get("X-API-Key")
		if provided == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		token := r.Header.Get("X-Time-Token")
		if token == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		msg := fernet.VerifyAndDecrypt([]byte(token), timeTokenTTL, []*fernet.Key{timeTokenKey(apiKey)})
		if subtle.ConstantTimeCompare(msg, timeTokenPayload) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
