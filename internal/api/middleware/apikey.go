package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/response"
)

// TimeTokenTTL is how long a time token generated by GenerateTimeToken stays valid.
const TimeTokenTTL = 5 * time.Minute

// Header names checked by the API key middleware.
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderTimeToken = "X-Time-Token"
)

// deriveKey turns the shared API key into a fernet key.
func deriveKey(apiKey string) *fernet.Key {
	k := fernet.Key(sha256.Sum256([]byte(apiKey)))
	return &k
}

// GenerateTimeToken returns a fernet token over the current time, signed with a key derived from apiKey.
// Returns an empty string if the token cannot be produced.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, deriveKey(apiKey))
	if err != nil {
		return ""
	}
	return string(tok)
}

// NewAPIKeyMiddleware protects a route with the shared API key and a fresh time token.
// Both headers are required: X-API-Key must equal apiKey and X-Time-Token must be a token
// from GenerateTimeToken no older than TimeTokenTTL.
func NewAPIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	keys := []*fernet.Key{deriveKey(apiKey)}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusInternalServerError, "authentication error", "Authentication not loaded")
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get(HeaderTimeToken)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, keys) == nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
