package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mercatto/loja-api/internal/domain/auth"
)

// apiKeyHeader carries the client's API key on mutating requests.
const apiKeyHeader = "X-API-Key"

// KeyAuthorizer authenticates API requests via HMAC-SHA256 hashed API keys and
// enforces per-endpoint scopes.
type KeyAuthorizer struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewKeyAuthorizer creates a KeyAuthorizer with the given API key repository
// and HMAC pepper.
func NewKeyAuthorizer(apikeys auth.Repository, pepper []byte) *KeyAuthorizer {
	return &KeyAuthorizer{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// RequireScope returns a middleware that authenticates the request's API key
// and checks it carries the given scope. The key is hashed with HMAC-SHA256
// and compared in constant time to resist timing side-channels.
func (a *KeyAuthorizer) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			errorResponse(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		mac := hmac.New(sha256.New, a.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := a.apikeys.FindByHash(c.Request.Context(), hex.EncodeToString(hash))
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Compare the stored hash in constant time; the lookup alone does
		// not prove the hashes match.
		storedBytes, err := hex.DecodeString(info.KeyHash)
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
			errorResponse(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !info.HasScope(scope) {
			errorResponse(c, http.StatusForbidden, "missing scope "+scope)
			return
		}

		c.Next()
	}
}
