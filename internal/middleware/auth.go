package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/models"
)

// Request headers installed by the hosting gateway. The gateway
// authenticates callers; this service only consumes the resulting identity.
const (
	HeaderAPIKey          = "X-Api-Key"
	HeaderCallerAccount   = "X-Caller-Account"
	HeaderAttachedDeposit = "X-Attached-Deposit"
)

// ContextCallerKey is the gin context key holding the caller account.
const ContextCallerKey = "caller_account"

func keyMatches(c *gin.Context, envVar string) bool {
	expected := os.Getenv(envVar)
	if expected == "" {
		return false
	}
	provided := c.GetHeader(HeaderAPIKey)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// IsOwnerRequest reports whether the request carries the administrator key.
// Handlers that accept both investor and owner calls use it directly.
func IsOwnerRequest(c *gin.Context) bool {
	return keyMatches(c, "ADMIN_API_KEY")
}

// RequireOwner guards administrator-only operations.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsOwnerRequest(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized: owner only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTokenService guards the deposit notification endpoint: only the
// configured token service identity may call it.
func RequireTokenService() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !keyMatches(c, "TOKEN_SERVICE_API_KEY") {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized: token service only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCaller requires an authenticated caller account and stores it in
// the context. Owner requests may omit it when acting on behalf of an
// explicit account.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetHeader(HeaderCallerAccount)
		if caller == "" && !IsOwnerRequest(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: missing caller identity"})
			c.Abort()
			return
		}
		c.Set(ContextCallerKey, caller)
		c.Next()
	}
}

// CallerAccount returns the caller stored by RequireCaller.
func CallerAccount(c *gin.Context) string {
	v, ok := c.Get(ContextCallerKey)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequireMinimalDeposit enforces the nonzero-but-minimal payment convention
// attached to value-moving calls. It deters accidental or cross-call
// invocation; it is not a fee.
func RequireMinimalDeposit() gin.HandlerFunc {
	return func(c *gin.Context) {
		minimum := os.Getenv("MINIMAL_ATTACHED_DEPOSIT")
		if minimum == "" {
			minimum = "1"
		}
		required, err := models.AmountFromString(minimum)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid MINIMAL_ATTACHED_DEPOSIT configuration"})
			c.Abort()
			return
		}

		attached, err := models.AmountFromString(c.GetHeader(HeaderAttachedDeposit))
		if err != nil || attached.Cmp(required) < 0 {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "missing minimal deposit"})
			c.Abort()
			return
		}
		c.Next()
	}
}
