package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vestingledger/internal/handlers/business"
)

// transferor and publisher are wired once at startup by the api binary.
var (
	transferor business.TokenTransferor
	publisher  business.EventPublisher
)

// SetTransferor installs the token service client used by claim/withdraw.
func SetTransferor(t business.TokenTransferor) {
	transferor = t
}

// SetPublisher installs the resolution event publisher (may stay nil).
func SetPublisher(p business.EventPublisher) {
	publisher = p
}

// statusFor maps business sentinels to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, business.ErrNotInitialized),
		errors.Is(err, business.ErrAlreadyInitialized),
		errors.Is(err, business.ErrInsufficientPoolBalance):
		return http.StatusConflict
	case errors.Is(err, business.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, business.ErrMissingMinimalDeposit):
		return http.StatusPaymentRequired
	case errors.Is(err, business.ErrNoAllocation),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, business.ErrInvalidGroupConfig),
		errors.Is(err, business.ErrInvalidInitialClaim),
		errors.Is(err, business.ErrUnknownGroup),
		errors.Is(err, business.ErrInvalidInvestorEntry),
		errors.Is(err, business.ErrNothingToClaim),
		errors.Is(err, business.ErrInvalidWithdrawAmount),
		errors.Is(err, business.ErrInvalidDepositAmount):
		return http.StatusBadRequest
	case errors.Is(err, business.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
