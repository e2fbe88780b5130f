package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// WithdrawRequest moves surplus pool funds out of the treasury. Recipient
// defaults to the owner.
type WithdrawRequest struct {
	Amount    models.Amount `json:"amount"`
	Recipient string        `json:"recipient"`
	Memo      string        `json:"memo"`
}

// CreateWithdrawal runs the withdraw protocol (owner only).
func CreateWithdrawal(c *gin.Context) {
	var request WithdrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if transferor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token service not configured"})
		return
	}

	pending, err := business.Withdraw(dbconfig.DB, transferor, publisher, request.Amount, request.Recipient, request.Memo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, pending)
}
