package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/middleware"
	dbconfig "vestingledger/pkg/config"
)

// ClaimRequest optionally names an account to claim for. Only the owner may
// claim on behalf of another account; an investor call claims for itself.
type ClaimRequest struct {
	Account string `json:"account"`
}

// CreateClaim runs the claim protocol: deduct the claimable amount, record
// the pending transfer, then submit the treasury transfer. The response
// carries the pending transfer; its final status arrives asynchronously.
func CreateClaim(c *gin.Context) {
	var request ClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	caller := middleware.CallerAccount(c)
	target := caller
	if request.Account != "" && request.Account != caller {
		if !middleware.IsOwnerRequest(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized: only the owner may claim for another account"})
			return
		}
		target = request.Account
	}
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no account to claim for"})
		return
	}

	if transferor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token service not configured"})
		return
	}

	pending, err := business.Claim(dbconfig.DB, transferor, publisher, target, time.Now().UnixMilli())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, pending)
}
