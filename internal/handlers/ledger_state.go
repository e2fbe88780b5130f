package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/middleware"
	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// InitLedger initializes the ledger exactly once: owner, token service,
// global schedule overlay and the initial group registry.
func InitLedger(c *gin.Context) {
	var request business.InitInput
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := c.GetHeader(middleware.HeaderCallerAccount)
	state, err := business.InitLedger(dbconfig.DB, caller, request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// InitialClaimRequest updates the global overlay; at least one field must be
// supplied.
type InitialClaimRequest struct {
	Bps           *int64 `json:"bps"`
	AvailableAtMs *int64 `json:"available_at_ms"`
}

// ConfigureInitialClaim adjusts the global initial-claim overlay.
func ConfigureInitialClaim(c *gin.Context) {
	var request InitialClaimRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := business.ConfigureInitialClaim(dbconfig.DB, request.Bps, request.AvailableAtMs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetLedgerState returns the full observable state: configuration, pool
// counters, and the group registry.
func GetLedgerState(c *gin.Context) {
	var state models.LedgerState
	if err := dbconfig.DB.First(&state, models.LedgerStateID).Error; err != nil {
		respondError(c, business.ErrNotInitialized)
		return
	}

	var groups []models.VestingGroup
	if err := dbconfig.DB.Order("group_id").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	groupMap := make(map[string]models.VestingGroup, len(groups))
	for _, g := range groups {
		groupMap[g.GroupID] = g
	}

	c.JSON(http.StatusOK, gin.H{
		"state":  state,
		"groups": groupMap,
	})
}
