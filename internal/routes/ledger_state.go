package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLedgerStateRoutes sets up all routes related to ledger initialization and state
func SetupLedgerStateRoutes(r *gin.Engine) {
	ledger := r.Group("/ledger")
	{
		ledger.POST("/init", handlers.InitLedger)
		ledger.PUT("/initial-claim", middleware.RequireOwner(), handlers.ConfigureInitialClaim)
		ledger.GET("/state", handlers.GetLedgerState)
	}
}
