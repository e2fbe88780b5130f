package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupInvestorRoutes sets up all routes related to investor records
func SetupInvestorRoutes(r *gin.Engine) {
	investors := r.Group("/investors")
	{
		investors.POST("/batch", middleware.RequireOwner(), handlers.UpsertInvestors)
		investors.GET("", handlers.ListInvestors)
		investors.GET("/:account", handlers.GetInvestor)
		investors.GET("/:account/claimable", handlers.GetClaimable)
	}
}
