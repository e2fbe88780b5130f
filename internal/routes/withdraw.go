package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWithdrawRoutes sets up the withdraw protocol entry point
func SetupWithdrawRoutes(r *gin.Engine) {
	withdrawals := r.Group("/withdrawals")
	withdrawals.Use(middleware.ClaimRateLimiter())
	{
		withdrawals.POST("", middleware.RequireOwner(), middleware.RequireMinimalDeposit(), handlers.CreateWithdrawal)
	}
}
