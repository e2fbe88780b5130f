package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDepositRoutes sets up the funding hook and deposit log
func SetupDepositRoutes(r *gin.Engine) {
	deposits := r.Group("/deposits")
	{
		deposits.POST("", middleware.RequireTokenService(), handlers.NotifyDeposit)
		deposits.GET("", handlers.ListDeposits)
	}
}
