package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupClaimRoutes sets up the claim protocol entry point
func SetupClaimRoutes(r *gin.Engine) {
	claims := r.Group("/claims")
	claims.Use(middleware.ClaimRateLimiter())
	{
		claims.POST("", middleware.RequireCaller(), middleware.RequireMinimalDeposit(), handlers.CreateClaim)
	}
}
