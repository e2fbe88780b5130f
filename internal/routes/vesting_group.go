package routes

import (
	"vestingledger/internal/handlers"
	"vestingledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVestingGroupRoutes sets up all routes related to the group registry
func SetupVestingGroupRoutes(r *gin.Engine) {
	groups := r.Group("/vesting-groups")
	{
		groups.PUT("", middleware.RequireOwner(), handlers.ReplaceVestingGroups)
		groups.GET("", handlers.ListVestingGroups)
	}
}
