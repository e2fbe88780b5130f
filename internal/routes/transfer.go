package routes

import (
	"vestingledger/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTransferRoutes sets up the transfer audit read surface
func SetupTransferRoutes(r *gin.Engine) {
	transfers := r.Group("/transfers")
	{
		transfers.GET("", handlers.ListTransfers)
		transfers.GET("/:id", handlers.GetTransfer)
	}
}
