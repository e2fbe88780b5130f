package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// ListTransfers returns the pending-transfer audit log, newest first, with
// an optional status filter.
func ListTransfers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 1000 {
		limit = 100
	}

	query := dbconfig.DB.Order("id desc").Limit(limit)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var transfers []models.PendingTransfer
	if err := query.Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// GetTransfer returns one transfer by id.
func GetTransfer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var transfer models.PendingTransfer
	if err := dbconfig.DB.First(&transfer, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, transfer)
}
