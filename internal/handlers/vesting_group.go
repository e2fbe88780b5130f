package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// GroupsRequest carries a whole-registry replacement.
type GroupsRequest struct {
	Groups []business.GroupInput `json:"groups" binding:"required"`
}

// ReplaceVestingGroups replaces the entire group registry atomically. On any
// validation failure the registry is left unchanged.
func ReplaceVestingGroups(c *gin.Context) {
	var request GroupsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := business.ReplaceVestingGroups(dbconfig.DB, request.Groups); err != nil {
		respondError(c, err)
		return
	}

	var groups []models.VestingGroup
	if err := dbconfig.DB.Order("group_id").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groups)
}

// ListVestingGroups returns the current registry.
func ListVestingGroups(c *gin.Context) {
	var groups []models.VestingGroup
	if err := dbconfig.DB.Order("group_id").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, groups)
}
