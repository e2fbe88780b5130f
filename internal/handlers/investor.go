package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// InvestorBatchRequest carries a batch allocation upsert.
type InvestorBatchRequest struct {
	Entries []business.InvestorInput `json:"entries" binding:"required"`
}

// UpsertInvestors applies a batch of allocation assignments all-or-nothing.
func UpsertInvestors(c *gin.Context) {
	var request InvestorBatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := business.UpsertInvestors(dbconfig.DB, request.Entries); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upserted": len(request.Entries)})
}

// GetInvestor returns one account's record, or 404 when absent.
func GetInvestor(c *gin.Context) {
	account := c.Param("account")
	var rec models.InvestorRecord
	if err := dbconfig.DB.Where("account = ?", account).First(&rec).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetClaimable returns the account's currently claimable amount. Unknown
// accounts and accounts referencing a removed group yield "0".
func GetClaimable(c *gin.Context) {
	account := c.Param("account")
	claimable, err := business.Claimable(dbconfig.DB, account, time.Now().UnixMilli())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account":   account,
		"claimable": claimable,
	})
}

// ListInvestors returns a paginated list of investor records.
func ListInvestors(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if err != nil || pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var totalCount int64
	if err := dbconfig.DB.Model(&models.InvestorRecord{}).Count(&totalCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var investors []models.InvestorRecord
	if err := dbconfig.DB.Order("account").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&investors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": investors,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total_count": totalCount,
		},
	})
}
