package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vestingledger/internal/handlers/business"
	"vestingledger/internal/models"
	dbconfig "vestingledger/pkg/config"
)

// DepositRequest is the token service's notification of an inbound transfer.
type DepositRequest struct {
	Sender string        `json:"sender" binding:"required"`
	Amount models.Amount `json:"amount"`
	Memo   string        `json:"memo"`
}

// NotifyDeposit handles the funding hook. The ledger always accepts the full
// deposit; the acknowledgement reports a refused amount of zero.
func NotifyDeposit(c *gin.Context) {
	var request DepositRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := business.Deposit(dbconfig.DB, request.Sender, request.Amount, request.Memo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deposit":        record,
		"refused_amount": models.ZeroAmount(),
	})
}

// ListDeposits returns the deposit audit log, newest first.
func ListDeposits(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 1000 {
		limit = 100
	}

	var deposits []models.DepositRecord
	if err := dbconfig.DB.Order("id desc").Limit(limit).Find(&deposits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, deposits)
}
