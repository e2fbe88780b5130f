package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type GroupPayload struct {
	GroupID          string `json:"group_id"`
	CliffMs          int64  `json:"cliff_ms"`
	VestingMs        int64  `json:"vesting_ms"`
	InitialUnlockBps int64  `json:"initial_unlock_bps"`
}

type InvestorPayload struct {
	Account string `json:"account"`
	GroupID string `json:"group_id"`
	Amount  string `json:"amount"`
}

type LedgerStateResponse struct {
	State struct {
		Initialized    bool   `json:"initialized"`
		Owner          string `json:"owner"`
		TokenServiceID string `json:"token_service_id"`
		TotalDeposited string `json:"total_deposited"`
		PoolBalance    string `json:"pool_balance"`
	} `json:"state"`
	Groups map[string]GroupPayload `json:"groups"`
}

func ownerHeaders() map[string]string {
	return map[string]string{"X-Api-Key": adminKey()}
}

func TestLedgerAPI(t *testing.T) {
	requireServer(t)

	account := fmt.Sprintf("investor-%d.test", time.Now().UnixNano())

	// Test Case 1: Health
	t.Run("Health", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// Test Case 2: Initialize Ledger (idempotent across runs: first run 201,
	// later runs 409)
	t.Run("Init Ledger", func(t *testing.T) {
		body := map[string]interface{}{
			"owner":            "admin.test",
			"token_service_id": "token.test",
			"tge_timestamp_ms": time.Now().UnixMilli(),
			"groups": []GroupPayload{
				{GroupID: "seed", CliffMs: 0, VestingMs: 86400000},
			},
		}
		resp := doJSON(t, http.MethodPost, "/ledger/init", body, ownerHeaders(), nil)
		assert.Contains(t, []int{http.StatusCreated, http.StatusConflict}, resp.StatusCode)
	})

	// Test Case 3: Replace Vesting Groups
	t.Run("Replace Vesting Groups", func(t *testing.T) {
		body := map[string]interface{}{
			"groups": []GroupPayload{
				{GroupID: "seed", CliffMs: 0, VestingMs: 86400000, InitialUnlockBps: 1000},
				{GroupID: "team", CliffMs: 86400000, VestingMs: 86400000},
			},
		}
		resp := doJSON(t, http.MethodPut, "/vesting-groups", body, ownerHeaders(), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Replace Vesting Groups Requires Owner", func(t *testing.T) {
		body := map[string]interface{}{
			"groups": []GroupPayload{{GroupID: "seed"}},
		}
		resp := doJSON(t, http.MethodPut, "/vesting-groups", body, nil, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Invalid Group Config Rejected", func(t *testing.T) {
		body := map[string]interface{}{
			"groups": []GroupPayload{
				{GroupID: "seed", InitialUnlockBps: 20000},
			},
		}
		resp := doJSON(t, http.MethodPut, "/vesting-groups", body, ownerHeaders(), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 4: Upsert Investors
	t.Run("Upsert Investors", func(t *testing.T) {
		body := map[string]interface{}{
			"entries": []InvestorPayload{
				{Account: account, GroupID: "seed", Amount: "1000000"},
			},
		}
		resp := doJSON(t, http.MethodPost, "/investors/batch", body, ownerHeaders(), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Upsert Rejects Unknown Group", func(t *testing.T) {
		body := map[string]interface{}{
			"entries": []InvestorPayload{
				{Account: account, GroupID: "no-such-group", Amount: "1"},
			},
		}
		resp := doJSON(t, http.MethodPost, "/investors/batch", body, ownerHeaders(), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 5: Read Back Investor And Claimable
	t.Run("Get Investor", func(t *testing.T) {
		var investor struct {
			Account         string `json:"account"`
			GroupID         string `json:"group_id"`
			TotalAllocation string `json:"total_allocation"`
			Claimed         string `json:"claimed"`
		}
		resp := doJSON(t, http.MethodGet, "/investors/"+account, nil, nil, &investor)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, account, investor.Account)
		assert.Equal(t, "1000000", investor.TotalAllocation)
		assert.Equal(t, "0", investor.Claimed)
	})

	t.Run("Get Claimable", func(t *testing.T) {
		var out struct {
			Account   string `json:"account"`
			Claimable string `json:"claimable"`
		}
		resp := doJSON(t, http.MethodGet, "/investors/"+account+"/claimable", nil, nil, &out)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, out.Claimable)
	})

	t.Run("Get Non-existent Investor", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, "/investors/no-such-account.test", nil, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	// Test Case 6: Deposit Notification
	t.Run("Deposit Requires Token Service Key", func(t *testing.T) {
		body := map[string]interface{}{
			"sender": "token.test",
			"amount": "500",
		}
		resp := doJSON(t, http.MethodPost, "/deposits", body, ownerHeaders(), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Deposit Accepted In Full", func(t *testing.T) {
		if tokenServiceKey() == "" {
			t.Skip("TOKEN_SERVICE_API_KEY not set")
		}
		body := map[string]interface{}{
			"sender": "token.test",
			"amount": "500",
			"memo":   "integration test deposit",
		}
		var out struct {
			RefusedAmount string `json:"refused_amount"`
		}
		resp := doJSON(t, http.MethodPost, "/deposits", body,
			map[string]string{"X-Api-Key": tokenServiceKey()}, &out)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "0", out.RefusedAmount)
	})

	// Test Case 7: Ledger State View
	t.Run("Get Ledger State", func(t *testing.T) {
		var state LedgerStateResponse
		resp := doJSON(t, http.MethodGet, "/ledger/state", nil, nil, &state)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, state.State.Initialized)
		assert.Contains(t, state.Groups, "seed")
	})

	// Test Case 8: Claim Guard Rails
	t.Run("Claim Requires Caller Identity", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/claims", nil,
			map[string]string{"X-Attached-Deposit": "1"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Claim Requires Minimal Deposit", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, "/claims", nil,
			map[string]string{"X-Caller-Account": account}, nil)
		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	})

	// Test Case 9: Withdraw Guard Rails
	t.Run("Withdraw Requires Owner", func(t *testing.T) {
		body := map[string]interface{}{"amount": "1"}
		resp := doJSON(t, http.MethodPost, "/withdrawals", body,
			map[string]string{"X-Attached-Deposit": "1"}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
