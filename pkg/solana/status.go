package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"vestingledger/internal/models"
)

// Status looks up a submitted transfer by signature and maps the cluster's
// view of it to a ledger outcome. A signature the cluster has dropped from
// its recent history without confirming is reported as failed so the ledger
// can compensate.
func (tc *TreasuryClient) Status(ctx context.Context, signature string) (models.TransferOutcome, string, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return models.TransferOutcomePending, "", fmt.Errorf("invalid signature %q: %w", signature, err)
	}

	resp, err := tc.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return models.TransferOutcomePending, "", fmt.Errorf("get signature statuses error: %w", err)
	}
	if len(resp.Value) == 0 || resp.Value[0] == nil {
		// Not found with history search enabled: expired before landing.
		return models.TransferOutcomeFailed, "transaction expired without confirmation", nil
	}

	status := resp.Value[0]
	if status.Err != nil {
		return models.TransferOutcomeFailed, fmt.Sprintf("transaction failed: %v", status.Err), nil
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized, rpc.ConfirmationStatusConfirmed:
		return models.TransferOutcomeSuccess, "", nil
	default:
		return models.TransferOutcomePending, "", nil
	}
}
