package solana

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/memo"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"vestingledger/internal/models"
)

// TreasuryClient submits SPL transfers out of the pool treasury and reports
// their asynchronous outcomes. It satisfies business.TokenTransferor.
type TreasuryClient struct {
	client   *rpc.Client
	treasury solana.PrivateKey
	mint     solana.PublicKey
}

// NewTreasuryClient builds a client for one treasury key and mint.
func NewTreasuryClient(rpcEndpoint string, treasury solana.PrivateKey, mint solana.PublicKey) *TreasuryClient {
	return &TreasuryClient{
		client:   rpc.New(rpcEndpoint),
		treasury: treasury,
		mint:     mint,
	}
}

// NewTreasuryClientFromEnv wires the client from DEFAULT_SOLANA_RPC,
// TOKEN_MINT and the encrypted treasury keystore.
func NewTreasuryClientFromEnv() (*TreasuryClient, error) {
	rpcEndpoint := os.Getenv("DEFAULT_SOLANA_RPC")
	if rpcEndpoint == "" {
		return nil, fmt.Errorf("DEFAULT_SOLANA_RPC not configured")
	}
	mintStr := os.Getenv("TOKEN_MINT")
	if mintStr == "" {
		return nil, fmt.Errorf("TOKEN_MINT not configured")
	}
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_MINT: %w", err)
	}

	km := NewKeyManager()
	treasury, err := km.LoadTreasuryKey(
		os.Getenv("TREASURY_KEYSTORE"),
		os.Getenv("TREASURY_KEYSTORE_PASSWORD"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load treasury key: %w", err)
	}

	return NewTreasuryClient(rpcEndpoint, treasury, mint), nil
}

// TreasuryAddress returns the treasury's public key.
func (tc *TreasuryClient) TreasuryAddress() solana.PublicKey {
	return tc.treasury.PublicKey()
}

// Transfer submits an SPL transfer of amount to recipient's associated token
// account, creating it when missing, and returns the transaction signature.
// The on-chain outcome is not known yet when Transfer returns.
func (tc *TreasuryClient) Transfer(ctx context.Context, recipient string, amount models.Amount, memoText string) (string, error) {
	if !amount.Int.IsUint64() {
		// SPL token amounts are u64; anything larger can never settle.
		return "", fmt.Errorf("amount %s exceeds u64 token range", amount)
	}
	lamports := amount.Int.Uint64()

	recipientPubkey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}

	treasuryPubkey := tc.treasury.PublicKey()
	sourceATA, _, err := solana.FindAssociatedTokenAddress(treasuryPubkey, tc.mint)
	if err != nil {
		return "", err
	}
	targetATA, _, err := solana.FindAssociatedTokenAddress(recipientPubkey, tc.mint)
	if err != nil {
		return "", err
	}

	var instructions []solana.Instruction
	targetInfo, _ := tc.client.GetAccountInfo(ctx, targetATA)
	if targetInfo == nil || targetInfo.Value == nil {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(treasuryPubkey, recipientPubkey, tc.mint).Build())
	}
	instructions = append(instructions,
		token.NewTransferInstruction(lamports, sourceATA, targetATA, treasuryPubkey, nil).Build())
	if memoText != "" {
		instructions = append(instructions,
			memo.NewMemoInstruction([]byte(memoText), treasuryPubkey).Build())
	}

	bh, err := tc.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("get blockhash error: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, bh.Value.Blockhash, solana.TransactionPayer(treasuryPubkey))
	if err != nil {
		return "", err
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(treasuryPubkey) {
			return &tc.treasury
		}
		return nil
	}); err != nil {
		return "", err
	}

	sig, err := tc.client.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"signature": sig.String(),
		"recipient": recipient,
		"amount":    amount.String(),
	}).Info("Submitted treasury transfer")
	return sig.String(), nil
}

// WaitForOutcome polls Status until the transfer is final or ctx expires.
// Used by the worker as a fallback when the websocket stream drops.
func (tc *TreasuryClient) WaitForOutcome(ctx context.Context, signature string, interval time.Duration) (models.TransferOutcome, string, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		outcome, reason, err := tc.Status(ctx, signature)
		if err == nil && outcome != models.TransferOutcomePending {
			return outcome, reason, nil
		}
		select {
		case <-ctx.Done():
			return models.TransferOutcomePending, "", ctx.Err()
		case <-ticker.C:
		}
	}
}
