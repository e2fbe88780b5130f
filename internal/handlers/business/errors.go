package business

import (
	"errors"
)

// Sentinel errors for every failure kind the ledger can produce. Handlers
// map these to HTTP statuses; callers wrap them with fmt.Errorf("%w: ...")
// to attach detail.
var (
	ErrNotInitialized          = errors.New("ledger not initialized")
	ErrAlreadyInitialized      = errors.New("ledger already initialized")
	ErrInvalidGroupConfig      = errors.New("invalid group config")
	ErrInvalidInitialClaim     = errors.New("invalid initial claim config")
	ErrUnknownGroup            = errors.New("unknown group")
	ErrInvalidInvestorEntry    = errors.New("invalid investor entry")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrMissingMinimalDeposit   = errors.New("missing minimal deposit")
	ErrNoAllocation            = errors.New("no allocation for account")
	ErrNothingToClaim          = errors.New("nothing to claim")
	ErrInsufficientPoolBalance = errors.New("insufficient pool balance")
	ErrInvalidWithdrawAmount   = errors.New("invalid withdraw amount")
	ErrInvalidDepositAmount    = errors.New("invalid deposit amount")
	ErrTransferFailed          = errors.New("transfer failed")
)
