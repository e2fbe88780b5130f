package utils

import (
	sdkmath "cosmossdk.io/math"
)

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10000

// GroupTerms is one vesting group's schedule. Durations are Unix
// milliseconds relative to the TGE timestamp.
type GroupTerms struct {
	CliffMs          int64
	VestingMs        int64
	InitialUnlockBps int64
}

// InitialClaimTerms is the global schedule overlay: a percentage of every
// allocation unlocked for all investors once AvailableAtMs is reached,
// independent of the group cliff.
type InitialClaimTerms struct {
	Bps           int64
	AvailableAtMs int64
}

// portionByBps computes floor(total * bps / 10000), capped at limit.
func portionByBps(total sdkmath.Int, bps int64, limit sdkmath.Int) sdkmath.Int {
	if bps <= 0 {
		return sdkmath.ZeroInt()
	}
	p := total.MulRaw(bps).QuoRaw(BpsDenominator)
	if p.GT(limit) {
		return limit
	}
	return p
}

// VestedAmount returns how much of total has unlocked at nowMs.
//
// The unlocked amount is the sum of three portions:
//  1. the global initial-claim overlay, once overlay.AvailableAtMs passes;
//  2. the group's instant post-cliff unlock, once tge+cliff passes;
//  3. linear accrual of the remainder over VestingMs after the cliff.
//
// All division truncates toward zero.
func VestedAmount(total sdkmath.Int, group GroupTerms, overlay InitialClaimTerms, tgeMs, nowMs int64) sdkmath.Int {
	if !total.IsPositive() {
		return sdkmath.ZeroInt()
	}

	initialPortion := sdkmath.ZeroInt()
	if nowMs >= overlay.AvailableAtMs {
		initialPortion = portionByBps(total, overlay.Bps, total)
	}

	cliffAtMs := tgeMs + group.CliffMs
	if nowMs < cliffAtMs {
		return initialPortion
	}

	remaining := total.Sub(initialPortion)
	postCliffPortion := portionByBps(total, group.InitialUnlockBps, remaining)

	if group.VestingMs == 0 {
		// Everything left unlocks at the cliff.
		return total
	}

	elapsedMs := nowMs - cliffAtMs
	if elapsedMs >= group.VestingMs {
		return total
	}

	linearBase := total.Sub(initialPortion).Sub(postCliffPortion)
	accrued := linearBase.MulRaw(elapsedMs).QuoRaw(group.VestingMs)
	return initialPortion.Add(postCliffPortion).Add(accrued)
}

// ClaimableAmount returns max(0, vested - claimed) at nowMs.
func ClaimableAmount(total, claimed sdkmath.Int, group GroupTerms, overlay InitialClaimTerms, tgeMs, nowMs int64) sdkmath.Int {
	vested := VestedAmount(total, group, overlay, tgeMs, nowMs)
	if vested.LTE(claimed) {
		return sdkmath.ZeroInt()
	}
	return vested.Sub(claimed)
}
