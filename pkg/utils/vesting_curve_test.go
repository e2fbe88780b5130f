package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const monthMs = int64(30 * 24 * 60 * 60 * 1000)

func TestVestedAmount(t *testing.T) {
	tge := int64(1700000000000)
	noOverlay := InitialClaimTerms{}

	t.Run("Zero Before Cliff", func(t *testing.T) {
		group := GroupTerms{CliffMs: 12 * monthMs, VestingMs: 12 * monthMs}
		total := sdkmath.NewInt(1000)

		assert.True(t, VestedAmount(total, group, noOverlay, tge, tge).IsZero())
		assert.True(t, VestedAmount(total, group, noOverlay, tge, tge+12*monthMs-1).IsZero())
	})

	t.Run("Half At Vesting Midpoint", func(t *testing.T) {
		// 12 units, 12 month cliff, 12 month linear vesting, measured 6
		// months past the cliff.
		group := GroupTerms{CliffMs: 12 * monthMs, VestingMs: 12 * monthMs}
		total := sdkmath.NewInt(12)

		now := tge + 12*monthMs + 6*monthMs
		vested := VestedAmount(total, group, noOverlay, tge, now)
		assert.Equal(t, int64(6), vested.Int64())
	})

	t.Run("Full At And After Vesting End", func(t *testing.T) {
		group := GroupTerms{CliffMs: monthMs, VestingMs: 12 * monthMs}
		total := sdkmath.NewInt(999999999)

		end := tge + monthMs + 12*monthMs
		assert.True(t, VestedAmount(total, group, noOverlay, tge, end).Equal(total))
		assert.True(t, VestedAmount(total, group, noOverlay, tge, end+monthMs).Equal(total))
	})

	t.Run("Zero Vesting Duration Unlocks Everything At Cliff", func(t *testing.T) {
		group := GroupTerms{CliffMs: monthMs, VestingMs: 0}
		total := sdkmath.NewInt(777)

		assert.True(t, VestedAmount(total, group, noOverlay, tge, tge+monthMs-1).IsZero())
		assert.True(t, VestedAmount(total, group, noOverlay, tge, tge+monthMs).Equal(total))
	})

	t.Run("Instant Unlock At Cliff", func(t *testing.T) {
		// 10% instant unlock, 50 units: exactly 5 right at the cliff, no
		// linear accrual yet.
		group := GroupTerms{CliffMs: monthMs, VestingMs: 12 * monthMs, InitialUnlockBps: 1000}
		total := sdkmath.NewInt(50)

		vested := VestedAmount(total, group, noOverlay, tge, tge+monthMs)
		assert.Equal(t, int64(5), vested.Int64())

		// Shortly after the cliff the accrual is still only a sliver.
		vested = VestedAmount(total, group, noOverlay, tge, tge+monthMs+monthMs/10)
		assert.GreaterOrEqual(t, vested.Int64(), int64(5))
		assert.LessOrEqual(t, vested.Int64(), int64(10))
	})

	t.Run("Overlay Unlocks Before Cliff", func(t *testing.T) {
		group := GroupTerms{CliffMs: 12 * monthMs, VestingMs: 12 * monthMs}
		overlay := InitialClaimTerms{Bps: 2500, AvailableAtMs: tge + monthMs}
		total := sdkmath.NewInt(1000)

		// Before the overlay timestamp nothing is unlocked.
		assert.True(t, VestedAmount(total, group, overlay, tge, tge).IsZero())

		// After it, 25% is unlocked even though the cliff is far away.
		vested := VestedAmount(total, group, overlay, tge, tge+monthMs)
		assert.Equal(t, int64(250), vested.Int64())
	})

	t.Run("Zero Bps Overlay Is A No-Op", func(t *testing.T) {
		group := GroupTerms{CliffMs: monthMs, VestingMs: 12 * monthMs, InitialUnlockBps: 500}
		disabled := InitialClaimTerms{Bps: 0, AvailableAtMs: tge}
		total := sdkmath.NewInt(123456789)

		for _, offset := range []int64{0, monthMs, 3 * monthMs, 13 * monthMs, 30 * monthMs} {
			now := tge + offset
			withOverlay := VestedAmount(total, group, disabled, tge, now)
			without := VestedAmount(total, group, noOverlay, tge, now)
			assert.True(t, withOverlay.Equal(without), "offset %d", offset)
		}
	})

	t.Run("Division Truncates Toward Zero", func(t *testing.T) {
		group := GroupTerms{CliffMs: 0, VestingMs: 3}
		total := sdkmath.NewInt(10)

		// elapsed=1 of 3: floor(10/3) = 3
		vested := VestedAmount(total, group, noOverlay, tge, tge+1)
		assert.Equal(t, int64(3), vested.Int64())
	})

	t.Run("Amounts Beyond 64 Bits", func(t *testing.T) {
		total, ok := sdkmath.NewIntFromString("340282366920938463463374607431768211455")
		require.True(t, ok)

		group := GroupTerms{CliffMs: 0, VestingMs: 2 * monthMs}
		vested := VestedAmount(total, group, noOverlay, tge, tge+monthMs)
		expected := total.QuoRaw(2)
		assert.True(t, vested.Equal(expected))
	})

	t.Run("Non-Positive Total", func(t *testing.T) {
		group := GroupTerms{CliffMs: 0, VestingMs: 0}
		assert.True(t, VestedAmount(sdkmath.ZeroInt(), group, noOverlay, tge, tge+monthMs).IsZero())
	})
}

func TestClaimableAmount(t *testing.T) {
	tge := int64(1700000000000)
	group := GroupTerms{CliffMs: monthMs, VestingMs: 12 * monthMs}
	noOverlay := InitialClaimTerms{}

	t.Run("Subtracts Already Claimed", func(t *testing.T) {
		total := sdkmath.NewInt(1200)
		claimed := sdkmath.NewInt(100)

		now := tge + monthMs + 6*monthMs
		claimable := ClaimableAmount(total, claimed, group, noOverlay, tge, now)
		assert.Equal(t, int64(500), claimable.Int64())
	})

	t.Run("Never Negative", func(t *testing.T) {
		total := sdkmath.NewInt(1200)
		claimed := sdkmath.NewInt(1200)

		now := tge + monthMs + monthMs
		claimable := ClaimableAmount(total, claimed, group, noOverlay, tge, now)
		assert.True(t, claimable.IsZero())
	})

	t.Run("Full Unlock Pays Out Remainder Exactly", func(t *testing.T) {
		total := sdkmath.NewInt(997)
		claimed := sdkmath.NewInt(333)

		now := tge + monthMs + 12*monthMs
		claimable := ClaimableAmount(total, claimed, group, noOverlay, tge, now)
		assert.Equal(t, int64(664), claimable.Int64())
	})
}
