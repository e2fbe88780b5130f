package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	t.Run("Parse And Arithmetic", func(t *testing.T) {
		a, err := AmountFromString("340282366920938463463374607431768211455")
		require.NoError(t, err)

		b := AmountFromInt64(1)
		sum := a.Add(b)
		assert.Equal(t, "340282366920938463463374607431768211456", sum.String())
		assert.True(t, sum.Sub(b).Cmp(a) == 0)

		_, err = AmountFromString("not-a-number")
		assert.Error(t, err)
	})

	t.Run("Zero Value Is Usable", func(t *testing.T) {
		var a Amount
		assert.True(t, a.IsZero())
		assert.False(t, a.IsPositive())
		assert.Equal(t, "0", a.String())
		assert.True(t, a.Add(AmountFromInt64(5)).Cmp(AmountFromInt64(5)) == 0)
	})

	t.Run("JSON Round Trip As String", func(t *testing.T) {
		a, err := AmountFromString("99999999999999999999999999")
		require.NoError(t, err)

		data, err := json.Marshal(a)
		require.NoError(t, err)
		assert.Equal(t, `"99999999999999999999999999"`, string(data))

		var back Amount
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Cmp(a) == 0)
	})

	t.Run("Database Scan And Value", func(t *testing.T) {
		a, err := AmountFromString("12345678901234567890")
		require.NoError(t, err)

		v, err := a.Value()
		require.NoError(t, err)
		assert.Equal(t, "12345678901234567890", v)

		var scanned Amount
		require.NoError(t, scanned.Scan("12345678901234567890"))
		assert.True(t, scanned.Cmp(a) == 0)

		require.NoError(t, scanned.Scan([]byte("42")))
		assert.Equal(t, "42", scanned.String())

		require.NoError(t, scanned.Scan(int64(7)))
		assert.Equal(t, "7", scanned.String())

		require.NoError(t, scanned.Scan(nil))
		assert.True(t, scanned.IsZero())

		assert.Error(t, scanned.Scan(3.14))
		assert.Error(t, scanned.Scan("1.5"))
	})

	t.Run("Negative Detection", func(t *testing.T) {
		a := AmountFromInt64(3).Sub(AmountFromInt64(10))
		assert.True(t, a.IsNegative())
		assert.Equal(t, "-7", a.String())
	})
}
