package models

import (
	"database/sql/driver"
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Amount is an arbitrary-precision non-negative token quantity. It is stored
// as numeric(78,0) in Postgres and serialized as a decimal string in JSON so
// quantities above 64 bits survive the wire unchanged.
type Amount struct {
	sdkmath.Int
}

// NewAmount wraps an sdkmath.Int.
func NewAmount(i sdkmath.Int) Amount {
	return Amount{Int: i}
}

// ZeroAmount returns the zero quantity.
func ZeroAmount() Amount {
	return Amount{Int: sdkmath.ZeroInt()}
}

// AmountFromString parses a base-10 integer string.
func AmountFromString(s string) (Amount, error) {
	i, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return ZeroAmount(), fmt.Errorf("invalid amount %q", s)
	}
	return Amount{Int: i}, nil
}

// AmountFromInt64 is a convenience constructor used mostly in tests.
func AmountFromInt64(v int64) Amount {
	return Amount{Int: sdkmath.NewInt(v)}
}

// norm returns the underlying Int, treating the uninitialized zero value as 0.
func (a Amount) norm() sdkmath.Int {
	if a.Int.IsNil() {
		return sdkmath.ZeroInt()
	}
	return a.Int
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{Int: a.norm().Add(b.norm())}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{Int: a.norm().Sub(b.norm())}
}

// Cmp compares a and b: -1 if a < b, 0 if equal, 1 if a > b.
func (a Amount) Cmp(b Amount) int {
	x, y := a.norm(), b.norm()
	switch {
	case x.LT(y):
		return -1
	case x.GT(y):
		return 1
	default:
		return 0
	}
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a.norm().IsPositive()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.norm().IsZero()
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.norm().IsNegative()
}

func (a Amount) String() string {
	return a.norm().String()
}

// MarshalJSON encodes the amount as a quoted decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.norm().MarshalJSON()
}

// UnmarshalJSON accepts a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var i sdkmath.Int
	if err := i.UnmarshalJSON(data); err != nil {
		return err
	}
	a.Int = i
	return nil
}

// Value implements driver.Valuer; amounts travel to Postgres as strings.
func (a Amount) Value() (driver.Value, error) {
	return a.norm().String(), nil
}

// Scan implements sql.Scanner for numeric(78,0) columns.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		a.Int = sdkmath.ZeroInt()
		return nil
	case string:
		parsed, ok := sdkmath.NewIntFromString(v)
		if !ok {
			return fmt.Errorf("cannot scan %q into Amount", v)
		}
		a.Int = parsed
		return nil
	case []byte:
		parsed, ok := sdkmath.NewIntFromString(string(v))
		if !ok {
			return fmt.Errorf("cannot scan %q into Amount", string(v))
		}
		a.Int = parsed
		return nil
	case int64:
		a.Int = sdkmath.NewInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}

// GormDataType tells gorm which column type to create.
func (Amount) GormDataType() string {
	return "numeric(78,0)"
}
