package entity

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Money is an amount in cents. Two fractional digits, no floating point.
type Money int64

const centsPerUnit = 100

// Units converts whole currency units to Money.
func Units(n int64) Money {
	return Money(n * centsPerUnit)
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 {
	return int64(m)
}

// WholeUnits truncates towards zero.
func (m Money) WholeUnits() int64 {
	return int64(m) / centsPerUnit
}

// Mul multiplies by an integer quantity (nights, seats).
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

// FloorZero clamps negative amounts to zero.
func (m Money) FloorZero() Money {
	if m < 0 {
		return 0
	}
	return m
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

// Int64Value lets pgx write Money into BIGINT columns.
func (m Money) Int64Value() (pgtype.Int8, error) {
	return pgtype.Int8{Int64: int64(m), Valid: true}, nil
}

// ScanInt64 lets pgx read BIGINT columns into Money.
func (m *Money) ScanInt64(v pgtype.Int8) error {
	if !v.Valid {
		*m = 0
		return nil
	}
	*m = Money(v.Int64)
	return nil
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMoney parses "120", "120.5" or "120.50". More than two decimals is an error.
func ParseMoney(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	digits, neg := strings.CutPrefix(raw, "-")

	whole, frac, hasFrac := strings.Cut(digits, ".")
	if whole == "" && !hasFrac {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: out of range", raw)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 || !isDigits(frac) {
			return 0, fmt.Errorf("invalid amount %q: at most two decimals", raw)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", raw)
		}
	}
	if units > (math.MaxInt64-cents)/centsPerUnit {
		return 0, fmt.Errorf("invalid amount %q: out of range", raw)
	}
	total := units*centsPerUnit + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

// isDigits reports whether s is non-empty and made of ASCII digits only.
// strconv alone would let signs through.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
