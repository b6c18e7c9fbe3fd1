// Package amount implements the nano/display-unit codec described in
// spec.md §4.1: every on-chain amount is an unsigned 64-bit count of nanos
// (10^-9 of the display unit), and the only textual form ever produced or
// accepted is a decimal with up to nine fractional digits. No floating
// point appears anywhere on this path.
package amount

import (
	"strconv"
	"strings"

	"github.com/iota-tools/walletcore/internal/walleterr"
)

// NanosPerUnit is 10^9: the number of nanos in one display unit.
const NanosPerUnit uint64 = 1_000_000_000

// UnitName is the display unit name appended by FormatBalance.
const UnitName = "IOTA"

// Parse converts a trimmed decimal string into a nano amount.
//
// Accepted forms:
//   - a bare non-negative integer, interpreted as whole display units
//     ("5" == 5 * 10^9 nanos)
//   - "<int>.<frac>" where frac is 0-9 digits, right-padded with zeros to
//     nine digits ("1.5" == 1_500_000_000, "1." == 1_000_000_000)
//
// Empty input, a leading minus, a missing whole part (".5", "."), more than
// one '.', or more than nine fractional digits are all rejected.
func Parse(input string) (uint64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, walleterr.New(walleterr.Input, "parse_amount", "amount is empty")
	}
	if strings.HasPrefix(s, "-") {
		return 0, walleterr.New(walleterr.Input, "parse_amount", "amount must not be negative")
	}

	dotIdx := strings.IndexByte(s, '.')
	if dotIdx < 0 {
		whole, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, walleterr.Wrap(walleterr.Input, "parse_amount", err)
		}
		return mulChecked(whole, NanosPerUnit)
	}

	if strings.IndexByte(s[dotIdx+1:], '.') >= 0 {
		return 0, walleterr.New(walleterr.Input, "parse_amount", "amount has more than one '.'")
	}

	wholePart := s[:dotIdx]
	fracPart := s[dotIdx+1:]
	if len(fracPart) > 9 {
		return 0, walleterr.New(walleterr.Input, "parse_amount", "amount has more than nine fractional digits")
	}

	if wholePart == "" {
		return 0, walleterr.New(walleterr.Input, "parse_amount", "amount must have at least one leading digit")
	}
	whole, err := strconv.ParseUint(wholePart, 10, 64)
	if err != nil {
		return 0, walleterr.Wrap(walleterr.Input, "parse_amount", err)
	}

	paddedFrac := fracPart + strings.Repeat("0", 9-len(fracPart))
	var fracNanos uint64
	if paddedFrac != "" {
		fracNanos, err = strconv.ParseUint(paddedFrac, 10, 64)
		if err != nil {
			return 0, walleterr.Wrap(walleterr.Input, "parse_amount", err)
		}
	}

	wholeNanos, err := mulChecked(whole, NanosPerUnit)
	if err != nil {
		return 0, err
	}
	return addChecked(wholeNanos, fracNanos)
}

// Format renders nanos as "{whole}.{nine-digit fraction}", e.g.
// Format(1) == "0.000000001", Format(123_456_789_012) == "123.456789012".
func Format(nanos uint64) string {
	whole := nanos / NanosPerUnit
	frac := nanos % NanosPerUnit
	return strconv.FormatUint(whole, 10) + "." + zeroPad9(frac)
}

// FormatBalance renders nanos the way a user-facing balance is displayed:
// the formatted amount followed by a space and the unit name.
func FormatBalance(nanos uint64) string {
	return Format(nanos) + " " + UnitName
}

func zeroPad9(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) >= 9 {
		return s[len(s)-9:]
	}
	return strings.Repeat("0", 9-len(s)) + s
}

const maxUint64 = 1<<64 - 1

func mulChecked(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	result := a * b
	if result/b != a {
		return 0, walleterr.New(walleterr.Overflow, "parse_amount", "amount too large")
	}
	return result, nil
}

func addChecked(a, b uint64) (uint64, error) {
	result := a + b
	if result < a {
		return 0, walleterr.New(walleterr.Overflow, "parse_amount", "amount too large")
	}
	return result, nil
}
