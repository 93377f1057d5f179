package market

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MicroStxPerStx is the number of smallest currency units in one STX.
const MicroStxPerStx = 1_000_000

// ToStx converts microSTX to whole STX.
func ToStx(ustx uint64) float64 {
	return float64(ustx) / MicroStxPerStx
}

// ToMicroStx converts whole STX to microSTX, flooring to the smallest unit.
func ToMicroStx(stx float64) uint64 {
	if stx <= 0 {
		return 0
	}
	return uint64(stx * MicroStxPerStx)
}

// FormatStx renders a microSTX amount as a fixed six-decimal STX string.
func FormatStx(ustx uint64) string {
	return fmt.Sprintf("%d.%06d", ustx/MicroStxPerStx, ustx%MicroStxPerStx)
}

// ParseStx parses a decimal STX amount ("2", "0.5", "1.250000") into
// microSTX without going through floating point.
func ParseStx(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 6 {
		return 0, fmt.Errorf("amount %q has more than 6 decimal places", s)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	f := uint64(0)
	if frac != "" {
		f, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		for i := len(frac); i < 6; i++ {
			f *= 10
		}
	}
	if w > (math.MaxUint64-f)/MicroStxPerStx {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return w*MicroStxPerStx + f, nil
}
