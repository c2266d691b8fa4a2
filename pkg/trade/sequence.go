package trade

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNumberSequence is returned for a malformed number sequence.
	ErrInvalidNumberSequence = errors.New("invalid number sequence")
	// ErrNumberOutOfRange is returned when a sequence names a number at or
	// above the caller's limit.
	ErrNumberOutOfRange = errors.New("number out of range")
)

type numberRange struct {
	from, to uint64
}

// parseRanges splits "N1,N2-N3" into inclusive ranges without expanding
// them. Commas and whitespace both separate items.
func parseRanges(s string) ([]numberRange, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	ranges := make([]numberRange, 0, len(fields))
	for _, f := range fields {
		from, to, isRange := strings.Cut(f, "-")
		a, err := strconv.ParseUint(from, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumberSequence, f)
		}
		b := a
		if isRange {
			if b, err = strconv.ParseUint(to, 10, 31); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidNumberSequence, f)
			}
		}
		ranges = append(ranges, numberRange{a, b})
	}
	return ranges, nil
}

// ValidateNumberSequence checks the syntax of a number sequence.
func ValidateNumberSequence(s string) error {
	_, err := parseRanges(s)
	return err
}

// ParseNumberSequence parses "N1,N2-N3" into a list of numbers below bound.
// Ranges are inclusive; a range whose end is below its start contributes
// nothing. Every number and range endpoint is checked against bound before
// anything is expanded.
func ParseNumberSequence(s string, bound int) ([]int, error) {
	ranges, err := parseRanges(s)
	if err != nil {
		return nil, err
	}

	limit := uint64(0)
	if bound > 0 {
		limit = uint64(bound)
	}
	for _, r := range ranges {
		if r.to < r.from {
			continue
		}
		if r.to >= limit {
			return nil, fmt.Errorf("%w: %d, expected below %d", ErrNumberOutOfRange, r.to, bound)
		}
	}

	var out []int
	for _, r := range ranges {
		for i := r.from; i <= r.to; i++ {
			out = append(out, int(i))
		}
	}
	return out, nil
}
