package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	kerrors "github.com/ahasecret/ahasecret/internal/errors"
)

var retentionPattern = regexp.MustCompile(`^(\d+)([mhd]?)$`)

// ParseRetention converts a retention time like "30", "30m", "12h" or "7d"
// into minutes. A bare number is minutes. The value must be at least 1.
func ParseRetention(s string) (uint32, error) {
	match := retentionPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("%w: %q (use e.g. 30m, 12h or 7d)", kerrors.ErrInvalidRetention, s)
	}

	value, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is out of range", kerrors.ErrInvalidRetention, s)
	}
	if value < 1 {
		return 0, fmt.Errorf("%w: value must be at least 1", kerrors.ErrInvalidRetention)
	}

	var factor uint64 = 1
	switch match[2] {
	case "h":
		factor = 60
	case "d":
		factor = 60 * 24
	}

	if value > math.MaxUint32/factor {
		return 0, fmt.Errorf("%w: %q is out of range", kerrors.ErrInvalidRetention, s)
	}

	return uint32(value * factor), nil
}

// FormatMinutes renders minutes in the largest unit that divides them evenly.
func FormatMinutes(minutes uint32) string {
	switch {
	case minutes != 0 && minutes%(60*24) == 0:
		return fmt.Sprintf("%dd", minutes/(60*24))
	case minutes != 0 && minutes%60 == 0:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
