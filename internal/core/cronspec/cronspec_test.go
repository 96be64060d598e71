package cronspec_test

import (
	"errors"
	"testing"

	"cronslate/internal/core/cronspec"
)

func TestValidateAccepts(t *testing.T) {
	good := []string{
		"0 9 * * 1-5",
		"*/15 * * * *",
		"30 4 1 * *",
		"0 0 1 1 0",
		"5,35 8-18 * * 1,3,5",
		"0 */2 * * *",
		"10-50/10 * * * *",
		"59 23 31 12 6",
		"  0 9 * * 1-5  ", // surrounding whitespace is tolerated
	}
	for _, s := range good {
		if err := cronspec.Validate(s); err != nil {
			t.Fatalf("Validate(%q): unexpected error %v", s, err)
		}
	}
}

func TestValidateSentinel(t *testing.T) {
	for _, s := range []string{"invalid", "Invalid", " INVALID "} {
		if err := cronspec.Validate(s); !errors.Is(err, cronspec.ErrDeclined) {
			t.Fatalf("Validate(%q): expected ErrDeclined, got %v", s, err)
		}
	}
}

func TestValidateRejectsProse(t *testing.T) {
	bad := []string{
		"Here is your cron expression: 0 9 * * 1-5",
		"The expression is 0 9 * * *",
		"This means every day at nine: 0 9 * * *",
		"0 9 * * 1-5\nThis runs on weekdays at 9am.",
		"```\n0 9 * * 1-5\n```",
		"cron: 0 9 * * *",
	}
	for _, s := range bad {
		if err := cronspec.Validate(s); err == nil {
			t.Fatalf("Validate(%q): expected rejection", s)
		} else if errors.Is(err, cronspec.ErrDeclined) {
			t.Fatalf("Validate(%q): prose must not map to the decline sentinel", s)
		}
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"0 9 * *",          // 4 fields
		"0 9 * * 1-5 2024", // 6 fields
		"60 9 * * *",       // minute out of range
		"0 24 * * *",       // hour out of range
		"0 9 0 * *",        // day-of-month below 1
		"0 9 32 * *",       // day-of-month above 31
		"0 9 * 13 *",       // month out of range
		"0 9 * * 7",        // day-of-week above 6
		"0 9 * * mon",      // names are not supported
		"5-2 9 * * *",      // inverted range
		"*/0 * * * *",      // zero step
		"*/x * * * *",      // non-numeric step
		"0,,5 9 * * *",     // empty list element
	}
	for _, s := range bad {
		if err := cronspec.Validate(s); err == nil {
			t.Fatalf("Validate(%q): expected rejection", s)
		}
	}
}
