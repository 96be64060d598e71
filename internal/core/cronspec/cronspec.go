// Package cronspec validates candidate 5-field Unix cron expressions coming
// back from an untrusted model. Two layers: prose rejection first, then a
// purely syntactic field grammar. Calendar feasibility is out of scope
package cronspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel is the literal the model is instructed to emit for phrases it
// cannot translate
const Sentinel = "invalid"

// ErrDeclined marks the model's explicit refusal sentinel, distinct from
// malformed output
var ErrDeclined = errors.New("model declined the phrase")

// fieldSpec bounds one cron field
type fieldSpec struct {
	name string
	min  int
	max  int
}

var fields = [5]fieldSpec{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 6},
}

// leadIns are conversational openers that mark prose, not an expression
var leadIns = []string{"here", "the", "this", "it", "expression", "cron"}

// proseWords are explanatory vocabulary that never appears in a bare expression
var proseWords = []string{"explanation", "description", "means", "represents"}

// Validate checks a raw model response for being a bare, well-formed 5-field
// cron expression. The first failing reason is returned
func Validate(response string) error {
	s := strings.TrimSpace(response)
	if s == "" {
		return errors.New("empty response")
	}
	if strings.EqualFold(s, Sentinel) {
		return ErrDeclined
	}

	// prose layer: a model that explains itself is a failure mode, catch it
	// before the grammar produces a false positive on an embedded expression
	if strings.Contains(s, "\n") {
		return errors.New("response spans multiple lines")
	}
	if strings.Contains(s, "```") {
		return errors.New("response contains a code fence")
	}
	lower := strings.ToLower(s)
	for _, w := range leadIns {
		if strings.HasPrefix(lower, w) {
			return fmt.Errorf("response starts with prose lead-in %q", w)
		}
	}
	for _, w := range proseWords {
		if strings.Contains(lower, w) {
			return fmt.Errorf("response contains explanatory vocabulary %q", w)
		}
	}

	parts := strings.Fields(s)
	if len(parts) != 5 {
		return fmt.Errorf("expected 5 fields, got %d", len(parts))
	}
	for i, part := range parts {
		if err := validateField(part, fields[i]); err != nil {
			return fmt.Errorf("%s field %q: %w", fields[i].name, part, err)
		}
	}
	return nil
}

// validateField checks one field: *, integer, list, range, step
func validateField(s string, spec fieldSpec) error {
	for _, item := range strings.Split(s, ",") {
		if item == "" {
			return errors.New("empty list element")
		}
		if err := validateItem(item, spec); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item string, spec fieldSpec) error {
	base, step, hasStep := strings.Cut(item, "/")
	if hasStep {
		n, err := strconv.Atoi(step)
		if err != nil {
			return fmt.Errorf("step %q is not a number", step)
		}
		if n < 1 {
			return fmt.Errorf("step %d must be positive", n)
		}
	}
	if base == "*" {
		return nil
	}
	lo, hi, isRange := strings.Cut(base, "-")
	if isRange {
		a, err := boundedInt(lo, spec)
		if err != nil {
			return err
		}
		b, err := boundedInt(hi, spec)
		if err != nil {
			return err
		}
		if a > b {
			return fmt.Errorf("range %d-%d is inverted", a, b)
		}
		return nil
	}
	_, err := boundedInt(base, spec)
	return err
}

func boundedInt(s string, spec fieldSpec) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < spec.min || n > spec.max {
		return 0, fmt.Errorf("%d outside %d-%d", n, spec.min, spec.max)
	}
	return n, nil
}
