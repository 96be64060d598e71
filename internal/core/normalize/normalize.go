// Package normalize provides the deterministic input normalizer the cache key
// and quota pipeline depend on
// Pipeline order (stable, cache keys depend on it)
// 1 Sanitize: drop controls, DEL, C1 and invalid UTF-8
// 2 Unicode NFKC + case folding via x/text, strip format chars
// 3 Strip markup/injection denylist characters
// 4 Collapse whitespace runs to single spaces and trim
package normalize

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the cap on normalized input length
const MaxLen = 200

var (
	// ErrEmpty signals input that normalized to nothing
	ErrEmpty = errors.New("input is empty after normalization")

	// ErrTooLong signals normalized input over MaxLen characters
	ErrTooLong = errors.New("input too long")
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding, lowercases ASCII
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
		)
	},
}

// denied are characters that could act as markup or prompt injection scaffolding
func denied(r rune) bool {
	switch r {
	case '<', '>', '"', '\'', '`':
		return true
	}
	return false
}

// Normalize returns the canonical form of raw following the pipeline above.
// It is idempotent and has no side effects
func Normalize(raw string) (string, error) {
	s := Sanitize(raw)
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	var b strings.Builder
	b.Grow(len(ns))
	inWS := false
	for _, r := range ns {
		if denied(r) {
			continue
		}
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	out := b.String()

	if out == "" {
		return "", ErrEmpty
	}
	if len([]rune(out)) > MaxLen {
		return "", ErrTooLong
	}
	return out, nil
}
