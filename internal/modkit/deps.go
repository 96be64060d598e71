// Package modkit provides module wiring and core deps
package modkit

import (
	"cronslate/internal/modkit/repokit"
	"cronslate/internal/platform/config"
	"cronslate/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	KV  repokit.KV
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check the optional store
func (d Deps) ZeroOK() bool { return true }
