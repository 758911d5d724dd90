// Package config resolves the knobs the core needs at startup: where the
// BlockDir root lives, the fixed block size, and the machine's parallelism.
// Resolution mirrors the teacher's own internal/env
// pattern (an environment variable with a computed fallback), generalized
// to use the XDG base-directory convention for the fallback instead of a
// hand-rolled $HOME join.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/adrg/xdg"
)

// DefaultMaxBlockSize is the block window size named in spec.md §4.1.
const DefaultMaxBlockSize = 1 << 20 // 1 MiB

// Config holds the resolved runtime configuration for a BlockDir instance.
type Config struct {
	// Root is the BlockDir's root directory.
	Root string

	// MaxBlockSize is the fixed chunk window StoreFiles reads into.
	// Only overridable via $BLOCKVAULT_MAX_BLOCK_SIZE, for test tuning;
	// production call sites get DefaultMaxBlockSize.
	MaxBlockSize int

	// Parallelism is runtime.GOMAXPROCS(0) at resolution time.
	// BlockDir.Validate does not read it; it sizes its worker pool from
	// GOMAXPROCS itself.
	Parallelism int
}

// Resolve computes a Config from an explicit root (empty to use the
// environment/XDG default), the $BLOCKVAULT_ROOT environment variable, and
// github.com/adrg/xdg's DataHome as the final fallback.
func Resolve(explicitRoot string) Config {
	root := explicitRoot
	if root == "" {
		root = os.Getenv("BLOCKVAULT_ROOT")
	}
	if root == "" {
		root = filepath.Join(xdg.DataHome, "blockvault")
	}

	maxBlockSize := DefaultMaxBlockSize
	if s := os.Getenv("BLOCKVAULT_MAX_BLOCK_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			maxBlockSize = n
		}
	}

	return Config{
		Root:         root,
		MaxBlockSize: maxBlockSize,
		Parallelism:  runtime.GOMAXPROCS(0),
	}
}
