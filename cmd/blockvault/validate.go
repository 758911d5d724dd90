package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/blockvault/blockvault/internal/blockdir"
	"github.com/blockvault/blockvault/internal/config"
	"github.com/blockvault/blockvault/internal/ui"
)

const validateHelp = `blockvault validate

Re-read and re-hash every stored block, reporting blocks that fail to
decompress or whose contents no longer match their name. Exits nonzero if
any corruption is found.

Example:
  % blockvault validate
`

func cmdvalidate(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("validate", flag.ExitOnError)
	fset.Usage = usage(fset, validateHelp)
	fset.Parse(args)

	cfg := config.Resolve(*root)
	bd := blockdir.Open(cfg.Root).WithUI(ui.NewConsole())

	stats, err := bd.Validate()
	if err != nil {
		return err
	}
	fmt.Printf("hash mismatches: %d\n", stats.BlockHashWrong)
	fmt.Printf("decompression failures: %d\n", stats.BlockDecompressionFailed)
	if stats.BlockHashWrong+stats.BlockDecompressionFailed > 0 {
		return fmt.Errorf("validate: found %d corrupt block(s)", stats.BlockHashWrong+stats.BlockDecompressionFailed)
	}
	return nil
}
