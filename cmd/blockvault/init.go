package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/blockvault/blockvault/internal/blockdir"
	"github.com/blockvault/blockvault/internal/config"
)

const initHelp = `blockvault init

Create a new, empty block store at the configured root.

Example:
  % blockvault -root /var/lib/blockvault init
`

func cmdinit(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("init", flag.ExitOnError)
	fset.Usage = usage(fset, initHelp)
	fset.Parse(args)

	cfg := config.Resolve(*root)
	bd, err := blockdir.Create(cfg.Root)
	if err != nil {
		return err
	}
	fmt.Println(bd.Path())
	return nil
}
