package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/blockvault/blockvault/internal/blockdir"
	"github.com/blockvault/blockvault/internal/config"
)

const lsHelp = `blockvault ls

List every block hash currently stored, one per line, sorted.

Example:
  % blockvault ls
`

func cmdls(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("ls", flag.ExitOnError)
	fset.Usage = usage(fset, lsHelp)
	fset.Parse(args)

	cfg := config.Resolve(*root)
	bd := blockdir.Open(cfg.Root)

	names, err := bd.BlockNames()
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
