package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/blockvault/blockvault/internal/blockdir"
	"github.com/blockvault/blockvault/internal/config"
	"github.com/blockvault/blockvault/internal/counters"
	"github.com/blockvault/blockvault/internal/ui"
)

const putHelp = `blockvault put <file>

Store a file's contents as one or more blocks and print the resulting
addresses as a JSON array on stdout. Use "-" to read from stdin.

Example:
  % blockvault put myfile.bin > myfile.addrs.json
`

func cmdput(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("put", flag.ExitOnError)
	fset.Usage = usage(fset, putHelp)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return fmt.Errorf("exactly one file argument required")
	}
	path := fset.Arg(0)

	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	cfg := config.Resolve(*root)
	bd := blockdir.Open(cfg.Root).WithUI(ui.NewConsole())
	sf := blockdir.NewStoreFiles(bd, cfg.MaxBlockSize)
	c := counters.New()

	addrs, sizes, err := sf.StoreContent(path, in, c)
	if err != nil {
		return err
	}
	registerAtExit(func() error {
		fmt.Fprintf(os.Stderr, "stored %d address(es): %d bytes uncompressed, %d bytes compressed\n",
			len(addrs), sizes.Uncompressed, sizes.Compressed)
		return nil
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(addrs)
}
