package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/blockvault/blockvault/internal/blockdir"
	"github.com/blockvault/blockvault/internal/config"
)

const catHelp = `blockvault cat <addresses.json>

Reassemble the content named by a JSON array of addresses (as produced by
"blockvault put") and write it to stdout. Use "-" to read the address list
from stdin.

Example:
  % blockvault cat myfile.addrs.json > myfile.bin
`

func cmdcat(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("cat", flag.ExitOnError)
	fset.Usage = usage(fset, catHelp)
	fset.Parse(args)
	if fset.NArg() != 1 {
		fset.Usage()
		return fmt.Errorf("exactly one address-list argument required")
	}

	var raw []byte
	var err error
	if fset.Arg(0) == "-" {
		raw, err = ioutil.ReadAll(os.Stdin)
	} else {
		raw, err = ioutil.ReadFile(fset.Arg(0))
	}
	if err != nil {
		return err
	}

	var addrs []blockdir.Address
	if err := json.Unmarshal(raw, &addrs); err != nil {
		return fmt.Errorf("parsing address list: %w", err)
	}

	cfg := config.Resolve(*root)
	bd := blockdir.Open(cfg.Root)

	for _, addr := range addrs {
		content, _, err := bd.Get(addr)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(content); err != nil {
			return err
		}
	}
	return nil
}
