// Command blockvault is a thin CLI over internal/blockdir: it creates and
// inspects a content-addressed block store on local disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/xerrors"
)

var (
	debug = flag.Bool("debug", false, "enable debug mode: format error messages with additional detail")
	root  = flag.String("root", "", "block store root directory (defaults to $BLOCKVAULT_ROOT, then the XDG data directory)")
)

func funcmain() error {
	flag.Parse()

	type cmd struct {
		fn func(ctx context.Context, args []string) error
	}
	verbs := map[string]cmd{
		"init":     {cmdinit},
		"put":      {cmdput},
		"cat":      {cmdcat},
		"ls":       {cmdls},
		"validate": {cmdvalidate},
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "blockvault [-flags] <command> [-flags] <args>\n")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "\tinit     - create a new, empty block store\n")
		fmt.Fprintf(os.Stderr, "\tput      - store a file's contents as blocks, printing their addresses\n")
		fmt.Fprintf(os.Stderr, "\tcat      - reassemble and print the content addressed by a list of addresses\n")
		fmt.Fprintf(os.Stderr, "\tls       - list every block hash in the store\n")
		fmt.Fprintf(os.Stderr, "\tvalidate - re-hash every stored block and report corruption\n")
		os.Exit(2)
	}
	verb, args := args[0], args[1:]

	ctx, canc := interruptibleContext()
	defer canc()

	v, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", verb)
		fmt.Fprintf(os.Stderr, "syntax: blockvault <command> [options]\n")
		os.Exit(2)
	}
	if err := v.fn(ctx, args); err != nil {
		if err := runAtExit(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: during cleanup: %v\n", verb, err)
		}
		if *debug {
			return xerrors.Errorf("%s: %+v", verb, err)
		}
		return fmt.Errorf("%s: %v", verb, err)
	}
	return runAtExit()
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
