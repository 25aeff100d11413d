package maincmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mna/mainer"

	"github.com/corvidhall/lscvm/lang/numenc"
)

// Encode implements the `encode` subcommand: a single integer argument,
// printed as its LSCVM numeric-literal opcode substring. Negative values
// are accepted (via numenc.EncodeSigned) purely to let callers inspect the
// while-loop backward-jump encoding in isolation.
func (c *Cmd) Encode(ctx context.Context, stdio mainer.Stdio, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return printError(stdio, fmt.Errorf("encode: %q is not an integer", args[0]))
	}

	var out string
	if n < 0 {
		out = numenc.EncodeSigned(n)
	} else {
		out, err = numenc.Encode(n)
		if err != nil {
			return printError(stdio, err)
		}
	}

	fmt.Fprintln(stdio.Stdout, out)
	return nil
}
