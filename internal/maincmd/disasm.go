package maincmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mna/mainer"

	"github.com/corvidhall/lscvm/lang/disasm"
)

// Disasm implements the `disasm` subcommand: an opcode string (path or
// stdin), rendered as a mnemonic listing on stdout.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	r, err := openInput(stdio, args)
	if err != nil {
		return printError(stdio, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return printError(stdio, err)
	}

	listing, err := disasm.Disassemble(strings.TrimRight(string(data), "\n"))
	if err != nil {
		return printError(stdio, err)
	}

	fmt.Fprint(stdio.Stdout, disasm.Format(listing))
	return nil
}
