package maincmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/corvidhall/lscvm/internal/logging"
	"github.com/corvidhall/lscvm/lang/ast"
	"github.com/corvidhall/lscvm/lang/compiler"
)

// Compile implements the `compile` subcommand: a JSON-encoded AST (see
// lang/ast.DecodeChunk), read from a path argument or stdin if none is
// given, translated to an LSCVM opcode string on stdout.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return printError(stdio, err)
	}

	r, err := openInput(stdio, args)
	if err != nil {
		return printError(stdio, err)
	}
	defer r.Close()

	chunk, err := ast.DecodeChunk(r)
	if err != nil {
		return printError(stdio, err)
	}

	comp := compiler.New(cfg.Limits())
	comp.SetLogger(logging.New(stdio.Stderr, cfg.LogLevel, logging.CLI))

	out, err := comp.Compile(chunk)
	if err != nil {
		return printError(stdio, err)
	}

	fmt.Fprintln(stdio.Stdout, out)
	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

// openInput returns args[0] opened for reading if present, else stdin.
func openInput(stdio mainer.Stdio, args []string) (io.ReadCloser, error) {
	if len(args) == 0 {
		return io.NopCloser(stdio.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", args[0], err)
	}
	return f, nil
}
