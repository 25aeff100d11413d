// Package fixtures embeds small JSON-encoded AST programs exercised by
// lang/compiler's integration tests, each corresponding to one of §8's
// literal end-to-end scenarios.
package fixtures

import (
	"embed"
	"fmt"

	"github.com/corvidhall/lscvm/lang/ast"
)

//go:embed testdata/*.json
var testdataFS embed.FS

// Name identifies one embedded fixture program.
type Name string

const (
	Putchar      Name = "putchar"
	FunctionCall Name = "function_call"
	WhileCount   Name = "while_count"
	ArrayLoop    Name = "array_loop"
	IfCompare    Name = "if_compare"
)

// Chunk decodes the named fixture into an ast.Chunk.
func Chunk(name Name) (*ast.Chunk, error) {
	f, err := testdataFS.Open(fmt.Sprintf("testdata/%s.json", name))
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	defer f.Close()
	return ast.DecodeChunk(f)
}

// Names lists every embedded fixture, in a stable order.
func Names() []Name {
	return []Name{Putchar, FunctionCall, WhileCount, ArrayLoop, IfCompare}
}
