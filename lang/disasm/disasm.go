// Package disasm renders an LSCVM opcode string as a human-readable
// instruction listing, one line per opcode, annotating digit pushes with
// their decimal value and jump instructions with their absolute target.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/corvidhall/lscvm/lang/opcode"
)

// Instruction is a single disassembled opcode at its position in the
// stream.
type Instruction struct {
	Offset int
	Op     opcode.Opcode
	// Target is set for GO/CONDITIONAL_JUMP/CALL when a numeric literal
	// immediately precedes the jump/call opcode and can be statically
	// resolved to an absolute offset; -1 otherwise.
	Target int
}

// Listing is a disassembled opcode string, plus the set of offsets any
// jump/call instruction resolved to, sorted for stable listing output.
type Listing struct {
	Instructions []Instruction
	Targets      []int
}

// Disassemble decodes s into a Listing. It does not execute the VM, it only
// walks the opcode alphabet and numeric-literal grammar far enough to
// annotate jump targets when the literal immediately preceding a jump/call
// is a flat digit-push sequence (a..j combined with A/M), the common case
// emitted by lang/numenc; anything more irregular (e.g. a hand-assembled
// stream) is still listed, just without a resolved Target.
func Disassemble(s string) (*Listing, error) {
	var l Listing
	targets := map[int]bool{}

	i := 0
	for i < len(s) {
		op := opcode.Opcode(s[i])
		if !opcode.Valid(op) {
			return nil, fmt.Errorf("disasm: invalid opcode %q at offset %d", s[i], i)
		}

		inst := Instruction{Offset: i, Op: op, Target: -1}

		switch op {
		case opcode.GO, opcode.CALL:
			if val, ok := precedingLiteral(s, i); ok {
				abs := resolveTarget(op, i, val)
				inst.Target = abs
				targets[abs] = true
			}
		case opcode.CONDITIONAL_JUMP:
			// CONDITIONAL_JUMP pops two values (cond, rel); only the
			// immediately preceding literal is inspectable this way, which is
			// the rel operand's position when cond is itself a sub-expression
			// rather than a bare literal — in that common case this cannot
			// resolve statically, so Target is left at -1.
			if val, ok := precedingLiteral(s, i); ok {
				abs := resolveTarget(opcode.GO, i, val)
				inst.Target = abs
				targets[abs] = true
			}
		}

		l.Instructions = append(l.Instructions, inst)
		i++
	}

	l.Targets = make([]int, 0, len(targets))
	for t := range targets {
		l.Targets = append(l.Targets, t)
	}
	slices.Sort(l.Targets)
	return &l, nil
}

// precedingLiteral attempts to evaluate the flat digit-push run ending
// immediately before offset i as a non-negative integer (values chained
// with A/STACK_ADD or M/STACK_MULTIPLY only, the shape lang/numenc.Encode
// produces). ok is false if the bytes before i are not such a run.
func precedingLiteral(s string, i int) (int, bool) {
	j := i
	for j > 0 {
		c := opcode.Opcode(s[j-1])
		if _, isDigit := opcode.DigitValue(c); isDigit {
			j--
			continue
		}
		if c == opcode.STACK_ADD || c == opcode.STACK_MULTIPLY {
			j--
			continue
		}
		break
	}
	if j == i {
		return 0, false
	}

	var stack []int
	for k := j; k < i; k++ {
		c := opcode.Opcode(s[k])
		if v, isDigit := opcode.DigitValue(c); isDigit {
			stack = append(stack, v)
			continue
		}
		if len(stack) < 2 {
			return 0, false
		}
		b := stack[len(stack)-1]
		a := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		if c == opcode.STACK_ADD {
			stack = append(stack, a+b)
		} else {
			stack = append(stack, a*b)
		}
	}
	if len(stack) != 1 {
		return 0, false
	}
	return stack[0], true
}

// resolveTarget converts a relative jump value found just before a GO (or
// CONDITIONAL_JUMP treated as a GO for this purpose) at offset i into an
// absolute stream offset: the jump executes with IP already past the jump
// opcode itself (offset i+1), per the §6 relative-jump convention. A CALL
// operand is already an absolute instruction pointer and is returned as is.
func resolveTarget(op opcode.Opcode, i, rel int) int {
	if op == opcode.CALL {
		return rel
	}
	return i + 1 + rel
}

// Format renders l as a listing, one "offset: MNEMONIC [value] [-> target]"
// line per instruction.
func Format(l *Listing) string {
	var b strings.Builder
	for _, inst := range l.Instructions {
		fmt.Fprintf(&b, "%4d: %s", inst.Offset, opcode.Mnemonic(inst.Op))
		if inst.Target >= 0 {
			fmt.Fprintf(&b, " -> %d", inst.Target)
		}
		b.WriteByte('\n')
	}
	if len(l.Targets) > 0 {
		b.WriteString("jump targets:")
		for _, t := range l.Targets {
			fmt.Fprintf(&b, " %d", t)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
