// Package numenc implements the LSCVM numeric-literal encoder: it composes
// an arbitrary non-negative integer from the ten single-digit push
// primitives using STACK_ADD and STACK_MULTIPLY, via prime factorisation and
// compressed factor grouping. The encoder is a pure function of its input.
package numenc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/corvidhall/lscvm/lang/opcode"
)

// ErrNegative is returned by Encode when asked to encode a negative number;
// the encoder's algorithm (§4.1) is defined only for n >= 0. Negative values
// arise internally only for relative jump offsets and are handled by
// EncodeSigned instead.
var ErrNegative = errors.New("numenc: cannot encode a negative number")

// Encode returns the shortest-by-construction opcode string that, executed
// on an empty VM stack, leaves exactly n on top. It contains only
// characters from {a..j, A, M}.
func Encode(n int) (string, error) {
	if n < 0 {
		return "", ErrNegative
	}
	return encode(n), nil
}

func encode(n int) string {
	if n <= 9 {
		return opcode.Digit(n).String()
	}
	if n <= 18 {
		// 9 + (n-9)
		return opcode.Digit(9).String() + opcode.Digit(n-9).String() + opcode.STACK_ADD.String()
	}

	var b strings.Builder
	first := true
	for _, factor := range compressFactors(factorise(n)) {
		switch {
		case factor <= 9:
			b.WriteString(opcode.Digit(factor).String())
		case factor <= 18:
			b.WriteString(encode(factor))
		default:
			// still cannot resolve directly: subtract 1 and recurse, then add it
			// back. This fires for any prime factor above 18, which
			// compressFactors always leaves as a group of its own.
			b.WriteString(opcode.Digit(1).String())
			b.WriteString(encode(factor - 1))
			b.WriteString(opcode.STACK_ADD.String())
		}
		if !first {
			b.WriteString(opcode.STACK_MULTIPLY.String())
		}
		first = false
	}
	return b.String()
}

// EncodeSigned extends Encode to negative integers, which the VM opcode
// stream cannot express directly: for n < 0 it emits
// STACK_0 + Encode(-n) + STACK_SUBTRACT (push 0, push |n|, subtract), the
// resolution suggested by spec §9 for the while-loop backward-jump wart.
// For n >= 0 it is identical to Encode.
func EncodeSigned(n int) string {
	if n >= 0 {
		return encode(n)
	}
	return opcode.Digit(0).String() + encode(-n) + opcode.STACK_SUBTRACT.String()
}

// compressFactors greedily accumulates an ordered list of prime factors
// left-to-right into a running product while that product stays <= 9; on
// overflow it flushes the running product as one group and starts a new
// group with the overflowing factor. A group exceeds 9 only when it is a
// single prime factor above 9; such a group is returned as-is for the
// caller to resolve recursively.
func compressFactors(factors []int) []int {
	var out []int
	temp := 1
	haveTemp := false

	for _, factor := range factors {
		if haveTemp && temp*factor > 9 {
			out = append(out, temp)
			temp = 1
			haveTemp = false
		}
		temp *= factor
		haveTemp = true
	}

	if haveTemp {
		out = append(out, temp)
	}
	return out
}

// factorise returns the prime factorisation of n (n > 18) in ascending
// order, via trial division bounded by sqrt(n).
func factorise(n int) []int {
	var factors []int
	j := 2
	for n > 1 {
		found := false
		limit := int(math.Sqrt(float64(n) + 0.05))
		for i := j; i <= limit; i++ {
			if n%i == 0 {
				n /= i
				j = i
				factors = append(factors, i)
				found = true
				break
			}
		}
		if !found {
			factors = append(factors, n)
			break
		}
	}
	return factors
}

// MustEncode is Encode for call sites (the compiler's internal use) that
// have already validated n >= 0, e.g. heap offsets and function table
// offsets, which are accounting invariants rather than user input. It
// panics on a negative n, signalling a compiler bug rather than a bad
// program.
func MustEncode(n int) string {
	s, err := Encode(n)
	if err != nil {
		panic(fmt.Sprintf("numenc: MustEncode(%d): %v", n, err))
	}
	return s
}
