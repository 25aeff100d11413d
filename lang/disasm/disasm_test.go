package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhall/lscvm/lang/numenc"
	"github.com/corvidhall/lscvm/lang/opcode"
)

func TestDisassembleRejectsInvalidOpcode(t *testing.T) {
	_, err := Disassemble("aZ#")
	require.Error(t, err)
}

func TestDisassembleDigitPush(t *testing.T) {
	l, err := Disassemble("e")
	require.NoError(t, err)
	require.Len(t, l.Instructions, 1)
	assert.Equal(t, opcode.DIGIT4, l.Instructions[0].Op)
	assert.Equal(t, -1, l.Instructions[0].Target)
}

func TestDisassembleResolvesGoTarget(t *testing.T) {
	// push 2, then GO: jumps from offset 2 (just past GO at offset 1)
	// forward by 2, landing at offset 4.
	s := numenc.MustEncode(2) + opcode.GO.String() + "aaaa"
	l, err := Disassemble(s)
	require.NoError(t, err)

	goInst := l.Instructions[1]
	assert.Equal(t, opcode.GO, goInst.Op)
	assert.Equal(t, 4, goInst.Target)
	assert.Contains(t, l.Targets, 4)
}

func TestFormatIncludesTargets(t *testing.T) {
	s := numenc.MustEncode(0) + opcode.GO.String() + "a"
	l, err := Disassemble(s)
	require.NoError(t, err)
	out := Format(l)
	assert.Contains(t, out, "GO")
	assert.Contains(t, out, "jump targets:")
}
