package amd64

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

// decodedRegRM is a REX.W + opcode /r instruction split back into its parts.
type decodedRegRM struct {
	rex    Rex
	opcode byte
	modRM  ModRM
	sib    SIB
	hasSIB bool
	disp   []byte
}

// decodeRegRM parses b following the addressing rules only, independently of
// how the encoders built it.
func decodeRegRM(t *testing.T, b []byte) decodedRegRM {
	require.True(t, len(b) >= 3, "too short: %x", b)
	rex, err := RexFromRaw(b[0])
	require.NoError(t, err)

	ret := decodedRegRM{rex: rex, opcode: b[1], modRM: ModRMFromRaw(b[2])}
	rest := b[3:]
	mode := ret.modRM.Mode()
	if mode != ModeDirect && ret.modRM.RM() == rmSIB {
		require.NotEmpty(t, rest)
		ret.sib, ret.hasSIB = SIBFromRaw(rest[0]), true
		rest = rest[1:]
	}

	var dispLen int
	switch {
	case mode == ModeDisp8:
		dispLen = 1
	case mode == ModeDisp32:
		dispLen = 4
	case mode == ModeNoDisp && ret.modRM.RM() == rmRIPRelative:
		dispLen = 4
	case mode == ModeNoDisp && ret.hasSIB && ret.sib.Base() == sibNoBase:
		dispLen = 4
	}
	require.Equal(t, dispLen, len(rest), "trailing bytes of %x", b)
	ret.disp = rest
	return ret
}

// requireRoundTrip checks that the bytes read back into the same parts the record holds.
func requireRoundTrip(t *testing.T, code *ByteCode) {
	d := decodeRegRM(t, code.Bytes())

	rex, ok := code.Rex()
	require.True(t, ok)
	require.Equal(t, rex, d.rex)
	require.Equal(t, []byte{d.opcode}, code.Opcode().Bytes())
	modRM, ok := code.ModRM()
	require.True(t, ok)
	require.Equal(t, modRM, d.modRM)
	sib, ok := code.SIB()
	require.Equal(t, ok, d.hasSIB)
	if ok {
		require.Equal(t, sib, d.sib)
	}
	require.Equal(t, code.Displacement().Len(), len(d.disp))
	if len(d.disp) > 0 {
		require.Equal(t, code.Displacement().Bytes(), d.disp)
	}
}

var x86asmReg64 = [numReg64]x86asm.Reg{
	RAX: x86asm.RAX, RCX: x86asm.RCX, RDX: x86asm.RDX, RBX: x86asm.RBX,
	RSP: x86asm.RSP, RBP: x86asm.RBP, RSI: x86asm.RSI, RDI: x86asm.RDI,
	R8: x86asm.R8, R9: x86asm.R9, R10: x86asm.R10, R11: x86asm.R11,
	R12: x86asm.R12, R13: x86asm.R13, R14: x86asm.R14, R15: x86asm.R15,
}

// x86asmMem returns what an independent disassembler is expected to read for m.
func x86asmMem(m Mem64) x86asm.Mem {
	var ret x86asm.Mem
	if m.Kind() == MemKindRipOffset {
		ret.Base = x86asm.RIP
	} else if base, ok := m.Base(); ok {
		ret.Base = x86asmReg64[base]
	}
	if sib, ok := m.SIB(); ok {
		ret.Scale = 1 << sib.Scale()
		if index, ok := m.Index(); ok && index != RSP {
			ret.Index = x86asmReg64[index]
		}
	}
	switch d := m.Displacement(); d.Len() {
	case 1:
		// 8-bit displacements are sign extended.
		ret.Disp = int64(int8(d.Bytes()[0]))
	case 4:
		ret.Disp = int64(m.Disp())
	}
	return ret
}

// disassemble decodes b as one 64-bit instruction which must span all of b.
func disassemble(t *testing.T, b []byte) x86asm.Inst {
	inst, err := x86asm.Decode(b, 64)
	require.NoError(t, err, "%x", b)
	require.Equal(t, len(b), inst.Len, "%x decoded as %s", b, inst)
	return inst
}

func TestEncodeRegRM_invalid(t *testing.T) {
	_, err := encodeRegRM(opcodeLea, Reg64(16), RegMemReg(RAX))
	require.Error(t, err)
	_, err = encodeRegRM(opcodeLea, RAX, RegMemReg(Reg64(16)))
	require.Error(t, err)
	_, err = encodeRegRM(opcodeLea, RAX, RegMemMem(Mem64{}))
	require.Equal(t, errInvalidMem, err)
}

func TestMust(t *testing.T) {
	require.NotPanics(t, func() { must(nil) })
	require.PanicsWithValue(t, "BUG: field out of range: memory operand must be built with RegOffset, RipOffset or ScaledIndex",
		func() { must(errInvalidMem) })
}
