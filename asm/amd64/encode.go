package amd64

import (
	"fmt"

	"github.com/tetratelabs/amd64asm/asm"
)

// Opcodes of the encoders in this package.
//
// See https://www.felixcloutier.com/x86/index.html
const (
	// opcodeLea is LEA r64, m.
	// https://www.felixcloutier.com/x86/lea
	opcodeLea byte = 0x8d
	// opcodeMovRMReg is MOV r/m64, r64.
	// https://www.felixcloutier.com/x86/mov
	opcodeMovRMReg byte = 0x89
	// opcodeMovRegRM is MOV r64, r/m64.
	opcodeMovRegRM byte = 0x8b
	// opcodeMovRegImm is MOV r64, imm64 where the low 3 bits of the register are added to the opcode.
	opcodeMovRegImm byte = 0xb8
)

var errInvalidMem = fmt.Errorf("%w: memory operand must be built with RegOffset, RipOffset or ScaledIndex", asm.ErrFieldOutOfRange)

// encodeRegRM encodes a 64-bit instruction taking reg on ModR/M reg and rm on
// ModR/M rm: REX.W + opcode /r.
func encodeRegRM(opcode byte, reg Reg64, rm RegMem64) (code ByteCode, err error) {
	if err = validateRegs(reg); err != nil {
		return
	}
	if err = rm.validate(); err != nil {
		return
	}

	code = NewByteCode()
	must(code.SetRex(NewRex(true, reg.RexR(), rm.RexX(), rm.RexB())))
	must(code.SetOpcode(asm.FlexBytesFromByte[asm.CapOpcode](opcode)))
	must(code.SetModRM(mustModRM(rm.Mode(), reg.Low3(), rm.RM())))
	if sib, ok := rm.SIB(); ok {
		must(code.SetSIB(sib))
	}
	must(code.SetDisplacement(rm.Displacement()))
	return
}

// must panics on errors which can't happen because the record is built from
// validated operands and stays far below asm.MaxInstructionLength.
func must(err error) {
	if err != nil {
		panic("BUG: " + err.Error())
	}
}
