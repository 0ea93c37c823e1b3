package amd64

import (
	"fmt"

	"github.com/tetratelabs/amd64asm/asm"
)

// Reg64 is a 64-bit general purpose register. Its value is the 4-bit hardware encoding.
//
// See https://wiki.osdev.org/X86-64_Instruction_Encoding#Registers
type Reg64 byte

// Note: the order must follow the hardware encoding.
const (
	RAX Reg64 = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// numReg64 is the number of general purpose registers.
const numReg64 = 16

var reg64Names = [numReg64]string{
	RAX: "RAX",
	RCX: "RCX",
	RDX: "RDX",
	RBX: "RBX",
	RSP: "RSP",
	RBP: "RBP",
	RSI: "RSI",
	RDI: "RDI",
	R8:  "R8",
	R9:  "R9",
	R10: "R10",
	R11: "R11",
	R12: "R12",
	R13: "R13",
	R14: "R14",
	R15: "R15",
}

// NewReg64 returns the register with the given hardware encoding.
func NewReg64(encoding byte) (Reg64, error) {
	r := Reg64(encoding)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: register encoding %d must be within [0, 15]", asm.ErrFieldOutOfRange, encoding)
	}
	return r, nil
}

// Valid returns true if r is one of RAX to R15.
func (r Reg64) Valid() bool {
	return r < numReg64
}

// Encoding returns the 4-bit hardware encoding.
func (r Reg64) Encoding() byte {
	return byte(r)
}

// Low3 returns the bits placed in ModR/M reg or rm, or SIB index or base.
func (r Reg64) Low3() byte {
	return byte(r) & 0b111
}

// IsExtended returns true for R8 to R15, which need a REX extension bit.
func (r Reg64) IsExtended() bool {
	return byte(r)&0b1000 != 0
}

// RexR returns the REX.R bit needed to place r on ModR/M reg.
func (r Reg64) RexR() bool {
	return r.IsExtended()
}

// RexB returns the REX.B bit needed to place r on ModR/M rm or in the opcode.
func (r Reg64) RexB() bool {
	return r.IsExtended()
}

// Mode returns ModeDirect since a register is always addressed directly.
func (r Reg64) Mode() byte {
	return ModeDirect
}

// RM returns the ModR/M rm field when r is the direct operand.
func (r Reg64) RM() byte {
	return r.Low3()
}

// String implements fmt.Stringer.
func (r Reg64) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Reg64(%d)", byte(r))
	}
	return reg64Names[r]
}

func validateRegs(regs ...Reg64) error {
	for _, r := range regs {
		if !r.Valid() {
			return fmt.Errorf("%w: invalid register %s", asm.ErrFieldOutOfRange, r)
		}
	}
	return nil
}
