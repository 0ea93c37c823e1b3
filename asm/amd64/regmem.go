package amd64

import "github.com/tetratelabs/amd64asm/asm"

// RegMem64 is either a register or a memory operand, i.e. anything that can be
// placed on ModR/M rm. Encoders query it without caring which one it holds.
type RegMem64 struct {
	reg   Reg64
	mem   Mem64
	isMem bool
}

// RegMemReg wraps a register.
func RegMemReg(r Reg64) RegMem64 {
	return RegMem64{reg: r}
}

// RegMemMem wraps a memory operand.
func RegMemMem(m Mem64) RegMem64 {
	return RegMem64{mem: m, isMem: true}
}

// Reg returns the register, if o holds one.
func (o RegMem64) Reg() (Reg64, bool) { return o.reg, !o.isMem }

// Mem returns the memory operand, if o holds one.
func (o RegMem64) Mem() (Mem64, bool) { return o.mem, o.isMem }

// Mode returns the ModR/M mode field.
func (o RegMem64) Mode() byte {
	if o.isMem {
		return o.mem.Mode()
	}
	return o.reg.Mode()
}

// RM returns the ModR/M rm field.
func (o RegMem64) RM() byte {
	if o.isMem {
		return o.mem.RM()
	}
	return o.reg.RM()
}

// RexB returns true if REX.B is needed.
func (o RegMem64) RexB() bool {
	if o.isMem {
		return o.mem.RexB()
	}
	return o.reg.RexB()
}

// RexX returns true if REX.X is needed. Always false for a register.
func (o RegMem64) RexX() bool {
	return o.isMem && o.mem.RexX()
}

// SIB returns the SIB byte if needed. Never needed for a register.
func (o RegMem64) SIB() (SIB, bool) {
	if o.isMem {
		return o.mem.SIB()
	}
	return 0, false
}

// Displacement returns the displacement bytes. Empty for a register.
func (o RegMem64) Displacement() asm.FlexBytes[asm.CapDisplacement] {
	if o.isMem {
		return o.mem.Displacement()
	}
	return asm.FlexBytes[asm.CapDisplacement]{}
}

func (o RegMem64) validate() error {
	if o.isMem {
		if !o.mem.valid() {
			return errInvalidMem
		}
		return nil
	}
	return validateRegs(o.reg)
}

// String implements fmt.Stringer.
func (o RegMem64) String() string {
	if o.isMem {
		return o.mem.String()
	}
	return o.reg.String()
}
