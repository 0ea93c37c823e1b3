package amd64

import (
	"fmt"

	"github.com/tetratelabs/amd64asm/asm"
)

// MemKind distinguishes the addressing forms of Mem64.
type MemKind byte

const (
	// MemKindRegOffset is [base + disp].
	MemKindRegOffset MemKind = iota + 1
	// MemKindRipOffset is [RIP + disp].
	MemKindRipOffset
	// MemKindSIB is [base + disp + index*scale], where base is optional.
	MemKindSIB
)

// String implements fmt.Stringer.
func (k MemKind) String() string {
	switch k {
	case MemKindRegOffset:
		return "reg_offset"
	case MemKindRipOffset:
		return "rip_offset"
	case MemKindSIB:
		return "sib"
	default:
		return "invalid"
	}
}

// Mem64 is a memory operand. It resolves itself into the ModR/M mode and rm
// fields, the SIB byte, the displacement and the REX.X/REX.B bits which every
// instruction taking a memory operand needs.
//
// Note: the displacement is unsigned and any value in [1, 256] is encoded as
// an 8-bit displacement, so 256 truncates to 0x00 and [128, 255] are sign
// extended by the CPU. Callers which need these offsets should use registers
// instead.
type Mem64 struct {
	kind    MemKind
	base    Reg64
	hasBase bool
	index   Reg64
	// scale is log2 of the index multiplier.
	scale byte
	disp  uint32
}

// RegOffset returns [base + disp].
//
// [RBP] and [R13] are encoded as [RBP + 0] and [R13 + 0]. [RSP + disp] and
// [R12 + disp] are encoded through a SIB byte with no index.
func RegOffset(base Reg64, disp uint32) (Mem64, error) {
	if err := validateRegs(base); err != nil {
		return Mem64{}, err
	}
	return Mem64{kind: MemKindRegOffset, base: base, hasBase: true, disp: disp}, nil
}

// RipOffset returns [RIP + disp].
func RipOffset(disp uint32) Mem64 {
	return Mem64{kind: MemKindRipOffset, disp: disp}
}

// ScaledIndex returns [base + disp + index*scale]. scale must be one of 1, 2, 4 or 8.
//
// Note: RSP as index is encoded as "no index", so [base + disp + RSP*scale]
// addresses [base + disp].
func ScaledIndex(base, index Reg64, scale byte, disp uint32) (Mem64, error) {
	if err := validateRegs(base); err != nil {
		return Mem64{}, err
	}
	m, err := ScaledIndexNoBase(index, scale, disp)
	if err != nil {
		return Mem64{}, err
	}
	m.base, m.hasBase = base, true
	return m, nil
}

// ScaledIndexNoBase returns [disp + index*scale]. scale must be one of 1, 2, 4 or 8.
func ScaledIndexNoBase(index Reg64, scale byte, disp uint32) (Mem64, error) {
	if err := validateRegs(index); err != nil {
		return Mem64{}, err
	}
	var shift byte
	switch scale {
	case 1:
		shift = 0
	case 2:
		shift = 1
	case 4:
		shift = 2
	case 8:
		shift = 3
	default:
		return Mem64{}, fmt.Errorf("%w: scale in SIB must be one of 1, 2, 4, 8 but got %d", asm.ErrFieldOutOfRange, scale)
	}
	return Mem64{kind: MemKindSIB, index: index, scale: shift, disp: disp}, nil
}

// Kind returns the addressing form.
func (m Mem64) Kind() MemKind { return m.kind }

// Base returns the base register, if any.
func (m Mem64) Base() (Reg64, bool) { return m.base, m.hasBase }

// Index returns the index register of a MemKindSIB operand.
func (m Mem64) Index() (Reg64, bool) { return m.index, m.kind == MemKindSIB }

// Scale returns the index multiplier: 1, 2, 4 or 8. It is 1 unless Kind is MemKindSIB.
func (m Mem64) Scale() byte { return 1 << m.scale }

// Disp returns the displacement.
func (m Mem64) Disp() uint32 { return m.disp }

// baseNeedsDisp is true for RBP and R13, which can't be used as base in
// ModeNoDisp since rm (or SIB base) 0b101 means RIP-relative (or no base) there.
func (m Mem64) baseNeedsDisp() bool {
	return m.hasBase && (m.base == RBP || m.base == R13)
}

// dispMode chooses the displacement size.
func dispMode(disp uint32) byte {
	switch {
	case disp == 0:
		return ModeNoDisp
	case disp <= 256:
		return ModeDisp8
	default:
		return ModeDisp32
	}
}

// Mode returns the ModR/M mode field.
func (m Mem64) Mode() byte {
	switch m.kind {
	case MemKindRegOffset, MemKindSIB:
		if !m.hasBase {
			return ModeNoDisp
		}
		mode := dispMode(m.disp)
		if mode == ModeNoDisp && m.baseNeedsDisp() {
			return ModeDisp8
		}
		return mode
	case MemKindRipOffset:
		return ModeNoDisp
	default:
		panic("BUG: invalid memory operand kind")
	}
}

// RM returns the ModR/M rm field.
func (m Mem64) RM() byte {
	switch m.kind {
	case MemKindRegOffset:
		// RSP and R12 produce rmSIB here, see SIB.
		return m.base.Low3()
	case MemKindRipOffset:
		return rmRIPRelative
	case MemKindSIB:
		return rmSIB
	default:
		panic("BUG: invalid memory operand kind")
	}
}

// SIB returns the SIB byte if the operand needs one.
func (m Mem64) SIB() (SIB, bool) {
	switch m.kind {
	case MemKindRegOffset:
		if m.base.Low3() == rmSIB {
			// [RSP + disp] and [R12 + disp] become [SIB + disp] with no index.
			return mustSIB(0, sibNoIndex, m.base.Low3()), true
		}
		return 0, false
	case MemKindRipOffset:
		return 0, false
	case MemKindSIB:
		base := sibNoBase
		if m.hasBase {
			base = m.base.Low3()
		}
		return mustSIB(m.scale, m.index.Low3(), base), true
	default:
		panic("BUG: invalid memory operand kind")
	}
}

// Displacement returns the displacement bytes: none, one, or four in little-endian order.
func (m Mem64) Displacement() asm.FlexBytes[asm.CapDisplacement] {
	switch m.Mode() {
	case ModeNoDisp:
		// [RIP + disp32] and [disp32 + index*scale] have no other way to encode the displacement.
		if m.kind != MemKindRipOffset && m.hasBase {
			return asm.FlexBytes[asm.CapDisplacement]{}
		}
	case ModeDisp8:
		return asm.FlexBytesFromByte[asm.CapDisplacement](byte(m.disp))
	}
	ret, err := asm.FlexBytesFromUint32[asm.CapDisplacement](m.disp)
	if err != nil {
		panic("BUG: " + err.Error())
	}
	return ret
}

func (m Mem64) valid() bool {
	switch m.kind {
	case MemKindRegOffset, MemKindRipOffset, MemKindSIB:
		return true
	default:
		return false
	}
}

// RexX returns true if the index register needs REX.X.
func (m Mem64) RexX() bool {
	return m.kind == MemKindSIB && m.index.IsExtended()
}

// RexB returns true if the base register needs REX.B.
func (m Mem64) RexB() bool {
	return m.hasBase && m.base.IsExtended()
}

// String implements fmt.Stringer.
func (m Mem64) String() string {
	switch m.kind {
	case MemKindRegOffset:
		return fmt.Sprintf("[%s + %#x]", m.base, m.disp)
	case MemKindRipOffset:
		return fmt.Sprintf("[RIP + %#x]", m.disp)
	case MemKindSIB:
		if !m.hasBase {
			return fmt.Sprintf("[%#x + %s*%#x]", m.disp, m.index, m.Scale())
		}
		return fmt.Sprintf("[%s + %#x + %s*%#x]", m.base, m.disp, m.index, m.Scale())
	default:
		return "[invalid]"
	}
}
