package amd64

import (
	"fmt"

	"github.com/tetratelabs/amd64asm/asm"
)

// ModR/M mode field values.
//
// See https://wiki.osdev.org/X86-64_Instruction_Encoding#ModR.2FM
const (
	// ModeNoDisp addresses [rm] without displacement.
	ModeNoDisp byte = 0b00
	// ModeDisp8 addresses [rm + disp8].
	ModeDisp8 byte = 0b01
	// ModeDisp32 addresses [rm + disp32].
	ModeDisp32 byte = 0b10
	// ModeDirect uses rm as a register operand.
	ModeDirect byte = 0b11
)

const (
	// rmSIB on ModR/M rm with a memory mode means a SIB byte follows. Collides with RSP and R12.
	rmSIB byte = 0b100
	// rmRIPRelative on ModR/M rm with ModeNoDisp means [RIP + disp32]. Collides with RBP and R13.
	rmRIPRelative byte = 0b101
	// sibNoIndex on SIB index means no index register. Collides with RSP.
	sibNoIndex byte = 0b100
	// sibNoBase on SIB base with ModeNoDisp means no base register and disp32 follows.
	sibNoBase byte = 0b101
)

func checkField(name string, v, limit byte) error {
	if v > limit {
		return fmt.Errorf("%w: %s must be at most %#b but got %#b", asm.ErrFieldOutOfRange, name, limit, v)
	}
	return nil
}

// Rex is a REX prefix byte: 0100WRXB.
//
// See https://wiki.osdev.org/X86-64_Instruction_Encoding#REX_prefix
type Rex byte

// REX prefixes are independent of each other and can be combined with OR.
const (
	rexDefault Rex = 0b0100_0000
	rexW       Rex = 0b0000_1000
	rexR       Rex = 0b0000_0100
	rexX       Rex = 0b0000_0010
	rexB       Rex = 0b0000_0001
)

// NewRex returns a REX prefix with the given flags.
func NewRex(w, r, x, b bool) Rex {
	rex := rexDefault
	rex.SetW(w)
	rex.SetR(r)
	rex.SetX(x)
	rex.SetB(b)
	return rex
}

// RexFromRaw validates that raw has the fixed 0100 high nibble.
func RexFromRaw(raw byte) (Rex, error) {
	if raw&0xf0 != byte(rexDefault) {
		return 0, fmt.Errorf("%w: %#x", asm.ErrInvalidRex, raw)
	}
	return Rex(raw), nil
}

// Byte returns the encoded prefix.
func (rex Rex) Byte() byte { return byte(rex) }

// W is set for 64-bit operand size.
func (rex Rex) W() bool { return rex&rexW != 0 }

// R extends ModR/M reg.
func (rex Rex) R() bool { return rex&rexR != 0 }

// X extends SIB index.
func (rex Rex) X() bool { return rex&rexX != 0 }

// B extends ModR/M rm, SIB base or the register embedded in the opcode.
func (rex Rex) B() bool { return rex&rexB != 0 }

func (rex *Rex) set(bit Rex, flag bool) {
	if flag {
		*rex |= bit
	} else {
		*rex &^= bit
	}
}

func (rex *Rex) SetW(flag bool) { rex.set(rexW, flag) }
func (rex *Rex) SetR(flag bool) { rex.set(rexR, flag) }
func (rex *Rex) SetX(flag bool) { rex.set(rexX, flag) }
func (rex *Rex) SetB(flag bool) { rex.set(rexB, flag) }

// String implements fmt.Stringer.
func (rex Rex) String() string {
	return fmt.Sprintf("REX(W=%d R=%d X=%d B=%d)", bit(rex.W()), bit(rex.R()), bit(rex.X()), bit(rex.B()))
}

func bit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// ModRM is a ModR/M byte: mode(2) | reg(3) | rm(3).
type ModRM byte

// NewModRM returns the ModR/M byte for the given fields.
func NewModRM(mode, reg, rm byte) (ModRM, error) {
	var m ModRM
	if err := m.SetMode(mode); err != nil {
		return 0, err
	}
	if err := m.SetReg(reg); err != nil {
		return 0, err
	}
	if err := m.SetRM(rm); err != nil {
		return 0, err
	}
	return m, nil
}

// ModRMFromRaw wraps raw. Every byte is a valid ModR/M.
func ModRMFromRaw(raw byte) ModRM { return ModRM(raw) }

// Byte returns the encoded byte.
func (m ModRM) Byte() byte { return byte(m) }

func (m ModRM) Mode() byte { return byte(m) >> 6 }
func (m ModRM) Reg() byte  { return (byte(m) >> 3) & 0b111 }
func (m ModRM) RM() byte   { return byte(m) & 0b111 }

// SetMode sets the 2-bit mode field.
func (m *ModRM) SetMode(mode byte) error {
	if err := checkField("ModR/M mode", mode, 0b11); err != nil {
		return err
	}
	*m = ModRM(byte(*m)&0b00_111_111 | mode<<6)
	return nil
}

// SetReg sets the 3-bit reg field.
func (m *ModRM) SetReg(reg byte) error {
	if err := checkField("ModR/M reg", reg, 0b111); err != nil {
		return err
	}
	*m = ModRM(byte(*m)&0b11_000_111 | reg<<3)
	return nil
}

// SetRM sets the 3-bit rm field.
func (m *ModRM) SetRM(rm byte) error {
	if err := checkField("ModR/M rm", rm, 0b111); err != nil {
		return err
	}
	*m = ModRM(byte(*m)&0b11_111_000 | rm)
	return nil
}

// String implements fmt.Stringer.
func (m ModRM) String() string {
	return fmt.Sprintf("ModRM(mode=%02b reg=%03b rm=%03b)", m.Mode(), m.Reg(), m.RM())
}

// SIB is a Scale-Index-Base byte: scale(2) | index(3) | base(3).
//
// The scale field is log2 of the multiplier: 0 for 1, 1 for 2, 2 for 4 and 3 for 8.
type SIB byte

// NewSIB returns the SIB byte for the given fields.
func NewSIB(scale, index, base byte) (SIB, error) {
	var s SIB
	if err := s.SetScale(scale); err != nil {
		return 0, err
	}
	if err := s.SetIndex(index); err != nil {
		return 0, err
	}
	if err := s.SetBase(base); err != nil {
		return 0, err
	}
	return s, nil
}

// SIBFromRaw wraps raw. Every byte is a valid SIB.
func SIBFromRaw(raw byte) SIB { return SIB(raw) }

// Byte returns the encoded byte.
func (s SIB) Byte() byte { return byte(s) }

func (s SIB) Scale() byte { return byte(s) >> 6 }
func (s SIB) Index() byte { return (byte(s) >> 3) & 0b111 }
func (s SIB) Base() byte  { return byte(s) & 0b111 }

// SetScale sets the 2-bit scale field.
func (s *SIB) SetScale(scale byte) error {
	if err := checkField("SIB scale", scale, 0b11); err != nil {
		return err
	}
	*s = SIB(byte(*s)&0b00_111_111 | scale<<6)
	return nil
}

// SetIndex sets the 3-bit index field.
func (s *SIB) SetIndex(index byte) error {
	if err := checkField("SIB index", index, 0b111); err != nil {
		return err
	}
	*s = SIB(byte(*s)&0b11_000_111 | index<<3)
	return nil
}

// SetBase sets the 3-bit base field.
func (s *SIB) SetBase(base byte) error {
	if err := checkField("SIB base", base, 0b111); err != nil {
		return err
	}
	*s = SIB(byte(*s)&0b11_111_000 | base)
	return nil
}

// String implements fmt.Stringer.
func (s SIB) String() string {
	return fmt.Sprintf("SIB(scale=%02b index=%03b base=%03b)", s.Scale(), s.Index(), s.Base())
}

// mustModRM and mustSIB are used where fields come from Reg64.Low3 or resolver
// constants, which are in range by construction.
func mustModRM(mode, reg, rm byte) ModRM {
	m, err := NewModRM(mode, reg, rm)
	if err != nil {
		panic("BUG: " + err.Error())
	}
	return m
}

func mustSIB(scale, index, base byte) SIB {
	s, err := NewSIB(scale, index, base)
	if err != nil {
		panic("BUG: " + err.Error())
	}
	return s
}
