package amd64

import (
	"encoding/hex"
	"fmt"

	"github.com/tetratelabs/amd64asm/asm"
)

// ByteCode is the encoding of one instruction, assembled from its optional parts.
//
// Serialize emits the parts in the architectural order:
//
//	[legacy prefix] [REX] opcode [ModR/M] [SIB] [displacement] [immediate]
//
// Setters reject any part which would make the instruction longer than
// asm.MaxInstructionLength, so that Serialize never fails.
type ByteCode struct {
	prefix    byte
	hasPrefix bool
	rex       Rex
	hasRex    bool
	opcode    asm.FlexBytes[asm.CapOpcode]
	modRM     ModRM
	hasModRM  bool
	sib       SIB
	hasSIB    bool
	disp      asm.FlexBytes[asm.CapDisplacement]
	imm       asm.FlexBytes[asm.CapImmediate]
}

// NewByteCode returns an empty record whose opcode is a single zero byte.
func NewByteCode() ByteCode {
	return ByteCode{opcode: asm.FlexBytesFromByte[asm.CapOpcode](0)}
}

// Len returns the length of the serialized instruction.
func (c *ByteCode) Len() int {
	return int(bit(c.hasPrefix)) +
		int(bit(c.hasRex)) +
		c.opcode.Len() +
		int(bit(c.hasModRM)) +
		int(bit(c.hasSIB)) +
		c.disp.Len() +
		c.imm.Len()
}

// Prefix returns the legacy prefix, if any.
func (c *ByteCode) Prefix() (byte, bool) { return c.prefix, c.hasPrefix }

// Rex returns the REX prefix, if any.
func (c *ByteCode) Rex() (Rex, bool) { return c.rex, c.hasRex }

// Opcode returns the opcode bytes.
func (c *ByteCode) Opcode() asm.FlexBytes[asm.CapOpcode] { return c.opcode }

// ModRM returns the ModR/M byte, if any.
func (c *ByteCode) ModRM() (ModRM, bool) { return c.modRM, c.hasModRM }

// SIB returns the SIB byte, if any.
func (c *ByteCode) SIB() (SIB, bool) { return c.sib, c.hasSIB }

// Displacement returns the address displacement bytes.
func (c *ByteCode) Displacement() asm.FlexBytes[asm.CapDisplacement] { return c.disp }

// Immediate returns the immediate bytes.
func (c *ByteCode) Immediate() asm.FlexBytes[asm.CapImmediate] { return c.imm }

// SetPrefix sets the legacy prefix, e.g. 0x66 for 16-bit operand size.
func (c *ByteCode) SetPrefix(prefix byte) error {
	if !c.hasPrefix {
		if err := c.checkGrowth(1); err != nil {
			return err
		}
	}
	c.prefix, c.hasPrefix = prefix, true
	return nil
}

// SetRex sets the REX prefix.
func (c *ByteCode) SetRex(rex Rex) error {
	if !c.hasRex {
		if err := c.checkGrowth(1); err != nil {
			return err
		}
	}
	c.rex, c.hasRex = rex, true
	return nil
}

// SetOpcode replaces the opcode.
func (c *ByteCode) SetOpcode(opcode asm.FlexBytes[asm.CapOpcode]) error {
	if err := c.checkGrowth(opcode.Len() - c.opcode.Len()); err != nil {
		return err
	}
	c.opcode = opcode
	return nil
}

// SetModRM sets the ModR/M byte.
func (c *ByteCode) SetModRM(modRM ModRM) error {
	if !c.hasModRM {
		if err := c.checkGrowth(1); err != nil {
			return err
		}
	}
	c.modRM, c.hasModRM = modRM, true
	return nil
}

// SetSIB sets the SIB byte.
func (c *ByteCode) SetSIB(sib SIB) error {
	if !c.hasSIB {
		if err := c.checkGrowth(1); err != nil {
			return err
		}
	}
	c.sib, c.hasSIB = sib, true
	return nil
}

// SetDisplacement replaces the address displacement.
func (c *ByteCode) SetDisplacement(disp asm.FlexBytes[asm.CapDisplacement]) error {
	if err := c.checkGrowth(disp.Len() - c.disp.Len()); err != nil {
		return err
	}
	c.disp = disp
	return nil
}

// SetImmediate replaces the immediate.
func (c *ByteCode) SetImmediate(imm asm.FlexBytes[asm.CapImmediate]) error {
	if err := c.checkGrowth(imm.Len() - c.imm.Len()); err != nil {
		return err
	}
	c.imm = imm
	return nil
}

func (c *ByteCode) checkGrowth(n int) error {
	if l := c.Len() + n; l > asm.MaxInstructionLength {
		return fmt.Errorf("%w: instruction length %d exceeds %d", asm.ErrCapacityExceeded, l, asm.MaxInstructionLength)
	}
	return nil
}

// Serialize returns the instruction bytes. Calling it repeatedly yields the same bytes.
func (c *ByteCode) Serialize() asm.FlexBytes[asm.CapInstruction] {
	ret, err := asm.NewFlexBytes[asm.CapInstruction](c.Len())
	if err != nil {
		panic("BUG: " + err.Error())
	}

	b := ret.BytesMut()
	i := 0
	if c.hasPrefix {
		b[i] = c.prefix
		i++
	}
	if c.hasRex {
		b[i] = c.rex.Byte()
		i++
	}
	i += copy(b[i:], c.opcode.Bytes())
	if c.hasModRM {
		b[i] = c.modRM.Byte()
		i++
	}
	if c.hasSIB {
		b[i] = c.sib.Byte()
		i++
	}
	i += copy(b[i:], c.disp.Bytes())
	copy(b[i:], c.imm.Bytes())
	return ret
}

// Bytes is a shorthand for Serialize().Bytes().
func (c *ByteCode) Bytes() []byte {
	s := c.Serialize()
	return s.Bytes()
}

// String implements fmt.Stringer by returning the serialized bytes in hex.
func (c *ByteCode) String() string {
	return hex.EncodeToString(c.Bytes())
}
