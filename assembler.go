package amd64asm

import (
	"github.com/tetratelabs/amd64asm/asm"
	"github.com/tetratelabs/amd64asm/asm/amd64"
)

// Assembler accumulates encoded instructions into a single code buffer.
//
// Each method returns the offset of what it wrote from the start of the
// buffer, so that callers can patch or reference it later.
//
// Note: An Assembler is not safe for concurrent use. The encoders in package
// amd64 share no state, so independent Assemblers can run in parallel.
type Assembler struct {
	config  *AssemblerConfig
	buf     *asm.CodeBuffer
	offsets []int
}

// NewAssembler returns an empty Assembler. A nil config means NewAssemblerConfig.
func NewAssembler(config *AssemblerConfig) *Assembler {
	if config == nil {
		config = NewAssemblerConfig()
	}
	return &Assembler{config: config, buf: asm.NewCodeBuffer(config.initialCapacity)}
}

// Emit appends the serialized code and returns its offset.
func (a *Assembler) Emit(code *amd64.ByteCode) int {
	offset := a.buf.Len()
	s := code.Serialize()
	copy(a.buf.Append(s.Len()), s.Bytes())
	a.offsets = append(a.offsets, offset)
	return offset
}

func (a *Assembler) emit(code amd64.ByteCode, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	return a.Emit(&code), nil
}

// Lea appends LEA dst, src. See amd64.Lea.
func (a *Assembler) Lea(dst amd64.Reg64, src amd64.Mem64) (int, error) {
	return a.emit(amd64.Lea(dst, src))
}

// MovMemReg appends MOV dst, src storing a register. See amd64.MovMemReg.
func (a *Assembler) MovMemReg(dst amd64.Mem64, src amd64.Reg64) (int, error) {
	return a.emit(amd64.MovMemReg(dst, src))
}

// MovRegMem appends MOV dst, src loading a register. See amd64.MovRegMem.
func (a *Assembler) MovRegMem(dst amd64.Reg64, src amd64.Mem64) (int, error) {
	return a.emit(amd64.MovRegMem(dst, src))
}

// MovRegReg appends MOV dst, src between registers.
func (a *Assembler) MovRegReg(dst, src amd64.Reg64) (int, error) {
	return a.emit(amd64.MovRegReg(dst, src))
}

// MovRegImm appends MOV dst, imm with a 64-bit immediate.
func (a *Assembler) MovRegImm(dst amd64.Reg64, imm uint64) (int, error) {
	return a.emit(amd64.MovRegImm(dst, imm))
}

// EmitUint32 appends a 32-bit little-endian constant, such as a jump table entry, and returns its offset.
// Constants are not instructions, so they don't show up in Offsets.
func (a *Assembler) EmitUint32(v uint32) int {
	offset := a.buf.Len()
	a.buf.AppendUint32(v)
	return offset
}

// Align pads the code up to the configured alignment and returns the number of bytes added.
func (a *Assembler) Align() int {
	align := a.config.alignment
	num := (align - a.buf.Len()%align) % align
	if num == 0 {
		return 0
	}
	if a.config.nopPadding {
		amd64.PadNOP(a.buf, num)
	} else {
		a.buf.Append(num)
	}
	return num
}

// Offsets returns the offset of every instruction emitted so far, in order.
func (a *Assembler) Offsets() []int {
	ret := make([]int, len(a.offsets))
	copy(ret, a.offsets)
	return ret
}

// Len returns the number of bytes emitted so far.
func (a *Assembler) Len() int {
	return a.buf.Len()
}

// Bytes returns the code emitted so far. The slice is only valid until the next write.
func (a *Assembler) Bytes() []byte {
	return a.buf.Bytes()
}

// Reset discards the emitted code, keeping the allocated memory.
func (a *Assembler) Reset() {
	a.buf.Reset()
	a.offsets = a.offsets[:0]
}
