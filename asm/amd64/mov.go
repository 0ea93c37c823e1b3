package amd64

import "github.com/tetratelabs/amd64asm/asm"

// MovRMReg encodes MOV dst, src where dst is a register or memory: REX.W + 89 /r.
//
// https://www.felixcloutier.com/x86/mov
func MovRMReg(dst RegMem64, src Reg64) (ByteCode, error) {
	return encodeRegRM(opcodeMovRMReg, src, dst)
}

// MovMemReg encodes a 64-bit store of src into dst.
func MovMemReg(dst Mem64, src Reg64) (ByteCode, error) {
	return MovRMReg(RegMemMem(dst), src)
}

// MovRegReg encodes a 64-bit copy of src into dst.
func MovRegReg(dst, src Reg64) (ByteCode, error) {
	return MovRMReg(RegMemReg(dst), src)
}

// MovRegMem encodes a 64-bit load of src into dst: REX.W + 8B /r.
func MovRegMem(dst Reg64, src Mem64) (ByteCode, error) {
	return encodeRegRM(opcodeMovRegRM, dst, RegMemMem(src))
}

// MovRegImm encodes MOV dst, imm with a full 8-byte immediate: REX.W + B8+rd io.
func MovRegImm(dst Reg64, imm uint64) (code ByteCode, err error) {
	if err = validateRegs(dst); err != nil {
		return
	}

	code = NewByteCode()
	must(code.SetRex(NewRex(true, false, false, dst.RexB())))
	// The register is added to the opcode instead of being placed on ModR/M.
	must(code.SetOpcode(asm.FlexBytesFromByte[asm.CapOpcode](opcodeMovRegImm + dst.Low3())))

	b, err := asm.FlexBytesFromUint64[asm.CapImmediate](imm)
	must(err)
	must(code.SetImmediate(b))
	return
}
