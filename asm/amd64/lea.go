package amd64

// Lea encodes LEA dst, src: dst = the address of src.
//
// https://www.felixcloutier.com/x86/lea
func Lea(dst Reg64, src Mem64) (ByteCode, error) {
	return encodeRegRM(opcodeLea, dst, RegMemMem(src))
}
