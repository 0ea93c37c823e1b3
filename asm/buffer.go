package asm

import "encoding/binary"

// CodeBuffer is a growable sequence of encoded instructions.
//
// Unlike FlexBytes, which holds at most one instruction, CodeBuffer holds the
// output of a whole function or program and grows on demand.
//
// The zero value is a valid, empty buffer.
type CodeBuffer struct {
	code []byte
}

// NewCodeBuffer returns a CodeBuffer which can hold capacity bytes before growing.
func NewCodeBuffer(capacity int) *CodeBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &CodeBuffer{code: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written so far.
func (buf *CodeBuffer) Len() int {
	return len(buf.code)
}

// Cap returns the number of bytes the buffer can hold without growing.
func (buf *CodeBuffer) Cap() int {
	return cap(buf.code)
}

// Bytes returns the bytes written so far.
//
// The returned slice remains valid until more bytes are written to the
// buffer, or Reset or Truncate is called.
func (buf *CodeBuffer) Bytes() []byte {
	return buf.code
}

// Reset discards all the written bytes, keeping the allocated memory.
func (buf *CodeBuffer) Reset() {
	buf.code = buf.code[:0]
}

// Truncate discards all but the first n bytes. It panics if n is out of range.
func (buf *CodeBuffer) Truncate(n int) {
	if n < 0 || n > len(buf.code) {
		panic("BUG: truncation out of range")
	}
	buf.code = buf.code[:n]
}

// Append extends the buffer by n zero bytes and returns them for writing.
func (buf *CodeBuffer) Append(n int) []byte {
	i := len(buf.code)
	j := i + n
	if j > cap(buf.code) {
		buf.grow(n)
	}
	buf.code = buf.code[:j]
	b := buf.code[i:j:j]
	for k := range b {
		b[k] = 0
	}
	return b
}

// AppendByte writes a single byte.
func (buf *CodeBuffer) AppendByte(b byte) {
	buf.code = append(buf.code, b)
}

// AppendBytes writes b.
func (buf *CodeBuffer) AppendBytes(b []byte) {
	buf.code = append(buf.code, b...)
}

// AppendUint32 writes u in little-endian order.
func (buf *CodeBuffer) AppendUint32(u uint32) {
	binary.LittleEndian.PutUint32(buf.Append(4), u)
}

func (buf *CodeBuffer) grow(n int) {
	size := cap(buf.code)
	want := len(buf.code) + n
	if size == 0 {
		size = 64
	}
	for size < want {
		size *= 2
	}
	b := make([]byte, len(buf.code), size)
	copy(b, buf.code)
	buf.code = b
}
