package asm

import (
	"encoding/binary"
	"fmt"
)

// MaxInstructionLength is the architectural ceiling on the length of a single instruction.
const MaxInstructionLength = 15

// Capacity is implemented by the marker types which fix the maximum length of a FlexBytes.
type Capacity interface {
	capacity() int
}

type (
	// CapOpcode bounds opcodes: 1 to 3 bytes.
	CapOpcode struct{}
	// CapDisplacement bounds address displacements: 0, 1 or 4 bytes.
	CapDisplacement struct{}
	// CapImmediate bounds immediates: up to 8 bytes.
	CapImmediate struct{}
	// CapInstruction bounds a whole serialized instruction.
	CapInstruction struct{}
)

func (CapOpcode) capacity() int       { return 3 }
func (CapDisplacement) capacity() int { return 4 }
func (CapImmediate) capacity() int    { return 8 }
func (CapInstruction) capacity() int  { return MaxInstructionLength }

// FlexBytes is an owned byte sequence whose length is chosen at construction
// time but can never exceed the capacity C. It never allocates: the storage is
// an inline array, so copying a FlexBytes copies its contents.
//
// The zero value is an empty buffer.
type FlexBytes[C Capacity] struct {
	bytes [MaxInstructionLength]byte
	len   uint8
}

func capacityOf[C Capacity]() int {
	var c C
	return c.capacity()
}

// NewFlexBytes returns a zero-filled FlexBytes of the given length.
func NewFlexBytes[C Capacity](length int) (FlexBytes[C], error) {
	if limit := capacityOf[C](); length < 0 || length > limit {
		return FlexBytes[C]{}, fmt.Errorf("%w: length %d must be within [0, %d]", ErrCapacityExceeded, length, limit)
	}
	return FlexBytes[C]{len: uint8(length)}, nil
}

// FlexBytesFrom copies the given bytes.
func FlexBytesFrom[C Capacity](b ...byte) (FlexBytes[C], error) {
	ret, err := NewFlexBytes[C](len(b))
	if err != nil {
		return ret, err
	}
	copy(ret.bytes[:], b)
	return ret, nil
}

// FlexBytesFromByte returns a single byte buffer. Every capacity holds at least one byte.
func FlexBytesFromByte[C Capacity](b byte) FlexBytes[C] {
	ret := FlexBytes[C]{len: 1}
	ret.bytes[0] = b
	return ret
}

// FlexBytesFromUint32 returns v in little-endian order.
func FlexBytesFromUint32[C Capacity](v uint32) (FlexBytes[C], error) {
	ret, err := NewFlexBytes[C](4)
	if err != nil {
		return ret, err
	}
	binary.LittleEndian.PutUint32(ret.bytes[:4], v)
	return ret, nil
}

// FlexBytesFromUint64 returns v in little-endian order.
func FlexBytesFromUint64[C Capacity](v uint64) (FlexBytes[C], error) {
	ret, err := NewFlexBytes[C](8)
	if err != nil {
		return ret, err
	}
	binary.LittleEndian.PutUint64(ret.bytes[:8], v)
	return ret, nil
}

// Len returns the number of bytes held.
func (f FlexBytes[C]) Len() int {
	return int(f.len)
}

// IsEmpty returns true if Len is zero.
func (f FlexBytes[C]) IsEmpty() bool {
	return f.len == 0
}

// Cap returns the capacity fixed by C.
func (f FlexBytes[C]) Cap() int {
	return capacityOf[C]()
}

// Bytes returns a read view of exactly Len bytes. The view is a copy's, so
// writes to it are not reflected in f; use BytesMut for that.
func (f FlexBytes[C]) Bytes() []byte {
	return f.bytes[:f.len:f.len]
}

// BytesMut returns a writable view of exactly Len bytes backed by f.
func (f *FlexBytes[C]) BytesMut() []byte {
	return f.bytes[:f.len:f.len]
}
