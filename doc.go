// Package amd64asm assembles x86-64 machine code.
//
// The encoders live in package asm/amd64: each one turns operands into an
// amd64.ByteCode, a record of the prefix, REX, opcode, ModR/M, SIB,
// displacement and immediate parts of one instruction. Assembler appends
// those records to a growable code buffer for callers that generate whole
// functions.
//
// See https://www.felixcloutier.com/x86/index.html for the instruction reference.
package amd64asm
