package amd64asm

import (
	"fmt"
	"math/bits"
)

// AssemblerConfig controls Assembler behavior, with the default implementation as NewAssemblerConfig.
type AssemblerConfig struct {
	initialCapacity int
	alignment       int
	nopPadding      bool
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &AssemblerConfig{
	initialCapacity: 1024,
	alignment:       1,
	nopPadding:      true,
}

// clone ensures all fields are copied.
func (c *AssemblerConfig) clone() *AssemblerConfig {
	ret := *c
	return &ret
}

// NewAssemblerConfig returns the default configuration: 1KiB of initial capacity, no alignment and NOP padding.
func NewAssemblerConfig() *AssemblerConfig {
	return defaultConfig.clone()
}

// WithInitialCapacity sets the number of bytes reserved for code up front. Negative values are treated as zero.
func (c *AssemblerConfig) WithInitialCapacity(n int) *AssemblerConfig {
	if n < 0 {
		n = 0
	}
	ret := c.clone()
	ret.initialCapacity = n
	return ret
}

// WithAlignment sets the byte boundary Assembler.Align pads to. Defaults to 1, which disables padding.
//
// Note: This panics if n is not a positive power of two.
func (c *AssemblerConfig) WithAlignment(n int) *AssemblerConfig {
	if n <= 0 || bits.OnesCount(uint(n)) != 1 {
		panic(fmt.Errorf("alignment must be a positive power of two but was %d", n))
	}
	ret := c.clone()
	ret.alignment = n
	return ret
}

// WithNOPPadding chooses between multi-byte NOP instructions (true, the default) and zero bytes when padding.
//
// Padding with NOPs keeps the code valid if execution falls through the padding.
func (c *AssemblerConfig) WithNOPPadding(enabled bool) *AssemblerConfig {
	ret := c.clone()
	ret.nopPadding = enabled
	return ret
}
