package amd64

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"

	"github.com/tetratelabs/amd64asm/asm"
)

func TestPadNOP(t *testing.T) {
	for _, tc := range []struct {
		num         int
		expInstsLen []int
	}{
		{num: 0},
		{num: 1, expInstsLen: []int{1}},
		{num: 5, expInstsLen: []int{5}},
		{num: 9, expInstsLen: []int{9}},
		{num: 10, expInstsLen: []int{9, 1}},
		{num: 31, expInstsLen: []int{9, 9, 9, 4}},
	} {
		buf := asm.NewCodeBuffer(0)
		buf.AppendByte(0xc3)
		PadNOP(buf, tc.num)
		require.Equal(t, 1+tc.num, buf.Len())

		code := buf.Bytes()[1:]
		var actual []int
		for len(code) > 0 {
			inst, err := x86asm.Decode(code, 64)
			require.NoError(t, err)
			require.Equal(t, x86asm.NOP, inst.Op, "%x", code)
			actual = append(actual, inst.Len)
			code = code[inst.Len:]
		}
		require.Equal(t, tc.expInstsLen, actual)
	}
}
