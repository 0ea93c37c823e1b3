package amd64

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	goasm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
)

// The tests in this file compare the encoders against the Go assembler.
//
// Displacements in [128, 256] are left out on purpose: the Go assembler uses
// a 32-bit displacement for them. RIP-relative operands are left out since
// the Go assembler only emits them for symbol references.

// goasmDisps are the displacements for which both encoders must agree.
var goasmDisps = []uint32{0, 1, 42, 127, 257, 0x1000, 0x7fffffff}

func goasmReg(r Reg64) int16 {
	// REG_AX to REG_R15 follow the hardware encoding.
	return int16(x86.REG_AX) + int16(r)
}

func goasmMem(m Mem64) obj.Addr {
	ret := obj.Addr{Type: obj.TYPE_MEM, Offset: int64(m.Disp())}
	if base, ok := m.Base(); ok {
		ret.Reg = goasmReg(base)
	}
	if index, ok := m.Index(); ok {
		ret.Index = goasmReg(index)
		ret.Scale = int16(m.Scale())
	}
	return ret
}

// goasmAssemble returns the machine code of the single instruction built by setup.
func goasmAssemble(t *testing.T, setup func(p *obj.Prog)) []byte {
	b, err := goasm.NewBuilder("amd64", 1024)
	require.NoError(t, err)
	p := b.NewProg()
	setup(p)
	b.AddInstruction(p)
	return b.Assemble()
}

// goasmMems lists the memory operands the Go assembler encodes the same way.
func goasmMems(t *testing.T) (ret []Mem64) {
	for _, base := range allReg64 {
		for _, disp := range goasmDisps {
			ret = append(ret, mustRegOffset(t, base, disp))
			for _, index := range []Reg64{RAX, RBP, R12, R13} {
				for _, scale := range []byte{1, 8} {
					ret = append(ret, mustScaledIndex(t, base, index, scale, disp))
				}
			}
		}
	}
	for _, disp := range goasmDisps {
		m, err := ScaledIndexNoBase(RDX, 2, disp)
		require.NoError(t, err)
		ret = append(ret, m)
	}
	return
}

func TestLea_golangAsm(t *testing.T) {
	mems := goasmMems(t)
	for _, dst := range []Reg64{RAX, RSP, RBP, R8, R12, R15} {
		for _, src := range mems {
			t.Run(fmt.Sprintf("%s, %s", dst, src), func(t *testing.T) {
				code, err := Lea(dst, src)
				require.NoError(t, err)

				expected := goasmAssemble(t, func(p *obj.Prog) {
					p.As = x86.ALEAQ
					p.From = goasmMem(src)
					p.To.Type = obj.TYPE_REG
					p.To.Reg = goasmReg(dst)
				})
				require.Equal(t, expected, code.Bytes())
			})
		}
	}
}

func TestMovMemReg_golangAsm(t *testing.T) {
	mems := goasmMems(t)
	for _, src := range []Reg64{RAX, RSP, RBP, R8, R13, R15} {
		for _, dst := range mems {
			t.Run(fmt.Sprintf("%s, %s", dst, src), func(t *testing.T) {
				code, err := MovMemReg(dst, src)
				require.NoError(t, err)

				expected := goasmAssemble(t, func(p *obj.Prog) {
					p.As = x86.AMOVQ
					p.From.Type = obj.TYPE_REG
					p.From.Reg = goasmReg(src)
					p.To = goasmMem(dst)
				})
				require.Equal(t, expected, code.Bytes())
			})
		}
	}
}

func TestMovRegMem_golangAsm(t *testing.T) {
	for _, dst := range []Reg64{RCX, R9} {
		for _, src := range goasmMems(t) {
			code, err := MovRegMem(dst, src)
			require.NoError(t, err)

			expected := goasmAssemble(t, func(p *obj.Prog) {
				p.As = x86.AMOVQ
				p.From = goasmMem(src)
				p.To.Type = obj.TYPE_REG
				p.To.Reg = goasmReg(dst)
			})
			require.Equal(t, expected, code.Bytes(), "%s, %s", dst, src)
		}
	}
}

func TestMovRegImm_golangAsm(t *testing.T) {
	// Only immediates which need all 64 bits, as the Go assembler
	// picks shorter forms for the others.
	for _, imm := range []uint64{0x123456789abcdef0, 0xfedcba9876543210, 1 << 63, 0xfffffffeffffffff} {
		for _, dst := range allReg64 {
			code, err := MovRegImm(dst, imm)
			require.NoError(t, err)

			expected := goasmAssemble(t, func(p *obj.Prog) {
				p.As = x86.AMOVQ
				p.From.Type = obj.TYPE_CONST
				p.From.Offset = int64(imm)
				p.To.Type = obj.TYPE_REG
				p.To.Reg = goasmReg(dst)
			})
			require.Equal(t, expected, code.Bytes(), "%s, %#x", dst, imm)
		}
	}
}
