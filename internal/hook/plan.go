package hook

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/arch/x86/x86asm"
)

const (
	// MOV R11, imm64; JMP R11
	patchLen = 13
	// longest prologue that can be copied: patchLen-1 plus one maximal instruction
	maxPrologue = patchLen - 1 + 15
	// JMP [RIP+0]; imm64
	indirectJmpLen = 14
)

// Inst is one decoded prologue instruction.
type Inst struct {
	Off  int
	Len  int
	Text string
}

// Reloc is a rel32 field that must be rewritten when the instruction moves.
type Reloc struct {
	// offset of the 4-byte displacement within the prologue
	Off int
	// offset of the end of its instruction, which RIP points at
	End int
	// absolute address the displacement resolves to at the original location
	Target uintptr
}

// Prologue is the decoded region that a hook overwrites.
type Prologue struct {
	Addr   uintptr
	Length int
	Code   []byte
	Insts  []Inst
	Relocs []Reloc
	// R11 appears in a copied instruction, so the trampoline cannot use it
	// to jump back.
	UsesR11 bool
}

// Plan decodes whole instructions from code, which is located at addr, until
// at least a patch fits. It fails when an instruction cannot be moved.
func Plan(code []byte, addr uintptr) (*Prologue, error) {
	p := &Prologue{Addr: addr}
	for p.Length < patchLen {
		if p.Length >= len(code) {
			return nil, ErrTooShort
		}
		inst, err := x86asm.Decode(code[p.Length:], 64)
		if err != nil {
			return nil, fmt.Errorf("decode at +%#x: %w", p.Length, err)
		}
		if isDebug {
			println(" instr:", p.Length, "len:", inst.Len, "opcode:", inst.String())
		}
		off := p.Length
		p.Insts = append(p.Insts, Inst{Off: off, Len: inst.Len, Text: x86asm.GNUSyntax(inst, uint64(addr)+uint64(off), nil)})
		p.Length += inst.Len
		if usesR11(inst) {
			p.UsesR11 = true
		}

		switch inst.PCRel {
		case 0:
		case 4:
			end := off + inst.Len
			disp := int32(binary.LittleEndian.Uint32(code[off+inst.PCRelOff:]))
			p.Relocs = append(p.Relocs, Reloc{
				Off:    off + inst.PCRelOff,
				End:    end,
				Target: uintptr(int64(addr) + int64(end) + int64(disp)),
			})
		default:
			// rel8 and rel16 branches cannot reach outside the copied bytes
			return nil, fmt.Errorf("%w: %s", ErrRelativeAddr, inst.String())
		}

		if p.Length < patchLen && endsFlow(inst) {
			return nil, ErrTooShort
		}
	}
	p.Code = append([]byte(nil), code[:p.Length]...)

	for _, r := range p.Relocs {
		if r.Target >= addr && r.Target < addr+uintptr(p.Length) {
			return nil, fmt.Errorf("%w: target %#x inside patched region", ErrRelativeAddr, r.Target)
		}
	}
	return p, nil
}

func endsFlow(inst x86asm.Inst) bool {
	switch inst.Op {
	case x86asm.RET, x86asm.JMP, x86asm.UD2, x86asm.INT, x86asm.HLT:
		return true
	}
	return false
}

func usesR11(inst x86asm.Inst) bool {
	isR11 := func(r x86asm.Reg) bool {
		return r == x86asm.R11 || r == x86asm.R11L || r == x86asm.R11W || r == x86asm.R11B
	}
	for _, a := range inst.Args {
		if a == nil {
			break
		}
		switch a := a.(type) {
		case x86asm.Reg:
			if isR11(a) {
				return true
			}
		case x86asm.Mem:
			if isR11(a.Base) || isR11(a.Index) {
				return true
			}
		}
	}
	return false
}

// TrampolineSize is the number of bytes Trampoline produces at most.
func (p *Prologue) TrampolineSize() int {
	return p.Length + indirectJmpLen
}

// Trampoline returns the moved prologue followed by a jump back to the
// first instruction after it, relocated to run at at.
func (p *Prologue) Trampoline(at uintptr) ([]byte, error) {
	out := make([]byte, 0, p.TrampolineSize())
	out = append(out, p.Code...)
	for _, r := range p.Relocs {
		disp := int64(r.Target) - int64(at) - int64(r.End)
		if disp < math.MinInt32 || disp > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %#x from %#x", ErrTooFar, r.Target, at)
		}
		binary.LittleEndian.PutUint32(out[r.Off:], uint32(int32(disp)))
	}
	back := uint64(p.Addr) + uint64(p.Length)
	if p.UsesR11 {
		out = append(out, jmpIndirect(back)...)
	} else {
		out = append(out, jmpR11(back)...)
	}
	return out, nil
}

// Patch returns the bytes written over the prologue: a jump to detour padded
// with INT3 up to the prologue length.
func (p *Prologue) Patch(detour uintptr) []byte {
	out := jmpR11(uint64(detour))
	for len(out) < p.Length {
		out = append(out, 0xcc)
	}
	return out
}

func jmpR11(addr uint64) []byte {
	seq := []byte{
		0x49, 0xbb, // MOV R11, addr64
		0, 0, 0, 0, 0, 0, 0, 0,
		0x41, 0xff, 0xe3, // JMP R11
	}
	binary.LittleEndian.PutUint64(seq[2:], addr)
	return seq
}

func jmpIndirect(addr uint64) []byte {
	seq := []byte{
		0xff, 0x25, 0, 0, 0, 0, // JMP [RIP+0]
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	binary.LittleEndian.PutUint64(seq[6:], addr)
	return seq
}
