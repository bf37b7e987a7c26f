package symbols

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
)

type elfFile struct {
	elf *elf.File
}

func openElf(r io.ReaderAt) (rawFile, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &elfFile{f}, nil
}

func (e *elfFile) Symbols() ([]Symbol, error) {
	var out []Symbol
	for _, load := range []func() ([]elf.Symbol, error){e.elf.Symbols, e.elf.DynamicSymbols} {
		syms, err := load()
		if err != nil {
			if errors.Is(err, elf.ErrNoSymbols) {
				continue
			}
			return nil, err
		}
		out = append(out, getElfSyms(syms)...)
	}
	return out, nil
}

func getElfSyms(stab []elf.Symbol) []Symbol {
	out := make([]Symbol, 0, len(stab))
	for _, k := range stab {
		if k.Name == "" || k.Section == elf.SHN_UNDEF {
			continue
		}
		out = append(out, Symbol{Name: k.Name, Value: k.Value, Size: k.Size})
	}
	return out
}

// ReadAt maps vaddr through the loadable segments.
func (e *elfFile) ReadAt(vaddr uint64, n int) ([]byte, error) {
	for _, p := range e.elf.Progs {
		if p.Type != elf.PT_LOAD || vaddr < p.Vaddr || vaddr >= p.Vaddr+p.Filesz {
			continue
		}
		if avail := p.Vaddr + p.Filesz - vaddr; uint64(n) > avail {
			n = int(avail)
		}
		buf := make([]byte, n)
		if _, err := p.ReadAt(buf, int64(vaddr-p.Vaddr)); err != nil && err != io.EOF {
			return nil, err
		}
		return buf, nil
	}
	return nil, fmt.Errorf("address %#x not in a loadable segment", vaddr)
}

// ImageBase is the page of the lowest loadable segment, which is where the
// process maps the image when it is not relocated.
func (e *elfFile) ImageBase() uint64 {
	base := ^uint64(0)
	for _, p := range e.elf.Progs {
		if p.Type == elf.PT_LOAD && p.Vaddr < base {
			base = p.Vaddr
		}
	}
	if base == ^uint64(0) {
		return 0
	}
	return base &^ 0xfff
}
