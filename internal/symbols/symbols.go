// Package symbols reads function symbols and code bytes out of the server
// executable on disk.
package symbols

import (
	"fmt"
	"io"
	"os"
	"sort"
)

type rawFile interface {
	Symbols() ([]Symbol, error)
	ReadAt(vaddr uint64, n int) ([]byte, error)
	ImageBase() uint64
}

var objType = []func(io.ReaderAt) (rawFile, error){
	openElf,
}

// Symbol is a named code or data range in the image.
type Symbol struct {
	Name  string
	Value uint64
	Size  uint64
}

// File is an opened executable with its symbols sorted by address.
type File struct {
	f    *os.File
	raw  rawFile
	syms []Symbol
}

// Open recognizes the executable format of name and loads its symbol table.
// A stripped image opens fine and has no symbols.
func Open(name string) (*File, error) {
	r, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	for _, try := range objType {
		raw, err := try(r)
		if err != nil {
			continue
		}
		syms, err := raw.Symbols()
		if err != nil {
			r.Close()
			return nil, err
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i].Value < syms[j].Value })
		return &File{f: r, raw: raw, syms: syms}, nil
	}
	r.Close()
	return nil, fmt.Errorf("open %s: unrecognized object file", name)
}

func (f *File) Close() error { return f.f.Close() }

// Symbols returns name to address for every symbol.
func (f *File) Symbols() map[string]uintptr {
	out := make(map[string]uintptr, len(f.syms))
	for _, s := range f.syms {
		out[s.Name] = uintptr(s.Value)
	}
	return out
}

// At returns the symbol whose range covers addr, and addr's offset in it.
// Symbols without a size only match their exact address.
func (f *File) At(addr uint64) (Symbol, uint64, bool) {
	i := sort.Search(len(f.syms), func(i int) bool { return f.syms[i].Value > addr }) - 1
	for ; i >= 0; i-- {
		s := f.syms[i]
		if s.Value == addr || addr < s.Value+s.Size {
			return s, addr - s.Value, true
		}
		if s.Value < addr && s.Size != 0 {
			break
		}
	}
	return Symbol{}, 0, false
}

// ReadAt reads n bytes of the loaded image at the link-time address vaddr.
func (f *File) ReadAt(vaddr uint64, n int) ([]byte, error) {
	return f.raw.ReadAt(vaddr, n)
}

// ImageBase is the link-time address offsets are relative to.
func (f *File) ImageBase() uint64 { return f.raw.ImageBase() }
