// Command rosa-offsets checks an offsets file against a server binary on
// disk: every hooked function must decode into a patchable prologue.
//
//	rosa-offsets [-version 24c] [-v] subrosa.x64
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/hook"
	"github.com/rosa-go/rosaserver/internal/offsets"
	"github.com/rosa-go/rosaserver/internal/symbols"
)

// prologueRead covers the longest prologue the planner may copy.
const prologueRead = 32

var (
	okLabel   = color.New(color.FgGreen).Sprint("ok  ")
	failLabel = color.New(color.Bold, color.FgRed).Sprint("FAIL")
	dim       = color.New(color.Faint).SprintFunc()
)

// image is the part of an opened executable the check reads.
type image interface {
	ReadAt(vaddr uint64, n int) ([]byte, error)
	At(addr uint64) (symbols.Symbol, uint64, bool)
	ImageBase() uint64
}

func main() {
	version := flag.String(
		"version",
		"24c",
		"Offsets file to check, one of the embedded versions")
	verbose := flag.Bool(
		"v",
		false,
		"Print the decoded prologue of every hook")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalln("please specify the server binary")
	}
	v, err := offsets.Load(*version)
	if err != nil {
		log.Fatalf("%s (known: %v)", err, offsets.Versions())
	}
	f, err := symbols.Open(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	if n := check(os.Stdout, f, v, *verbose); n > 0 {
		fmt.Printf("%d of %d hooks cannot be installed\n", n, len(game.Hooks))
		os.Exit(1)
	}
	fmt.Printf("all %d hooks can be installed\n", len(game.Hooks))
}

// check reports on every hook and every called routine and returns the
// number of failures.
func check(w io.Writer, img image, v *offsets.Version, verbose bool) int {
	base := img.ImageBase()
	failed := 0
	for _, def := range game.Hooks {
		off, ok := v.Functions[def.Symbol]
		if !ok {
			fmt.Fprintf(w, "%s %-28s not declared\n", failLabel, def.Symbol)
			failed++
			continue
		}
		addr := base + off
		p, err := plan(img, addr)
		if err != nil {
			fmt.Fprintf(w, "%s %-28s %#x  %v\n", failLabel, def.Symbol, addr, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "%s %-28s %#x  len %2d  %d relocs  %s\n",
			okLabel, def.Symbol, addr, p.Length, len(p.Relocs), dim(symbolAt(img, addr)))
		if verbose {
			for _, in := range p.Insts {
				fmt.Fprintf(w, "       +%02x  %s\n", in.Off, in.Text)
			}
		}
	}

	var missing []string
	for _, name := range game.CallSymbols {
		if _, ok := v.Functions[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		fmt.Fprintf(w, "%s %-28s called but not declared\n", failLabel, name)
	}
	return failed + len(missing)
}

func plan(img image, addr uint64) (*hook.Prologue, error) {
	code, err := img.ReadAt(addr, prologueRead)
	if err != nil {
		return nil, err
	}
	p, err := hook.Plan(code, uintptr(addr))
	if err != nil {
		return nil, err
	}
	// The trampoline must reach every relocated target from next to the
	// original, which is where the engine allocates it.
	if _, err := p.Trampoline(uintptr(addr)); err != nil {
		return nil, err
	}
	return p, nil
}

func symbolAt(img image, addr uint64) string {
	s, off, ok := img.At(addr)
	switch {
	case !ok:
		return "(no symbol)"
	case off == 0:
		return s.Name
	}
	return fmt.Sprintf("%s+%#x", s.Name, off)
}
