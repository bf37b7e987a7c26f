package offsets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrBaseNotFound means the process image could not be located in its own
// memory map.
var ErrBaseNotFound = errors.New("load base not found")

// ParseMaps returns the load base of the mapping backing exe: the start of
// the first line whose path is exe. Without a matching line the first
// mapping's start is used, which is the main image on a non-PIE layout.
func ParseMaps(r io.Reader, exe string) (uintptr, error) {
	var first uintptr
	haveFirst := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		lo, _, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		start, err := strconv.ParseUint(lo, 16, 64)
		if err != nil {
			continue
		}
		if !haveFirst {
			first, haveFirst = uintptr(start), true
		}
		if exe != "" && len(fields) >= 6 && strings.Join(fields[5:], " ") == exe {
			return uintptr(start), nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBaseNotFound, err)
	}
	if !haveFirst {
		return 0, ErrBaseNotFound
	}
	return first, nil
}

var (
	baseOnce sync.Once
	baseAddr uintptr
	baseErr  error
)

// ProcessBase reads /proc/self/maps the first time it is called and returns
// the same answer afterwards.
func ProcessBase(log *zap.Logger) (uintptr, error) {
	baseOnce.Do(func() {
		exe, _ := os.Readlink("/proc/self/exe")
		f, err := os.Open("/proc/self/maps")
		if err != nil {
			baseErr = fmt.Errorf("%w: %v", ErrBaseNotFound, err)
			return
		}
		defer f.Close()
		baseAddr, baseErr = ParseMaps(f, exe)
		if baseErr == nil {
			log.Info("base address", zap.String("addr", fmt.Sprintf("%#x", baseAddr)), zap.String("image", exe))
		}
	})
	return baseAddr, baseErr
}
