//go:build linux && amd64

// Package crash handles the signals that end the server.
//
// Fatal signals raised by host code reach a native handler
// (crash_linux_amd64.c) that appends the native backtrace and the Lua
// context to the report file, then re-raises the signal with its default
// disposition. Faults in Go code are passed on to the Go runtime, whose
// crash output goes to the same file. SIGINT and SIGTERM stop the server.
// SIGQUIT writes a report before it is re-raised.
package crash

/*
#include <stdlib.h>
#include "crash.h"
*/
import "C"

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/rosa-go/rosaserver/internal/logging"
)

var scriptContext atomic.Pointer[string]

// Note sets what the Lua environment is running, as a report shows it.
// An empty context means no script is running.
func Note(ctx string) {
	scriptContext.Store(&ctx)
	if len(ctx) == 0 {
		C.rs_crash_note(nil, 0)
		return
	}
	C.rs_crash_note((*C.char)(unsafe.Pointer(unsafe.StringData(ctx))), C.size_t(len(ctx)))
}

func noted() string {
	if p := scriptContext.Load(); p != nil && *p != "" {
		return *p
	}
	return "(none)"
}

type Options struct {
	ReportFile string
	Log        *zap.Logger
	// Stop runs on SIGINT and SIGTERM before the process exits.
	Stop func()
	// Exit defaults to os.Exit.
	Exit func(code int)
}

// Handler owns the process signal handling.
type Handler struct {
	opts  Options
	path  string
	sigs  chan os.Signal
	done  chan struct{}
	raise func(sig os.Signal)
}

func newHandler(opts Options) (*Handler, error) {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	path, err := filepath.Abs(opts.ReportFile)
	if err != nil {
		return nil, err
	}
	return &Handler{
		opts:  opts,
		path:  path,
		sigs:  make(chan os.Signal, 1),
		done:  make(chan struct{}),
		raise: reraise,
	}, nil
}

// Install sets up every handler. It is called once, before hooks go in.
func Install(opts Options) (*Handler, error) {
	h, err := newHandler(opts)
	if err != nil {
		return nil, err
	}
	lo, hi, err := goText()
	if err != nil {
		return nil, fmt.Errorf("crash: %w", err)
	}
	cpath := C.CString(h.path)
	defer C.free(unsafe.Pointer(cpath))
	if rc := C.rs_crash_install(cpath, C.uintptr_t(lo), C.uintptr_t(hi)); rc != 0 {
		return nil, fmt.Errorf("crash: sigaction: %w", syscall.Errno(rc))
	}

	out, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	// SetCrashOutput keeps its own descriptor.
	err = debug.SetCrashOutput(out, debug.CrashOptions{})
	out.Close()
	if err != nil {
		h.opts.Log.Warn("crash output not redirected", zap.Error(err))
	}
	h.watch()
	return h, nil
}

func (h *Handler) watch() {
	signal.Notify(h.sigs, unix.SIGINT, unix.SIGTERM, unix.SIGQUIT)
	go h.loop()
}

func (h *Handler) loop() {
	for {
		select {
		case sig := <-h.sigs:
			h.handle(sig)
		case <-h.done:
			return
		}
	}
}

func (h *Handler) handle(sig os.Signal) {
	switch sig {
	case unix.SIGQUIT:
		if err := h.WriteReport("received " + sig.String()); err != nil {
			h.opts.Log.Error("crash report failed", zap.Error(err))
		} else {
			logging.Banner(false, "report written to "+h.path)
		}
		h.raise(sig)
	default:
		h.opts.Log.Info("shutting down", zap.String("signal", sig.String()))
		if h.opts.Stop != nil {
			h.opts.Stop()
		}
		h.opts.Exit(0)
	}
}

// WriteReport appends a report with the goroutine dump and the Lua
// context.
func (h *Handler) WriteReport(reason string) error {
	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeReport(f, reason)
}

func writeReport(w io.Writer, reason string) error {
	buf := make([]byte, 1<<20)
	buf = buf[:runtime.Stack(buf, true)]
	_, err := fmt.Fprintf(w, "\n==== %s ====\ntime: %s\npid: %d\n\ngoroutines:\n%s\nlua context:\n%s\n",
		reason, time.Now().Format(time.RFC3339), os.Getpid(), buf, noted())
	return err
}

// reraise delivers sig again with its default disposition.
func reraise(sig os.Signal) {
	signal.Reset(sig)
	_ = unix.Kill(unix.Getpid(), sig.(syscall.Signal))
}

// Close stops signal handling. The native handlers stay installed.
func (h *Handler) Close() {
	signal.Stop(h.sigs)
	close(h.done)
}

// goText returns the executable mapping holding this package's code.
func goText() (lo, hi uintptr, err error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	return mappingOf(f, reflect.ValueOf(Install).Pointer())
}

// mappingOf finds the executable mapping containing addr in a
// /proc/<pid>/maps listing.
func mappingOf(r io.Reader, addr uintptr) (lo, hi uintptr, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || !strings.Contains(fields[1], "x") {
			continue
		}
		start, end, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		a, err1 := strconv.ParseUint(start, 16, 64)
		b, err2 := strconv.ParseUint(end, 16, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if uintptr(a) <= addr && addr < uintptr(b) {
			return uintptr(a), uintptr(b), nil
		}
	}
	if err := sc.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, fmt.Errorf("no executable mapping holds %#x", addr)
}
