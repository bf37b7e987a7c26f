// Package logging builds the zap loggers shared by every component.
package logging

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	bannerOK   = color.New(color.Bold, color.FgHiGreen).SprintFunc()
	bannerFail = color.New(color.Bold, color.BgRed, color.FgHiWhite).SprintFunc()
)

// New returns a console logger writing to stderr at the given level
// ("debug", "info", "warn", "error"). An unknown level falls back to info.
func New(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if !color.NoColor {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core)
}

// Banner prints a one-line colored status message on stderr, outside the
// structured log stream, the way the server console shows attach progress.
func Banner(ok bool, msg string) {
	if ok {
		fmt.Fprintln(os.Stderr, bannerOK(" RS "), msg)
		return
	}
	fmt.Fprintln(os.Stderr, bannerFail(" RS "), msg)
}
