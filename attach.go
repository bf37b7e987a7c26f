//go:build linux && amd64

package rosaserver

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver/internal/callbacks"
	"github.com/rosa-go/rosaserver/internal/config"
	"github.com/rosa-go/rosaserver/internal/crash"
	"github.com/rosa-go/rosaserver/internal/engine"
	"github.com/rosa-go/rosaserver/internal/hook"
	"github.com/rosa-go/rosaserver/internal/logging"
	"github.com/rosa-go/rosaserver/internal/offsets"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

// Attach brings the extension up inside the host process: signal handlers,
// address resolution, hooks. The environment itself is built lazily by the
// host's first reset. The returned logger is usable even when err is set.
func Attach() (*Controller, *zap.Logger, error) {
	os.Unsetenv("LD_PRELOAD")

	cfg, err := config.LoadDefault()
	log := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, log, err
	}

	var ctl atomic.Pointer[Controller]
	if _, err = crash.Install(crash.Options{
		ReportFile: cfg.Crash.ReportFile,
		Log:        log.Named("crash"),
		Stop: func() {
			if c := ctl.Load(); c != nil {
				c.Close()
			}
		},
	}); err != nil {
		return nil, log, err
	}

	version, err := offsets.Load(cfg.Version)
	if err != nil {
		return nil, log, err
	}
	base, err := offsets.ProcessBase(log)
	if err != nil {
		return nil, log, err
	}
	tab := offsets.Resolve(version, base)
	world, err := overlay.Bind(tab)
	if err != nil {
		return nil, log, err
	}
	hook.SetDebug(cfg.Hook.Debug)
	eng, err := engine.Install(tab, log.Named("engine"))
	if err != nil {
		return nil, log, err
	}

	c := New(Options{
		World:     world,
		Functions: eng.Natives,
		Config:    cfg,
		Log:       log,
		Base:      base,
		OnContext: crash.Note,
	})
	ctl.Store(c)
	eng.SetDispatcher(callbacks.New(c, eng.Natives, log.Named("hook"), cfg.Hook.Debug))
	logging.Banner(true, fmt.Sprintf("RosaServer attached to %s (base %#x)", version.Tag, base))
	return c, log, nil
}
