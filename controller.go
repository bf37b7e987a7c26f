// Package rosaserver is the lifecycle of the scripting extension: it owns the
// one Lua environment of the process and rebuilds it on request.
package rosaserver

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/rosa-go/rosaserver/internal/bridge"
	"github.com/rosa-go/rosaserver/internal/callbacks"
	"github.com/rosa-go/rosaserver/internal/config"
	"github.com/rosa-go/rosaserver/internal/game"
	"github.com/rosa-go/rosaserver/internal/overlay"
)

// ErrReentrantReset is returned when the environment would be rebuilt from
// code running inside it.
var ErrReentrantReset = errors.New("rosaserver: reset from inside the script environment")

// ErrInitialized is returned by a second Init.
var ErrInitialized = errors.New("rosaserver: already initialized")

type Options struct {
	World     *overlay.World
	Functions game.Functions
	Config    config.Config
	Log       *zap.Logger
	// Base is the host's load address.
	Base uintptr
	// Exit backs os.exit in scripts.
	Exit func(code int)
	// OnError sees every script error.
	OnError func(*bridge.ScriptError)
	// OnContext follows which hook the environment is running.
	OnContext func(context string)
}

// Controller serializes everything that touches the environment. It
// implements bridge.Host and callbacks.Runtime.
type Controller struct {
	opts Options
	log  *zap.Logger
	data *bridge.SideTables

	lock   threadLock
	env    *bridge.Env // guarded by lock
	mode   string      // guarded by lock
	booted atomic.Bool

	pmu     sync.Mutex
	pending *string
}

var (
	_ bridge.Host       = (*Controller)(nil)
	_ callbacks.Runtime = (*Controller)(nil)
)

func New(opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Config.Version == "" {
		opts.Config = config.Default()
	}
	return &Controller{
		opts: opts,
		log:  opts.Log.Named("rs"),
		data: bridge.NewSideTables(),
	}
}

// Init builds the environment and runs the entry script.
func (c *Controller) Init() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if c.lock.held() {
		return ErrReentrantReset
	}
	c.lock.lock()
	defer c.lock.unlock()
	if c.env != nil {
		return ErrInitialized
	}
	c.log.Info("initializing state")
	c.build()
	return nil
}

// Reset tears the environment down and builds a new one, keeping the
// current persistent mode.
func (c *Controller) Reset() error {
	return c.reset(nil)
}

func (c *Controller) reset(mode *string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if c.lock.held() {
		return ErrReentrantReset
	}
	c.lock.lock()
	defer c.lock.unlock()
	c.log.Info("resetting state")
	c.teardown()
	if mode != nil {
		c.mode = *mode
	}
	c.build()
	return nil
}

// build must be called with the lock held.
func (c *Controller) build() {
	c.env = bridge.New(bridge.Options{
		World:     c.opts.World,
		Functions: c.opts.Functions,
		Host:      c,
		Data:      c.data,
		Config:    c.opts.Config,
		Log:       c.log.Named("bridge"),
		LuaLog:    c.opts.Log.Named("lua"),
		Base:      c.opts.Base,
		Mode:      c.mode,
		Exit:      c.opts.Exit,
		OnError:   c.opts.OnError,
		OnContext: c.opts.OnContext,
	})
	// Errors are logged by the environment; whatever the script registered
	// before failing stays.
	c.env.RunFile(c.opts.Config.EntryScript)
}

// teardown must be called with the lock held.
func (c *Controller) teardown() {
	c.data.Clear()
	if c.env == nil {
		return
	}
	if err := c.env.Close(); err != nil {
		c.log.Warn("closing environment", zap.Error(err))
	}
	c.env = nil
}

// Close destroys the environment.
func (c *Controller) Close() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	c.lock.lock()
	defer c.lock.unlock()
	c.teardown()
}

func (c *Controller) Enter(fn func(env *bridge.Env)) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	c.lock.lock()
	defer c.lock.unlock()
	fn(c.env)
}

// Boot initializes on the first call, which the first host reset makes.
func (c *Controller) Boot() bool {
	if !c.booted.CompareAndSwap(false, true) {
		return false
	}
	if err := c.Init(); err != nil {
		c.log.Error("init", zap.Error(err))
	}
	return true
}

func (c *Controller) FlagStateForReset(mode string) {
	c.pmu.Lock()
	c.pending = &mode
	c.pmu.Unlock()
}

func (c *Controller) ResetPending() bool {
	c.pmu.Lock()
	mode := c.pending
	c.pending = nil
	c.pmu.Unlock()
	if mode == nil {
		return false
	}
	if err := c.reset(mode); err != nil {
		c.log.Error("reset", zap.Error(err))
		return false
	}
	return true
}

// ResetGame resets the round through the host, running the reset hooks.
func (c *Controller) ResetGame(reason game.ResetReason) {
	callbacks.HookAndReset(c, reason, c.opts.Functions.ResetGame)
}

// threadLock is a mutex the OS thread holding it may take again. Callers
// lock their goroutine to its thread around use.
type threadLock struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (l *threadLock) lock() {
	tid := int64(unix.Gettid())
	if l.owner.Load() == tid {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(tid)
	l.depth = 1
}

func (l *threadLock) unlock() {
	l.depth--
	if l.depth == 0 {
		l.owner.Store(0)
		l.mu.Unlock()
	}
}

func (l *threadLock) held() bool { return l.owner.Load() == int64(unix.Gettid()) }
