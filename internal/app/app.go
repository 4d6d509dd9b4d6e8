package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"classbook/internal/config"
	"classbook/internal/schedule"
	"classbook/internal/storage"
	logx "classbook/pkg/logx"
)

// Options are the process-level overrides given on the command line.
type Options struct {
	ConfigPath string
	DataPath   string // overrides storage.path
	Driver     string // overrides storage.driver
	LogLevel   string // overrides logging.level

	// DryRun works on an in-memory copy of the configured storage;
	// nothing is written back.
	DryRun bool

	Out io.Writer // listings; logx.Stdout() when nil
}

// App owns the one schedule store of the process and everything it needs.
type App struct {
	cfgm *config.ConfigManager
	// cfg is the file config with Options applied. cfgm keeps the file
	// config alone so reload hashing compares like with like.
	cfg atomic.Pointer[config.Config]

	log  logx.Logger
	logs *logx.Service

	backend storage.Store
	store   *schedule.Store

	opts Options
	out  io.Writer
}

func New(ctx context.Context, opts Options) (*App, error) {
	cfgm := config.NewConfigManager(opts.ConfigPath)
	cfg, err := cfgm.LoadOrDefault()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	cfg = applyOverrides(cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}

	logs, root := logx.NewService(cfg.LogConfig())
	cfgm.SetLogger(root.With(logx.String("comp", "config")))

	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, config.DefaultBusy)
	if err != nil {
		_ = logs.Close()
		return nil, &ConfigError{Err: err}
	}
	backend, err := storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		Format:      cfg.Storage.Format,
		BusyTimeout: busy,
	}, root.With(logx.String("comp", "storage")))
	if err != nil {
		_ = logs.Close()
		return nil, &schedule.StorageError{Op: "open", Err: err}
	}
	if opts.DryRun {
		backend, err = detach(ctx, backend)
		if err != nil {
			_ = logs.Close()
			return nil, &schedule.StorageError{Op: "load", Err: err}
		}
	}

	store, err := schedule.Open(ctx, backend, root.With(logx.String("comp", "schedule")))
	if err != nil {
		_ = backend.Close()
		_ = logs.Close()
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = logx.Stdout()
	}

	root.Debug("classbook ready",
		logx.String("config", cfgm.Path()),
		logx.String("driver", cfg.Storage.Driver),
		logx.String("path", cfg.Storage.Path),
		logx.Bool("dry_run", opts.DryRun),
		logx.Int("entries", store.Len()),
	)
	a := &App{
		cfgm:    cfgm,
		log:     root,
		logs:    logs,
		backend: backend,
		store:   store,
		opts:    opts,
		out:     out,
	}
	a.cfg.Store(cfg)
	return a, nil
}

// detach copies the stored entries into a memory backend and closes src.
func detach(ctx context.Context, src storage.Store) (storage.Store, error) {
	defer src.Close()
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return storage.NewMemory(entries...), nil
}

func applyOverrides(cfg *config.Config, opts Options) *config.Config {
	cp := *cfg
	if v := strings.TrimSpace(opts.Driver); v != "" {
		cp.Storage.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(opts.DataPath); v != "" {
		cp.Storage.Path = v
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cp.Logging.Level = v
		cp.Logging.Console = true
	}
	cp.Normalize()
	return &cp
}

func (a *App) Store() *schedule.Store { return a.store }

func (a *App) Logger() logx.Logger { return a.log }

// Config returns the config in effect: the file config plus Options.
func (a *App) Config() *config.Config { return a.cfg.Load() }

// Close releases the backend and log sinks. Every mutation has already been
// persisted, so there is nothing to flush.
func (a *App) Close() error {
	var err error
	if a.backend != nil {
		err = a.backend.Close()
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return err
}

// WatchConfig reloads the config file until ctx is done. Logging changes
// apply immediately; storage changes only take effect on the next start.
// The returned func blocks until both watcher goroutines have exited; call it
// after cancelling ctx and before Close.
func (a *App) WatchConfig(ctx context.Context) (wait func()) {
	var wg sync.WaitGroup
	sub := a.cfgm.Subscribe(8)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := a.cfgm.Watch(ctx); err != nil {
			a.log.Warn("config watcher exited", logx.Err(err))
		}
	}()
	go func() {
		defer wg.Done()
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case fileCfg, ok := <-sub:
				if !ok {
					return
				}
				a.reloaded(fileCfg)
			}
		}
	}()
	return wg.Wait
}

// reloaded takes a freshly published file config, reapplies Options and
// makes the result current.
func (a *App) reloaded(fileCfg *config.Config) {
	newCfg := applyOverrides(fileCfg, a.opts)
	if err := config.Validate(newCfg); err != nil {
		a.log.Warn("config reload rejected", logx.Err(err))
		return
	}
	a.applyConfig(a.Config(), newCfg)
	a.cfg.Store(newCfg)
}

func (a *App) applyConfig(oldCfg, newCfg *config.Config) {
	sections, attrs, restart := config.SummarizeConfigChange(oldCfg, newCfg)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}
	fields := append([]logx.Field{logx.Strs("changed", sections)}, attrs...)
	a.log.Info("config reloaded", fields...)
	if restart {
		a.log.Warn("storage config changed; restart required for changes to take effect")
	}
	a.logs.Apply(newCfg.LogConfig())
}
