package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/ar0085/status-page/internal/broker"
	cfgpkg "github.com/ar0085/status-page/internal/config"
	"github.com/ar0085/status-page/internal/history"
	"github.com/ar0085/status-page/internal/notify"
	"github.com/ar0085/status-page/internal/runtime"
	"github.com/ar0085/status-page/internal/seed"
	httpserver "github.com/ar0085/status-page/internal/server/http"
	statussvc "github.com/ar0085/status-page/internal/services/status"
	pebblestore "github.com/ar0085/status-page/internal/storage/pebble"
	"github.com/ar0085/status-page/internal/tenant"
	logpkg "github.com/ar0085/status-page/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Seed loads the demo organization on startup when the store is fresh.
	Seed bool
}

// Run starts the HTTP server (and the broker bridge when configured) and
// blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context. We
	// layer a local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{DataDir: storeDir, Fsync: opts.Fsync, FsyncInterval: opts.FsyncInterval, Config: opts.Config})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build the process-wide logger from env; defaults: level=info, format=text
	logCfg := &logpkg.Config{
		Level:  getenvDefault("STATUSPAGE_LOG_LEVEL", "info"),
		Format: getenvDefault("STATUSPAGE_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(logCfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g. Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	cfg := rt.Config()
	procLogger.Info("Starting status page server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
		logpkg.Bool("broker", cfg.Broker.URL != ""),
	)

	orgs, err := tenant.NewStore(rt.DB(), cfg.SlugRegex, cfg.MaxOrganizations)
	if err != nil {
		return err
	}

	reg := notify.NewRegistry()
	disp := notify.NewDispatcher(reg, procLogger)
	mgr := notify.NewManager(reg, procLogger)
	if !cfg.AllowPublicSubscribe {
		mgr.Check = func(t notify.TenantID) error {
			_, err := orgs.ByID(int64(t))
			return err
		}
	}

	// The catalog publishes through the bridge when a broker is
	// configured, otherwise straight through the dispatcher.
	var (
		pub    notify.Publisher = disp
		bridge *broker.Bridge
	)
	if cfg.Broker.URL != "" {
		bridge, err = broker.Dial(sctx, broker.Options{
			URL:          cfg.Broker.URL,
			Exchange:     cfg.Broker.Exchange,
			DialAttempts: cfg.Broker.DialAttempts,
			DialDelay:    time.Duration(cfg.Broker.DialDelayMs) * time.Millisecond,
		}, disp, procLogger)
		if err != nil {
			return err
		}
		defer bridge.Close()
		pub = bridge
	}

	// The recorder sits in front so replayed peer envelopes stay out of
	// history while everything published locally is retained.
	var hist *history.Store
	if cfg.EventHistory > 0 {
		hist = history.NewStore(rt.DB(), cfg.EventHistory, procLogger)
		pub = history.NewRecorder(hist, pub, procLogger)
	}

	catalog := statussvc.New(rt, orgs, pub, procLogger)

	if opts.Seed {
		if _, err := seed.Demo(sctx, orgs, catalog); err != nil && !seed.AlreadySeeded(err) {
			return err
		}
	}

	hsrv := httpserver.New(rt, httpserver.Deps{
		Orgs:       orgs,
		Catalog:    catalog,
		Manager:    mgr,
		Logger:     procLogger,
		SendBuffer: cfg.SessionSendBuffer,
		History:    hist,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server error", logpkg.Err(err))
		}
	}()

	if bridge != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bridge.Run(sctx); err != nil && sctx.Err() == nil {
				procLogger.Error("broker consumer error", logpkg.Err(err))
			}
		}()
	}

	<-sctx.Done()
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}
