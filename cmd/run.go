package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/vishvananda/netns"

	"grimm.is/wpand/internal/brand"
	"grimm.is/wpand/internal/config"
	"grimm.is/wpand/internal/logging"
	"grimm.is/wpand/internal/lowpan"
	"grimm.is/wpand/internal/metrics"
	"grimm.is/wpand/internal/network"
	"grimm.is/wpand/internal/rtnl"
)

// createTimeout bounds the wait for the kernel to acknowledge creation.
const createTimeout = 10 * time.Second

// RunOptions are the flags of "wpand run".
type RunOptions struct {
	ConfigFile string
	Overrides
	DryRun bool
}

// RunDaemon creates the 6LoWPAN link, keeps it configured until SIGINT or
// SIGTERM, and then removes it.
func RunDaemon(opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigFile, opts.Overrides, true)
	if err != nil {
		return err
	}

	log, closeLog, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ns, err := network.OpenNamespace(cfg.NetNS)
	if err != nil {
		return err
	}
	if ns.IsOpen() {
		defer ns.Close()
	}

	nl, err := network.NewNetlinker(ns)
	if err != nil {
		return err
	}
	defer nl.Close()

	d := &daemon{
		cfg:       cfg,
		log:       log.WithComponent("daemon").WithFields(map[string]any{"instance": uuid.New().String()}),
		metrics:   metrics.New(),
		netlinker: nl,
		dryRun:    opts.DryRun,
	}
	if opts.DryRun {
		dry := rtnl.NewDryRun(log.WithComponent("rtnl"))
		d.dial = func() (rtnl.Transport, error) { return dry, nil }
	} else {
		d.dial = netlinkDialer(ns, log.WithComponent("rtnl"))
	}

	return d.run(ctx)
}

func netlinkDialer(ns netns.NsHandle, log *logging.Logger) lowpan.Dialer {
	return func() (rtnl.Transport, error) {
		fd := 0
		if ns.IsOpen() {
			fd = int(ns)
		}
		c, err := rtnl.Dial(rtnl.Options{NetNS: fd, Logger: log})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

type daemon struct {
	cfg       *config.Config
	log       *logging.Logger
	metrics   *metrics.Registry
	netlinker network.Netlinker
	dial      lowpan.Dialer
	dryRun    bool
}

func (d *daemon) run(ctx context.Context) error {
	lp := d.cfg.Lowpan
	prefix, err := lp.Prefix()
	if err != nil {
		return err
	}
	timeout, err := lp.Timeout()
	if err != nil {
		return err
	}

	parent, err := d.resolveParent()
	if err != nil {
		return err
	}

	d.log.Info("starting", "version", brand.Version, "parent", parent.Name,
		"parent_index", parent.Index, "link", lp.Name, "dry_run", d.dryRun)

	if d.cfg.MetricsListen != "" {
		srv := &http.Server{
			Addr:              d.cfg.MetricsListen,
			Handler:           d.metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.log.Error("metrics server failed", "listen", d.cfg.MetricsListen, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	initCtx, cancel := context.WithTimeout(ctx, createTimeout)
	link, err := lowpan.Init(initCtx, d.dial, lowpan.Config{
		Parent:  parent.Index,
		Name:    lp.Name,
		Address: prefix,
		Logger:  d.log.WithComponent("lowpan"),
		Metrics: d.metrics,
	})
	cancel()
	if err != nil {
		return err
	}

	<-ctx.Done()
	d.log.Info("shutting down", "timeout", timeout.String())

	exitCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return link.Exit(exitCtx)
}

// resolveParent turns the configured parent into an index. In dry-run mode
// an index that cannot be looked up is used as given.
func (d *daemon) resolveParent() (network.Parent, error) {
	lp := d.cfg.Lowpan
	p, err := network.ResolveParent(d.netlinker, lp.Parent, lp.ParentIndex, d.log)
	if err != nil {
		if d.dryRun && lp.ParentIndex > 0 {
			d.log.Warn("dry run: parent lookup failed, using index as given",
				"parent_index", lp.ParentIndex, "error", err)
			return network.Parent{Index: uint32(lp.ParentIndex)}, nil
		}
		return network.Parent{}, err
	}
	return p, nil
}

func (d *daemon) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}
