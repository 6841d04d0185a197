// Command meshsync runs the multi-location file-set replicator: it ingests a
// set of location specs, performs an initial reconciliation, then keeps the
// locations in sync with a barrier-coordinated polling cycle until
// interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bogdan-spilevoi/meshsync/internal/config"
	"github.com/bogdan-spilevoi/meshsync/internal/console"
	"github.com/bogdan-spilevoi/meshsync/internal/engine"
	"github.com/bogdan-spilevoi/meshsync/internal/initsync"
	"github.com/bogdan-spilevoi/meshsync/internal/locate"
	"github.com/bogdan-spilevoi/meshsync/internal/location"
	"github.com/bogdan-spilevoi/meshsync/internal/location/folder"
	"github.com/bogdan-spilevoi/meshsync/internal/location/ftploc"
	"github.com/bogdan-spilevoi/meshsync/internal/location/ziploc"
	"github.com/bogdan-spilevoi/meshsync/internal/metrics"
	"github.com/bogdan-spilevoi/meshsync/internal/rlog"
	"github.com/bogdan-spilevoi/meshsync/internal/scheduler"
	"github.com/bogdan-spilevoi/meshsync/internal/watcher"
)

func main() {
	var useFile bool
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "meshsync",
		Short: "Keep a set of folder/zip/ftp locations byte-equal at the file level.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(useFile, configPath, verbose)
		},
		SilenceUsage: true,
	}
	root.Flags().BoolVar(&useFile, "file", false, "read location specs from a file instead of prompting interactively")
	root.Flags().StringVar(&configPath, "config", "", "path to an optional YAML config file")
	root.Flags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(useFile bool, configPath string, verbose bool) error {
	reporter := console.NewStdout()

	if verbose {
		rlog.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			reporter.Error("Could not load config %q: %v", configPath, err)
			return err
		}
		cfg = loaded
	}

	locations := locate.Ingest(os.Stdin, os.Stdout, useFile, func(message string) {
		reporter.Error(message)
	})
	if len(locations) == 0 {
		reporter.Error("No valid locations given; exiting.")
		return fmt.Errorf("no valid locations")
	}
	for _, loc := range locations {
		reporter.Success("Tracking location: %s", loc)
	}

	resolver := location.NewResolver(folder.New(), ziploc.New(), ftploc.New(cfg.FTPDialTimeout))
	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter.Info("Running initial synchronization...")
	if err := initsync.Run(ctx, resolver, locations); err != nil {
		reporter.Error("Initial synchronization failed: %v", err)
		return err
	}
	reporter.Success("Initial synchronization complete.")

	eng := engine.New(locations, resolver, m)
	coord := scheduler.New(eng, cfg.PollInterval, cfg.DrainTimeout)

	group, gctx := errgroup.WithContext(ctx)
	for _, loc := range locations {
		loc := loc
		adapter, err := resolver.For(loc)
		if err != nil {
			return err
		}
		w := watcher.New(loc, adapter, eng)
		group.Go(func() error {
			w.Run(gctx)
			return nil
		})
	}
	group.Go(func() error {
		coord.Run(gctx)
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		reporter.Info("Interrupt received; finishing current cycle and shutting down...")
		eng.Stop()
	}()

	return group.Wait()
}
