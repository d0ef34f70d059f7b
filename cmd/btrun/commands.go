package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/behave/internal/config"
	"github.com/zeusync/behave/internal/core/bt/loader"
	"github.com/zeusync/behave/internal/core/observability/log"
	"github.com/zeusync/behave/internal/injector"
)

type rootFlags struct {
	configPath string
	logLevel   string
}

type runFlags struct {
	frameRate     int
	maxFrames     uint64
	restart       string
	count         int
	statsInterval time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "btrun",
		Short:        "Run behavior trees described in YAML or JSON",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "host config file (YAML)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newRunCmd(flags), newNodesCmd(), newValidateCmd())
	return root
}

// loadConfig reads the config file when one is given and applies flag overrides.
func (f *rootFlags) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [tree file...]",
		Short: "Tick trees frame by frame until they finish or the process is interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frame-rate") {
				cfg.FrameRate = flags.frameRate
			}
			if cmd.Flags().Changed("max-frames") {
				cfg.MaxFrames = flags.maxFrames
			}
			if cmd.Flags().Changed("restart") {
				cfg.Restart = config.Restart(flags.restart)
			}
			for _, file := range args {
				cfg.Trees = append(cfg.Trees, config.TreeConfig{File: file, Count: flags.count})
			}
			if len(cfg.Trees) == 0 {
				return errors.New("no trees to run: pass tree files or list them in the config")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runTrees(cmd.Context(), cfg, flags.statsInterval)
		},
	}
	cmd.Flags().IntVar(&flags.frameRate, "frame-rate", 30, "frames per second")
	cmd.Flags().Uint64Var(&flags.maxFrames, "max-frames", 0, "stop after this many frames (0 runs until done)")
	cmd.Flags().StringVar(&flags.restart, "restart", string(config.RestartNever), "restart policy: never, always, on_success, on_fail")
	cmd.Flags().IntVarP(&flags.count, "count", "n", 1, "instances to spawn per tree file")
	cmd.Flags().DurationVar(&flags.statsInterval, "stats-interval", 0, "log pool counters at this interval (0 disables)")
	return cmd
}

func runTrees(parent context.Context, cfg config.Config, statsInterval time.Duration) error {
	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if parent == nil {
		parent = context.Background()
	}
	if _, err := app.Host.SpawnConfigured(parent); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)

	g.Go(func() error {
		defer cancel()
		return app.Host.Run(runCtx)
	})
	g.Go(func() error {
		if statsInterval <= 0 {
			return nil
		}
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return nil
			case <-ticker.C:
				for pool, s := range app.Host.PoolStats() {
					app.Logger.Info("pool stats",
						log.String("pool", pool),
						log.Int("created", s.Created),
						log.Int("idle", s.Idle),
						log.Int("acquired", s.Acquired),
						log.Int("released", s.Released),
					)
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		app.Logger.Info("interrupted", log.Int64("frames", int64(app.Host.Frames())))
		return nil
	}
	return err
}

func newNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the registered process nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := injector.ProvideRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
			for _, d := range reg.Descriptors() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Kind, d.Description)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <tree file...>",
		Short: "Load and compile tree files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := injector.ProvideRegistry()
			var errs []error
			for _, file := range args {
				def, err := loader.LoadFile(file)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				compiled, err := def.Compile(reg)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", file, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d nodes\t%016x\n", file, compiled.Name(), compiled.Count(), compiled.ShapeKey())
				compiled.Close()
			}
			return errors.Join(errs...)
		},
	}
}
