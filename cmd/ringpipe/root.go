package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/momentics/hioload-ringbuf/control"
	"github.com/momentics/hioload-ringbuf/internal/pipe"
	"github.com/momentics/hioload-ringbuf/pool"
	"github.com/momentics/hioload-ringbuf/transport"
)

// newRootCmd builds the command with its flags bound into viper.
func newRootCmd() *cobra.Command {
	var configFile string
	v := control.NewViper()
	d := control.DefaultConfig()

	cmd := &cobra.Command{
		Use:          "ringpipe [file...]",
		Short:        "Copy files (or stdin) to stdout through a fixed-size ring buffer",
		Long:         "Inputs are copied in order; \"-\" names stdin. Each input gets a ring from a shared pool.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := control.LoadConfig(v, configFile)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, args, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (TOML)")
	flags.Int("capacity", d.Capacity, "ring capacity in bytes")
	flags.Int("chunk", d.Chunk, "max bytes per read or write call (0 = capacity)")
	flags.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	flags.Bool("stats", d.Stats, "log ring counters when done")
	flags.StringP("output", "o", d.Output, "output file (default stdout)")

	// expose to the config layer via viper
	_ = v.BindPFlag(control.KeyCapacity, flags.Lookup("capacity"))
	_ = v.BindPFlag(control.KeyChunk, flags.Lookup("chunk"))
	_ = v.BindPFlag(control.KeyLogLevel, flags.Lookup("log-level"))
	_ = v.BindPFlag(control.KeyStats, flags.Lookup("stats"))
	_ = v.BindPFlag(control.KeyOutput, flags.Lookup("output"))
	return cmd
}

// newLogger writes console-encoded logs to stderr; stdout carries data.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	zapcfg.Encoding = "console"
	zapcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapcfg.Build()
}

// run copies inputs to the configured output in order.
func run(ctx context.Context, cfg control.Config, inputs []string, logger *zap.Logger) error {
	out := transport.Stdout
	if cfg.Output != "" && cfg.Output != "-" {
		fd, err := transport.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("open output %s: %w", cfg.Output, err)
		}
		defer fd.Close()
		out = fd
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	rings, err := pool.NewRingPool(cfg.Capacity, 1)
	if err != nil {
		return err
	}
	defer rings.Close()
	metrics := control.NewMetricsRegistry()

	var total int64
	for i, name := range inputs {
		n, err := copyInput(ctx, cfg, rings, metrics, fmt.Sprintf("input%d", i), name, out, logger)
		total += n
		if err != nil {
			if pipe.IsClosedPipe(err) {
				logger.Debug("output closed", zap.Int64("bytes", total))
				return nil
			}
			return err
		}
	}

	metrics.Set("pipe.bytes", total)
	metrics.Set("pool.allocated", rings.Stats().TotalAlloc)
	metrics.Set("pool.reused", rings.Stats().TotalReuse)
	logger.Info("copy complete", zap.Int64("bytes", total), zap.Int("inputs", len(inputs)))
	if cfg.Stats {
		snap := metrics.GetSnapshot()
		for _, k := range metrics.Keys() {
			logger.Info("stat", zap.String("name", k), zap.Any("value", snap[k]))
		}
	}
	return nil
}

func copyInput(ctx context.Context, cfg control.Config, rings *pool.RingPool, metrics *control.MetricsRegistry,
	label, name string, out transport.FD, logger *zap.Logger) (int64, error) {
	in := transport.Stdin
	if name != "-" {
		fd, err := transport.OpenRead(name)
		if err != nil {
			return 0, fmt.Errorf("open input %s: %w", name, err)
		}
		defer fd.Close()
		in = fd
	}

	ring, err := rings.Get()
	if err != nil {
		return 0, err
	}
	defer ring.Free()
	metrics.RegisterRing(label, ring.Stats)
	defer metrics.UnregisterRing(label)

	n, err := pipe.New(ring.RingBuffer, cfg.Chunk, logger.With(zap.String("input", name))).Run(ctx, in, out)
	metrics.Collect()
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", name, err)
	}
	return n, nil
}
