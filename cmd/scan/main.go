package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-scan/pkg/config"
	"github.com/dd0wney/cluso-scan/pkg/graph"
	"github.com/dd0wney/cluso-scan/pkg/logging"
	"github.com/dd0wney/cluso-scan/pkg/metrics"
	"github.com/dd0wney/cluso-scan/pkg/report"
	"github.com/dd0wney/cluso-scan/pkg/scan"
)

func main() {
	var (
		configFile = flag.String("config", "", "YAML configuration file")
		envFile    = flag.String("env", ".env", "Environment file loaded before SCAN_* overrides")
		summary    = flag.Bool("summary", true, "Print a run summary to stderr")
	)
	flag.String("input", "", "Edge list file, '-' for stdin, .sz for snappy (or first argument)")
	flag.String("output", "", "Report file, '-' for stdout, .sz for snappy")
	flag.String("format", "", "Report format: text or json")
	flag.Float64("eps", 0, "Similarity threshold in [0,1]")
	flag.Int("mu", 0, "Minimum similar neighbourhood size of a core, itself included")
	flag.Float64("alpha", 0, "Reserved probability threshold in [0,1]")
	flag.Bool("exhaustive", false, "Evaluate every edge instead of pruning settled vertices")
	flag.String("log-level", "", "Log level: debug, info, warn or error")
	flag.String("metrics-out", "", "Write Prometheus metrics to this textfile")
	flag.String("pg-url", "", "Store the run in this PostgreSQL database")
	flag.String("sweep-eps", "", "Comma-separated eps values to sweep")
	flag.String("sweep-mu", "", "Comma-separated mu values to sweep")
	flag.Int("workers", 0, "Concurrent sweep runs (default GOMAXPROCS)")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyFlags(cfg, flag.CommandLine); err != nil {
		log.Fatalf("Invalid flag: %v", err)
	}
	if err := cfg.Check(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var out io.Writer
	if *summary {
		out = os.Stderr
	}
	if err := run(ctx, cfg, logger, out); err != nil {
		log.Fatalf("%v", err)
	}
}

// applyFlags copies explicitly set flags over cfg. A positional argument
// names the input file.
func applyFlags(cfg *config.Config, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "input":
			cfg.Input = v
		case "output":
			cfg.Output = v
		case "format":
			cfg.Format = v
		case "log-level":
			cfg.LogLevel = v
		case "metrics-out":
			cfg.MetricsFile = v
		case "pg-url":
			cfg.PostgresURL = v
		case "eps":
			cfg.Epsilon, err = strconv.ParseFloat(v, 64)
		case "alpha":
			cfg.Alpha, err = strconv.ParseFloat(v, 64)
		case "mu":
			cfg.Mu, err = strconv.Atoi(v)
		case "exhaustive":
			cfg.Exhaustive, err = strconv.ParseBool(v)
		case "workers":
			cfg.Workers, err = strconv.Atoi(v)
		case "sweep-eps":
			cfg.Sweep.Eps, err = config.ParseFloats(v)
		case "sweep-mu":
			cfg.Sweep.Mu, err = config.ParseInts(v)
		}
		if err != nil {
			err = fmt.Errorf("-%s: %w", f.Name, err)
		}
	})
	if err != nil {
		return err
	}
	if fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}
	return nil
}

// run clusters cfg.Input and writes every configured output. The summary
// goes to summaryOut when it is non-nil.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger, summaryOut io.Writer) error {
	reg := metrics.NewRegistry()
	opts := []scan.Option{scan.WithLogger(logger), scan.WithMetrics(reg)}
	if cfg.Exhaustive {
		opts = append(opts, scan.WithExhaustive())
	}

	var sink *report.PGSink
	if cfg.PostgresURL != "" {
		var err error
		if sink, err = openSink(ctx, cfg, logger); err != nil {
			return err
		}
		defer sink.Close()
	}

	var res *scan.Result
	var err error
	if cfg.Sweep.Enabled() {
		res, err = sweep(ctx, cfg, reg, logger, summaryOut, opts)
	} else {
		res, err = scan.ClusterFile(cfg.Input, cfg.Params(), opts...)
	}
	if err != nil {
		writeMetrics(reg, cfg.MetricsFile, logger)
		return fmt.Errorf("clustering %s failed: %w", cfg.Input, err)
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if err := report.WriteFile(cfg.Output, res, format); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if sink != nil {
		if err := store(ctx, cfg, sink, res); err != nil {
			return err
		}
	}

	writeMetrics(reg, cfg.MetricsFile, logger)

	if summaryOut != nil {
		fmt.Fprintln(summaryOut, report.Summary(res))
	}
	return nil
}

// sweep loads the graph once, clusters it for every grid point and returns
// the run with the highest modularity. The sweep table goes to summaryOut.
func sweep(ctx context.Context, cfg *config.Config, reg *metrics.Registry, logger logging.Logger, summaryOut io.Writer, opts []scan.Option) (*scan.Result, error) {
	start := time.Now()
	idx, stats, err := graph.LoadFile(cfg.Input, graph.WithLogger(logger))
	if err != nil {
		reg.RecordRun(metrics.StatusError, 0, nil)
		return nil, err
	}
	reg.RecordLoad(stats.Vertices, stats.Arcs, stats.SelfLoops, time.Since(start))

	results, err := scan.Sweep(ctx, idx, cfg.Grid(), cfg.Workers, opts...)
	if err != nil {
		return nil, err
	}
	if summaryOut != nil {
		if err := report.WriteSweep(summaryOut, results); err != nil {
			return nil, err
		}
	}

	best := report.Best(results)
	if best == nil {
		return nil, errors.New("every sweep run failed")
	}
	logger.Info("sweep finished", logging.RunID(best.RunID),
		logging.Epsilon(best.Params.Epsilon), logging.Mu(best.Params.Mu))
	return best, nil
}

// openSink connects before clustering so a bad database fails the run early.
func openSink(ctx context.Context, cfg *config.Config, logger logging.Logger) (*report.PGSink, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.PostgresTimeout)
	defer cancel()

	sink, err := report.NewPGSink(ctx, cfg.PostgresURL, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres preflight failed: %w", err)
	}
	return sink, nil
}

func store(ctx context.Context, cfg *config.Config, sink *report.PGSink, res *scan.Result) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.PostgresTimeout)
	defer cancel()

	if err := sink.Ping(ctx); err != nil {
		return fmt.Errorf("database went away during clustering: %w", err)
	}
	if _, err := sink.Save(ctx, res); err != nil {
		return fmt.Errorf("failed to store run %s: %w", res.RunID, err)
	}
	return nil
}

func writeMetrics(reg *metrics.Registry, path string, logger logging.Logger) {
	if path == "" {
		return
	}
	if err := reg.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics", logging.Path(path), logging.Error(err))
	}
}
