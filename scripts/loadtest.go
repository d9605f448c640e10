// Loadtest drives a staged ramp of virtual users against a deployed endpoint
// and prints a JSON summary of statuses and latency percentiles.
//
// Usage:
//
//	go run ./scripts --url https://example.execute-api.ap-southeast-2.amazonaws.com/dev/guid --profile 5min
//	go run ./scripts --url http://localhost:8080/ --stages 30s:5,1m:5,30s:0 --out summary.json
//
// Each virtual user sends a request, checks for the expected status and then
// waits --think before the next one. The built-in profiles are 5min and 2h.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/angeloszaimis/guid-writer/internal/loadtest"
	"github.com/angeloszaimis/guid-writer/pkg/logger"
)

type options struct {
	url     string
	method  string
	profile string
	stages  string
	think   time.Duration
	timeout time.Duration
	expect  int
	outJSON string
	verbose bool
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.StringVar(&opts.url, "url", "http://localhost:8080/", "Target URL")
	fs.StringVar(&opts.method, "method", "GET", "HTTP method")
	fs.StringVar(&opts.profile, "profile", "5min", "Built-in ramp profile")
	fs.StringVar(&opts.stages, "stages", "", "Custom ramp as duration:target pairs, overrides --profile")
	fs.DurationVar(&opts.think, "think", time.Second, "Pause between requests of one virtual user")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")
	fs.IntVar(&opts.expect, "expect", 200, "Expected status code")
	fs.StringVar(&opts.outJSON, "out", "", "Write JSON summary to this file (optional)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Log per-request failures")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	level := "info"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(level, false, "dev")

	ramp, err := resolveStages(opts.profile, opts.stages)
	if err != nil {
		log.Error("Invalid ramp", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("Starting load test",
		slog.String("url", opts.url),
		slog.Duration("duration", loadtest.TotalDuration(ramp)),
		slog.Int("stages", len(ramp)))

	runner := loadtest.New(loadtest.Config{
		URL:          opts.url,
		Method:       opts.method,
		Stages:       ramp,
		Think:        opts.think,
		Timeout:      opts.timeout,
		ExpectStatus: opts.expect,
	}, log)

	summary, err := runner.Run(ctx)
	if err != nil {
		log.Error("Load test failed", slog.Any("err", err))
		os.Exit(1)
	}

	report, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Error("Failed to encode summary", slog.Any("err", err))
		os.Exit(1)
	}
	fmt.Println(string(report))

	if opts.outJSON != "" {
		if err := os.WriteFile(opts.outJSON, report, 0o644); err != nil {
			log.Error("Failed to write summary", slog.Any("err", err))
			os.Exit(1)
		}
		log.Info("Wrote JSON summary", slog.String("file", opts.outJSON))
	}

	// exit with non-zero if there were failures
	if summary.Failed > 0 {
		os.Exit(2)
	}
}

func resolveStages(profile, custom string) ([]loadtest.Stage, error) {
	if custom != "" {
		return loadtest.ParseStages(custom)
	}

	ramp, ok := loadtest.Profiles[profile]
	if !ok {
		names := make([]string, 0, len(loadtest.Profiles))
		for name := range loadtest.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown profile %q, have %v", profile, names)
	}

	return ramp, nil
}
