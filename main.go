package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/contract-tests/items-contract-tests/client"
	"github.com/contract-tests/items-contract-tests/config"
	"github.com/contract-tests/items-contract-tests/fakedata"
	"github.com/contract-tests/items-contract-tests/framework"
	"github.com/contract-tests/items-contract-tests/itemtests"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}

	cfg, err := config.Load(params.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %s\n", err)
		return 1
	}
	params.applyTo(cfg)

	logger := zap.NewNop()
	if params.debugAll {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(stderr, "Could not create logger: %s\n", err)
			return 1
		}
	}
	mainDebugLogger := framework.ZapLogger(logger)

	if params.selfCheck {
		service, err := startSelfCheckService(cfg, mainDebugLogger)
		if err != nil {
			fmt.Fprintf(stderr, "Could not start reference service: %s\n", err)
			return 1
		}
		defer service.Close()
		fmt.Fprintf(stdout, "Self-check: testing the reference service at %s\n", service.BaseURL())
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	harness, err := framework.NewTestHarness(
		cfg.BaseURL,
		cfg.Paths.HealthCheck,
		cfg.StatusQueryTimeout,
		mainDebugLogger,
		stdout,
	)
	if err != nil {
		fmt.Fprintf(stderr, "Service error: %s\n", err)
		return 1
	}

	registry := prometheus.NewRegistry()
	clientOptions := client.Options{
		Metrics:        client.NewMetrics(registry),
		Logger:         framework.LoggerWithPrefix(mainDebugLogger, "[items api] "),
		RequestTimeout: cfg.RequestTimeout,
		Paths:          cfg.Paths,
	}
	if cfg.RequestsPerSecond > 0 {
		clientOptions.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	anonymous, err := client.New(harness.ServiceBaseURL(), clientOptions)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %s\n", err)
		return 1
	}
	session, err := client.Authenticate(context.Background(), anonymous, cfg.ClientCredentials())
	if err != nil {
		fmt.Fprintf(stderr, "Authentication failed: %s\n", err)
		return 1
	}

	fmt.Fprintln(stdout)
	framework.PrintFilterDescription(stdout, params.filters)

	fmt.Fprintln(stdout, "Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := itemtests.RunTestSuite(
		itemtests.SuiteParams{
			Anonymous:   anonymous,
			Session:     session,
			Credentials: cfg.ClientCredentials(),
			Data:        fakedata.NewGenerator(cfg.Seed),
		},
		params.filters.AsFilter,
		testLogger,
	)
	_ = logger.Sync()

	fmt.Fprintln(stdout)
	framework.PrintResults(stdout, results)

	if params.metricsFile != "" {
		if err := writeMetricsFile(params.metricsFile, registry, results); err != nil {
			fmt.Fprintf(stderr, "Could not write metrics: %s\n", err)
		}
	}

	if !results.OK() {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "To rerun only the failed tests:")
		fmt.Fprintf(stdout, "  %s\n", params.rerunCommand(results))
		return 1
	}
	return 0
}
