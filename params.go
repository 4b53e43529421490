package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/contract-tests/items-contract-tests/config"
	"github.com/contract-tests/items-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configPath  string
	serviceURL  string
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
	seed        int64
	rate        float64
	metricsFile string
	selfCheck   bool
	flags       *flag.FlagSet
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the items service (overrides the configuration)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.Int64Var(&c.seed, "seed", 0, "seed for generated test data (0 means random)")
	fs.Float64Var(&c.rate, "rate", 0, "maximum requests per second (0 means no limit)")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "write request and result metrics to this file in Prometheus text format")
	fs.BoolVar(&c.selfCheck, "self-check", false, "run the tests against a built-in reference implementation of the service")
	c.flags = fs

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	return true
}

// applyTo overrides configuration settings with the flags that were set explicitly.
func (c *commandParams) applyTo(cfg *config.Config) {
	c.flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.BaseURL = c.serviceURL
		case "seed":
			cfg.Seed = c.seed
		case "rate":
			cfg.RequestsPerSecond = c.rate
		}
	})
}

// rerunCommand returns a command line that runs only the failed tests, with the same other
// options as this run.
func (c *commandParams) rerunCommand(results framework.Results) string {
	var cmd commandBuilder
	cmd.add(c.flags.Name())
	c.flags.Visit(func(f *flag.Flag) {
		if f.Name != "run" && f.Name != "skip" {
			cmd.add(fmt.Sprintf("-%s=%s", f.Name, f.Value))
		}
	})
	for _, f := range results.Failures {
		if len(f.TestID.Path) != 0 {
			cmd.add("-run", exactTestPattern(f.TestID))
		}
	}
	return cmd.String()
}

// exactTestPattern returns a -run pattern that matches only the specified test and its subtests.
func exactTestPattern(id framework.TestID) string {
	parts := make([]string, 0, len(id.Path))
	for _, p := range id.Path {
		parts = append(parts, "^"+regexp.QuoteMeta(p)+"$")
	}
	return strings.Join(parts, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
