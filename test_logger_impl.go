package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/contract-tests/items-contract-tests/framework"

	"github.com/fatih/color"
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

var (
	failedLabel  = color.New(color.FgRed, color.Bold)
	skippedLabel = color.New(color.FgYellow)
)

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		fmt.Fprintf(c.Out, "  %s %s\n", failedLabel.Sprint("FAILED:"), id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		fmt.Fprintf(c.Out, "  %s %s\n", skippedLabel.Sprint("SKIPPED:"), id)
	} else {
		fmt.Fprintf(c.Out, "  %s %s (%s)\n", skippedLabel.Sprint("SKIPPED:"), id, reason)
	}
}
