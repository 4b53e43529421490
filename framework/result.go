package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of tests that passed, failed, and were skipped. Tests excluded by
// a filter never ran, so they are not counted at all.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch {
		case t.Skipped:
			skipped++
		case len(t.Errors) > 0:
			failed++
		default:
			passed++
		}
	}
	return
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// PrintResults writes a summary of the test run.
func PrintResults(out io.Writer, results Results) {
	passed, failed, skipped := results.Counts()
	if results.OK() {
		color.New(color.FgGreen).Fprintf(out, "All tests passed")
		fmt.Fprintf(out, " (%d passed, %d skipped)\n", passed, skipped)
		return
	}
	color.New(color.FgRed, color.Bold).Fprintf(out, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
	}
	fmt.Fprintf(out, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
}
