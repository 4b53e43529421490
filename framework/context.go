package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the framework-level state of a test or subtest. Domain-specific test APIs wrap it
// and delegate to it, the same way a *testing.T is used in Go's own test runner.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	deferred    []func()
}

// Run starts a test run. The action receives the root Context, which has an empty TestID; it
// normally does nothing but call Run on that Context for each top-level group of tests.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		c.recordPanic(recover())
		for i := len(c.deferred) - 1; i >= 0; i-- {
			c.protect(c.deferred[i])
		}
		c.deferred = nil
		if len(c.id.Path) == 0 && !c.failed {
			return // the root context is only reported if something went wrong outside of any test
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) protect(f func()) {
	defer func() {
		c.recordPanic(recover())
	}()
	f()
}

func (c *Context) recordPanic(r interface{}) {
	if r == nil || c.skipped {
		return
	}
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, unless it is excluded by the filter.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the test ends, whether it passed or not. Deferred
// functions run in reverse order of registration. A failure inside one of them is reported
// against the test but does not prevent the others from running.
func (c *Context) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

// reformatError drops the "Error Trace" section that testify puts at the top of its messages.
// The trace always points into the harness itself, so it is noise in a console report.
func reformatError(err error) error {
	var kept []string
	inTrace := false
	for _, line := range strings.Split(err.Error(), "\n") {
		trimmed := strings.TrimLeft(line, "\t")
		label := strings.TrimSpace(strings.SplitN(trimmed, "\t", 2)[0])
		if label == "Error Trace:" {
			inTrace = true
			continue
		}
		if inTrace && label == "" && trimmed != "" {
			continue
		}
		inTrace = false
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return errors.New(strings.Join(kept, "\n"))
}
