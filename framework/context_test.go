package framework

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	errors   []string
	finished []string
	skipped  []string
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.started = append(r.started, id.String()) }

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	status := "passed"
	if failed {
		status = "failed"
	}
	r.finished = append(r.finished, id.String()+" "+status)
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.skipped = append(r.skipped, id.String()+": "+reason)
}

func resultIDs(results []TestResult) []string {
	var ret []string
	for _, r := range results {
		ret = append(ret, r.TestID.String())
	}
	return ret
}

func TestPassingTestsAreRecorded(t *testing.T) {
	tl := &recordingTestLogger{}
	results := Run(nil, tl, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("b", func(c *Context) {})
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, []string{"a/b", "a"}, resultIDs(results.Tests))
	assert.Equal(t, []string{"a", "a/b"}, tl.started)
	assert.Equal(t, []string{"a/b passed", "a passed"}, tl.finished)
}

func TestErrorfFailsTestButContinues(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Errorf("bad thing %d", 1)
			c.Errorf("bad thing %d", 2)
			reachedEnd = true
		})
	})

	assert.True(t, reachedEnd)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "x", results.Failures[0].TestID.String())
	assert.Equal(t, []error{errors.New("bad thing 1"), errors.New("bad thing 2")}, results.Failures[0].Errors)
}

func TestFailNowStopsTestAndOtherTestsStillRun(t *testing.T) {
	reachedEnd := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("first", func(c *Context) {
			c.Errorf("oops")
			c.FailNow()
			reachedEnd = true
		})
		c.Run("second", func(c *Context) {})
	})

	assert.False(t, reachedEnd)
	assert.Equal(t, []string{"first"}, resultIDs(results.Failures))
	passed, failed, skipped := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, skipped)
}

func TestFailNowWithoutMessageAddsOne(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { c.FailNow() })
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestSkipIsNotAFailure(t *testing.T) {
	tl := &recordingTestLogger{}
	results := Run(nil, tl, func(c *Context) {
		c.Run("x", func(c *Context) { c.SkipWithReason("not today") })
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Equal(t, []string{"x: not today"}, tl.skipped)
	_, _, skipped := results.Counts()
	assert.Equal(t, 1, skipped)
}

func TestUnexpectedPanicIsAFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) { panic("boom") })
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.True(t, strings.HasPrefix(results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom"))
}

func TestDeferredFunctionsRunInReverseOrder(t *testing.T) {
	var calls []string
	Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			calls = append(calls, "body")
		})
	})

	assert.Equal(t, []string{"body", "second", "first"}, calls)
}

func TestDeferredFunctionsRunAfterFailNow(t *testing.T) {
	cleanedUp := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { cleanedUp = true })
			c.FailNow()
		})
	})

	assert.True(t, cleanedUp)
	assert.False(t, results.OK())
}

func TestFailureInDeferredFunctionIsReportedAndOthersStillRun(t *testing.T) {
	cleanedUp := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Defer(func() { cleanedUp = true })
			c.Defer(func() {
				c.Errorf("cleanup failed")
				c.FailNow()
			})
		})
	})

	assert.True(t, cleanedUp)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, []error{errors.New("cleanup failed")}, results.Failures[0].Errors)
}

func TestFilterExcludesTests(t *testing.T) {
	tl := &recordingTestLogger{}
	filter := func(id TestID) bool { return id.String() != "a/skip me" }
	results := Run(filter, tl, func(c *Context) {
		c.Run("a", func(c *Context) {
			c.Run("skip me", func(c *Context) { c.Errorf("should not run") })
			c.Run("keep me", func(c *Context) {})
		})
	})

	assert.True(t, results.OK())
	assert.Equal(t, []string{"a/keep me", "a"}, resultIDs(results.Tests))
	assert.Equal(t, []string{"a/skip me: excluded by filter parameters"}, tl.skipped)
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	var output CapturedOutput
	Run(nil, nil, func(c *Context) {
		c.Run("x", func(c *Context) {
			c.Debug("hello %s", "there")
			output = c.debugLogger.Output()
		})
	})

	require.Len(t, output, 1)
	assert.Equal(t, "hello there", output[0].Message)
}

func TestReformatErrorRemovesTestifyTrace(t *testing.T) {
	err := errors.New("\n\tError Trace:\tsuite.go:10\n\t            \tcontext.go:65\n" +
		"\tError:      \tNot equal: 1 != 2\n\tMessages:   \tstatus code")

	assert.Equal(t, "Error:      \tNot equal: 1 != 2\nMessages:   \tstatus code", reformatError(err).Error())
}

func TestReformatErrorLeavesPlainMessagesAlone(t *testing.T) {
	assert.Equal(t, "just a message", reformatError(errors.New("just a message")).Error())
}
