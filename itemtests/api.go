package itemtests

import (
	"context"

	"github.com/contract-tests/items-contract-tests/client"
	"github.com/contract-tests/items-contract-tests/fakedata"
	"github.com/contract-tests/items-contract-tests/framework"
)

const clientLogPrefix = "[items api] "

// SuiteParams are the dependencies shared by every test in a run.
type SuiteParams struct {
	// Anonymous is a client with no credentials.
	Anonymous *client.Client

	// Session is the authenticated client. It is created once, before any test runs.
	Session *client.Client

	// Credentials are the ones Session was created with. The login tests use them again.
	Credentials client.Credentials

	// Data generates item payloads. If nil, a randomly seeded generator is used.
	Data *fakedata.Generator

	// Context, if not nil, is the parent context of every request.
	Context context.Context
}

type environment struct {
	params SuiteParams
}

// T represents a test or subtest in the items test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner, and with some extra features such as debug logging that are convenient for
// our use case. Those features are provided by our lower-level framework package.
//
// To make test assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T. The item helpers in this package also make assertions of their own, causing the test
// to fail immediately if the service does something unexpected, to reduce the amount of boilerplate
// logic in tests.
type T struct {
	context   *framework.Context
	env       *environment
	anonymous *client.Client
	session   *client.Client
}

func newTestScope(c *framework.Context, env *environment) *T {
	logger := framework.LoggerWithPrefix(c.DebugLogger(), clientLogPrefix)
	return &T{
		context:   c,
		env:       env,
		anonymous: env.params.Anonymous.WithLogger(logger),
		session:   env.params.Session.WithLogger(logger),
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

func (t *T) Failed() bool {
	return t.context.Failed()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// Defer schedules cleanup to run when the test ends, even if it fails.
func (t *T) Defer(fn func()) {
	t.context.Defer(fn)
}

func (t *T) ID() framework.TestID {
	return t.context.ID()
}

// Session returns the authenticated client.
func (t *T) Session() *client.Client {
	return t.session
}

// Anonymous returns a client that sends no credentials.
func (t *T) Anonymous() *client.Client {
	return t.anonymous
}

func (t *T) Credentials() client.Credentials {
	return t.env.params.Credentials
}

func (t *T) Data() *fakedata.Generator {
	return t.env.params.Data
}

// Context is the context for requests made by the test.
func (t *T) Context() context.Context {
	return t.env.params.Context
}
