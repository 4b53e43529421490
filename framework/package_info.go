// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. The test harness talks to a service under test over HTTP. Before any tests run, it checks
// that the service is reachable by querying a status resource.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results, along with debug output that is only shown when it is wanted.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the requests to send to the service, the expectations about its responses, and a
// domain-specific test API on top of the test context.
package framework
