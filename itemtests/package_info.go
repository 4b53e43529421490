// Package itemtests contains the items service contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to the items domain, such as test contexts,
// filtering, and result reporting, is in the lower-level framework package. The HTTP calls are
// made through the client package.
package itemtests
