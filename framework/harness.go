package framework

import (
	"io"
	"strings"
	"time"
)

// TestHarness holds what the harness knows about the service under test once it has verified
// that the service is reachable.
type TestHarness struct {
	serviceBaseURL string
	serviceStatus  ServiceStatus
	logger         Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the service is responding by
// querying its status resource until it answers or the timeout elapses.
func NewTestHarness(
	serviceBaseURL string,
	statusPath string,
	statusQueryTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}

	h := &TestHarness{
		serviceBaseURL: strings.TrimSuffix(serviceBaseURL, "/"),
		logger:         debugLogger,
	}

	status, err := queryServiceStatus(h.serviceBaseURL+statusPath, statusQueryTimeout, debugLogger, startupOutput)
	if err != nil {
		return nil, err
	}
	h.serviceStatus = status

	return h, nil
}

func (h *TestHarness) ServiceBaseURL() string {
	return h.serviceBaseURL
}

func (h *TestHarness) ServiceStatus() ServiceStatus {
	return h.serviceStatus
}
