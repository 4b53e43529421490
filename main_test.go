package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/contract-tests/items-contract-tests/config"
	"github.com/contract-tests/items-contract-tests/framework"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.prom")
	results := framework.Results{
		Tests: []framework.TestResult{
			{TestID: framework.TestID{Path: []string{"a"}}},
			{TestID: framework.TestID{Path: []string{"b"}}, Errors: []error{errors.New("x")}},
			{TestID: framework.TestID{Path: []string{"c"}}, Skipped: true},
		},
	}

	require.NoError(t, writeMetricsFile(path, prometheus.NewRegistry(), results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `items_contract_tests{outcome="passed"} 1`)
	assert.Contains(t, string(data), `items_contract_tests{outcome="failed"} 1`)
	assert.Contains(t, string(data), `items_contract_tests{outcome="skipped"} 1`)
}

func TestSelfCheckServiceAnswersHealthCheck(t *testing.T) {
	cfg := config.Default()
	service, err := startSelfCheckService(cfg, framework.NullLogger())
	require.NoError(t, err)
	defer service.Close()

	assert.Equal(t, service.BaseURL(), cfg.BaseURL)
	assert.Equal(t, selfCheckUsername, cfg.Credentials.Username)
	assert.NotEmpty(t, cfg.Credentials.Password)
	require.NoError(t, cfg.Validate())

	resp, err := http.Get(cfg.BaseURL + servicedef.HealthCheckPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRunSelfCheckPassesAndStopsService(t *testing.T) {
	color.NoColor = true
	metricsPath := filepath.Join(t.TempDir(), "items.prom")
	var stdout, stderr bytes.Buffer

	code := run([]string{"items-contract-tests", "-self-check", "-metrics-file", metricsPath}, &stdout, &stderr)
	require.Equal(t, 0, code, "stdout:\n%s\nstderr:\n%s", stdout.String(), stderr.String())
	assert.Contains(t, stdout.String(), "All tests passed")

	match := regexp.MustCompile(`reference service at (\S+)`).FindStringSubmatch(stdout.String())
	require.Len(t, match, 2)
	_, err := http.Get(match[1] + servicedef.HealthCheckPath)
	assert.Error(t, err, "reference service should be shut down when run returns")

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `items_contract_tests{outcome="failed"} 0`)
}

func TestRunFailsOnInvalidConfiguration(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"items-contract-tests", "-url", "not a url"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Invalid configuration")
}

func TestConsoleTestLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"CRUD", "read item"}}

	var debug framework.CapturingLogger
	debug.Printf("GET /api/v1/items/x")

	l.TestStarted(id)
	l.TestError(id, errors.New("line one\nline two"))
	l.TestFinished(id, true, debug.Output())
	l.TestSkipped(framework.TestID{Path: []string{"auth"}}, "excluded by filter parameters")

	out := buf.String()
	assert.Contains(t, out, "[CRUD/read item]\n")
	assert.Contains(t, out, "  line one\n  line two\n")
	assert.Contains(t, out, "  FAILED: CRUD/read item\n")
	assert.Contains(t, out, "    DEBUG [")
	assert.Contains(t, out, "GET /api/v1/items/x")
	assert.Contains(t, out, "  SKIPPED: auth (excluded by filter parameters)\n")
}
