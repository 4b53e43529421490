package main

import (
	"fmt"

	"github.com/contract-tests/items-contract-tests/framework"

	"github.com/prometheus/client_golang/prometheus"
)

// writeMetricsFile adds the test outcome counts to the registry, which already holds the request
// metrics, and writes it all in the Prometheus text format. The file is written atomically, so
// it can go straight into a node exporter textfile directory.
func writeMetricsFile(path string, registry *prometheus.Registry, results framework.Results) error {
	outcomes := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "items_contract_tests",
			Help: "Number of contract tests by outcome in the last run",
		},
		[]string{"outcome"},
	)
	if err := registry.Register(outcomes); err != nil {
		return fmt.Errorf("registering result metrics: %w", err)
	}
	passed, failed, skipped := results.Counts()
	outcomes.WithLabelValues("passed").Set(float64(passed))
	outcomes.WithLabelValues("failed").Set(float64(failed))
	outcomes.WithLabelValues("skipped").Set(float64(skipped))

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
