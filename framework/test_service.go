package framework

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const statusQueryInterval = time.Millisecond * 100
const maxStatusBodyLength = 200

// ServiceStatus is what the service under test returned from the initial status query.
type ServiceStatus struct {
	StatusCode int
	Body       string
}

// queryServiceStatus polls the status URL until the service gives any answer that is not a
// server error. Any other status is fine here: some deployments put the status resource behind
// authentication, and all we want to know is that something is listening.
func queryServiceStatus(url string, timeout time.Duration, logger Logger, output io.Writer) (ServiceStatus, error) {
	fmt.Fprintf(output, "Connecting to service at %s", url)

	httpClient := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := httpClient.Get(url)
		if err == nil {
			data, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr == nil && resp.StatusCode < 500 {
				fmt.Fprintln(output)
				status := ServiceStatus{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(data)))}
				fmt.Fprintf(output, "Status query returned HTTP %d: %s\n", status.StatusCode, status.Body)
				return status, nil
			}
			if readErr != nil {
				err = readErr
			} else {
				err = fmt.Errorf("service returned status code %d", resp.StatusCode)
			}
		}
		logger.Printf("Status query failed: %s", err)
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return ServiceStatus{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusQueryInterval)
	}
}

func truncate(s string) string {
	if len(s) <= maxStatusBodyLength {
		return s
	}
	return s[:maxStatusBodyLength] + "..."
}
