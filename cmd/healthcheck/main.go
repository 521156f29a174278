// Package main provides a minimal HTTP healthcheck binary for container
// probes against the estimator server. It performs a GET request and exits
// with code 0 on success (2xx) or code 1 on failure.
// Usage: healthcheck [url]   (default: $ESTIMATOR_SERVER/readyz)
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	url := probeURL()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "healthcheck failed: status %d\n", resp.StatusCode)
	os.Exit(1)
}

func probeURL() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	base := os.Getenv("ESTIMATOR_SERVER")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/readyz"
}
