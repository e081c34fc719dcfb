// Package main provides a latency benchmark for the codecritic HTTP API.
// It posts synthetic snippets of increasing size to POST /api/review, running
// each payload multiple times, treating the first successful run as cold and averaging the rest as warm,
// and generates CSV output for performance analysis and documentation.
//
// Prerequisites:
// - a codecritic server started with `codecritic serve`
//
// Usage: go run benchmark/main.go [base-url]
//
//	base-url: Server root, e.g. http://localhost:5000
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// BenchmarkResult holds the result of a benchmark run (cold run, average of warm runs and throughput).
type BenchmarkResult struct {
	Payload    string
	Lines      int
	ColdTime   string
	WarmTime   string
	Throughput string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	BaseURL     string
	Timeout     time.Duration
	Workers     int
	Runs        int
	BurstSize   int
	PayloadSize map[string]int
	Languages   []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [base-url]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		BaseURL:   strings.TrimSuffix(os.Args[1], "/"),
		Timeout:   30 * time.Second,
		Workers:   8,
		Runs:      5,
		BurstSize: 64,
		PayloadSize: map[string]int{
			"small":  10,
			"medium": 200,
			"large":  2000,
		},
		Languages: []string{"python", "cpp", "javascript"},
	}

	client := &http.Client{Timeout: config.Timeout}
	if err := checkPrerequisites(client, config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(client, config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the server answers its health check
func checkPrerequisites(client *http.Client, config BenchmarkConfig) error {
	resp, err := client.Get(config.BaseURL + "/api/health")
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", config.BaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

// runBenchmarks executes the latency and burst phases for every payload and language
func runBenchmarks(client *http.Client, config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d payloads, %d languages, %d runs, %d workers, burst of %d\n",
		len(config.PayloadSize), len(config.Languages), config.Runs, config.Workers, config.BurstSize)

	for _, name := range []string{"small", "medium", "large"} {
		lines := config.PayloadSize[name]
		for _, language := range config.Languages {
			label := fmt.Sprintf("%s/%s", name, language)
			fmt.Printf("Benchmarking %s (%d lines)\n", label, lines)

			body, err := json.Marshal(map[string]string{
				"code":     synthesize(language, lines),
				"language": language,
			})
			if err != nil {
				fmt.Printf("  skipped: %v\n", err)
				continue
			}

			cold, warm := runLatency(client, config, body)
			throughput := runBurst(client, config, body)
			fmt.Printf("  Cold: %s, Warm average: %s, Throughput: %s\n", cold, warm, throughput)

			results = append(results, BenchmarkResult{
				Payload:    label,
				Lines:      lines,
				ColdTime:   cold,
				WarmTime:   warm,
				Throughput: throughput,
			})
		}
	}

	return results
}

// runLatency posts the same body sequentially and returns the cold time and warm average
func runLatency(client *http.Client, config BenchmarkConfig, body []byte) (coldTime, warmAvg string) {
	var times []float64
	for range config.Runs {
		start := time.Now()
		if postReview(client, config.BaseURL, body) {
			times = append(times, time.Since(start).Seconds())
		}
	}

	if len(times) == 0 {
		return "FAILED", "FAILED"
	}
	coldTime = fmt.Sprintf("%.4fs", times[0])
	if len(times) == 1 {
		return coldTime, "N/A"
	}
	var sum float64
	for _, t := range times[1:] {
		sum += t
	}
	return coldTime, fmt.Sprintf("%.4fs", sum/float64(len(times)-1))
}

// runBurst posts BurstSize requests over Workers goroutines and returns requests per second
func runBurst(client *http.Client, config BenchmarkConfig, body []byte) string {
	jobs := make(chan struct{}, config.BurstSize)
	for range config.BurstSize {
		jobs <- struct{}{}
	}
	close(jobs)

	var mu sync.Mutex
	succeeded := 0
	var wg sync.WaitGroup
	start := time.Now()
	for range config.Workers {
		wg.Go(func() {
			for range jobs {
				if postReview(client, config.BaseURL, body) {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}
		})
	}
	wg.Wait()

	elapsed := time.Since(start).Seconds()
	if succeeded == 0 || elapsed == 0 {
		return "FAILED"
	}
	return fmt.Sprintf("%.1f req/s", float64(succeeded)/elapsed)
}

// postReview sends one review request and reports whether it succeeded
func postReview(client *http.Client, baseURL string, body []byte) bool {
	resp, err := client.Post(baseURL+"/api/review", "application/json", bytes.NewReader(body))
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// synthesize builds a snippet of roughly n lines with functions, branches and loops
func synthesize(language string, n int) string {
	var b strings.Builder
	for i := 0; b.Len() == 0 || strings.Count(b.String(), "\n") < n; i++ {
		switch language {
		case "cpp":
			fmt.Fprintf(&b, "// step %d\nint step%d(int x) {\n  for (int i = 0; i < x; i++) {\n    if (i %% 2 == 0) { x += i; }\n  }\n  return x;\n}\n", i, i)
		case "javascript":
			fmt.Fprintf(&b, "// step %d\nfunction step%d(x) {\n  for (let i = 0; i < x; i++) {\n    if (i %% 2 === 0) { x += i; }\n  }\n  return x;\n}\n", i, i)
		default:
			fmt.Fprintf(&b, "# step %d\ndef step%d(x):\n    for i in range(x):\n        if i %% 2 == 0:\n            x += i\n    return x\n", i, i)
		}
	}
	return b.String()
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/codecritic_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"payload", "lines", "cold_time", "warm_avg", "throughput"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Payload, fmt.Sprint(result.Lines), result.ColdTime, result.WarmTime, result.Throughput}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-18s: Cold: %s, Warm: %s, Throughput: %s\n", result.Payload, result.ColdTime, result.WarmTime, result.Throughput)
	}
}
