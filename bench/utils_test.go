package table_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/theflywheel/table"
)

// BenchmarkMetrics represents metrics for a single benchmark
type BenchmarkMetrics struct {
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Operations  int                `json:"operations"`
	NsPerOp     float64            `json:"ns_per_op"`
	BytesPerOp  int                `json:"bytes_per_op,omitempty"`
	AllocsPerOp int                `json:"allocs_per_op,omitempty"`
	Table       table.Stats        `json:"table"`
	Metrics     map[string]float64 `json:"metrics"`
}

// BenchmarkSummary represents all benchmark results
type BenchmarkSummary struct {
	Timestamp string             `json:"timestamp"`
	CommitID  string             `json:"commit_id"`
	Branch    string             `json:"branch"`
	GoVersion string             `json:"go_version"`
	Results   []BenchmarkMetrics `json:"results"`
}

// memSample is a heap snapshot taken between benchmark phases.
type memSample struct {
	allocs  uint64
	bytes   uint64
	allocMB float64
}

func sampleMemory() memSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memSample{
		allocs:  m.Mallocs,
		bytes:   m.TotalAlloc,
		allocMB: float64(m.Alloc) / (1024 * 1024),
	}
}

// recordTableStats copies the table counters into the metrics.
func recordTableStats[K, V any](metrics *BenchmarkMetrics, t *table.Table[K, V]) {
	s := t.Stats()
	metrics.Table = s
	metrics.Metrics["collision_ratio"] = float64(s.Collisions) / float64(s.Size)
	metrics.Metrics["load_factor"] = float64(s.Size) / float64(s.Capacity)
}

// gitInfo reads the current branch and short commit from the repository root.
func gitInfo(repoRoot string) (branch, commitID string) {
	branch, commitID = "dev", "local"

	head, err := os.ReadFile(filepath.Join(repoRoot, ".git", "HEAD"))
	if err != nil {
		return branch, commitID
	}
	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, "ref: ") {
		// Detached HEAD holds the commit itself.
		if len(content) >= 8 {
			commitID = content[:8]
		}
		return branch, commitID
	}

	ref := strings.TrimPrefix(content, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(repoRoot, ".git", ref)); err == nil {
		commitID = strings.TrimSpace(string(data))
		if len(commitID) >= 8 {
			commitID = commitID[:8]
		}
	}
	return branch, commitID
}

// saveBenchmarkResult appends a benchmark result to benchmark_history/<resultsFile>
// in the repository root.
func saveBenchmarkResult(metrics BenchmarkMetrics, resultsFile string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// bench/ sits one level below the repository root
	repoRoot := filepath.Dir(currentDir)
	benchmarkDir := filepath.Join(repoRoot, "benchmark_history")
	if err := os.MkdirAll(benchmarkDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	branch, commitID := gitInfo(repoRoot)
	summary := BenchmarkSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
		Results:   []BenchmarkMetrics{metrics},
	}

	latestFile := filepath.Join(benchmarkDir, resultsFile)
	if existing, err := os.ReadFile(latestFile); err == nil {
		var prev BenchmarkSummary
		if err := json.Unmarshal(existing, &prev); err == nil {
			summary.Results = append(prev.Results, metrics)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	if err := os.WriteFile(latestFile, data, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	fmt.Printf("Benchmark results saved to: %s\n", latestFile)
	return nil
}
