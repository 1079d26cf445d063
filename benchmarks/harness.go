// Package benchmarks provides a throughput benchmark harness for r32sim.
package benchmarks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/r32sim/config"
	"github.com/sarchlab/r32sim/emu"
	"github.com/sarchlab/r32sim/loader"
)

// BenchmarkResult holds the results of a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// Cycles is the number of ticks the run took
	Cycles uint64 `json:"cycles"`

	// Instructions is the number of executed instructions
	Instructions uint64 `json:"instructions"`

	// Output is what the program printed
	Output string `json:"output"`

	// Passed is true when the run halted and produced the expected state
	Passed bool `json:"passed"`

	// Error describes why the run did not pass
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the program
	WallTime time.Duration `json:"wall_time_ns"`
}

// MIPS returns executed instructions per microsecond of wall time.
func (r BenchmarkResult) MIPS() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	return float64(r.Instructions) / float64(r.WallTime.Microseconds()+1)
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Program is the image to run
	Program *loader.Program

	// ExpectedOutput is compared with the console output when non-empty
	ExpectedOutput string

	// Validate inspects the machine after the run
	Validate func(e *emu.Emulator) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Machine is the configuration every benchmark machine is built from
	Machine *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives emulator diagnostics (default: discarded)
	Logger *logrus.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return HarnessConfig{
		Machine: config.Default(),
		Output:  os.Stdout,
		Logger:  logger,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	defaults := DefaultConfig()
	if config.Output == nil {
		config.Output = defaults.Output
	}
	if config.Machine == nil {
		config.Machine = defaults.Machine
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
	return &Harness{config: config}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))
	for _, bench := range h.benchmarks {
		results = append(results, h.Run(bench))
	}
	return results
}

// Run executes a single benchmark on a fresh machine.
func (h *Harness) Run(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	var out bytes.Buffer
	e := emu.NewEmulator(
		emu.WithConfig(h.config.Machine),
		emu.WithOutput(&out),
		emu.WithLogger(h.config.Logger),
	)

	err := e.LoadProgram(bench.Program)
	if err == nil {
		start := time.Now()
		err = e.Run()
		result.WallTime = time.Since(start)
	}

	result.Cycles = e.Cycles()
	result.Instructions = e.InstructionCount()
	result.Output = out.String()

	if err == nil {
		err = check(bench, e, result.Output)
	}
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Passed = true
	}

	return result
}

func check(bench Benchmark, e *emu.Emulator, output string) error {
	if !e.Halted() {
		return errors.New("machine did not halt")
	}
	if bench.ExpectedOutput != "" && output != bench.ExpectedOutput {
		return fmt.Errorf("output %q, want %q", output, bench.ExpectedOutput)
	}
	if bench.Validate != nil {
		return bench.Validate(e)
	}
	return nil
}

// PrintResults prints benchmark results in human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := h.config.Output
	_, _ = fmt.Fprintln(w, "=== r32sim Benchmark Results ===")
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description:  %s\n", r.Description)
		_, _ = fmt.Fprintf(w, "  Passed:       %v\n", r.Passed)
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, "  Error:        %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(w, "  Cycles:       %d\n", r.Cycles)
		_, _ = fmt.Fprintf(w, "  Instructions: %d\n", r.Instructions)
		_, _ = fmt.Fprintf(w, "  Wall Time:    %v\n", r.WallTime)
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV prints benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,cycles,instructions,wall_time_ns,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%v\n",
			r.Name,
			r.Cycles,
			r.Instructions,
			r.WallTime.Nanoseconds(),
			r.Passed,
		)
	}
}

// BenchmarkReport is the JSON document written by PrintJSON.
type BenchmarkReport struct {
	Timestamp string            `json:"timestamp"`
	Machine   *config.Config    `json:"machine"`
	Results   []BenchmarkResult `json:"results"`
	Summary   ReportSummary     `json:"summary"`
}

// ReportSummary aggregates all results of a report.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	Passed            int           `json:"passed"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON writes the results and a summary as indented JSON.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		if r.Passed {
			summary.Passed++
		}
		summary.TotalCycles += r.Cycles
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
	}

	report := BenchmarkReport{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Machine:   h.config.Machine,
		Results:   results,
		Summary:   summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
