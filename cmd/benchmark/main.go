// Command benchmark runs the r32sim throughput benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv     Output results in CSV format (default: human-readable)
//	-json    Output results as a JSON report
//	-paged   Run on demand-allocated paged memory
//	-config  Machine configuration file (YAML or JSON)
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/r32sim/benchmarks"
	"github.com/sarchlab/r32sim/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	paged := flag.Bool("paged", false, "Use paged memory")
	configPath := flag.String("config", "", "Machine configuration file")
	flag.Parse()

	log := logrus.New()

	machine := config.Default()
	if *configPath != "" {
		var err error
		if machine, err = config.Load(*configPath); err != nil {
			log.WithError(err).Fatal("failed to load config")
		}
	}
	if *paged {
		machine.Paged = true
	}
	if err := machine.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	harnessConfig := benchmarks.DefaultConfig()
	harnessConfig.Machine = machine
	harnessConfig.Output = os.Stdout

	harness := benchmarks.NewHarness(harnessConfig)
	harness.AddBenchmarks(benchmarks.Microbenchmarks())

	if !*csvOutput && !*jsonOutput {
		fmt.Println("r32sim Benchmark Harness")
		fmt.Println("========================")
		fmt.Printf("Memory: %d bytes (paged: %v)\n", machine.Capacity(), machine.Paged)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			log.WithError(err).Fatal("failed to write report")
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		fmt.Println("=== Summary ===")
		for _, r := range results {
			fmt.Printf("%-16s %8d insts  %8.2f MIPS\n", r.Name, r.Instructions, r.MIPS())
		}
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
