// Package main provides the entry point for r32sim.
// r32sim is a functional emulator for the R32 register machine.
//
// For the full CLI, use: go run ./cmd/r32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("r32sim - R32 register machine emulator")
	fmt.Println("")
	fmt.Println("Usage: r32sim [options] <a.out | program.spec | program.prog>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Machine configuration file (YAML or JSON)")
	fmt.Println("  -v           Trace every executed instruction")
	fmt.Println("  -dump        Dump registers after the run")
	fmt.Println("  -mem         Dump memory start:end[:hex|dec|oct] after the run")
	fmt.Println("  -max-instr   Stop after this many instructions")
	fmt.Println("  -cpuprofile  Write a CPU profile to file")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/r32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/r32sim' instead.")
	}
}
