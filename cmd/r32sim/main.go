// Package main provides the entry point for r32sim.
// r32sim runs R32 program images on the functional emulator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/r32sim/config"
	"github.com/sarchlab/r32sim/emu"
	"github.com/sarchlab/r32sim/loader"
)

// exitFunc ends the process when a fatal diagnostic is logged.
var exitFunc = os.Exit

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin, os.Getenv))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, stdin io.Reader, getenv func(string) string) int {
	flags := flag.NewFlagSet("r32sim", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath = flags.String("config", "", "Path to machine configuration (JSON or YAML)")
		verbose    = flags.Bool("v", false, "Trace every instruction on stderr")
		dumpRegs   = flags.Bool("dump", false, "Dump registers after the run")
		memRange   = flags.String("mem", "", "Dump memory after the run: start:end[:hex|dec|oct]")
		maxInstr   = flags.Uint64("max-instr", 0, "Stop after this many instructions (0 = no limit)")
		cpuProfile = flags.String("cpuprofile", "", "Write CPU profile to file")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: r32sim [options] <program.spec|program.prog|a.out>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	cfg.ApplyEnv(getenv)
	if *verbose {
		cfg.LogLevel = logrus.TraceLevel.String()
	}
	if *maxInstr > 0 {
		cfg.MaxInstructions = *maxInstr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	var dump *memDump
	if *memRange != "" {
		var err error
		if dump, err = parseMemDump(*memRange); err != nil {
			fmt.Fprintf(stderr, "Invalid -mem: %v\n", err)
			return 2
		}
	}

	logger := newLogger(stderr, cfg)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating CPU profile: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Error starting CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()

		// A fatal diagnostic exits without running deferred calls.
		exit := logger.ExitFunc
		logger.ExitFunc = func(code int) {
			pprof.StopCPUProfile()
			_ = f.Close()
			exit(code)
		}
	}

	programPath := flags.Arg(0)
	prog, err := loader.Load(programPath)
	if err != nil {
		logger.WithError(err).Error("failed to load program")
		return 1
	}

	entry := cfg.BootAddress
	if prog.HasEntryPoint {
		entry = prog.EntryPoint
	}
	logger.WithFields(logrus.Fields{
		"program":  programPath,
		"entry":    fmt.Sprintf("0x%04X", entry),
		"segments": len(prog.Segments),
		"bytes":    prog.Size(),
	}).Debug("program loaded")

	e := emu.NewEmulator(
		emu.WithConfig(cfg),
		emu.WithLogger(logger),
		emu.WithOutput(stdout),
		emu.WithInput(stdin),
	)
	if err := e.LoadProgram(prog); err != nil {
		logger.WithError(err).Error("failed to load program")
		return 1
	}

	code := 0
	if err := e.Run(); err != nil {
		logger.WithError(err).WithField("cycles", e.Cycles()).Error("emulation stopped")
		code = 1
	}

	if paged, ok := e.Memory().(*emu.PagedMemory); ok {
		logger.WithFields(logrus.Fields{
			"pages":     paged.AllocatedPages(),
			"page_size": paged.PageSize(),
		}).Debug("paged memory in use")
	}

	if *dumpRegs {
		if err := e.DumpRegisters(stderr); err != nil {
			logger.WithError(err).Error("failed to dump registers")
		}
	}
	if dump != nil {
		if err := dump.write(stderr, e.Memory()); err != nil {
			logger.WithError(err).Error("failed to dump memory")
			code = 1
		}
	}

	return code
}

// newLogger builds the diagnostic logger. Its level was validated with the
// rest of the config.
func newLogger(w io.Writer, cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.ExitFunc = exitFunc
	level, _ := cfg.Level()
	logger.SetLevel(level)
	return logger
}
