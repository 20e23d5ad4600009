// Package main provides the entry point for rvemu.
// rvemu runs a raw RV64I program image on a functional emulator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/emu"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, runs the emulator and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("rvemu", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configPath := flags.String("config", "", "Path to machine configuration JSON file")
	verbose := flags.Bool("v", false, "Trace every executed instruction")
	maxInsts := flags.Uint64("max", 0, "Maximum instructions to execute (0 = no limit)")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rvemu [options] [image.bin]\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return 2
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
	}
	if *maxInsts != 0 {
		cfg.MaxInstructions = *maxInsts
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	emulator, err := emu.NewEmulator(
		emu.WithConfig(cfg),
		emu.WithStdout(stdout),
		emu.WithLogger(newLogger(stderr, *verbose)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating emulator: %v\n", err)
		return 1
	}

	if flags.NArg() == 1 {
		if err := emulator.Memory().LoadImage(flags.Arg(0)); err != nil {
			fmt.Fprintf(stderr, "Error loading image: %v\n", err)
			return 1
		}
	}

	if err := emulator.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Fprintf(stderr, "Instructions executed: %d\n", emulator.InstructionCount())
	}

	return 0
}

func newLogger(w io.Writer, verbose bool) logr.Logger {
	opts := funcr.Options{}
	if verbose {
		opts.Verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, opts)
}
