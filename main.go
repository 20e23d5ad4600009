// Package main provides the entry point for rvemu.
// rvemu is a functional emulator for a small RV64I subset.
//
// For the full CLI, use: go run ./cmd/rvemu
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvemu - RISC-V RV64I emulator")
	fmt.Println("")
	fmt.Println("Usage: rvemu [options] [image.bin]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to machine configuration JSON file")
	fmt.Println("  -v         Trace every executed instruction")
	fmt.Println("  -max       Maximum instructions to execute")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvemu' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvemu' instead.")
	}
}
