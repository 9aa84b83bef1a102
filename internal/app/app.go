// Package app implements the intel CLI commands.
package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "serve":
		return runServe(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "read":
		return runRead(args[1:])
	case "validate":
		return runValidate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "intel CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  intel <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  serve     Start the HTTP API server")
	fmt.Fprintln(os.Stderr, "  ingest    Ingest one intelligence payload from JSON")
	fmt.Fprintln(os.Stderr, "  read      Print the assembled report for a company")
	fmt.Fprintln(os.Stderr, "  validate  Validate payload JSON files against the ingest schema")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"intel <command> -h\" for command-specific flags.")
}
