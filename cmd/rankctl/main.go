// Command rankctl ranks resume files against a job description from the
// command line, or serves the ranking tool over MCP stdio.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kailas-cloud/rankdex/internal/config"
	"github.com/kailas-cloud/rankdex/internal/version"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch arg := os.Args[1]; arg {
	case "-h", "-help", "--help", "help":
		printUsage()
	case "-version", "--version", "version":
		fmt.Println("rankctl " + version.String())
	case "screen":
		os.Exit(handleScreen(os.Args[2:]))
	case "mcp":
		os.Exit(handleMCP(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand %q\n\n", arg)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `rankctl ranks resumes against a job description.

USAGE:
    rankctl <command> [options]

COMMANDS:
    screen     Rank resume files and print or save the results
    mcp        Serve the screen_resumes tool over MCP stdio
    version    Print version information

Run "rankctl <command> -h" for command options.
`)
}

// loadConfig reads path when given, else the ENV config file when one
// exists, else the built-in defaults.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path) //nolint:wrapcheck // already descriptive
	}
	env := config.GetEnv()
	if config.Exists(env) {
		return config.Load(env) //nolint:wrapcheck // already descriptive
	}
	return config.Default(), nil
}
