package cmd

import (
	"context"
	"fmt"
	"strings"

	"aiproxy/internal/version"
)

const usage = `aiproxy is a chat-completion proxy translating between the OpenAI,
Claude and Gemini APIs.

Usage:
  aiproxy <command> [flags]

Commands:
  serve      Start the HTTP server
  version    Print the version
  help       Show this help message

Run "aiproxy serve --help" for serve flags.`

// Execute runs the CLI dispatcher with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return printUsage()
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "version", "--version":
		fmt.Printf("aiproxy %s\n", version.Version)
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func printUsage() error {
	fmt.Println(strings.TrimSpace(usage))
	return nil
}
