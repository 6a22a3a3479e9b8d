// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -p, --yes, --model, --offline, --persona, --verbose, --version

package main

import (
	"flag"

	"github.com/meetbuddy/buddy/internal/config"
)

type cliArgs struct {
	prompt   string
	yes      bool
	model    string
	baseURL  string
	persona  string
	timezone string
	window   int
	offline  bool
	verbose  bool
	version  bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.prompt, "p", "", "Run a single command and exit")
	flag.BoolVar(&args.yes, "yes", false, "Answer yes to confirmation prompts (one-shot mode)")
	flag.StringVar(&args.model, "model", "", "Model to use (e.g., gpt-4o-mini)")
	flag.StringVar(&args.baseURL, "base-url", "", "Custom model API base URL")
	flag.StringVar(&args.persona, "persona", "", "Persona for free-form answers")
	flag.StringVar(&args.timezone, "timezone", "", "IANA timezone (e.g., Asia/Kolkata)")
	flag.IntVar(&args.window, "window", 0, "Rolling calendar window in days")
	flag.BoolVar(&args.offline, "offline", false, "Use the in-memory demo calendar")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}

// buildCLIOverrides maps flags onto a settings overlay. Zero values
// leave the config file values in place.
func buildCLIOverrides(args cliArgs) *config.Settings {
	return &config.Settings{
		Model:      args.model,
		BaseURL:    args.baseURL,
		Persona:    args.persona,
		Timezone:   args.timezone,
		WindowDays: args.window,
		Offline:    args.offline,
	}
}
