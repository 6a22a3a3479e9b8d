// ABOUTME: CLI entry point for buddy, the conversational calendar assistant
// ABOUTME: Parses flags, loads config and auth, registers providers, dispatches to mode

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meetbuddy/buddy/internal/action"
	"github.com/meetbuddy/buddy/internal/config"
	"github.com/meetbuddy/buddy/internal/graph"
	"github.com/meetbuddy/buddy/internal/intent"
	"github.com/meetbuddy/buddy/internal/log"
	"github.com/meetbuddy/buddy/internal/mode/interactive"
	"github.com/meetbuddy/buddy/internal/mode/oneshot"
	"github.com/meetbuddy/buddy/internal/prompt"
	"github.com/meetbuddy/buddy/pkg/ai"
	"github.com/meetbuddy/buddy/pkg/ai/provider/anthropic"
	"github.com/meetbuddy/buddy/pkg/ai/provider/openai"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("buddy %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run performs the full initialization sequence and dispatches to the
// selected mode.
func run(args cliArgs) error {
	// Optional .env for GRAPH_TOKEN and API keys; absence is fine.
	_ = godotenv.Load()

	if args.verbose {
		log.SetLevel(log.LevelDebug)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	auth, err := config.LoadAuth()
	if err != nil {
		return fmt.Errorf("loading auth: %w", err)
	}

	cfg, err := config.Load(cwd, buildCLIOverrides(args))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
	}

	registerProviders(auth)

	model := ai.FindModel(cfg.Model)
	persona, err := prompt.FindPersona(config.PersonaDirs(cwd), cfg.Persona)
	if err != nil {
		return err
	}

	var completer intent.CompleteFunc
	var answer action.AnswerFunc
	if key := auth.GetKey(string(model.Api)); key != "" {
		provider := ai.GetProvider(model.Api, cfg.BaseURL)
		if provider == nil {
			return fmt.Errorf("no provider registered for API %q", model.Api)
		}
		completer = func(ctx context.Context, system, user string) (string, error) {
			// Temperature 0 keeps the intent envelope reproducible.
			return provider.Complete(ctx, model, ai.Request{System: system, Prompt: user, Temperature: 0})
		}
		answer = func(ctx context.Context, question string) (string, error) {
			system := prompt.SystemPrompt(persona, time.Now().In(loc))
			return provider.Complete(ctx, model, ai.Request{
				System:      system,
				Prompt:      question,
				Temperature: cfg.Temperature,
			})
		}
	} else {
		log.Info("no API key for %s, using rule-based classification", model.Api)
	}
	classifier := intent.NewClassifier(completer)

	svc, err := buildService(auth, cfg)
	if err != nil {
		return err
	}

	exec := &action.Executor{
		Cal:      svc,
		Dir:      svc,
		Mail:     svc,
		Answer:   answer,
		Loc:      loc,
		Window:   cfg.WindowDays,
		Duration: time.Duration(cfg.DurationMins) * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if args.prompt != "" {
		ui := &oneshot.UI{Out: os.Stdout, Loc: loc, AssumeYes: args.yes}
		exec.UI = ui
		return oneshot.Run(ctx, oneshot.Deps{Exec: exec, Classifier: classifier}, args.prompt)
	}

	sh := interactive.NewShell(loc)
	exec.UI = sh
	return interactive.Run(ctx, interactive.Deps{
		Shell:      sh,
		Exec:       exec,
		Classifier: classifier,
		Version:    version,
	})
}

// registerProviders wires the provider factories with stored keys.
func registerProviders(auth *config.AuthStore) {
	ai.RegisterProvider(ai.ApiOpenAI, func(baseURL string) ai.Provider {
		return openai.New(auth.GetKey("openai"), baseURL)
	})
	ai.RegisterProvider(ai.ApiAnthropic, func(baseURL string) ai.Provider {
		return anthropic.New(auth.GetKey("anthropic"), baseURL)
	})
}

// buildService picks the calendar backend: the REST client when a
// bearer token is available, the seeded in-memory service otherwise.
func buildService(auth *config.AuthStore, cfg *config.Settings) (graph.Service, error) {
	if cfg.Offline {
		log.Info("offline mode, using the in-memory demo calendar")
		return graph.NewDemoService(time.Now()), nil
	}

	token := auth.GraphToken()
	if token == "" {
		log.Warn("no calendar token found (GRAPH_TOKEN), using the in-memory demo calendar")
		return graph.NewDemoService(time.Now()), nil
	}
	return graph.NewClient(token, ""), nil
}
