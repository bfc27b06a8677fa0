package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"triage-ai/internal/infra/config"
	"triage-ai/internal/infra/logger"
	"triage-ai/internal/infra/tracer"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	flags, args := parseFlags()

	if len(args) > 0 && args[0] == "tickets" {
		if err := runTickets(flags, args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "tickets: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(flags, strings.Join(args, " ")); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`triage - support message triage agent

USAGE:
    triage [FLAGS] [MESSAGE]
    triage [FLAGS] tickets <SUBCOMMAND>

With a MESSAGE argument the agent classifies it, routes it, and prints
the reply. Without one it reads messages from stdin, one per line.

SUBCOMMANDS:
    tickets list              List all support tickets
    tickets status N          Show the status of ticket N
    tickets update N STATUS   Change the status of ticket N

FLAGS:
    -h, --help         Show this help message
    --config PATH      Config file path (default: ./config.yaml)
    --model NAME       Override the configured model (e.g. gpt-4o-mini)

CONFIGURATION:
    Config file: ./config.yaml (optional)
    Environment: OPENAI_API_KEY, OPENAI_BASE_URL, TRIAGE_* variables

EXAMPLES:
    triage "My transfer failed twice and nobody called back"
    triage "What's the status of ticket 12?"
    triage tickets list
    OPENAI_API_KEY=sk-... triage --model gpt-4o "Thanks, all sorted!"`)
}

// cliFlags holds flags shared by all commands.
type cliFlags struct {
	ConfigPath string
	Model      string
}

// parseFlags extracts --config and --model from os.Args and returns the
// remaining positional arguments.
func parseFlags() (cliFlags, []string) {
	flags := cliFlags{ConfigPath: configPath()}
	var args []string
	for i := 1; i < len(os.Args); i++ {
		switch {
		case os.Args[i] == "--config" && i+1 < len(os.Args):
			flags.ConfigPath = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--config="):
			flags.ConfigPath = strings.TrimPrefix(os.Args[i], "--config=")
		case os.Args[i] == "--model" && i+1 < len(os.Args):
			flags.Model = os.Args[i+1]
			i++
		case strings.HasPrefix(os.Args[i], "--model="):
			flags.Model = strings.TrimPrefix(os.Args[i], "--model=")
		default:
			args = append(args, os.Args[i])
		}
	}
	return flags, args
}

func configPath() string {
	if v := os.Getenv("TRIAGE_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(".", "config.yaml")
}

// loadConfig loads the config file (missing file falls back to defaults
// plus environment) and applies flag overrides.
func loadConfig(flags cliFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flags.Model != "" {
		cfg.LLM.Provider.Model = flags.Model
	}
	return cfg, nil
}

func run(flags cliFlags, message string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	app, err := initApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	if message != "" {
		return handleOne(ctx, app, message)
	}
	return repl(ctx, app)
}

// handleOne processes a single message and prints the reply.
func handleOne(ctx context.Context, app *App, message string) error {
	reply, err := app.Triage.HandleMessage(ctx, message)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

// repl reads messages from stdin, one per line, until EOF.
func repl(ctx context.Context, app *App) error {
	fmt.Println("triage ready. Type a message, or Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reply, err := app.Triage.HandleMessage(ctx, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
	fmt.Println()
	return scanner.Err()
}
