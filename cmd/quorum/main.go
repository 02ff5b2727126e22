package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/gate"
	"github.com/hpungsan/quorum/internal/mcp"
	"github.com/hpungsan/quorum/internal/ops"
	"github.com/hpungsan/quorum/internal/provider"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "consult": true, "minutes": true, "pack": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   __ _ _  _ ___  _ _ _  _ __ __
  / _' | || / _ \| '_| || |  V  |
  \__, |\_,_\___/|_|  \_,_|_|_|_|
     |_|

  Council deliberation engine

  Usage: quorum <command> [options]
         quorum --help

  MCP server mode requires piped input.`)
}

// buildDeps wires the provider client, pack cache, and gate. The live
// client is only constructed when an API key is available; the mock flag
// on consult bypasses it either way.
func buildDeps(ctx context.Context, database *sql.DB, cfg *config.Config) ops.Deps {
	deps := ops.Deps{
		Cache: ops.NewCache(database, cfg.PackCacheTTLSeconds),
		Gate:  gate.AllowAll{},
	}
	if key := os.Getenv(cfg.APIKeyEnv); key != "" {
		client, err := provider.NewGemini(ctx, provider.GeminiConfig{APIKey: key, Model: cfg.Model})
		if err == nil {
			deps.Client = client
		}
	}
	if deps.Client == nil {
		// No credentials: fall back to the deterministic offline client
		deps.Client = &provider.Mock{}
	}
	return deps
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, ops.Deps{})
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".quorum")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	deps := buildDeps(context.Background(), database, cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'quorum --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(database, cfg, deps, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
