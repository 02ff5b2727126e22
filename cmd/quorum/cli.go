package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/ops"
	"github.com/hpungsan/quorum/internal/roster"
	"github.com/hpungsan/quorum/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, deps ops.Deps) *cli.App {
	app := &cli.App{
		Name:    "quorum",
		Usage:   "Council deliberation engine",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg, deps),
			consultCmd(db, cfg, deps),
			minutesCmd(db),
			packCmd(cfg, deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the JSON API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8674, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, deps, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// consultCmd creates the consult command.
func consultCmd(db *sql.DB, cfg *config.Config, deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:      "consult",
		Usage:     "Pose a decision question to the council",
		ArgsUsage: "[question]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "context", Aliases: []string{"c"}, Usage: "Background the council should consider"},
			&cli.StringFlag{Name: "preset", Usage: "Named lineup preset"},
			&cli.StringFlag{Name: "roles", Usage: "Custom lineup, e.g. STRATEGIST:0.5,FUTURIST:0.5"},
			&cli.StringFlag{Name: "pack", Usage: "Prompt pack slug (defaults from config)"},
			&cli.StringFlag{Name: "locale", Usage: "Pack locale (defaults from config)"},
			&cli.IntFlag{Name: "pack-version", Usage: "Pin a pack version (0 = active)"},
			&cli.BoolFlag{Name: "mock", Usage: "Use the deterministic offline provider"},
			&cli.BoolFlag{Name: "mock-v2", Usage: "Offline provider with the executive consensus shape"},
		},
		Action: func(c *cli.Context) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" && stdinHasData() {
				var err error
				question, err = readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			roles, err := parseRoles(c.String("roles"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.Consult(c.Context, db, cfg, deps, ops.ConsultInput{
				Question:    question,
				Context:     c.String("context"),
				Preset:      c.String("preset"),
				Roles:       roles,
				PackSlug:    c.String("pack"),
				Locale:      c.String("locale"),
				PackVersion: c.Int("pack-version"),
				Mock:        c.Bool("mock"),
				MockV2:      c.Bool("mock-v2"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// minutesCmd creates the minutes command group.
func minutesCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "minutes",
		Usage: "Read past deliberation records",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List records, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: ops.DefaultListLimit, Usage: "Page size"},
					&cli.IntFlag{Name: "offset", Usage: "Records to skip"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.List(db, ops.ListInput{
						Limit:  c.Int("limit"),
						Offset: c.Int("offset"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "fetch",
				Usage:     "Fetch one record by ID",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					output, err := ops.Fetch(db, ops.FetchInput{ID: c.Args().First()})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "latest",
				Usage: "Fetch the most recent record",
				Action: func(c *cli.Context) error {
					output, err := ops.Latest(db)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// packCmd creates the pack command group.
func packCmd(cfg *config.Config, deps ops.Deps) *cli.Command {
	return &cli.Command{
		Name:  "pack",
		Usage: "Inspect prompt packs",
		Subcommands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Show the pack a consultation would run with",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Usage: "Pack slug (defaults from config)"},
					&cli.StringFlag{Name: "locale", Usage: "Pack locale (defaults from config)"},
					&cli.IntFlag{Name: "version", Usage: "Pin a pack version (0 = active)"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.PackInfo(deps.Cache, cfg, ops.PackInfoInput{
						Slug:    c.String("slug"),
						Locale:  c.String("locale"),
						Version: c.Int("version"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// Helper functions

// parseRoles parses "ROLE:WEIGHT,ROLE:WEIGHT" into a custom lineup.
// Position follows the order given.
func parseRoles(s string) ([]roster.RoleWeight, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	roles := make([]roster.RoleWeight, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, weightStr, found := strings.Cut(part, ":")
		weight := 0.0
		if found {
			w, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid weight in %q", part)
			}
			weight = w
		}
		roles = append(roles, roster.RoleWeight{
			RoleKey:  strings.ToUpper(strings.TrimSpace(key)),
			Weight:   weight,
			Position: i + 1,
		})
	}
	return roles, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if qErr, ok := err.(*errors.QuorumError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", qErr.Code, qErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
