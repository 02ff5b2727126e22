package main

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/gate"
	"github.com/hpungsan/quorum/internal/ops"
	"github.com/hpungsan/quorum/internal/provider"
	"github.com/hpungsan/quorum/internal/roster"
)

// setupTestApp creates a CLI app over a temporary database.
func setupTestApp(t *testing.T) (*sql.DB, *config.Config, ops.Deps) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	deps := ops.Deps{
		Client: &provider.Mock{},
		Cache:  ops.NewCache(database, cfg.PackCacheTTLSeconds),
		Gate:   gate.AllowAll{},
	}
	return database, cfg, deps
}

// TestParseRoles tests the parseRoles helper function.
func TestParseRoles(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []roster.RoleWeight
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single role with weight",
			input: "STRATEGIST:0.5",
			want:  []roster.RoleWeight{{RoleKey: "STRATEGIST", Weight: 0.5, Position: 1}},
		},
		{
			name:  "multiple roles lower-cased",
			input: "strategist:0.6, futurist:0.4",
			want: []roster.RoleWeight{
				{RoleKey: "STRATEGIST", Weight: 0.6, Position: 1},
				{RoleKey: "FUTURIST", Weight: 0.4, Position: 2},
			},
		},
		{
			name:  "role without weight",
			input: "ADVISOR",
			want:  []roster.RoleWeight{{RoleKey: "ADVISOR", Weight: 0, Position: 1}},
		},
		{
			name:    "malformed weight",
			input:   "STRATEGIST:heavy",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRoles(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRoles(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseRoles(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("roles[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCLI_ConsultAndMinutes(t *testing.T) {
	database, cfg, deps := setupTestApp(t)
	app := newCLIApp(database, cfg, deps)

	err := app.Run([]string{"quorum", "consult", "--mock", "Should we ship this quarter?"})
	if err != nil {
		t.Fatalf("consult error = %v", err)
	}

	if err := app.Run([]string{"quorum", "minutes", "list"}); err != nil {
		t.Fatalf("minutes list error = %v", err)
	}
	if err := app.Run([]string{"quorum", "minutes", "latest"}); err != nil {
		t.Fatalf("minutes latest error = %v", err)
	}

	// The record written by consult is fetchable by ID
	latest, err := ops.Latest(database)
	if err != nil || latest.Item == nil {
		t.Fatalf("Latest() = %v, %v", latest, err)
	}
	if err := app.Run([]string{"quorum", "minutes", "fetch", latest.Item.ID}); err != nil {
		t.Fatalf("minutes fetch error = %v", err)
	}
}

func TestCLI_ConsultEmptyQuestion(t *testing.T) {
	database, cfg, deps := setupTestApp(t)
	app := newCLIApp(database, cfg, deps)

	err := app.Run([]string{"quorum", "consult", "--mock"})
	if err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestCLI_PackInfo(t *testing.T) {
	database, cfg, deps := setupTestApp(t)
	app := newCLIApp(database, cfg, deps)

	if err := app.Run([]string{"quorum", "pack", "info"}); err != nil {
		t.Fatalf("pack info error = %v", err)
	}
}

func TestCLI_CustomRoles(t *testing.T) {
	database, cfg, deps := setupTestApp(t)
	app := newCLIApp(database, cfg, deps)

	err := app.Run([]string{
		"quorum", "consult", "--mock",
		"--roles", "STRATEGIST:0.7,ADVISOR:0.3",
		"Should we raise prices?",
	})
	if err != nil {
		t.Fatalf("consult with custom roles error = %v", err)
	}
}

func TestIsCLIMode(t *testing.T) {
	if !cliCommands["serve"] || !cliCommands["consult"] || !cliCommands["minutes"] || !cliCommands["pack"] {
		t.Error("command table missing a known subcommand")
	}
}
