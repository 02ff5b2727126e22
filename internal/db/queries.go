package db

import (
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/minutes"
	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/roster"
)

// InsertMinutes stores a completed session record. Records are immutable:
// there is no corresponding update.
func InsertMinutes(db *sql.DB, m *minutes.Minutes) error {
	bulletsJSON, err := json.Marshal(m.AdvisorBullets)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO minutes (
			id, question, context, role_outputs_json, consensus_json,
			advisor_bullets_json, lineup_json, pack_slug, pack_locale,
			pack_version, pack_hash, model, consensus_validated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.Exec(query,
		m.ID, m.Question, toNullString(m.Context), string(m.RoleOutputs),
		string(m.Consensus), string(bulletsJSON), string(m.Lineup),
		m.PackSlug, m.PackLocale, m.PackVersion, m.PackHash, m.Model,
		boolToInt(m.ConsensusValidated), m.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetMinutesByID retrieves one record by its ULID.
func GetMinutesByID(db *sql.DB, id string) (*minutes.Minutes, error) {
	row := db.QueryRow(minutesSelect+" WHERE id = ?", id)
	m, err := scanMinutes(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return m, nil
}

// GetLatestMinutes retrieves the most recently created record.
func GetLatestMinutes(db *sql.DB) (*minutes.Minutes, error) {
	row := db.QueryRow(minutesSelect + " ORDER BY created_at DESC, rowid DESC LIMIT 1")
	m, err := scanMinutes(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("latest")
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return m, nil
}

// ListMinutes returns records newest first plus the total count for
// pagination.
func ListMinutes(db *sql.DB, limit, offset int) ([]*minutes.Minutes, int, error) {
	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM minutes").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	rows, err := db.Query(
		minutesSelect+" ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var results []*minutes.Minutes
	for rows.Next() {
		m, err := scanMinutes(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return results, total, nil
}

// GetActivePack loads the active pack version for a slug/locale, entries
// included, ordered by position.
func GetActivePack(db *sql.DB, slug, locale string) (*pack.Pack, error) {
	row := db.QueryRow(
		`SELECT id, slug, locale, version, schema_json FROM prompt_packs
		 WHERE slug = ? AND locale = ? AND active = 1
		 ORDER BY version DESC LIMIT 1`,
		slug, locale,
	)
	return loadPack(db, row, slug)
}

// GetPackVersion loads a specific pack version regardless of active flag.
// Version pinning keeps old minutes reproducible after a pack update.
func GetPackVersion(db *sql.DB, slug, locale string, version int) (*pack.Pack, error) {
	row := db.QueryRow(
		`SELECT id, slug, locale, version, schema_json FROM prompt_packs
		 WHERE slug = ? AND locale = ? AND version = ?`,
		slug, locale, version,
	)
	return loadPack(db, row, slug)
}

// GetPreset returns a named lineup preset's roles, or NotFound.
func GetPreset(db *sql.DB, name, locale string) ([]roster.RoleWeight, error) {
	var presetID int64
	err := db.QueryRow(
		"SELECT id FROM lineup_presets WHERE name = ? AND locale = ?",
		name, locale,
	).Scan(&presetID)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(name)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := db.Query(
		"SELECT role_key, weight, position FROM preset_roles WHERE preset_id = ? ORDER BY position",
		presetID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var roles []roster.RoleWeight
	for rows.Next() {
		var rw roster.RoleWeight
		if err := rows.Scan(&rw.RoleKey, &rw.Weight, &rw.Position); err != nil {
			return nil, errors.NewInternal(err)
		}
		roles = append(roles, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return roles, nil
}

// ListHeuristicRules returns the active rules for a locale.
func ListHeuristicRules(db *sql.DB, locale string) ([]roster.HeuristicRule, error) {
	rows, err := db.Query(
		"SELECT keyword, role_key, delta, locale FROM heuristic_rules WHERE locale = ? AND active = 1 ORDER BY id",
		locale,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var rules []roster.HeuristicRule
	for rows.Next() {
		var r roster.HeuristicRule
		if err := rows.Scan(&r.Keyword, &r.RoleKey, &r.Delta, &r.Locale); err != nil {
			return nil, errors.NewInternal(err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return rules, nil
}

const minutesSelect = `
	SELECT id, question, context, role_outputs_json, consensus_json,
		advisor_bullets_json, lineup_json, pack_slug, pack_locale,
		pack_version, pack_hash, model, consensus_validated, created_at
	FROM minutes`

// scanner abstracts sql.Row and sql.Rows for scanMinutes.
type scanner interface {
	Scan(dest ...any) error
}

func scanMinutes(s scanner) (*minutes.Minutes, error) {
	var m minutes.Minutes
	var context sql.NullString
	var roleOutputs, consensus, bullets, lineup string
	var validated int

	err := s.Scan(
		&m.ID, &m.Question, &context, &roleOutputs, &consensus,
		&bullets, &lineup, &m.PackSlug, &m.PackLocale,
		&m.PackVersion, &m.PackHash, &m.Model, &validated, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if context.Valid {
		m.Context = &context.String
	}
	m.RoleOutputs = json.RawMessage(roleOutputs)
	m.Consensus = json.RawMessage(consensus)
	m.Lineup = json.RawMessage(lineup)
	m.ConsensusValidated = validated != 0
	if err := json.Unmarshal([]byte(bullets), &m.AdvisorBullets); err != nil {
		return nil, err
	}
	return &m, nil
}

// loadPack finishes a pack query: scans the pack row, then attaches its
// entries in position order.
func loadPack(db *sql.DB, row *sql.Row, slug string) (*pack.Pack, error) {
	var packID int64
	var p pack.Pack
	var schemaJSON sql.NullString

	err := row.Scan(&packID, &p.Slug, &p.Locale, &p.Version, &schemaJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(slug)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	p.SchemaJSON = schemaJSON.String

	rows, err := db.Query(
		`SELECT role, system_prompt, user_template, params_json, placeholders_json, position
		 FROM prompt_entries WHERE pack_id = ? ORDER BY position`,
		packID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var e pack.Entry
		var paramsJSON, placeholdersJSON sql.NullString
		if err := rows.Scan(&e.Role, &e.SystemPrompt, &e.UserTemplate, &paramsJSON, &placeholdersJSON, &e.Position); err != nil {
			return nil, errors.NewInternal(err)
		}
		if paramsJSON.Valid {
			if err := json.Unmarshal([]byte(paramsJSON.String), &e.Params); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		if placeholdersJSON.Valid {
			if err := json.Unmarshal([]byte(placeholdersJSON.String), &e.AllowedPlaceholders); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		p.Entries = append(p.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &p, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
