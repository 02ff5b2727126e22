// Package audit writes best-effort operational events. Recording is never
// allowed to fail a consultation; call sites discard the returned error.
package audit

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Event names recorded by the orchestrator.
const (
	EventConsult          = "consult"
	EventConsultFallback  = "consult_fallback"
	EventPackCacheRefresh = "pack_cache_refresh"
)

// Record inserts one event row. Details are optional and stored as JSON.
func Record(db *sql.DB, event string, details map[string]any) error {
	var detailsJSON sql.NullString
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.Exec(
		"INSERT INTO audit_log (event, details_json, created_at) VALUES (?, ?, ?)",
		event, detailsJSON, time.Now().Unix(),
	)
	return err
}
