// Package ops implements the public operations shared by the CLI, the web
// API, and the MCP server. Each operation takes plain input/output structs
// so every surface serializes the same shapes.
package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/gate"
	"github.com/hpungsan/quorum/internal/pack"
	"github.com/hpungsan/quorum/internal/provider"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Deps carries the orchestrator's collaborators. Production wiring happens
// once in main; tests substitute mocks.
type Deps struct {
	Client provider.Client
	Cache  *pack.Cache
	Gate   gate.Gate
}

// NewCache builds the pack cache over the database loader. A version pin
// loads that exact version; zero loads the active one.
func NewCache(database *sql.DB, ttlSeconds int) *pack.Cache {
	ttl := pack.DefaultTTL
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return pack.NewCache(ttl, func(slug, locale string, version int) (*pack.Pack, error) {
		if version > 0 {
			return db.GetPackVersion(database, slug, locale, version)
		}
		return db.GetActivePack(database, slug, locale)
	})
}

// Repro pins everything needed to reproduce a consultation.
type Repro struct {
	PackSlug    string `json:"pack_slug"`
	PackLocale  string `json:"pack_locale"`
	PackVersion int    `json:"pack_version"`
	PackHash    string `json:"pack_hash"`
	Model       string `json:"model"`
}
