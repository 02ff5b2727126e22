// Package minutes defines the immutable record a completed consultation
// leaves behind. A record is written once and never updated.
package minutes

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Minutes captures one full deliberation session: the question, every
// role's raw output, the blended consensus, and the reproducibility
// envelope (pack identity, hash, model).
type Minutes struct {
	// ID is a ULID that uniquely identifies this record
	ID string `json:"id"`

	// Question is the decision question exactly as posed
	Question string `json:"question"`

	// Context is optional background supplied with the question (nullable)
	Context *string `json:"context,omitempty"`

	// RoleOutputs is the JSON array of per-role outputs, raw payloads intact
	RoleOutputs json.RawMessage `json:"role_outputs"`

	// Consensus is the blended consensus artifact as returned by synthesis
	Consensus json.RawMessage `json:"consensus"`

	// AdvisorBullets is the derived 3-5 item display summary
	AdvisorBullets []string `json:"advisor_bullets"`

	// Lineup is the resolved role/weight list the session ran with
	Lineup json.RawMessage `json:"lineup"`

	// PackSlug, PackLocale, PackVersion, PackHash pin the exact prompt pack
	PackSlug    string `json:"pack_slug"`
	PackLocale  string `json:"pack_locale"`
	PackVersion int    `json:"pack_version"`
	PackHash    string `json:"pack_hash"`

	// Model is the provider model that produced the outputs; the sentinel
	// "mock-fallback" marks a session completed on fallback fixtures
	Model string `json:"model"`

	// ConsensusValidated records whether every validation pass that ran
	// accepted the consensus artifact
	ConsensusValidated bool `json:"consensus_validated"`

	// CreatedAt is the Unix timestamp when the record was written
	CreatedAt int64 `json:"created_at"`
}

// Summary is the list-view projection of a record: identity and the
// reproducibility envelope without the payload blobs.
type Summary struct {
	ID                 string `json:"id"`
	Question           string `json:"question"`
	PackSlug           string `json:"pack_slug"`
	PackVersion        int    `json:"pack_version"`
	Model              string `json:"model"`
	ConsensusValidated bool   `json:"consensus_validated"`
	CreatedAt          int64  `json:"created_at"`
}

// ToSummary projects the record for list responses.
func (m *Minutes) ToSummary() Summary {
	return Summary{
		ID:                 m.ID,
		Question:           m.Question,
		PackSlug:           m.PackSlug,
		PackVersion:        m.PackVersion,
		Model:              m.Model,
		ConsensusValidated: m.ConsensusValidated,
		CreatedAt:          m.CreatedAt,
	}
}

// NewID generates a ULID for a new record.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
