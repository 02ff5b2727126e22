package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/minutes"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	minutes.Minutes // embedded (copy, not pointer)
}

// Fetch retrieves one minutes record by ULID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id must not be empty")
	}

	m, err := db.GetMinutesByID(database, id)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Minutes: *m}, nil
}
