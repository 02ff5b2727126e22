package ops

import (
	"database/sql"

	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/minutes"
)

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *minutes.Minutes `json:"item"` // nil when no records exist
}

// Latest retrieves the most recently created minutes record. An empty
// store yields a nil item rather than an error.
func Latest(database *sql.DB) (*LatestOutput, error) {
	m, err := db.GetLatestMinutes(database)
	if errors.Is(err, errors.ErrNotFound) {
		return &LatestOutput{Item: nil}, nil
	}
	if err != nil {
		return nil, err
	}
	return &LatestOutput{Item: m}, nil
}
