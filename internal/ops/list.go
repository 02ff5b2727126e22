package ops

import (
	"database/sql"

	"github.com/hpungsan/quorum/internal/db"
	"github.com/hpungsan/quorum/internal/minutes"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []minutes.Summary `json:"items"`
	Pagination Pagination        `json:"pagination"`
	Sort       string            `json:"sort"`
}

// List retrieves minutes summaries, newest first, with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	records, total, err := db.ListMinutes(database, limit, offset)
	if err != nil {
		return nil, err
	}

	// Empty array rather than nil for JSON consumers
	items := make([]minutes.Summary, 0, len(records))
	for _, m := range records {
		items = append(items, m.ToSummary())
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
