package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Recent returns the newest entries, most recent first, capped at limit.
// Ties on timestamp break on id for a stable order. Returns an empty slice
// (not nil) when the journal is empty.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, received_at, endpoint, content_mathml, selected_node_id, assumptions, option_count, duration_ms
		FROM requests
		ORDER BY received_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			receivedAt  string
			assumptions string
		)
		if err := rows.Scan(&e.ID, &receivedAt, &e.Endpoint, &e.ContentMathML,
			&e.SelectedNodeID, &assumptions, &e.OptionCount, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		if e.ReceivedAt, err = time.Parse(time.RFC3339Nano, receivedAt); err != nil {
			return nil, fmt.Errorf("parse received_at for %s: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(assumptions), &e.Assumptions); err != nil {
			return nil, fmt.Errorf("parse assumptions for %s: %w", e.ID, err)
		}
		if len(e.Assumptions) == 0 {
			e.Assumptions = nil
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return entries, nil
}

// Count returns the total number of journaled requests.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM requests").Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return n, nil
}
