package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Entry is one journaled suggestion request.
type Entry struct {
	ID             string            `json:"id"`
	ReceivedAt     time.Time         `json:"receivedAt"`
	Endpoint       string            `json:"endpoint"`
	ContentMathML  string            `json:"contentMathML"`
	SelectedNodeID string            `json:"selectedNodeId,omitempty"`
	Assumptions    map[string]string `json:"assumptions,omitempty"`
	OptionCount    int               `json:"optionCount"`
	DurationMS     int64             `json:"durationMs"`
}

// Record inserts a journal entry. Duplicate ids are silently ignored so a
// retried insert after a timeout cannot double-count a request.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	assumptions := e.Assumptions
	if assumptions == nil {
		assumptions = map[string]string{}
	}
	assumptionsJSON, err := json.Marshal(assumptions)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO requests
		(id, received_at, endpoint, content_mathml, selected_node_id, assumptions, option_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.ReceivedAt.UTC().Format(time.RFC3339Nano),
		e.Endpoint,
		e.ContentMathML,
		e.SelectedNodeID,
		string(assumptionsJSON),
		e.OptionCount,
		e.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}

	return nil
}
