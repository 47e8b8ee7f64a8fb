package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	n, err := j.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	first := Entry{
		ID:            uuid.NewString(),
		ReceivedAt:    base,
		Endpoint:      "/rewriteOptions",
		ContentMathML: "<math><ci>x</ci></math>",
		OptionCount:   2,
		DurationMS:    4,
	}
	second := Entry{
		ID:             uuid.NewString(),
		ReceivedAt:     base.Add(time.Second),
		Endpoint:       "/rewriteOptions",
		ContentMathML:  "<math><ci>y</ci></math>",
		SelectedNodeID: "2b5c1a",
		Assumptions:    map[string]string{"theta": "real"},
		OptionCount:    1,
		DurationMS:     7,
	}

	require.NoError(t, j.Record(ctx, first))
	require.NoError(t, j.Record(ctx, second))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, map[string]string{"theta": "real"}, entries[0].Assumptions)
	assert.Nil(t, entries[1].Assumptions)
	assert.True(t, entries[0].ReceivedAt.Equal(second.ReceivedAt))
}

func TestRecordDuplicateIDIgnored(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	e := Entry{
		ID:            uuid.NewString(),
		ReceivedAt:    time.Now().UTC(),
		Endpoint:      "/rewriteOptions",
		ContentMathML: "<math><ci>x</ci></math>",
	}
	require.NoError(t, j.Record(ctx, e))

	e.OptionCount = 99
	require.NoError(t, j.Record(ctx, e))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].OptionCount)
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, Entry{
			ID:            uuid.NewString(),
			ReceivedAt:    base.Add(time.Duration(i) * time.Second),
			Endpoint:      "/rewriteOptions",
			ContentMathML: "<math><cn>1</cn></math>",
		}))
	}

	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
