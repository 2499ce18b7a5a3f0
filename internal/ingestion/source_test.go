package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/config"
	"safetypulse/internal/shared/testutil"
)

type fakeSource struct {
	records []RawRecord
	err     error
	calls   int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) ([]RawRecord, error) {
	f.calls++
	return f.records, f.err
}

func TestIngesterLoad(t *testing.T) {
	src := &fakeSource{records: []RawRecord{
		{&Cell{V: "ID"}},
		{&Cell{V: "A1"}, &Cell{V: "Date(2025,9,4,17,31,47)"}},
		{&Cell{V: ""}},
	}}
	logger, logs := testutil.NewTestLogger(t)

	ing := NewIngester(src, DefaultColumnMap(), logger)
	res, err := ing.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fake", ing.SourceName())
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "04/10/2025 17:31", res.Rows[0].Timestamp)
	assert.Equal(t, 2, res.Dropped)
	assert.True(t, logs.ContainsMessage("rows normalized"))
}

func TestIngesterLoadPropagatesError(t *testing.T) {
	want := errors.New("boom")
	ing := NewIngester(&fakeSource{err: want}, DefaultColumnMap(), nil)

	_, err := ing.Load(context.Background())
	assert.ErrorIs(t, err, want)
}

func TestNewSource(t *testing.T) {
	cfg := config.Default().Source
	cfg.SpreadsheetID = "sheet-123"

	src, err := NewSource(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "gviz", src.Name())

	cfg.Kind = "ftp"
	_, err = NewSource(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "unsupported source kind")
}

func TestNewIngesterFromConfigRejectsBadColumns(t *testing.T) {
	cfg := config.Default().Source
	cfg.Columns = []string{"1=sector"}

	_, err := NewIngesterFromConfig(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "invalid column map")
}
