package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
	"github.com/marshallshelly/toolshop-fixtures/pkg/fixture"
	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
	"github.com/marshallshelly/toolshop-fixtures/pkg/sink"
)

var anchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, counts pipeline.Counts) (string, *pipeline.Report) {
	t.Helper()
	dir := t.TempDir()
	gen, err := fixture.NewSeededGenerator(1, anchor)
	require.NoError(t, err)
	report, err := pipeline.New(gen, sink.NewCSV(dir), counts).Run(context.Background())
	require.NoError(t, err)
	return dir, report
}

func TestNewManifest(t *testing.T) {
	counts := pipeline.Counts{Categories: 10, Users: 5, Products: 0, Transactions: 5}
	dir, report := run(t, counts)

	m, err := NewManifest(1, anchor, "csv", counts, report)
	require.NoError(t, err)

	_, err = uuid.Parse(m.RunID)
	assert.NoError(t, err)
	assert.Equal(t, []string{fixture.StageTransactions}, m.Failed)
	require.Len(t, m.Files, 3)
	assert.Equal(t, "categories.csv", m.Files[0].Name)
	assert.Equal(t, 10, m.Files[0].Rows)
	assert.Len(t, m.Files[0].SHA256, 64)
	assert.NoError(t, m.Check(dir))
}

func TestManifest_WriteRead(t *testing.T) {
	counts := pipeline.Counts{Categories: 4, Users: 2, Products: 3, Transactions: 2}
	dir, report := run(t, counts)

	m, err := NewManifest(1, anchor, "csv", counts, report)
	require.NoError(t, err)
	require.NoError(t, m.Write(dir))

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.Files, got.Files)
	assert.True(t, anchor.Equal(got.Anchor))
}

func TestManifest_Check(t *testing.T) {
	counts := pipeline.Counts{Categories: 4, Users: 2, Products: 3, Transactions: 2}
	dir, report := run(t, counts)

	m, err := NewManifest(1, anchor, "csv", counts, report)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.csv"), []byte("id\n"), 0o644))
	err = m.Check(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
	assert.Contains(t, err.Error(), "users.csv")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "runs/abc/users.csv", ObjectKey("runs", "abc", "users.csv"))
	assert.Equal(t, "a/b/abc/users.csv", ObjectKey("/a\\b/", "abc", "users.csv"))
	assert.Equal(t, "abc/users.csv", ObjectKey("", "abc", "users.csv"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType("users.csv"))
	assert.Equal(t, "application/json", ContentType(ManifestName))
	assert.Contains(t, ContentType("users.xlsx"), "spreadsheetml")
}

func TestNewUploader_NoEndpoint(t *testing.T) {
	_, err := NewUploader(context.Background(), config.DefaultStorage(), nil)
	assert.True(t, errors.Is(err, fixture.ErrUnavailableCapability))
}
