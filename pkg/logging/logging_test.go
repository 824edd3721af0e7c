package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
)

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.DefaultLog()
		cfg.Format = "json"

		logger, err := New(cfg, &buf)
		require.NoError(t, err)
		defer logger.Close()

		logger.Info("Stage complete", "stage", "users", "rows", 50)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Stage complete", entry["msg"])
		assert.Equal(t, "users", entry["stage"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.DefaultLog()
		cfg.Level = "warn"

		logger, err := New(cfg, &buf)
		require.NoError(t, err)

		logger.Info("hidden")
		assert.Empty(t, buf.String())
		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := config.DefaultLog()
		cfg.Level = "loud"
		_, err := New(cfg, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("file copy", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.DefaultLog()
		cfg.File = filepath.Join(t.TempDir(), "logs", "toolshop.log")

		logger, err := New(cfg, &buf)
		require.NoError(t, err)
		logger.Info("written twice")
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(cfg.File)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written twice")
		assert.Contains(t, buf.String(), "written twice")
	})
}
