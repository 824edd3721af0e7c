// Package publish records what a generation run produced and ships it to object storage.
package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/marshallshelly/toolshop-fixtures/pkg/pipeline"
)

// ManifestName is the file a manifest is stored under, next to the data files.
const ManifestName = "manifest.json"

// ErrChecksumMismatch is returned when a file no longer matches its manifest entry.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// File is one data file of a run.
type File struct {
	Name   string `json:"name"`
	Table  string `json:"table"`
	Rows   int    `json:"rows"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Manifest describes a generation run: how to reproduce it and what it wrote.
type Manifest struct {
	RunID       string          `json:"runId"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Seed        uint64          `json:"seed"`
	Anchor      time.Time       `json:"anchor"`
	Format      string          `json:"format"`
	Counts      pipeline.Counts `json:"counts"`
	Files       []File          `json:"files"`
	Failed      []string        `json:"failed,omitempty"`
}

// NewManifest builds a manifest from a run report. Files of successful stages are hashed;
// failed stages are listed by name.
func NewManifest(seed uint64, anchor time.Time, format string, counts pipeline.Counts, report *pipeline.Report) (*Manifest, error) {
	m := &Manifest{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Seed:        seed,
		Anchor:      anchor.UTC(),
		Format:      format,
		Counts:      counts,
	}

	for _, s := range report.Stages {
		if !s.OK() {
			m.Failed = append(m.Failed, s.Stage)
			continue
		}
		sum, size, err := hashFile(s.Destination)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, File{
			Name:   filepath.Base(s.Destination),
			Table:  s.Stage,
			Rows:   s.Rows,
			Size:   size,
			SHA256: sum,
		})
	}
	return m, nil
}

// Write stores the manifest as dir/manifest.json.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads dir/manifest.json.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Check re-hashes every listed file in dir.
func (m *Manifest) Check(dir string) error {
	var errs []error
	for _, f := range m.Files {
		sum, _, err := hashFile(filepath.Join(dir, f.Name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if sum != f.SHA256 {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, ErrChecksumMismatch))
		}
	}
	return errors.Join(errs...)
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
