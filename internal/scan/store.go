package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/nwest/roomscan/internal/capture"
)

const (
	scansDirName     = "Scans"
	metadataFileName = "metadata.json"
	modelFileBase    = "model"
)

// Store persists scans as one directory per scan under <root>/Scans,
// holding exactly two files: metadata.json (the serialized Record) and the
// exported binary model. A directory with metadata but no model file is an
// incomplete scan (interrupted save), not a corrupt one.
type Store struct {
	root     string
	exporter ModelExporter
}

// NewStore creates a Store rooted at root. The root is not created until
// the first Save; a missing root reads as "no scans yet".
func NewStore(root string, exporter ModelExporter) *Store {
	return &Store{
		root:     root,
		exporter: exporter,
	}
}

func (s *Store) scansDir() string {
	return filepath.Join(s.root, scansDirName)
}

// Dir returns the directory holding one scan's files
func (s *Store) Dir(id string) string {
	return filepath.Join(s.scansDir(), id)
}

func (s *Store) metadataPath(id string) string {
	return filepath.Join(s.Dir(id), metadataFileName)
}

// ModelPath returns the path of one scan's binary model file
func (s *Store) ModelPath(id string) string {
	return filepath.Join(s.Dir(id), modelFileBase+s.exporter.FileExtension())
}

// Save writes record's metadata and exports room's binary model. Metadata
// is written before the model, so an interrupted save leaves a directory
// that List surfaces with a detectably missing model file.
func (s *Store) Save(record *Record, room *capture.Room) error {
	dir := s.Dir(record.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		if _, statErr := os.Stat(dir); statErr != nil {
			return fmt.Errorf("%w: %s: %w", ErrDirectoryCreation, dir, err)
		}
	}

	if err := s.writeMetadata(record); err != nil {
		return err
	}

	if err := s.exporter.Export(room, s.ModelPath(record.ID)); err != nil {
		return fmt.Errorf("%w: scan %s: %w", ErrExport, record.ID, err)
	}
	return nil
}

func (s *Store) writeMetadata(record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: scan %s: %w", ErrEncoding, record.ID, err)
	}
	if err := os.WriteFile(s.metadataPath(record.ID), data, 0644); err != nil {
		return fmt.Errorf("%w: scan %s: %w", ErrWrite, record.ID, err)
	}
	return nil
}

// List returns all stored scans, newest first. A missing root means no
// scans yet. Entries without a metadata file are skipped silently
// (in-progress or interrupted saves); entries whose metadata fails to
// decode are skipped with a warning so one bad scan cannot break the
// listing.
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.scansDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []*Record{}, nil
		}
		return nil, fmt.Errorf("%w: listing scans: %w", ErrRead, err)
	}

	records := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		record, err := s.Load(entry.Name())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			slog.Warn("Skipping unreadable scan", "id", entry.Name(), "error", err)
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DateCreated.After(records[j].DateCreated)
	})
	return records, nil
}

// Load reads and decodes one scan's metadata
func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(s.metadataPath(id))
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrDecoding, id, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: scan %s: %w", ErrDecoding, id, err)
	}
	return &record, nil
}

// Rename updates a scan's display name and rewrites its metadata file
func (s *Store) Rename(id, name string) (*Record, error) {
	record, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	record.Name = name
	if err := s.writeMetadata(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a scan's directory as a single unit. Deleting a scan that
// does not exist is a no-op.
func (s *Store) Delete(id string) error {
	if err := os.RemoveAll(s.Dir(id)); err != nil {
		return fmt.Errorf("deleting scan %s: %w", id, err)
	}
	return nil
}

// HasModel reports whether a scan's binary model file exists. False with
// existing metadata means the save was interrupted after the metadata
// write.
func (s *Store) HasModel(id string) bool {
	_, err := os.Stat(s.ModelPath(id))
	return err == nil
}
