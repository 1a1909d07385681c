package scan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nwest/roomscan/internal/capture"
)

// IDGenerator generates unique scan IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service turns completed captures into persisted scans. A scan exists
// only once SaveCapture returns without error; an extracted record that
// was never stored is not part of system state.
type Service struct {
	store       *Store
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source
func NewService(store *Store) *Service {
	return &Service{
		store:       store,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(store *Store, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		store:       store,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// SaveCapture assigns the scan its identity, extracts the record from the
// raw room, and persists both artifacts
func (s *Service) SaveCapture(room *capture.Room, name string) (*Record, error) {
	id := s.idGenerator.Generate()
	record := Extract(room, id, name, s.timeSource.Now())
	if err := s.store.Save(record, room); err != nil {
		return nil, fmt.Errorf("saving scan: %w", err)
	}
	return record, nil
}

// List returns all stored scans, newest first
func (s *Service) List() ([]*Record, error) {
	records, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return records, nil
}

// Load retrieves one scan by ID
func (s *Service) Load(id string) (*Record, error) {
	record, err := s.store.Load(id)
	if err != nil {
		return nil, fmt.Errorf("loading scan: %w", err)
	}
	return record, nil
}

// Rename updates a scan's display name
func (s *Service) Rename(id, name string) (*Record, error) {
	record, err := s.store.Rename(id, name)
	if err != nil {
		return nil, fmt.Errorf("renaming scan: %w", err)
	}
	return record, nil
}

// Delete removes a scan and its files
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("deleting scan: %w", err)
	}
	return nil
}
