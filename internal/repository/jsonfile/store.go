// Package jsonfile implements the record store over a single JSON
// document on disk. The whole document is rewritten durably on every
// mutation; a mutation is reported successful only after the flush
// succeeds, so a crash in between behaves as if it never happened.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

// document is the persisted layout: four named collections, each an
// ordered sequence of records, no schema version field.
type document struct {
	Patients     []model.Patient     `json:"patients"`
	Doctors      []model.Doctor      `json:"doctors"`
	Appointments []model.Appointment `json:"appointments"`
	Users        []model.User        `json:"users"`
}

func newDocument() *document {
	return &document{
		Patients:     []model.Patient{},
		Doctors:      []model.Doctor{},
		Appointments: []model.Appointment{},
		Users:        []model.User{},
	}
}

func (d *document) clone() *document {
	c := &document{
		Patients:     make([]model.Patient, len(d.Patients)),
		Doctors:      make([]model.Doctor, len(d.Doctors)),
		Appointments: make([]model.Appointment, len(d.Appointments)),
		Users:        make([]model.User, len(d.Users)),
	}
	copy(c.Patients, d.Patients)
	copy(c.Doctors, d.Doctors)
	copy(c.Appointments, d.Appointments)
	copy(c.Users, d.Users)
	return c
}

// Store owns the four collections. A single RWMutex serializes mutating
// operations; each mutation runs read-modify-flush as one unit under the
// write lock.
type Store struct {
	path    string
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu  sync.RWMutex
	doc *document
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// Open loads the document at path, seeding an empty one (and flushing it)
// if the file does not exist yet.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.doc = newDocument()
		if err := s.flush(s.doc); err != nil {
			return nil, fmt.Errorf("failed to seed store file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read store file: %w", err)
	default:
		doc := newDocument()
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
		}
		s.doc = doc
	}

	s.logger.Info().
		Str("path", path).
		Int("patients", len(s.doc.Patients)).
		Int("doctors", len(s.doc.Doctors)).
		Int("appointments", len(s.doc.Appointments)).
		Int("users", len(s.doc.Users)).
		Msg("record store opened")

	s.recordGauges()
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

// Ping verifies the backing file is still reachable.
func (s *Store) Ping() error {
	_, err := os.Stat(s.path)
	return err
}

// view runs fn against the current document under the read lock. fn must
// not retain references past its return.
func (s *Store) view(fn func(doc *document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// update applies fn to a copy of the document, flushes the copy durably,
// and only then installs it as the in-memory state. A rejected mutation or
// a failed flush leaves the observable state untouched.
func (s *Store) update(op string, fn func(doc *document) error) error {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(next); err != nil {
		s.recordOp(op, "rejected", start)
		return err
	}

	if err := s.flush(next); err != nil {
		if s.metrics != nil {
			s.metrics.StoreFlushFailed.Inc()
		}
		s.recordOp(op, "flush_failed", start)
		s.logger.Error().Err(err).Str("operation", op).Msg("durable flush failed, mutation discarded")
		return errors.Internal(err)
	}

	s.doc = next
	s.recordOp(op, "ok", start)
	s.recordGauges()
	return nil
}

// flush writes doc to a temp file, fsyncs it and renames it over the
// store path so readers never observe a torn document.
func (s *Store) flush(doc *document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".store-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func (s *Store) recordOp(op, result string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreOperations.WithLabelValues(op, result).Inc()
	s.metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *Store) recordGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.StoreRecordsTotal.WithLabelValues(model.CollectionPatients).Set(float64(len(s.doc.Patients)))
	s.metrics.StoreRecordsTotal.WithLabelValues(model.CollectionDoctors).Set(float64(len(s.doc.Doctors)))
	s.metrics.StoreRecordsTotal.WithLabelValues(model.CollectionAppointments).Set(float64(len(s.doc.Appointments)))
	s.metrics.StoreRecordsTotal.WithLabelValues(model.CollectionUsers).Set(float64(len(s.doc.Users)))
}
