// Package history persists the list of past fact-check results.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/ppiankov/truthcheck/internal/storage"
	"github.com/sirupsen/logrus"
)

// EmptyPlaceholder is shown when there is no history
const EmptyPlaceholder = "No history available."

// DefaultKey is the storage key of the history log
const DefaultKey = "factHistory"

// View renders the history list
type View interface {
	ShowEmptyHistory(message string)
	ShowHistory(entries []model.HistoryEntry)
}

// Store is the history log kept under a single backend key, most recent entry first.
// Mutations are serialized so concurrent appends never drop entries.
type Store struct {
	backend    storage.Backend
	key        string
	maxEntries int
	logger     logrus.FieldLogger
	now        func() time.Time

	mu   sync.Mutex
	view View
}

// NewStore creates a history store on backend. A zero MaxEntries keeps every entry.
func NewStore(backend storage.Backend, cfg model.HistoryConfig, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	maxEntries := cfg.MaxEntries
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Store{
		backend:    backend,
		key:        key,
		maxEntries: maxEntries,
		logger:     logger,
		now:        time.Now,
	}
}

// SetView attaches the view that LoadAndRender draws into. nil detaches it.
func (s *Store) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Append prepends a new entry stamped with the current time, trims the log to the cap,
// writes it back and re-renders. Only a failed write is reported.
func (s *Store) Append(ctx context.Context, claim, analysis, references string) error {
	if strings.TrimSpace(claim) == "" {
		return model.ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := model.HistoryEntry{
		ID:         uuid.NewString(),
		Claim:      claim,
		Analysis:   analysis,
		References: references,
		Timestamp:  s.now().Format(model.TimestampLayout),
	}

	entries := append([]model.HistoryEntry{entry}, s.read(ctx)...)
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		s.logger.WithField("evicted", len(entries)-s.maxEntries).Debug("History cap reached")
		entries = entries[:s.maxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	s.render(entries)
	return nil
}

// LoadAndRender reads the log and draws it. Without a view it does nothing.
func (s *Store) LoadAndRender(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == nil {
		return
	}
	s.render(s.read(ctx))
}

// Clear removes the whole log and re-renders the (now empty) list
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	s.render(s.read(ctx))
	return nil
}

// Entries returns the stored log, most recent first
func (s *Store) Entries(ctx context.Context) []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// read never fails: a missing or corrupt log reads as empty. Caller holds mu.
func (s *Store) read(ctx context.Context) []model.HistoryEntry {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).WithField("key", s.key).Warn("Failed to read history, treating as empty")
		}
		return nil
	}

	var entries []model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WithError(err).WithField("key", s.key).Warn("Stored history is corrupt, treating as empty")
		return nil
	}
	return entries
}

// render draws entries into the attached view. Caller holds mu.
func (s *Store) render(entries []model.HistoryEntry) {
	if s.view == nil {
		return
	}
	if len(entries) == 0 {
		s.view.ShowEmptyHistory(EmptyPlaceholder)
		return
	}
	s.view.ShowHistory(entries)
}
