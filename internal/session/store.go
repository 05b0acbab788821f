// Package session owns the ordered workout list of one client and keeps it in
// step with the key-value store and the map/list renderer.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"backend-mapty/internal/observability"
	"backend-mapty/internal/storage"
	"backend-mapty/internal/workout"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("workout not found")
	// ErrUnavailable marks a failed read of the persisted list.
	ErrUnavailable = errors.New("workouts unavailable")
)

type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	key      string
	records  []workout.Record
	renderer Renderer
	logger   *zap.Logger
}

type Option func(*Store)

func WithRenderer(r Renderer) Option {
	return func(s *Store) {
		if r != nil {
			s.renderer = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns an empty store persisting under key. Call Restore to load
// what was saved before.
func NewStore(kv storage.KV, key string, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      key,
		renderer: nopRenderer{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("key", key))
	return s
}

func (s *Store) Key() string { return s.key }

func (s *Store) AddRunning(ctx context.Context, coords workout.Coordinates, distanceKm, durationMin, cadenceSpm float64) (workout.Record, error) {
	rec, err := workout.NewRunning(coords, distanceKm, durationMin, cadenceSpm)
	return s.add(ctx, workout.KindRunning, rec, err)
}

func (s *Store) AddCycling(ctx context.Context, coords workout.Coordinates, distanceKm, durationMin, elevationGainM float64) (workout.Record, error) {
	rec, err := workout.NewCycling(coords, distanceKm, durationMin, elevationGainM)
	return s.add(ctx, workout.KindCycling, rec, err)
}

func (s *Store) add(ctx context.Context, kind workout.Kind, rec workout.Record, err error) (workout.Record, error) {
	if err != nil {
		observability.RecordWorkoutRejected(string(kind))
		s.logger.Debug("workout rejected", zap.String("type", string(kind)), zap.Error(err))
		return workout.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if err := s.persistLocked(ctx); err != nil {
		s.records = s.records[:len(s.records)-1]
		return workout.Record{}, err
	}

	observability.RecordWorkoutAdded(string(kind))
	s.logger.Info("workout recorded",
		zap.String("id", rec.ID),
		zap.String("type", string(kind)),
		zap.Int("count", len(s.records)),
	)
	s.render(s.renderer, rec)
	return rec, nil
}

// All returns a copy of the list in creation order.
func (s *Store) All() []workout.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]workout.Record(nil), s.records...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FindByID reports false for ids that were never issued in this session.
func (s *Store) FindByID(id string) (workout.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return workout.Record{}, false
}

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Select handles a click on a list entry: the record counts one more
// interaction and the map pans to it.
func (s *Store) Select(ctx context.Context, id string) (workout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return workout.Record{}, ErrNotFound
	}
	s.records[i].MarkInteraction()
	if err := s.persistLocked(ctx); err != nil {
		s.records[i].InteractionCount--
		return workout.Record{}, err
	}
	s.renderer.PanTo(s.records[i].Coordinates)
	return s.records[i], nil
}

func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	payload, err := encode(s.records)
	if err != nil {
		return fmt.Errorf("encode workouts: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("persist workouts: %w", err)
	}
	return nil
}

// Restore replaces the in-memory list with what is persisted and replays
// rendering for every record. A missing or unreadable value yields an empty
// list. A failed read returns ErrUnavailable and leaves the list untouched.
func (s *Store) Restore(ctx context.Context) ([]workout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.records = records
	for _, rec := range s.records {
		s.render(s.renderer, rec)
	}
	return append([]workout.Record(nil), s.records...), nil
}

func (s *Store) load(ctx context.Context) ([]workout.Record, error) {
	payload, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Warn("read persisted workouts", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	records, skipped, err := decode(payload)
	if err != nil {
		observability.RecordRestoreFailure()
		s.logger.Warn("persisted workouts unreadable, starting empty", zap.Error(err))
		return nil, nil
	}
	for _, e := range skipped {
		s.logger.Warn("skipping persisted workout", zap.Error(e))
	}
	s.logger.Debug("workouts restored", zap.Int("count", len(records)))
	return records, nil
}

// Replay renders every record again through r, for a UI that attached late.
// A nil r uses the store's own renderer.
func (s *Store) Replay(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		r = s.renderer
	}
	for _, rec := range s.records {
		s.render(r, rec)
	}
}

// Clear removes the persisted list and empties the session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear workouts: %w", err)
	}
	s.records = nil
	return nil
}

func (s *Store) render(r Renderer, rec workout.Record) {
	r.RenderMarker(rec.Coordinates, rec.Label())
	r.RenderListEntry(rec)
}
