package workouts

import (
	"context"
	"errors"
	"fmt"

	"backend-mapty/internal/session"
	"backend-mapty/internal/workout"
)

var (
	ErrUnknownType        = errors.New("type must be running or cycling")
	ErrMissingCoordinates = errors.New("coordinates required")
)

type Service struct {
	sessions *session.Registry
}

func NewService(sessions *session.Registry) *Service {
	return &Service{sessions: sessions}
}

// Submit routes a form submission to the matching constructor.
func (s *Service) Submit(ctx context.Context, sessionID string, in Submission) (workout.Record, error) {
	if in.Coordinates == nil {
		return workout.Record{}, ErrMissingCoordinates
	}
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return workout.Record{}, err
	}
	switch in.Type {
	case workout.KindRunning:
		return store.AddRunning(ctx, *in.Coordinates, in.DistanceKm, in.DurationMin, in.CadenceSpm)
	case workout.KindCycling:
		return store.AddCycling(ctx, *in.Coordinates, in.DistanceKm, in.DurationMin, in.ElevationGainM)
	default:
		return workout.Record{}, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
}

func (s *Service) List(ctx context.Context, sessionID string) ([]workout.Record, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}

func (s *Service) Get(ctx context.Context, sessionID, id string) (workout.Record, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return workout.Record{}, err
	}
	rec, ok := store.FindByID(id)
	if !ok {
		return workout.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (s *Service) Select(ctx context.Context, sessionID, id string) (workout.Record, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return workout.Record{}, err
	}
	return store.Select(ctx, id)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return store.Clear(ctx)
}
