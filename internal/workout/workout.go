// Package workout defines running and cycling records and how they are built.
package workout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

// ErrInvalidInput is matched by every *ValidationError.
var ErrInvalidInput = errors.New("invalid workout input")

// AlertMessage is what the form shows when a record is rejected.
const AlertMessage = "Inputs have to be positive number"

// idRange bounds generated ids. Collisions are possible and not checked.
const idRange = 10000

var (
	nowFn   = func() time.Time { return time.Now().UTC() }
	newIDFn = func() string { return strconv.Itoa(rand.IntN(idRange)) }
)

type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s (got %v)", ErrInvalidInput, e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type field struct {
	name  string
	value float64
}

func requireFinite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "must be a finite number"}
		}
	}
	return nil
}

func requirePositive(fields ...field) error {
	for _, f := range fields {
		if f.value <= 0 {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "must be greater than zero"}
		}
	}
	return nil
}

func newRecord(kind Kind, coords Coordinates, distanceKm, durationMin float64) Record {
	return Record{
		ID:          newIDFn(),
		CreatedAt:   nowFn(),
		Coordinates: coords,
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Kind:        kind,
	}
}

// NewRunning validates the inputs and computes pace in min/km.
func NewRunning(coords Coordinates, distanceKm, durationMin, cadenceSpm float64) (Record, error) {
	distance := field{"distanceKm", distanceKm}
	duration := field{"durationMin", durationMin}
	cadence := field{"cadenceSpm", cadenceSpm}
	if err := requireFinite(cadence, distance, duration); err != nil {
		return Record{}, err
	}
	if err := requirePositive(distance, duration, cadence); err != nil {
		return Record{}, err
	}

	// Finite positive inputs can still overflow the quotient.
	pace := durationMin / distanceKm
	if err := requireFinite(field{"paceMinPerKm", pace}); err != nil {
		return Record{}, err
	}

	rec := newRecord(KindRunning, coords, distanceKm, durationMin)
	rec.Running = RunningMetrics{
		CadenceSpm:   cadenceSpm,
		PaceMinPerKm: pace,
	}
	return rec, nil
}

// NewCycling validates the inputs and computes speed in km/h.
// Elevation gain only has to be finite; zero and negative values are accepted.
func NewCycling(coords Coordinates, distanceKm, durationMin, elevationGainM float64) (Record, error) {
	distance := field{"distanceKm", distanceKm}
	duration := field{"durationMin", durationMin}
	elevation := field{"elevationGainM", elevationGainM}
	if err := requireFinite(elevation, distance, duration); err != nil {
		return Record{}, err
	}
	if err := requirePositive(distance, duration); err != nil {
		return Record{}, err
	}

	speed := distanceKm / (durationMin / 60)
	if err := requireFinite(field{"speedKmPerH", speed}); err != nil {
		return Record{}, err
	}

	rec := newRecord(KindCycling, coords, distanceKm, durationMin)
	rec.Cycling = CyclingMetrics{
		ElevationGainM: elevationGainM,
		SpeedKmPerH:    speed,
	}
	return rec, nil
}
