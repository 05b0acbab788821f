package workout

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

func (k Kind) Valid() bool {
	return k == KindRunning || k == KindCycling
}

// Title is the capitalised form used in popup labels.
func (k Kind) Title() string {
	switch k {
	case KindRunning:
		return "Running"
	case KindCycling:
		return "Cycling"
	default:
		return string(k)
	}
}

// Coordinates is a [latitude, longitude] pair.
type Coordinates [2]float64

func (c Coordinates) Lat() float64 { return c[0] }
func (c Coordinates) Lng() float64 { return c[1] }

type RunningMetrics struct {
	CadenceSpm   float64
	PaceMinPerKm float64
}

type CyclingMetrics struct {
	ElevationGainM float64
	SpeedKmPerH    float64
}

// Record is one workout. Kind selects which of Running or Cycling is meaningful;
// the other stays zero. Everything except InteractionCount is fixed at creation.
type Record struct {
	ID               string
	CreatedAt        time.Time
	Coordinates      Coordinates
	DistanceKm       float64
	DurationMin      float64
	InteractionCount int
	Kind             Kind
	Running          RunningMetrics
	Cycling          CyclingMetrics
}

// MarkInteraction counts one selection of the record in the UI.
func (r *Record) MarkInteraction() {
	r.InteractionCount++
}

// Label is the marker popup text, e.g. "Running on April 14".
func (r Record) Label() string {
	return fmt.Sprintf("%s on %s %d", r.Kind.Title(), r.CreatedAt.Month(), r.CreatedAt.Day())
}

// Pace returns min/km for running records and false otherwise.
func (r Record) Pace() (float64, bool) {
	if r.Kind != KindRunning {
		return 0, false
	}
	return r.Running.PaceMinPerKm, true
}

// Speed returns km/h for cycling records and false otherwise.
func (r Record) Speed() (float64, bool) {
	if r.Kind != KindCycling {
		return 0, false
	}
	return r.Cycling.SpeedKmPerH, true
}
