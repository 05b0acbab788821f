package session

import (
	"encoding/json"
	"fmt"
	"time"

	"backend-mapty/internal/workout"
)

// persisted is the on-disk shape of one record. Variant fields are pointers so
// only the ones belonging to Type are written.
type persisted struct {
	ID               string              `json:"id"`
	CreatedAt        time.Time           `json:"createdAt"`
	Coordinates      workout.Coordinates `json:"coordinates"`
	DistanceKm       float64             `json:"distanceKm"`
	DurationMin      float64             `json:"durationMin"`
	Type             workout.Kind        `json:"type"`
	InteractionCount int                 `json:"interactionCount"`
	CadenceSpm       *float64            `json:"cadenceSpm,omitempty"`
	PaceMinPerKm     *float64            `json:"paceMinPerKm,omitempty"`
	ElevationGainM   *float64            `json:"elevationGainM,omitempty"`
	SpeedKmPerH      *float64            `json:"speedKmPerH,omitempty"`
}

func toPersisted(r workout.Record) persisted {
	p := persisted{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		Coordinates:      r.Coordinates,
		DistanceKm:       r.DistanceKm,
		DurationMin:      r.DurationMin,
		Type:             r.Kind,
		InteractionCount: r.InteractionCount,
	}
	switch r.Kind {
	case workout.KindRunning:
		cadence, pace := r.Running.CadenceSpm, r.Running.PaceMinPerKm
		p.CadenceSpm, p.PaceMinPerKm = &cadence, &pace
	case workout.KindCycling:
		elevation, speed := r.Cycling.ElevationGainM, r.Cycling.SpeedKmPerH
		p.ElevationGainM, p.SpeedKmPerH = &elevation, &speed
	}
	return p
}

// fromPersisted rebuilds a record without validating it again.
// Stored derived values are taken as they are.
func fromPersisted(p persisted) (workout.Record, error) {
	r := workout.Record{
		ID:               p.ID,
		CreatedAt:        p.CreatedAt,
		Coordinates:      p.Coordinates,
		DistanceKm:       p.DistanceKm,
		DurationMin:      p.DurationMin,
		InteractionCount: p.InteractionCount,
		Kind:             p.Type,
	}
	switch p.Type {
	case workout.KindRunning:
		r.Running = workout.RunningMetrics{
			CadenceSpm:   deref(p.CadenceSpm),
			PaceMinPerKm: deref(p.PaceMinPerKm),
		}
	case workout.KindCycling:
		r.Cycling = workout.CyclingMetrics{
			ElevationGainM: deref(p.ElevationGainM),
			SpeedKmPerH:    deref(p.SpeedKmPerH),
		}
	default:
		return workout.Record{}, fmt.Errorf("record %q: unknown type %q", p.ID, p.Type)
	}
	return r, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func encode(records []workout.Record) ([]byte, error) {
	out := make([]persisted, 0, len(records))
	for _, r := range records {
		out = append(out, toPersisted(r))
	}
	return json.Marshal(out)
}

// decode returns the records it could rebuild and one error per skipped entry.
// A payload that is not a JSON array of objects fails as a whole.
func decode(payload []byte) ([]workout.Record, []error, error) {
	var raw []persisted
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, nil, err
	}
	records := make([]workout.Record, 0, len(raw))
	var skipped []error
	for _, p := range raw {
		r, err := fromPersisted(p)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}
