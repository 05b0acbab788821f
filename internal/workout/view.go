package workout

import "time"

// View is the JSON shape handed to UI clients.
type View struct {
	ID               string      `json:"id"`
	Type             Kind        `json:"type"`
	Label            string      `json:"label"`
	CreatedAt        time.Time   `json:"createdAt"`
	Coordinates      Coordinates `json:"coordinates"`
	DistanceKm       float64     `json:"distanceKm"`
	DurationMin      float64     `json:"durationMin"`
	InteractionCount int         `json:"interactionCount"`
	CadenceSpm       *float64    `json:"cadenceSpm,omitempty"`
	PaceMinPerKm     *float64    `json:"paceMinPerKm,omitempty"`
	ElevationGainM   *float64    `json:"elevationGainM,omitempty"`
	SpeedKmPerH      *float64    `json:"speedKmPerH,omitempty"`
}

func (r Record) View() View {
	v := View{
		ID:               r.ID,
		Type:             r.Kind,
		Label:            r.Label(),
		CreatedAt:        r.CreatedAt,
		Coordinates:      r.Coordinates,
		DistanceKm:       r.DistanceKm,
		DurationMin:      r.DurationMin,
		InteractionCount: r.InteractionCount,
	}
	switch r.Kind {
	case KindRunning:
		m := r.Running
		v.CadenceSpm, v.PaceMinPerKm = &m.CadenceSpm, &m.PaceMinPerKm
	case KindCycling:
		m := r.Cycling
		v.ElevationGainM, v.SpeedKmPerH = &m.ElevationGainM, &m.SpeedKmPerH
	}
	return v
}

func Views(records []Record) []View {
	out := make([]View, 0, len(records))
	for _, r := range records {
		out = append(out, r.View())
	}
	return out
}
