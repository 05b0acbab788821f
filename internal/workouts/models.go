package workouts

import "backend-mapty/internal/workout"

// Submission is the workout form plus the map click that opened it.
// Only the metric that matches Type is read.
type Submission struct {
	Type           workout.Kind         `json:"type"`
	Coordinates    *workout.Coordinates `json:"coordinates"`
	DistanceKm     float64              `json:"distanceKm"`
	DurationMin    float64              `json:"durationMin"`
	CadenceSpm     float64              `json:"cadenceSpm"`
	ElevationGainM float64              `json:"elevationGainM"`
}

type ListResponse struct {
	Items []workout.View `json:"items"`
	Count int            `json:"count"`
}
