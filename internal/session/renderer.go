package session

import "backend-mapty/internal/workout"

// Renderer receives the drawing commands for the map and the list.
// Implementations must not block; the store calls them while holding its lock.
type Renderer interface {
	RenderMarker(coords workout.Coordinates, label string)
	RenderListEntry(rec workout.Record)
	PanTo(coords workout.Coordinates)
}

type nopRenderer struct{}

func (nopRenderer) RenderMarker(workout.Coordinates, string) {}
func (nopRenderer) RenderListEntry(workout.Record)           {}
func (nopRenderer) PanTo(workout.Coordinates)                {}
