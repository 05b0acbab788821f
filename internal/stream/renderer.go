package stream

import (
	"encoding/json"

	"backend-mapty/internal/workout"

	"go.uber.org/zap"
)

const (
	EventMarker    = "marker"
	EventListEntry = "list_entry"
	EventPanTo     = "pan_to"
)

type Event struct {
	Event       string               `json:"event"`
	Coordinates *workout.Coordinates `json:"coordinates,omitempty"`
	Label       string               `json:"label,omitempty"`
	Record      *workout.View        `json:"record,omitempty"`
}

// Renderer turns map and list commands into hub events, either for every
// client of a session or for a single client.
type Renderer struct {
	hub       *Hub
	sessionID string
	client    *Client
}

func (h *Hub) Renderer(sessionID string) *Renderer {
	return &Renderer{hub: h, sessionID: sessionID}
}

// ClientRenderer addresses only client; nothing is published to other hubs.
func (h *Hub) ClientRenderer(client *Client) *Renderer {
	return &Renderer{hub: h, sessionID: client.SessionID, client: client}
}

func (r *Renderer) RenderMarker(coords workout.Coordinates, label string) {
	r.send(Event{Event: EventMarker, Coordinates: &coords, Label: label})
}

func (r *Renderer) RenderListEntry(rec workout.Record) {
	view := rec.View()
	r.send(Event{Event: EventListEntry, Record: &view})
}

func (r *Renderer) PanTo(coords workout.Coordinates) {
	r.send(Event{Event: EventPanTo, Coordinates: &coords})
}

func (r *Renderer) send(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.hub.logger.Warn("encode stream event",
			zap.String("session_id", r.sessionID),
			zap.String("event", ev.Event),
			zap.Error(err),
		)
		return
	}
	if r.client != nil {
		r.hub.Send(r.client, payload)
		return
	}
	r.hub.Broadcast(r.sessionID, payload)
}
