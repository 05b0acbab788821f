package main

import (
	"fmt"
	"io"

	"backend-mapty/internal/workout"
)

// textRenderer prints render commands as terminal lines.
type textRenderer struct {
	w     io.Writer
	muted bool
}

func (r *textRenderer) RenderMarker(coords workout.Coordinates, label string) {
	if r.muted {
		return
	}
	fmt.Fprintf(r.w, "marker  %s  %s\n", formatCoords(coords), label)
}

func (r *textRenderer) RenderListEntry(rec workout.Record) {
	if r.muted {
		return
	}
	fmt.Fprintln(r.w, formatEntry(rec))
}

func (r *textRenderer) PanTo(coords workout.Coordinates) {
	if r.muted {
		return
	}
	fmt.Fprintf(r.w, "pan to  %s\n", formatCoords(coords))
}

func formatCoords(c workout.Coordinates) string {
	return fmt.Sprintf("[%.5f, %.5f]", c.Lat(), c.Lng())
}

func formatEntry(rec workout.Record) string {
	var metric string
	switch rec.Kind {
	case workout.KindRunning:
		metric = fmt.Sprintf("%.1f min/km  %.0f spm", rec.Running.PaceMinPerKm, rec.Running.CadenceSpm)
	case workout.KindCycling:
		metric = fmt.Sprintf("%.1f km/h  %.0f m", rec.Cycling.SpeedKmPerH, rec.Cycling.ElevationGainM)
	}
	return fmt.Sprintf("%-5s  %-22s  %.1f km  %.0f min  %s", rec.ID, rec.Label(), rec.DistanceKm, rec.DurationMin, metric)
}
