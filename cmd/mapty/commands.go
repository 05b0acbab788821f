package main

import (
	"errors"
	"fmt"

	"backend-mapty/internal/session"
	"backend-mapty/internal/workout"

	"github.com/spf13/cobra"
)

type addFlags struct {
	lat, lng    float64
	distanceKm  float64
	durationMin float64
	metric      float64
}

func (c *cli) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a workout at a map location",
	}
	cmd.AddCommand(
		c.newAddKindCmd(workout.KindRunning, "cadence", "cadence in steps per minute"),
		c.newAddKindCmd(workout.KindCycling, "elevation", "elevation gain in meters"),
	)
	return cmd
}

func (c *cli) newAddKindCmd(kind workout.Kind, metricFlag, metricUsage string) *cobra.Command {
	var f addFlags
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: "Record a " + string(kind) + " workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			coords := workout.Coordinates{f.lat, f.lng}
			if kind == workout.KindRunning {
				_, err = store.AddRunning(cmd.Context(), coords, f.distanceKm, f.durationMin, f.metric)
			} else {
				_, err = store.AddCycling(cmd.Context(), coords, f.distanceKm, f.durationMin, f.metric)
			}
			if errors.Is(err, workout.ErrInvalidInput) {
				return fmt.Errorf("%s: %w", workout.AlertMessage, err)
			}
			return err
		},
	}

	// Float flags go through strconv.ParseFloat, so NaN and Inf are accepted
	// here and rejected by validation.
	flags := cmd.Flags()
	flags.Float64Var(&f.lat, "lat", 0, "latitude of the map click")
	flags.Float64Var(&f.lng, "lng", 0, "longitude of the map click")
	flags.Float64Var(&f.distanceKm, "distance", 0, "distance in km")
	flags.Float64Var(&f.durationMin, "duration", 0, "duration in minutes")
	flags.Float64Var(&f.metric, metricFlag, 0, metricUsage)
	for _, name := range []string{"lat", "lng", "distance", "duration", metricFlag} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded workouts in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			records := store.All()
			if len(records) == 0 {
				fmt.Fprintln(c.out, "no workouts yet")
				return nil
			}
			for _, rec := range records {
				fmt.Fprintln(c.out, formatEntry(rec))
			}
			return nil
		},
	}
}

func (c *cli) newSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Select a workout, count the interaction and pan to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := store.Select(cmd.Context(), args[0])
			if errors.Is(err, session.ErrNotFound) {
				return fmt.Errorf("workout %q: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s selected %d times\n", rec.ID, rec.InteractionCount)
			return nil
		},
	}
}

func (c *cli) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded workouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeFn, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n := store.Len()
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "cleared %d workouts\n", n)
			return nil
		},
	}
}
