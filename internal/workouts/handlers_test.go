package workouts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-mapty/internal/auth"
	"backend-mapty/internal/session"
	"backend-mapty/internal/storage"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _ := newTestService()
	app := fiber.New()
	RegisterRoutes(app.Group("/workouts"), svc, func(c *fiber.Ctx) error {
		c.Locals(auth.LocalSessionID, "session-1")
		return c.Next()
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func decodeView(t *testing.T, resp *http.Response) workout.View {
	t.Helper()
	var v workout.View
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestWorkoutHandlersCreateAndList(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/workouts", map[string]any{
		"type": "running", "coordinates": []float64{40, -73},
		"distanceKm": 5, "durationMin": 30, "cadenceSpm": 150,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create running status: %d", resp.StatusCode)
	}
	run := decodeView(t, resp)
	if run.PaceMinPerKm == nil || *run.PaceMinPerKm != 6 {
		t.Fatalf("expected pace 6, got %+v", run)
	}
	if run.Label == "" {
		t.Fatalf("expected label")
	}

	resp = postJSON(t, app, "/workouts", map[string]any{
		"type": "cycling", "coordinates": []float64{40, -73},
		"distanceKm": 20, "durationMin": 60, "elevationGainM": 300,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create cycling status: %d", resp.StatusCode)
	}
	ride := decodeView(t, resp)
	if ride.SpeedKmPerH == nil || *ride.SpeedKmPerH != 20 {
		t.Fatalf("expected speed 20, got %+v", ride)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workouts", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	var list ListResponse
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if list.Count != 2 || list.Items[0].ID != run.ID || list.Items[1].ID != ride.ID {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestWorkoutHandlersRejectInvalid(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/workouts", map[string]any{
		"type": "running", "coordinates": []float64{0, 0},
		"distanceKm": -1, "durationMin": 30, "cadenceSpm": 150,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != workout.AlertMessage {
		t.Fatalf("expected alert message, got %q", body)
	}

	resp = postJSON(t, app, "/workouts", map[string]any{"type": "rowing", "coordinates": []float64{0, 0}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for unknown type")
	}

	resp = postJSON(t, app, "/workouts", map[string]any{"type": "running", "distanceKm": 1, "durationMin": 1, "cadenceSpm": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing coordinates")
	}

	req := httptest.NewRequest(http.MethodPost, "/workouts", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for broken body")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/workouts", nil))
	var list ListResponse
	_ = json.NewDecoder(resp.Body).Decode(&list)
	if list.Count != 0 {
		t.Fatalf("expected empty list after rejections")
	}
}

func TestWorkoutHandlersGetSelectClear(t *testing.T) {
	app := newTestApp(t)
	created := decodeView(t, postJSON(t, app, "/workouts", map[string]any{
		"type": "cycling", "coordinates": []float64{48.8, 2.3},
		"distanceKm": 12, "durationMin": 40, "elevationGainM": 0,
	}))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/workouts/"+created.ID, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/workouts/does-not-exist", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/workouts/"+created.ID+"/select", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status: %d", resp.StatusCode)
	}
	if v := decodeView(t, resp); v.InteractionCount != 1 {
		t.Fatalf("expected one interaction, got %d", v.InteractionCount)
	}

	resp = postJSON(t, app, "/workouts/does-not-exist/select", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found on select, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/workouts", nil))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear status: %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/workouts/"+created.ID, nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected record gone after clear")
	}
}

type unreachableKV struct {
	storage.KV
}

func (unreachableKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestWorkoutHandlersStorageUnavailable(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(context.Background(), "workouts:session-1", []byte(`[]`))
	svc := NewService(session.NewRegistry(unreachableKV{KV: kv}, "workouts", nil, nil))
	app := fiber.New()
	RegisterRoutes(app.Group("/workouts"), svc, func(c *fiber.Ctx) error {
		c.Locals(auth.LocalSessionID, "session-1")
		return c.Next()
	})

	resp := postJSON(t, app, "/workouts", map[string]any{
		"type": "running", "coordinates": []float64{1, 2},
		"distanceKm": 5, "durationMin": 30, "cadenceSpm": 150,
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on submit, got %d", resp.StatusCode)
	}
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/workouts", nil),
		httptest.NewRequest(http.MethodGet, "/workouts/1", nil),
		httptest.NewRequest(http.MethodDelete, "/workouts", nil),
	} {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("%s %s: expected 503, got %d", req.Method, req.URL.Path, resp.StatusCode)
		}
	}
	if got, _ := kv.Get(context.Background(), "workouts:session-1"); string(got) != `[]` {
		t.Fatalf("stored list must be untouched, got %s", got)
	}
}

func TestWorkoutHandlersOverflowIsValidationError(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/workouts", map[string]any{
		"type": "running", "coordinates": []float64{1, 2},
		"distanceKm": 1e-300, "durationMin": 1e300, "cadenceSpm": 150,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte(workout.AlertMessage)) {
		t.Fatalf("expected alert message, got %s", body)
	}
}
