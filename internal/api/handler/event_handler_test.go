package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

func testWindow(t *testing.T) domain.EventWindow {
	t.Helper()
	window, err := domain.NewEventWindow(
		time.Date(2021, 12, 24, 5, 0, 0, 0, time.UTC),
		time.Date(2021, 12, 26, 5, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	return window
}

func TestEventHandler_StartTime(t *testing.T) {
	handler := NewEventHandler(testWindow(t), nil)

	c, rec := newJSONContext(http.MethodGet, "/event/start-time", "")
	if err := handler.StartTime(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	got, err := time.Parse(time.RFC3339, resp["timestamp"])
	if err != nil {
		t.Fatalf("timestamp not RFC 3339: %v", err)
	}
	if !got.Equal(time.Date(2021, 12, 24, 5, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start time: %v", got)
	}
}

func TestEventHandler_EndTime(t *testing.T) {
	handler := NewEventHandler(testWindow(t), nil)

	c, rec := newJSONContext(http.MethodGet, "/event/end-time", "")
	if err := handler.EndTime(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	got, err := time.Parse(time.RFC3339, resp["timestamp"])
	if err != nil {
		t.Fatalf("timestamp not RFC 3339: %v", err)
	}
	if !got.Equal(time.Date(2021, 12, 26, 5, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end time: %v", got)
	}
}

func TestEventHandler_Phase(t *testing.T) {
	window := testWindow(t)

	cases := map[string]struct {
		at   time.Time
		want string
	}{
		"before": {time.Date(2021, 12, 23, 12, 0, 0, 0, time.UTC), "before"},
		"start":  {window.Start, "active"},
		"during": {time.Date(2021, 12, 25, 12, 0, 0, 0, time.UTC), "active"},
		"end":    {window.End, "after"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			handler := NewEventHandler(window, func() time.Time { return tc.at })

			c, rec := newJSONContext(http.MethodGet, "/event/phase", "")
			if err := handler.Phase(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["phase"] != tc.want {
				t.Fatalf("expected phase %q, got %q", tc.want, resp["phase"])
			}
			if _, err := time.Parse(time.RFC3339, resp["now"]); err != nil {
				t.Fatalf("now not RFC 3339: %v", err)
			}
		})
	}
}
