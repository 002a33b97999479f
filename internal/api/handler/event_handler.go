package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

// EventHandler exposes the competition window so clients can drive their
// countdowns from the same clock the server enforces.
type EventHandler struct {
	window domain.EventWindow
	now    func() time.Time
}

// NewEventHandler creates an EventHandler for the given window. A nil clock
// falls back to time.Now.
func NewEventHandler(window domain.EventWindow, now func() time.Time) *EventHandler {
	if now == nil {
		now = time.Now
	}
	return &EventHandler{window: window, now: now}
}

// StartTime returns the instant the event opens.
//
// @Summary      Get the event start time
// @Tags         event
// @Produce      json
// @Success      200  {object}  eventTimeResponse
// @Router       /event/start-time [get]
func (h *EventHandler) StartTime(c echo.Context) error {
	return c.JSON(http.StatusOK, eventTimeResponse{Timestamp: h.window.Start})
}

// EndTime returns the instant the event closes.
//
// @Summary      Get the event end time
// @Tags         event
// @Produce      json
// @Success      200  {object}  eventTimeResponse
// @Router       /event/end-time [get]
func (h *EventHandler) EndTime(c echo.Context) error {
	return c.JSON(http.StatusOK, eventTimeResponse{Timestamp: h.window.End})
}

// Phase classifies the current instant against the window.
//
// @Summary      Get the current event phase
// @Tags         event
// @Produce      json
// @Success      200  {object}  eventPhaseResponse
// @Router       /event/phase [get]
func (h *EventHandler) Phase(c echo.Context) error {
	now := h.now().UTC()
	return c.JSON(http.StatusOK, eventPhaseResponse{
		Phase: string(h.window.Phase(now)),
		Now:   now,
	})
}
