package handler

import "time"

// eventTimeResponse carries a single window boundary. Clients render
// countdowns from it, so it stays a bare timestamp.
type eventTimeResponse struct {
	Timestamp time.Time `json:"timestamp"`
}

type eventPhaseResponse struct {
	Phase string    `json:"phase"`
	Now   time.Time `json:"now"`
}
