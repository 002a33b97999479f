package domain

import "time"

// EventPhase partitions time relative to the event window.
type EventPhase string

const (
	PhaseBefore EventPhase = "before"
	PhaseActive EventPhase = "active"
	PhaseAfter  EventPhase = "after"
)

// EventWindow is the half-open interval [Start, End) during which the event
// is live. It is built once from configuration and never mutated afterwards.
type EventWindow struct {
	Start time.Time
	End   time.Time
}

// NewEventWindow validates and builds an EventWindow. Both bounds must be set
// and Start must precede End.
func NewEventWindow(start, end time.Time) (EventWindow, error) {
	if start.IsZero() || end.IsZero() {
		return EventWindow{}, ErrInvalidWindow
	}
	if !start.Before(end) {
		return EventWindow{}, ErrInvalidWindow
	}
	return EventWindow{Start: start, End: end}, nil
}

// Phase classifies an instant against the window. The boundaries follow the
// half-open convention: at == Start is active, at == End is after.
func (w EventWindow) Phase(at time.Time) EventPhase {
	if at.Before(w.Start) {
		return PhaseBefore
	}
	if at.Before(w.End) {
		return PhaseActive
	}
	return PhaseAfter
}

// AuthEventKind names a category of security-relevant occurrence.
type AuthEventKind string

const (
	AuditLogin         AuthEventKind = "login"
	AuditLoginFailed   AuthEventKind = "login_failed"
	AuditRegistration  AuthEventKind = "registration"
	AuditPasswordReset AuthEventKind = "password_reset"
	AuditGuardDenial   AuthEventKind = "guard_denial"
)

// AuthEvent is a single entry in the authentication audit trail.
type AuthEvent struct {
	Kind    AuthEventKind
	Email   string
	Subject string
	Reason  string
	At      time.Time
}
