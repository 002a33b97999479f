package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer records reset deliveries in the log stream instead of sending
// mail. Deployments front the API with an external relay; this keeps local
// and test environments self-contained.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendPasswordReset logs the delivery. The token never reaches the log
// stream; only its owner may see it.
func (m *LogMailer) SendPasswordReset(_ context.Context, to, _ string) error {
	m.log.Info().Str("to", to).Msg("password reset mail issued")
	return nil
}
