package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event subjects emitted on the quiz lifecycle bus.
const (
	EventAttemptSubmitted = "quizdesk.attempt.submitted"
	EventAnswerGraded     = "quizdesk.answer.graded"
	EventAttemptReleased  = "quizdesk.attempt.released"
)

// EventPublisher broadcasts quiz lifecycle events. Publishing is
// best-effort: a broker outage must never fail the request that
// triggered the event.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

// AttemptEvent is the wire payload for attempt lifecycle events.
type AttemptEvent struct {
	AttemptID  uint      `json:"attempt_id"`
	QuizID     uint      `json:"quiz_id"`
	StudentID  uint      `json:"student_id"`
	QuestionID uint      `json:"question_id,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	Source     string    `json:"source"`
	SentAt     time.Time `json:"sent_at"`
}

type natsPublisher struct {
	conn   *nats.Conn
	nodeID string
	logger zerolog.Logger
}

// NewEventPublisher wraps a NATS connection as an EventPublisher. A nil
// connection yields a publisher that drops everything, so callers never
// need to branch on messaging being configured.
func NewEventPublisher(conn *nats.Conn, logger zerolog.Logger) EventPublisher {
	return &natsPublisher{
		conn:   conn,
		nodeID: uuid.NewString(),
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsPublisher) Publish(subject string, payload interface{}) {
	if p.conn == nil {
		return
	}

	if event, ok := payload.(AttemptEvent); ok {
		event.Source = p.nodeID
		if event.SentAt.IsZero() {
			event.SentAt = time.Now().UTC()
		}
		payload = event
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error().Err(err).Str("subject", subject).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish event")
	}
}
