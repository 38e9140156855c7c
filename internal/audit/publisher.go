package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands events to the worker's inbox. Emission is non-blocking: a
// full inbox drops the event with a log line rather than stalling a case
// mutation.
type Publisher struct {
	inbox chan<- Event
	log   *slog.Logger
	now   func() time.Time
}

func NewPublisher(inbox chan<- Event, log *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, log: log, now: time.Now}
}

// CaseEventCommitted records a committed mutation.
func (p *Publisher) CaseEventCommitted(ctx context.Context, userID, caseID, caseType, eventName string) {
	event := Event{
		Timestamp: p.now(),
		UserID:    userID,
		CaseID:    caseID,
		CaseType:  caseType,
		Action:    eventName,
	}
	select {
	case p.inbox <- event:
	default:
		p.log.WarnContext(ctx, "audit inbox full, event dropped",
			"case_id", caseID, "action", eventName)
	}
}
