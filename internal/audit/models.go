// Package audit records committed case mutations. Events are emitted on a
// channel by the transactor and persisted by a background worker; emission
// never blocks or fails the mutation itself.
package audit

import "time"

// Event captures one committed case mutation. Keep it transport-agnostic so
// stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    string
	CaseID    string
	CaseType  string
	Action    string
}
