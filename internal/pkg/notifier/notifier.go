// Package notifier dispatches outbound notifications after scheduling and
// reminder operations. Delivery is fire-and-forget: failures are logged by
// the caller, never propagated into the triggering operation.
package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// Audience selects who receives a notification
type Audience string

const (
	AudienceStudents Audience = "STUDENTS"
	AudienceParents  Audience = "PARENTS"
	AudienceTeachers Audience = "TEACHERS"
)

// Notification is one outbound message targeting the given classes
type Notification struct {
	InstitutionID int64
	ExamID        int64
	ClassIDs      []int64
	Audiences     []Audience
	Title         string
	Body          string
}

// Dispatcher delivers notifications to an external channel
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}

// LogDispatcher records notifications to the structured log. It stands in
// for the real delivery channel (SMS/email gateway) in development.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a dispatcher that logs instead of delivering
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch implements Dispatcher
func (d *LogDispatcher) Dispatch(_ context.Context, n Notification) error {
	d.logger.Info().
		Int64("institutionId", n.InstitutionID).
		Int64("examId", n.ExamID).
		Ints64("classIds", n.ClassIDs).
		Str("title", n.Title).
		Msg("Notification dispatched")
	return nil
}
