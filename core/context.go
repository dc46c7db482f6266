package core

import (
	"context"
	"time"
)

// Context keys for report options
type contextKey string

const (
	clockKey contextKey = "clock"
)

// WithClock sets the clock used to resolve "today" for reports built from ctx.
func WithClock(ctx context.Context, now func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey, now)
}

// clockFrom returns the clock from context
func clockFrom(ctx context.Context) func() time.Time {
	if now, ok := ctx.Value(clockKey).(func() time.Time); ok && now != nil {
		return now
	}
	return time.Now // default: wall clock
}

// todayFrom returns the local calendar day of the context clock.
func todayFrom(ctx context.Context) time.Time {
	now := clockFrom(ctx)()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
