package app

import "context"

type cycleIDKey struct{}

// WithCycleID tags ctx with the correlation id of a polling cycle.
func WithCycleID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, cycleIDKey{}, id)
}

// CycleIDFrom returns the cycle id stored in ctx, or "".
func CycleIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(cycleIDKey{}).(string)
	return id
}
