package sink

import (
	"context"
	"slices"
)

type suppressKey struct{}

// Suppress returns a context in which deliveries to the named sinks are
// skipped. The dispatcher wraps every delivery with its own sink name, so a
// log call made while a sink is working, including the call reporting that
// sink's failure, can never re-enter it. The guard lifts when the delivery
// returns because the context does not outlive it.
func Suppress(ctx context.Context, names ...string) context.Context {
	if len(names) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(suppressKey{}).([]string)
	merged := make([]string, 0, len(prev)+len(names))
	merged = append(merged, prev...)
	for _, n := range names {
		if !slices.Contains(merged, n) {
			merged = append(merged, n)
		}
	}
	return context.WithValue(ctx, suppressKey{}, merged)
}

// Suppressed reports whether deliveries to name are disabled in ctx.
func Suppressed(ctx context.Context, name string) bool {
	names, _ := ctx.Value(suppressKey{}).([]string)
	return slices.Contains(names, name)
}
