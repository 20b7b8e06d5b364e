package sink_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/errorkit/pkg/sink"
)

func TestSuppress(t *testing.T) {
	t.Parallel()

	base := context.Background()
	assert.False(t, sink.Suppressed(base, "chat"))
	assert.Equal(t, base, sink.Suppress(base))

	ctx := sink.Suppress(base, "chat")
	assert.True(t, sink.Suppressed(ctx, "chat"))
	assert.False(t, sink.Suppressed(ctx, "file"))

	nested := sink.Suppress(ctx, "file", "chat")
	assert.True(t, sink.Suppressed(nested, "chat"))
	assert.True(t, sink.Suppressed(nested, "file"))

	// The parent context is unaffected once the nested scope ends.
	assert.False(t, sink.Suppressed(ctx, "file"))
}
