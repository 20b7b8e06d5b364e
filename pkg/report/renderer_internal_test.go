package report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderExceptionContentFallbackTitle(t *testing.T) {
	t.Parallel()

	r := New(WithRoots(Roots{Project: "/app"}))
	r.exceptionNode = func(*Exception) string {
		panic(errors.New("malformed <frame>"))
	}

	ev := FromError(errors.New("original failure"))
	out := r.Render(context.Background(), ev, Options{FullPage: true})

	assert.Contains(t, out, "Exception thrown when handling an exception (*errors.errorString: malformed &lt;frame&gt;)")
	assert.NotContains(t, out, "Type: ")
	assert.Contains(t, out, "<title>Error report: original failure</title>")
}

func TestDumpMasksQueryValueWithQuote(t *testing.T) {
	t.Parallel()

	out := dump(map[string]any{"callback": `/login?password=se"cret&next=/home`})

	assert.Contains(t, out, "password=*****&amp;next=/home")
	assert.NotContains(t, out, "cret")
}

func TestSplitFunction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in                string
		class, typ, fname string
	}{
		{"example.com/app/server.(*Server).Handle", "example.com/app/server.(*Server)", ".", "Handle"},
		{"example.com/app/server.Server.Handle", "example.com/app/server.Server", ".", "Handle"},
		{"example.com/app/server.run", "example.com/app/server", ".", "run"},
		{"example.com/app/server.run.func1", "example.com/app/server", ".", "run.func1"},
		{"example.com/app/server.(*Server).Handle.func2", "example.com/app/server.(*Server)", ".", "Handle.func2"},
		{"example.com/x.(*List[...]).Push", "example.com/x.(*List[...])", ".", "Push"},
		{"main.main", "main", ".", "main"},
		{"noDots", "", "", "noDots"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			class, typ, fname := splitFunction(tt.in)
			assert.Equal(t, tt.class, class)
			assert.Equal(t, tt.typ, typ)
			assert.Equal(t, tt.fname, fname)
		})
	}
}
