package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/report"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("utf-8 passthrough", func(t *testing.T) {
		t.Parallel()
		out, err := report.Encode("café ✓", "UTF-8")
		require.NoError(t, err)
		assert.Equal(t, "café ✓", string(out))
	})

	t.Run("single byte charset escapes unsupported runes", func(t *testing.T) {
		t.Parallel()
		out, err := report.Encode("café ✓", "ISO-8859-1")
		require.NoError(t, err)
		assert.Equal(t, []byte("caf\xe9 &#10003;"), out)
	})

	t.Run("unknown charset", func(t *testing.T) {
		t.Parallel()
		_, err := report.Encode("x", "klingon")
		assert.ErrorIs(t, err, report.ErrUnknownCharset)
	})
}

func TestValidCharset(t *testing.T) {
	t.Parallel()

	assert.True(t, report.ValidCharset("utf8"))
	assert.True(t, report.ValidCharset("windows-1251"))
	assert.False(t, report.ValidCharset("klingon"))
}

func TestThemeMerge(t *testing.T) {
	t.Parallel()

	base := report.DefaultTheme()
	merged := base.Merge(map[string]string{
		report.RoleClass: "#123456",
		"error":          "rgb(1, 2, 3)",
		report.RoleMuted: `red;"><script>`,
		"unknown":        "#000000",
	})

	assert.Equal(t, "#123456", merged.Color(report.RoleClass))
	assert.Equal(t, "rgb(1, 2, 3)", merged.SeverityColor(report.Error))
	assert.Equal(t, "#888888", merged.Color(report.RoleMuted))
	assert.Empty(t, merged.Color("unknown"))

	assert.Equal(t, "#0000FF", base.Color(report.RoleClass), "merge does not mutate the receiver")
	assert.Equal(t, "#c12a19", base.SeverityColor(report.Error))

	var zero report.Theme
	assert.Equal(t, "#FF0000", zero.Color(report.RoleErrorPosition))
	assert.Equal(t, "#ff361c", zero.SeverityColor(report.Emergency))
}
