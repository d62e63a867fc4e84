package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileTemplateSimpleExpansion(t *testing.T) {
	ct, err := compileTemplate("history://{id}")
	require.NoError(t, err)

	vars, ok := ct.match("history://x")
	require.True(t, ok)
	assert.Equal(t, "x", vars["id"])

	_, ok = ct.match("history://x/y")
	assert.False(t, ok, "simple expansion must not cross a '/' boundary")
}

func TestCompileTemplateReservedExpansion(t *testing.T) {
	ct, err := compileTemplate("file://{+path}")
	require.NoError(t, err)

	vars, ok := ct.match("file://a/b/c")
	require.True(t, ok)
	assert.Equal(t, "a/b/c", vars["path"])
}

func TestCompileTemplateMultiVariable(t *testing.T) {
	ct, err := compileTemplate("doc://{owner},{id}")
	require.NoError(t, err)

	vars, ok := ct.match("doc://acme,42")
	require.True(t, ok)
	assert.Equal(t, "acme", vars["owner"])
	assert.Equal(t, "42", vars["id"])
}

func TestCompileTemplateRejectsUnsupportedOperators(t *testing.T) {
	for _, tmpl := range []string{"x://{?q}", "x://{&q}", "x://{;q}"} {
		_, err := compileTemplate(tmpl)
		assert.Error(t, err, tmpl)
	}
}

func TestCompileTemplateRejectsListModifier(t *testing.T) {
	_, err := compileTemplate("x://{ids*}")
	assert.Error(t, err)
}
