package check

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckClean(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "api_A.md", "# class `A` {#classA}\n\nSee [B](api_B.md#classB) and [self](#classA).\n\n"+
		" Members | Descriptions\n---|---\n[`run`](#classA_1run) | Runs.\n\n#### `int `[`run`](#classA_1run)`()` {#classA_1run}\n")
	b := write(t, dir, "api_B.md", "# class `B` <a id=\"classB\"></a>\n\n[home](https://example.com/#x)\n")

	problems, err := New(discard()).Check([]string{a, b})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCheckHTMLBlockAnchor(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.md", "<a name=\"top\"></a>\n\n[up](#top)\n")

	problems, err := New(discard()).Check([]string{a})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestCheckBrokenLinks(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "docs/a.md", "# A {#a}\n\n[gone](missing.md#x)\n\n[nowhere](#nope)\n\n[other](b.md#b2)\n\n[plain](b.md)\n")
	write(t, dir, "docs/b.md", "# B {#b}\n")

	problems, err := New(discard()).Check([]string{a})
	require.NoError(t, err)
	require.Len(t, problems, 3)

	assert.Equal(t, "missing.md#x", problems[0].Target)
	assert.Equal(t, "missing file", problems[0].Reason)
	assert.Equal(t, "#nope", problems[1].Target)
	assert.Equal(t, "missing anchor", problems[1].Reason)
	assert.Equal(t, "b.md#b2", problems[2].Target)
	assert.Equal(t, "missing anchor", problems[2].Reason)
}

func TestCheckPlaceholders(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.md", "# A {#a}\n\nline two\nsee [x]({#ref classX #})\n")

	problems, err := New(discard()).Check([]string{a})
	require.NoError(t, err)
	require.NotEmpty(t, problems)

	p := problems[0]
	assert.Equal(t, 4, p.Line)
	assert.Equal(t, "classX", p.Target)
	assert.Equal(t, "unresolved reference", p.Reason)
	assert.Equal(t, a+":4: classX: unresolved reference", p.String())
}

func TestCheckMissingInput(t *testing.T) {
	_, err := New(discard()).Check([]string{filepath.Join(t.TempDir(), "none.md")})
	require.Error(t, err)
}
