package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashHex(t *testing.T) {
	h := ContentHashHex([]byte("hello world"))
	assert.Len(t, h, 64)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", h)
}

func TestContentHashHex_Empty(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHashHex([]byte{}))
}

func TestContentHashHex_Deterministic(t *testing.T) {
	data := []byte("# Summary\n")
	assert.Equal(t, ContentHashHex(data), ContentHashHex(data))
	assert.NotEqual(t, ContentHashHex(data), ContentHashHex([]byte("# Summary")))
}

func TestReportSnapshot(t *testing.T) {
	r := NewReport("run-1", "single")
	r.AddFile(FileResult{Path: "a.md", Status: FileWritten})
	r.AddFile(FileResult{Path: "b.md", Status: FileUnchanged})
	r.AddFile(FileResult{Path: "c.md", Status: FileFailed, Error: "disk full"})

	s := r.Snapshot()
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, RunRunning, s.Status)
	assert.True(t, s.FinishedAt.IsZero())
	assert.Equal(t, 1, s.Written)
	assert.Equal(t, 1, s.Unchanged)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Files, 3)

	// Snapshot is a copy.
	s.Files[0].Path = "changed.md"
	assert.Equal(t, "a.md", r.Snapshot().Files[0].Path)

	assert.Equal(t, []string{"a.md", "b.md"}, r.Paths())
}

func TestReportFinish(t *testing.T) {
	ok := NewReport("run-ok", "groups")
	ok.Finish(nil)
	s := ok.Snapshot()
	assert.Equal(t, RunCompleted, s.Status)
	assert.False(t, s.FinishedAt.IsZero())
	assert.Empty(t, s.Error)

	failed := NewReport("run-bad", "classes")
	failed.Finish(errors.New("boom"))
	s = failed.Snapshot()
	require.Equal(t, RunFailed, s.Status)
	assert.Equal(t, "boom", s.Error)
}
