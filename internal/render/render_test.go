package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePrettyPrintsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, json.RawMessage(`[{"_id":"a"},{"_id":"b"}]`)))

	assert.Equal(t, `[
  {
    "_id": "a"
  },
  {
    "_id": "b"
  }
]
`, buf.String())
}

func TestWriteBareValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, json.RawMessage(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteRejectsInvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, json.RawMessage(`{"a":`))
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

type failingWriter struct{ err error }

func (w *failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestWriteSwallowsBrokenPipe(t *testing.T) {
	w := &failingWriter{err: fmt.Errorf("write |1: %w", syscall.EPIPE)}
	assert.NoError(t, Write(w, json.RawMessage(`[]`)))
}

func TestWritePropagatesOtherErrors(t *testing.T) {
	w := &failingWriter{err: fmt.Errorf("disk full")}
	assert.Error(t, Write(w, json.RawMessage(`[]`)))
}
