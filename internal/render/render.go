// Package render writes the final JSON value to the result stream.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Write pretty-prints one JSON value to w followed by a newline. A broken
// pipe is not an error: piping into head must not fail the run.
func Write(w io.Writer, value json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, value, "", "  "); err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	buf.WriteByte('\n')

	if _, err := w.Write(buf.Bytes()); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			return nil
		}
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
