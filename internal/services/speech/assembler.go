package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// Assemble drains stream and concatenates the chunks byte for byte.
// Nothing is re-encoded: the result length is the sum of the chunk lengths.
// Any stream error discards what was collected so far.
func Assemble(ctx context.Context, stream ChunkStream) ([]byte, error) {
	var buf bytes.Buffer
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		buf.Write(chunk.Audio)
	}

	if buf.Len() == 0 {
		return nil, ErrNoAudio
	}
	return buf.Bytes(), nil
}
