package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/resilience"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/script"
)

// TurnError identifies the turn that failed to synthesize
type TurnError struct {
	Index   int
	Persona string
	Err     error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d (%s): %v", e.Index+1, e.Persona, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Synthesizer renders turns one at a time through a speech provider
type Synthesizer struct {
	provider SpeechSynthesisProvider
	voices   VoiceMap
	modelID  string
	policy   resilience.Policy
}

// NewSynthesizer creates a synthesizer bound to a fixed voice table and model
func NewSynthesizer(provider SpeechSynthesisProvider, voices VoiceMap, modelID string, policy resilience.Policy) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		voices:   voices,
		modelID:  modelID,
		policy:   policy,
	}
}

// Synthesize renders one turn, draining the provider stream completely.
// With a retry policy each attempt restarts the stream from scratch.
func (s *Synthesizer) Synthesize(ctx context.Context, turn script.Turn) ([]byte, error) {
	voiceID, ok := s.voices.VoiceFor(turn.Persona)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPersona, turn.Persona)
	}

	return resilience.Do(ctx, s.policy, "speech synthesis", func(ctx context.Context) ([]byte, error) {
		stream, err := s.provider.Stream(ctx, voiceID, turn.Text, s.modelID)
		if err != nil {
			return nil, err
		}
		defer stream.Close()

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stream); err != nil {
			return nil, fmt.Errorf("failed to read audio stream: %w", err)
		}
		return buf.Bytes(), nil
	})
}

// Stream returns a ChunkStream that synthesizes turns lazily and strictly in order
func (s *Synthesizer) Stream(turns []script.Turn) ChunkStream {
	return &turnStream{synth: s, turns: turns}
}

type turnStream struct {
	synth *Synthesizer
	turns []script.Turn
	next  int
	err   error
}

// Next synthesizes the next turn. After a failure every call returns the same error.
func (ts *turnStream) Next(ctx context.Context) (Chunk, error) {
	if ts.err != nil {
		return Chunk{}, ts.err
	}
	if ts.next >= len(ts.turns) {
		return Chunk{}, io.EOF
	}

	i := ts.next
	turn := ts.turns[i]
	audio, err := ts.synth.Synthesize(ctx, turn)
	if err != nil {
		ts.err = &TurnError{Index: i, Persona: turn.Persona, Err: err}
		return Chunk{}, ts.err
	}

	ts.next++
	return Chunk{Index: i, Persona: turn.Persona, Audio: audio}, nil
}
