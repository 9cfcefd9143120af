package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// SpeechSynthesisProvider renders text with a voice and returns the audio stream.
// The caller must close the stream.
type SpeechSynthesisProvider interface {
	Stream(ctx context.Context, voiceID, text, modelID string) (io.ReadCloser, error)
}

// Chunk is the synthesized audio of one turn
type Chunk struct {
	Index   int
	Persona string
	Audio   []byte
}

// ChunkStream yields chunks in script order and returns io.EOF when exhausted
type ChunkStream interface {
	Next(ctx context.Context) (Chunk, error)
}

// ErrNoAudio is returned when assembly produced zero bytes
var ErrNoAudio = errors.New("no audio produced")

// ErrUnknownPersona is returned for a turn whose persona has no voice
var ErrUnknownPersona = errors.New("no voice configured for persona")

// Voice binds a persona name to a provider voice id
type Voice struct {
	Persona string
	VoiceID string
}

// VoiceMap is an immutable two-entry persona to voice table
type VoiceMap struct {
	voices [2]Voice
}

// NewVoiceMap validates and builds a voice table
func NewVoiceMap(primary, secondary Voice) (VoiceMap, error) {
	for _, v := range []Voice{primary, secondary} {
		if v.Persona == "" || v.VoiceID == "" {
			return VoiceMap{}, fmt.Errorf("voice entries need a persona and a voice id")
		}
	}
	if primary.Persona == secondary.Persona {
		return VoiceMap{}, fmt.Errorf("persona %q is mapped twice", primary.Persona)
	}
	return VoiceMap{voices: [2]Voice{primary, secondary}}, nil
}

// VoiceFor returns the voice id for persona
func (m VoiceMap) VoiceFor(persona string) (string, bool) {
	for _, v := range m.voices {
		if v.Persona == persona && v.VoiceID != "" {
			return v.VoiceID, true
		}
	}
	return "", false
}

// Voices returns both entries, primary first
func (m VoiceMap) Voices() []Voice {
	return []Voice{m.voices[0], m.voices[1]}
}
