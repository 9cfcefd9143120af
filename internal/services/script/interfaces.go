package script

import (
	"context"
	"errors"
)

// Message roles understood by text generation providers
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged entry of a prompt
type Message struct {
	Role    string
	Content string
}

// TextGenerationProvider turns a prompt into generated text
type TextGenerationProvider interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// Personas names the two speakers of every script
type Personas struct {
	Primary   string
	Secondary string
}

// Names returns both persona names, primary first
func (p Personas) Names() []string {
	return []string{p.Primary, p.Secondary}
}

// Validate checks both names are set and distinct
func (p Personas) Validate() error {
	if p.Primary == "" || p.Secondary == "" {
		return errors.New("both persona names are required")
	}
	if p.Primary == p.Secondary {
		return errors.New("persona names must differ")
	}
	return nil
}

// Turn is one utterance attributed to a single persona
type Turn struct {
	Persona string
	Text    string
}

// ErrEmptyScript is returned when the provider produced no usable text
var ErrEmptyScript = errors.New("text generation returned an empty script")
