package script

import (
	"fmt"
	"strings"

	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// Profile is a named target length and tone for a script
type Profile struct {
	Name       string
	MinWords   int
	MaxWords   int
	MinMinutes int
	MaxMinutes int
	Tone       string
}

// Built-in profiles
var (
	ProfileHighlight = Profile{
		Name:       "highlight",
		MinWords:   300,
		MaxWords:   450,
		MinMinutes: 2,
		MaxMinutes: 3,
		Tone:       "upbeat and punchy, covering only the most interesting highlights",
	}
	ProfileConversation = Profile{
		Name:       "conversation",
		MinWords:   1200,
		MaxWords:   1500,
		MinMinutes: 8,
		MaxMinutes: 10,
		Tone:       "relaxed and curious, exploring the material in depth",
	}
)

var profiles = map[string]Profile{
	ProfileHighlight.Name:    ProfileHighlight,
	ProfileConversation.Name: ProfileConversation,
}

// ProfileNames lists the built-in profile names
func ProfileNames() []string {
	return []string{ProfileHighlight.Name, ProfileConversation.Name}
}

// LookupProfile resolves a profile by name
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, apperrors.InvalidInput("profile",
			fmt.Sprintf("unknown profile %q, expected one of %s", name, strings.Join(ProfileNames(), ", ")))
	}
	return p, nil
}

func (p Profile) lengthConstraint() string {
	return fmt.Sprintf("between %d and %d words (about %d to %d minutes of audio)",
		p.MinWords, p.MaxWords, p.MinMinutes, p.MaxMinutes)
}
