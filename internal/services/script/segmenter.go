package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Segmenter splits a script into ordered turns.
// Lines that are not "<Persona>: <text>" for one of the two personas are dropped.
type Segmenter struct {
	pattern *regexp.Regexp
}

// NewSegmenter builds a segmenter matching exactly the given persona names
func NewSegmenter(personas Personas) *Segmenter {
	pattern := fmt.Sprintf(`^(%s|%s):[ \t]+(.*)$`,
		regexp.QuoteMeta(personas.Primary), regexp.QuoteMeta(personas.Secondary))
	return &Segmenter{pattern: regexp.MustCompile(pattern)}
}

// Segment returns the turns of script in order. Every turn has non-empty text.
func (s *Segmenter) Segment(script string) []Turn {
	var turns []Turn
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := s.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		turns = append(turns, Turn{Persona: m[1], Text: text})
	}
	return turns
}
