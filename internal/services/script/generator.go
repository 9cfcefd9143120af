package script

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// GeneratorConfig holds settings shared by every generated script
type GeneratorConfig struct {
	Personas       Personas
	MaxTokens      int
	MinScriptChars int
}

// Input describes the material for one script
type Input struct {
	Content     string
	ContentType models.SourceType
	Title       string
	FocusAreas  []string
	Profile     Profile
}

// Result is a generated script. LowQuality is a warning, not a failure.
type Result struct {
	Title      string
	Script     string
	LowQuality bool
}

// Generator builds prompts and asks a text generation provider for a dialogue
type Generator struct {
	provider TextGenerationProvider
	cfg      GeneratorConfig
}

// NewGenerator creates a new script generator
func NewGenerator(provider TextGenerationProvider, cfg GeneratorConfig) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Generate produces a two-persona script. Provider errors are returned unchanged.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperrors.InvalidInput("content", "must not be empty")
	}

	text, err := g.provider.Generate(ctx, g.BuildMessages(in), g.cfg.MaxTokens)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyScript
	}

	result := &Result{
		Title:  TitleFor(in.Title, in.ContentType),
		Script: text,
	}
	if len(text) < g.cfg.MinScriptChars {
		result.LowQuality = true
		log.Printf("[WARN] Generated script is short: %d chars, expected at least %d", len(text), g.cfg.MinScriptChars)
	}

	return result, nil
}

// BuildMessages compiles the prompt for in. Equal inputs produce equal prompts.
func (g *Generator) BuildMessages(in Input) []Message {
	primary, secondary := g.cfg.Personas.Primary, g.cfg.Personas.Secondary

	var system strings.Builder
	fmt.Fprintf(&system, "You write scripts for a podcast hosted by %s and %s. ", primary, secondary)
	fmt.Fprintf(&system, "The tone is %s. ", in.Profile.Tone)
	system.WriteString("Write only dialogue. Every line must start with the speaker name followed by a colon, ")
	fmt.Fprintf(&system, "for example \"%s: ...\" or \"%s: ...\". ", primary, secondary)
	system.WriteString("Do not add narration, stage directions, headings or sound effects.")

	var user strings.Builder
	fmt.Fprintf(&user, "Create a podcast episode discussing the following %s.\n\n", sourceNoun(in.ContentType))
	user.WriteString("Structure:\n")
	fmt.Fprintf(&user, "1. Introduction: %s welcomes listeners and introduces the topic.\n", primary)
	fmt.Fprintf(&user, "2. Body: %s and %s take turns exploring the material.\n", primary, secondary)
	user.WriteString("3. Conclusion: the hosts summarize key takeaways and sign off.\n\n")
	fmt.Fprintf(&user, "Length: %s.\n", in.Profile.lengthConstraint())
	if len(in.FocusAreas) > 0 {
		fmt.Fprintf(&user, "Focus especially on: %s.\n", strings.Join(in.FocusAreas, ", "))
	}
	user.WriteString("\nSource material:\n---\n")
	user.WriteString(in.Content)
	user.WriteString("\n---\n")

	return []Message{
		{Role: RoleSystem, Content: system.String()},
		{Role: RoleUser, Content: user.String()},
	}
}

// TitleFor returns override when set, otherwise a title derived from the source type
func TitleFor(override string, contentType models.SourceType) string {
	if t := strings.TrimSpace(override); t != "" {
		return t
	}
	name := string(contentType)
	if name == "" {
		name = "source"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " deep dive"
}

func sourceNoun(t models.SourceType) string {
	switch t {
	case models.SourceTypeCode:
		return "code"
	case models.SourceTypeFile:
		return "file contents"
	case models.SourceTypeDiscussion:
		return "discussion"
	case models.SourceTypeProject:
		return "project description"
	default:
		return "material"
	}
}
