package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/models"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/generation"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an episode from a file or stdin",
		Long: `Generate a two-voice episode without running the server.

Source material is read from --file, or from stdin when no file is given.
The command blocks until the episode is terminal and exits non-zero when
generation failed.

Example:
  podgen generate --file main.go --type code
  git log -20 | podgen generate --type discussion --focus "release notes"
  podgen generate --file README.md --type project --profile highlight --json`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	generateCmd.Flags().StringP("file", "f", "", "read source material from this file (default stdin)")
	generateCmd.Flags().StringP("type", "t", string(models.SourceTypeFile), "content type (code, file, discussion, project)")
	generateCmd.Flags().String("title", "", "episode title")
	generateCmd.Flags().String("description", "", "episode description")
	generateCmd.Flags().StringSlice("focus", nil, "focus areas for the hosts")
	generateCmd.Flags().String("profile", "", "generation profile (highlight, conversation)")
	generateCmd.Flags().StringToString("meta", nil, "extra source metadata as key=value")
	generateCmd.Flags().Bool("json", false, "print the result as JSON")
	return generateCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := generateRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	result, err := app.generation.Submit(ctx, req)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printResult(cmd.OutOrStdout(), result)
	}

	if result.Status == models.EpisodeStatusFailed {
		return fmt.Errorf("episode %s failed: %s", result.EpisodeID, result.Message)
	}
	return nil
}

func generateRequestFromFlags(cmd *cobra.Command) (generation.SubmitRequest, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	contentType, _ := flags.GetString("type")
	title, _ := flags.GetString("title")
	description, _ := flags.GetString("description")
	focus, _ := flags.GetStringSlice("focus")
	profile, _ := flags.GetString("profile")
	meta, _ := flags.GetStringToString("meta")

	var content []byte
	var err error
	if path != "" {
		content, err = os.ReadFile(path)
	} else {
		content, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return generation.SubmitRequest{}, fmt.Errorf("failed to read source material: %w", err)
	}

	metadata := models.SourceMetadata{}
	for key, value := range meta {
		metadata[key] = models.StringValue(value)
	}
	if path != "" {
		if _, ok := metadata["filename"]; !ok {
			metadata["filename"] = models.StringValue(filepath.Base(path))
		}
	}

	return generation.SubmitRequest{
		Content:     string(content),
		ContentType: contentType,
		Title:       title,
		Description: description,
		FocusAreas:  focus,
		Profile:     profile,
		Metadata:    metadata,
	}, nil
}

func printResult(out io.Writer, result *generation.SubmitResult) {
	fmt.Fprintf(out, "Episode:   %s\n", result.EpisodeID)
	fmt.Fprintf(out, "Title:     %s\n", result.Title)
	fmt.Fprintf(out, "Status:    %s\n", result.Status)
	fmt.Fprintf(out, "Message:   %s\n", result.Message)
	if result.AudioRef != nil {
		fmt.Fprintf(out, "Audio:     %s\n", *result.AudioRef)
	}
	if result.DurationSeconds != nil {
		fmt.Fprintf(out, "Duration:  %ds\n", *result.DurationSeconds)
	}
	if result.LowQuality {
		fmt.Fprintln(out, "Warning:   script came back shorter than expected")
	}
	fmt.Fprintln(out, repeatString("-", 40))
}
