package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/database"
	"github.com/musicjoeyoung/MCP-ElevenLabs/internal/services/episodes"
	"github.com/musicjoeyoung/MCP-ElevenLabs/pkg/config"
)

func newEpisodesCmd() *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "Inspect generated episodes",
		Long: `Browse the episode catalog without running the server.

Available subcommands:
  list    - List episodes, newest first
  show    - Show one episode and its generation requests
  script  - Print an episode's script
  audio   - Write an episode's audio to a file`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes, newest first",
		Args:  cobra.NoArgs,
		RunE:  runEpisodesList,
	}
	listCmd.Flags().Int("limit", episodes.DefaultLimit, "page size (1-100)")
	listCmd.Flags().Int("offset", 0, "number of episodes to skip")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one episode and its generation requests",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodesShow,
	}

	scriptCmd := &cobra.Command{
		Use:   "script <id>",
		Short: "Print an episode's script",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodesScript,
	}

	audioCmd := &cobra.Command{
		Use:   "audio <id>",
		Short: "Write an episode's audio to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodesAudio,
	}
	audioCmd.Flags().StringP("out", "o", "", "output path (default <id> with the stored extension)")

	episodesCmd.AddCommand(listCmd, showCmd, scriptCmd, audioCmd)
	return episodesCmd
}

// openCatalog wires the read side only, so no provider keys are needed
func openCatalog() (*episodes.Service, func(), error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, nil, err
	}

	blobs, err := newBlobStore(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize audio storage: %w", err)
	}

	db, err := database.InitializeWithMigrations(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	svc := episodes.NewService(episodes.NewRepository(db.DB), blobs)
	return svc, func() { db.Close() }, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runEpisodesList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	svc, closeFn, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeFn()

	page, err := svc.List(commandContext(cmd), episodes.ListParams{Limit: &limit, Offset: &offset})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(page.Episodes) == 0 {
		fmt.Fprintf(out, "No episodes (total %d)\n", page.Total)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tDURATION\tTITLE")
	for _, e := range page.Episodes {
		duration := "-"
		if e.DurationSeconds != nil {
			duration = fmt.Sprintf("%ds", *e.DurationSeconds)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Status, e.CreatedAt.Format("2006-01-02 15:04"), duration, e.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Showing %d-%d of %d\n", page.Offset+1, page.Offset+len(page.Episodes), page.Total)
	return nil
}

func runEpisodesShow(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := commandContext(cmd)
	summary, err := svc.GetStatus(ctx, args[0])
	if err != nil {
		return err
	}
	requests, err := svc.Requests(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:        %s\n", summary.ID)
	fmt.Fprintf(out, "Title:     %s\n", summary.Title)
	if summary.Description != nil {
		fmt.Fprintf(out, "About:     %s\n", *summary.Description)
	}
	fmt.Fprintf(out, "Status:    %s\n", summary.Status)
	if summary.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:     %s\n", summary.ErrorMessage)
	}
	if summary.AudioRef != nil {
		fmt.Fprintf(out, "Audio:     %s\n", *summary.AudioRef)
	}
	if summary.DurationSeconds != nil {
		fmt.Fprintf(out, "Duration:  %ds\n", *summary.DurationSeconds)
	}
	fmt.Fprintf(out, "Created:   %s\n", summary.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Updated:   %s\n", summary.UpdatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(out, "\nRequests (%d)\n", len(requests))
	fmt.Fprintln(out, repeatString("-", 40))
	for _, r := range requests {
		metadata := r.SourceMetadata.Data()
		fmt.Fprintf(out, "%s  %s  %d chars  metadata: %s\n",
			r.ID, r.SourceType, len(r.SourceContent), strings.Join(metadata.Keys(), ", "))
	}
	return nil
}

func runEpisodesScript(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeFn()

	text, err := svc.GetScript(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runEpisodesAudio(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("out")

	svc, closeFn, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeFn()

	audio, err := svc.FetchAudio(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if path == "" {
		path = args[0] + filepath.Ext(audio.Key)
	}
	if err := os.WriteFile(path, audio.Data, 0644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes (%s) to %s\n", len(audio.Data), audio.ContentType, path)
	return nil
}
