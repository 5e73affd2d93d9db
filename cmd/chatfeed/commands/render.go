package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/spf13/cobra"
)

// RenderCommand holds the configuration for the render command
type RenderCommand struct {
	out         string
	title       string
	archiveFile string
	chunkSize   int
}

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	rc := &RenderCommand{}

	cmd := &cobra.Command{
		Use:   "render <archive-dir>",
		Short: "Render an archive into a standalone HTML page",
		Long:  "Render every session in <archive-dir>/output.json into one HTML page, oldest first, with the busiest session summarized at the top.",
		Args:  cobra.ExactArgs(1),
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&rc.title, "title", "Live chat history", "page title")
	cmd.Flags().StringVar(&rc.archiveFile, "archive-file", defaultArchiveFile, "archive file name inside the directory")
	cmd.Flags().IntVar(&rc.chunkSize, "chunk-size", render.DefaultChunkSize, "fragments inserted per chunk")

	return cmd
}

func (rc *RenderCommand) run(cmd *cobra.Command, args []string) error {
	log := commandLogger(cmd)

	sessions, err := loadArchiveDir(args[0], rc.archiveFile)
	if err != nil {
		return err
	}

	// Nothing is watching a file render, so chunks run back to back
	sched, err := render.NewScheduler(rc.chunkSize, 0)
	if err != nil {
		return err
	}

	sink := render.NewBufferSink()
	result, err := render.NewPass(sched, sink, log).Run(cmd.Context(), sessions)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if rc.out != "" {
		f, err := os.Create(rc.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", rc.out, err)
		}
		defer f.Close()
		w = f
	}

	if err := render.WritePage(w, rc.title, sink.Fragments()); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	log.Info().
		Int("sessions", result.SessionCount).
		Str("comments", humanize.Comma(int64(result.CommentCount))).
		Str("out", rc.out).
		Msg("Page rendered")
	return nil
}
