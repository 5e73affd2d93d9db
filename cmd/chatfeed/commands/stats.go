package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/kr/pretty"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/spf13/cobra"
)

// StatsCommand holds the configuration for the stats command
type StatsCommand struct {
	archiveFile string
	debug       bool
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	sc := &StatsCommand{}

	cmd := &cobra.Command{
		Use:   "stats <archive-dir>",
		Short: "Summarize an archive",
		Long:  "Print one row per session in <archive-dir>/output.json: date, video id, comment counts and channel.",
		Args:  cobra.ExactArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.archiveFile, "archive-file", defaultArchiveFile, "archive file name inside the directory")
	cmd.Flags().BoolVar(&sc.debug, "debug", false, "dump every decoded session")

	return cmd
}

func (sc *StatsCommand) run(cmd *cobra.Command, args []string) error {
	sessions, err := loadArchiveDir(args[0], sc.archiveFile)
	if err != nil {
		return err
	}

	sessions = render.SortSessions(sessions)
	out := cmd.OutOrStdout()

	if sc.debug {
		for _, s := range sessions {
			pretty.Fprintf(out, "%# v\n", s)
		}
	}

	fmt.Fprintln(out, statsTable(sessions))
	return nil
}

// statsTable renders the per-session summary
func statsTable(sessions []models.Session) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"Date", "Video", "Comments", "Paid", "Channel"})

	tracker := &render.MaxTracker{}
	var comments, paid int
	for _, s := range sessions {
		tracker.CompareSize(len(s.Comments), s.ID)
		comments += len(s.Comments)
		paid += s.PaidCount()

		tbl.AppendRow(table.Row{
			sessionDate(s),
			s.ID,
			humanize.Comma(int64(len(s.Comments))),
			humanize.Comma(int64(s.PaidCount())),
			channelName(s),
		})
	}

	footer := table.Row{fmt.Sprintf("Total: %d sessions", len(sessions)), "", humanize.Comma(int64(comments)), humanize.Comma(int64(paid)), ""}
	if count, id := tracker.Max(); id != "" {
		footer[4] = fmt.Sprintf("most: %s (%s)", id, humanize.Comma(int64(count)))
	}
	tbl.AppendFooter(footer)

	return tbl.Render()
}

func sessionDate(s models.Session) string {
	if s.Date.IsZero() {
		return s.RawDate
	}
	return s.Date.In(models.SessionLocation).Format("2006/01/02 15:04")
}

func channelName(s models.Session) string {
	if s.Channel == nil {
		return ""
	}
	if s.Channel.AuthorName != "" {
		return s.Channel.AuthorName
	}
	return s.Channel.Title
}
