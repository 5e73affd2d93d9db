package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhat/scrape"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const testArchive = `[
  {"date":"2024/02/10 21:00:00.000","dougaID":"bbbbbbbbbbb","chat":[
    {"chatID":"c1","channelID":"u1","timeStamp":"0:10","type":"chat","chat":["text","second stream"]},
    {"chatID":"c2","channelID":"u2","timeStamp":"0:20","type":"chat","chat":["text","more"]},
    {"chatID":"c3","channelID":"u3","timeStamp":"0:30","type":"superChat","superchat":["1500000","USD"]}
  ],"channelData":{"title":"Late show","author_name":"Host","author_url":"@host"}},
  {"date":"2024/02/01 20:00:00.000","dougaID":"aaaaaaaaaaa","chat":[
    {"chatID":"c4","channelID":"u1","timeStamp":"0:01","type":"chat","chat":["text","first stream"]}
  ]}
]`

func writeArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, defaultArchiveFile), []byte(testArchive), 0o644))
	return dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCommand_WritesPage(t *testing.T) {
	dir := writeArchive(t)

	out, err := execute(t, NewRenderCommand(), dir, "--title", "Archive")
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)

	title, ok := scrape.Find(doc, scrape.ByTag(atom.Title))
	require.True(t, ok)
	assert.Equal(t, "Archive", scrape.Text(title))

	contents, ok := scrape.Find(doc, scrape.ById("contents"))
	require.True(t, ok)

	sessions := scrape.FindAll(contents, scrape.ByClass("content"))
	require.Len(t, sessions, 2)
	assert.Equal(t, "aaaaaaaaaaa", scrape.Attr(sessions[0], "data-session"), "oldest session first")
	assert.Equal(t, "bbbbbbbbbbb", scrape.Attr(sessions[1], "data-session"))

	summary, ok := scrape.Find(contents, scrape.ByClass("summary"))
	require.True(t, ok)
	assert.Contains(t, scrape.Text(summary), "bbbbbbbbbbb")
}

func TestRenderCommand_OutFile(t *testing.T) {
	dir := writeArchive(t)
	target := filepath.Join(t.TempDir(), "page.html")

	out, err := execute(t, NewRenderCommand(), dir, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second stream")
	assert.Contains(t, string(data), `<span class="superChat">1.5</span>`)
}

func TestRenderCommand_MissingArchive(t *testing.T) {
	_, err := execute(t, NewRenderCommand(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.json")
}

func TestRenderCommand_InvalidChunkSize(t *testing.T) {
	_, err := execute(t, NewRenderCommand(), writeArchive(t), "--chunk-size", "0")
	assert.Error(t, err)
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, NewStatsCommand(), writeArchive(t))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	var first, second int
	for i, line := range lines {
		switch {
		case strings.Contains(line, "aaaaaaaaaaa") && first == 0:
			first = i
		case strings.Contains(line, "bbbbbbbbbbb") && second == 0:
			second = i
		}
	}
	require.NotZero(t, first)
	require.NotZero(t, second)
	assert.Less(t, first, second, "rows are ordered by date")

	assert.Contains(t, lines[second], "Host")
	assert.Contains(t, out, "Total: 2 sessions")
	assert.Contains(t, out, "most: bbbbbbbbbbb (3)")
}

func TestStatsCommand_Debug(t *testing.T) {
	out, err := execute(t, NewStatsCommand(), writeArchive(t), "--debug")
	require.NoError(t, err)
	assert.Contains(t, out, "models.Session{")
	assert.Contains(t, out, `"first stream"`)
}

func TestServeConfig_LogLevelFlag(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	newRoot := func() (*cobra.Command, *cobra.Command) {
		root := &cobra.Command{Use: "chatfeed"}
		root.PersistentFlags().String("log-level", "warn", "")
		serve := &cobra.Command{Use: "serve", RunE: func(*cobra.Command, []string) error { return nil }}
		root.AddCommand(serve)
		return root, serve
	}

	root, serve := newRoot()
	root.SetArgs([]string{"serve", "--log-level", "debug"})
	require.NoError(t, root.Execute())
	cfg, err := serveConfig(serve, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	root, serve = newRoot()
	root.SetArgs([]string{"serve"})
	require.NoError(t, root.Execute())
	cfg, err = serveConfig(serve, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level, "LOG_LEVEL applies when the flag is not set")
}
