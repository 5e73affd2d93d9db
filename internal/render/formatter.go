package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/livechat-history-viewer/internal/models"
)

const sessionTemplate = `<div class="content" data-session="{{.ID}}">
<a href="https://youtu.be/{{.ID}}"><img src="https://img.youtube.com/vi/{{.ID}}/mqdefault.jpg" class="thumbnail"></a>
{{- with .Channel}}
<div class="channelData">
<span class="title">{{.Title}}</span>
<a class="author" href="{{.ChannelLink}}">{{.AuthorName}}</a>
</div>
{{- end}}
<div class="commentsData">
{{- range .Comments}}
<div class="comment"><span class="timeStamp">{{.Timestamp}}</span>
{{- if .Paid}}<span class="chat"><span class="superChat">{{.Amount}}</span><span class="currency">{{.Currency}}</span></span>
{{- else}}<span class="chat">{{.Text}}</span>
{{- end}}</div>
{{- end}}
</div>
</div>
`

// Formatter renders a session into a markup fragment
type Formatter struct {
	tmpl *template.Template
}

type sessionView struct {
	ID       string
	Channel  *models.ChannelMetadata
	Comments []commentView
}

type commentView struct {
	Timestamp string
	Paid      bool
	Text      string
	Amount    string
	Currency  string
}

// NewFormatter parses the session template
func NewFormatter() *Formatter {
	return &Formatter{
		tmpl: template.Must(template.New("session").Parse(sessionTemplate)),
	}
}

// Format renders one session. Comments are emitted most recent first, which
// is the reverse of the order the bridge delivers them in.
func (f *Formatter) Format(session models.Session) (string, error) {
	view := sessionView{
		ID:       session.ID,
		Channel:  session.Channel,
		Comments: make([]commentView, 0, len(session.Comments)),
	}
	for i := len(session.Comments) - 1; i >= 0; i-- {
		c := session.Comments[i]
		cv := commentView{Timestamp: c.Timestamp}
		switch c.Kind {
		case models.CommentKindPaid:
			cv.Paid = true
			cv.Amount = FormatPaidAmount(c.Amount)
			cv.Currency = c.Currency
		default:
			cv.Text = c.Text
		}
		view.Comments = append(view.Comments, cv)
	}

	var sb strings.Builder
	if err := f.tmpl.Execute(&sb, view); err != nil {
		return sb.String(), err
	}
	return sb.String(), nil
}

// FormatPaidAmount converts a micro-unit amount into display units using the
// shortest decimal form ("2000000" -> "2", "1500000" -> "1.5"). Input that is
// not a number is returned unchanged.
func FormatPaidAmount(raw string) string {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(value/models.PaidAmountScale, 'f', -1, 64)
}
