package models

import (
	"encoding/json"
	"strings"
	"time"
)

// SessionDateLayout is the JST timestamp layout the bridge backend emits
const SessionDateLayout = "2006/01/02 15:04:05.000"

// SessionLocation is the zone of slash-layout bridge dates
var SessionLocation = loadSessionLocation()

func loadSessionLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		// no tzdata on the host
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Session represents one live stream and the chat comments posted during it
type Session struct {
	ID       string           `json:"dougaID"`
	Date     time.Time        `json:"-"`
	RawDate  string           `json:"date"`
	Comments []Comment        `json:"chat"`
	Channel  *ChannelMetadata `json:"channelData"`
}

// ChannelMetadata holds the oEmbed data the bridge attaches to a session
type ChannelMetadata struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// ChannelLink returns an absolute link for AuthorURL. The bridge shortens
// youtube.com/@handle URLs to the bare handle.
func (c *ChannelMetadata) ChannelLink() string {
	if strings.HasPrefix(c.AuthorURL, "@") {
		return "https://www.youtube.com/" + c.AuthorURL
	}
	return c.AuthorURL
}

// sessionWire mirrors the JSON layout produced by the bridge backend
type sessionWire struct {
	ID       json.RawMessage `json:"dougaID"`
	Date     json.RawMessage `json:"date"`
	Comments json.RawMessage `json:"chat"`
	Channel  json.RawMessage `json:"channelData"`
}

// UnmarshalJSON decodes a session record and parses its date.
// Missing or malformed fields decode to zero values; only input that is
// not a JSON object is rejected.
func (s *Session) UnmarshalJSON(data []byte) error {
	var w sessionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*s = Session{
		ID:      rawString(w.ID),
		RawDate: rawString(w.Date),
	}
	s.Date = ParseSessionDate(s.RawDate)

	for _, item := range rawList(w.Comments) {
		if string(item) == "null" {
			continue
		}
		var c Comment
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		s.Comments = append(s.Comments, c)
	}

	if len(w.Channel) > 0 {
		var channel ChannelMetadata
		if err := json.Unmarshal(w.Channel, &channel); err == nil && string(w.Channel) != "null" {
			s.Channel = &channel
		}
	}
	return nil
}

// MarshalJSON encodes the session in the bridge wire format
func (s Session) MarshalJSON() ([]byte, error) {
	type plain Session
	raw := plain(s)
	if raw.RawDate == "" && !s.Date.IsZero() {
		raw.RawDate = s.Date.In(SessionLocation).Format(SessionDateLayout)
	}
	if raw.Comments == nil {
		raw.Comments = []Comment{}
	}
	return json.Marshal(raw)
}

// ParseSessionDate parses a bridge date. Slash layouts are JST wall time,
// RFC 3339 carries its own offset. Unparseable input yields the zero time.
func ParseSessionDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation(SessionDateLayout, value, SessionLocation); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006/01/02 15:04:05", value, SessionLocation); err == nil {
		return t
	}
	return time.Time{}
}

// PaidCount returns the number of paid comments in the session
func (s *Session) PaidCount() int {
	n := 0
	for _, c := range s.Comments {
		if c.Kind == CommentKindPaid {
			n++
		}
	}
	return n
}
