package models

import (
	"encoding/json"
	"strings"
)

// CommentKind distinguishes plain chat from paid super chats
type CommentKind string

const (
	CommentKindPlain CommentKind = "plain"
	CommentKindPaid  CommentKind = "paid"
)

// Wire values of the "type" field emitted by the bridge
const (
	wireTypeChat      = "chat"
	wireTypeSuperChat = "superChat"
)

// PaidAmountScale converts bridge micro-unit amounts into display units
const PaidAmountScale = 1_000_000

// Comment is a single chat entry within a session
type Comment struct {
	ID        string
	ChannelID string
	Timestamp string
	Kind      CommentKind
	Text      string
	Amount    string // raw micro-unit amount, paid comments only
	Currency  string
}

// commentWire mirrors the JSON layout produced by the bridge backend
type commentWire struct {
	ChatID    json.RawMessage `json:"chatID"`
	ChannelID json.RawMessage `json:"channelID"`
	TimeStamp json.RawMessage `json:"timeStamp"`
	Chat      json.RawMessage `json:"chat"`
	Type      json.RawMessage `json:"type"`
	SuperChat json.RawMessage `json:"superchat"`
}

// UnmarshalJSON decodes the bridge wire format. Fields that are missing or
// of an unexpected type decode to empty strings.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Comment{
		ID:        rawString(w.ChatID),
		ChannelID: rawString(w.ChannelID),
		Timestamp: rawString(w.TimeStamp),
		Kind:      CommentKindPlain,
	}

	// "chat" is a ["text", value] pair
	if chat := rawList(w.Chat); len(chat) > 1 {
		c.Text = rawString(chat[1])
	}

	if rawString(w.Type) == wireTypeSuperChat {
		c.Kind = CommentKindPaid
		superChat := rawList(w.SuperChat)
		if len(superChat) > 0 {
			c.Amount = rawString(superChat[0])
		}
		if len(superChat) > 1 {
			c.Currency = rawString(superChat[1])
		}
	}
	return nil
}

// MarshalJSON encodes the comment in the bridge wire format
func (c Comment) MarshalJSON() ([]byte, error) {
	out := struct {
		ChatID    string   `json:"chatID"`
		ChannelID string   `json:"channelID"`
		TimeStamp string   `json:"timeStamp"`
		Chat      []string `json:"chat"`
		Type      string   `json:"type"`
		SuperChat []string `json:"superchat"`
	}{
		ChatID:    c.ID,
		ChannelID: c.ChannelID,
		TimeStamp: c.Timestamp,
		Chat:      []string{"text", c.Text},
		Type:      wireTypeChat,
		SuperChat: []string{},
	}
	if c.Kind == CommentKindPaid {
		out.Type = wireTypeSuperChat
		out.SuperChat = []string{c.Amount, c.Currency}
	}
	return json.Marshal(out)
}

// rawString returns a JSON string's value, or the literal text of any other
// scalar (numbers arrive unquoted from some bridge versions). Objects and
// arrays yield an empty string.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" || strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return ""
	}
	return text
}

// rawList returns the elements of a JSON array, or nil for anything else
func rawList(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}
