package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/livechat-history-viewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bridgePayload = `[
  {
    "date": "2024/03/01 21:15:42.120",
    "dougaID": "abcdefghijk",
    "chat": [
      {"chatID": "c1", "channelID": "UC1", "timeStamp": "2024/03/01 21:15:42.120", "chat": ["text", "hello"], "type": "chat", "superchat": []},
      {"chatID": "c2", "channelID": "UC1", "timeStamp": "2024/03/01 21:20:00.000", "chat": ["text", ""], "type": "superChat", "superchat": ["2000000", "JPY"]}
    ],
    "channelData": {"title": "Night stream", "author_name": "Someone", "author_url": "@someone"}
  },
  {
    "date": "not a date",
    "dougaID": "zzzzzzzzzzz",
    "chat": [{"type": "superChat", "superchat": [500000]}],
    "channelData": null
  }
]`

func TestSessionDecode_BridgePayload(t *testing.T) {
	var sessions []models.Session
	require.NoError(t, json.Unmarshal([]byte(bridgePayload), &sessions))
	require.Len(t, sessions, 2)

	first := sessions[0]
	assert.Equal(t, "abcdefghijk", first.ID)
	assert.True(t, time.Date(2024, 3, 1, 12, 15, 42, 120_000_000, time.UTC).Equal(first.Date), "slash dates are JST")
	require.Len(t, first.Comments, 2)
	assert.Equal(t, models.CommentKindPlain, first.Comments[0].Kind)
	assert.Equal(t, "hello", first.Comments[0].Text)
	assert.Equal(t, models.CommentKindPaid, first.Comments[1].Kind)
	assert.Equal(t, "2000000", first.Comments[1].Amount)
	assert.Equal(t, "JPY", first.Comments[1].Currency)
	require.NotNil(t, first.Channel)
	assert.Equal(t, "https://www.youtube.com/@someone", first.Channel.ChannelLink())
	assert.Equal(t, 1, first.PaidCount())

	second := sessions[1]
	assert.True(t, second.Date.IsZero(), "unparseable dates decode to the zero time")
	assert.Equal(t, "not a date", second.RawDate)
	assert.Nil(t, second.Channel)
	require.Len(t, second.Comments, 1)
	assert.Equal(t, "500000", second.Comments[0].Amount, "numeric amounts keep their literal text")
	assert.Empty(t, second.Comments[0].Currency)
}

func TestSessionEncode_WireFormat(t *testing.T) {
	session := models.Session{
		ID:   "abcdefghijk",
		Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Comments: []models.Comment{
			{ID: "c1", Kind: models.CommentKindPaid, Amount: "1500000", Currency: "USD"},
		},
	}

	data, err := json.Marshal(session)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024/03/01 21:00:00.000", raw["date"])
	assert.Equal(t, "abcdefghijk", raw["dougaID"])

	chat := raw["chat"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "superChat", chat["type"])
	assert.Equal(t, []interface{}{"1500000", "USD"}, chat["superchat"])
}

func TestParseSessionDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024/01/02 03:04:05.006", time.Date(2024, 1, 1, 18, 4, 5, 6_000_000, time.UTC)},
		{"2024/01/02 03:04:05", time.Date(2024, 1, 1, 18, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T12:04:05+09:00", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(models.ParseSessionDate(tt.in)))
		})
	}
}

func TestSessionDecode_WronglyTypedScalars(t *testing.T) {
	payload := `[
	  {"date":"2024/03/01 21:00:00.000","dougaID":"abcdefghijk","chat":[{"chatID":"c1","type":"chat","chat":["text","fine"]}]},
	  {"date":20240302,"dougaID":12345,"chat":[
	    {"chatID":7,"channelID":false,"timeStamp":90,"type":"chat","chat":["text","still here"]},
	    {"chatID":{"nested":true},"type":["superChat"],"chat":"not a pair"},
	    "not a comment",
	    null
	  ],"channelData":{"title":3}}
	]`

	var sessions []models.Session
	require.NoError(t, json.Unmarshal([]byte(payload), &sessions))
	require.Len(t, sessions, 2)

	second := sessions[1]
	assert.Equal(t, "12345", second.ID)
	assert.Equal(t, "20240302", second.RawDate)
	assert.True(t, second.Date.IsZero())
	assert.Nil(t, second.Channel)
	require.Len(t, second.Comments, 2)

	assert.Equal(t, "7", second.Comments[0].ID)
	assert.Equal(t, "false", second.Comments[0].ChannelID)
	assert.Equal(t, "90", second.Comments[0].Timestamp)
	assert.Equal(t, "still here", second.Comments[0].Text)

	assert.Empty(t, second.Comments[1].ID)
	assert.Equal(t, models.CommentKindPlain, second.Comments[1].Kind)
	assert.Empty(t, second.Comments[1].Text)
}

func TestSessionDecode_NotAnObject(t *testing.T) {
	var sessions []models.Session
	assert.Error(t, json.Unmarshal([]byte(`[42]`), &sessions))
}
