package protocol

import (
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

func TestDecodeJoin(t *testing.T) {
	req, err := Decode([]byte(`{"type":"room:join","requestId":"7","payload":{"roomId":"abc234","nickname":"Bob","spectator":true}}`))
	require.NoError(t, err)
	assert.Equal(t, "7", req.ID)
	assert.Equal(t, JoinRoom{RoomID: "abc234", Nickname: "Bob", Spectator: true}, req.Intent)
}

func TestDecodeEmptyPayload(t *testing.T) {
	req, err := Decode([]byte(`{"type":"room:leave","requestId":"1"}`))
	require.NoError(t, err)
	assert.Equal(t, LeaveRoom{}, req.Intent)
}

func TestDecodeRejects(t *testing.T) {
	req, err := Decode([]byte(`{"type":"room:explode","requestId":"9"}`))
	assert.ErrorIs(t, err, ErrUnknownIntent)
	assert.Equal(t, "9", req.ID)

	_, err = Decode([]byte(`{"type":"vote:cast","payload":{"storyId":42}}`))
	assert.ErrorIs(t, err, ErrBadPayload)

	_, err = Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestEveryIntentDecodesToItsOwnType(t *testing.T) {
	for typ := range decoders {
		req, err := Decode([]byte(`{"type":"` + typ + `"}`))
		require.NoError(t, err, typ)
		assert.Equal(t, typ, req.Intent.Type())
	}
}

func TestEncodeDecodeIntent(t *testing.T) {
	data, err := Encode("r1", Vote{StoryID: "s1", Value: "13"})
	require.NoError(t, err)
	req, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "r1", req.ID)
	assert.Equal(t, Vote{StoryID: "s1", Value: "13"}, req.Intent)
}

func TestEncodeEvent(t *testing.T) {
	data, err := EncodeEvent(core.Event{
		Name:    core.EvStorySelected,
		Room:    "ROOM22",
		Except:  "hidden",
		Payload: core.StorySelectedPayload{StoryID: "s1"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"story:selected","roomId":"ROOM22","payload":{"storyId":"s1"}}`, string(data))
}

func TestResponseCarriesConflictSuggestions(t *testing.T) {
	resp := NewResponse("5", TypeJoinRoom, nil, &core.NicknameConflictError{Nickname: "Bob", Suggestions: []string{"Bob2", "Bob_"}})
	data, err := EncodeResponse(resp)
	require.NoError(t, err)

	f, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, TypeResponse, f.Type)
	assert.False(t, f.Success)
	require.NotNil(t, f.Error)
	assert.Equal(t, "nickname_conflict", f.Error.Code)

	back := f.Response().Err()
	assert.ErrorIs(t, back, core.ErrNicknameConflict)
	var conflict *core.NicknameConflictError
	require.True(t, errors.As(back, &conflict))
	assert.Equal(t, []string{"Bob2", "Bob_"}, conflict.Suggestions)
}

func TestResponseSuccessData(t *testing.T) {
	resp := NewResponse("6", TypeVote, map[string]domain.VoteValue{"value": "3"}, nil)
	data, err := EncodeResponse(resp)
	require.NoError(t, err)
	f, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.True(t, f.Success)
	assert.NoError(t, f.Response().Err())

	var out map[string]string
	require.NoError(t, json.Unmarshal(f.Data, &out))
	assert.Equal(t, "3", out["value"])
}

func TestResponseUnknownErrorIsInternal(t *testing.T) {
	resp := NewResponse("", TypeVote, nil, errors.New("disk on fire"))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "internal", resp.Error.Code)
}

func TestEncodePong(t *testing.T) {
	data, err := EncodePong("p1", time.UnixMilli(1700000000000))
	require.NoError(t, err)
	f, err := DecodeFrame(data)
	require.NoError(t, err)
	assert.Equal(t, TypePong, f.Type)
	assert.Equal(t, "p1", f.RequestID)
	assert.JSONEq(t, `{"serverTime":1700000000000}`, string(f.Payload))
}
