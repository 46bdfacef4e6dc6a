package signal

import (
	"fmt"

	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/protocol"
)

var ErrRateLimited = &core.Error{Kind: core.KindValidation, Code: "rate_limited", Message: "too many messages, slow down"}

// dispatch routes one decoded intent to the orchestrator. The returned value
// becomes the data of the success response.
func (ctl *SignalWSController) dispatch(conn domain.ConnID, in protocol.Intent) (any, error) {
	o := ctl.Orch
	switch m := in.(type) {
	case protocol.CreateRoom:
		return o.CreateRoom(conn, m.Nickname, m.RoomName)
	case protocol.JoinRoom:
		return o.JoinRoom(conn, m.RoomID, m.Nickname, m.Spectator)
	case protocol.LeaveRoom:
		return nil, o.LeaveRoom(conn)
	case protocol.SyncRoom:
		return o.SyncRoom(conn)
	case protocol.CreateStory:
		return o.CreateStory(conn, orch.StoryInput{Title: m.Title, Description: m.Description, External: m.External})
	case protocol.SelectStory:
		return nil, o.SelectStory(conn, m.StoryID)
	case protocol.UpdateStory:
		return o.UpdateStory(conn, m.StoryID, m.Title, m.Description)
	case protocol.Vote:
		return nil, o.Vote(conn, m.StoryID, m.Value)
	case protocol.RevealVotes:
		return o.RevealVotes(conn, m.StoryID)
	case protocol.RestartVoting:
		return o.RestartVoting(conn, m.StoryID)
	case protocol.SetFinalPoint:
		return o.SetFinalPoint(conn, m.StoryID, m.Value)
	case protocol.SkipStory:
		return o.SkipStory(conn, m.StoryID)
	case protocol.TransferHost:
		return nil, o.TransferHost(conn, m.TargetNickname)
	case protocol.DelegateHost:
		return nil, o.DelegateHost(conn, m.TargetID)
	case protocol.KickPlayer:
		return nil, o.KickPlayer(conn, m.TargetID)
	case protocol.UpdateBacklogSettings:
		return nil, o.UpdateBacklogSettings(conn, m.Settings)
	case protocol.SendChatMessage:
		if !ctl.chat.Allow(conn) {
			return nil, ErrRateLimited
		}
		return o.SendChatMessage(conn, m.Text)
	case protocol.RequestChatHistory:
		return o.ChatHistory(conn)
	case protocol.StartTyping:
		return nil, o.StartTyping(conn)
	case protocol.StopTyping:
		return nil, o.StopTyping(conn)
	case protocol.Ping:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", protocol.ErrUnknownIntent, in.Type())
}
