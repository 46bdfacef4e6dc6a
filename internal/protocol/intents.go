// Package protocol is the wire contract between clients and the room
// coordinator: a closed set of inbound intents and the outbound envelopes.
package protocol

import "github.com/dkeye/Poker/internal/domain"

const (
	TypeCreateRoom      = "room:create"
	TypeJoinRoom        = "room:join"
	TypeLeaveRoom       = "room:leave"
	TypeSyncRoom        = "room:sync"
	TypeCreateStory     = "story:create"
	TypeSelectStory     = "story:select"
	TypeUpdateStory     = "story:update"
	TypeVote            = "vote:cast"
	TypeRevealVotes     = "votes:reveal"
	TypeRestartVoting   = "voting:restart"
	TypeSetFinalPoint   = "story:final-point"
	TypeSkipStory       = "story:skip"
	TypeTransferHost    = "host:transfer"
	TypeDelegateHost    = "host:delegate"
	TypeKickPlayer      = "player:kick"
	TypeBacklogSettings = "backlog:settings"
	TypeSendChat        = "chat:send"
	TypeChatHistory     = "chat:history"
	TypeStartTyping     = "typing:start"
	TypeStopTyping      = "typing:stop"
	TypePing            = "ping"
)

// Intent is implemented only by the types in this file.
type Intent interface {
	Type() string
	intent()
}

type CreateRoom struct {
	Nickname string `json:"nickname"`
	RoomName string `json:"roomName,omitempty"`
}

type JoinRoom struct {
	RoomID    string `json:"roomId"`
	Nickname  string `json:"nickname"`
	Spectator bool   `json:"spectator,omitempty"`
}

type LeaveRoom struct{}

type SyncRoom struct{}

type CreateStory struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	External    *domain.ExternalRef `json:"external,omitempty"`
}

type SelectStory struct {
	StoryID domain.StoryID `json:"storyId"`
}

type UpdateStory struct {
	StoryID     domain.StoryID `json:"storyId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
}

type Vote struct {
	StoryID domain.StoryID   `json:"storyId"`
	Value   domain.VoteValue `json:"value"`
}

type RevealVotes struct {
	StoryID domain.StoryID `json:"storyId"`
}

type RestartVoting struct {
	StoryID domain.StoryID `json:"storyId"`
}

type SetFinalPoint struct {
	StoryID domain.StoryID   `json:"storyId"`
	Value   domain.VoteValue `json:"value"`
}

type SkipStory struct {
	StoryID domain.StoryID `json:"storyId"`
}

type TransferHost struct {
	TargetNickname string `json:"targetNickname"`
}

type DelegateHost struct {
	TargetID domain.PlayerID `json:"targetId"`
}

type KickPlayer struct {
	TargetID domain.PlayerID `json:"targetId"`
}

type UpdateBacklogSettings struct {
	Settings domain.BacklogSettings `json:"settings"`
}

type SendChatMessage struct {
	Text string `json:"text"`
}

type RequestChatHistory struct{}

type StartTyping struct{}

type StopTyping struct{}

type Ping struct{}

func (CreateRoom) Type() string            { return TypeCreateRoom }
func (JoinRoom) Type() string              { return TypeJoinRoom }
func (LeaveRoom) Type() string             { return TypeLeaveRoom }
func (SyncRoom) Type() string              { return TypeSyncRoom }
func (CreateStory) Type() string           { return TypeCreateStory }
func (SelectStory) Type() string           { return TypeSelectStory }
func (UpdateStory) Type() string           { return TypeUpdateStory }
func (Vote) Type() string                  { return TypeVote }
func (RevealVotes) Type() string           { return TypeRevealVotes }
func (RestartVoting) Type() string         { return TypeRestartVoting }
func (SetFinalPoint) Type() string         { return TypeSetFinalPoint }
func (SkipStory) Type() string             { return TypeSkipStory }
func (TransferHost) Type() string          { return TypeTransferHost }
func (DelegateHost) Type() string          { return TypeDelegateHost }
func (KickPlayer) Type() string            { return TypeKickPlayer }
func (UpdateBacklogSettings) Type() string { return TypeBacklogSettings }
func (SendChatMessage) Type() string       { return TypeSendChat }
func (RequestChatHistory) Type() string    { return TypeChatHistory }
func (StartTyping) Type() string           { return TypeStartTyping }
func (StopTyping) Type() string            { return TypeStopTyping }
func (Ping) Type() string                  { return TypePing }

func (CreateRoom) intent()            {}
func (JoinRoom) intent()              {}
func (LeaveRoom) intent()             {}
func (SyncRoom) intent()              {}
func (CreateStory) intent()           {}
func (SelectStory) intent()           {}
func (UpdateStory) intent()           {}
func (Vote) intent()                  {}
func (RevealVotes) intent()           {}
func (RestartVoting) intent()         {}
func (SetFinalPoint) intent()         {}
func (SkipStory) intent()             {}
func (TransferHost) intent()          {}
func (DelegateHost) intent()          {}
func (KickPlayer) intent()            {}
func (UpdateBacklogSettings) intent() {}
func (SendChatMessage) intent()       {}
func (RequestChatHistory) intent()    {}
func (StartTyping) intent()           {}
func (StopTyping) intent()            {}
func (Ping) intent()                  {}

var decoders = map[string]func() Intent{
	TypeCreateRoom:      func() Intent { return &CreateRoom{} },
	TypeJoinRoom:        func() Intent { return &JoinRoom{} },
	TypeLeaveRoom:       func() Intent { return &LeaveRoom{} },
	TypeSyncRoom:        func() Intent { return &SyncRoom{} },
	TypeCreateStory:     func() Intent { return &CreateStory{} },
	TypeSelectStory:     func() Intent { return &SelectStory{} },
	TypeUpdateStory:     func() Intent { return &UpdateStory{} },
	TypeVote:            func() Intent { return &Vote{} },
	TypeRevealVotes:     func() Intent { return &RevealVotes{} },
	TypeRestartVoting:   func() Intent { return &RestartVoting{} },
	TypeSetFinalPoint:   func() Intent { return &SetFinalPoint{} },
	TypeSkipStory:       func() Intent { return &SkipStory{} },
	TypeTransferHost:    func() Intent { return &TransferHost{} },
	TypeDelegateHost:    func() Intent { return &DelegateHost{} },
	TypeKickPlayer:      func() Intent { return &KickPlayer{} },
	TypeBacklogSettings: func() Intent { return &UpdateBacklogSettings{} },
	TypeSendChat:        func() Intent { return &SendChatMessage{} },
	TypeChatHistory:     func() Intent { return &RequestChatHistory{} },
	TypeStartTyping:     func() Intent { return &StartTyping{} },
	TypeStopTyping:      func() Intent { return &StopTyping{} },
	TypePing:            func() Intent { return &Ping{} },
}
