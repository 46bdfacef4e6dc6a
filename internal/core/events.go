package core

import "github.com/dkeye/Poker/internal/domain"

type EventName string

const (
	EvRoomCreated     EventName = "room:created"
	EvRoomJoined      EventName = "room:joined"
	EvRoomState       EventName = "room:state"
	EvPlayerJoined    EventName = "player:joined"
	EvPlayerLeft      EventName = "player:left"
	EvPlayerKicked    EventName = "player:kicked"
	EvHostChanged     EventName = "host:changed"
	EvStoryCreated    EventName = "story:created"
	EvStorySelected   EventName = "story:selected"
	EvStoryUpdated    EventName = "story:updated"
	EvVotesRevealed   EventName = "votes:revealed"
	EvVotingRestarted EventName = "voting:restarted"
	EvStorySkipped    EventName = "story:skipped"
	EvBacklogSettings EventName = "backlog:settings-updated"
	EvChatMessage     EventName = "chat:message"
	EvTypingStart     EventName = "typing:start"
	EvTypingStop      EventName = "typing:stop"
)

type HostChangeReason string

const (
	HostDelegated    HostChangeReason = "delegated"
	HostLeft         HostChangeReason = "host_left"
	HostDisconnected HostChangeReason = "host_disconnected"
)

// Event is a committed state change addressed to a room.
type Event struct {
	Name    EventName
	Room    domain.RoomID
	Except  domain.ConnID
	Payload any
}

type HostChangedPayload struct {
	PreviousHostID domain.PlayerID  `json:"previousHostId"`
	NewHostID      domain.PlayerID  `json:"newHostId"`
	NewHostName    string           `json:"newHostNickname"`
	Reason         HostChangeReason `json:"reason"`
}

type PlayerLeftPayload struct {
	Player PlayerView `json:"player"`
	Kicked bool       `json:"kicked,omitempty"`
	Room   RoomView   `json:"room"`
}

type PlayerJoinedPayload struct {
	Player PlayerView `json:"player"`
	Room   RoomView   `json:"room"`
}

type StoryPayload struct {
	Story StoryView `json:"story"`
}

type StorySelectedPayload struct {
	StoryID domain.StoryID `json:"storyId"`
}

type TypingPayload struct {
	PlayerID domain.PlayerID `json:"playerId"`
	Nickname string          `json:"nickname,omitempty"`
}

type KickedPayload struct {
	RoomID domain.RoomID `json:"roomId"`
	By     string        `json:"by"`
}
