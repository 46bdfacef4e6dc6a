package orch

import (
	"strings"
	"unicode/utf8"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// SendChatMessage appends to the room's chat and broadcasts it to everyone,
// sender included. Posting also ends the sender's typing indicator.
func (o *Orchestrator) SendChatMessage(conn domain.ConnID, text string) (domain.ChatMessage, error) {
	t := strings.TrimSpace(text)
	if t == "" || utf8.RuneCountInString(t) > domain.MaxChatMessageLen {
		return domain.ChatMessage{}, core.ErrInvalidMessage
	}
	var msg domain.ChatMessage
	err := o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		msg = domain.NewChatMessage(r.ID, me, t, o.now())
		r.ChatMessages = append(r.ChatMessages, msg)
		if _, ok := r.Typing[me.ID]; ok {
			delete(r.Typing, me.ID)
			o.publish(core.Event{Name: core.EvTypingStop, Room: r.ID, Except: conn, Payload: core.TypingPayload{PlayerID: me.ID}})
		}
		o.publish(core.Event{Name: core.EvChatMessage, Room: r.ID, Payload: msg})
		o.Archive.ChatPosted(msg)
		return nil
	})
	return msg, err
}

func (o *Orchestrator) ChatHistory(conn domain.ConnID) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	err := o.withPlayer(conn, func(r *domain.Room, _ *domain.Player) error {
		out = append(make([]domain.ChatMessage, 0, len(r.ChatMessages)), r.ChatMessages...)
		return nil
	})
	return out, err
}

// StartTyping overwrites any earlier indicator of the same player.
func (o *Orchestrator) StartTyping(conn domain.ConnID) error {
	return o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		r.Typing[me.ID] = domain.TypingIndicator{PlayerID: me.ID, Nickname: me.Nickname, StartedAt: o.now()}
		o.publish(core.Event{Name: core.EvTypingStart, Room: r.ID, Except: conn, Payload: core.TypingPayload{PlayerID: me.ID, Nickname: me.Nickname}})
		return nil
	})
}

func (o *Orchestrator) StopTyping(conn domain.ConnID) error {
	return o.withPlayer(conn, func(r *domain.Room, me *domain.Player) error {
		if _, ok := r.Typing[me.ID]; !ok {
			return nil
		}
		delete(r.Typing, me.ID)
		o.publish(core.Event{Name: core.EvTypingStop, Room: r.ID, Except: conn, Payload: core.TypingPayload{PlayerID: me.ID}})
		return nil
	})
}
