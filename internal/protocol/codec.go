package protocol

import (
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dkeye/Poker/internal/core"
)

var (
	ErrBadPayload    = errors.New("bad_payload")
	ErrUnknownIntent = errors.New("unknown_intent")
)

const (
	TypeResponse = "response"
	TypePong     = "pong"
)

// Inbound is the envelope of every client message.
type Inbound struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Request is a decoded inbound message.
type Request struct {
	ID     string
	Intent Intent
}

// Decode parses one client frame. The envelope's request id is returned
// even when the payload is rejected so the error can be correlated.
func Decode(data []byte) (Request, error) {
	var env Inbound
	if err := json.Unmarshal(data, &env); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	req := Request{ID: env.RequestID}
	mk, ok := decoders[env.Type]
	if !ok {
		return req, fmt.Errorf("%w: %q", ErrUnknownIntent, env.Type)
	}
	in := mk()
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, in); err != nil {
			return req, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	req.Intent = deref(in)
	return req, nil
}

// deref hands out intents by value so handlers can switch on plain types.
func deref(in Intent) Intent {
	switch v := in.(type) {
	case *CreateRoom:
		return *v
	case *JoinRoom:
		return *v
	case *LeaveRoom:
		return *v
	case *SyncRoom:
		return *v
	case *CreateStory:
		return *v
	case *SelectStory:
		return *v
	case *UpdateStory:
		return *v
	case *Vote:
		return *v
	case *RevealVotes:
		return *v
	case *RestartVoting:
		return *v
	case *SetFinalPoint:
		return *v
	case *SkipStory:
		return *v
	case *TransferHost:
		return *v
	case *DelegateHost:
		return *v
	case *KickPlayer:
		return *v
	case *UpdateBacklogSettings:
		return *v
	case *SendChatMessage:
		return *v
	case *RequestChatHistory:
		return *v
	case *StartTyping:
		return *v
	case *StopTyping:
		return *v
	case *Ping:
		return *v
	}
	return in
}

// Encode builds a client frame for an intent; used by Go clients.
func Encode(requestID string, in Intent) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Inbound{Type: in.Type(), RequestID: requestID, Payload: payload})
}

// Outbound is the envelope of every broadcast event.
type Outbound struct {
	Type    string `json:"type"`
	Room    string `json:"roomId,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

func EncodeEvent(ev core.Event) ([]byte, error) {
	return json.Marshal(Outbound{Type: string(ev.Name), Room: string(ev.Room), Payload: ev.Payload})
}

type PongPayload struct {
	ServerTime int64 `json:"serverTime"`
}

func EncodePong(requestID string, now time.Time) ([]byte, error) {
	return json.Marshal(struct {
		Type      string      `json:"type"`
		RequestID string      `json:"requestId,omitempty"`
		Payload   PongPayload `json:"payload"`
	}{TypePong, requestID, PongPayload{ServerTime: now.UnixMilli()}})
}

type ErrorBody struct {
	Code        string   `json:"code"`
	Kind        string   `json:"kind,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Response answers the originating connection only, separate from any
// broadcast the same operation produced.
type Response struct {
	Type      string     `json:"type"`
	RequestID string     `json:"requestId,omitempty"`
	Intent    string     `json:"intent"`
	Success   bool       `json:"success"`
	Error     *ErrorBody `json:"error,omitempty"`
	Data      any        `json:"data,omitempty"`
}

func NewResponse(requestID, intent string, data any, err error) Response {
	resp := Response{Type: TypeResponse, RequestID: requestID, Intent: intent}
	if err == nil {
		resp.Success = true
		resp.Data = data
		return resp
	}
	resp.Error = errorBody(err)
	return resp
}

func errorBody(err error) *ErrorBody {
	var conflict *core.NicknameConflictError
	if errors.As(err, &conflict) {
		return &ErrorBody{
			Code:        core.ErrNicknameConflict.Code,
			Kind:        string(core.ErrNicknameConflict.Kind),
			Message:     conflict.Error(),
			Suggestions: conflict.Suggestions,
		}
	}
	if ce, ok := core.AsError(err); ok {
		return &ErrorBody{Code: ce.Code, Kind: string(ce.Kind), Message: ce.Message}
	}
	switch {
	case errors.Is(err, ErrBadPayload):
		return &ErrorBody{Code: ErrBadPayload.Error(), Kind: string(core.KindValidation), Message: err.Error()}
	case errors.Is(err, ErrUnknownIntent):
		return &ErrorBody{Code: ErrUnknownIntent.Error(), Kind: string(core.KindValidation), Message: err.Error()}
	}
	return &ErrorBody{Code: "internal", Message: "internal error"}
}

// Err turns a failed response back into an error usable with errors.Is.
func (r Response) Err() error {
	if r.Success || r.Error == nil {
		return nil
	}
	return core.ErrorFromCode(r.Error.Code, r.Error.Message, r.Error.Suggestions)
}

func EncodeResponse(r Response) ([]byte, error) {
	return json.Marshal(r)
}

// Frame is the client-side view of any server frame. Data and Payload are
// left raw for the caller to decode.
type Frame struct {
	Type      string          `json:"type"`
	RoomID    string          `json:"roomId,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Intent    string          `json:"intent,omitempty"`
	Success   bool            `json:"success"`
	Error     *ErrorBody      `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}

// Response re-assembles the frame as a response, keeping Data raw.
func (f Frame) Response() Response {
	return Response{Type: f.Type, RequestID: f.RequestID, Intent: f.Intent, Success: f.Success, Error: f.Error, Data: f.Data}
}
