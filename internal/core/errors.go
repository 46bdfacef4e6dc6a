package core

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindStateConflict Kind = "state_conflict"
	KindValidation    Kind = "validation"
)

// Error is a rejection reported to the originating connection.
// A rejected operation never changes room state.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrRoomNotFound   = &Error{KindNotFound, "room_not_found", "room not found"}
	ErrNotInRoom      = &Error{KindNotFound, "not_in_room", "connection is not in a room"}
	ErrStoryNotFound  = &Error{KindNotFound, "story_not_found", "story not found"}
	ErrTargetNotFound = &Error{KindNotFound, "target_not_found", "target player not found"}

	ErrNotHost            = &Error{KindAuthorization, "not_host", "only the host can do that"}
	ErrSelfTarget         = &Error{KindAuthorization, "self_target", "cannot target yourself"}
	ErrSpectatorForbidden = &Error{KindAuthorization, "spectator_forbidden", "spectators cannot vote"}

	ErrNicknameConflict  = &Error{KindStateConflict, "nickname_conflict", "nickname already taken"}
	ErrStoryNotVoting    = &Error{KindStateConflict, "story_not_voting", "story is not open for voting"}
	ErrInvalidTransition = &Error{KindStateConflict, "invalid_transition", "invalid story status transition"}

	ErrInvalidValue    = &Error{KindValidation, "invalid_value", "value is not allowed"}
	ErrInvalidNickname = &Error{KindValidation, "invalid_nickname", "nickname must be 1-36 characters"}
	ErrInvalidMessage  = &Error{KindValidation, "empty_or_oversize_message", "message must be 1-1000 characters"}
	ErrInvalidTitle    = &Error{KindValidation, "invalid_title", "story title is required"}
	ErrInvalidRoomName = &Error{KindValidation, "invalid_room_name", "room name must be at most 200 characters"}
)

var byCode = map[string]*Error{}

func init() {
	for _, e := range []*Error{
		ErrRoomNotFound, ErrNotInRoom, ErrStoryNotFound, ErrTargetNotFound,
		ErrNotHost, ErrSelfTarget, ErrSpectatorForbidden,
		ErrNicknameConflict, ErrStoryNotVoting, ErrInvalidTransition,
		ErrInvalidValue, ErrInvalidNickname, ErrInvalidMessage, ErrInvalidTitle, ErrInvalidRoomName,
	} {
		byCode[e.Code] = e
	}
}

// NicknameConflictError carries ranked alternatives for a taken nickname.
type NicknameConflictError struct {
	Nickname    string
	Suggestions []string
}

func (e *NicknameConflictError) Error() string {
	return fmt.Sprintf("nickname %q already taken", e.Nickname)
}

func (e *NicknameConflictError) Unwrap() error { return ErrNicknameConflict }

// AsError returns the taxonomy entry for err, if any.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ErrorFromCode maps a wire error code back to its sentinel so clients
// can use errors.Is. Unknown codes yield a generic error.
func ErrorFromCode(code, message string, suggestions []string) error {
	if code == ErrNicknameConflict.Code {
		return &NicknameConflictError{Suggestions: suggestions}
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	if message == "" {
		message = code
	}
	return errors.New(message)
}
