package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room full")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrSendBufferFull     = errors.New("player send buffer full")
)

// Player-facing protocol violation messages, delivered as gameError events to
// the offending connection only.
const (
	errMsgNotHost       = "only the host can start the game"
	errMsgQuorum        = "at least 3 players are required to start"
	errMsgWrongPhase    = "that action is not valid right now"
	errMsgNotAuthor     = "you are not this round's question author"
	errMsgEmptyQuestion = "the question must not be empty"
	errMsgEmptyAnswer   = "the answer must not be empty"
	errMsgInvalidVote   = "invalid answer index"
	errMsgSelfVote      = "you cannot vote for your own answer"
)
