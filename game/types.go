package game

import "time"

type RoomPhase int

// --- Room Phases ---
// A room walks through these while playing. PHASE_LOBBY and PHASE_GAME_OVER
// bracket the in-game phases; the question/answers/voting/results cycle
// repeats once per round.
const (
	PHASE_LOBBY RoomPhase = iota
	PHASE_QUESTION
	PHASE_COLLECTING_ANSWERS
	PHASE_VOTING
	PHASE_RESULTS
	PHASE_GAME_OVER
)

func (p RoomPhase) String() string {
	switch p {
	case PHASE_LOBBY:
		return "lobby"
	case PHASE_QUESTION:
		return "question"
	case PHASE_COLLECTING_ANSWERS:
		return "collectingAnswers"
	case PHASE_VOTING:
		return "voting"
	case PHASE_RESULTS:
		return "results"
	case PHASE_GAME_OVER:
		return "gameOver"
	default:
		return "unknown"
	}
}

type RoomStatus int

const (
	STATUS_WAITING RoomStatus = iota
	STATUS_PLAYING
	STATUS_FINISHED
)

func (s RoomStatus) String() string {
	switch s {
	case STATUS_WAITING:
		return "waiting"
	case STATUS_PLAYING:
		return "playing"
	case STATUS_FINISHED:
		return "finished"
	default:
		return "unknown"
	}
}

// --- Game Constants ---
const QUORUM = 3                             // Minimum human players required to start.
const MAX_PLAYERS = 6                        // Maximum number of players allowed in a room.
const MAX_ROUNDS = 10                        // Hard cap on rounds before the game ends.
const ANSWER_DURATION = time.Second * 60     // Time players have to submit an answer.
const VOTE_DURATION = time.Second * 45       // Time players have to cast a vote.
const RESULTS_DURATION = time.Second * 10    // How long the round results are shown.
const GAME_OVER_GRACE = time.Second * 60     // How long a finished room lingers for final screens.
const PENDING_DURATION = time.Second * 3600  // Placeholder deadline for phases with no timeout.

// --- Scoring ---
// A human author earns one point per vote their answer attracts. Spotting the
// AI's answer is worth three points to the voter; going unspotted for a whole
// round is worth three points to the AI. The win thresholds are equal on
// purpose so neither side races a shorter track.
const POINTS_PER_VOTE = 1
const AI_SPOTTED_POINTS = 3
const AI_SURVIVED_POINTS = 3
const PLAYER_WIN_SCORE = 15
const AI_WIN_SCORE = 15

// roomDeadline is the single pending-deadline slot of a room. It is replaced
// (never merely rescheduled) on every phase transition; a tick acts on it only
// when the phase and round tags still match the live room state, so a stale
// timer can detect that its phase already ended and no-op.
type roomDeadline struct {
	at    time.Time
	phase RoomPhase
	round int
}

type roomJoinRequest struct {
	player  Player
	errChan chan error
}

func NewRoomJoinRequest(player Player) roomJoinRequest {
	return roomJoinRequest{player: player, errChan: make(chan error, 1)}
}

type clientEventEnvelope struct {
	event ClientEvent
	from  Player
}

// aiAnswerResult carries the external generator's (possibly failed) answer
// back into the room actor, tagged with the round it was requested for.
type aiAnswerResult struct {
	round int
	text  string
	err   error
}

type roomDescription struct {
	id           string
	playersCount int
	maxPlayers   int
	status       RoomStatus
}
