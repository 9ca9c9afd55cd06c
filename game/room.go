package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"api/ai"
	"api/shared/logger"
)

const aiDisplayName = "AI"

// seat is a player's in-room state. The slice order doubles as the question
// author rotation order.
type seat struct {
	player Player
	score  int
	color  string
	ready  bool
}

type gameWinner struct {
	name string
	isAI bool
}

type sendTask struct {
	to    Player
	event ServerEvent
}

type room struct {
	// Identity / metadata
	id     string
	phase  RoomPhase
	status RoomStatus
	hostId string

	// Round state
	round       int
	authorIndex int
	authorId    string
	question    string
	board       *answerBoard
	ledger      *voteLedger
	deadline    roomDeadline
	winner      *gameWinner
	aiScore     int

	// Players
	seats []*seat

	// Collaborators
	parentLobby Lobby
	generator   ai.Generator
	rng         Randomizer

	// Communication
	inbox                 chan clientEventEnvelope
	ticks                 chan time.Time
	joinReqs              chan roomJoinRequest
	playerRemovalRequests chan Player
	aiAnswers             chan aiAnswerResult
	pingPlayers           chan struct{}
	done                  chan struct{}
	closeOnce             sync.Once

	// Outbox, drained by the game loop after every handled message.
	sendTasks []sendTask
	pingTasks []Player
}

func NewRoom(generator ai.Generator, rng Randomizer) *room {
	return &room{
		phase:                 PHASE_LOBBY,
		status:                STATUS_WAITING,
		seats:                 make([]*seat, 0, MAX_PLAYERS),
		generator:             generator,
		rng:                   rng,
		deadline:              roomDeadline{at: time.Now().Add(PENDING_DURATION), phase: PHASE_LOBBY},
		inbox:                 make(chan clientEventEnvelope, 1024),
		ticks:                 make(chan time.Time, 24),
		joinReqs:              make(chan roomJoinRequest),
		playerRemovalRequests: make(chan Player, 64),
		aiAnswers:             make(chan aiAnswerResult, 4),
		pingPlayers:           make(chan struct{}, 1),
		done:                  make(chan struct{}),
	}
}

func (r *room) SetId(id string) {
	r.id = id
}

func (r *room) SetParentLobby(l Lobby) {
	r.parentLobby = l
}

func (r *room) Description() roomDescription {
	return roomDescription{
		id:           r.id,
		playersCount: len(r.seats),
		maxPlayers:   MAX_PLAYERS,
		status:       r.status,
	}
}

func (r *room) RequestJoin(jreq roomJoinRequest) {
	select {
	case r.joinReqs <- jreq:
	case <-r.done:
		jreq.errChan <- ErrRoomNotFound
		close(jreq.errChan)
	}
}

func (r *room) Send(ctx context.Context, e clientEventEnvelope) {
	select {
	case r.inbox <- e:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) RemoveMe(ctx context.Context, p Player) {
	select {
	case r.playerRemovalRequests <- p:
	case <-r.done:
	case <-ctx.Done():
	}
}

func (r *room) Tick(now time.Time) {
	select {
	case r.ticks <- now:
	default:
	}
}

func (r *room) PingPlayers() {
	select {
	case r.pingPlayers <- struct{}{}:
	default:
	}
}

func (r *room) CloseAndRelease() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}

// --- Outbox ---

func (r *room) sendTo(p Player, event ServerEvent) {
	r.sendTasks = append(r.sendTasks, sendTask{to: p, event: event})
}

func (r *room) broadcast(event ServerEvent) {
	for _, s := range r.seats {
		r.sendTasks = append(r.sendTasks, sendTask{to: s.player, event: event})
	}
}

func (r *room) flushSendTasks() {
	for _, task := range r.sendTasks {
		data, err := json.Marshal(task.event)
		if err != nil {
			logger.Criticalf("[Room %s] Failed to marshal %s event: %v", r.id, task.event.Type, err)
			continue
		}
		if err := task.to.Send(data); err != nil {
			logger.Warningf("[Room %s] Dropping player %s, send failed: %v", r.id, task.to.Username(), err)
			select {
			case r.playerRemovalRequests <- task.to:
			default:
			}
		}
	}
	r.sendTasks = r.sendTasks[:0]
}

func (r *room) flushPingTasks() {
	for _, p := range r.pingTasks {
		if err := p.Ping(); err != nil {
			logger.Warningf("[Room %s] Dropping player %s, ping failed: %v", r.id, p.Username(), err)
			select {
			case r.playerRemovalRequests <- p:
			default:
			}
		}
	}
	r.pingTasks = r.pingTasks[:0]
}

// --- Snapshots ---

func (r *room) snapshot() RoomSnapshot {
	players := make([]PlayerSnapshot, 0, len(r.seats))
	for i, s := range r.seats {
		players = append(players, PlayerSnapshot{
			Id:               s.player.Id(),
			Name:             s.player.Username(),
			IsHost:           s.player.Id() == r.hostId,
			Score:            s.score,
			Color:            s.color,
			IsQuestionAuthor: r.phase != PHASE_LOBBY && r.phase != PHASE_GAME_OVER && i == r.authorIndex,
		})
	}
	snap := RoomSnapshot{
		Players:   players,
		Phase:     r.phase.String(),
		CanStart:  r.phase == PHASE_LOBBY && len(r.seats) >= QUORUM,
		Round:     r.round,
		MaxRounds: MAX_ROUNDS,
		AiScore:   r.aiScore,
	}
	if r.phase == PHASE_VOTING {
		snap.VoteData = &VoteData{Question: r.question, Answers: r.board.anonymized()}
	}
	return snap
}

func (r *room) scoreEntries() []ScoreEntry {
	scores := make([]ScoreEntry, 0, len(r.seats))
	for _, s := range r.seats {
		scores = append(scores, ScoreEntry{Name: s.player.Username(), Score: s.score})
	}
	return scores
}

func (r *room) usernameById(id string) string {
	for _, s := range r.seats {
		if s.player.Id() == id {
			return s.player.Username()
		}
	}
	return ""
}
