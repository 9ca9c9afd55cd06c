package game

import (
	"context"
	"strings"
	"time"

	"api/ai"
	"api/shared/logger"
)

// GameLoop is the room actor. All room state is owned by this goroutine;
// everything else talks to it through the channels.
func (r *room) GameLoop() {
	logger.Infof("[Room %s] Game loop started", r.id)
	for {
		select {
		case e := <-r.inbox:
			r.handleClientEvent(e)
		case jreq := <-r.joinReqs:
			r.handleJoinRequest(jreq)
		case p := <-r.playerRemovalRequests:
			r.handleRemovePlayer(p)
		case now := <-r.ticks:
			r.handleTick(now)
		case res := <-r.aiAnswers:
			r.handleAIAnswer(res)
		case <-r.pingPlayers:
			r.handlePingPlayers()
		case <-r.done:
			logger.Infof("[Room %s] Game loop stopped", r.id)
			return
		}
		r.flushSendTasks()
		r.flushPingTasks()
	}
}

func (r *room) handleClientEvent(e clientEventEnvelope) {
	// Events can still be queued in the inbox after their sender's removal
	// was processed. A vote or ready from a gone player must not count.
	if r.seatOf(e.from) == nil {
		logger.Debugf("[Room %s] Dropping %q event from unseated player %s", r.id, e.event.Type, e.from.Username())
		return
	}

	switch e.event.Type {
	case EVENT_START:
		r.handleStartGame(e.from)
	case EVENT_SUBMIT_QUESTION:
		r.handleSubmitQuestion(e.from, e.event.Question)
	case EVENT_SUBMIT_ANSWER:
		r.handleSubmitAnswer(e.from, e.event.Answer)
	case EVENT_VOTE:
		r.handleVote(e.from, e.event.AnswerIndex)
	case EVENT_READY:
		r.handleReady(e.from)
	default:
		logger.Debugf("[Room %s] Ignoring unknown event type %q from %s", r.id, e.event.Type, e.from.Username())
	}
}

// --- Join / leave ---

func (r *room) handleJoinRequest(jreq roomJoinRequest) {
	p := jreq.player

	if r.phase != PHASE_LOBBY {
		jreq.errChan <- ErrGameAlreadyStarted
		close(jreq.errChan)
		return
	}

	// A player rejoining under the same name still holds a dead seat from
	// their previous connection, and a second tab shares the old seat's id
	// outright. Any other seat with this name is a zombie; it gets kicked
	// after the new seat is taken, so the room never empties mid-join.
	var zombie Player
	for _, s := range r.seats {
		if s.player.Username() == p.Username() && s.player != p {
			zombie = s.player
			break
		}
	}

	if zombie == nil && len(r.seats) >= MAX_PLAYERS {
		jreq.errChan <- ErrRoomFull
		close(jreq.errChan)
		return
	}

	used := make(map[string]bool, len(r.seats))
	for _, s := range r.seats {
		used[s.color] = true
	}
	r.seats = append(r.seats, &seat{player: p, color: pickColor(used, len(r.seats), r.rng)})
	if len(r.seats) == 1 {
		r.hostId = p.Id()
	}
	p.SetRoom(r)

	jreq.errChan <- nil
	close(jreq.errChan)

	if zombie != nil {
		logger.Infof("[Room %s] Kicking zombie player %s", r.id, zombie.Username())
		r.handleRemovePlayer(zombie)
	}

	logger.Infof("[Room %s] Player %s joined, %d/%d seats taken", r.id, p.Username(), len(r.seats), MAX_PLAYERS)
	r.broadcast(MakeEventRoomUpdate(r.snapshot()))
	r.updateDescription()
}

func (r *room) handleRemovePlayer(p Player) {
	index := -1
	for i, s := range r.seats {
		if s.player == p {
			index = i
			break
		}
	}
	if index == -1 {
		p.CancelAndRelease()
		return
	}

	logger.Infof("[Room %s] Removing player %s, %d seats remain", r.id, p.Username(), len(r.seats)-1)
	wasAuthor := index == r.authorIndex
	r.seats = append(r.seats[:index], r.seats[index+1:]...)
	if index < r.authorIndex {
		r.authorIndex--
	}
	if len(r.seats) > 0 {
		r.authorIndex = r.authorIndex % len(r.seats)
		if p.Id() == r.hostId {
			r.hostId = r.seats[0].player.Id()
		}
	}
	p.CancelAndRelease()

	if len(r.seats) == 0 {
		r.parentLobby.RemoveRoom(r.id)
		return
	}

	r.updateDescription()

	if r.status == STATUS_PLAYING && len(r.seats) < 2 {
		logger.Infof("[Room %s] Too few players left to keep playing", r.id)
		r.winner = r.currentLeader()
		r.enterGameOver()
		return
	}

	r.broadcast(MakeEventRoomUpdate(r.snapshot()))

	switch r.phase {
	case PHASE_QUESTION:
		if wasAuthor {
			// The round restarts with the next author in rotation.
			r.enterQuestionPhase()
		}
	case PHASE_COLLECTING_ANSWERS:
		r.board.dropRequirement(p.Id())
		if r.board.complete() {
			r.closeCollecting()
		}
	case PHASE_VOTING:
		r.ledger.drop(p.Id())
		if r.ledger.count() >= len(r.seats) {
			r.closeVoting()
		}
	case PHASE_RESULTS:
		if r.allReady() {
			r.advanceAfterResults()
		}
	}
}

// --- Client actions ---

func (r *room) handleStartGame(p Player) {
	if r.phase != PHASE_LOBBY {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	if p.Id() != r.hostId {
		r.sendTo(p, MakeEventGameError(errMsgNotHost))
		return
	}
	if len(r.seats) < QUORUM {
		r.sendTo(p, MakeEventGameError(errMsgQuorum))
		return
	}

	logger.Infof("[Room %s] Game started by host %s with %d players", r.id, p.Username(), len(r.seats))
	r.status = STATUS_PLAYING
	r.round = 1
	r.authorIndex = 0
	r.updateDescription()
	r.enterQuestionPhase()
}

func (r *room) handleSubmitQuestion(p Player, question string) {
	if r.phase != PHASE_QUESTION {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	if p.Id() != r.authorId {
		r.sendTo(p, MakeEventGameError(errMsgNotAuthor))
		return
	}
	question = strings.TrimSpace(question)
	if question == "" {
		r.sendTo(p, MakeEventGameError(errMsgEmptyQuestion))
		return
	}

	logger.Infof("[Room %s] Round %d question submitted by %s", r.id, r.round, p.Username())
	r.question = question

	answererIds := make([]string, 0, len(r.seats)-1)
	for i, s := range r.seats {
		if i != r.authorIndex {
			answererIds = append(answererIds, s.player.Id())
		}
	}
	r.board = newAnswerBoard(question, answererIds)
	r.ledger = newVoteLedger()

	go r.requestAIAnswer(r.round, question)

	r.enterCollectingPhase()
}

func (r *room) handleSubmitAnswer(p Player, answer string) {
	if r.phase != PHASE_COLLECTING_ANSWERS {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	if !r.board.isRequired(p.Id()) {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		r.sendTo(p, MakeEventGameError(errMsgEmptyAnswer))
		return
	}
	if !r.board.addHuman(p.Id(), answer) {
		// First submission wins, later ones are dropped.
		return
	}

	logger.Debugf("[Room %s] Answer received from %s", r.id, p.Username())
	r.broadcastAnswerProgress()

	if r.board.complete() {
		r.closeCollecting()
	}
}

func (r *room) handleAIAnswer(res aiAnswerResult) {
	if res.round != r.round || r.phase != PHASE_COLLECTING_ANSWERS {
		logger.Debugf("[Room %s] Dropping stale AI answer for round %d", r.id, res.round)
		return
	}
	text := res.text
	if res.err != nil || text == "" {
		logger.Warningf("[Room %s] AI generation failed, using canned answer: %v", r.id, res.err)
		text = ai.CannedAnswer(r.question)
	}
	r.board.addAI(text)

	if r.board.complete() {
		r.closeCollecting()
	}
}

func (r *room) handleVote(p Player, answerIndex *int) {
	if r.phase != PHASE_VOTING {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	if answerIndex == nil {
		r.sendTo(p, MakeEventGameError(errMsgInvalidVote))
		return
	}
	if _, ok := r.board.resolve(*answerIndex); !ok {
		r.sendTo(p, MakeEventGameError(errMsgInvalidVote))
		return
	}
	if r.board.isOwn(*answerIndex, p.Id()) {
		r.sendTo(p, MakeEventGameError(errMsgSelfVote))
		return
	}

	r.ledger.cast(p.Id(), *answerIndex)
	logger.Debugf("[Room %s] Vote from %s, %d/%d in", r.id, p.Username(), r.ledger.count(), len(r.seats))

	if r.ledger.count() >= len(r.seats) {
		r.closeVoting()
	}
}

func (r *room) handleReady(p Player) {
	if r.phase != PHASE_RESULTS {
		r.sendTo(p, MakeEventGameError(errMsgWrongPhase))
		return
	}
	r.seatOf(p).ready = true
	if r.allReady() {
		r.advanceAfterResults()
	}
}

func (r *room) handlePingPlayers() {
	for _, s := range r.seats {
		r.pingTasks = append(r.pingTasks, s.player)
	}
}

// --- Timeouts ---

func (r *room) handleTick(now time.Time) {
	if now.Before(r.deadline.at) {
		return
	}
	// A deadline belongs to the phase and round that armed it. A tick that
	// fires after the room has already moved on does nothing.
	if r.deadline.phase != r.phase || r.deadline.round != r.round {
		return
	}

	logger.Infof("[Room %s] Deadline expired in phase %s", r.id, r.phase)

	switch r.phase {
	case PHASE_LOBBY, PHASE_QUESTION:
		// Room idle for too long.
		r.releaseEveryone()
		r.parentLobby.RemoveRoom(r.id)
	case PHASE_COLLECTING_ANSWERS:
		r.board.fillMissing(ai.TimeoutAnswer(), ai.CannedAnswer)
		r.closeCollecting()
	case PHASE_VOTING:
		r.castMissingVotes()
		r.closeVoting()
	case PHASE_RESULTS:
		r.advanceAfterResults()
	case PHASE_GAME_OVER:
		r.releaseEveryone()
		r.parentLobby.RemoveRoom(r.id)
	}
}

// castMissingVotes assigns each missing voter a random valid choice, so the
// tally always covers every connected player.
func (r *room) castMissingVotes() {
	for _, s := range r.seats {
		id := s.player.Id()
		if r.ledger.has(id) {
			continue
		}
		valid := make([]int, 0, r.board.size())
		for i := 0; i < r.board.size(); i++ {
			if !r.board.isOwn(i, id) {
				valid = append(valid, i)
			}
		}
		if len(valid) == 0 {
			continue
		}
		r.ledger.cast(id, valid[r.rng.Intn(len(valid))])
	}
}

// --- Phase transitions ---

func (r *room) enterQuestionPhase() {
	r.phase = PHASE_QUESTION
	r.question = ""
	r.board = nil
	r.ledger = nil
	for _, s := range r.seats {
		s.ready = false
	}
	// No hard time limit for writing the question, only the idle guard.
	r.deadline = roomDeadline{at: time.Now().Add(PENDING_DURATION), phase: PHASE_QUESTION, round: r.round}

	author := r.seats[r.authorIndex].player
	r.authorId = author.Id()
	logger.Infof("[Room %s] Round %d, %s is writing the question", r.id, r.round, author.Username())
	r.broadcast(MakeEventRoomUpdate(r.snapshot()))
	r.sendTo(author, MakeEventQuestionRequest(r.round))
}

func (r *room) enterCollectingPhase() {
	r.phase = PHASE_COLLECTING_ANSWERS
	r.deadline = roomDeadline{at: time.Now().Add(ANSWER_DURATION), phase: PHASE_COLLECTING_ANSWERS, round: r.round}

	timeLimit := int(ANSWER_DURATION.Seconds())
	for i, s := range r.seats {
		if i == r.authorIndex {
			continue
		}
		r.sendTo(s.player, MakeEventAnswerRequest(r.question, timeLimit))
	}
	r.sendTo(r.seats[r.authorIndex].player, MakeEventWaitingForAnswers("Waiting for answers...", timeLimit, r.answerStatuses()))
}

func (r *room) closeCollecting() {
	r.board.close(r.rng)
	r.enterVotingPhase()
}

func (r *room) enterVotingPhase() {
	r.phase = PHASE_VOTING
	r.deadline = roomDeadline{at: time.Now().Add(VOTE_DURATION), phase: PHASE_VOTING, round: r.round}

	logger.Infof("[Room %s] Round %d voting opened with %d answers", r.id, r.round, r.board.size())
	r.broadcast(MakeEventShowAnswers(r.question, r.board.anonymized(), int(VOTE_DURATION.Seconds())))
}

func (r *room) closeVoting() {
	results := r.ledger.tallyVotes(r.board.size())
	delta := scoreRound(r.board, r.ledger)

	for _, s := range r.seats {
		s.score += delta.playerPoints[s.player.Id()]
	}
	r.aiScore += delta.aiPoints

	r.winner = r.evaluateWinner()
	r.enterResultsPhase(results)
}

func (r *room) enterResultsPhase(results []AnswerResult) {
	r.phase = PHASE_RESULTS
	for _, s := range r.seats {
		s.ready = false
	}
	r.deadline = roomDeadline{at: time.Now().Add(RESULTS_DURATION), phase: PHASE_RESULTS, round: r.round}

	reveals := make([]AnswerReveal, r.board.size())
	for i := range reveals {
		answer, _ := r.board.resolve(i)
		reveals[i] = AnswerReveal{
			Index:      i,
			Answer:     answer.text,
			Source:     answer.source.String(),
			AuthorName: r.usernameById(answer.authorId),
		}
	}

	r.broadcast(MakeEventVoteResults(VoteResultsPayload{
		Question: r.question,
		Results:  results,
		Answers:  reveals,
		Scores:   r.scoreEntries(),
		AiScore:  r.aiScore,
	}))
}

func (r *room) advanceAfterResults() {
	if r.winner != nil {
		r.enterGameOver()
		return
	}
	r.round++
	r.authorIndex = (r.authorIndex + 1) % len(r.seats)
	r.enterQuestionPhase()
}

func (r *room) enterGameOver() {
	r.phase = PHASE_GAME_OVER
	r.status = STATUS_FINISHED
	r.deadline = roomDeadline{at: time.Now().Add(GAME_OVER_GRACE), phase: PHASE_GAME_OVER, round: r.round}
	r.updateDescription()

	winner := r.winner
	if winner == nil {
		winner = r.currentLeader()
	}
	logger.Infof("[Room %s] Game over, winner: %s (ai: %v)", r.id, winner.name, winner.isAI)

	r.broadcast(MakeEventGameOver(GameOverPayload{
		Winner:      winner.name,
		WinnerIsAI:  winner.isAI,
		FinalScores: r.scoreEntries(),
		AiScore:     r.aiScore,
	}))
}

// evaluateWinner checks the end conditions after a round's scores are applied.
// A human reaching the threshold beats the AI reaching it in the same round.
func (r *room) evaluateWinner() *gameWinner {
	best := -1
	bestScore := 0
	for i, s := range r.seats {
		if s.score >= PLAYER_WIN_SCORE && s.score > bestScore {
			best = i
			bestScore = s.score
		}
	}
	if best >= 0 {
		return &gameWinner{name: r.seats[best].player.Username()}
	}
	if r.aiScore >= AI_WIN_SCORE {
		return &gameWinner{name: aiDisplayName, isAI: true}
	}
	if r.round >= MAX_ROUNDS {
		return r.currentLeader()
	}
	return nil
}

// currentLeader picks the top scorer, humans winning ties against the AI.
func (r *room) currentLeader() *gameWinner {
	best := -1
	bestScore := -1
	for i, s := range r.seats {
		if s.score > bestScore {
			best = i
			bestScore = s.score
		}
	}
	if best >= 0 && bestScore >= r.aiScore {
		return &gameWinner{name: r.seats[best].player.Username()}
	}
	return &gameWinner{name: aiDisplayName, isAI: true}
}

// --- Helpers ---

func (r *room) seatOf(p Player) *seat {
	for _, s := range r.seats {
		if s.player == p {
			return s
		}
	}
	return nil
}

func (r *room) requestAIAnswer(round int, question string) {
	ctx, cancel := context.WithTimeout(context.Background(), ANSWER_DURATION)
	defer cancel()
	text, err := r.generator.Generate(ctx, question)
	select {
	case r.aiAnswers <- aiAnswerResult{round: round, text: text, err: err}:
	case <-r.done:
	}
}

// answerStatuses lists every seat but the round's author. The author is
// identified by id, not seat index: the index shifts when someone leaves
// mid-collection and must not hide a required answerer from the list.
func (r *room) answerStatuses() []AnswerStatus {
	statuses := make([]AnswerStatus, 0, len(r.seats)-1)
	for _, s := range r.seats {
		if s.player.Id() == r.authorId {
			continue
		}
		statuses = append(statuses, AnswerStatus{
			Name:     s.player.Username(),
			Answered: r.board.hasAnswered(s.player.Id()),
		})
	}
	return statuses
}

func (r *room) broadcastAnswerProgress() {
	timeLimit := int(time.Until(r.deadline.at).Seconds())
	if timeLimit < 0 {
		timeLimit = 0
	}
	r.broadcast(MakeEventWaitingForAnswers("Waiting for answers...", timeLimit, r.answerStatuses()))
}

func (r *room) allReady() bool {
	for _, s := range r.seats {
		if !s.ready {
			return false
		}
	}
	return true
}

func (r *room) releaseEveryone() {
	for _, s := range r.seats {
		s.player.CancelAndRelease()
	}
	r.seats = r.seats[:0]
}

func (r *room) updateDescription() {
	r.parentLobby.RequestUpdateDescription(r.Description())
}
