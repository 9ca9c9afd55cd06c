package game

import "math"

// voteLedger tracks one round's votes by voter id. A vote targets a shuffled
// answer index; re-voting overwrites the previous choice.
type voteLedger struct {
	votes map[string]int
}

func newVoteLedger() *voteLedger {
	return &voteLedger{votes: make(map[string]int)}
}

func (l *voteLedger) cast(voterId string, shuffledIndex int) {
	l.votes[voterId] = shuffledIndex
}

func (l *voteLedger) has(voterId string) bool {
	_, ok := l.votes[voterId]
	return ok
}

// drop discards a disconnected player's vote so it cannot count toward the
// tally or block the all-voted check.
func (l *voteLedger) drop(voterId string) {
	delete(l.votes, voterId)
}

func (l *voteLedger) count() int {
	return len(l.votes)
}

// tallyVotes produces one result per shuffled answer index, zero-vote entries
// included. Percentages are of total votes cast and rounded to the nearest
// integer; with zero votes every percentage is zero.
func (l *voteLedger) tallyVotes(answerCount int) []AnswerResult {
	counts := make([]int, answerCount)
	for _, idx := range l.votes {
		if idx >= 0 && idx < answerCount {
			counts[idx]++
		}
	}
	total := len(l.votes)
	results := make([]AnswerResult, answerCount)
	for i, v := range counts {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(v) / float64(total) * 100))
		}
		results[i] = AnswerResult{AnswerIndex: i, Votes: v, Percentage: pct}
	}
	return results
}

// scoreDelta is the points awarded by one round's tally.
type scoreDelta struct {
	playerPoints map[string]int
	aiPoints     int
}

// scoreRound applies the scoring rules to the closed board and the ledger:
// a vote for a human answer pays its author, a vote for the AI answer pays
// the voter, and an AI answer nobody spotted pays the AI.
func scoreRound(board *answerBoard, ledger *voteLedger) scoreDelta {
	delta := scoreDelta{playerPoints: make(map[string]int)}
	aiSpotted := false
	for voterId, idx := range ledger.votes {
		answer, ok := board.resolve(idx)
		if !ok {
			continue
		}
		if answer.source == SOURCE_AI {
			delta.playerPoints[voterId] += AI_SPOTTED_POINTS
			aiSpotted = true
		} else {
			delta.playerPoints[answer.authorId] += POINTS_PER_VOTE
		}
	}
	if !aiSpotted {
		delta.aiPoints = AI_SURVIVED_POINTS
	}
	return delta
}
