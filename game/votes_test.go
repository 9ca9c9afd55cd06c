package game

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTallyVotes_NoVotes(t *testing.T) {
	l := newVoteLedger()

	got := l.tallyVotes(3)

	want := []AnswerResult{
		{AnswerIndex: 0, Votes: 0, Percentage: 0},
		{AnswerIndex: 1, Votes: 0, Percentage: 0},
		{AnswerIndex: 2, Votes: 0, Percentage: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyVotes_CoversEveryIndex(t *testing.T) {
	l := newVoteLedger()
	l.cast("a", 0)
	l.cast("b", 0)
	l.cast("c", 2)

	got := l.tallyVotes(4)

	want := []AnswerResult{
		{AnswerIndex: 0, Votes: 2, Percentage: 67},
		{AnswerIndex: 1, Votes: 0, Percentage: 0},
		{AnswerIndex: 2, Votes: 1, Percentage: 33},
		{AnswerIndex: 3, Votes: 0, Percentage: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tally mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyVotes_VoteSumMatchesLedger(t *testing.T) {
	l := newVoteLedger()
	l.cast("a", 1)
	l.cast("b", 1)
	l.cast("c", 1)
	l.cast("d", 0)

	sum := 0
	for _, r := range l.tallyVotes(2) {
		sum += r.Votes
	}
	assert.Equal(t, l.count(), sum)
}

func TestVoteLedger_RevoteOverwrites(t *testing.T) {
	l := newVoteLedger()
	l.cast("a", 0)
	l.cast("a", 2)

	assert.Equal(t, 1, l.count())
	assert.Equal(t, 1, l.tallyVotes(3)[2].Votes)
	assert.Equal(t, 0, l.tallyVotes(3)[0].Votes)
}

func TestVoteLedger_Drop(t *testing.T) {
	l := newVoteLedger()
	l.cast("a", 0)
	l.cast("b", 1)

	l.drop("a")

	assert.Equal(t, 1, l.count())
	assert.False(t, l.has("a"))
	assert.True(t, l.has("b"))
}

// scoringBoard has p1 at shuffled index 0, p2 at index 1 and the AI at index 2.
func scoringBoard(t *testing.T) *answerBoard {
	t.Helper()
	b := newAnswerBoard("q", []string{"p1", "p2"})
	b.addHuman("p1", "answer one")
	b.addHuman("p2", "answer two")
	b.addAI("machine answer")
	b.close(permRandomizer(t, []int{0, 1, 2}))
	return b
}

func TestScoreRound_VotesPayHumanAuthors(t *testing.T) {
	b := scoringBoard(t)
	l := newVoteLedger()
	l.cast("p2", 0)     // vote for p1's answer
	l.cast("author", 0) // the question author votes too

	delta := scoreRound(b, l)

	assert.Equal(t, 2*POINTS_PER_VOTE, delta.playerPoints["p1"])
	assert.Equal(t, 0, delta.playerPoints["p2"])
	assert.Equal(t, AI_SURVIVED_POINTS, delta.aiPoints, "nobody spotted the AI")
}

func TestScoreRound_SpottingTheAIPaysTheVoter(t *testing.T) {
	b := scoringBoard(t)
	l := newVoteLedger()
	l.cast("p1", 2)
	l.cast("p2", 0)

	delta := scoreRound(b, l)

	assert.Equal(t, AI_SPOTTED_POINTS+POINTS_PER_VOTE, delta.playerPoints["p1"])
	assert.Equal(t, 0, delta.aiPoints, "spotted AI earns nothing")
}

func TestScoreRound_AllSpotTheAI(t *testing.T) {
	b := scoringBoard(t)
	l := newVoteLedger()
	l.cast("p1", 2)
	l.cast("p2", 2)
	l.cast("author", 2)

	delta := scoreRound(b, l)

	assert.Equal(t, AI_SPOTTED_POINTS, delta.playerPoints["p1"])
	assert.Equal(t, AI_SPOTTED_POINTS, delta.playerPoints["p2"])
	assert.Equal(t, AI_SPOTTED_POINTS, delta.playerPoints["author"])
	assert.Equal(t, 0, delta.aiPoints)
}

func TestScoreRound_NoVotes(t *testing.T) {
	b := scoringBoard(t)
	l := newVoteLedger()

	delta := scoreRound(b, l)

	assert.Empty(t, delta.playerPoints)
	assert.Equal(t, AI_SURVIVED_POINTS, delta.aiPoints)
}
