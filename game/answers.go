package game

type answerSource int

const (
	SOURCE_HUMAN answerSource = iota
	SOURCE_AI
)

func (s answerSource) String() string {
	if s == SOURCE_AI {
		return "ai"
	}
	return "human"
}

// roundAnswer is the authoritative, authorship-tagged record of one answer.
// authorId is empty for the AI entry.
type roundAnswer struct {
	question string
	text     string
	source   answerSource
	authorId string
}

// answerBoard accumulates the current round's answers: exactly one AI entry
// and at most one entry per required human. Once closed it exposes a shuffled,
// anonymized view for voting while keeping the tagged entries for scoring.
type answerBoard struct {
	question      string
	entries       []roundAnswer
	indexByAuthor map[string]int
	aiReceived    bool
	required      map[string]struct{}

	// perm maps a shuffled (voting) index to an entries index. Nil until the
	// board is closed.
	perm []int
}

func newAnswerBoard(question string, requiredIds []string) *answerBoard {
	required := make(map[string]struct{}, len(requiredIds))
	for _, id := range requiredIds {
		required[id] = struct{}{}
	}
	return &answerBoard{
		question:      question,
		entries:       make([]roundAnswer, 0, len(requiredIds)+1),
		indexByAuthor: make(map[string]int, len(requiredIds)),
		required:      required,
	}
}

// addHuman records a player's answer. The first submission wins; duplicates
// and submissions from players who are not required to answer are rejected.
func (b *answerBoard) addHuman(authorId, text string) bool {
	if _, ok := b.required[authorId]; !ok {
		return false
	}
	if _, ok := b.indexByAuthor[authorId]; ok {
		return false
	}
	b.indexByAuthor[authorId] = len(b.entries)
	b.entries = append(b.entries, roundAnswer{
		question: b.question,
		text:     text,
		source:   SOURCE_HUMAN,
		authorId: authorId,
	})
	return true
}

// addAI records the AI participant's answer, once.
func (b *answerBoard) addAI(text string) bool {
	if b.aiReceived {
		return false
	}
	b.aiReceived = true
	b.entries = append(b.entries, roundAnswer{
		question: b.question,
		text:     text,
		source:   SOURCE_AI,
	})
	return true
}

func (b *answerBoard) hasAnswered(id string) bool {
	_, ok := b.indexByAuthor[id]
	return ok
}

func (b *answerBoard) isRequired(id string) bool {
	_, ok := b.required[id]
	return ok
}

// dropRequirement releases a disconnected player from their answer
// obligation. An answer they already submitted stays on the board.
func (b *answerBoard) dropRequirement(id string) {
	delete(b.required, id)
}

// complete reports whether the board can close early: the AI entry is in and
// every required player has answered.
func (b *answerBoard) complete() bool {
	if !b.aiReceived {
		return false
	}
	for id := range b.required {
		if !b.hasAnswered(id) {
			return false
		}
	}
	return true
}

// fillMissing auto-fills every outstanding slot when the collection deadline
// expires: absent players get the timeout answer, a missing AI entry gets a
// canned fallback.
func (b *answerBoard) fillMissing(humanFallback string, aiFallback func(question string) string) {
	for id := range b.required {
		if !b.hasAnswered(id) {
			b.addHuman(id, humanFallback)
		}
	}
	if !b.aiReceived {
		b.addAI(aiFallback(b.question))
	}
}

// close fixes the presentation order with a uniform random permutation.
func (b *answerBoard) close(rng Randomizer) {
	b.perm = rng.Perm(len(b.entries))
}

func (b *answerBoard) closed() bool {
	return b.perm != nil
}

func (b *answerBoard) size() int {
	return len(b.entries)
}

// anonymized returns the shuffled, authorship-stripped view sent to voters.
func (b *answerBoard) anonymized() []AnonymousAnswer {
	answers := make([]AnonymousAnswer, len(b.perm))
	for i, j := range b.perm {
		answers[i] = AnonymousAnswer{Index: i, Answer: b.entries[j].text}
	}
	return answers
}

// resolve maps a shuffled voting index back to the authoritative answer.
func (b *answerBoard) resolve(shuffledIndex int) (roundAnswer, bool) {
	if b.perm == nil || shuffledIndex < 0 || shuffledIndex >= len(b.perm) {
		return roundAnswer{}, false
	}
	return b.entries[b.perm[shuffledIndex]], true
}

// isOwn reports whether the shuffled index resolves to the player's own answer.
func (b *answerBoard) isOwn(shuffledIndex int, playerId string) bool {
	answer, ok := b.resolve(shuffledIndex)
	return ok && answer.source == SOURCE_HUMAN && answer.authorId == playerId
}
