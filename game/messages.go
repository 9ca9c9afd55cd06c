package game

// Wire protocol: JSON events in both directions. Server events are a tagged
// variant (type tag plus exactly one payload field), not a bag of optionals.

// --- Client -> Server ---

const (
	EVENT_START           = "start"
	EVENT_SUBMIT_QUESTION = "submitQuestion"
	EVENT_SUBMIT_ANSWER   = "submitAnswer"
	EVENT_VOTE            = "vote"
	EVENT_READY           = "ready"
)

type ClientEvent struct {
	Type        string `json:"type"`
	Question    string `json:"question,omitempty"`
	Answer      string `json:"answer,omitempty"`
	AnswerIndex *int   `json:"answerIndex,omitempty"`
}

// --- Server -> Client ---

const (
	EVENT_ROOM_UPDATE         = "roomUpdate"
	EVENT_QUESTION_REQUEST    = "questionRequest"
	EVENT_ANSWER_REQUEST      = "answerRequest"
	EVENT_WAITING_FOR_ANSWERS = "waitingForAnswers"
	EVENT_SHOW_ANSWERS        = "showAnswers"
	EVENT_VOTE_RESULTS        = "voteResults"
	EVENT_GAME_OVER           = "gameOver"
	EVENT_GAME_ERROR          = "gameError"
)

type ServerEvent struct {
	Type              string                    `json:"type"`
	RoomUpdate        *RoomSnapshot             `json:"roomUpdate,omitempty"`
	QuestionRequest   *QuestionRequestPayload   `json:"questionRequest,omitempty"`
	AnswerRequest     *AnswerRequestPayload     `json:"answerRequest,omitempty"`
	WaitingForAnswers *WaitingForAnswersPayload `json:"waitingForAnswers,omitempty"`
	ShowAnswers       *ShowAnswersPayload       `json:"showAnswers,omitempty"`
	VoteResults       *VoteResultsPayload       `json:"voteResults,omitempty"`
	GameOver          *GameOverPayload          `json:"gameOver,omitempty"`
	GameError         *GameErrorPayload         `json:"gameError,omitempty"`
}

type PlayerSnapshot struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	IsHost           bool   `json:"isHost"`
	Score            int    `json:"score"`
	Color            string `json:"color"`
	IsQuestionAuthor bool   `json:"isQuestionAuthor"`
}

// AnonymousAnswer is one entry of the shuffled, authorship-stripped answer set
// shown to voters. Index refers to the shuffled ordering.
type AnonymousAnswer struct {
	Index  int    `json:"index"`
	Answer string `json:"answer"`
}

type VoteData struct {
	Question string            `json:"question"`
	Answers  []AnonymousAnswer `json:"answers"`
}

type RoomSnapshot struct {
	Players   []PlayerSnapshot `json:"players"`
	Phase     string           `json:"phase"`
	CanStart  bool             `json:"canStart"`
	Round     int              `json:"round"`
	MaxRounds int              `json:"maxRounds"`
	AiScore   int              `json:"aiScore"`
	VoteData  *VoteData        `json:"voteData,omitempty"`
}

type QuestionRequestPayload struct {
	Round int `json:"round"`
}

type AnswerRequestPayload struct {
	Question  string `json:"question"`
	TimeLimit int    `json:"timeLimit"` // seconds
}

type AnswerStatus struct {
	Name     string `json:"name"`
	Answered bool   `json:"answered"`
}

type WaitingForAnswersPayload struct {
	Message   string         `json:"message"`
	TimeLimit int            `json:"timeLimit"` // seconds
	Players   []AnswerStatus `json:"players"`
}

type ShowAnswersPayload struct {
	Question  string            `json:"question"`
	Answers   []AnonymousAnswer `json:"answers"`
	TimeLimit int               `json:"timeLimit"` // seconds
}

// AnswerReveal is the post-voting view of an answer with authorship restored.
type AnswerReveal struct {
	Index      int    `json:"index"`
	Answer     string `json:"answer"`
	Source     string `json:"source"` // "ai" or "human"
	AuthorName string `json:"authorName,omitempty"`
}

type AnswerResult struct {
	AnswerIndex int `json:"answerIndex"`
	Votes       int `json:"votes"`
	Percentage  int `json:"percentage"`
}

type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type VoteResultsPayload struct {
	Question string         `json:"question"`
	Results  []AnswerResult `json:"results"`
	Answers  []AnswerReveal `json:"answers"`
	Scores   []ScoreEntry   `json:"scores"`
	AiScore  int            `json:"aiScore"`
}

type GameOverPayload struct {
	Winner      string       `json:"winner"`
	WinnerIsAI  bool         `json:"winnerIsAI"`
	FinalScores []ScoreEntry `json:"finalScores"`
	AiScore     int          `json:"aiScore"`
}

type GameErrorPayload struct {
	Message string `json:"message"`
}

// --- Event constructors ---

func MakeEventRoomUpdate(snapshot RoomSnapshot) ServerEvent {
	return ServerEvent{Type: EVENT_ROOM_UPDATE, RoomUpdate: &snapshot}
}

func MakeEventQuestionRequest(round int) ServerEvent {
	return ServerEvent{Type: EVENT_QUESTION_REQUEST, QuestionRequest: &QuestionRequestPayload{Round: round}}
}

func MakeEventAnswerRequest(question string, timeLimit int) ServerEvent {
	return ServerEvent{Type: EVENT_ANSWER_REQUEST, AnswerRequest: &AnswerRequestPayload{Question: question, TimeLimit: timeLimit}}
}

func MakeEventWaitingForAnswers(message string, timeLimit int, players []AnswerStatus) ServerEvent {
	return ServerEvent{Type: EVENT_WAITING_FOR_ANSWERS, WaitingForAnswers: &WaitingForAnswersPayload{
		Message:   message,
		TimeLimit: timeLimit,
		Players:   players,
	}}
}

func MakeEventShowAnswers(question string, answers []AnonymousAnswer, timeLimit int) ServerEvent {
	return ServerEvent{Type: EVENT_SHOW_ANSWERS, ShowAnswers: &ShowAnswersPayload{
		Question:  question,
		Answers:   answers,
		TimeLimit: timeLimit,
	}}
}

func MakeEventVoteResults(payload VoteResultsPayload) ServerEvent {
	return ServerEvent{Type: EVENT_VOTE_RESULTS, VoteResults: &payload}
}

func MakeEventGameOver(payload GameOverPayload) ServerEvent {
	return ServerEvent{Type: EVENT_GAME_OVER, GameOver: &payload}
}

func MakeEventGameError(message string) ServerEvent {
	return ServerEvent{Type: EVENT_GAME_ERROR, GameError: &GameErrorPayload{Message: message}}
}
