package ai

import (
	"context"
	"math/rand"
	"strings"
)

// Canned answers used when the external generator fails or returns nothing.
// Buckets are picked by cheap keyword matching on the question text; this is a
// quality-of-fallback concern only, any bucket is a legal answer.
var cannedAnswers = map[string][]string{
	"preference": {
		"Honestly it changes depending on my mood, but I usually go with the classic choice.",
		"I'd pick the first one, no hesitation. The alternatives never convinced me.",
		"Tough call, but I tend to prefer whatever I grew up with.",
	},
	"opinion": {
		"I think it depends on the context, but generally I'd lean towards yes with some caveats.",
		"Interesting question. I'd say no, but I understand people who think otherwise.",
		"I don't fully agree with the premise, but I respect the other side of it.",
	},
	"personal": {
		"That happened to me once and I still think about it sometimes.",
		"I'd rather not go into details, but let's just say it taught me a lesson.",
		"My friends would probably answer that differently than I would.",
	},
	"generic": {
		"Never thought about it that way before. Maybe it's a matter of perspective.",
		"Definitely! No doubts about that one.",
		"Based on my experience I'd say yes, although with some reservations.",
	},
}

var cannedTimeout = "I ran out of time before I could think of an answer..."

func categorize(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "favorite") || strings.Contains(q, "favourite") ||
		strings.Contains(q, "prefer") || strings.Contains(q, "rather") ||
		strings.Contains(q, "best"):
		return "preference"
	case strings.Contains(q, "think") || strings.Contains(q, "opinion") ||
		strings.Contains(q, "believe") || strings.Contains(q, "agree"):
		return "opinion"
	case strings.Contains(q, "you ever") || strings.Contains(q, "your life") ||
		strings.Contains(q, "childhood") || strings.Contains(q, "remember"):
		return "personal"
	default:
		return "generic"
	}
}

// CannedAnswer returns a fallback answer for the given question.
func CannedAnswer(question string) string {
	bucket := cannedAnswers[categorize(question)]
	return bucket[rand.Intn(len(bucket))]
}

// TimeoutAnswer is the auto-fill text for a player that did not answer in time.
func TimeoutAnswer() string {
	return cannedTimeout
}

// CannedGenerator serves canned answers locally. It is the Generator used
// when no external endpoint is configured.
type CannedGenerator struct{}

func (CannedGenerator) Generate(ctx context.Context, question string) (string, error) {
	return CannedAnswer(question), nil
}
