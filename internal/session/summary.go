package session

import (
	"math"
	"strconv"
)

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	Index   int
	User    Answer
	Correct Answer
	IsRight bool
}

// Result holds the data displayed once results are revealed.
type Result struct {
	Score         int
	QuestionCount int

	// Accuracy is a percentage rounded to one decimal place.
	Accuracy  float64
	Questions []QuestionResult
}

// AccuracyText formats the accuracy with exactly one decimal, e.g. "60.0".
func (r Result) AccuracyText() string {
	return strconv.FormatFloat(r.Accuracy, 'f', 1, 64)
}

// BuildResult grades user answers against the answer key. An unanswered
// question never matches, so it always counts as incorrect.
func BuildResult(user, correct []Answer) Result {
	res := Result{
		QuestionCount: len(correct),
		Questions:     make([]QuestionResult, 0, len(correct)),
	}
	for i, c := range correct {
		u := NoAnswer
		if i < len(user) {
			u = user[i]
		}
		right := u.Present() && u == c
		if right {
			res.Score++
		}
		res.Questions = append(res.Questions, QuestionResult{
			Index:   i,
			User:    u,
			Correct: c,
			IsRight: right,
		})
	}
	if res.QuestionCount > 0 {
		pct := float64(res.Score) / float64(res.QuestionCount) * 100
		res.Accuracy = math.Round(pct*10) / 10
	}
	return res
}
