package main

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// noAnswer is what an empty slot is scored and recorded as.
const noAnswer = "No Answer"

// QuestionItem is a question as delivered to a session, canonical answer included.
type QuestionItem struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

type QuestionResult struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

func drawQuestions(items []QuestionItem, seed *int64) []QuestionItem {
	var r *rand.Rand
	if seed != nil {
		r = rand.New(rand.NewSource(*seed))
	} else {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	out := append([]QuestionItem(nil), items...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeKey folds class and subject names into the stored form ("jhs 1 " -> "JHS 1").
func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func questionLabel(i int) string {
	return fmt.Sprintf("Q%d", i+1)
}

// scoreAnswers compares answers[i] with questions[i].Answer. Missing or empty answers
// count as noAnswer and are never correct.
func scoreAnswers(questions []QuestionItem, answers []string) (int, []QuestionResult) {
	score := 0
	detail := make([]QuestionResult, 0, len(questions))
	for i, q := range questions {
		given := noAnswer
		answered := false
		if i < len(answers) && answers[i] != "" {
			given = answers[i]
			answered = true
		}
		correct := answered && normalizeAnswer(given) == normalizeAnswer(q.Answer)
		if correct {
			score++
		}
		detail = append(detail, QuestionResult{
			Question:      q.Text,
			YourAnswer:    given,
			CorrectAnswer: q.Answer,
			IsCorrect:     correct,
		})
	}
	return score, detail
}

func percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) * 100.0 / float64(total)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func answersByLabel(questions []QuestionItem, answers []string) map[string]string {
	out := make(map[string]string, len(questions))
	for i := range questions {
		a := noAnswer
		if i < len(answers) && answers[i] != "" {
			a = answers[i]
		}
		out[questionLabel(i)] = a
	}
	return out
}

func resultBand(percent float64) string {
	switch {
	case percent >= 90:
		return "Excellent work! You're a star!"
	case percent >= 70:
		return "Good job! Keep it up!"
	case percent >= 50:
		return "Fair effort. Keep practicing!"
	default:
		return "Keep trying! Practice makes perfect!"
	}
}

func hasOption(options []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, o := range options {
		if strings.TrimSpace(o) == v {
			return true
		}
	}
	return false
}
