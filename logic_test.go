package main

import "testing"

func TestScoreAnswers(t *testing.T) {
	qs := []QuestionItem{
		{Text: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris"},
		{Text: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
		{Text: "Colour of sky?", Options: []string{"Blue", "Green"}, Answer: "Blue"},
	}
	tests := []struct {
		name    string
		answers []string
		want    int
	}{
		{
			name:    "all correct",
			answers: []string{"Paris", "4", "Blue"},
			want:    3,
		},
		{
			name:    "case and whitespace ignored",
			answers: []string{" paris ", "4", "BLUE"},
			want:    3,
		},
		{
			name:    "empty slots never count",
			answers: []string{"", "", ""},
			want:    0,
		},
		{
			name:    "short answer slice",
			answers: []string{"Paris"},
			want:    1,
		},
		{
			name:    "wrong answers",
			answers: []string{"Rome", "3", "Blue"},
			want:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, detail := scoreAnswers(qs, tt.answers)
			if got != tt.want {
				t.Errorf("scoreAnswers() = %v, want %v", got, tt.want)
			}
			if len(detail) != len(qs) {
				t.Fatalf("detail has %d rows, want %d", len(detail), len(qs))
			}
		})
	}
}

func TestScoreAnswersRecordsNoAnswer(t *testing.T) {
	qs := []QuestionItem{{Text: "q", Options: []string{"a", "b"}, Answer: "a"}}
	_, detail := scoreAnswers(qs, []string{""})
	if detail[0].YourAnswer != noAnswer || detail[0].IsCorrect {
		t.Errorf("got %+v, want unanswered row", detail[0])
	}
	tests := []struct {
		name string
		key  string
	}{
		{name: "literal sentinel key", key: noAnswer},
		{name: "empty key", key: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := []QuestionItem{{Text: "q", Options: []string{"a", "b"}, Answer: tt.key}}
			got, detail := scoreAnswers(qs, []string{""})
			if got != 0 || detail[0].IsCorrect {
				t.Errorf("unanswered slot scored against key %q", tt.key)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{3, 5, 60},
		{0, 0, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := round2(percentage(tt.score, tt.total)); got != tt.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestResultBand(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{95, "Excellent work! You're a star!"},
		{90, "Excellent work! You're a star!"},
		{70, "Good job! Keep it up!"},
		{50, "Fair effort. Keep practicing!"},
		{49.99, "Keep trying! Practice makes perfect!"},
	}
	for _, tt := range tests {
		if got := resultBand(tt.pct); got != tt.want {
			t.Errorf("resultBand(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestAnswersByLabel(t *testing.T) {
	qs := sampleQuestions(3)
	got := answersByLabel(qs, []string{"right", "", "wrong"})
	want := map[string]string{"Q1": "right", "Q2": noAnswer, "Q3": "wrong"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("answersByLabel()[%s] = %q, want %q", k, got[k], v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("answersByLabel() has %d keys, want %d", len(got), len(want))
	}
}

func TestDrawQuestionsIsPermutation(t *testing.T) {
	qs := sampleQuestions(8)
	seed := int64(42)
	a := drawQuestions(qs, &seed)
	b := drawQuestions(qs, &seed)
	if len(a) != len(qs) {
		t.Fatalf("len = %d, want %d", len(a), len(qs))
	}
	seen := map[string]bool{}
	for i := range a {
		if a[i].Text != b[i].Text {
			t.Errorf("same seed gave different order at %d", i)
		}
		seen[a[i].Text] = true
	}
	if len(seen) != len(qs) {
		t.Errorf("draw lost or duplicated questions: %d unique", len(seen))
	}
	if qs[0].Text != "Question A" {
		t.Errorf("input slice was modified")
	}
}
