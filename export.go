package main

import (
	"encoding/json"
	"time"
)

// Serialised forms of each entity as returned by the API. A V1 field list is fixed;
// changes go into a new versioned type.

type StudentV1 struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	ClassName  string    `json:"className"`
	AccessCode string    `json:"accessCode"`
	CreatedAt  time.Time `json:"createdAt"`
}

func studentV1(st Student) StudentV1 {
	return StudentV1{ID: st.ID, Name: st.Name, ClassName: st.ClassName, AccessCode: st.AccessCode, CreatedAt: st.CreatedAt}
}

func studentsV1(in []Student) []StudentV1 {
	out := make([]StudentV1, 0, len(in))
	for _, st := range in {
		out = append(out, studentV1(st))
	}
	return out
}

type SubmissionV1 struct {
	ID          uint              `json:"id"`
	SessionID   string            `json:"sessionId"`
	StudentID   uint              `json:"studentId"`
	StudentName string            `json:"studentName"`
	ClassName   string            `json:"className"`
	Subject     string            `json:"subject"`
	Score       int               `json:"score"`
	Total       int               `json:"total"`
	Percentage  float64           `json:"percentage"`
	TimedOut    bool              `json:"timedOut"`
	Answers     map[string]string `json:"answers,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// submissionV1 renders a row; withAnswers controls whether the answer map is included.
func submissionV1(s Submission, withAnswers bool) SubmissionV1 {
	dto := SubmissionV1{
		ID:          s.ID,
		SessionID:   s.SessionID,
		StudentID:   s.StudentID,
		StudentName: s.StudentName,
		ClassName:   s.ClassName,
		Subject:     s.Subject,
		Score:       s.Score,
		Total:       s.Total,
		Percentage:  round2(s.Percentage),
		TimedOut:    s.TimedOut,
		CreatedAt:   s.CreatedAt,
	}
	if withAnswers && len(s.Answers) > 0 {
		_ = json.Unmarshal(s.Answers, &dto.Answers)
	}
	return dto
}

func submissionsV1(in []Submission, withAnswers bool) []SubmissionV1 {
	out := make([]SubmissionV1, 0, len(in))
	for _, s := range in {
		out = append(out, submissionV1(s, withAnswers))
	}
	return out
}

type QuestionV1 struct {
	ID        uint     `json:"id"`
	ClassName string   `json:"className"`
	Subject   string   `json:"subject"`
	Position  int      `json:"position"`
	Text      string   `json:"question"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
}

func questionsV1(in []Question) []QuestionV1 {
	out := make([]QuestionV1, 0, len(in))
	for _, q := range in {
		var opts []string
		_ = json.Unmarshal(q.Options, &opts)
		out = append(out, QuestionV1{
			ID: q.ID, ClassName: q.ClassName, Subject: q.Subject, Position: q.Position,
			Text: q.Text, Options: opts, Answer: q.CorrectAnswer,
		})
	}
	return out
}

type AdminV1 struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func adminsV1(in []Admin) []AdminV1 {
	out := make([]AdminV1, 0, len(in))
	for _, a := range in {
		out = append(out, AdminV1{Username: a.Username, Role: a.Role, CreatedAt: a.CreatedAt})
	}
	return out
}
