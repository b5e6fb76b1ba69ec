package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// writeTestError maps portal and session errors to HTTP responses. The live session
// view, when present, is returned next to the error so the client can redraw.
func writeTestError(c *gin.Context, out Outcome, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidAccessCode):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNoActiveSession), errors.Is(err, ErrNoQuestions):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, ErrTestInProgress), errors.Is(err, ErrSessionClosed), errors.Is(err, ErrSessionExists):
		status = http.StatusConflict
	case errors.Is(err, ErrSubjectRequired), errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrInvalidOption):
		status = http.StatusBadRequest
	}
	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		log.Printf("[session] %s %s: %v", c.Request.Method, c.FullPath(), err)
		body["error"] = "internal error"
	}
	if out.Session != nil {
		body["session"] = out.Session
	}
	c.JSON(status, body)
}

// dbError logs a repository failure and answers with a generic 500.
func dbError(c *gin.Context, err error) {
	log.Printf("[db] %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
}

func writeOutcome(c *gin.Context, status int, out Outcome, err error) {
	if err != nil {
		writeTestError(c, out, err)
		return
	}
	c.JSON(status, out)
}

/*** Login ***/

type LoginReq struct {
	AccessCode string `json:"accessCode" binding:"required"`
}

func StudentLogin(p *Portal, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accessCode required"})
			return
		}
		st, err := p.Login(c.Request.Context(), strings.TrimSpace(req.AccessCode))
		if err != nil {
			writeTestError(c, Outcome{}, err)
			return
		}
		setStudentCookie(c, st.AccessCode, secureCookies)
		c.JSON(http.StatusOK, gin.H{"student": studentV1(st)})
	}
}

/*** Test mode ***/

type StartTestReq struct {
	Subject string `json:"subject" binding:"required"`
}

func StartTest(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartTestReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subject required"})
			return
		}
		st := currentStudent(c)
		out, err := p.StartTest(c.Request.Context(), st.AccessCode, req.Subject)
		writeOutcome(c, http.StatusCreated, out, err)
	}
}

type portalAction func(p *Portal, ctx context.Context, code string) (Outcome, error)

// sessionAction adapts a no-argument portal action into a handler.
func sessionAction(p *Portal, action portalAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := action(p, c.Request.Context(), currentStudent(c).AccessCode)
		writeOutcome(c, http.StatusOK, out, err)
	}
}

func CurrentTest(p *Portal) gin.HandlerFunc { return sessionAction(p, (*Portal).Current) }
func NextQuestion(p *Portal) gin.HandlerFunc { return sessionAction(p, (*Portal).Next) }
func PreviousQuestion(p *Portal) gin.HandlerFunc { return sessionAction(p, (*Portal).Previous) }
func ToggleMark(p *Portal) gin.HandlerFunc { return sessionAction(p, (*Portal).ToggleMark) }
func SubmitTest(p *Portal) gin.HandlerFunc { return sessionAction(p, (*Portal).Submit) }

type JumpReq struct {
	Index *int `json:"index" binding:"required"`
}

func JumpToQuestion(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JumpReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index required"})
			return
		}
		out, err := p.Jump(c.Request.Context(), currentStudent(c).AccessCode, *req.Index)
		writeOutcome(c, http.StatusOK, out, err)
	}
}

// AnswerReq carries the selected option. An empty answer clears the slot.
type AnswerReq struct {
	Answer string `json:"answer"`
}

func AnswerQuestion(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnswerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
		out, err := p.Answer(c.Request.Context(), currentStudent(c).AccessCode, req.Answer)
		writeOutcome(c, http.StatusOK, out, err)
	}
}
