package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MeResponse struct {
	Student     StudentV1      `json:"student"`
	Submissions []SubmissionV1 `json:"submissions"`
}

// GET /api/v1/me
func GetMe(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := currentStudent(c)
		subs, err := p.store.ListSubmissions(c.Request.Context(), SubmissionFilter{StudentID: &st.ID})
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, MeResponse{
			Student:     studentV1(st),
			Submissions: submissionsV1(subs, false),
		})
	}
}

// GET /api/v1/retakes/:subject
func MyRetakes(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := currentStudent(c)
		subject := normalizeKey(c.Param("subject"))
		ctx := c.Request.Context()
		var last *SubmissionV1
		sub, err := p.store.LatestSubmission(ctx, st.ID, subject)
		switch {
		case err == nil:
			v := submissionV1(sub, false)
			last = &v
		case !errors.Is(err, gorm.ErrRecordNotFound):
			dbError(c, err)
			return
		}
		taken := last != nil
		remaining, err := p.RemainingRetakes(ctx, st.AccessCode, subject)
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"subject":   subject,
			"taken":     taken,
			"remaining": remaining,
			"canStart":  !taken || remaining > 0,
			"last":      last,
		})
	}
}
