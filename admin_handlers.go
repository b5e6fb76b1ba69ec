package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPreviewLimit = 5
	maxPreviewLimit     = 100
	maxUploadBytes      = 5 << 20
)

/*** Accounts ***/

type AdminLoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func AdminLogin(st *Store, tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}
		a, err := AuthenticateAdmin(c.Request.Context(), st, req.Username, req.Password)
		if errors.Is(err, ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		tok, err := tokens.Issue(a)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": tok, "username": a.Username, "role": a.Role})
	}
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=4"`
}

// PUT /admin/password changes the caller's own password.
func ChangeOwnPassword(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "currentPassword and newPassword (min 4 chars) required"})
			return
		}
		ctx := c.Request.Context()
		a, err := AuthenticateAdmin(ctx, st, c.GetString(ctxAdminUsername), req.CurrentPassword)
		if errors.Is(err, ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		if a.PasswordHash, err = hashPassword(req.NewPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash"})
			return
		}
		if err := st.SaveAdmin(ctx, &a); err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "password changed"})
	}
}

func ListAdmins(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		admins, err := st.ListAdmins(c.Request.Context())
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, adminsV1(admins))
	}
}

type CreateAdminReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
	Role     string `json:"role" binding:"required"`
}

func CreateAdmin(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAdminReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username, password (min 4 chars) and role required"})
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if !validRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrUnknownRole.Error()})
			return
		}
		ctx := c.Request.Context()
		username := strings.TrimSpace(req.Username)
		if _, err := st.AdminByUsername(ctx, username); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		} else if !errors.Is(err, ErrAdminNotFound) {
			dbError(c, err)
			return
		}
		hash, err := hashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash"})
			return
		}
		a := Admin{Username: username, PasswordHash: hash, Role: role}
		if err := st.CreateAdmin(ctx, &a); err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusCreated, adminsV1([]Admin{a})[0])
	}
}

type ResetPasswordReq struct {
	NewPassword string `json:"newPassword" binding:"required,min=4"`
}

// PUT /admin/admins/:username/password, super admin only.
func ResetAdminPassword(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "newPassword (min 4 chars) required"})
			return
		}
		ctx := c.Request.Context()
		a, err := st.AdminByUsername(ctx, c.Param("username"))
		if errors.Is(err, ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		if a.PasswordHash, err = hashPassword(req.NewPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash"})
			return
		}
		if err := st.SaveAdmin(ctx, &a); err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "password reset"})
	}
}

/*** Students ***/

func ListStudents(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		students, err := st.ListStudents(c.Request.Context(), c.Query("class"))
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, studentsV1(students))
	}
}

func cleanStudentInput(in StudentInput) (StudentInput, bool) {
	in.Name, in.Class = strings.TrimSpace(in.Name), strings.TrimSpace(in.Class)
	return in, in.Name != "" && in.Class != ""
}

func CreateStudent(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StudentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and class required"})
			return
		}
		req, ok := cleanStudentInput(req)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and class required"})
			return
		}
		s, err := st.CreateStudent(c.Request.Context(), req.Name, req.Class)
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusCreated, studentV1(s))
	}
}

func BulkCreateStudents(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []StudentInput
		if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "non-empty list of {name, class} required"})
			return
		}
		rows := make([]StudentInput, 0, len(req))
		var rejected []RowError
		for i, r := range req {
			clean, ok := cleanStudentInput(r)
			if !ok {
				rejected = append(rejected, RowError{Row: i + 1, Reason: "name and class are required"})
				continue
			}
			rows = append(rows, clean)
		}
		createStudents(c, st, rows, rejected)
	}
}

// ImportStudents reads a CSV upload from the "file" form field.
func ImportStudents(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "csv file required in field 'file'"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
			return
		}
		defer f.Close()
		rows, rejected, err := parseStudentCSV(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		createStudents(c, st, rows, rejected)
	}
}

func createStudents(c *gin.Context, st *Store, rows []StudentInput, rejected []RowError) {
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid rows", "rejected": rejected})
		return
	}
	created, err := st.BulkCreateStudents(c.Request.Context(), rows)
	if err != nil {
		dbError(c, err)
		return
	}
	log.Printf("[admin] %s created %d students", c.GetString(ctxAdminUsername), len(created))
	c.JSON(http.StatusCreated, gin.H{"created": studentsV1(created), "rejected": rejected})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func UpdateStudent(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req StudentInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and class required"})
			return
		}
		req, ok = cleanStudentInput(req)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and class required"})
			return
		}
		s, err := st.UpdateStudent(c.Request.Context(), id, req.Name, req.Class)
		if errors.Is(err, ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, studentV1(s))
	}
}

func DeleteStudent(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		s, err := p.DeleteStudent(c.Request.Context(), id)
		if errors.Is(err, ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": studentV1(s)})
	}
}

func ResetStudent(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, deleted, err := p.ResetStudent(c.Request.Context(), c.Param("code"))
		if errors.Is(err, ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			dbError(c, err)
			return
		}
		log.Printf("[admin] %s reset %s (%d submissions removed)", c.GetString(ctxAdminUsername), s.AccessCode, deleted)
		c.JSON(http.StatusOK, gin.H{"student": studentV1(s), "submissionsDeleted": deleted})
	}
}

/*** Question bank ***/

// UploadQuestions replaces the bank of (class, subject). The batch is read from the
// "file" form field when present, otherwise from the request body.
func UploadQuestions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw []byte
		var err error
		if fh, ferr := c.FormFile("file"); ferr == nil {
			f, oerr := fh.Open()
			if oerr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
				return
			}
			defer f.Close()
			raw, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
		} else {
			raw, err = io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes))
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
			return
		}
		rep, err := ImportQuestions(c.Request.Context(), st, c.Param("class"), c.Param("subject"), raw)
		switch {
		case errors.Is(err, ErrBadJSON), errors.Is(err, ErrBadShape), errors.Is(err, ErrEmptyBatch), errors.Is(err, ErrNoBankKey):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "rejected": rep.Rejected})
			return
		case err != nil:
			dbError(c, err)
			return
		}
		log.Printf("[admin] %s uploaded %s/%s: %d questions", c.GetString(ctxAdminUsername), rep.Class, rep.Subject, rep.Inserted)
		c.JSON(http.StatusOK, rep)
	}
}

func CountQuestions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := st.CountQuestions(c.Request.Context(), c.Query("class"), c.Query("subject"))
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

func PreviewQuestions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultPreviewLimit
		if l := c.Query("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n > 0 {
				if n > maxPreviewLimit {
					n = maxPreviewLimit
				}
				limit = n
			}
		}
		qs, err := st.PreviewQuestions(c.Request.Context(), c.Query("class"), c.Query("subject"), limit)
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, questionsV1(qs))
	}
}

func DeleteQuestions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := st.DeleteQuestions(c.Request.Context(), c.Query("class"), c.Query("subject"))
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}

/*** Settings ***/

type DurationReq struct {
	Minutes int `json:"minutes" binding:"required,gt=0"`
}

func GetDuration(st *Store, def int) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := st.TestDuration(c.Request.Context(), def)
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"minutes": m})
	}
}

func SetDuration(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DurationReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minutes must be a positive integer"})
			return
		}
		if err := st.SetTestDuration(c.Request.Context(), req.Minutes); err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"minutes": req.Minutes})
	}
}

/*** Retakes ***/

type RetakeReq struct {
	Allowed *int `json:"allowed" binding:"required,gte=0"`
}

func GetRetake(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := st.GetRetake(c.Request.Context(), c.Param("code"), c.Param("subject"))
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"accessCode": c.Param("code"), "subject": normalizeKey(c.Param("subject")), "allowed": n})
	}
}

// SetRetake overwrites the grant counter for (code, subject).
func SetRetake(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RetakeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "allowed must be an integer >= 0"})
			return
		}
		ctx := c.Request.Context()
		code, subject := c.Param("code"), normalizeKey(c.Param("subject"))
		if _, err := st.StudentByAccessCode(ctx, code); errors.Is(err, ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		} else if err != nil {
			dbError(c, err)
			return
		}
		if err := st.SetRetake(ctx, code, subject, *req.Allowed); err != nil {
			dbError(c, err)
			return
		}
		log.Printf("[admin] %s set retakes %s/%s = %d", c.GetString(ctxAdminUsername), code, subject, *req.Allowed)
		c.JSON(http.StatusOK, gin.H{"accessCode": code, "subject": subject, "allowed": *req.Allowed})
	}
}

/*** Results ***/

// ListSubmissions is the results view and leaderboard. Optional filters: code,
// subject, class. answers=true includes per-question answers.
func ListSubmissions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		f := SubmissionFilter{Subject: c.Query("subject"), ClassName: c.Query("class")}
		if code := c.Query("code"); code != "" {
			s, err := st.StudentByAccessCode(ctx, code)
			if errors.Is(err, ErrStudentNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				dbError(c, err)
				return
			}
			f.StudentID = &s.ID
		}
		subs, err := st.ListSubmissions(ctx, f)
		if err != nil {
			dbError(c, err)
			return
		}
		c.JSON(http.StatusOK, submissionsV1(subs, c.Query("answers") == "true"))
	}
}

// ClearStudents wipes the whole roster with its submissions, grants and live sessions.
func ClearStudents(p *Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := p.ClearStudents(c.Request.Context())
		if err != nil {
			dbError(c, err)
			return
		}
		log.Printf("[admin] %s cleared %d students", c.GetString(ctxAdminUsername), n)
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}

func ClearSubmissions(st *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := st.ClearSubmissions(c.Request.Context())
		if err != nil {
			dbError(c, err)
			return
		}
		log.Printf("[admin] %s cleared %d submissions", c.GetString(ctxAdminUsername), n)
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	}
}
