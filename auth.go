package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleTeacher    = "teacher"
	RoleModerator  = "moderator"
)

// Permissions an admin route can require.
const (
	PermStudents  = "students"
	PermQuestions = "questions"
	PermSettings  = "settings"
	PermResults   = "results"
	PermRetakes   = "retakes"
	PermAdmins    = "admins"
)

var rolePermissions = map[string][]string{
	RoleAdmin:     {PermStudents, PermQuestions, PermSettings, PermResults, PermRetakes},
	RoleTeacher:   {PermStudents, PermQuestions, PermSettings, PermResults},
	RoleModerator: {PermResults},
}

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUnknownRole    = errors.New("unknown role")
)

const tokenTTL = 12 * time.Hour

func validRole(role string) bool {
	if role == RoleSuperAdmin {
		return true
	}
	_, ok := rolePermissions[role]
	return ok
}

func hasPermission(role, perm string) bool {
	if role == RoleSuperAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// EnsureSuperAdmin creates the configured super admin account if it is missing.
func EnsureSuperAdmin(ctx context.Context, st *Store, username, password string) error {
	_, err := st.AdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := st.CreateAdmin(ctx, &Admin{Username: username, PasswordHash: hash, Role: RoleSuperAdmin}); err != nil {
		return err
	}
	log.Printf("[auth] created super admin %q", username)
	return nil
}

// ===== Tokens =====

type AdminClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

func (t *TokenIssuer) Issue(a Admin) (string, error) {
	now := t.now()
	claims := &AdminClaims{
		Username: a.Username,
		Role:     a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "smartest",
			Subject:   a.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(raw string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &AdminClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthenticateAdmin checks credentials and returns the admin on success.
func AuthenticateAdmin(ctx context.Context, st *Store, username, password string) (Admin, error) {
	a, err := st.AdminByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrAdminNotFound) {
		return Admin{}, ErrBadCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if !checkPassword(a.PasswordHash, password) {
		return Admin{}, ErrBadCredentials
	}
	return a, nil
}

// ===== Middleware =====

const (
	ctxAdminUsername = "adminUsername"
	ctxAdminRole     = "adminRole"
)

// AdminAuth requires a valid "Authorization: Bearer <token>" header.
func AdminAuth(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxAdminUsername, claims.Username)
		c.Set(ctxAdminRole, claims.Role)
		c.Next()
	}
}

// RequirePermission must run after AdminAuth.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasPermission(c.GetString(ctxAdminRole), perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
