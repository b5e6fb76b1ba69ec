package main

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	h, err := hashPassword("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", h)
	assert.True(t, checkPassword(h, "1234"))
	assert.False(t, checkPassword(h, "12345"))
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, EnsureSuperAdmin(ctx, st, "super_admin", "1234"))
	require.NoError(t, EnsureSuperAdmin(ctx, st, "super_admin", "other"))

	admins, err := st.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, RoleSuperAdmin, admins[0].Role)

	a, err := AuthenticateAdmin(ctx, st, "SUPER_ADMIN", "1234")
	require.NoError(t, err)
	assert.Equal(t, "super_admin", a.Username)
	_, err = AuthenticateAdmin(ctx, st, "super_admin", "other")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = AuthenticateAdmin(ctx, st, "ghost", "1234")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("s3cret")
	tok, err := issuer.Issue(Admin{Username: "mr_t", Role: RoleTeacher})
	require.NoError(t, err)

	claims, err := issuer.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "mr_t", claims.Username)
	assert.Equal(t, RoleTeacher, claims.Role)

	_, err = NewTokenIssuer("other").Parse(tok)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("s3cret")
	issuer.now = func() time.Time { return time.Now().Add(-2 * tokenTTL) }
	tok, err := issuer.Issue(Admin{Username: "mr_t", Role: RoleAdmin})
	require.NoError(t, err)
	_, err = NewTokenIssuer("s3cret").Parse(tok)
	assert.Error(t, err)
}

func TestTokenWithOtherAlgorithmRejected(t *testing.T) {
	claims := &AdminClaims{Username: "x", Role: RoleSuperAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer("s3cret").Parse(tok)
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want bool
	}{
		{RoleSuperAdmin, PermAdmins, true},
		{RoleSuperAdmin, PermRetakes, true},
		{RoleAdmin, PermRetakes, true},
		{RoleAdmin, PermAdmins, false},
		{RoleTeacher, PermQuestions, true},
		{RoleTeacher, PermRetakes, false},
		{RoleModerator, PermResults, true},
		{RoleModerator, PermStudents, false},
		{"", PermResults, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hasPermission(tt.role, tt.perm), "%s/%s", tt.role, tt.perm)
	}
	assert.True(t, validRole(RoleModerator))
	assert.False(t, validRole("janitor"))
}
