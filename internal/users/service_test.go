package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return NewService(repo, 4), repo
}

var validSignup = SignupRequest{FirstName: "Ada", LastName: "Lovelace", Email: "Ada@Example.com", Password: "Abcdef12"}

func TestSignup_CreatesUser(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Signup(context.Background(), validSignup)
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada Lovelace", u.FullName)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEqual(t, "Abcdef12", u.PasswordHash)
	assert.NoError(t, auth.ComparePassword(u.PasswordHash, "Abcdef12"))
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newTestService()

	cases := map[string]struct {
		mutate func(r *SignupRequest)
		field  string
		msg    string
	}{
		"missing first name": {func(r *SignupRequest) { r.FirstName = " " }, "", "All fields are required"},
		"missing password":   {func(r *SignupRequest) { r.Password = "" }, "", "All fields are required"},
		"bad email":          {func(r *SignupRequest) { r.Email = "not-an-email" }, "email", "Invalid email"},
		"email with space":   {func(r *SignupRequest) { r.Email = "a b@c.io" }, "email", "Invalid email"},
		"short password":     {func(r *SignupRequest) { r.Password = "Abc12" }, "password", "Password must be at least 8 characters"},
		"long password":      {func(r *SignupRequest) { r.Password = strings.Repeat("a", 73) }, "password", "Password must be at most 72 bytes"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := validSignup
			tc.mutate(&req)
			_, err := svc.Signup(context.Background(), req)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.msg, ve.Message)
		})
	}
}

func TestSignup_DuplicateEmailIgnoresCase(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Signup(context.Background(), validSignup)
	require.NoError(t, err)

	dup := validSignup
	dup.Email = "ADA@example.COM"
	_, err = svc.Signup(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.Signup(context.Background(), validSignup)
	require.NoError(t, err)

	got, err := svc.Authenticate(context.Background(), "ADA@example.com", "Abcdef12")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "ada@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "Abcdef12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListOthersExcludesCaller(t *testing.T) {
	svc, _ := newTestService()
	a, err := svc.Signup(context.Background(), validSignup)
	require.NoError(t, err)
	b, err := svc.Signup(context.Background(), SignupRequest{FirstName: "Bob", LastName: "B", Email: "bob@example.com", Password: "Abcdef12"})
	require.NoError(t, err)

	others, err := svc.ListOthers(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, b.ID, others[0].ID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListOthers(context.Background(), "")
	assert.Error(t, err)
}

func TestResolveIdentity(t *testing.T) {
	svc, repo := newTestService()
	u, err := svc.Signup(context.Background(), validSignup)
	require.NoError(t, err)

	repo.SetRole(u.ID, RoleAdmin)
	id, err := svc.ResolveIdentity(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{UserID: u.ID, Email: "ada@example.com", Role: "admin"}, id)

	repo.Delete(u.ID)
	_, err = svc.ResolveIdentity(context.Background(), u.ID)
	assert.ErrorIs(t, err, auth.ErrUnknownUser)
}
