package usecase

import (
	"context"
	"errors"
	"testing"

	"coursestream/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthUseCase_Register(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.register(t, "alice")
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second := e.register(t, "bob")
	assert.Equal(t, domain.RoleUser, second.Role)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := e.auth.Register(ctx, RegisterInput{Username: "bob", Email: "other@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		_, err := e.auth.Register(ctx, RegisterInput{Username: "carol", Email: "BOB@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := e.auth.Register(ctx, RegisterInput{Username: "dave", Email: "dave@example.com", Password: "123"})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "password", verr.Field)
	})
}

func TestAuthUseCase_LoginAndRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := e.auth.Login(ctx, "alice", "nope-nope")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := e.auth.Login(ctx, "ghost", "secret1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	user, tokens, err := e.auth.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	rotated, err := e.auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "a refresh token is single use")

	require.NoError(t, e.auth.Logout(ctx, rotated.RefreshToken))
	_, err = e.auth.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthUseCase_LoginInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")
	bob := e.register(t, "bob")

	_, err := e.admin.Update(ctx, bob.UserID, "bob@example.com", false)
	require.NoError(t, err)

	_, _, err = e.auth.Login(ctx, "bob", "secret1")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthUseCase_PasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")

	require.NoError(t, e.auth.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, e.mail.sent)

	require.NoError(t, e.auth.ForgotPassword(ctx, " Alice@Example.com "))
	require.Len(t, e.mail.sent, 1)
	sent := e.mail.sent[0]
	assert.Equal(t, "alice@example.com", sent.to)
	assert.Equal(t, "alice", sent.name)

	require.NoError(t, e.auth.CheckResetToken(ctx, sent.token))

	err := e.auth.ResetPassword(ctx, sent.token, "newpass1", "different")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "confirm_password", verr.Field)

	require.NoError(t, e.auth.ResetPassword(ctx, sent.token, "newpass1", "newpass1"))
	assert.ErrorIs(t, e.auth.ResetPassword(ctx, sent.token, "newpass2", "newpass2"), domain.ErrInvalidToken)

	_, _, err = e.auth.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = e.auth.Login(ctx, "alice", "newpass1")
	assert.NoError(t, err)
}

func TestAuthUseCase_ForgotPasswordThrottled(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, e.auth.ForgotPassword(ctx, "nobody@example.com"))
	}
	assert.ErrorIs(t, e.auth.ForgotPassword(ctx, "nobody@example.com"), domain.ErrTooManyAttempts)
	assert.Greater(t, e.auth.RetryAfter("nobody@example.com"), 0)

	assert.NoError(t, e.auth.ForgotPassword(ctx, "someone-else@example.com"))
}

func TestAuthUseCase_ForgotPasswordMailFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")
	e.mail.err = errors.New("smtp down")

	assert.NoError(t, e.auth.ForgotPassword(ctx, "alice@example.com"))
}

func TestUserAdminUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "alice")
	bob := e.register(t, "bob")

	users, err := e.admin.Search(ctx, "BO")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.UserID, users[0].ID)

	_, err = e.admin.Update(ctx, bob.UserID, "not-an-email", true)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))

	updated, err := e.admin.Update(ctx, bob.UserID, "Robert@Example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "robert@example.com", updated.Email)

	assert.ErrorIs(t, e.admin.Delete(ctx, admin, admin.UserID), domain.ErrForbidden)
	require.NoError(t, e.admin.Delete(ctx, admin, bob.UserID))

	_, err = e.auth.Me(ctx, bob.UserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthUseCase_ResetPasswordStoreDown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")

	require.NoError(t, e.auth.ForgotPassword(ctx, "alice@example.com"))
	require.Len(t, e.mail.sent, 1)
	token := e.mail.sent[0].token

	e.mr.SetError("ERR store unavailable")
	err := e.auth.ResetPassword(ctx, token, "newpass1", "newpass1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
	e.mr.SetError("")

	_, _, err = e.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err, "password must be unchanged when the token was not taken")

	require.NoError(t, e.auth.ResetPassword(ctx, token, "newpass1", "newpass1"))
	assert.ErrorIs(t, e.auth.ResetPassword(ctx, token, "newpass1", "newpass1"), domain.ErrInvalidToken)
}

func TestAuthUseCase_RefreshStoreDown(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice")

	_, tokens, err := e.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	e.mr.SetError("ERR store unavailable")
	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	require.Error(t, err)
	e.mr.SetError("")

	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	_, err = e.auth.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
