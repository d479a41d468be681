package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/atinyakov/vh7/internal/storage"
)

type sentMail struct {
	kind, to, name, token string
}

type recordingNotifier struct {
	sent []sentMail
	err  error
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, to, name, token string) error {
	n.sent = append(n.sent, sentMail{"confirm", to, name, token})
	return n.err
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, to, name, token string) error {
	n.sent = append(n.sent, sentMail{"reset", to, name, token})
	return n.err
}

func (n *recordingNotifier) last(t *testing.T) sentMail {
	t.Helper()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

type userFixture struct {
	svc      *UserService
	store    *storage.MemoryStorage
	notifier *recordingNotifier
	logs     *observer.ObservedLogs
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	store, err := storage.CreateMemoryStorage()
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	notifier := &recordingNotifier{}

	return &userFixture{
		svc:      NewUserService(store, newTestAuth(t), notifier, zap.New(core)),
		store:    store,
		notifier: notifier,
		logs:     logs,
	}
}

func (f *userFixture) register(t *testing.T, email, password string) *storage.User {
	t.Helper()

	user, err := f.svc.Register(context.Background(), RegisterInput{Email: email, Password: password, Name: " Jane "})
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)

	user := f.register(t, " Jane@Example.com ", "password123")
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane", user.Name)
	assert.True(t, user.Active)
	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "password123", user.PasswordHash)

	mail := f.notifier.last(t)
	assert.Equal(t, "confirm", mail.kind)
	assert.Equal(t, "jane@example.com", mail.to)

	t.Run("email taken", func(t *testing.T) {
		_, err := f.svc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Password: "password123"})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, []string{"A user with this email address already exists"}, Messages(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.svc.Register(context.Background(), RegisterInput{Email: "not an email", Password: "short"})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Len(t, Messages(err), 2)
	})
}

func TestRegister_MailFailureIsLogged(t *testing.T) {
	f := newUserFixture(t)
	f.notifier.err = errors.New("smtp down")

	user := f.register(t, "a@example.com", "password123")
	assert.NotZero(t, user.ID)
	assert.Equal(t, 1, f.logs.FilterMessage("failed to send confirmation email").Len())
}

func TestLoginAndAuthenticate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.register(t, "login@example.com", "password123")

	_, err := f.svc.Login(ctx, "login@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrUnauthorized)

	token, err := f.svc.Login(ctx, "LOGIN@example.com", "password123")
	require.NoError(t, err)

	got, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	t.Run("api key", func(t *testing.T) {
		key, err := f.svc.GenerateAPIKey(ctx, user)
		require.NoError(t, err)
		require.True(t, IsAPIKey(key))

		got, err := f.svc.Authenticate(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		newKey, err := f.svc.GenerateAPIKey(ctx, user)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, key)
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = f.svc.Authenticate(ctx, newKey)
		assert.NoError(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "garbage")
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, []string{"Could not validate credentials"}, Messages(err))
	})

	t.Run("disabled account", func(t *testing.T) {
		disabled, err := f.store.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		disabled.Active = false
		require.NoError(t, f.store.UpdateUser(ctx, disabled))

		_, err = f.svc.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, []string{"User account is disabled"}, Messages(err))

		_, err = f.svc.Login(ctx, "login@example.com", "password123")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestConfirm(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.register(t, "confirm@example.com", "password123")
	token := f.notifier.last(t).token

	confirmed, err := f.svc.Confirm(ctx, token)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
	assert.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, user.ID, confirmed.ID)

	_, err = f.svc.Confirm(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidInput)

	t.Run("token of a previous email", func(t *testing.T) {
		email := "changed@example.com"
		updated, err := f.svc.Update(ctx, confirmed, UpdateInput{Email: &email})
		require.NoError(t, err)
		assert.False(t, updated.Confirmed)
		assert.Nil(t, updated.ConfirmedAt)

		_, err = f.svc.Confirm(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidInput)

		newToken := f.notifier.last(t).token
		again, err := f.svc.Confirm(ctx, newToken)
		require.NoError(t, err)
		assert.True(t, again.Confirmed)
	})
}

func TestUpdate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.register(t, "update@example.com", "password123")
	f.register(t, "taken@example.com", "password123")
	sent := len(f.notifier.sent)

	blank := "  "
	renamed := "Janet"
	updated, err := f.svc.Update(ctx, user, UpdateInput{Name: &renamed, Email: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.Name)
	assert.Equal(t, "update@example.com", updated.Email)
	assert.Len(t, f.notifier.sent, sent)

	updated, err = f.svc.Update(ctx, updated, UpdateInput{Name: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.Name)

	taken := "taken@example.com"
	_, err = f.svc.Update(ctx, updated, UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPasswordReset(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "reset@example.com", "password123")

	f.svc.ForgotPassword(ctx, "nobody@example.com")
	assert.Equal(t, "confirm", f.notifier.last(t).kind)

	f.svc.ForgotPassword(ctx, "Reset@example.com")
	mail := f.notifier.last(t)
	require.Equal(t, "reset", mail.kind)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, mail.token, "short"), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "bogus", "new-password"), ErrInvalidInput)
	require.NoError(t, f.svc.ResetPassword(ctx, mail.token, "new-password"))

	_, err := f.svc.Login(ctx, "reset@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.Login(ctx, "reset@example.com", "new-password")
	assert.NoError(t, err)
}
