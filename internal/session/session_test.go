package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoginLogoutCycle(t *testing.T) {
	s := New()
	assert.Equal(t, Anonymous, s.State())
	_, ok := s.User()
	assert.False(t, ok)

	require.NoError(t, s.Login(User{Name: " Leanne Graham ", Email: "Sincere@april.biz"}))
	assert.Equal(t, Authenticated, s.State())

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Leanne Graham", u.Name)
	assert.Equal(t, "L", u.Initial())
	assert.Equal(t, "https://i.pravatar.cc/150?u=sincere%40april.biz", u.Avatar)

	require.NoError(t, s.Logout())
	assert.Equal(t, Anonymous, s.State())
	_, ok = s.User()
	assert.False(t, ok)
}

func TestInvalidTransitions(t *testing.T) {
	s := New()
	err := s.Logout()
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	require.NoError(t, s.Login(User{Name: "a", Email: "a@b.co"}))
	err = s.Login(User{Name: "b", Email: "b@b.co"})
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	u, _ := s.User()
	assert.Equal(t, "a", u.Name, "a rejected login must not replace the user")
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{Email: "a@b.co"}, "name is required"},
		{User{Name: "x"}, "email is required"},
		{User{Name: "x", Email: "not-an-email"}, "invalid email format"},
	}
	for _, tt := range tests {
		s := New()
		err := s.Login(tt.user)
		if assert.Error(t, err) {
			assert.Equal(t, tt.want, err.Error())
		}
		assert.Equal(t, Anonymous, s.State())
	}
}

func TestKeepsGivenAvatar(t *testing.T) {
	s := New()
	require.NoError(t, s.Login(User{Name: "x", Email: "x@y.io", Avatar: "https://img/x.png"}))
	u, _ := s.User()
	assert.Equal(t, "https://img/x.png", u.Avatar)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "anonymous", Anonymous.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "?", User{}.Initial())
}

func TestValidateResetEmail(t *testing.T) {
	assert.ErrorIs(t, ValidateResetEmail(""), ErrEmailRequired)
	assert.ErrorIs(t, ValidateResetEmail("   "), ErrEmailRequired)
	assert.ErrorIs(t, ValidateResetEmail("nobody"), ErrEmailFormat)
	assert.Error(t, ValidateResetEmail("user@localhost"))
	assert.NoError(t, ValidateResetEmail("user@example.com"))
}

func TestResetterSend(t *testing.T) {
	r := NewResetter(5*time.Millisecond, nil)
	require.NoError(t, r.Send(context.Background(), "user@example.com"))
	assert.ErrorIs(t, r.Send(context.Background(), "bad"), ErrEmailFormat)
}

func TestResetterHonoursCancel(t *testing.T) {
	r := NewResetter(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Send(ctx, "user@example.com"), context.Canceled)
}
