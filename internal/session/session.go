// Package session holds the signed-in user. Nothing here is secure: login
// takes any well-formed name and email and the password reset only pretends
// to send mail.
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

var ErrInvalidTransition = errors.New("invalid session transition")

type User struct {
	Name   string `validate:"required"`
	Email  string `validate:"required,email"`
	Avatar string
}

// Initial is the letter shown in place of an avatar image.
func (u User) Initial() string {
	for _, r := range strings.TrimSpace(u.Name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

const avatarBase = "https://i.pravatar.cc/150?u="

var validate = validator.New()

// Session is passed explicitly to whoever needs the current user.
type Session struct {
	mu    sync.RWMutex
	state State
	user  User
}

func New() *Session {
	return &Session{}
}

// Login moves Anonymous → Authenticated.
func (s *Session) Login(u User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if err := validate.Struct(u); err != nil {
		return fieldError(err)
	}
	if u.Avatar == "" {
		u.Avatar = avatarBase + url.QueryEscape(strings.ToLower(u.Email))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Anonymous {
		return fmt.Errorf("%w: login while %s", ErrInvalidTransition, s.state)
	}
	s.user = u
	s.state = Authenticated
	return nil
}

// Logout moves Authenticated → Anonymous.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated {
		return fmt.Errorf("%w: logout while %s", ErrInvalidTransition, s.state)
	}
	s.user = User{}
	s.state = Anonymous
	return nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user, if any.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == Authenticated
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("invalid %s format", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
