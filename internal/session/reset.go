package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailFormat   = errors.New("invalid email format")
	ErrEmailDomain   = errors.New("email must contain @ and a valid domain")
)

// ValidateResetEmail checks the address typed into the reset form.
func ValidateResetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return ErrEmailFormat
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.Contains(email[at:], ".") {
		return ErrEmailDomain
	}
	return nil
}

// Resetter pretends to send password reset links.
type Resetter struct {
	delay  time.Duration
	logger *zap.Logger
}

func NewResetter(delay time.Duration, logger *zap.Logger) *Resetter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resetter{delay: delay, logger: logger}
}

// Send validates email and returns once the simulated delivery delay has
// elapsed, or ctx is done.
func (r *Resetter) Send(ctx context.Context, email string) error {
	if err := ValidateResetEmail(email); err != nil {
		return err
	}

	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	r.logger.Info("password reset link sent", zap.String("email", strings.TrimSpace(email)))
	return nil
}
