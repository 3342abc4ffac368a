package learning

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/asteroid-belt/learnpath/internal/hash"
	"github.com/asteroid-belt/learnpath/internal/models"
	"github.com/asteroid-belt/learnpath/internal/validation"
)

// passwordSymbols are the special characters a password must draw from.
const passwordSymbols = "!@#$%^&*"

// Registration is the input of Register.
type Registration struct {
	ID       string `validate:"required,alphanum,min=3,max=64"`
	Name     string `validate:"required,singleline,min=2,max=100"`
	Email    string `validate:"required,singleline,email"`
	Password string `validate:"required,min=8,max=128"`
}

func (r *Registration) normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// checkPasswordStrength requires an upper and a lower case letter, a digit
// and one of passwordSymbols.
func checkPasswordStrength(pw string) error {
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if !symbol {
		missing = append(missing, "one of "+passwordSymbols)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: password needs %s", models.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Register validates reg, hashes the password and writes a new learner record.
func (s *service) Register(ctx context.Context, reg Registration) (*models.Learner, error) {
	reg.normalize()
	if err := validation.Struct(reg); err != nil {
		return nil, err
	}
	if err := checkPasswordStrength(reg.Password); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.learners.Exists(reg.ID) {
		return nil, fmt.Errorf("learner %s: %w", reg.ID, models.ErrAlreadyExists)
	}

	digest, err := hash.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	l := models.NewLearner(reg.ID, reg.Name, reg.Email, digest)
	if err := s.learners.Save(l); err != nil {
		return nil, fmt.Errorf("save learner %s: %w", l.ID, err)
	}

	s.telemetry.TrackLearnerRegistered(l.ID)
	s.log.Info().Str("learner", l.ID).Msg("registered")
	return l, nil
}

// Authenticate checks password against the stored digest. Attempts are
// throttled per process. A legacy digest is replaced by an argon2id digest
// after a successful check.
func (s *service) Authenticate(ctx context.Context, learnerID, password string) (*models.Learner, error) {
	if !s.limiter.Allow() {
		return nil, models.ErrRateLimited
	}
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" || password == "" {
		return nil, fmt.Errorf("%w: learner id and password are required", models.ErrValidation)
	}

	l, err := s.Learner(learnerID)
	if err != nil {
		return nil, err
	}

	ok, err := hash.VerifyPassword(l.PasswordDigest, password)
	if err != nil {
		s.log.Warn().Err(err).Str("learner", l.ID).Msg("stored password digest is unreadable")
	}
	if !ok {
		s.telemetry.TrackLearnerLoggedIn(l.ID, false, false)
		return nil, models.ErrInvalidCredentials
	}

	upgraded := false
	if hash.IsLegacy(l.PasswordDigest) {
		upgraded = s.upgradeDigest(l, password)
	}

	s.telemetry.TrackLearnerLoggedIn(l.ID, true, upgraded)
	return l, nil
}

// upgradeDigest rehashes password with argon2id and saves l. Failure leaves
// the legacy digest in place.
func (s *service) upgradeDigest(l *models.Learner, password string) bool {
	digest, err := hash.HashPassword(password)
	if err != nil {
		s.log.Warn().Err(err).Str("learner", l.ID).Msg("failed to upgrade password digest")
		return false
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	legacy := l.PasswordDigest
	l.PasswordDigest = digest
	if err := s.learners.Save(l); err != nil {
		l.PasswordDigest = legacy
		s.log.Warn().Err(err).Str("learner", l.ID).Msg("failed to save upgraded password digest")
		return false
	}
	s.log.Info().Str("learner", l.ID).Msg("upgraded legacy password digest")
	return true
}
