package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// InterestOp selects how UpdateInterests changes the interest set.
type InterestOp string

const (
	InterestsSet    InterestOp = "set"
	InterestsAdd    InterestOp = "add"
	InterestsRemove InterestOp = "remove"
	InterestsClear  InterestOp = "clear"
)

// ParseInterestOp parses an operation name.
func ParseInterestOp(s string) (InterestOp, error) {
	op := InterestOp(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case InterestsSet, InterestsAdd, InterestsRemove, InterestsClear:
		return op, nil
	}
	return "", fmt.Errorf("%w: unknown interests operation %q", models.ErrValidation, s)
}

// parseCategories splits names on commas and parses each part. Unknown names
// are returned separately.
func parseCategories(names []string) (valid []models.Category, invalid []string) {
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			c, err := models.ParseCategory(part)
			if err != nil {
				invalid = append(invalid, part)
				continue
			}
			valid = append(valid, c)
		}
	}
	return valid, invalid
}

// UpdateInterests applies op to the learner's interests. Unknown category
// names are ignored and returned. Set and add fail when no name is valid.
func (s *service) UpdateInterests(ctx context.Context, learnerID string, op InterestOp, names []string) (*models.Learner, []string, error) {
	cats, invalid := parseCategories(names)

	switch op {
	case InterestsSet, InterestsAdd:
		if len(cats) == 0 {
			return nil, invalid, fmt.Errorf("%w: no valid categories given", models.ErrValidation)
		}
	case InterestsRemove, InterestsClear:
	default:
		return nil, invalid, fmt.Errorf("%w: unknown interests operation %q", models.ErrValidation, op)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	l, err := s.learners.Update(learnerID, func(l *models.Learner) error {
		switch op {
		case InterestsSet:
			l.SetInterests(cats...)
		case InterestsAdd:
			l.AddInterests(cats...)
		case InterestsRemove:
			l.RemoveInterests(cats...)
		case InterestsClear:
			l.Interests = nil
		}
		return nil
	})
	if err != nil {
		return l, invalid, err
	}

	s.telemetry.TrackInterestsUpdated(l.ID, len(l.Interests))
	return l, invalid, nil
}
