package engagement

import (
	"context"
	"time"

	"linkcook-go/internal/domain/identity"
)

// EntityChecker reports whether the target of a toggle exists.
type EntityChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     Repository
	checkers map[Kind]EntityChecker
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, checkers: make(map[Kind]EntityChecker)}
}

// Register installs the existence check for a kind. Kinds without a checker
// cannot be toggled.
func (s *Service) Register(kind Kind, checker EntityChecker) {
	s.checkers[kind] = checker
}

// Toggle flips the membership of who in the engagement set of the entity and
// returns the resulting membership and count. Calling it twice restores the
// original state. Existence is checked under the entity lock.
func (s *Service) Toggle(ctx context.Context, who identity.Identity, kind Kind, entityID string) (Result, error) {
	if !who.IsAuthenticated() {
		return Result{}, ErrUnauthenticated
	}
	checker, ok := s.checkers[kind]
	if !ok || !kind.Valid() {
		return Result{}, ErrUnknownKind
	}

	var result Result
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Lock(ctx, kind, entityID); err != nil {
			return err
		}
		// Deletes hold the same lock, so the entity cannot vanish before
		// the mark is written.
		exists, err := checker.Exists(ctx, entityID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrEntityNotFound
		}

		removed, err := tx.DeleteMark(ctx, kind, entityID, who.ID)
		if err != nil {
			return err
		}
		if !removed {
			mark := Mark{
				Kind:      string(kind),
				EntityID:  entityID,
				UserID:    who.ID,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.AddMark(ctx, &mark); err != nil {
				return err
			}
		}

		count, err := tx.CountMarks(ctx, kind, entityID)
		if err != nil {
			return err
		}
		result = Result{IsMember: !removed, Count: count}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

func (s *Service) State(ctx context.Context, who identity.Identity, kind Kind, entityID string) (Result, error) {
	count, err := s.repo.CountMarks(ctx, kind, entityID)
	if err != nil {
		return Result{}, err
	}
	if !who.IsAuthenticated() {
		return Result{Count: count}, nil
	}
	member, err := s.repo.HasMark(ctx, kind, entityID, who.ID)
	if err != nil {
		return Result{}, err
	}
	return Result{IsMember: member, Count: count}, nil
}
