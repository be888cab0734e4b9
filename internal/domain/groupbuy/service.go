package groupbuy

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkcook-go/internal/domain/identity"
	"linkcook-go/internal/domain/ownership"
	"linkcook-go/internal/domain/textutil"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	now   func() time.Time

	// floors holds the newest version committed through this service per
	// id. Snapshots older than the floor are never cached.
	mu     sync.Mutex
	floors map[string]int64
}

// deletedFloor keeps snapshots of deleted group buys out of the cache.
const deletedFloor = math.MaxInt64

func NewService(repo Repository, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		floors: make(map[string]int64),
	}
}

// SetClock replaces the time source used for closure checks.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]GroupBuy, int64, error) {
	filter.Query = textutil.Clean(filter.Query)
	filter.Region = textutil.Clean(filter.Region)
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*GroupBuy, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached, nil
	}

	return s.load(ctx, id)
}

// load reads the row and offers it to the cache.
func (s *Service) load(ctx context.Context, id string) (*GroupBuy, error) {
	groupBuy, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(groupBuy)
	return groupBuy, nil
}

// remember caches groupBuy unless a newer version was committed after it was
// read. Reads race with joins, so a slow reader must not pin a stale snapshot.
func (s *Service) remember(groupBuy *GroupBuy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 || groupBuy.Version < s.floors[groupBuy.ID] {
		return
	}
	s.cache.Set(groupBuy.ID, groupBuy, s.ttl)
}

// committed records that version of id is now stored and evicts anything
// older from the cache.
func (s *Service) committed(id string, version int64) {
	s.mu.Lock()
	if version > s.floors[id] {
		s.floors[id] = version
	}
	s.cache.Delete(id)
	s.mu.Unlock()
}

func (s *Service) forgetDeleted(id string) {
	s.committed(id, deletedFloor)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Forget drops the cached snapshot after a change made outside this service,
// such as a bookmark toggle.
func (s *Service) Forget(id string) {
	s.cache.Delete(id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*GroupBuy, error) {
	if !input.Owner.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	title := textutil.Clean(input.Title)
	item := textutil.Clean(input.Item)
	if title == "" {
		return nil, invalid("title is required")
	}
	if item == "" {
		return nil, invalid("item is required")
	}
	if input.TotalCapacity <= 0 {
		return nil, invalid("totalQuantity must be positive")
	}
	if input.PricePerUnit < 0 {
		return nil, invalid("pricePerUnit must not be negative")
	}
	if !input.Deadline.After(s.now()) {
		return nil, invalid("deadline must be in the future")
	}

	groupBuy := GroupBuy{
		ID:            uuid.NewString(),
		Title:         title,
		Item:          item,
		Description:   textutil.Clean(input.Description),
		TotalCapacity: input.TotalCapacity,
		PricePerUnit:  input.PricePerUnit,
		Deadline:      input.Deadline.UTC(),
		Location:      textutil.Clean(input.Location),
		Region:        textutil.Clean(input.Region),
		Image:         textutil.Clean(input.Image),
		OwnerID:       ownership.OwnerOf(input.Owner),
		OwnerName:     input.Owner.Label(),
		Version:       1,
	}
	if err := s.repo.Create(ctx, &groupBuy); err != nil {
		return nil, err
	}

	groupBuy.Participants = []Participant{}
	groupBuy.BookmarkedBy = []string{}
	return &groupBuy, nil
}

func (s *Service) Update(ctx context.Context, who identity.Identity, id string, input UpdateInput) (*GroupBuy, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	var version int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownership.Require(current.OwnerID, who); err != nil {
			return err
		}

		updates, err := s.buildUpdates(current, input)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		ok, err := tx.UpdateFields(ctx, id, current.Version, updates)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentUpdate
		}
		version = current.Version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	if version > 0 {
		s.committed(id, version)
	}
	return s.load(ctx, id)
}

func (s *Service) buildUpdates(current *GroupBuy, input UpdateInput) (map[string]interface{}, error) {
	now := s.now()
	if input.touchesSchedule() && IsClosed(current, now) {
		return nil, ErrAlreadyClosed
	}

	updates := make(map[string]interface{})

	if input.Title != nil {
		title := textutil.Clean(*input.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		updates["title"] = title
	}
	if input.Item != nil {
		item := textutil.Clean(*input.Item)
		if item == "" {
			return nil, invalid("item is required")
		}
		updates["item"] = item
	}
	if input.Description != nil {
		updates["description"] = textutil.Clean(*input.Description)
	}
	if input.Location != nil {
		updates["location"] = textutil.Clean(*input.Location)
	}
	if input.Region != nil {
		updates["region"] = textutil.Clean(*input.Region)
	}
	if input.Image != nil {
		updates["image"] = textutil.Clean(*input.Image)
	}
	if input.PricePerUnit != nil {
		if *input.PricePerUnit < 0 {
			return nil, invalid("pricePerUnit must not be negative")
		}
		updates["price_per_unit"] = *input.PricePerUnit
	}
	if input.TotalCapacity != nil {
		if *input.TotalCapacity <= 0 {
			return nil, invalid("totalQuantity must be positive")
		}
		if *input.TotalCapacity < current.ParticipantCount {
			return nil, ErrCapacityBelowCount
		}
		updates["total_capacity"] = *input.TotalCapacity
	}
	if input.Deadline != nil {
		if !input.Deadline.After(now) {
			return nil, invalid("deadline must be in the future")
		}
		updates["deadline"] = input.Deadline.UTC()
	}

	return updates, nil
}

func (s *Service) Delete(ctx context.Context, who identity.Identity, id string) error {
	if !who.IsAuthenticated() {
		return ErrUnauthenticated
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := ownership.Require(current.OwnerID, who); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.forgetDeleted(id)
	return nil
}

// Join admits who as a participant. Units is the requested participation
// count; zero means the default of one and anything else is rejected.
// A closed purchase rejects every join, including repeats by existing
// participants. Joining an open purchase twice returns the current snapshot.
func (s *Service) Join(ctx context.Context, who identity.Identity, id string, units int) (*GroupBuy, error) {
	if !who.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if units != 0 && units != 1 {
		return nil, ErrInvalidUnits
	}

	var version int64
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		now := s.now()
		if IsDeadlinePassed(current, now) {
			return ErrAlreadyClosed
		}
		if IsFull(current) {
			return ErrCapacityExceeded
		}

		member, err := tx.IsParticipant(ctx, id, who.ID)
		if err != nil {
			return err
		}
		if member {
			return nil
		}

		added, err := tx.AddParticipant(ctx, &Participant{
			GroupBuyID:  id,
			UserID:      who.ID,
			DisplayName: who.Label(),
			JoinedAt:    now,
		})
		if err != nil {
			return err
		}
		if !added {
			return nil
		}

		ok, err := tx.IncrementParticipants(ctx, id, current.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCapacityExceeded
		}
		version = current.Version + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	if version > 0 {
		s.committed(id, version)
	}
	return s.load(ctx, id)
}
