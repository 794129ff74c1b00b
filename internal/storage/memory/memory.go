package memory

import (
	"context"
	"fmt"
	"sync"

	"eatsplit/internal/core"
	"eatsplit/internal/storage"
)

var _ storage.FriendStore = (*Store)(nil)

// Store keeps friends in a map keyed by id plus a slice recording insertion
// order, so lookups and balance updates never scan the list.
type Store struct {
	mu      sync.Mutex
	byID    map[string]core.Friend
	ordered []string
}

func New() *Store {
	return &Store{byID: make(map[string]core.Friend)}
}

// NewSeeded returns a store prefilled with friends, in order.
func NewSeeded(friends []core.Friend) (*Store, error) {
	s := New()
	if err := storage.Seed(context.Background(), s, friends); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Insert(_ context.Context, f core.Friend) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[f.ID]; ok {
		return fmt.Errorf("insert %s: %w", f.ID, storage.ErrDuplicateID)
	}
	s.byID[f.ID] = f
	s.ordered = append(s.ordered, f.ID)
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok {
		return core.Friend{}, core.ErrFriendNotFound
	}
	return f, nil
}

func (s *Store) AdjustBalance(_ context.Context, id string, delta core.Money) (core.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byID[id]
	if !ok {
		return core.Friend{}, core.ErrFriendNotFound
	}
	f.Balance = f.Balance.Add(delta)
	s.byID[id] = f
	return f, nil
}

// List returns a copy; callers may not mutate the store through it.
func (s *Store) List(_ context.Context) ([]core.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Friend, 0, len(s.ordered))
	for _, id := range s.ordered {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
