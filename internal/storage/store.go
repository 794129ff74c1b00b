// Package storage defines the friend store port and the startup seed.
package storage

import (
	"context"
	"errors"

	"eatsplit/internal/core"
)

var ErrDuplicateID = errors.New("duplicate friend id")

// FriendStore is a keyed id→Friend mapping that remembers insertion order.
// Implementations are ephemeral: nothing outlives the process.
type FriendStore interface {
	// Insert appends a new friend. Returns ErrDuplicateID if the id is taken.
	Insert(ctx context.Context, f core.Friend) error

	// Get returns the friend with the given id or core.ErrFriendNotFound.
	Get(ctx context.Context, id string) (core.Friend, error)

	// AdjustBalance adds delta to the friend's balance and returns the
	// updated record. Other friends and the order are untouched.
	AdjustBalance(ctx context.Context, id string, delta core.Money) (core.Friend, error)

	// List returns all friends in insertion order.
	List(ctx context.Context) ([]core.Friend, error)

	Close() error
}
