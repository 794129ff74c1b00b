// Package ledger owns the list of friends and the current selection.
//
// A Ledger is not safe for concurrent use. It is driven by a single event
// loop (a Bubble Tea program, or the HTTP server's session lock).
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eatsplit/internal/core"
	applog "eatsplit/internal/log"
	"eatsplit/internal/storage"
)

// Publisher receives ledger events. Implementations must not block for long;
// failures are logged and never undo the state change.
type Publisher interface {
	PublishFriendAdded(ctx context.Context, f core.Friend) error
	PublishSettlement(ctx context.Context, f core.Friend, delta core.Money) error
}

// Observer is notified synchronously after each applied change.
type Observer interface {
	FriendAdded(f core.Friend)
	Settled(f core.Friend, delta core.Money)
}

type Ledger struct {
	store     storage.FriendStore
	ids       IDGenerator
	publisher Publisher
	observer  Observer
	logger    *slog.Logger

	selected string // empty when nothing is selected
}

type Option func(*Ledger)

func WithPublisher(p Publisher) Option { return func(l *Ledger) { l.publisher = p } }
func WithObserver(o Observer) Option   { return func(l *Ledger) { l.observer = o } }
func WithLogger(lg *slog.Logger) Option {
	return func(l *Ledger) {
		if lg != nil {
			l.logger = lg
		}
	}
}

func New(store storage.FriendStore, ids IDGenerator, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		ids:    ids,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddFriend creates a friend with a zero balance and appends it to the list.
// Empty (or blank) name or image is rejected without touching the store.
func (l *Ledger) AddFriend(ctx context.Context, name, imageRef string) (core.Friend, error) {
	name = strings.TrimSpace(name)
	imageRef = strings.TrimSpace(imageRef)
	if name == "" {
		return core.Friend{}, core.ErrEmptyName
	}
	if imageRef == "" {
		return core.Friend{}, core.ErrEmptyImage
	}

	id := l.ids.NewID()
	f := core.Friend{
		ID:    id,
		Name:  name,
		Image: core.AvatarRef(imageRef, id),
	}
	if err := l.store.Insert(ctx, f); err != nil {
		return core.Friend{}, fmt.Errorf("add friend: %w", err)
	}

	l.logger.InfoContext(ctx, "Friend added",
		applog.NewFields().WithFriend(f).WithOperation(applog.OpCreate).ToSlice()...)
	if l.observer != nil {
		l.observer.FriendAdded(f)
	}
	if l.publisher != nil {
		if err := l.publisher.PublishFriendAdded(ctx, f); err != nil {
			l.logger.ErrorContext(ctx, "Failed to publish friend event",
				applog.NewFields().WithFriend(f).WithOperation(applog.OpPublish).WithError(err).ToSlice()...)
		}
	}
	return f, nil
}

// ToggleSelect selects friendID, or clears the selection if it is already
// selected. It returns the selected friend, or nil when cleared.
func (l *Ledger) ToggleSelect(ctx context.Context, friendID string) (*core.Friend, error) {
	if friendID != "" && friendID == l.selected {
		l.selected = ""
		l.logger.DebugContext(ctx, "Friend deselected", applog.FieldFriendID, friendID)
		return nil, nil
	}

	f, err := l.store.Get(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", friendID, err)
	}
	l.selected = f.ID
	l.logger.DebugContext(ctx, "Friend selected", applog.FieldFriendID, f.ID)
	return &f, nil
}

// Settle adds delta to the selected friend's balance and clears the
// selection. friendID must be the current selection.
func (l *Ledger) Settle(ctx context.Context, friendID string, delta core.Money) (core.Friend, error) {
	if l.selected == "" || friendID != l.selected {
		return core.Friend{}, core.ErrNotSelected
	}

	f, err := l.store.AdjustBalance(ctx, friendID, delta)
	if err != nil {
		if errors.Is(err, core.ErrFriendNotFound) {
			l.selected = ""
		}
		return core.Friend{}, fmt.Errorf("settle %s: %w", friendID, err)
	}
	l.selected = ""

	l.logger.InfoContext(ctx, "Bill settled",
		applog.NewFields().WithFriend(f).WithDelta(delta).WithOperation(applog.OpSettle).ToSlice()...)
	if l.observer != nil {
		l.observer.Settled(f, delta)
	}
	if l.publisher != nil {
		if err := l.publisher.PublishSettlement(ctx, f, delta); err != nil {
			l.logger.ErrorContext(ctx, "Failed to publish settlement event",
				applog.NewFields().WithFriend(f).WithOperation(applog.OpPublish).WithError(err).ToSlice()...)
		}
	}
	return f, nil
}

// ClearSelection drops the selection without changing any balance.
func (l *Ledger) ClearSelection() {
	l.selected = ""
}

// SelectedID returns the selected friend id, or "" when none is selected.
func (l *Ledger) SelectedID() string {
	return l.selected
}

// Selected returns the selected friend, or nil.
func (l *Ledger) Selected(ctx context.Context) (*core.Friend, error) {
	if l.selected == "" {
		return nil, nil
	}
	f, err := l.store.Get(ctx, l.selected)
	if err != nil {
		return nil, fmt.Errorf("get selected: %w", err)
	}
	return &f, nil
}

// Friends returns every friend in insertion order.
func (l *Ledger) Friends(ctx context.Context) ([]core.Friend, error) {
	friends, err := l.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}
