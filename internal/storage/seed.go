package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"eatsplit/internal/core"
)

// SeedNone disables seeding when used as the seed file name.
const SeedNone = "none"

// seedFile mirrors the TOML layout:
//
//	[[friend]]
//	id = "118836"
//	name = "Clark"
//	image = "https://i.pravatar.cc/48?u=118836"
//	balance = -7
type seedFile struct {
	Friends []seedFriend `toml:"friend"`
}

type seedFriend struct {
	ID      string  `toml:"id"`
	Name    string  `toml:"name"`
	Image   string  `toml:"image"`
	Balance float64 `toml:"balance"`
}

// DefaultSeed returns the friends a fresh ledger starts with.
func DefaultSeed() []core.Friend {
	return []core.Friend{
		{ID: "118836", Name: "Clark", Image: "https://i.pravatar.cc/48?u=118836", Balance: core.FromUnits(-7)},
		{ID: "933372", Name: "Sarah", Image: "https://i.pravatar.cc/48?u=933372", Balance: core.FromUnits(20)},
		{ID: "499476", Name: "Anthony", Image: "https://i.pravatar.cc/48?u=499476", Balance: core.FromUnits(0)},
	}
}

// LoadSeed resolves the seed for a given path: empty means DefaultSeed,
// SeedNone means no friends, anything else is read as a TOML file.
func LoadSeed(path string) ([]core.Friend, error) {
	switch strings.TrimSpace(path) {
	case "":
		return DefaultSeed(), nil
	case SeedNone:
		return nil, nil
	}

	var sf seedFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return sf.friends()
}

// ParseSeed decodes seed friends from TOML text.
func ParseSeed(data string) ([]core.Friend, error) {
	var sf seedFile
	if _, err := toml.Decode(data, &sf); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return sf.friends()
}

func (sf seedFile) friends() ([]core.Friend, error) {
	seen := make(map[string]struct{}, len(sf.Friends))
	out := make([]core.Friend, 0, len(sf.Friends))
	for i, sfr := range sf.Friends {
		f := core.Friend{
			ID:      strings.TrimSpace(sfr.ID),
			Name:    strings.TrimSpace(sfr.Name),
			Image:   strings.TrimSpace(sfr.Image),
			Balance: core.Money{Cents: decimal.NewFromFloat(sfr.Balance).Shift(2).Round(0).IntPart()},
		}
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("seed friend #%d: %w", i+1, err)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("seed friend #%d (%s): %w", i+1, f.ID, ErrDuplicateID)
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// Seed inserts friends into an empty store, preserving their order.
func Seed(ctx context.Context, s FriendStore, friends []core.Friend) error {
	for _, f := range friends {
		if err := s.Insert(ctx, f); err != nil {
			return fmt.Errorf("seed %s: %w", f.ID, err)
		}
	}
	return nil
}
