package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eatsplit/internal/core"
)

func TestLoadSeedDefaults(t *testing.T) {
	friends, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed default: %v", err)
	}
	if len(friends) != 3 {
		t.Fatalf("expected 3 default friends, got %d", len(friends))
	}
	if friends[0].Name != "Clark" || friends[0].Balance != core.FromUnits(-7) {
		t.Errorf("unexpected first friend: %+v", friends[0])
	}

	none, err := LoadSeed(SeedNone)
	if err != nil || len(none) != 0 {
		t.Fatalf("LoadSeed(none) = %v, %v; want empty", none, err)
	}
}

func TestParseSeed(t *testing.T) {
	friends, err := ParseSeed(`
[[friend]]
id = "a"
name = "Ada"
image = "https://i.pravatar.cc/48?u=a"
balance = -7

[[friend]]
id = "b"
name = "Bob"
image = "https://i.pravatar.cc/48?u=b"
balance = 12.5
`)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}
	if friends[0].Balance.Cents != -700 {
		t.Errorf("Ada balance = %d cents, want -700", friends[0].Balance.Cents)
	}
	if friends[1].Balance.Cents != 1250 {
		t.Errorf("Bob balance = %d cents, want 1250", friends[1].Balance.Cents)
	}
}

func TestParseSeedRejectsDuplicatesAndMissingFields(t *testing.T) {
	_, err := ParseSeed(`
[[friend]]
id = "a"
name = "Ada"
image = "x"

[[friend]]
id = "a"
name = "Again"
image = "y"
`)
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	_, err = ParseSeed(`
[[friend]]
id = "a"
name = ""
image = "x"
`)
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	data := "[[friend]]\nid = \"z\"\nname = \"Zoe\"\nimage = \"img\"\nbalance = 3\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	friends, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(friends) != 1 || friends[0].Name != "Zoe" || friends[0].Balance != core.FromUnits(3) {
		t.Fatalf("unexpected seed: %+v", friends)
	}

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}
