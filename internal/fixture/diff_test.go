package fixture

import (
	"testing"
	"time"
)

func mk(opponent string, day, hour int, location string) Fixture {
	kickoff := time.Date(2024, 5, day, hour, 0, 0, 0, pacific)
	return New(opponent, kickoff, pacific, location)
}

func TestDiff(t *testing.T) {
	t.Run("rescheduled match is updated, new opponent is added", func(t *testing.T) {
		// Previous cycle knew TeamA on May 1 at 14:00. The page now shows
		// TeamA at 15:00 the same day plus a brand new TeamB fixture.
		previous := BuildSnapshot([]Fixture{mk("TeamA", 1, 14, "")})
		current := []Fixture{mk("TeamA", 1, 15, ""), mk("TeamB", 8, 10, "")}

		c := Diff(previous, current)

		if len(c.Updated) != 1 || c.Updated[0].Opponent != "TeamA" {
			t.Fatalf("expected TeamA to be updated, got %+v", c.Updated)
		}
		if got := c.Updated[0].Kickoff; !got.Equal(mk("TeamA", 1, 15, "").Kickoff) {
			t.Errorf("expected updated kickoff at 15:00, got %v", got)
		}
		if len(c.Added) != 1 || c.Added[0].Opponent != "TeamB" {
			t.Fatalf("expected TeamB to be added, got %+v", c.Added)
		}
		if len(c.Removed) != 0 {
			t.Errorf("expected no removals, got %+v", c.Removed)
		}
		if len(c.Unchanged) != 0 {
			t.Errorf("expected no unchanged fixtures, got %+v", c.Unchanged)
		}
	})

	t.Run("identical fixture is unchanged", func(t *testing.T) {
		f := mk("TeamA", 1, 14, "Home Field")
		c := Diff(BuildSnapshot([]Fixture{f}), []Fixture{f})

		if len(c.Unchanged) != 1 {
			t.Fatalf("expected 1 unchanged fixture, got %d", len(c.Unchanged))
		}
		if len(c.Added)+len(c.Updated)+len(c.Removed) != 0 {
			t.Errorf("expected no other changes, got %+v", c)
		}
	})

	t.Run("location-only change is unchanged by policy", func(t *testing.T) {
		previous := BuildSnapshot([]Fixture{mk("TeamA", 1, 14, "Home Field")})
		c := Diff(previous, []Fixture{mk("TeamA", 1, 14, "Memorial Stadium")})

		if len(c.Unchanged) != 1 {
			t.Fatalf("expected a location-only change to be unchanged, got %+v", c)
		}
		if c.Unchanged[0].Location != "Memorial Stadium" {
			t.Error("expected unchanged result to carry the new location")
		}
	})

	t.Run("vanished fixture is removed", func(t *testing.T) {
		previous := BuildSnapshot([]Fixture{mk("TeamA", 1, 14, ""), mk("TeamB", 8, 10, "")})
		c := Diff(previous, []Fixture{mk("TeamA", 1, 14, "")})

		if len(c.Removed) != 1 || c.Removed[0].Opponent != "TeamB" {
			t.Fatalf("expected TeamB to be removed, got %+v", c.Removed)
		}
	})

	t.Run("empty previous snapshot adds everything", func(t *testing.T) {
		current := []Fixture{mk("TeamA", 1, 14, ""), mk("TeamB", 8, 10, "")}
		c := Diff(Snapshot{}, current)

		if len(c.Added) != 2 {
			t.Fatalf("expected 2 added fixtures, got %d", len(c.Added))
		}
	})

	t.Run("duplicate rows collapse to one fixture", func(t *testing.T) {
		f := mk("TeamA", 1, 14, "")
		c := Diff(Snapshot{}, []Fixture{f, f})

		if len(c.Added) != 1 {
			t.Fatalf("expected duplicates to collapse, got %d added", len(c.Added))
		}
	})
}

func TestDiffPartition(t *testing.T) {
	// Added, Updated and Unchanged must partition the current set, and
	// Removed must be a subset of the previous one.
	previous := BuildSnapshot([]Fixture{
		mk("TeamA", 1, 14, ""),
		mk("TeamB", 8, 10, ""),
		mk("TeamC", 15, 19, "Away"),
	})
	current := []Fixture{
		mk("TeamA", 1, 15, ""),  // updated
		mk("TeamB", 8, 10, ""),  // unchanged
		mk("TeamD", 22, 12, ""), // added
	}

	c := Diff(previous, current)

	if got := len(c.Added) + len(c.Updated) + len(c.Unchanged); got != len(current) {
		t.Errorf("expected partition of current set (%d), got %d", len(current), got)
	}

	seen := make(map[string]int)
	for _, group := range [][]Fixture{c.Added, c.Updated, c.Unchanged} {
		for _, f := range group {
			seen[f.Key()]++
		}
	}
	for key, n := range seen {
		if n != 1 {
			t.Errorf("key %s appeared in %d groups, expected exactly 1", key, n)
		}
	}

	for _, f := range c.Removed {
		if _, ok := previous[f.Key()]; !ok {
			t.Errorf("removed fixture %s was not in the previous snapshot", f.Opponent)
		}
	}
}

func TestDiffIdempotent(t *testing.T) {
	previous := BuildSnapshot([]Fixture{mk("TeamA", 1, 14, ""), mk("TeamB", 8, 10, "")})
	current := []Fixture{mk("TeamA", 1, 15, ""), mk("TeamC", 15, 19, "")}

	first := Diff(previous, current)
	second := Diff(previous, current)

	for name, pair := range map[string][2][]Fixture{
		"added":     {first.Added, second.Added},
		"updated":   {first.Updated, second.Updated},
		"unchanged": {first.Unchanged, second.Unchanged},
		"removed":   {first.Removed, second.Removed},
	} {
		a, b := pair[0], pair[1]
		if len(a) != len(b) {
			t.Fatalf("%s: lengths differ between runs: %d vs %d", name, len(a), len(b))
		}
		for i := range a {
			if a[i].Key() != b[i].Key() || !a[i].Kickoff.Equal(b[i].Kickoff) {
				t.Errorf("%s[%d]: results differ between runs", name, i)
			}
		}
	}
}

func TestDiffOrderIsDeterministic(t *testing.T) {
	current := []Fixture{mk("TeamC", 15, 19, ""), mk("TeamA", 1, 14, ""), mk("TeamB", 8, 10, "")}
	c := Diff(Snapshot{}, current)

	want := []string{"TeamA", "TeamB", "TeamC"}
	for i, opponent := range want {
		if c.Added[i].Opponent != opponent {
			t.Fatalf("expected added[%d] = %s, got %s", i, opponent, c.Added[i].Opponent)
		}
	}
}
