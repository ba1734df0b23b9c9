package fixture

import "sort"

// Snapshot is the set of fixtures known as of the end of the previous cycle,
// keyed by identity key. It is owned by the syncer and never mutated by the
// diff; Diff is a pure function of its inputs.
type Snapshot map[string]Fixture

// BuildSnapshot creates a snapshot from a list of fixtures. Later duplicates
// of the same key win, mirroring how the page would render a corrected row.
func BuildSnapshot(fixtures []Fixture) Snapshot {
	snap := make(Snapshot, len(fixtures))
	for _, f := range fixtures {
		snap[f.Key()] = f
	}
	return snap
}

// Changes holds the four disjoint outcomes of comparing a new parse against
// the previous snapshot.
type Changes struct {
	Added     []Fixture // identity key not present before
	Updated   []Fixture // same key, kickoff time differs
	Unchanged []Fixture // same key, same kickoff (location-only edits land here)
	Removed   []Fixture // identity key no longer on the page
}

// Diff compares the previous snapshot against the newly parsed fixtures.
// Added, Updated and Unchanged partition the current set; Removed is a subset
// of the previous one. Output order is deterministic (kickoff, then opponent)
// so two runs over the same inputs produce identical results.
func Diff(previous Snapshot, current []Fixture) Changes {
	var c Changes

	seen := make(map[string]bool, len(current))
	for _, f := range current {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		prev, exists := previous[key]
		switch {
		case !exists:
			c.Added = append(c.Added, f)
		case !prev.Kickoff.Equal(f.Kickoff):
			c.Updated = append(c.Updated, f)
		default:
			c.Unchanged = append(c.Unchanged, f)
		}
	}

	for key, f := range previous {
		if !seen[key] {
			c.Removed = append(c.Removed, f)
		}
	}

	sortFixtures(c.Added)
	sortFixtures(c.Updated)
	sortFixtures(c.Unchanged)
	sortFixtures(c.Removed)

	return c
}

func sortFixtures(fixtures []Fixture) {
	sort.Slice(fixtures, func(i, j int) bool {
		if !fixtures[i].Kickoff.Equal(fixtures[j].Kickoff) {
			return fixtures[i].Kickoff.Before(fixtures[j].Kickoff)
		}
		return fixtures[i].Opponent < fixtures[j].Opponent
	})
}
