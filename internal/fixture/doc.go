// Package fixture defines the match fixture entity and the snapshot diff.
//
// A fixture's identity is (opponent, club-local date); the schedule page has
// no stable IDs, and this rule makes a rescheduled kickoff on the same day an
// update instead of a remove-plus-add. Diff classifies a freshly parsed
// fixture list against the previous snapshot into added, updated, unchanged
// and removed sets.
package fixture
