package fixture

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// MatchWindow is the assumed duration of a match. The schedule page only
// publishes kickoff times, so every remote event gets this window.
const MatchWindow = 2 * time.Hour

// Fixture represents one scheduled match scraped from the club's schedule page.
type Fixture struct {
	Opponent string    `json:"opponent"`
	Kickoff  time.Time `json:"kickoff"` // UTC
	End      time.Time `json:"end"`     // UTC, Kickoff + MatchWindow
	Location string    `json:"location,omitempty"`
	Date     string    `json:"date"` // match date in the club's timezone, 2006-01-02
}

// New creates a Fixture with End and Date populated. The kickoff may be in any
// zone; it is normalized to UTC, while Date keeps the club-local calendar day
// so that identity survives timezone conversion.
func New(opponent string, kickoff time.Time, loc *time.Location, location string) Fixture {
	return Fixture{
		Opponent: opponent,
		Kickoff:  kickoff.UTC(),
		End:      kickoff.UTC().Add(MatchWindow),
		Location: location,
		Date:     kickoff.In(loc).Format("2006-01-02"),
	}
}

// Key returns the identity key for the fixture. Identity is solely
// (opponent, date): the site has no numeric IDs, and a time-only change on
// the same day must resolve to the same key so a rescheduled match is an
// update rather than a delete + duplicate create.
func (f Fixture) Key() string {
	normalized := strings.ToLower(strings.TrimSpace(f.Opponent))
	h := sha1.New()
	h.Write([]byte(normalized + "|" + f.Date))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Title returns the event name used on the Discord side.
func (f Fixture) Title() string {
	return "Midlakes vs " + f.Opponent
}

// Venue returns the location, falling back to TBD when the page omits it.
func (f Fixture) Venue() string {
	if f.Location == "" {
		return "TBD"
	}
	return f.Location
}
