package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

const schema = `
CREATE TABLE IF NOT EXISTS fixtures (
	key        TEXT PRIMARY KEY,
	opponent   TEXT NOT NULL,
	match_date TEXT NOT NULL,
	kickoff    TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '',
	event_id   TEXT NOT NULL DEFAULT '',
	announced  INTEGER NOT NULL DEFAULT 0
);
`

// SyncedFixture is one row of sync state: a fixture plus its mapping to the
// remote scheduled event and whether its announcement went out. The announced
// flag is what makes re-running a cycle after a partial failure safe.
type SyncedFixture struct {
	Fixture   fixture.Fixture
	EventID   string
	Announced bool
}

// Store persists sync state in a local sqlite database. It doubles as the
// previous-cycle snapshot source, so restarts never duplicate remote events
// or announcements.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the state database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the full sync state keyed by fixture identity key. An empty
// database yields an empty map; the first cycle bootstraps from nothing.
func (s *Store) Load() (map[string]SyncedFixture, error) {
	rows, err := s.db.Query(`SELECT key, opponent, match_date, kickoff, location, event_id, announced FROM fixtures`)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]SyncedFixture)
	for rows.Next() {
		var (
			key, opponent, matchDate, kickoffText, location, eventID string
			announced                                                bool
		)
		if err := rows.Scan(&key, &opponent, &matchDate, &kickoffText, &location, &eventID, &announced); err != nil {
			return nil, fmt.Errorf("scanning state row: %w", err)
		}

		kickoff, err := time.Parse(time.RFC3339, kickoffText)
		if err != nil {
			return nil, fmt.Errorf("bad kickoff in state row %s: %w", key, err)
		}

		state[key] = SyncedFixture{
			Fixture: fixture.Fixture{
				Opponent: opponent,
				Kickoff:  kickoff.UTC(),
				End:      kickoff.UTC().Add(fixture.MatchWindow),
				Location: location,
				Date:     matchDate,
			},
			EventID:   eventID,
			Announced: announced,
		}
	}
	return state, rows.Err()
}

// Put upserts a sync state row.
func (s *Store) Put(key string, sf SyncedFixture) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO fixtures(key, opponent, match_date, kickoff, location, event_id, announced)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key,
		sf.Fixture.Opponent,
		sf.Fixture.Date,
		sf.Fixture.Kickoff.UTC().Format(time.RFC3339),
		sf.Fixture.Location,
		sf.EventID,
		sf.Announced,
	)
	if err != nil {
		return fmt.Errorf("saving state row %s: %w", key, err)
	}
	return nil
}

// MarkAnnounced flips the announced flag for a fixture.
func (s *Store) MarkAnnounced(key string) error {
	_, err := s.db.Exec(`UPDATE fixtures SET announced = 1 WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("marking %s announced: %w", key, err)
	}
	return nil
}

// Delete removes a sync state row.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM fixtures WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("deleting state row %s: %w", key, err)
	}
	return nil
}
