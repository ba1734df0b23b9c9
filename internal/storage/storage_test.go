package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

var pacific = time.FixedZone("PDT", -7*3600)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testFixture(opponent string) fixture.Fixture {
	return fixture.New(opponent, time.Date(2026, 5, 1, 14, 0, 0, 0, pacific), pacific, "Memorial Stadium")
}

func TestLoadEmpty(t *testing.T) {
	store := openTestStore(t)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestPutLoadRoundtrip(t *testing.T) {
	store := openTestStore(t)
	f := testFixture("Rainier FC")

	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: f, EventID: "evt-1"}))

	state, err := store.Load()
	require.NoError(t, err)
	require.Len(t, state, 1)

	got, ok := state[f.Key()]
	require.True(t, ok)
	assert.Equal(t, "Rainier FC", got.Fixture.Opponent)
	assert.Equal(t, "2026-05-01", got.Fixture.Date)
	assert.Equal(t, "Memorial Stadium", got.Fixture.Location)
	assert.True(t, got.Fixture.Kickoff.Equal(f.Kickoff))
	assert.True(t, got.Fixture.End.Equal(f.Kickoff.Add(fixture.MatchWindow)))
	assert.Equal(t, "evt-1", got.EventID)
	assert.False(t, got.Announced)
}

func TestPutUpserts(t *testing.T) {
	store := openTestStore(t)
	f := testFixture("Rainier FC")
	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: f, EventID: "evt-1"}))

	// A rescheduled kickoff keeps the identity key but replaces the row.
	moved := fixture.New("Rainier FC", f.Kickoff.Add(time.Hour), time.UTC, "Memorial Stadium")
	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: moved, EventID: "evt-1"}))

	state, err := store.Load()
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.True(t, state[f.Key()].Fixture.Kickoff.Equal(moved.Kickoff))
}

func TestMarkAnnounced(t *testing.T) {
	store := openTestStore(t)
	f := testFixture("Rainier FC")
	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: f, EventID: "evt-1"}))

	require.NoError(t, store.MarkAnnounced(f.Key()))

	state, err := store.Load()
	require.NoError(t, err)
	assert.True(t, state[f.Key()].Announced)
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)
	f := testFixture("Rainier FC")
	other := testFixture("Cascade SC")
	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: f}))
	require.NoError(t, store.Put(other.Key(), SyncedFixture{Fixture: other}))

	require.NoError(t, store.Delete(f.Key()))

	state, err := store.Load()
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Contains(t, state, other.Key())

	// Deleting an absent key is a no-op, not an error.
	require.NoError(t, store.Delete(f.Key()))
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	f := testFixture("Rainier FC")
	require.NoError(t, store.Put(f.Key(), SyncedFixture{Fixture: f, EventID: "evt-1", Announced: true}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	state, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, state, 1)
	assert.Equal(t, "evt-1", state[f.Key()].EventID)
	assert.True(t, state[f.Key()].Announced)
}
