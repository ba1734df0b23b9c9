// Package syncer orchestrates one sync cycle: fetch the schedule page, parse
// it, diff the result against the last-known snapshot, and apply the diff to
// the chat platform (create, reschedule, or delete scheduled events and post
// announcements for new fixtures).
//
// The syncer owns the snapshot and the persisted sync state exclusively.
// Cycles are serialized: the daily timer and the manual command go through
// the same entry point and a second caller is rejected while one is running.
package syncer
