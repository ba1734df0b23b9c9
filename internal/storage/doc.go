// Package storage persists the bot's sync state in sqlite.
//
// Each row maps a fixture identity key to the Discord scheduled event it was
// mirrored into, along with an announced flag. The state is read at cycle
// start (it is the previous cycle's snapshot) and written as the cycle
// applies changes, so a crash mid-cycle only delays work until the next run.
package storage
