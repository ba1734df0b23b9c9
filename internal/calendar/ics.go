// Package calendar renders synced fixtures as an iCalendar document, for
// supporters who want the schedule outside Discord.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

// Generate renders the fixtures as a single RFC 5545 VCALENDAR. Events are
// emitted in kickoff order so the output is stable across runs.
func Generate(fixtures []fixture.Fixture, now time.Time) string {
	sorted := make([]fixture.Fixture, len(fixtures))
	copy(sorted, fixtures)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Kickoff.Equal(sorted[j].Kickoff) {
			return sorted[i].Kickoff.Before(sorted[j].Kickoff)
		}
		return sorted[i].Opponent < sorted[j].Opponent
	})

	var ics strings.Builder
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Midlakes United//fourth-official//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(now)
	for _, f := range sorted {
		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@midlakesunited.com\r\n", f.Key()))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(f.Kickoff)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(f.End)))
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(f.Title())))
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(fmt.Sprintf("Match vs %s at %s", f.Opponent, f.Venue()))))
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(f.Venue())))
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
