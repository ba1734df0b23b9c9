// Package scraper provides HTTP fetching and HTML parsing for the Midlakes
// United schedule page.
//
// The scraper fetches the public schedule and extracts upcoming fixtures:
// opponent, kickoff date/time, and venue. Kickoff times are published without
// a year or timezone, so the year is lifted from the page header and times are
// interpreted in the club's configured timezone. Malformed rows are skipped
// individually rather than failing the whole page.
package scraper
