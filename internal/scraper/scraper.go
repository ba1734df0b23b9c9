package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/midlakesunited/fourth-official/internal/fixture"
)

const (
	UserAgent = "fourth-official/1.0 (github.com/midlakesunited/fourth-official)"
	Timeout   = 15 * time.Second
)

// FetchError indicates the schedule page could not be retrieved: network
// failure, timeout, or a non-2xx response. The cycle aborts and retries on
// the next scheduled run.
type FetchError struct {
	URL    string
	Status int // 0 when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError indicates the page structure is unrecognizable beyond per-row
// tolerance, which usually means the club redesigned the site.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing schedule: " + e.Reason
}

// SkippedRow records a schedule row that could not be turned into a fixture.
// A bad row never aborts the batch; it is reported alongside the parsed set.
type SkippedRow struct {
	Raw    string
	Reason string
}

// Result is the outcome of one fetch-and-parse pass.
type Result struct {
	Fixtures []fixture.Fixture
	Skipped  []SkippedRow
}

// Scraper fetches and parses the club's public schedule page.
type Scraper struct {
	client *http.Client
	url    string
	loc    *time.Location
}

// New creates a Scraper for the given schedule URL. Kickoff times on the page
// carry no zone, so they are interpreted in loc.
func New(url string, loc *time.Location) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url: url,
		loc: loc,
	}
}

// FetchFixtures fetches the schedule page and parses it into fixtures.
func (s *Scraper) FetchFixtures(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: s.url, Status: resp.StatusCode}
	}

	return s.Parse(resp.Body)
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// Parse extracts fixtures from schedule page HTML. Individual malformed rows
// are skipped with a reason; Parse fails outright only when the page no
// longer looks like a schedule at all.
func (s *Scraper) Parse(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading HTML: %w", err)
	}

	// Rows omit the year; it only appears in the page header. No year means
	// nothing can be dated, so treat it as a redesign.
	year := 0
	if header := doc.Find("h1").First(); header.Length() > 0 {
		if m := yearPattern.FindString(header.Text()); m != "" {
			fmt.Sscanf(m, "%d", &year)
		}
	}
	if year == 0 {
		return nil, &ParseError{Reason: "could not determine season year from page header"}
	}

	result := &Result{}

	doc.Find(".Upcoming").Each(func(i int, blk *goquery.Selection) {
		raw := strings.Join(strings.Fields(blk.Text()), " ")

		dateText := strings.TrimSpace(blk.Find(".GameDate").First().Text())
		timeText := strings.TrimSpace(blk.Find(".GameTime").First().Text())
		opponent := strings.TrimSpace(blk.Find(".OpponentName").First().Text())
		location := strings.TrimSpace(blk.Find(".ThemeNight").First().Text())

		switch {
		case opponent == "":
			result.Skipped = append(result.Skipped, SkippedRow{Raw: raw, Reason: "missing opponent"})
			return
		case dateText == "" || timeText == "":
			result.Skipped = append(result.Skipped, SkippedRow{Raw: raw, Reason: "missing date or time"})
			return
		}

		kickoff, err := s.parseKickoff(dateText, timeText, year)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Raw: raw, Reason: err.Error()})
			return
		}

		result.Fixtures = append(result.Fixtures, fixture.New(opponent, kickoff, s.loc, location))
	})

	return result, nil
}

// kickoffLayouts covers the date formats the site has used over time.
var kickoffLayouts = []string{
	"January 2 2006 3:04 PM",
	"Jan 2 2006 3:04 PM",
	"January 2 2006 15:04",
}

func (s *Scraper) parseKickoff(dateText, timeText string, year int) (time.Time, error) {
	text := fmt.Sprintf("%s %d %s", dateText, year, timeText)
	for _, layout := range kickoffLayouts {
		if t, err := time.ParseInLocation(layout, text, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable kickoff %q", text)
}
