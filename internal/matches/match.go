package matches

import (
	"fmt"
	"strconv"
	"strings"
)

// MatchDate is a calendar date kept as the text tokens it was built from,
// two dates are equal when their tokens are equal.
type MatchDate struct {
	Year  string
	Month string
	Day   string
}

// NewMatchDate builds a date from raw year, month and day tokens.
func NewMatchDate(year, month, day string) MatchDate {
	return MatchDate{
		Year:  strings.TrimSpace(year),
		Month: strings.TrimSpace(month),
		Day:   strings.TrimSpace(day),
	}
}

// ParseMatchDate splits a "YYYY-MM-DD" string, padding on the input is not
// required ("2000-2-1" is accepted).
func ParseMatchDate(value string) (MatchDate, bool) {
	tokens := strings.Split(value, "-")
	if len(tokens) < 3 {
		return MatchDate{}, false
	}
	return NewMatchDate(tokens[0], tokens[1], tokens[2]), true
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// String renders the date as YYYY-MM-DD.
func (d MatchDate) String() string {
	return fmt.Sprintf("%s-%s-%s", padLeft(d.Year, 4), padLeft(d.Month, 2), padLeft(d.Day, 2))
}

// Match is a single fixture as published by a source.
type Match struct {
	// the round (fixture day) index
	MatchDay  int
	MatchDate MatchDate
	Team1     string
	Team2     string
	// nil until the fixture has been played
	Team1Score *int
	Team2Score *int
	// badge image urls, empty when the source does not provide one
	Team1Icon string
	Team2Icon string
}

func formatScore(score *int) string {
	if score == nil {
		return "?"
	}
	return strconv.Itoa(*score)
}

func (m Match) String() string {
	return fmt.Sprintf(
		"Match #%d %s: %s vs %s (%s - %s)",
		m.MatchDay,
		m.MatchDate.String(),
		m.Team1,
		m.Team2,
		formatScore(m.Team1Score),
		formatScore(m.Team2Score),
	)
}

// Score is a helper to take the address of a score literal.
func Score(value int) *int {
	return &value
}
