package sky

import (
	"context"
	"strconv"
	"strings"

	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"
	"puttanesca/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_parse_section   = "parse.section"
	report_parse_date_row  = "parse.date-row"
	report_parse_match_row = "parse.match-row"
)

// sky publishes dates with italian month abbreviations, ex. "Sabato 19 Ago 2023"
var months = [12]string{
	"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic",
}

// MonthIndex returns the 0-based index of a month abbreviation.
func MonthIndex(abbr string) (int, bool) {
	for i, m := range months {
		if m == abbr {
			return i, true
		}
	}
	return -1, false
}

type partialMatch struct {
	team1      string
	team2      string
	team1Score *int
	team2Score *int
	team1Icon  string
	team2Icon  string
}

func (p partialMatch) toMatch(round int, date matches.MatchDate) matches.Match {
	return matches.Match{
		MatchDay:   round,
		MatchDate:  date,
		Team1:      p.team1,
		Team2:      p.team2,
		Team1Score: p.team1Score,
		Team2Score: p.team2Score,
		Team1Icon:  p.team1Icon,
		Team2Icon:  p.team2Icon,
	}
}

// ParseMatches extracts every match of a calendar page. Sections and rows
// that do not have the expected shape are skipped, it never fails.
func ParseMatches(ctx context.Context, doc *goquery.Document, tel telemetry.API) []matches.Match {
	_, span := tracer.Start(ctx, "ParseMatches")
	defer span.End()

	result := []matches.Match{}
	sections := doc.Find(`div[data-intersect="true"]`)
	sections.Each(func(i int, section *goquery.Selection) {
		found, ok := parseSection(section, tel)
		if !ok {
			tel.ReportDebug(report_parse_section, "no round heading", i)
			return
		}
		result = append(result, found...)
	})

	span.SetAttributes(
		attribute.Int("sky.sections", sections.Length()),
		attribute.Int("sky.matches", len(result)),
	)
	return result
}

func parseSection(section *goquery.Selection, tel telemetry.API) ([]matches.Match, bool) {
	round, ok := parseRound(section)
	if !ok {
		return nil, false
	}

	var found []matches.Match
	// the date rows precede the match rows they apply to
	var current *matches.MatchDate

	section.Find(".ftbl__results-table tbody tr").Each(func(i int, row *goquery.Selection) {
		switch {
		case row.HasClass("ftbl__match-data-row"):
			date, ok := parseDateRow(row)
			if !ok {
				tel.ReportDebug(report_parse_date_row, round, i)
				return
			}
			current = &date
		case row.HasClass("ftbl__match-row"):
			if current == nil {
				tel.ReportDebug(report_parse_match_row, "no date yet", round, i)
				return
			}
			partial, ok := parseMatchRow(row)
			if !ok {
				tel.ReportDebug(report_parse_match_row, round, i)
				return
			}
			found = append(found, partial.toMatch(round, *current))
		}
	})

	return found, true
}

// "Giornata 12" -> 12
func parseRound(section *goquery.Selection) (int, bool) {
	heading := section.Find(".ftbl__results-title").First().
		Find(".ftbl__results-title__heading").First()
	if heading.Length() == 0 {
		return 0, false
	}
	_, rest, found := strings.Cut(strings.TrimSpace(heading.Text()), " ")
	if !found {
		return 0, false
	}
	round, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 31)
	if err != nil {
		return 0, false
	}
	return int(round), true
}

// "Sabato 19 Ago 2023" -> 2023-08-19
func parseDateRow(row *goquery.Selection) (matches.MatchDate, bool) {
	el := row.Find("td span").First()
	if el.Length() == 0 {
		return matches.MatchDate{}, false
	}
	tokens := strings.Fields(el.Text())
	if len(tokens) != 4 {
		return matches.MatchDate{}, false
	}
	day, month, year := tokens[1], tokens[2], tokens[3]

	monthIdx, ok := MonthIndex(month)
	if !ok {
		return matches.MatchDate{}, false
	}
	return matches.NewMatchDate(year, strconv.Itoa(monthIdx+1), day), true
}

func parseTeam(el *goquery.Selection) (name string, icon string, ok bool) {
	if el.Length() == 0 {
		return "", "", false
	}
	contents := el.Contents()
	if contents.Length() < 3 {
		return "", "", false
	}
	name = htmlutil.CleanText(htmlutil.GetText(contents.Get(2)))
	if name == "" {
		return "", "", false
	}
	icon = el.Find(".ftbl__team__icon-wrapper img").First().AttrOr("src", "")
	return name, icon, true
}

func parseGoals(text string) *int {
	goals, err := strconv.ParseUint(strings.TrimSpace(text), 10, 31)
	if err != nil {
		return nil
	}
	value := int(goals)
	return &value
}

// "2 - 1" -> (2, 1), each side falls back to nil on its own
func parseScore(text string) (*int, *int) {
	left, right, found := strings.Cut(text, " - ")
	if !found {
		return nil, nil
	}
	return parseGoals(left), parseGoals(right)
}

func parseMatchRow(row *goquery.Selection) (partialMatch, bool) {
	team1, team1Icon, ok := parseTeam(row.Find(".ftbl__match-row__home span span").First())
	if !ok {
		return partialMatch{}, false
	}
	team2, team2Icon, ok := parseTeam(row.Find(".ftbl__match-row__away span span").First())
	if !ok {
		return partialMatch{}, false
	}

	score := row.Find(".ftbl__match-row__result").First().Find("span").First()
	if score.Length() == 0 {
		return partialMatch{}, false
	}
	team1Score, team2Score := parseScore(score.Text())

	return partialMatch{
		team1:      team1,
		team2:      team2,
		team1Score: team1Score,
		team2Score: team2Score,
		team1Icon:  team1Icon,
		team2Icon:  team2Icon,
	}, true
}
