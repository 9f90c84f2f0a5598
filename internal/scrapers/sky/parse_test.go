package sky

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadDocument(t testing.TB, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func loadFixture(t testing.TB) *goquery.Document {
	contents, err := os.ReadFile("testdata/calendario.html")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func badge(name string) string {
	return fmt.Sprintf("https://static.sky.it/badges/%s.png", name)
}

func date(t testing.TB, value string) matches.MatchDate {
	d, ok := matches.ParseMatchDate(value)
	if !ok {
		t.Fatal("invalid date", value)
	}
	return d
}

func TestMonthIndex(t *testing.T) {
	expected := []string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}
	for i, abbr := range expected {
		idx, ok := MonthIndex(abbr)
		require.True(t, ok, abbr)
		require.Equal(t, i, idx, abbr)
	}

	for _, abbr := range []string{"", "gen", "GEN", "Jan", "Agosto", "Ago ", "Foo"} {
		_, ok := MonthIndex(abbr)
		require.False(t, ok, abbr)
	}
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		text  string
		team1 *int
		team2 *int
	}{
		{text: "2 - 1", team1: matches.Score(2), team2: matches.Score(1)},
		{text: " 0 - 0 ", team1: matches.Score(0), team2: matches.Score(0)},
		{text: "3 - x", team1: matches.Score(3)},
		{text: "x - 3", team2: matches.Score(3)},
		{text: "-"},
		{text: ""},
		{text: "2-1"},
		{text: "-1 - 2", team2: matches.Score(2)},
	}

	for _, c := range cases {
		team1, team2 := parseScore(c.text)
		require.Empty(t, cmp.Diff(c.team1, team1), c.text)
		require.Empty(t, cmp.Diff(c.team2, team2), c.text)
	}
}

func TestParseDateRow(t *testing.T) {
	cases := []struct {
		text     string
		expected string
		ok       bool
	}{
		{text: "Sabato 19 Ago 2023", expected: "2023-08-19", ok: true},
		{text: "Mercoledì 3 Gen 2024", expected: "2024-01-03", ok: true},
		{text: "  Domenica   31 Dic 2023 ", expected: "2023-12-31", ok: true},
		{text: "Sabato 19 Aug 2023"},
		{text: "Sabato 19 Ago"},
		{text: "19 Ago 2023"},
		{text: "Sabato 19 Ago 2023 20:45"},
		{text: ""},
	}

	for _, c := range cases {
		doc := loadDocument(t, fmt.Sprintf(
			`<table><tbody><tr class="ftbl__match-data-row"><td><span>%s</span></td></tr></tbody></table>`,
			c.text,
		))
		parsed, ok := parseDateRow(doc.Find("tr"))
		require.Equal(t, c.ok, ok, c.text)
		if c.ok {
			require.Equal(t, c.expected, parsed.String(), c.text)
		}
	}
}

func TestParseRound(t *testing.T) {
	cases := []struct {
		heading  string
		expected int
		ok       bool
	}{
		{heading: "Giornata 1", expected: 1, ok: true},
		{heading: "  Giornata 38\n", expected: 38, ok: true},
		{heading: "Giornata X"},
		{heading: "Giornata"},
		{heading: "Giornata -1"},
	}

	for _, c := range cases {
		doc := loadDocument(t, fmt.Sprintf(
			`<div><div class="ftbl__results-title"><h2 class="ftbl__results-title__heading">%s</h2></div></div>`,
			c.heading,
		))
		round, ok := parseRound(doc.Find("body > div"))
		require.Equal(t, c.ok, ok, c.heading)
		require.Equal(t, c.expected, round, c.heading)
	}

	doc := loadDocument(t, `<div><div class="ftbl__results-title"></div></div>`)
	_, ok := parseRound(doc.Find("body > div"))
	require.False(t, ok)
}

func TestParseMatches(t *testing.T) {
	doc := loadFixture(t)
	found := ParseMatches(context.Background(), doc, telemetry.SlogAPI{})

	expected := []matches.Match{
		{
			MatchDay:   1,
			MatchDate:  date(t, "2023-8-19"),
			Team1:      "Inter",
			Team2:      "Monza",
			Team1Score: matches.Score(2),
			Team2Score: matches.Score(0),
			Team1Icon:  badge("inter"),
			Team2Icon:  badge("monza"),
		},
		{
			MatchDay:   1,
			MatchDate:  date(t, "2023-8-19"),
			Team1:      "Empoli",
			Team2:      "Hellas Verona",
			Team1Score: matches.Score(0),
			Team2Score: matches.Score(1),
			Team1Icon:  badge("empoli"),
			Team2Icon:  badge("hellas-verona"),
		},
		{
			MatchDay:  1,
			MatchDate: date(t, "2023-8-20"),
			Team1:     "Roma",
			Team2:     "Salernitana",
			Team1Icon: badge("roma"),
			Team2Icon: badge("salernitana"),
		},
		{
			MatchDay:   1,
			MatchDate:  date(t, "2023-8-20"),
			Team1:      "Sassuolo",
			Team2:      "Atalanta",
			Team1Score: matches.Score(0),
			Team1Icon:  badge("sassuolo"),
			Team2Icon:  badge("atalanta"),
		},
		{
			MatchDay:   2,
			MatchDate:  date(t, "2023-8-28"),
			Team1:      "Lazio",
			Team2:      "Genoa",
			Team1Score: matches.Score(1),
			Team2Score: matches.Score(0),
			Team1Icon:  badge("lazio"),
			Team2Icon:  badge("genoa"),
		},
		{
			MatchDay:  2,
			MatchDate: date(t, "2023-8-28"),
			Team1:     "Fiorentina",
			Team2:     "Lecce",
		},
	}

	diff := cmp.Diff(expected, found)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParseMatchesBestEffort(t *testing.T) {
	t.Run("SectionWithoutMatchRows", func(t *testing.T) {
		doc := loadDocument(t, `
		<div data-intersect="true">
			<div class="ftbl__results-title"><h2 class="ftbl__results-title__heading">Giornata 4</h2></div>
			<table class="ftbl__results-table"><tbody>
				<tr class="ftbl__match-data-row"><td><span>Sabato 16 Set 2023</span></td></tr>
			</tbody></table>
		</div>`)
		found := ParseMatches(context.Background(), doc, telemetry.SlogAPI{})
		require.NotNil(t, found)
		require.Len(t, found, 0)
	})

	t.Run("MatchRowBeforeDateRow", func(t *testing.T) {
		doc := loadDocument(t, `
		<div data-intersect="true">
			<div class="ftbl__results-title"><h2 class="ftbl__results-title__heading">Giornata 7</h2></div>
			<table class="ftbl__results-table"><tbody>
				<tr class="ftbl__match-row">
					<td class="ftbl__match-row__home"><span><span><i></i> <b>Milan</b></span></span></td>
					<td class="ftbl__match-row__result"><span>1 - 0</span></td>
					<td class="ftbl__match-row__away"><span><span><i></i> <b>Lazio</b></span></span></td>
				</tr>
				<tr class="ftbl__match-data-row"><td><span>Sabato 7 Ott 2023</span></td></tr>
				<tr class="ftbl__match-row">
					<td class="ftbl__match-row__home"><span><span><i></i> <b>Roma</b></span></span></td>
					<td class="ftbl__match-row__result"><span>2 - 2</span></td>
					<td class="ftbl__match-row__away"><span><span><i></i> <b>Napoli</b></span></span></td>
				</tr>
			</tbody></table>
		</div>`)
		found := ParseMatches(context.Background(), doc, telemetry.SlogAPI{})
		require.Len(t, found, 1)
		require.Equal(t, "Match #7 2023-10-07: Roma vs Napoli (2 - 2)", found[0].String())
	})

	t.Run("NoSections", func(t *testing.T) {
		doc := loadDocument(t, `<p>nothing to see</p>`)
		found := ParseMatches(context.Background(), doc, telemetry.SlogAPI{})
		require.Len(t, found, 0)
	})
}
