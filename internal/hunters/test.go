package hunters

import (
	"context"

	"puttanesca/internal/matches"
)

const testHunterName = "Test Hunter"

// TestHunter always finds the same single match, it is used to check a
// processor without network access.
type TestHunter struct{}

func (TestHunter) Name() string {
	return testHunterName
}

func (TestHunter) FindMatches(ctx context.Context) ([]matches.Match, error) {
	return []matches.Match{
		{
			MatchDay:  0,
			MatchDate: matches.NewMatchDate("2023", "01", "01"),
			Team1:     "Blue",
			Team2:     "Red",
		},
	}, nil
}
