package hunters

import (
	"context"

	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"
	"puttanesca/internal/scrapers/sky"
)

const skyHunterName = "Sky Hunter"

// SkyHunter finds the serie a matches published on sky sport.
type SkyHunter struct {
	client *sky.Client
	tel    telemetry.API
}

func NewSkyHunter(opts sky.Options, tel telemetry.API) (SkyHunter, error) {
	client, err := sky.NewClient(opts, tel)
	if err != nil {
		return SkyHunter{}, err
	}
	return SkyHunter{
		client: client,
		tel:    telemetry.NewScopedAPI("hunters", tel),
	}, nil
}

func (SkyHunter) Name() string {
	return skyHunterName
}

func (h SkyHunter) FindMatches(ctx context.Context) ([]matches.Match, error) {
	found, err := h.client.FetchMatches(ctx)
	if err != nil {
		h.tel.ReportBroken("sky.find-matches", err)
		return nil, err
	}
	return found, nil
}
