package hunters

import (
	"context"
	"fmt"

	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"
	"puttanesca/internal/scrapers/sky"
)

// Hunter is a source of matches.
type Hunter interface {
	Name() string
	FindMatches(ctx context.Context) ([]matches.Match, error)
}

type Options struct {
	Sky sky.Options
	Tel telemetry.API
}

func (o Options) tel() telemetry.API {
	if o.Tel == nil {
		return telemetry.SlogAPI{}
	}
	return o.Tel
}

// Info describes a registered hunter.
type Info struct {
	Key  string
	Name string
}

type constructor = func(opts Options) (Hunter, error)

type entry struct {
	info   Info
	create constructor
}

var registry = []entry{
	{
		info:   Info{Key: "test", Name: testHunterName},
		create: func(Options) (Hunter, error) {
			return TestHunter{}, nil
		},
	},
	{
		info:   Info{Key: "sky", Name: skyHunterName},
		create: func(opts Options) (Hunter, error) {
			return NewSkyHunter(opts.Sky, opts.tel())
		},
	},
}

// Available lists the hunters New accepts, in registration order.
func Available() []Info {
	out := make([]Info, len(registry))
	for i, e := range registry {
		out[i] = e.info
	}
	return out
}

func find(key string) (entry, error) {
	for _, e := range registry {
		if e.info.Key == key {
			return e, nil
		}
	}
	return entry{}, fmt.Errorf("%w: hunter %q", errs.ErrNotFound, key)
}

// Find looks up a hunter by its exact key without constructing it.
func Find(key string) (Info, error) {
	e, err := find(key)
	if err != nil {
		return Info{}, err
	}
	return e.info, nil
}

// New resolves a hunter by its exact key.
func New(key string, opts Options) (Hunter, error) {
	e, err := find(key)
	if err != nil {
		return nil, err
	}
	return e.create(opts)
}
