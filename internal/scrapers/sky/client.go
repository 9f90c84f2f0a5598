package sky

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"puttanesca/internal/components/assert"
	"puttanesca/internal/components/errs"
	"puttanesca/internal/components/telemetry"
	"puttanesca/internal/matches"
	"puttanesca/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("puttanesca.scrapers.sky")

const (
	report_client_fetch_matches = "client.fetch-matches"
)

const (
	DefaultUrl     = "https://sport.sky.it/calcio/serie-a/calendario-risultati#giornata-1"
	DefaultTimeout = 6 * time.Second
)

type Options struct {
	Url string `json:"url"`
	// defaults to DefaultTimeout when unset
	TimeoutSeconds   int  `json:"timeout_seconds"`
	CloudflareBypass bool `json:"cloudflare_bypass"`

	// when set, every HTTP exchange is written to it
	Dump restyutil.InstrumentOutput `json:"-"`
}

func (o Options) timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// Client fetches the serie a calendar from sky sport.
type Client struct {
	Url  string
	Http *resty.Client

	tel telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("sky_scraper", tel)

	endpoint := opts.Url
	if endpoint == "" {
		endpoint = DefaultUrl
	}
	_, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse sky url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.timeout())
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	return &Client{
		Url:  endpoint,
		Http: httpClient,
		tel:  tel,
	}, nil
}

// FetchMatches makes a single request to the calendar page and returns
// every match that could be extracted from it.
func (c *Client) FetchMatches(ctx context.Context) ([]matches.Match, error) {
	ctx, span := tracer.Start(ctx, "client:FetchMatches")
	defer span.End()

	span.SetAttributes(attribute.String("sky.url", c.Url))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch calendar")
		return nil, fmt.Errorf("%w: fetch %s: %w", errs.ErrNetwork, c.Url, err)
	}
	if res.IsError() {
		err := fmt.Errorf("%w: fetch %s: unexpected status %s", errs.ErrNetwork, c.Url, res.Status())
		span.SetStatus(codes.Error, "unexpected status")
		c.tel.ReportBroken(report_client_fetch_matches, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse calendar html")
		c.tel.ReportBroken(report_client_fetch_matches, fmt.Errorf("parse: %w", err))
		return nil, fmt.Errorf("%w: parse %s: %w", errs.ErrNetwork, c.Url, err)
	}

	found := ParseMatches(ctx, doc, c.tel)
	c.tel.ReportCount(report_client_fetch_matches, int64(len(found)))
	return found, nil
}
