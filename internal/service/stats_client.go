package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/jjenkins/covidash/internal/model"
)

// Lookup outcomes reported to Metrics
const (
	LookupStrict   = "strict"
	LookupFallback = "fallback"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

// StatsClient handles communication with the epidemiological statistics API
type StatsClient struct {
	client  *http.Client
	baseURL string
	metrics Metrics
	log     logrus.FieldLogger
}

// NewStatsClient creates a new statistics API client
func NewStatsClient(baseURL string, metrics Metrics, log logrus.FieldLogger) *StatsClient {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &StatsClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		log:     log,
	}
}

// statsResponse represents the API response for /countries/{query}.
// Counters are decoded as numbers of either kind and rounded.
type statsResponse struct {
	Updated            int64   `json:"updated"`
	Cases              float64 `json:"cases"`
	TodayCases         float64 `json:"todayCases"`
	Deaths             float64 `json:"deaths"`
	TodayDeaths        float64 `json:"todayDeaths"`
	Recovered          float64 `json:"recovered"`
	Active             float64 `json:"active"`
	Critical           float64 `json:"critical"`
	CasesPerOneMillion float64 `json:"casesPerOneMillion"`
}

// errNoMatch marks an attempt that reached the service but found nothing
var errNoMatch = errors.New("no match")

// LookupStats resolves statistics for a country. The display name is tried
// first with strict matching; when that does not succeed and fallbackCode is
// set, the code is tried exactly once with strict matching disabled.
// Network failures end the lookup immediately with model.ErrTransport.
func (c *StatsClient) LookupStats(ctx context.Context, displayName, fallbackCode string) (model.CovidStats, error) {
	log := c.log.WithField("country", displayName)

	stats, err := c.fetch(ctx, displayName, true)
	if err == nil {
		c.metrics.ObserveLookup(LookupStrict)
		return stats, nil
	}
	if !errors.Is(err, errNoMatch) {
		c.metrics.ObserveLookup(LookupError)
		return model.CovidStats{}, fmt.Errorf("failed to fetch stats for %s: %w", displayName, err)
	}

	if fallbackCode == "" {
		c.metrics.ObserveLookup(LookupNotFound)
		return model.CovidStats{}, fmt.Errorf("%s: %w", displayName, model.ErrStatsNotFound)
	}

	log.WithField("code", fallbackCode).Debug("Strict name lookup failed, trying country code")

	stats, err = c.fetch(ctx, fallbackCode, false)
	if err == nil {
		c.metrics.ObserveLookup(LookupFallback)
		return stats, nil
	}
	if !errors.Is(err, errNoMatch) {
		c.metrics.ObserveLookup(LookupError)
		return model.CovidStats{}, fmt.Errorf("failed to fetch stats for %s: %w", displayName, err)
	}

	c.metrics.ObserveLookup(LookupNotFound)
	return model.CovidStats{}, fmt.Errorf("%s: %w", displayName, model.ErrStatsNotFound)
}

// fetch performs one lookup attempt
func (c *StatsClient) fetch(ctx context.Context, query string, strict bool) (model.CovidStats, error) {
	u := fmt.Sprintf("%s/countries/%s?strict=%t", c.baseURL, url.PathEscape(query), strict)

	resp, err := get(ctx, c.client, u)
	if err != nil {
		return model.CovidStats{}, err
	}

	if !resp.ok() {
		c.log.WithFields(logrus.Fields{"query": query, "strict": strict, "status": resp.StatusCode}).Debug("Stats lookup missed")
		return model.CovidStats{}, fmt.Errorf("%w: unexpected status code: %d", errNoMatch, resp.StatusCode)
	}

	// The service answers some misses with 200 and a message body
	if !gjson.GetBytes(resp.Body, "cases").Exists() {
		return model.CovidStats{}, fmt.Errorf("%w: %s", errNoMatch, gjson.GetBytes(resp.Body, "message").String())
	}

	var raw statsResponse
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return model.CovidStats{}, fmt.Errorf("%w: failed to parse stats response: %w", errNoMatch, err)
	}

	return raw.toModel(), nil
}

func (r statsResponse) toModel() model.CovidStats {
	return model.CovidStats{
		Cases:              counter(r.Cases),
		TodayCases:         counter(r.TodayCases),
		Deaths:             counter(r.Deaths),
		TodayDeaths:        counter(r.TodayDeaths),
		Recovered:          counter(r.Recovered),
		Active:             counter(r.Active),
		Critical:           counter(r.Critical),
		CasesPerOneMillion: math.Max(r.CasesPerOneMillion, 0),
		Updated:            model.NormalizeTime(time.UnixMilli(r.Updated)),
	}
}

func counter(v float64) int64 {
	if v < 0 {
		return 0
	}
	return int64(math.Round(v))
}
