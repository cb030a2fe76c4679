package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jjenkins/covidash/internal/model"
)

// directoryFields restricts the directory response to the fields we consume
const directoryFields = "name,cca2,flags,population,currencies,capital,region"

// DirectoryClient handles communication with the country directory API
type DirectoryClient struct {
	client  *http.Client
	baseURL string
	locale  language.Tag
	log     logrus.FieldLogger
}

// NewDirectoryClient creates a new directory API client. No timeout is set;
// callers bound requests through the context.
func NewDirectoryClient(baseURL string, locale language.Tag, log logrus.FieldLogger) *DirectoryClient {
	return &DirectoryClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		locale:  locale,
		log:     log,
	}
}

// ListCountries retrieves every country, sorted by display name under the
// client's locale collation.
func (c *DirectoryClient) ListCountries(ctx context.Context) ([]model.CountryMeta, error) {
	url := fmt.Sprintf("%s/all?fields=%s", c.baseURL, directoryFields)

	resp, err := get(ctx, c.client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w: %w", model.ErrUpstreamUnavailable, err)
	}
	if !resp.ok() {
		return nil, fmt.Errorf("failed to fetch countries: %w: unexpected status code: %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	}

	countries, err := parseCountries(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse countries response: %w: %w", model.ErrUpstreamUnavailable, err)
	}

	SortCountries(countries, c.locale)

	c.log.WithField("count", len(countries)).Debug("Loaded country directory")
	return countries, nil
}

// parseCountries projects the raw directory records into CountryMeta values.
// Currencies are a JSON object keyed by code; the first key in document
// order is the declared currency.
func parseCountries(body []byte) ([]model.CountryMeta, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array, got %s", root.Type)
	}

	countries := make([]model.CountryMeta, 0, len(root.Array()))
	root.ForEach(func(_, c gjson.Result) bool {
		name := c.Get("name.common").String()
		if name == "" {
			return true
		}

		var currency string
		c.Get("currencies").ForEach(func(code, _ gjson.Result) bool {
			currency = code.String()
			return false
		})

		population := c.Get("population").Int()
		if population < 0 {
			population = 0
		}

		countries = append(countries, model.CountryMeta{
			Name:       name,
			Code:       c.Get("cca2").String(),
			Population: population,
			Currency:   model.StringPtr(currency),
			Capital:    model.StringPtr(c.Get("capital.0").String()),
			Region:     c.Get("region").String(),
			FlagURL:    c.Get("flags.png").String(),
		})
		return true
	})

	return countries, nil
}

// SortCountries orders countries by display name using locale-aware collation
func SortCountries(countries []model.CountryMeta, locale language.Tag) {
	col := collate.New(locale)
	sort.SliceStable(countries, func(i, j int) bool {
		return col.CompareString(countries[i].Name, countries[j].Name) < 0
	})
}
