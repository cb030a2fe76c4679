package service

import (
	"time"

	"github.com/jjenkins/covidash/internal/model"
)

// Aggregator merges directory metadata and statistics into snapshots
type Aggregator struct {
	now func() time.Time
}

// NewAggregator creates an Aggregator stamping snapshots with wall-clock time
func NewAggregator() *Aggregator {
	return &Aggregator{now: time.Now}
}

// NewAggregatorWithClock creates an Aggregator reading time from now
func NewAggregatorWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{now: now}
}

// Merge builds a Snapshot from a resolved (meta, stats) pair. Timestamp is
// the capture time, independent of stats.Updated.
func (a *Aggregator) Merge(meta model.CountryMeta, stats model.CovidStats) model.Snapshot {
	covid := stats
	covid.Updated = model.NormalizeTime(stats.Updated)

	return model.Snapshot{
		Timestamp:  model.NormalizeTime(a.now()),
		Country:    meta.Name,
		Population: meta.Population,
		Currency:   meta.Currency,
		Capital:    meta.Capital,
		Region:     meta.Region,
		Flag:       meta.FlagURL,
		Covid:      covid,
	}
}
