package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jjenkins/covidash/internal/model"
)

// Directory lists countries with their static metadata
type Directory interface {
	ListCountries(ctx context.Context) ([]model.CountryMeta, error)
}

// StatsLookup resolves live statistics for a country
type StatsLookup interface {
	LookupStats(ctx context.Context, displayName, fallbackCode string) (model.CovidStats, error)
}

// RecordKeeper persists snapshots and lists persisted records
type RecordKeeper interface {
	Save(ctx context.Context, snap model.Snapshot, token string) (model.PersistedRecord, error)
	ListSaved(ctx context.Context, token string) ([]model.PersistedRecord, error)
}

// Dashboard orchestrates the fetch -> merge -> persist workflow and owns the
// state shared by every request: the country list, the current snapshot and
// the session.
type Dashboard struct {
	directory  Directory
	stats      StatsLookup
	records    RecordKeeper
	aggregator *Aggregator
	session    *Session
	metrics    Metrics
	log        logrus.FieldLogger

	mu        sync.RWMutex
	countries []model.CountryMeta
	current   *model.Snapshot
	seq       uint64 // last issued selection
}

// NewDashboard creates a Dashboard with an empty session and no selection
func NewDashboard(directory Directory, stats StatsLookup, records RecordKeeper, aggregator *Aggregator, metrics Metrics, log logrus.FieldLogger) *Dashboard {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Dashboard{
		directory:  directory,
		stats:      stats,
		records:    records,
		aggregator: aggregator,
		session:    &Session{},
		metrics:    metrics,
		log:        log,
	}
}

// LoadCountries fetches the directory and keeps it as the option list.
// On failure the option list is emptied and the error returned.
func (d *Dashboard) LoadCountries(ctx context.Context) ([]model.CountryMeta, error) {
	countries, err := d.directory.ListCountries(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.metrics.ObserveDirectoryLoad(false)
		d.countries = nil
		d.log.WithError(err).Warn("Failed to load countries")
		return nil, err
	}

	d.metrics.ObserveDirectoryLoad(true)
	d.countries = countries
	return countries, nil
}

// Countries returns the option list from the last successful load
func (d *Dashboard) Countries() []model.CountryMeta {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.countries
}

// Find returns the country whose ID matches id. Names are also matched,
// case-insensitively, so a typed country name resolves too.
func (d *Dashboard) Find(id string) (model.CountryMeta, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, c := range d.countries {
		if c.ID() == id {
			return c, true
		}
	}
	for _, c := range d.countries {
		if strings.EqualFold(c.Name, id) || (c.Code != "" && strings.EqualFold(c.Code, id)) {
			return c, true
		}
	}
	return model.CountryMeta{}, false
}

// Select resolves statistics for the country with the given ID and makes the
// merged snapshot current. A selection that completes after a newer one was
// issued is discarded with model.ErrStaleResult, whether its lookup succeeded
// or failed. On any error the current snapshot is left unchanged.
func (d *Dashboard) Select(ctx context.Context, id string) (model.Snapshot, error) {
	meta, ok := d.Find(id)
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%q: %w", id, model.ErrUnknownCountry)
	}

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	stats, err := d.stats.LookupStats(ctx, meta.Name, meta.Code)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.log.WithFields(logrus.Fields{"country": meta.Name, "seq": seq, "latest": d.seq}).Debug("Discarding stale selection")
		return model.Snapshot{}, fmt.Errorf("selection of %s superseded: %w", meta.Name, model.ErrStaleResult)
	}
	if err != nil {
		d.log.WithError(err).WithField("country", meta.Name).Warn("Stats lookup failed")
		return model.Snapshot{}, err
	}

	snap := d.aggregator.Merge(meta, stats)
	d.current = &snap
	return snap, nil
}

// Current returns the current snapshot, if any
func (d *Dashboard) Current() (model.Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == nil {
		return model.Snapshot{}, false
	}
	return *d.current, true
}

// Save persists the current snapshot, attaching the session token when one
// is held. The current snapshot is read, never modified.
func (d *Dashboard) Save(ctx context.Context) (model.PersistedRecord, error) {
	snap, ok := d.Current()
	if !ok {
		return model.PersistedRecord{}, model.ErrNoSelection
	}

	token, _ := d.session.CurrentToken()
	record, err := d.records.Save(ctx, snap, token)
	if err != nil {
		d.log.WithError(err).WithField("country", snap.Country).Warn("Save failed")
		return model.PersistedRecord{}, err
	}

	d.log.WithFields(logrus.Fields{"country": snap.Country, "id": record.ID}).Info("Snapshot saved")
	return record, nil
}

// Records lists persisted records
func (d *Dashboard) Records(ctx context.Context) ([]model.PersistedRecord, error) {
	token, _ := d.session.CurrentToken()
	return d.records.ListSaved(ctx, token)
}

// Login stores a token issued by the authorization flow
func (d *Dashboard) Login(token string) {
	d.session.SetToken(token)
}

// LoggedIn reports whether a token is held
func (d *Dashboard) LoggedIn() bool {
	_, ok := d.session.CurrentToken()
	return ok
}
