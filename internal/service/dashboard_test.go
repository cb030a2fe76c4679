package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/covidash/internal/logging"
	"github.com/jjenkins/covidash/internal/model"
)

// fakeDirectory, fakeStats and fakeRecords are test doubles for the
// Dashboard's collaborators. Set only the fields a test needs.
type fakeDirectory struct {
	countries []model.CountryMeta
	err       error
}

func (f *fakeDirectory) ListCountries(ctx context.Context) ([]model.CountryMeta, error) {
	return f.countries, f.err
}

type fakeStats struct {
	lookup func(ctx context.Context, name, code string) (model.CovidStats, error)
}

func (f *fakeStats) LookupStats(ctx context.Context, name, code string) (model.CovidStats, error) {
	return f.lookup(ctx, name, code)
}

type fakeRecords struct {
	mu      sync.Mutex
	saved   []model.PersistedRecord
	tokens  []string
	saveErr error
	listErr error
}

func (f *fakeRecords) Save(ctx context.Context, snap model.Snapshot, token string) (model.PersistedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.saveErr != nil {
		return model.PersistedRecord{}, f.saveErr
	}
	rec := model.PersistedRecord{ID: fmt.Sprintf("rec-%d", len(f.saved)+1), Snapshot: snap}
	f.saved = append(f.saved, rec)
	return rec, nil
}

func (f *fakeRecords) ListSaved(ctx context.Context, token string) ([]model.PersistedRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.PersistedRecord{}, f.saved...), nil
}

var (
	_ Directory    = (*DirectoryClient)(nil)
	_ StatsLookup  = (*StatsClient)(nil)
	_ RecordKeeper = (*RecordsClient)(nil)
)

func peruMeta() model.CountryMeta {
	return model.CountryMeta{Name: "Peru", Code: "PE", Population: 33000000, Region: "Americas"}
}

func newTestDashboard(t *testing.T, stats StatsLookup, records RecordKeeper) *Dashboard {
	t.Helper()
	dir := &fakeDirectory{countries: []model.CountryMeta{franceMeta(), peruMeta(), {Name: "Antarctica", Region: "Antarctic"}}}
	d := NewDashboard(dir, stats, records, NewAggregator(), nil, logging.Discard())
	_, err := d.LoadCountries(context.Background())
	require.NoError(t, err)
	return d
}

func statsByName(byName map[string]model.CovidStats) *fakeStats {
	return &fakeStats{lookup: func(ctx context.Context, name, code string) (model.CovidStats, error) {
		s, ok := byName[name]
		if !ok {
			return model.CovidStats{}, fmt.Errorf("%s: %w", name, model.ErrStatsNotFound)
		}
		return s, nil
	}}
}

func TestLoadCountries_FailureLeavesEmptyList(t *testing.T) {
	dir := &fakeDirectory{err: fmt.Errorf("failed to fetch countries: %w", model.ErrUpstreamUnavailable)}
	d := NewDashboard(dir, nil, nil, NewAggregator(), nil, logging.Discard())

	countries, err := d.LoadCountries(context.Background())

	require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	assert.Empty(t, countries)
	assert.Empty(t, d.Countries())
}

func TestSelect_SetsCurrent(t *testing.T) {
	var gotName, gotCode string
	stats := &fakeStats{lookup: func(ctx context.Context, name, code string) (model.CovidStats, error) {
		gotName, gotCode = name, code
		return franceCovid(), nil
	}}
	d := newTestDashboard(t, stats, &fakeRecords{})

	snap, err := d.Select(context.Background(), "FR")
	require.NoError(t, err)

	assert.Equal(t, "France", gotName)
	assert.Equal(t, "FR", gotCode)
	assert.Equal(t, "France", snap.Country)

	current, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, snap, current)
}

func TestSelect_ByNameWithoutCode(t *testing.T) {
	var gotCode = "unset"
	stats := &fakeStats{lookup: func(ctx context.Context, name, code string) (model.CovidStats, error) {
		gotCode = code
		return model.CovidStats{}, fmt.Errorf("%s: %w", name, model.ErrStatsNotFound)
	}}
	d := newTestDashboard(t, stats, &fakeRecords{})

	_, err := d.Select(context.Background(), "Antarctica")

	require.ErrorIs(t, err, model.ErrStatsNotFound)
	assert.Empty(t, gotCode, "no fallback code for a country without cca2")
}

func TestSelect_NotFoundKeepsPreviousCurrent(t *testing.T) {
	d := newTestDashboard(t, statsByName(map[string]model.CovidStats{"France": franceCovid()}), &fakeRecords{})

	first, err := d.Select(context.Background(), "FR")
	require.NoError(t, err)

	_, err = d.Select(context.Background(), "Antarctica")
	require.ErrorIs(t, err, model.ErrStatsNotFound)

	current, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, first, current)
}

func TestSelect_UnknownCountry(t *testing.T) {
	d := newTestDashboard(t, statsByName(nil), &fakeRecords{})

	_, err := d.Select(context.Background(), "ZZ")

	require.ErrorIs(t, err, model.ErrUnknownCountry)
	_, ok := d.Current()
	assert.False(t, ok)
}

// TestSelect_LastRequestWins issues a slow selection, then a fast one. The
// slow lookup resolves last but must not overwrite the newer result.
func TestSelect_LastRequestWins(t *testing.T) {
	releaseSlow := make(chan struct{})
	slowStarted := make(chan struct{})

	stats := &fakeStats{lookup: func(ctx context.Context, name, code string) (model.CovidStats, error) {
		if name == "France" {
			close(slowStarted)
			<-releaseSlow
			return franceCovid(), nil
		}
		return model.CovidStats{Cases: 7, Deaths: 1}, nil
	}}
	d := newTestDashboard(t, stats, &fakeRecords{})

	slowErr := make(chan error, 1)
	go func() {
		_, err := d.Select(context.Background(), "FR")
		slowErr <- err
	}()
	<-slowStarted

	fast, err := d.Select(context.Background(), "PE")
	require.NoError(t, err)

	close(releaseSlow)
	require.ErrorIs(t, <-slowErr, model.ErrStaleResult)

	current, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, fast, current)
	assert.Equal(t, "Peru", current.Country)
}

// TestSelect_StaleFailureIsDiscarded issues a slow selection that fails, then
// a fast one that succeeds. The late failure must report a stale result so
// it is not shown over the newer snapshot.
func TestSelect_StaleFailureIsDiscarded(t *testing.T) {
	releaseSlow := make(chan struct{})
	slowStarted := make(chan struct{})

	stats := &fakeStats{lookup: func(ctx context.Context, name, code string) (model.CovidStats, error) {
		if name == "France" {
			close(slowStarted)
			<-releaseSlow
			return model.CovidStats{}, fmt.Errorf("%s: %w", name, model.ErrStatsNotFound)
		}
		return model.CovidStats{Cases: 7, Deaths: 1}, nil
	}}
	d := newTestDashboard(t, stats, &fakeRecords{})

	slowErr := make(chan error, 1)
	go func() {
		_, err := d.Select(context.Background(), "FR")
		slowErr <- err
	}()
	<-slowStarted

	fast, err := d.Select(context.Background(), "PE")
	require.NoError(t, err)

	close(releaseSlow)
	err = <-slowErr
	require.ErrorIs(t, err, model.ErrStaleResult)
	assert.NotErrorIs(t, err, model.ErrStatsNotFound)

	current, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, fast, current)
}

func TestSave_WithoutSelection(t *testing.T) {
	records := &fakeRecords{}
	d := newTestDashboard(t, statsByName(nil), records)

	_, err := d.Save(context.Background())

	require.ErrorIs(t, err, model.ErrNoSelection)
	assert.Empty(t, records.tokens, "nothing sent to the store")
}

func TestSave_AttachesSessionToken(t *testing.T) {
	records := &fakeRecords{}
	d := newTestDashboard(t, statsByName(map[string]model.CovidStats{"France": franceCovid()}), records)

	_, err := d.Select(context.Background(), "FR")
	require.NoError(t, err)

	_, err = d.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, d.LoggedIn())

	d.Login("tok-1")
	assert.True(t, d.LoggedIn())
	rec, err := d.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "tok-1"}, records.tokens)
	assert.Equal(t, "rec-2", rec.ID)

	list, err := d.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestLogin_ReplacesSessionToken(t *testing.T) {
	records := &fakeRecords{}
	d := newTestDashboard(t, statsByName(map[string]model.CovidStats{"France": franceCovid()}), records)

	_, err := d.Select(context.Background(), "FR")
	require.NoError(t, err)

	d.Login("tok-1")
	d.Login("tok-2")
	_, err = d.Save(context.Background())
	require.NoError(t, err)
	_, err = d.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-2", "tok-2"}, records.tokens)
}

func TestSave_RejectedLeavesCurrent(t *testing.T) {
	records := &fakeRecords{saveErr: &model.SaveRejectedError{Status: 401, Message: "login required"}}
	d := newTestDashboard(t, statsByName(map[string]model.CovidStats{"France": franceCovid()}), records)

	snap, err := d.Select(context.Background(), "FR")
	require.NoError(t, err)

	_, err = d.Save(context.Background())
	var rejected *model.SaveRejectedError
	require.True(t, errors.As(err, &rejected))

	current, _ := d.Current()
	assert.Equal(t, snap, current)
}
