package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jjenkins/covidash/internal/model"
)

var captured = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func newTestRenderer() *Renderer {
	r := New(language.English)
	r.now = func() time.Time { return captured.Add(2 * time.Hour) }
	return r
}

func franceSnapshot() model.Snapshot {
	return model.Snapshot{
		Timestamp:  captured,
		Country:    "France",
		Population: 67391582,
		Currency:   model.StringPtr("EUR"),
		Capital:    model.StringPtr("Paris"),
		Region:     "Europe",
		Flag:       "https://flagcdn.com/w320/fr.png",
		Covid: model.CovidStats{
			Cases:              1000,
			Deaths:             10,
			Active:             990,
			CasesPerOneMillion: 1234.5,
			Updated:            time.UnixMilli(1700000000000).UTC(),
		},
	}
}

func TestSnapshot_France(t *testing.T) {
	view := newTestRenderer().Snapshot(franceSnapshot())

	assert.Equal(t, "France", view.Country)
	assert.Equal(t, "Europe", view.Region)
	assert.Equal(t, "Paris", view.Capital)
	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, "67,391,582", view.Population)
	assert.Equal(t, "1,000", view.Cases)
	assert.Equal(t, "10", view.Deaths)
	assert.Equal(t, "990", view.Active)
	assert.Equal(t, "1,234.50", view.PerMillion)
	assert.Equal(t, "2023-11-14 22:13:20 UTC", view.Updated)
	assert.Equal(t, "2026-10-19 10:00:00 UTC", view.CapturedAt)
}

func TestSnapshot_AbsentOptionalFields(t *testing.T) {
	snap := franceSnapshot()
	snap.Capital = nil
	snap.Currency = nil
	snap.Region = ""

	view := newTestRenderer().Snapshot(snap)

	assert.Equal(t, Placeholder, view.Capital)
	assert.Equal(t, Placeholder, view.Currency)
	assert.Equal(t, Placeholder, view.Region)
}

func TestRecordList_Empty(t *testing.T) {
	for _, records := range [][]model.PersistedRecord{nil, {}} {
		view := newTestRenderer().RecordList(records)

		assert.True(t, view.Empty)
		assert.Equal(t, EmptyRecordsMessage, view.Message)
		assert.Empty(t, view.Records)
	}
}

func TestRecordList_KeepsOrder(t *testing.T) {
	peru := franceSnapshot()
	peru.Country = "Peru"
	peru.Covid.Cases = 4500000
	peru.Timestamp = time.Time{}

	view := newTestRenderer().RecordList([]model.PersistedRecord{
		{ID: "rec-2", Snapshot: franceSnapshot()},
		{ID: "rec-1", Snapshot: peru},
	})

	require.False(t, view.Empty)
	require.Len(t, view.Records, 2)

	assert.Equal(t, "rec-2", view.Records[0].ID)
	assert.Equal(t, "France", view.Records[0].Country)
	assert.Equal(t, "1,000", view.Records[0].Cases)
	assert.Equal(t, "2 hours ago", view.Records[0].Age)

	assert.Equal(t, "Peru", view.Records[1].Country)
	assert.Equal(t, "4,500,000", view.Records[1].Cases)
	assert.Equal(t, Placeholder, view.Records[1].Age)
	assert.Equal(t, Placeholder, view.Records[1].CapturedAt)
}

func TestNumbers_FollowLocale(t *testing.T) {
	r := New(language.German)

	assert.Equal(t, "67.391.582", r.Snapshot(franceSnapshot()).Population)
}

func TestError_Messages(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		kind    model.ErrorKind
		context string
		want    Alert
	}{
		{model.KindUpstreamUnavailable, "countries", Alert{LevelDanger, "Failed to load countries."}},
		{model.KindStatsNotFound, "Atlantis", Alert{LevelWarning, "No COVID data found for Atlantis"}},
		{model.KindSaveRejected, "login required", Alert{LevelDanger, "Save failed: login required"}},
		{model.KindTransport, "fetching COVID data", Alert{LevelDanger, "Network error while fetching COVID data."}},
		{model.KindNoSelection, "", Alert{LevelWarning, "Select a country first"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, r.Error(tt.kind, tt.context))
		})
	}
}

func TestErrorFor_UsesStoreMessage(t *testing.T) {
	r := newTestRenderer()
	err := fmt.Errorf("failed to save snapshot: %w", &model.SaveRejectedError{Status: 401, Message: "login required"})

	alert := r.ErrorFor(err, "saving")

	assert.Equal(t, Alert{LevelDanger, "Save failed: login required"}, alert)
}

func TestErrorFor_Transport(t *testing.T) {
	r := newTestRenderer()
	err := fmt.Errorf("failed to save snapshot: %w: connection refused", model.ErrTransport)

	alert := r.ErrorFor(err, "saving the snapshot")

	assert.Equal(t, LevelDanger, alert.Level)
	assert.Equal(t, "Network error while saving the snapshot.", alert.Message)
}

func TestErrorFor_RejectedWithoutMessage(t *testing.T) {
	alert := newTestRenderer().ErrorFor(&model.SaveRejectedError{Status: 500}, "saving")

	assert.Equal(t, "Save failed: HTTP 500", alert.Message)
}
