package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/covidash/internal/render"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestSnapshotCard_EscapesText(t *testing.T) {
	html := renderString(t, SnapshotCard(render.SnapshotView{
		Country:  `<script>alert(1)</script>`,
		FlagURL:  "javascript:alert(1)",
		Capital:  "-",
		Currency: "EUR",
		Cases:    "1,000",
	}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "Cases 1,000")
	assert.Contains(t, html, "Capital: -")
}

func TestSnapshotCard_FlagURL(t *testing.T) {
	html := renderString(t, SnapshotCard(render.SnapshotView{Country: "France", FlagURL: "https://flagcdn.com/w320/fr.png"}))

	assert.Contains(t, html, `src="https://flagcdn.com/w320/fr.png"`)
}

func TestRecordList_Empty(t *testing.T) {
	html := renderString(t, RecordList(render.RecordListView{Empty: true, Message: render.EmptyRecordsMessage}))

	assert.Contains(t, html, "No saved records yet")
	assert.NotContains(t, html, "list-group")
}

func TestRecordList_Records(t *testing.T) {
	html := renderString(t, RecordList(render.RecordListView{Records: []render.RecordView{
		{ID: "rec-1", Country: "France", Cases: "1,000", Deaths: "10"},
		{ID: "rec-2", Country: "Peru", Cases: "7", Deaths: "1"},
	}}))

	assert.Contains(t, html, "Cases: 1,000, Deaths: 10")
	assert.Contains(t, html, "ID: rec-2")
	assert.Less(t, strings.Index(html, "France"), strings.Index(html, "Peru"))
}

func TestAlert(t *testing.T) {
	html := renderString(t, Alert(render.Alert{Level: render.LevelWarning, Message: "Select a country first"}))

	assert.Equal(t, `<div class="alert alert-warning" role="alert">Select a country first</div>`, html)
}

func TestPage_DirectoryFailure(t *testing.T) {
	html := renderString(t, Page(PageData{
		Title:          "COVID Dashboard",
		DirectoryAlert: &render.Alert{Level: render.LevelDanger, Message: "Failed to load countries."},
		Records:        render.RecordListView{Empty: true, Message: render.EmptyRecordsMessage},
	}))

	assert.Contains(t, html, "Failed to load countries.")
	assert.Equal(t, 1, strings.Count(html, "<option"))
	assert.Contains(t, html, `href="/login"`)
}

func TestPage_Options(t *testing.T) {
	html := renderString(t, Page(PageData{
		Title: "COVID Dashboard",
		Countries: []CountryOption{
			{ID: "FR", Name: "France", Selected: true},
			{ID: "Antarctica", Name: "Antarctica"},
		},
		LoggedIn: true,
	}))

	assert.Contains(t, html, `<option value="FR" selected>France</option>`)
	assert.Contains(t, html, `<option value="Antarctica">Antarctica</option>`)
	assert.Contains(t, html, "Logged in")
}

func TestSaveResult_RefreshesRecords(t *testing.T) {
	html := renderString(t, SaveResult(
		render.Alert{Level: render.LevelSuccess, Message: "Saved"},
		render.RecordListView{Records: []render.RecordView{{ID: "rec-1", Country: "France"}}},
		nil,
	))

	assert.Contains(t, html, "alert-success")
	assert.Contains(t, html, `hx-swap-oob="true"`)
	assert.Contains(t, html, "ID: rec-1")
}

func TestCountrySelect_EscapesOptionValues(t *testing.T) {
	html := renderString(t, CountrySelect([]CountryOption{{ID: `"><b>x`, Name: "<i>Fake</i>"}}, nil))

	assert.Contains(t, html, `<option value="&#34;&gt;&lt;b&gt;x">&lt;i&gt;Fake&lt;/i&gt;</option>`)
	assert.NotContains(t, html, "<b>")
}

func TestSaveResult_RecordsAlertReplacesList(t *testing.T) {
	html := renderString(t, SaveResult(
		render.Alert{Level: render.LevelSuccess, Message: "Saved France"},
		render.RecordListView{Records: []render.RecordView{{ID: "rec-1", Country: "France"}}},
		&render.Alert{Level: render.LevelDanger, Message: "Failed to load records."},
	))

	assert.True(t, strings.HasPrefix(html, `<div class="alert alert-success" role="alert">Saved France</div>`))
	assert.Contains(t, html, `<div id="records" hx-swap-oob="true"><div class="alert alert-danger" role="alert">Failed to load records.</div></div>`)
	assert.NotContains(t, html, "rec-1")
}
