package templates

import "github.com/jjenkins/covidash/internal/render"

// CountryOption is one entry of the country select
type CountryOption struct {
	ID       string
	Name     string
	Selected bool
}

// PageData is everything the dashboard page shows
type PageData struct {
	Title          string
	Countries      []CountryOption
	DirectoryAlert *render.Alert
	Snapshot       *render.SnapshotView
	Records        render.RecordListView
	RecordsAlert   *render.Alert
	LoggedIn       bool
}

func alertLevel(alert render.Alert) string {
	return "alert-" + string(alert.Level)
}
