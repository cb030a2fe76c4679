// Package render turns snapshots, records and errors into display-ready
// values. It performs no I/O.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jjenkins/covidash/internal/model"
)

// Placeholder is shown for absent optional fields
const Placeholder = "-"

// EmptyRecordsMessage is shown instead of an empty record list
const EmptyRecordsMessage = "No saved records yet"

const timeLayout = "2006-01-02 15:04:05 UTC"

// SnapshotView is a Snapshot with every value formatted for display
type SnapshotView struct {
	Country    string
	Region     string
	FlagURL    string
	Population string
	Capital    string
	Currency   string

	Cases       string
	TodayCases  string
	Active      string
	Deaths      string
	TodayDeaths string
	Recovered   string
	Critical    string
	PerMillion  string

	Updated    string
	CapturedAt string
}

// RecordView is one line of the record list
type RecordView struct {
	ID         string
	Country    string
	CapturedAt string
	Age        string
	Cases      string
	Deaths     string
}

type RecordListView struct {
	Empty   bool
	Message string
	Records []RecordView
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Alert is a user-visible status message
type Alert struct {
	Level   Level
	Message string
}

// Renderer formats values for one locale
type Renderer struct {
	printer *message.Printer
	now     func() time.Time
}

// New creates a Renderer formatting numbers for tag
func New(tag language.Tag) *Renderer {
	return &Renderer{printer: message.NewPrinter(tag), now: time.Now}
}

// Snapshot formats a snapshot. Absent capital or currency render as Placeholder.
func (r *Renderer) Snapshot(snap model.Snapshot) SnapshotView {
	return SnapshotView{
		Country:     snap.Country,
		Region:      orPlaceholder(snap.Region),
		FlagURL:     snap.Flag,
		Population:  r.number(snap.Population),
		Capital:     optional(snap.Capital),
		Currency:    optional(snap.Currency),
		Cases:       r.number(snap.Covid.Cases),
		TodayCases:  r.number(snap.Covid.TodayCases),
		Active:      r.number(snap.Covid.Active),
		Deaths:      r.number(snap.Covid.Deaths),
		TodayDeaths: r.number(snap.Covid.TodayDeaths),
		Recovered:   r.number(snap.Covid.Recovered),
		Critical:    r.number(snap.Covid.Critical),
		PerMillion:  r.printer.Sprintf("%.2f", snap.Covid.CasesPerOneMillion),
		Updated:     r.timestamp(snap.Covid.Updated),
		CapturedAt:  r.timestamp(snap.Timestamp),
	}
}

// RecordList formats persisted records in the order given. An empty input
// yields an Empty view, not an error.
func (r *Renderer) RecordList(records []model.PersistedRecord) RecordListView {
	if len(records) == 0 {
		return RecordListView{Empty: true, Message: EmptyRecordsMessage, Records: []RecordView{}}
	}

	now := r.now()
	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		view := RecordView{
			ID:         rec.ID,
			Country:    rec.Country,
			CapturedAt: r.timestamp(rec.Timestamp),
			Age:        Placeholder,
			Cases:      r.number(rec.Covid.Cases),
			Deaths:     r.number(rec.Covid.Deaths),
		}
		if !rec.Timestamp.IsZero() {
			view.Age = humanize.RelTime(rec.Timestamp, now, "ago", "from now")
		}
		views = append(views, view)
	}
	return RecordListView{Records: views}
}

// Error builds the alert for an error kind. context names what was being
// done or the country involved.
func (r *Renderer) Error(kind model.ErrorKind, context string) Alert {
	switch kind {
	case model.KindUpstreamUnavailable:
		return Alert{Level: LevelDanger, Message: "Failed to load " + context + "."}
	case model.KindStatsNotFound:
		return Alert{Level: LevelWarning, Message: "No COVID data found for " + context}
	case model.KindSaveRejected:
		return Alert{Level: LevelDanger, Message: "Save failed: " + context}
	case model.KindTransport:
		return Alert{Level: LevelDanger, Message: "Network error while " + context + "."}
	case model.KindNoSelection:
		return Alert{Level: LevelWarning, Message: "Select a country first"}
	case model.KindUnknownCountry:
		return Alert{Level: LevelWarning, Message: "Unknown country: " + context}
	default:
		return Alert{Level: LevelDanger, Message: "Something went wrong while " + context + "."}
	}
}

// ErrorFor classifies err and builds its alert. A rejected save reports the
// store's own message, or its status when it sent none.
func (r *Renderer) ErrorFor(err error, context string) Alert {
	kind := model.KindOf(err)
	if kind == model.KindSaveRejected {
		var rejected *model.SaveRejectedError
		if errors.As(err, &rejected) {
			context = rejected.Message
			if context == "" {
				context = fmt.Sprintf("HTTP %d", rejected.Status)
			}
		}
	}
	return r.Error(kind, context)
}

// Success builds a success alert
func (r *Renderer) Success(msg string) Alert {
	return Alert{Level: LevelSuccess, Message: msg}
}

func (r *Renderer) number(n int64) string {
	return r.printer.Sprintf("%d", n)
}

func (r *Renderer) timestamp(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.UTC().Format(timeLayout)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return Placeholder
	}
	return *s
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
