package model

import (
	"fmt"
	"time"
)

// CovidStats represents live counters from the statistics service.
// Values are source-reported and never recomputed locally.
type CovidStats struct {
	Cases              int64     `json:"cases"`
	TodayCases         int64     `json:"todayCases"`
	Deaths             int64     `json:"deaths"`
	TodayDeaths        int64     `json:"todayDeaths"`
	Recovered          int64     `json:"recovered"`
	Active             int64     `json:"active"`
	Critical           int64     `json:"critical"`
	CasesPerOneMillion float64   `json:"casesPerOneMillion"`
	Updated            time.Time `json:"updated"`
}

// Snapshot is one merge of directory metadata and statistics,
// timestamped at capture.
type Snapshot struct {
	Timestamp  time.Time  `json:"timestamp"`
	Country    string     `json:"country"`
	Population int64      `json:"population"`
	Currency   *string    `json:"currency"`
	Capital    *string    `json:"capital"`
	Region     string     `json:"region"`
	Flag       string     `json:"flag"`
	Covid      CovidStats `json:"covid"`
}

// Validate reports a missing country or capture timestamp as ErrValidation
func (s Snapshot) Validate() error {
	switch {
	case s.Country == "":
		return fmt.Errorf("%w: country is required", ErrValidation)
	case s.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp is required", ErrValidation)
	}
	return nil
}

// PersistedRecord is a Snapshot as stored and identified by the records store
type PersistedRecord struct {
	ID string `json:"id"`
	Snapshot
}

// NormalizeTime converts t to the timestamp representation shared by
// Snapshot.Timestamp and CovidStats.Updated: UTC, millisecond precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
