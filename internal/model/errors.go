package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the aggregation workflow. Callers match them
// with errors.Is; every client wraps one of these.
var (
	// ErrUpstreamUnavailable is returned when a list fetch (directory or
	// records) does not succeed.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrStatsNotFound is returned when both statistics lookups failed
	ErrStatsNotFound = errors.New("stats not found")

	// ErrSaveRejected is returned when the records store refuses a save
	ErrSaveRejected = errors.New("save rejected")

	// ErrTransport is returned for network-level failures on any call
	ErrTransport = errors.New("transport error")

	ErrNoSelection    = errors.New("no country selected")
	ErrUnknownCountry = errors.New("unknown country")

	// ErrStaleResult is returned when a selection finished after a newer
	// selection had already been issued. Its result is discarded.
	ErrStaleResult = errors.New("stale result")

	// ErrValidation is returned when a snapshot lacks a required field
	ErrValidation = errors.New("validation error")
)

// SaveRejectedError carries the records store's response for a refused save
type SaveRejectedError struct {
	Status  int
	Message string
}

func (e *SaveRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("save rejected (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("save rejected (HTTP %d): %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrSaveRejected) match a *SaveRejectedError
func (e *SaveRejectedError) Is(target error) bool {
	return target == ErrSaveRejected
}

// ErrorKind classifies errors for presentation
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUpstreamUnavailable
	KindStatsNotFound
	KindSaveRejected
	KindTransport
	KindNoSelection
	KindUnknownCountry
	KindStale
)

func (k ErrorKind) String() string {
	switch k {
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindStatsNotFound:
		return "stats_not_found"
	case KindSaveRejected:
		return "save_rejected"
	case KindTransport:
		return "transport_error"
	case KindNoSelection:
		return "no_selection"
	case KindUnknownCountry:
		return "unknown_country"
	case KindStale:
		return "stale"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of the first known error in err's chain
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	case errors.Is(err, ErrStatsNotFound):
		return KindStatsNotFound
	case errors.Is(err, ErrSaveRejected):
		return KindSaveRejected
	case errors.Is(err, ErrNoSelection):
		return KindNoSelection
	case errors.Is(err, ErrUnknownCountry):
		return KindUnknownCountry
	case errors.Is(err, ErrStaleResult):
		return KindStale
	default:
		return KindUnknown
	}
}
