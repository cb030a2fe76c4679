package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/jjenkins/covidash/internal/model"
)

// RecordsClient handles communication with the records store
type RecordsClient struct {
	client  *http.Client
	baseURL string
	metrics Metrics
	log     logrus.FieldLogger
}

// NewRecordsClient creates a records store client. Its cookie jar replays
// any cookies the store sets, so cookie credentials travel alongside an
// optional bearer token.
func NewRecordsClient(baseURL string, metrics Metrics, log logrus.FieldLogger) *RecordsClient {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	jar, _ := cookiejar.New(nil)
	return &RecordsClient{
		client:  &http.Client{Jar: jar},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		log:     log,
	}
}

// Save sends a snapshot to the store. token may be empty.
func (c *RecordsClient) Save(ctx context.Context, snap model.Snapshot, token string) (model.PersistedRecord, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return model.PersistedRecord{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/records", bytes.NewReader(body))
	if err != nil {
		return model.PersistedRecord{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := do(c.client, req)
	if err != nil {
		c.metrics.ObserveSave("transport_error")
		return model.PersistedRecord{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	if !resp.ok() {
		c.metrics.ObserveSave("rejected")
		c.log.WithFields(logrus.Fields{"country": snap.Country, "status": resp.StatusCode}).Warn("Records store rejected snapshot")
		return model.PersistedRecord{}, fmt.Errorf("failed to save snapshot: %w", &model.SaveRejectedError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		})
	}

	record, err := decodeRecord(gjson.ParseBytes(resp.Body))
	if err != nil {
		c.metrics.ObserveSave("rejected")
		return model.PersistedRecord{}, fmt.Errorf("failed to save snapshot: %w", &model.SaveRejectedError{
			Status:  resp.StatusCode,
			Message: err.Error(),
		})
	}

	c.metrics.ObserveSave("ok")
	return record, nil
}

// ListSaved retrieves all persisted records. token may be empty.
func (c *RecordsClient) ListSaved(ctx context.Context, token string) ([]model.PersistedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/records", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setBearer(req, token)

	resp, err := do(c.client, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	if !resp.ok() {
		return nil, fmt.Errorf("failed to fetch records: %w: unexpected status code: %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	}

	root := gjson.ParseBytes(resp.Body)
	if !root.IsArray() {
		return nil, fmt.Errorf("failed to parse records response: %w: expected a JSON array", model.ErrUpstreamUnavailable)
	}

	records := []model.PersistedRecord{}
	for _, item := range root.Array() {
		record, err := decodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("failed to parse records response: %w: %w", model.ErrUpstreamUnavailable, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeRecord reads one record. Stores that key records by "_id" are
// accepted as well as "id".
func decodeRecord(item gjson.Result) (model.PersistedRecord, error) {
	var record model.PersistedRecord
	if err := json.Unmarshal([]byte(item.Raw), &record); err != nil {
		return model.PersistedRecord{}, fmt.Errorf("invalid record: %w", err)
	}
	if record.ID == "" {
		record.ID = item.Get("_id").String()
	}
	if record.ID == "" {
		return model.PersistedRecord{}, fmt.Errorf("record has no identifier")
	}
	return record, nil
}

// errorMessage extracts the store's message from an error body
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}
