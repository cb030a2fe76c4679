package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jjenkins/covidash/internal/model"
)

const userAgent = "covidash/1.0"

// response is a fully read upstream reply
type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// do performs a single request and reads the whole body. Network failures
// are wrapped in model.ErrTransport; any HTTP status is returned as-is.
// There is no retry.
func do(client *http.Client, req *http.Request) (*response, error) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", model.ErrTransport, err)
	}

	return &response{StatusCode: resp.StatusCode, Body: body}, nil
}

// get performs a single GET
func get(ctx context.Context, client *http.Client, url string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return do(client, req)
}
