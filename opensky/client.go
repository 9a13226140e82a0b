// Package opensky fetches live state vectors from the OpenSky Network API and
// normalizes them into flights.
package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/kurakura967/flightsync"
	"github.com/kurakura967/flightsync/internal/httperr"
)

const (
	// DefaultBaseURL is the public OpenSky REST API.
	DefaultBaseURL = "https://opensky-network.org/api"

	// DefaultTimeout bounds a single /states/all call.
	DefaultTimeout = 10 * time.Second
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithTimeout sets the timeout of a fetch. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. If not set, nothing is logged.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// Client fetches state vectors for all aircraft. It sends no credentials.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        logr.Logger
}

// NewClient creates an OpenSky API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		log:        logr.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// statesResponse mirrors the JSON shape returned by /states/all.
type statesResponse struct {
	Time   json.Number      `json:"time"`
	States []RawStateVector `json:"states"`
}

// FetchStates retrieves the current state vectors of all aircraft, in the
// order the API returned them. A response without states yields an empty
// slice. Any failure aborts the whole fetch with a *flightsync.Error.
func (c *Client) FetchStates(ctx context.Context) ([]flightsync.Flight, error) {
	c.log.Info("fetching live flight data from OpenSky Network")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/states/all", nil)
	if err != nil {
		return nil, c.unexpected(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.requestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("unexpected status: %s", resp.Status)
		c.log.Error(err, "API request failed")
		return nil, flightsync.NewError(flightsync.KindRequestFailed, err, "API request failed: %v", err)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var raw statesResponse
	if err := dec.Decode(&raw); err != nil {
		if httperr.Timeout(err) {
			return nil, c.requestError(err)
		}
		return nil, c.unexpected(fmt.Errorf("parsing response: %w", err))
	}

	flights := make([]flightsync.Flight, 0, len(raw.States))
	for i, state := range raw.States {
		f, err := state.Normalize()
		if err != nil {
			return nil, c.unexpected(fmt.Errorf("state %d: %w", i, err))
		}
		flights = append(flights, f)
	}

	c.log.Info("fetched and transformed flights", "count", len(flights))
	return flights, nil
}

func (c *Client) requestError(err error) error {
	if httperr.Timeout(err) {
		c.log.Error(err, "request to OpenSky API timed out")
		return flightsync.NewError(flightsync.KindTimeout, err, "Request timed out")
	}
	c.log.Error(err, "API request failed")
	return flightsync.NewError(flightsync.KindRequestFailed, err, "API request failed: %v", err)
}

func (c *Client) unexpected(err error) error {
	c.log.Error(err, "an unexpected error occurred")
	return flightsync.NewError(flightsync.KindUnexpected, err, "An unexpected error occurred: %v", err)
}
