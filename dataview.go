package flightsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
)

const dataViewPath = "/api/data_views/data_view"

// DataViewClient manages Kibana data views.
type DataViewClient struct {
	transport elastictransport.Interface
}

// NewDataViewClient returns a client for the Kibana instance in cfg.
func NewDataViewClient(cfg ClientConfig) (*DataViewClient, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing kibana url %q: %w", cfg.URL, err)
	}

	tp, err := elastictransport.New(elastictransport.Config{
		URLs:         []*url.URL{u},
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    newHTTPTransport(cfg.InsecureSkipVerify),
		DisableRetry: true,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kibana transport: %w", err)
	}

	return &DataViewClient{transport: tp}, nil
}

// Exists reports whether the data view with the given ID exists. Only a 404
// counts as missing; other error statuses are returned as errors.
func (c *DataViewClient) Exists(ctx context.Context, id string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dataViewPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return false, err
	}

	res, err := c.transport.Perform(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := checkHTTPResponse(res); err != nil {
		return false, err
	}

	return true, nil
}

type dataViewSpec struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Name  string `json:"name"`
}

// Create creates a data view over the index pattern title. The view is
// created with the given ID so that Exists finds it next time.
func (c *DataViewClient) Create(ctx context.Context, id, title string) error {
	body, err := json.Marshal(struct {
		DataView dataViewSpec `json:"data_view"`
	}{
		DataView: dataViewSpec{ID: id, Title: title, Name: id},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dataViewPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("kbn-xsrf", "true")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.transport.Perform(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkHTTPResponse(res)
}

func checkHTTPResponse(res *http.Response) error {
	if res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return &responseError{Status: res.Status, Body: string(body)}
}
