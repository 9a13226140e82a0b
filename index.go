package flightsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// indexExists probes the index with HEAD. Transport errors are returned as is
// so the caller can tell an unreachable cluster from a failed request.
func indexExists(ctx context.Context, client *elasticsearch.Client, name string) (bool, error) {
	res, err := client.Indices.Exists([]string{name},
		client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err := checkResponse(res); err != nil {
		return false, fmt.Errorf("checking index %q: %w", name, err)
	}

	return true, nil
}

// createIndex creates an Elasticsearch index with the given mapping and settings.
func createIndex(ctx context.Context, client *elasticsearch.Client, name string, mapping, settings json.RawMessage) error {
	body, err := buildCreateIndexBody(mapping, settings)
	if err != nil {
		return fmt.Errorf("building request body: %w", err)
	}

	var opts []func(*esapi.IndicesCreateRequest)
	if body != nil {
		opts = append(opts, client.Indices.Create.WithBody(bytes.NewReader(body)))
	}
	opts = append(opts, client.Indices.Create.WithContext(ctx))

	res, err := client.Indices.Create(name, opts...)
	if err != nil {
		return fmt.Errorf("creating index %q: %w", name, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("creating index %q: %w", name, err)
	}

	return nil
}

// buildCreateIndexBody constructs the JSON body for the Create Index API.
func buildCreateIndexBody(mapping, settings json.RawMessage) ([]byte, error) {
	if mapping == nil && settings == nil {
		return nil, nil
	}

	body := make(map[string]json.RawMessage)
	if mapping != nil {
		body["mappings"] = mapping
	}
	if settings != nil {
		body["settings"] = settings
	}

	return json.Marshal(body)
}

// putDocument writes body under an explicit document ID. Elasticsearch sends
// this as PUT {index}/_doc/{id}, which creates or overwrites. It returns the
// "result" field of the response.
func putDocument(ctx context.Context, client *elasticsearch.Client, index, id string, body []byte) (string, error) {
	res, err := client.Index(index, bytes.NewReader(body),
		client.Index.WithDocumentID(id),
		client.Index.WithContext(ctx),
	)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return "", err
	}

	var out struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding index response: %w", err)
	}

	return out.Result, nil
}

// deleteIndex deletes an Elasticsearch index.
func deleteIndex(ctx context.Context, client *elasticsearch.Client, name string) error {
	res, err := client.Indices.Delete(
		[]string{name},
		client.Indices.Delete.WithContext(ctx),
		client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return fmt.Errorf("deleting index %q: %w", name, err)
	}
	defer res.Body.Close()

	if err := checkResponse(res); err != nil {
		return fmt.Errorf("deleting index %q: %w", name, err)
	}

	return nil
}

// checkResponse checks an Elasticsearch API response for errors.
func checkResponse(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return &responseError{Status: res.Status(), Body: string(body)}
}
