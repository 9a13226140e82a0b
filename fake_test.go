package flightsync

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// recorder keeps every request a fake server received.
type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) record(req *http.Request) recordedRequest {
	body, _ := io.ReadAll(req.Body)
	rec := recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	}

	r.mu.Lock()
	r.requests = append(r.requests, rec)
	r.mu.Unlock()

	return rec
}

// find returns the requests matching method and path.
func (r *recorder) find(method, path string) []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []recordedRequest
	for _, req := range r.requests {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

// fakeElasticsearch serves the subset of the Elasticsearch API the indexer uses.
type fakeElasticsearch struct {
	recorder
	*httptest.Server

	mu           sync.Mutex
	indexExists  bool
	probeStatus  int
	createStatus int
	docStatus    int
	docBody      string
	docs         map[string]int
}

func newFakeElasticsearch(t *testing.T) *fakeElasticsearch {
	t.Helper()

	es := &fakeElasticsearch{docs: make(map[string]int)}
	es.Server = httptest.NewServer(http.HandlerFunc(es.serve))
	t.Cleanup(es.Close)

	return es
}

func (es *fakeElasticsearch) serve(w http.ResponseWriter, r *http.Request) {
	req := es.record(r)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	es.mu.Lock()
	defer es.mu.Unlock()

	parts := strings.Split(strings.Trim(req.Path, "/"), "/")
	switch {
	case len(parts) == 1 && req.Method == http.MethodHead:
		switch {
		case es.probeStatus != 0:
			w.WriteHeader(es.probeStatus)
		case es.indexExists:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}

	case len(parts) == 1 && req.Method == http.MethodPut:
		if es.createStatus != 0 {
			w.WriteHeader(es.createStatus)
			io.WriteString(w, `{"error":{"type":"mapper_parsing_exception"}}`)
			return
		}
		es.indexExists = true
		io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"`+parts[0]+`"}`)

	case len(parts) == 1 && req.Method == http.MethodDelete:
		es.indexExists = false
		es.docs = make(map[string]int)
		io.WriteString(w, `{"acknowledged":true}`)

	case len(parts) == 3 && parts[1] == "_doc" && req.Method == http.MethodPut:
		if es.docStatus != 0 {
			w.WriteHeader(es.docStatus)
			io.WriteString(w, es.docBody)
			return
		}
		id := parts[2]
		result, status := "created", http.StatusCreated
		if es.docs[id] > 0 {
			result, status = "updated", http.StatusOK
		}
		es.docs[id]++
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"_index":   parts[0],
			"_id":      id,
			"_version": es.docs[id],
			"result":   result,
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (es *fakeElasticsearch) client(t *testing.T) *elasticsearch.Client {
	t.Helper()

	client, err := NewElasticsearchClient(ClientConfig{URL: es.URL})
	require.NoError(t, err)
	return client
}

// fakeKibana serves the data views API.
type fakeKibana struct {
	recorder
	*httptest.Server

	mu         sync.Mutex
	views      map[string]bool
	getStatus  int
	postStatus int
}

func newFakeKibana(t *testing.T) *fakeKibana {
	t.Helper()

	kb := &fakeKibana{views: make(map[string]bool)}
	kb.Server = httptest.NewServer(http.HandlerFunc(kb.serve))
	t.Cleanup(kb.Close)

	return kb
}

func (kb *fakeKibana) serve(w http.ResponseWriter, r *http.Request) {
	req := kb.record(r)
	w.Header().Set("Content-Type", "application/json")

	kb.mu.Lock()
	defer kb.mu.Unlock()

	switch {
	case req.Method == http.MethodGet && strings.HasPrefix(req.Path, dataViewPath+"/"):
		if kb.getStatus != 0 {
			w.WriteHeader(kb.getStatus)
			return
		}
		if !kb.views[strings.TrimPrefix(req.Path, dataViewPath+"/")] {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"statusCode":404,"error":"Not Found"}`)
			return
		}
		io.WriteString(w, `{"data_view":{}}`)

	case req.Method == http.MethodPost && req.Path == dataViewPath:
		if kb.postStatus != 0 {
			w.WriteHeader(kb.postStatus)
			io.WriteString(w, `{"statusCode":400,"error":"Bad Request"}`)
			return
		}
		var payload struct {
			DataView struct {
				ID string `json:"id"`
			} `json:"data_view"`
		}
		json.Unmarshal(req.Body, &payload)
		kb.views[payload.DataView.ID] = true
		io.WriteString(w, `{"data_view":{}}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (kb *fakeKibana) client(t *testing.T) *DataViewClient {
	t.Helper()

	client, err := NewDataViewClient(ClientConfig{URL: kb.URL, Username: "kibana", Password: "secret"})
	require.NoError(t, err)
	return client
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// closedURL returns the URL of a server that is no longer listening.
func closedURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func sampleFlight() Flight {
	return Flight{
		ICAO24:        Ptr("a8b72b"),
		Callsign:      Ptr("SWR100"),
		OriginCountry: Ptr("Switzerland"),
		Longitude:     Ptr(8.5393),
		Latitude:      Ptr(47.4583),
		BaroAltitude:  Ptr(1234.5),
		OnGround:      false,
		Velocity:      Ptr(100.2),
		TrueTrack:     Ptr(45.1),
		GeoAltitude:   Ptr(1300.0),
	}
}
