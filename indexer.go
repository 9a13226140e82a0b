package flightsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-logr/logr"
)

// DefaultRequestTimeout bounds every provisioning and indexing request.
const DefaultRequestTimeout = 5 * time.Second

// Indexer writes flights to Elasticsearch, one document per transponder
// address. The index and data view are provisioned on the first call.
type Indexer struct {
	client      *elasticsearch.Client
	provisioner *Provisioner
	index       string
	timeout     time.Duration
	log         logr.Logger

	views      *DataViewClient
	dataViewID string
	settings   json.RawMessage
}

// New creates an Indexer with the given Elasticsearch client and options.
// Without the DataViews option no Kibana data view is provisioned.
func New(client *elasticsearch.Client, opts ...Option) (*Indexer, error) {
	if client == nil {
		return nil, errors.New("flightsync: client must not be nil")
	}

	ix := &Indexer{
		client:     client,
		index:      DefaultIndex,
		dataViewID: DefaultDataViewID,
		timeout:    DefaultRequestTimeout,
		log:        logr.Discard(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, fmt.Errorf("flightsync: applying option: %w", err)
		}
	}

	if ix.index == "" {
		return nil, errors.New("flightsync: index name must not be empty")
	}

	ix.provisioner = &Provisioner{
		es:         client,
		views:      ix.views,
		index:      ix.index,
		dataViewID: ix.dataViewID,
		mapping:    flightMapping,
		settings:   ix.settings,
		timeout:    ix.timeout,
		log:        ix.log.WithName("provision"),
	}

	return ix, nil
}

// Provisioner returns the provisioning state shared by all Index calls.
func (ix *Indexer) Provisioner() *Provisioner {
	return ix.provisioner
}

// Index provisions the index and data view if needed, then upserts f under
// its transponder address. A flight without one is skipped, which is not an
// error. Failures are *Error values.
func (ix *Indexer) Index(ctx context.Context, f Flight) (Result, error) {
	if err := ix.provisioner.EnsureIndex(ctx); err != nil {
		return Result{}, err
	}
	ix.provisioner.EnsureDataView(ctx)

	id := f.ID()
	if id == "" {
		ix.log.V(1).Info("received flight with no icao24, skipping")
		return Result{Outcome: OutcomeSkipped}, nil
	}

	body, err := json.Marshal(newDocument(f))
	if err != nil {
		ix.log.Error(err, "encoding document", "id", id)
		return Result{}, NewError(KindUnexpected, err, "An unexpected error occurred: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	result, err := putDocument(ctx, ix.client, ix.index, id, body)
	if err != nil {
		var resErr *responseError
		if errors.As(err, &resErr) {
			ix.log.Error(err, "HTTP error indexing document", "id", id, "response", resErr.Body)
			return Result{}, NewError(KindHTTPError, err, "HTTP error: %s", resErr.Body)
		}
		ix.log.Error(err, "unexpected error indexing document", "id", id)
		return Result{}, NewError(KindUnexpected, err, "An unexpected error occurred: %v", err)
	}

	ix.log.V(1).Info("indexed document", "id", id, "result", result)
	return Result{Outcome: OutcomeIndexed, ID: id, Result: result}, nil
}

// DeleteIndex removes the flight index. See Provisioner.DeleteIndex.
func (ix *Indexer) DeleteIndex(ctx context.Context) error {
	return ix.provisioner.DeleteIndex(ctx)
}
