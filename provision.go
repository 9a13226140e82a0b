package flightsync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-logr/logr"

	"github.com/kurakura967/flightsync/internal/httperr"
)

// Provisioner lazily creates the flight index and its Kibana data view.
//
// Each resource is checked at most once successfully per Provisioner: after
// EnsureIndex succeeds, or after EnsureDataView returns for any reason, later
// calls do nothing. Build one Provisioner per process and share it; the
// check-then-create sequence is serialized per resource.
type Provisioner struct {
	es         *elasticsearch.Client
	views      *DataViewClient
	index      string
	dataViewID string
	mapping    json.RawMessage
	settings   json.RawMessage
	timeout    time.Duration
	log        logr.Logger

	indexMu    sync.Mutex
	indexReady bool

	viewMu    sync.Mutex
	viewReady bool
}

// IndexReady reports whether the index has been ensured.
func (p *Provisioner) IndexReady() bool {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()
	return p.indexReady
}

// DataViewReady reports whether data view provisioning has been attempted.
func (p *Provisioner) DataViewReady() bool {
	p.viewMu.Lock()
	defer p.viewMu.Unlock()
	return p.viewReady
}

// EnsureIndex creates the index with the flight mapping unless it already
// exists. Failures are returned and leave the index unchecked, so the next
// call probes again.
func (p *Provisioner) EnsureIndex(ctx context.Context) error {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()

	if p.indexReady {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	exists, err := indexExists(probeCtx, p.es, p.index)
	cancel()
	if err != nil {
		if httperr.Connection(err) {
			p.log.Error(err, "cannot connect to elasticsearch", "index", p.index)
			return NewError(KindConnectionRefused, err, "Connection error: %v", err)
		}
		p.log.Error(err, "checking index failed", "index", p.index)
		return NewError(KindProvisioning, err, "Error checking/creating index: %v", err)
	}

	if !exists {
		p.log.Info("index not found, creating", "index", p.index)

		createCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := createIndex(createCtx, p.es, p.index, p.mapping, p.settings)
		cancel()
		if err != nil {
			if httperr.Connection(err) {
				p.log.Error(err, "cannot connect to elasticsearch", "index", p.index)
				return NewError(KindConnectionRefused, err, "Connection error: %v", err)
			}
			p.log.Error(err, "creating index failed", "index", p.index)
			return NewError(KindProvisioning, err, "Error checking/creating index: %v", err)
		}
		p.log.Info("created index with mapping", "index", p.index)
	}

	p.indexReady = true
	return nil
}

// EnsureDataView creates the Kibana data view unless it already exists. It
// never fails: errors are logged and the data view is still marked as
// attempted, so ingestion does not depend on Kibana.
func (p *Provisioner) EnsureDataView(ctx context.Context) {
	p.viewMu.Lock()
	defer p.viewMu.Unlock()

	if p.viewReady {
		return
	}
	p.viewReady = true

	if p.views == nil {
		return
	}

	if err := p.ensureDataView(ctx); err != nil {
		var resErr *responseError
		switch {
		case httperr.Connection(err):
			p.log.Info("could not connect to kibana, data view not created", "dataView", p.dataViewID, "error", err.Error())
		case errors.As(err, &resErr):
			p.log.Error(err, "checking/creating data view failed", "dataView", p.dataViewID, "response", resErr.Body)
		default:
			p.log.Error(err, "checking/creating data view failed", "dataView", p.dataViewID)
		}
	}
}

func (p *Provisioner) ensureDataView(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	exists, err := p.views.Exists(probeCtx, p.dataViewID)
	cancel()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	p.log.Info("data view not found, creating", "dataView", p.dataViewID)

	createCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.views.Create(createCtx, p.dataViewID, p.index); err != nil {
		return err
	}

	p.log.Info("created data view", "dataView", p.dataViewID)
	return nil
}

// DeleteIndex removes the index, ignoring a missing one, and marks it
// unchecked so the next EnsureIndex recreates it.
func (p *Provisioner) DeleteIndex(ctx context.Context) error {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := deleteIndex(ctx, p.es, p.index); err != nil {
		return err
	}
	p.indexReady = false
	p.log.Info("deleted index", "index", p.index)

	return nil
}
