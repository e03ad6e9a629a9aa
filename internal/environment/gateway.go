package environment

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/triage-assistant/internal/common"
	"github.com/i474232898/triage-assistant/internal/metrics"
	"github.com/i474232898/triage-assistant/internal/store"
)

// DefaultKey is the single slot the latest snapshot lives under.
const DefaultKey = "@environmental_data"

// Gateway fetches snapshots from the remote source and keeps the latest one
// in the key-value store. Each successful fetch fully replaces the slot.
type Gateway struct {
	source  Source
	store   KeyValueStore
	key     string
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	// inflight serializes FetchAndStore so overlapping refreshes write in
	// the order they acquired the guard.
	inflight sync.Mutex
}

// NewGateway creates a new Gateway. An empty key selects DefaultKey.
func NewGateway(source Source, kv KeyValueStore, key string, log logrus.FieldLogger, m *metrics.Metrics) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		source:  source,
		store:   kv,
		key:     key,
		log:     log.WithField("component", "gateway"),
		metrics: m,
	}
}

// FetchAndStore performs one request for the given coordinates and, when the
// body decodes as a snapshot, overwrites the stored slot with it verbatim.
// On failure the previously stored snapshot is left as it was.
func (g *Gateway) FetchAndStore(ctx context.Context, latitude, longitude float64) error {
	g.inflight.Lock()
	defer g.inflight.Unlock()

	entry := g.log.WithFields(logrus.Fields{"latitude": latitude, "longitude": longitude})
	entry.Debug("fetching environmental data")

	raw, err := g.source.Fetch(ctx, latitude, longitude)
	if err != nil {
		g.metrics.ObserveFetch(metrics.ResultNetworkError)
		entry.WithError(err).Warn("environmental fetch failed")
		if !errors.Is(err, common.ErrNetwork) {
			err = common.Wrap(common.ErrNetwork, err)
		}
		return err
	}

	if _, err := DecodeSnapshot(raw); err != nil {
		g.metrics.ObserveFetch(metrics.ResultDecodeError)
		entry.WithError(err).Warn("environmental payload rejected")
		return err
	}

	if err := g.store.Set(ctx, g.key, raw); err != nil {
		g.metrics.ObserveFetch(metrics.ResultStoreError)
		entry.WithError(err).Error("failed to persist environmental data")
		return err
	}

	g.metrics.ObserveFetch(metrics.ResultOK)
	entry.Info("environmental data stored")
	return nil
}

// LoadStored returns the persisted snapshot, nil when nothing is stored, or
// an error matching common.ErrStoreRead when the slot cannot be read or
// decoded.
func (g *Gateway) LoadStored(ctx context.Context) (*Snapshot, error) {
	raw, err := g.store.Get(ctx, g.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, common.Wrap(common.ErrStoreRead, err)
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, common.Wrap(common.ErrStoreRead, err)
	}
	return snap, nil
}

// GetStored is the fail-soft read used by the UI and the chat assembler: a
// corrupt or unreadable cache is logged and reported as no data.
func (g *Gateway) GetStored(ctx context.Context) *Snapshot {
	snap, err := g.LoadStored(ctx)
	if err != nil {
		g.log.WithError(err).Warn("ignoring unreadable stored environmental data")
		return nil
	}
	return snap
}
