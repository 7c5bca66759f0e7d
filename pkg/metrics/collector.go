package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/document"
)

// DocumentSource is the minimal collaborator the collector needs: something
// that knows every file id it has ever persisted and can load each one's
// snapshot. pkg/filestore's admin registry satisfies this.
type DocumentSource interface {
	ListFileIDs() ([]uuid.UUID, error)
	Load(fileID uuid.UUID) (*document.Store, error)
}

// Collector periodically samples persisted document sizes into
// DocumentObjectsTotal. Session and connection gauges are updated directly
// by the orchestrator as state changes, rather than polled here, since the
// orchestrator is the only goroutine allowed to read its own maps.
type Collector struct {
	source DocumentSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector over source.
func NewCollector(source DocumentSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics on a ticker, in its own goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	ids, err := c.source.ListFileIDs()
	if err != nil {
		return
	}

	for _, id := range ids {
		doc, err := c.source.Load(id)
		if err != nil {
			continue
		}
		live := 0
		for _, objID := range doc.IterObjects() {
			if !doc.IsDeleted(objID) {
				live++
			}
		}
		DocumentObjectsTotal.WithLabelValues(id.String()).Set(float64(live))
	}
}
