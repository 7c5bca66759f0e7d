package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

// FileStore implements orchestrator.FileStore and metrics.DocumentSource
// over a directory of {file_id}.rcs flat-file snapshots, plus a bbolt-backed
// admin registry recording every file id ever seen.
type FileStore struct {
	dataDir string
	reg     *registry
}

// New opens (creating if necessary) a FileStore rooted at dataDir. The
// registry lives at dataDir/registry.db; document snapshots live alongside
// it as dataDir/{file_id}.rcs.
func New(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}
	reg, err := openRegistry(filepath.Join(dataDir, "registry.db"))
	if err != nil {
		return nil, err
	}
	return &FileStore{dataDir: dataDir, reg: reg}, nil
}

// Close releases the registry's database handle.
func (fs *FileStore) Close() error {
	return fs.reg.close()
}

// Exists reports whether fileID has a persisted snapshot.
func (fs *FileStore) Exists(fileID types.FileId) bool {
	return snapshotExists(fs.dataDir, fileID)
}

// Load reads and decodes fileID's snapshot.
func (fs *FileStore) Load(fileID types.FileId) (*document.Store, error) {
	return loadSnapshot(fs.dataDir, fileID)
}

// Save persists doc as fileID's snapshot and records it in the admin
// registry, preserving its previously known session behavior (defaulting
// to AutoTerminateWhenEmpty for a file the registry has never seen).
func (fs *FileStore) Save(fileID types.FileId, doc *document.Store) error {
	if err := saveSnapshot(fs.dataDir, fileID, doc); err != nil {
		return err
	}
	behavior := types.AutoTerminateWhenEmpty
	if rec, found, err := fs.reg.get(fileID); err == nil && found {
		behavior = rec.Behavior
	}
	return fs.reg.upsert(fileID, behavior, time.Now())
}

// SetBehavior records the session behavior fileID was most recently opened
// under, for the admin registry's listing — called by the admin surface
// when it opens a manual-commit session, independent of Save.
func (fs *FileStore) SetBehavior(fileID types.FileId, behavior types.SessionBehavior) error {
	return fs.reg.upsert(fileID, behavior, time.Now())
}

// GetRecord returns the admin registry's entry for fileID, if known.
func (fs *FileStore) GetRecord(fileID types.FileId) (Record, bool, error) {
	return fs.reg.get(fileID)
}

// ListRecords returns every file the registry has ever seen, for the admin
// GET /admin/documents listing.
func (fs *FileStore) ListRecords() ([]Record, error) {
	return fs.reg.list()
}

// ListFileIDs implements metrics.DocumentSource.
func (fs *FileStore) ListFileIDs() ([]uuid.UUID, error) {
	recs, err := fs.reg.list()
	if err != nil {
		return nil, fmt.Errorf("filestore: list registry: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.FileID)
	}
	return ids, nil
}
