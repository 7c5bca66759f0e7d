package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

// snapshotPath returns the path of fileID's flat-file snapshot within dir.
func snapshotPath(dir string, fileID types.FileId) string {
	return filepath.Join(dir, fileID.String()+".rcs")
}

// snapshotExists reports whether fileID has a snapshot on disk under dir.
func snapshotExists(dir string, fileID types.FileId) bool {
	_, err := os.Stat(snapshotPath(dir, fileID))
	return err == nil
}

// loadSnapshot reads and decodes fileID's snapshot from dir.
func loadSnapshot(dir string, fileID types.FileId) (*document.Store, error) {
	data, err := os.ReadFile(snapshotPath(dir, fileID))
	if err != nil {
		return nil, fmt.Errorf("filestore: read snapshot %s: %w", fileID, err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("filestore: decode snapshot %s: %w", fileID, err)
	}
	return doc, nil
}

// saveSnapshot encodes doc and writes it to fileID's path under dir,
// via a temp file + rename so a crash mid-write never leaves a truncated
// snapshot in place of a good one.
func saveSnapshot(dir string, fileID types.FileId, doc *document.Store) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("filestore: create data dir: %w", err)
	}

	final := snapshotPath(dir, fileID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, doc.Encode(), 0o644); err != nil {
		return fmt.Errorf("filestore: write snapshot %s: %w", fileID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("filestore: install snapshot %s: %w", fileID, err)
	}
	return nil
}
