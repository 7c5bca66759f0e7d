package filestore

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/rcanvas/pkg/types"
)

var bucketDocuments = []byte("documents")

// Record is the admin registry's view of a known file: when it was first
// seen, when it was last saved, and what behavior its session was last
// opened under.
type Record struct {
	FileID    types.FileId          `json:"file_id"`
	Behavior  types.SessionBehavior `json:"behavior"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type registry struct {
	db *bolt.DB
}

func openRegistry(path string) (*registry, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("filestore: open registry: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("filestore: init registry bucket: %w", err)
	}
	return &registry{db: db}, nil
}

func (r *registry) close() error {
	return r.db.Close()
}

// upsert records fileID as known, under behavior, stamping CreatedAt only
// the first time it is seen.
func (r *registry) upsert(fileID types.FileId, behavior types.SessionBehavior, now time.Time) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		rec := Record{FileID: fileID, Behavior: behavior, CreatedAt: now, UpdatedAt: now}
		if existing := b.Get(fileID[:]); existing != nil {
			var prior Record
			if err := json.Unmarshal(existing, &prior); err == nil {
				rec.CreatedAt = prior.CreatedAt
			}
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(fileID[:], data)
	})
}

func (r *registry) get(fileID types.FileId) (Record, bool, error) {
	var rec Record
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		data := b.Get(fileID[:])
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	return rec, found, err
}

func (r *registry) list() ([]Record, error) {
	var recs []Record
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}
