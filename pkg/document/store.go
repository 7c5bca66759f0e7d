package document

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/types"
	"github.com/cuemby/rcanvas/pkg/wire"
)

// propKey addresses a single property: an (object, kind) pair.
type propKey struct {
	ObjectId types.ObjectId
	Kind     types.PropKind
}

// Store is the committed base layer: the authoritative, non-overlaid state
// of a document. It implements Reader directly.
type Store struct {
	documentID types.ObjectId
	objects    map[types.ObjectId]types.ObjectKind
	deleted    map[types.ObjectId]struct{}
	props      map[propKey]types.PropValue
}

// New creates an empty store containing only its Document root object.
func New() *Store {
	id := uuid.New()
	return &Store{
		documentID: id,
		objects:    map[types.ObjectId]types.ObjectKind{id: types.ObjectKindDocument},
		deleted:    map[types.ObjectId]struct{}{},
		props:      map[propKey]types.PropValue{},
	}
}

func (s *Store) DocumentID() types.ObjectId { return s.documentID }

func (s *Store) GetProp(id types.ObjectId, kind types.PropKind) (types.PropValue, bool) {
	v, ok := s.props[propKey{id, kind}]
	return v, ok
}

func (s *Store) GetObjectKind(id types.ObjectId) (types.ObjectKind, bool) {
	k, ok := s.objects[id]
	return k, ok
}

func (s *Store) IsDeleted(id types.ObjectId) bool {
	_, ok := s.deleted[id]
	return ok
}

func (s *Store) IterObjects() []types.ObjectId {
	out := make([]types.ObjectId, 0, len(s.objects))
	for id := range s.objects {
		out = append(out, id)
	}
	return out
}

// Process applies every mutation of tx in order. A validation step runs
// ahead of any mutation, so a transaction it rejects leaves the store
// untouched; that step currently accepts every transaction.
func (s *Store) Process(tx types.Transaction) error {
	if err := s.validate(tx); err != nil {
		return err
	}
	for _, m := range tx.Items {
		s.mutate(m)
	}
	return nil
}

func (s *Store) validate(tx types.Transaction) error {
	// Reserved for future structural rules. pkg/leader layers
	// cyclic-parent-reference checking on top of this before ever
	// calling Process.
	return nil
}

func (s *Store) mutate(m types.Mutation) {
	switch m.Kind {
	case types.MutationKindCreateObject:
		s.objects[m.ObjectId] = m.ObjectKind
		delete(s.deleted, m.ObjectId)
	case types.MutationKindUpsertProp:
		key := propKey{m.ObjectId, m.PropKind}
		if m.Value != nil {
			s.props[key] = *m.Value
		} else {
			delete(s.props, key)
		}
	case types.MutationKindDeleteObject:
		s.deleted[m.ObjectId] = struct{}{}
	}
}

// Encode produces the on-disk/wire DocumentSnapshot for this store: the
// document id, the object-kind table, the tombstone set, and the property
// table, in that order.
func (s *Store) Encode() []byte {
	e := wire.NewEncoder()
	e.WriteUUID(s.documentID)

	e.WriteUint32(uint32(len(s.objects)))
	for id, kind := range s.objects {
		e.WriteUUID(id)
		e.WriteUint8(uint8(kind))
	}

	e.WriteUint32(uint32(len(s.deleted)))
	for id := range s.deleted {
		e.WriteUUID(id)
	}

	e.WriteUint32(uint32(len(s.props)))
	for key, val := range s.props {
		e.WriteUUID(key.ObjectId)
		e.WriteUint8(uint8(key.Kind))
		e.EncodePropValue(val)
	}

	return e.Bytes()
}

// Decode parses a DocumentSnapshot produced by Encode.
func Decode(data []byte) (*Store, error) {
	d := wire.NewDecoder(data)

	docID, err := d.ReadUUID()
	if err != nil {
		return nil, fmt.Errorf("document: decode document id: %w", err)
	}

	objCount, err := d.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("document: decode object count: %w", err)
	}
	objects := make(map[types.ObjectId]types.ObjectKind, objCount)
	for i := uint32(0); i < objCount; i++ {
		id, err := d.ReadUUID()
		if err != nil {
			return nil, fmt.Errorf("document: decode object id: %w", err)
		}
		kindByte, err := d.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("document: decode object kind: %w", err)
		}
		objects[id] = types.ObjectKind(kindByte)
	}

	delCount, err := d.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("document: decode tombstone count: %w", err)
	}
	deleted := make(map[types.ObjectId]struct{}, delCount)
	for i := uint32(0); i < delCount; i++ {
		id, err := d.ReadUUID()
		if err != nil {
			return nil, fmt.Errorf("document: decode tombstoned id: %w", err)
		}
		deleted[id] = struct{}{}
	}

	propCount, err := d.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("document: decode prop count: %w", err)
	}
	props := make(map[propKey]types.PropValue, propCount)
	for i := uint32(0); i < propCount; i++ {
		id, err := d.ReadUUID()
		if err != nil {
			return nil, fmt.Errorf("document: decode prop object id: %w", err)
		}
		kindByte, err := d.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("document: decode prop kind: %w", err)
		}
		val, err := d.DecodePropValue()
		if err != nil {
			return nil, fmt.Errorf("document: decode prop value: %w", err)
		}
		props[propKey{id, types.PropKind(kindByte)}] = val
	}

	return &Store{documentID: docID, objects: objects, deleted: deleted, props: props}, nil
}
