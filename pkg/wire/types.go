package wire

import (
	"fmt"

	"github.com/cuemby/rcanvas/pkg/types"
)

// EncodePropValue appends a tagged PropValue.
func (e *Encoder) EncodePropValue(v types.PropValue) {
	e.WriteUint8(uint8(v.Kind))
	switch v.Kind {
	case types.PropValueKindString:
		e.WriteString(v.String)
	case types.PropValueKindFloat32:
		e.WriteFloat32(v.Float32)
	case types.PropValueKindReference:
		e.WriteUUID(v.Reference)
	case types.PropValueKindColor:
		e.WriteUint8(v.Color.R)
		e.WriteUint8(v.Color.G)
		e.WriteUint8(v.Color.B)
	}
}

func (d *Decoder) DecodePropValue() (types.PropValue, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.PropValue{}, err
	}
	kind := types.PropValueKind(kindByte)
	switch kind {
	case types.PropValueKindString:
		s, err := d.ReadString()
		if err != nil {
			return types.PropValue{}, err
		}
		return types.StringValue(s), nil
	case types.PropValueKindFloat32:
		f, err := d.ReadFloat32()
		if err != nil {
			return types.PropValue{}, err
		}
		return types.FloatValue(f), nil
	case types.PropValueKindReference:
		id, err := d.ReadUUID()
		if err != nil {
			return types.PropValue{}, err
		}
		return types.ReferenceValue(id), nil
	case types.PropValueKindColor:
		r, err := d.ReadUint8()
		if err != nil {
			return types.PropValue{}, err
		}
		g, err := d.ReadUint8()
		if err != nil {
			return types.PropValue{}, err
		}
		b, err := d.ReadUint8()
		if err != nil {
			return types.PropValue{}, err
		}
		return types.ColorValue(types.Color{R: r, G: g, B: b}), nil
	default:
		return types.PropValue{}, fmt.Errorf("wire: unknown PropValueKind %d", kindByte)
	}
}

// EncodeOptionalPropValue writes a presence byte followed by the value
// when present; UpsertProp's value is Option<PropValue> on the wire.
func (e *Encoder) EncodeOptionalPropValue(v *types.PropValue) {
	if v == nil {
		e.WriteBool(false)
		return
	}
	e.WriteBool(true)
	e.EncodePropValue(*v)
}

func (d *Decoder) DecodeOptionalPropValue() (*types.PropValue, error) {
	present, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := d.DecodePropValue()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// EncodeMutation appends a tagged Mutation.
func (e *Encoder) EncodeMutation(m types.Mutation) {
	e.WriteUint8(uint8(m.Kind))
	switch m.Kind {
	case types.MutationKindCreateObject:
		e.WriteUUID(m.ObjectId)
		e.WriteUint8(uint8(m.ObjectKind))
	case types.MutationKindUpsertProp:
		e.WriteUUID(m.ObjectId)
		e.WriteUint8(uint8(m.PropKind))
		e.EncodeOptionalPropValue(m.Value)
	case types.MutationKindDeleteObject:
		e.WriteUUID(m.ObjectId)
	}
}

func (d *Decoder) DecodeMutation() (types.Mutation, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.Mutation{}, err
	}
	kind := types.MutationKind(kindByte)
	switch kind {
	case types.MutationKindCreateObject:
		id, err := d.ReadUUID()
		if err != nil {
			return types.Mutation{}, err
		}
		ok, err := d.ReadUint8()
		if err != nil {
			return types.Mutation{}, err
		}
		return types.CreateObjectMutation(id, types.ObjectKind(ok)), nil
	case types.MutationKindUpsertProp:
		id, err := d.ReadUUID()
		if err != nil {
			return types.Mutation{}, err
		}
		pk, err := d.ReadUint8()
		if err != nil {
			return types.Mutation{}, err
		}
		v, err := d.DecodeOptionalPropValue()
		if err != nil {
			return types.Mutation{}, err
		}
		return types.UpsertPropMutation(id, types.PropKind(pk), v), nil
	case types.MutationKindDeleteObject:
		id, err := d.ReadUUID()
		if err != nil {
			return types.Mutation{}, err
		}
		return types.DeleteObjectMutation(id), nil
	default:
		return types.Mutation{}, fmt.Errorf("wire: unknown MutationKind %d", kindByte)
	}
}

// EncodeTransaction appends a Transaction: its id followed by a
// length-prefixed vector of mutations.
func (e *Encoder) EncodeTransaction(tx types.Transaction) {
	e.WriteUUID(tx.Id)
	e.WriteUint32(uint32(len(tx.Items)))
	for _, m := range tx.Items {
		e.EncodeMutation(m)
	}
}

func (d *Decoder) DecodeTransaction() (types.Transaction, error) {
	id, err := d.ReadUUID()
	if err != nil {
		return types.Transaction{}, err
	}
	n, err := d.ReadUint32()
	if err != nil {
		return types.Transaction{}, err
	}
	items := make([]types.Mutation, 0, n)
	for i := uint32(0); i < n; i++ {
		m, err := d.DecodeMutation()
		if err != nil {
			return types.Transaction{}, err
		}
		items = append(items, m)
	}
	return types.Transaction{Id: id, Items: items}, nil
}

// EncodeSessionSnapshot appends a SessionSnapshot: a length-prefixed
// vector of 16-bit connection ids.
func (e *Encoder) EncodeSessionSnapshot(s types.SessionSnapshot) {
	e.WriteUint32(uint32(len(s.Connections)))
	for _, c := range s.Connections {
		e.WriteUint16(uint16(c))
	}
}

func (d *Decoder) DecodeSessionSnapshot() (types.SessionSnapshot, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return types.SessionSnapshot{}, err
	}
	conns := make([]types.ConnectionId, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := d.ReadUint16()
		if err != nil {
			return types.SessionSnapshot{}, err
		}
		conns = append(conns, types.ConnectionId(c))
	}
	return types.SessionSnapshot{Connections: conns}, nil
}
