// Package types defines the core identifiers and value types shared by every
// layer of the canvas system: the document model, the transaction pipeline,
// the session orchestrator, and the wire protocol that connects them.
package types

import (
	"github.com/google/uuid"
)

// ObjectId identifies a document object: the document root itself, or any
// shape created inside it.
type ObjectId = uuid.UUID

// TransactionId identifies a single atomic batch of mutations.
type TransactionId = uuid.UUID

// FileId identifies a persisted document on disk.
type FileId = uuid.UUID

// ConnectionId identifies a live socket. It wraps around a 16-bit counter;
// the orchestrator is expected to tolerate reuse after 1<<16 connections.
type ConnectionId uint16

// SessionId identifies a live session (one per open file). It wraps around
// a 32-bit counter.
type SessionId uint32

// CommandId is assigned by a client to correlate an outbound command with
// the IdentifiableEvent::ByMyself response it eventually produces. It is
// scoped per connection and wraps around a 16-bit counter.
type CommandId uint16

// ObjectKind enumerates the closed set of object kinds the document model
// supports. New shape kinds are added here and in the materializer.
type ObjectKind uint8

const (
	ObjectKindDocument ObjectKind = iota
	ObjectKindFrame
	ObjectKindOval
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectKindDocument:
		return "Document"
	case ObjectKindFrame:
		return "Frame"
	case ObjectKindOval:
		return "Oval"
	default:
		return "Unknown"
	}
}

// PropKind enumerates the closed set of property kinds an object may carry.
type PropKind uint8

const (
	PropKindParent PropKind = iota
	PropKindName
	PropKindPosX
	PropKindPosY
	PropKindWidth
	PropKindHeight
	PropKindRadiusH
	PropKindRadiusV
	PropKindIndex
	PropKindFillColor
)

func (k PropKind) String() string {
	switch k {
	case PropKindParent:
		return "Parent"
	case PropKindName:
		return "Name"
	case PropKindPosX:
		return "PosX"
	case PropKindPosY:
		return "PosY"
	case PropKindWidth:
		return "Width"
	case PropKindHeight:
		return "Height"
	case PropKindRadiusH:
		return "RadiusH"
	case PropKindRadiusV:
		return "RadiusV"
	case PropKindIndex:
		return "Index"
	case PropKindFillColor:
		return "FillColor"
	default:
		return "Unknown"
	}
}

// PropValueKind tags which field of PropValue is populated. PropValue is a
// closed sum type; this tag is what rides on the wire.
type PropValueKind uint8

const (
	PropValueKindString PropValueKind = iota
	PropValueKindFloat32
	PropValueKindReference
	PropValueKindColor
)

// Color is an 8-bit-per-channel RGB color.
type Color struct {
	R, G, B uint8
}

// PropValue is the closed sum type a property holds: exactly one of a
// string, a 32-bit float, a reference to another object, or a color.
type PropValue struct {
	Kind      PropValueKind
	String    string
	Float32   float32
	Reference ObjectId
	Color     Color
}

func StringValue(s string) PropValue { return PropValue{Kind: PropValueKindString, String: s} }
func FloatValue(f float32) PropValue { return PropValue{Kind: PropValueKindFloat32, Float32: f} }
func ColorValue(c Color) PropValue   { return PropValue{Kind: PropValueKindColor, Color: c} }

func ReferenceValue(id ObjectId) PropValue {
	return PropValue{Kind: PropValueKindReference, Reference: id}
}

// MutationKind tags which field of Mutation is populated.
type MutationKind uint8

const (
	MutationKindCreateObject MutationKind = iota
	MutationKindUpsertProp
	MutationKindDeleteObject
)

// Mutation is a single step of a Transaction. It is one of:
//
//   - CreateObject(ObjectId, ObjectKind)
//   - UpsertProp(ObjectId, PropKind, *PropValue) — a nil Value deletes the
//     property
//   - DeleteObject(ObjectId)
type Mutation struct {
	Kind       MutationKind
	ObjectId   ObjectId
	ObjectKind ObjectKind
	PropKind   PropKind
	Value      *PropValue
}

func CreateObjectMutation(id ObjectId, kind ObjectKind) Mutation {
	return Mutation{Kind: MutationKindCreateObject, ObjectId: id, ObjectKind: kind}
}

func UpsertPropMutation(id ObjectId, kind PropKind, value *PropValue) Mutation {
	return Mutation{Kind: MutationKindUpsertProp, ObjectId: id, PropKind: kind, Value: value}
}

func DeleteObjectMutation(id ObjectId) Mutation {
	return Mutation{Kind: MutationKindDeleteObject, ObjectId: id}
}

// Transaction is an atomic, ordered batch of mutations. All items apply
// together or none do.
type Transaction struct {
	Id    TransactionId
	Items []Mutation
}

// NewTransaction allocates a fresh transaction id for the given items.
func NewTransaction(items []Mutation) Transaction {
	return Transaction{Id: uuid.New(), Items: items}
}

// Clone returns a deep copy, safe to mutate independently of the original.
func (t Transaction) Clone() Transaction {
	items := make([]Mutation, len(t.Items))
	copy(items, t.Items)
	return Transaction{Id: t.Id, Items: items}
}

// SessionBehavior controls when a session's server leader commits pending
// transactions.
type SessionBehavior uint8

const (
	// AutoTerminateWhenEmpty commits every transaction immediately and
	// tears the session down once its last connection leaves.
	AutoTerminateWhenEmpty SessionBehavior = iota
	// ManualCommitByAdmin queues transactions until an admin explicitly
	// commits the head of the queue.
	ManualCommitByAdmin
)

// RollbackReason is returned to a client alongside a TransactionNack.
type RollbackReason uint8

const (
	RollbackReasonSomething RollbackReason = iota
	RollbackReasonCyclicParent
)

func (r RollbackReason) String() string {
	switch r {
	case RollbackReasonCyclicParent:
		return "cyclic parent reference"
	default:
		return "rollback"
	}
}

// SessionSnapshot is the externally visible state of a session: which
// connections currently belong to it.
type SessionSnapshot struct {
	Connections []ConnectionId
}
