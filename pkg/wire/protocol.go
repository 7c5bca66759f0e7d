package wire

import (
	"fmt"

	"github.com/cuemby/rcanvas/pkg/types"
)

// EncodeSessionCommand appends a tagged SessionCommand.
func (e *Encoder) EncodeSessionCommand(c types.SessionCommand) {
	e.WriteUint8(uint8(c.Kind))
	switch c.Kind {
	case types.SessionCommandKindLivePointer:
		e.WriteFloat32(c.LivePointer.X)
		e.WriteFloat32(c.LivePointer.Y)
	case types.SessionCommandKindTransaction:
		e.EncodeTransaction(c.Transaction)
	}
}

func (d *Decoder) DecodeSessionCommand() (types.SessionCommand, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.SessionCommand{}, err
	}
	kind := types.SessionCommandKind(kindByte)
	switch kind {
	case types.SessionCommandKindLivePointer:
		x, err := d.ReadFloat32()
		if err != nil {
			return types.SessionCommand{}, err
		}
		y, err := d.ReadFloat32()
		if err != nil {
			return types.SessionCommand{}, err
		}
		return types.SessionCommand{Kind: kind, LivePointer: types.LivePointer{X: x, Y: y}}, nil
	case types.SessionCommandKindTransaction:
		tx, err := d.DecodeTransaction()
		if err != nil {
			return types.SessionCommand{}, err
		}
		return types.SessionCommand{Kind: kind, Transaction: tx}, nil
	default:
		return types.SessionCommand{}, fmt.Errorf("wire: unknown SessionCommandKind %d", kindByte)
	}
}

// EncodeIdentifiableCommand appends an IdentifiableCommand: the message a
// client sends over the wire.
func (e *Encoder) EncodeIdentifiableCommand(c types.IdentifiableCommand) {
	e.WriteUint16(uint16(c.CommandId))
	e.EncodeSessionCommand(c.SessionCommand)
}

func (d *Decoder) DecodeIdentifiableCommand() (types.IdentifiableCommand, error) {
	id, err := d.ReadUint16()
	if err != nil {
		return types.IdentifiableCommand{}, err
	}
	cmd, err := d.DecodeSessionCommand()
	if err != nil {
		return types.IdentifiableCommand{}, err
	}
	return types.IdentifiableCommand{CommandId: types.CommandId(id), SessionCommand: cmd}, nil
}

func (e *Encoder) EncodeSessionEvent(ev types.SessionEvent) {
	e.WriteUint8(uint8(ev.Kind))
	switch ev.Kind {
	case types.SessionEventKindInit:
		e.WriteUint32(uint32(ev.SessionId))
		e.EncodeSessionSnapshot(ev.SessionSnapshot)
		e.WriteVarBytes(ev.DocumentSnapshot)
	case types.SessionEventKindLivePointer:
		e.WriteUint16(uint16(ev.ConnectionId))
		e.WriteFloat32(ev.X)
		e.WriteFloat32(ev.Y)
	case types.SessionEventKindSessionStateChanged:
		e.EncodeSessionSnapshot(ev.SessionSnapshot)
	case types.SessionEventKindTransactionAck:
		e.WriteUUID(ev.TransactionId)
	case types.SessionEventKindTransactionNack:
		e.WriteUUID(ev.TransactionId)
		e.WriteUint8(uint8(ev.RollbackReason))
	case types.SessionEventKindOthersTransaction:
		e.EncodeTransaction(ev.Transaction)
	case types.SessionEventKindTerminatedBySystem:
		// no payload
	}
}

func (d *Decoder) DecodeSessionEvent() (types.SessionEvent, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.SessionEvent{}, err
	}
	kind := types.SessionEventKind(kindByte)
	ev := types.SessionEvent{Kind: kind}
	switch kind {
	case types.SessionEventKindInit:
		sid, err := d.ReadUint32()
		if err != nil {
			return types.SessionEvent{}, err
		}
		snap, err := d.DecodeSessionSnapshot()
		if err != nil {
			return types.SessionEvent{}, err
		}
		doc, err := d.ReadVarBytes()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.SessionId = types.SessionId(sid)
		ev.SessionSnapshot = snap
		ev.DocumentSnapshot = doc
	case types.SessionEventKindLivePointer:
		cid, err := d.ReadUint16()
		if err != nil {
			return types.SessionEvent{}, err
		}
		x, err := d.ReadFloat32()
		if err != nil {
			return types.SessionEvent{}, err
		}
		y, err := d.ReadFloat32()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.ConnectionId = types.ConnectionId(cid)
		ev.X, ev.Y = x, y
	case types.SessionEventKindSessionStateChanged:
		snap, err := d.DecodeSessionSnapshot()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.SessionSnapshot = snap
	case types.SessionEventKindTransactionAck:
		tid, err := d.ReadUUID()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.TransactionId = tid
	case types.SessionEventKindTransactionNack:
		tid, err := d.ReadUUID()
		if err != nil {
			return types.SessionEvent{}, err
		}
		r, err := d.ReadUint8()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.TransactionId = tid
		ev.RollbackReason = types.RollbackReason(r)
	case types.SessionEventKindOthersTransaction:
		tx, err := d.DecodeTransaction()
		if err != nil {
			return types.SessionEvent{}, err
		}
		ev.Transaction = tx
	case types.SessionEventKindTerminatedBySystem:
		// no payload
	default:
		return types.SessionEvent{}, fmt.Errorf("wire: unknown SessionEventKind %d", kindByte)
	}
	return ev, nil
}

func (e *Encoder) EncodeSessionError(se types.SessionError) {
	e.WriteUint8(uint8(se.Kind))
	e.WriteString(se.Reason)
}

func (d *Decoder) DecodeSessionError() (types.SessionError, error) {
	k, err := d.ReadUint8()
	if err != nil {
		return types.SessionError{}, err
	}
	reason, err := d.ReadString()
	if err != nil {
		return types.SessionError{}, err
	}
	return types.SessionError{Kind: types.SessionErrorKind(k), Reason: reason}, nil
}

func (e *Encoder) EncodeCommandResult(r types.CommandResult) {
	e.WriteUint8(uint8(r.Kind))
	switch r.Kind {
	case types.CommandResultKindEvent:
		e.EncodeSessionEvent(r.Event)
	case types.CommandResultKindError:
		e.EncodeSessionError(r.Error)
	}
}

func (d *Decoder) DecodeCommandResult() (types.CommandResult, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.CommandResult{}, err
	}
	kind := types.CommandResultKind(kindByte)
	switch kind {
	case types.CommandResultKindEvent:
		ev, err := d.DecodeSessionEvent()
		if err != nil {
			return types.CommandResult{}, err
		}
		return types.CommandResult{Kind: kind, Event: ev}, nil
	case types.CommandResultKindError:
		se, err := d.DecodeSessionError()
		if err != nil {
			return types.CommandResult{}, err
		}
		return types.CommandResult{Kind: kind, Error: se}, nil
	default:
		return types.CommandResult{}, fmt.Errorf("wire: unknown CommandResultKind %d", kindByte)
	}
}

// EncodeIdentifiableEvent appends an IdentifiableEvent: the message the
// server sends over the wire.
func (e *Encoder) EncodeIdentifiableEvent(ev types.IdentifiableEvent) {
	e.WriteUint8(uint8(ev.Kind))
	switch ev.Kind {
	case types.IdentifiableEventKindByMyself:
		e.WriteUint16(uint16(ev.CommandId))
		e.EncodeCommandResult(ev.CommandResult)
	case types.IdentifiableEventKindBySystem:
		e.EncodeSessionEvent(ev.SystemEvent)
	}
}

func (d *Decoder) DecodeIdentifiableEvent() (types.IdentifiableEvent, error) {
	kindByte, err := d.ReadUint8()
	if err != nil {
		return types.IdentifiableEvent{}, err
	}
	kind := types.IdentifiableEventKind(kindByte)
	switch kind {
	case types.IdentifiableEventKindByMyself:
		cid, err := d.ReadUint16()
		if err != nil {
			return types.IdentifiableEvent{}, err
		}
		res, err := d.DecodeCommandResult()
		if err != nil {
			return types.IdentifiableEvent{}, err
		}
		return types.IdentifiableEvent{Kind: kind, CommandId: types.CommandId(cid), CommandResult: res}, nil
	case types.IdentifiableEventKindBySystem:
		ev, err := d.DecodeSessionEvent()
		if err != nil {
			return types.IdentifiableEvent{}, err
		}
		return types.IdentifiableEvent{Kind: kind, SystemEvent: ev}, nil
	default:
		return types.IdentifiableEvent{}, fmt.Errorf("wire: unknown IdentifiableEventKind %d", kindByte)
	}
}
