package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
	"github.com/cuemby/rcanvas/pkg/wire"
)

func initEventBytes(t *testing.T, sessionID types.SessionId, conns []types.ConnectionId) []byte {
	t.Helper()
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableEvent(types.IdentifiableEvent{
		Kind: types.IdentifiableEventKindBySystem,
		SystemEvent: types.SessionEvent{
			Kind:             types.SessionEventKindInit,
			SessionId:        sessionID,
			SessionSnapshot:  types.SessionSnapshot{Connections: conns},
			DocumentSnapshot: document.New().Encode(),
		},
	})
	return enc.Bytes()
}

func newTestKernel(t *testing.T) *Kernel {
	t.Helper()
	k, err := New(initEventBytes(t, 1, []types.ConnectionId{1}))
	require.NoError(t, err)
	return k
}

func TestPushDocumentCommandQueuesWireBytesAndInvalidation(t *testing.T) {
	k := newTestKernel(t)

	err := k.PushDocumentCommand([]byte(`{"kind":"createOval","posX":1,"posY":2,"radiusH":3,"radiusV":4}`))
	require.NoError(t, err)

	data, ok := k.ConsumePendingIdentifiableCommand()
	require.True(t, ok)

	cmd, err := wire.NewDecoder(data).DecodeIdentifiableCommand()
	require.NoError(t, err)
	assert.Equal(t, types.SessionCommandKindTransaction, cmd.SessionCommand.Kind)
	assert.NotEmpty(t, cmd.SessionCommand.Transaction.Items)

	_, ok = k.ConsumePendingIdentifiableCommand()
	assert.False(t, ok, "queue should be empty after a single consume")

	invalidated := k.ConsumeInvalidatedObjectIDs()
	assert.NotEmpty(t, invalidated)
}

func TestHandleEventFromServerAckCommitsLocalTransaction(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.PushDocumentCommand([]byte(`{"kind":"createFrame","posX":0,"posY":0,"width":10,"height":10}`)))

	data, ok := k.ConsumePendingIdentifiableCommand()
	require.True(t, ok)
	sent, err := wire.NewDecoder(data).DecodeIdentifiableCommand()
	require.NoError(t, err)
	txID := sent.SessionCommand.Transaction.Id

	ack := types.IdentifiableEvent{
		Kind:      types.IdentifiableEventKindByMyself,
		CommandId: sent.CommandId,
		CommandResult: types.CommandResult{
			Kind:  types.CommandResultKindEvent,
			Event: types.SessionEvent{Kind: types.SessionEventKindTransactionAck, TransactionId: txID},
		},
	}
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableEvent(ack)
	require.NoError(t, k.HandleEventFromServer(enc.Bytes()))

	doc := k.MaterializeDocument()
	assert.Len(t, doc.Children, 1)
}

func TestHandleEventFromServerInitSetsSessionSnapshot(t *testing.T) {
	k := newTestKernel(t)

	initEv := types.IdentifiableEvent{
		Kind: types.IdentifiableEventKindBySystem,
		SystemEvent: types.SessionEvent{
			Kind:            types.SessionEventKindInit,
			SessionId:       7,
			SessionSnapshot: types.SessionSnapshot{Connections: []types.ConnectionId{1, 2}},
		},
	}
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableEvent(initEv)
	require.NoError(t, k.HandleEventFromServer(enc.Bytes()))

	assert.Equal(t, types.SessionSnapshot{Connections: []types.ConnectionId{1, 2}}, k.MaterializeSession())
}

func TestHandleEventFromServerLivePointerQueuesEvent(t *testing.T) {
	k := newTestKernel(t)

	lp := types.IdentifiableEvent{
		Kind: types.IdentifiableEventKindBySystem,
		SystemEvent: types.SessionEvent{
			Kind:         types.SessionEventKindLivePointer,
			ConnectionId: 3,
			X:            1.5,
			Y:            2.5,
		},
	}
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableEvent(lp)
	require.NoError(t, k.HandleEventFromServer(enc.Bytes()))

	events := k.ConsumeLivePointerEvents()
	require.Len(t, events, 1)
	assert.Equal(t, types.ConnectionId(3), events[0].ConnectionId)
	assert.Equal(t, float32(1.5), events[0].X)

	assert.Empty(t, k.ConsumeLivePointerEvents())
}

func TestUndoRedoQueueInverseTransactions(t *testing.T) {
	k := newTestKernel(t)
	require.NoError(t, k.PushDocumentCommand([]byte(`{"kind":"updateDocumentName","name":"hello"}`)))
	_, _ = k.ConsumePendingIdentifiableCommand()
	_ = k.ConsumeInvalidatedObjectIDs()

	require.NoError(t, k.Undo())
	data, ok := k.ConsumePendingIdentifiableCommand()
	require.True(t, ok)
	_, err := wire.NewDecoder(data).DecodeIdentifiableCommand()
	require.NoError(t, err)

	require.NoError(t, k.Redo())
	_, ok = k.ConsumePendingIdentifiableCommand()
	assert.True(t, ok)
}

func TestUndoWithEmptyStackErrors(t *testing.T) {
	k := newTestKernel(t)
	assert.Error(t, k.Undo())
}

func TestPushDocumentCommandUnknownKindErrors(t *testing.T) {
	k := newTestKernel(t)
	err := k.PushDocumentCommand([]byte(`{"kind":"doesNotExist"}`))
	assert.Error(t, err)
}

func TestPushDocumentCommandInvalidObjectIdErrors(t *testing.T) {
	k := newTestKernel(t)
	err := k.PushDocumentCommand([]byte(`{"kind":"deleteObject","objectId":"not-a-uuid"}`))
	assert.Error(t, err)
}

func TestNewRejectsUndecodableInitEvent(t *testing.T) {
	_, err := New([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestNewRejectsNonInitEvent(t *testing.T) {
	enc := wire.NewEncoder()
	enc.EncodeIdentifiableEvent(types.IdentifiableEvent{
		Kind:        types.IdentifiableEventKindBySystem,
		SystemEvent: types.SessionEvent{Kind: types.SessionEventKindTerminatedBySystem},
	})
	_, err := New(enc.Bytes())
	assert.Error(t, err)
}

func TestNewAdoptsInitSessionSnapshot(t *testing.T) {
	k, err := New(initEventBytes(t, 9, []types.ConnectionId{4, 5}))
	require.NoError(t, err)
	assert.Equal(t, types.SessionSnapshot{Connections: []types.ConnectionId{4, 5}}, k.MaterializeSession())
}

func TestPushLivePointerQueuesOutgoingCommand(t *testing.T) {
	k := newTestKernel(t)
	k.PushLivePointer(4, 5)

	data, ok := k.ConsumePendingIdentifiableCommand()
	require.True(t, ok)
	cmd, err := wire.NewDecoder(data).DecodeIdentifiableCommand()
	require.NoError(t, err)
	assert.Equal(t, types.SessionCommandKindLivePointer, cmd.SessionCommand.Kind)
	assert.Equal(t, float32(4), cmd.SessionCommand.LivePointer.X)
}
