package follower

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

func TestCreateOvalThenUndoRedoRoundTrips(t *testing.T) {
	f := New(document.New())

	tx, _, err := f.HandleCommand(CreateOval(Point{X: 40, Y: 50}, 30, 20, types.Color{R: 50, G: 50, B: 50}))
	require.NoError(t, err)
	require.NoError(t, f.doc.Finish(tx.Id, true)) // simulate server ack

	assert.Equal(t, 1, f.UndoLen())
	require.Len(t, document.GetChildren(f.Reader(), f.Reader().DocumentID()), 1)

	undoTx, _, err := f.Undo()
	require.NoError(t, err)
	require.NoError(t, f.doc.Finish(undoTx.Id, true))
	assert.Empty(t, document.GetChildren(f.Reader(), f.Reader().DocumentID()))
	assert.Equal(t, 1, f.RedoLen())

	redoTx, _, err := f.Redo()
	require.NoError(t, err)
	require.NoError(t, f.doc.Finish(redoTx.Id, true))
	assert.Len(t, document.GetChildren(f.Reader(), f.Reader().DocumentID()), 1)
}

func TestHandleNackRestoresPreCommandStateAndDropsStackEntry(t *testing.T) {
	f := New(document.New())

	tx, _, err := f.HandleCommand(UpdateDocumentName("hello"))
	require.NoError(t, err)
	require.Equal(t, 1, f.UndoLen())

	_, err = f.HandleNack(tx.Id, types.RollbackReasonSomething)
	require.NoError(t, err)

	name, ok := document.GetStringProp(f.Reader(), f.Reader().DocumentID(), types.PropKindName)
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.Equal(t, 0, f.UndoLen())
}

func TestHandleAckLeavesReaderEqualToDirectApply(t *testing.T) {
	base := document.New()
	f := New(base)

	tx, _, err := f.HandleCommand(UpdateDocumentName("hello"))
	require.NoError(t, err)

	_, err = f.HandleAck(tx.Id)
	require.NoError(t, err)

	name, ok := document.GetStringProp(f.Reader(), f.Reader().DocumentID(), types.PropKindName)
	require.True(t, ok)
	assert.Equal(t, "hello", name)

	baseName, ok := document.GetStringProp(base, base.DocumentID(), types.PropKindName)
	require.True(t, ok)
	assert.Equal(t, "hello", baseName)
}

func TestHandleTransactionAppliesAndCommitsPeerEdit(t *testing.T) {
	f := New(document.New())
	id := uuid.New()
	tx := types.NewTransaction([]types.Mutation{types.CreateObjectMutation(id, types.ObjectKindFrame)})

	invalidated := f.HandleTransaction(tx)
	assert.Empty(t, invalidated) // CreateObject alone contributes no entry

	kind, ok := f.doc.Base().GetObjectKind(id)
	require.True(t, ok)
	assert.Equal(t, types.ObjectKindFrame, kind)
}

func TestUpdateIndexOutOfRangeErrors(t *testing.T) {
	f := New(document.New())
	tx, _, err := f.HandleCommand(CreateOval(Point{}, 1, 1, types.Color{}))
	require.NoError(t, err)
	require.NoError(t, f.doc.Finish(tx.Id, true))

	children := document.GetChildren(f.Reader(), f.Reader().DocumentID())
	require.Len(t, children, 1)

	_, _, err = f.HandleCommand(UpdateIndex(children[0].ObjectId, 5))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestDeleteObjectInvalidationTargetsParent(t *testing.T) {
	base := document.New()
	f := New(base)
	tx, _, err := f.HandleCommand(CreateOval(Point{}, 1, 1, types.Color{}))
	require.NoError(t, err)
	require.NoError(t, f.doc.Finish(tx.Id, true))
	children := document.GetChildren(f.Reader(), f.Reader().DocumentID())
	require.Len(t, children, 1)

	_, invalidated, err := f.HandleCommand(DeleteObject(children[0].ObjectId))
	require.NoError(t, err)
	assert.Equal(t, []types.ObjectId{f.Reader().DocumentID(), children[0].ObjectId}, invalidated)
}
