package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

func newTx() types.Transaction {
	return types.NewTransaction([]types.Mutation{types.CreateObjectMutation(uuid.New(), types.ObjectKindOval)})
}

func TestAutoModeCommitsImmediately(t *testing.T) {
	s := New(uuid.New(), document.New(), types.AutoTerminateWhenEmpty)
	tx := newTx()
	committed, err := s.HandleTransaction(types.ConnectionId(1), tx)
	require.NoError(t, err)
	require.NotNil(t, committed)
	assert.Equal(t, types.ConnectionId(1), committed.From)
	assert.Equal(t, tx.Id, committed.Tx.Id)
}

func TestManualModeQueuesWithoutCommitting(t *testing.T) {
	s := New(uuid.New(), document.New(), types.ManualCommitByAdmin)
	tx := newTx()
	committed, err := s.HandleTransaction(types.ConnectionId(1), tx)
	require.NoError(t, err)
	assert.Nil(t, committed)
	assert.True(t, s.HasPendingTransactions())
}

func TestCommitPendingTransactionDrainsQueueInOrder(t *testing.T) {
	s := New(uuid.New(), document.New(), types.ManualCommitByAdmin)
	txA, txB := newTx(), newTx()
	_, err := s.HandleTransaction(types.ConnectionId(1), txA)
	require.NoError(t, err)
	_, err = s.HandleTransaction(types.ConnectionId(2), txB)
	require.NoError(t, err)

	first, err := s.CommitPendingTransaction()
	require.NoError(t, err)
	assert.Equal(t, txA.Id, first.Tx.Id)
	assert.Equal(t, types.ConnectionId(1), first.From)
	assert.True(t, s.HasPendingTransactions())

	second, err := s.CommitPendingTransaction()
	require.NoError(t, err)
	assert.Equal(t, txB.Id, second.Tx.Id)
	assert.False(t, s.HasPendingTransactions())

	_, err = s.CommitPendingTransaction()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCommitPendingTransactionWrongBehaviorIsInvalid(t *testing.T) {
	s := New(uuid.New(), document.New(), types.AutoTerminateWhenEmpty)
	_, err := s.CommitPendingTransaction()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestShouldTerminateOnlyWhenAutoAndEmpty(t *testing.T) {
	s := New(uuid.New(), document.New(), types.AutoTerminateWhenEmpty)
	assert.True(t, s.ShouldTerminate())
	s.AddConnection(1)
	assert.False(t, s.ShouldTerminate())
	s.RemoveConnection(1)
	assert.True(t, s.ShouldTerminate())

	manual := New(uuid.New(), document.New(), types.ManualCommitByAdmin)
	assert.False(t, manual.ShouldTerminate())
}
