package txn

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

func TestBeginShadowsBaseImmediately(t *testing.T) {
	d := NewDocument(document.New())
	id := uuid.New()
	val := types.FloatValue(5)
	tx := types.NewTransaction([]types.Mutation{
		types.CreateObjectMutation(id, types.ObjectKindOval),
		types.UpsertPropMutation(id, types.PropKindPosX, &val),
	})

	d.Begin(tx)

	kind, ok := d.GetObjectKind(id)
	require.True(t, ok)
	assert.Equal(t, types.ObjectKindOval, kind)
	got, ok := document.GetFloatProp(d, id, types.PropKindPosX)
	require.True(t, ok)
	assert.Equal(t, float32(5), got)

	// Not yet committed to the base.
	_, ok = d.Base().GetObjectKind(id)
	assert.False(t, ok)
}

func TestFinishCommitAppliesToBase(t *testing.T) {
	d := NewDocument(document.New())
	id := uuid.New()
	tx := types.NewTransaction([]types.Mutation{types.CreateObjectMutation(id, types.ObjectKindFrame)})

	d.Begin(tx)
	require.NoError(t, d.Finish(tx.Id, true))

	kind, ok := d.Base().GetObjectKind(id)
	require.True(t, ok)
	assert.Equal(t, types.ObjectKindFrame, kind)
	assert.Equal(t, 0, d.PendingLen())
}

func TestFinishRollbackDropsWithoutCommitting(t *testing.T) {
	d := NewDocument(document.New())
	id := uuid.New()
	tx := types.NewTransaction([]types.Mutation{types.CreateObjectMutation(id, types.ObjectKindFrame)})

	d.Begin(tx)
	require.NoError(t, d.Finish(tx.Id, false))

	_, ok := d.GetObjectKind(id)
	assert.False(t, ok)
}

func TestFinishUnknownIdIsRecoverableError(t *testing.T) {
	d := NewDocument(document.New())
	err := d.Finish(uuid.New(), true)
	assert.ErrorIs(t, err, ErrUnknownTransaction)
}

func TestInvertCreateObjectIsDelete(t *testing.T) {
	base := document.New()
	id := uuid.New()
	tx := types.NewTransaction([]types.Mutation{types.CreateObjectMutation(id, types.ObjectKindOval)})

	inv := Invert(tx, base)

	require.Len(t, inv.Items, 1)
	assert.Equal(t, types.MutationKindDeleteObject, inv.Items[0].Kind)
	assert.Equal(t, tx.Id, inv.Id)
}

func TestInvertUpsertPropRestoresPriorValue(t *testing.T) {
	base := document.New()
	id := uuid.New()
	first := types.FloatValue(1)
	require.NoError(t, base.Process(types.NewTransaction([]types.Mutation{
		types.CreateObjectMutation(id, types.ObjectKindOval),
		types.UpsertPropMutation(id, types.PropKindPosX, &first),
	})))

	second := types.FloatValue(99)
	tx := types.NewTransaction([]types.Mutation{types.UpsertPropMutation(id, types.PropKindPosX, &second)})
	inv := Invert(tx, base)

	require.Len(t, inv.Items, 1)
	require.NotNil(t, inv.Items[0].Value)
	assert.Equal(t, float32(1), inv.Items[0].Value.Float32)
}

func TestInversionLawRoundTrips(t *testing.T) {
	base := document.New()
	id := uuid.New()
	first := types.FloatValue(10)
	require.NoError(t, base.Process(types.NewTransaction([]types.Mutation{
		types.CreateObjectMutation(id, types.ObjectKindOval),
		types.UpsertPropMutation(id, types.PropKindPosX, &first),
	})))

	before, ok := document.GetFloatProp(base, id, types.PropKindPosX)
	require.True(t, ok)

	second := types.FloatValue(20)
	tx := types.NewTransaction([]types.Mutation{types.UpsertPropMutation(id, types.PropKindPosX, &second)})
	inv := Invert(tx, base)

	require.NoError(t, base.Process(tx))
	after, ok := document.GetFloatProp(base, id, types.PropKindPosX)
	require.True(t, ok)
	assert.Equal(t, float32(20), after)

	require.NoError(t, base.Process(inv))
	restored, ok := document.GetFloatProp(base, id, types.PropKindPosX)
	require.True(t, ok)
	assert.Equal(t, before, restored)
	assert.Equal(t, tx.Id, inv.Id)
}

func TestInvertDeleteObjectRestoresKindAndProps(t *testing.T) {
	base := document.New()
	id := uuid.New()
	name := types.StringValue("oval-1")
	require.NoError(t, base.Process(types.NewTransaction([]types.Mutation{
		types.CreateObjectMutation(id, types.ObjectKindOval),
		types.UpsertPropMutation(id, types.PropKindName, &name),
	})))

	// The DeleteObject command expansion emits the object's properties
	// ahead of the delete itself; build the same shape here.
	tx := types.NewTransaction(append(
		document.GetAllPropsOfObject(base, id),
		types.DeleteObjectMutation(id),
	))
	inv := Invert(tx, base)

	require.NoError(t, base.Process(tx))
	assert.True(t, base.IsDeleted(id))

	require.NoError(t, base.Process(inv))
	assert.False(t, base.IsDeleted(id))
	kind, ok := base.GetObjectKind(id)
	require.True(t, ok)
	assert.Equal(t, types.ObjectKindOval, kind)
	got, ok := document.GetStringProp(base, id, types.PropKindName)
	require.True(t, ok)
	assert.Equal(t, "oval-1", got)
}
