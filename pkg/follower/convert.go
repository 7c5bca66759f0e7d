package follower

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/index"
	"github.com/cuemby/rcanvas/pkg/types"
)

// ErrIndexOutOfRange is returned by convertCommand for an UpdateIndex
// command whose IntIndex does not address a valid sibling position.
var ErrIndexOutOfRange = errors.New("follower: index out of range")

// ErrUnknownObject is returned when a command references an object id the
// reader has no record of.
var ErrUnknownObject = errors.New("follower: unknown object id")

func val(v types.PropValue) *types.PropValue { return &v }

// convertCommand is the only place high-level command intent becomes a
// low-level Transaction. r must reflect the state immediately before the
// command is applied.
func convertCommand(r document.Reader, cmd Command) (types.Transaction, error) {
	switch cmd.Kind {
	case CommandKindUpdateDocumentName:
		return types.NewTransaction([]types.Mutation{
			types.UpsertPropMutation(r.DocumentID(), types.PropKindName, val(types.StringValue(cmd.Name))),
		}), nil

	case CommandKindCreateOval:
		id := uuid.New()
		idx := nextChildIndex(r, r.DocumentID())
		return types.NewTransaction([]types.Mutation{
			types.CreateObjectMutation(id, types.ObjectKindOval),
			types.UpsertPropMutation(id, types.PropKindParent, val(types.ReferenceValue(r.DocumentID()))),
			types.UpsertPropMutation(id, types.PropKindIndex, val(types.StringValue(idx.String()))),
			types.UpsertPropMutation(id, types.PropKindPosX, val(types.FloatValue(cmd.Pos.X))),
			types.UpsertPropMutation(id, types.PropKindPosY, val(types.FloatValue(cmd.Pos.Y))),
			types.UpsertPropMutation(id, types.PropKindRadiusH, val(types.FloatValue(cmd.RadiusH))),
			types.UpsertPropMutation(id, types.PropKindRadiusV, val(types.FloatValue(cmd.RadiusV))),
			types.UpsertPropMutation(id, types.PropKindFillColor, val(types.ColorValue(cmd.Fill))),
		}), nil

	case CommandKindCreateFrame:
		id := uuid.New()
		idx := nextChildIndex(r, r.DocumentID())
		return types.NewTransaction([]types.Mutation{
			types.CreateObjectMutation(id, types.ObjectKindFrame),
			types.UpsertPropMutation(id, types.PropKindParent, val(types.ReferenceValue(r.DocumentID()))),
			types.UpsertPropMutation(id, types.PropKindIndex, val(types.StringValue(idx.String()))),
			types.UpsertPropMutation(id, types.PropKindPosX, val(types.FloatValue(cmd.Pos.X))),
			types.UpsertPropMutation(id, types.PropKindPosY, val(types.FloatValue(cmd.Pos.Y))),
			types.UpsertPropMutation(id, types.PropKindWidth, val(types.FloatValue(cmd.Width))),
			types.UpsertPropMutation(id, types.PropKindHeight, val(types.FloatValue(cmd.Height))),
		}), nil

	case CommandKindUpdateName:
		return types.NewTransaction([]types.Mutation{
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindName, val(types.StringValue(cmd.Name))),
		}), nil

	case CommandKindUpdatePosition:
		return types.NewTransaction([]types.Mutation{
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindPosX, val(types.FloatValue(cmd.Pos.X))),
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindPosY, val(types.FloatValue(cmd.Pos.Y))),
		}), nil

	case CommandKindDeleteObject:
		items := document.GetAllPropsOfObject(r, cmd.ObjectId)
		removals := make([]types.Mutation, 0, len(items)+1)
		for _, m := range items {
			removals = append(removals, types.UpsertPropMutation(m.ObjectId, m.PropKind, nil))
		}
		removals = append(removals, types.DeleteObjectMutation(cmd.ObjectId))
		return types.NewTransaction(removals), nil

	case CommandKindUpdateIndex:
		parent, ok := document.GetReferenceProp(r, cmd.ObjectId, types.PropKindParent)
		if !ok {
			return types.Transaction{}, fmt.Errorf("%w: %s has no parent", ErrUnknownObject, cmd.ObjectId)
		}
		siblings := document.GetChildren(r, parent)
		newIdx, err := indexForPosition(siblings, cmd.IntIndex)
		if err != nil {
			return types.Transaction{}, err
		}
		return types.NewTransaction([]types.Mutation{
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindIndex, val(types.StringValue(newIdx.String()))),
		}), nil

	case CommandKindUpdateParent:
		currentGlobal := document.GetGlobalTransform(r, cmd.ObjectId)
		newParentGlobal := document.GetGlobalTransform(r, cmd.NewParent)
		newLocal := currentGlobal
		if inv, ok := newParentGlobal.Inverse(); ok {
			newLocal = currentGlobal.Then(inv)
		}
		idx := nextChildIndex(r, cmd.NewParent)
		return types.NewTransaction([]types.Mutation{
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindParent, val(types.ReferenceValue(cmd.NewParent))),
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindIndex, val(types.StringValue(idx.String()))),
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindPosX, val(types.FloatValue(newLocal.M31))),
			types.UpsertPropMutation(cmd.ObjectId, types.PropKindPosY, val(types.FloatValue(newLocal.M32))),
		}), nil

	default:
		return types.Transaction{}, fmt.Errorf("follower: unknown command kind %d", cmd.Kind)
	}
}

// nextChildIndex computes the fractional index for a new last child of
// parent: mid() if it has no children yet, otherwise strictly greater than
// its current last sibling.
func nextChildIndex(r document.Reader, parent types.ObjectId) index.Base95 {
	siblings := document.GetChildren(r, parent)
	if len(siblings) == 0 {
		return index.Mid()
	}
	return index.AvgWithOne(siblings[len(siblings)-1].Index)
}

// indexForPosition computes the fractional index that places an object at
// intIndex within siblings (which includes the object being moved at its
// current position).
func indexForPosition(siblings []document.ChildRef, intIndex int) (index.Base95, error) {
	n := len(siblings)
	if n == 0 || intIndex < 0 || intIndex > n-1 {
		return "", fmt.Errorf("%w: %d not in [0,%d]", ErrIndexOutOfRange, intIndex, n-1)
	}
	if intIndex == 0 {
		return index.AvgWithZero(siblings[0].Index), nil
	}
	if intIndex == n-1 {
		return index.AvgWithOne(siblings[n-1].Index), nil
	}
	return index.Avg(siblings[intIndex-1].Index, siblings[intIndex].Index), nil
}

// InvalidationSet computes the object ids whose materialization must be
// recomputed after tx. r must reflect the state immediately before tx is
// applied.
func InvalidationSet(tx types.Transaction, r document.Reader) []types.ObjectId {
	seen := map[types.ObjectId]struct{}{}
	var out []types.ObjectId
	add := func(id types.ObjectId) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, m := range tx.Items {
		switch m.Kind {
		case types.MutationKindCreateObject:
			// The Parent upsert in the same transaction covers it.
		case types.MutationKindDeleteObject:
			if p, ok := document.GetReferenceProp(r, m.ObjectId, types.PropKindParent); ok {
				add(p)
			}
		case types.MutationKindUpsertProp:
			switch m.PropKind {
			case types.PropKindParent:
				if prev, ok := document.GetReferenceProp(r, m.ObjectId, types.PropKindParent); ok {
					add(prev)
				}
				if m.Value != nil && m.Value.Kind == types.PropValueKindReference {
					add(m.Value.Reference)
				}
			case types.PropKindIndex:
				if p, ok := document.GetReferenceProp(r, m.ObjectId, types.PropKindParent); ok {
					add(p)
				}
			default:
				add(m.ObjectId)
			}
		}
	}
	return out
}
