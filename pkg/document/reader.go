package document

import (
	"sort"

	"github.com/cuemby/rcanvas/pkg/index"
	"github.com/cuemby/rcanvas/pkg/types"
)

// Reader is the capability set every layer of this system reads through —
// the document store itself, the transaction manager overlay, and the
// transactional document that composes the two. The materializer and the
// command-conversion logic are both written against this interface, never
// against a concrete store.
type Reader interface {
	DocumentID() types.ObjectId
	GetProp(id types.ObjectId, kind types.PropKind) (types.PropValue, bool)
	GetObjectKind(id types.ObjectId) (types.ObjectKind, bool)
	IsDeleted(id types.ObjectId) bool
	IterObjects() []types.ObjectId
}

// allPropKinds is the fixed, closed enumeration of property kinds;
// GetAllPropsOfObject walks it rather than keeping a secondary per-object
// index, since the set is small.
var allPropKinds = []types.PropKind{
	types.PropKindParent,
	types.PropKindName,
	types.PropKindPosX,
	types.PropKindPosY,
	types.PropKindWidth,
	types.PropKindHeight,
	types.PropKindRadiusH,
	types.PropKindRadiusV,
	types.PropKindIndex,
	types.PropKindFillColor,
}

// GetAllPropsOfObject returns every property currently set on id, used by
// the DeleteObject command expansion in pkg/follower to emit explicit
// property removals ahead of the DeleteObject mutation, and by transaction
// inversion to restore them.
func GetAllPropsOfObject(r Reader, id types.ObjectId) []types.Mutation {
	var out []types.Mutation
	for _, k := range allPropKinds {
		if v, ok := r.GetProp(id, k); ok {
			val := v
			out = append(out, types.UpsertPropMutation(id, k, &val))
		}
	}
	return out
}

func GetStringProp(r Reader, id types.ObjectId, kind types.PropKind) (string, bool) {
	v, ok := r.GetProp(id, kind)
	if !ok || v.Kind != types.PropValueKindString {
		return "", false
	}
	return v.String, true
}

func GetFloatProp(r Reader, id types.ObjectId, kind types.PropKind) (float32, bool) {
	v, ok := r.GetProp(id, kind)
	if !ok || v.Kind != types.PropValueKindFloat32 {
		return 0, false
	}
	return v.Float32, true
}

func GetReferenceProp(r Reader, id types.ObjectId, kind types.PropKind) (types.ObjectId, bool) {
	v, ok := r.GetProp(id, kind)
	if !ok || v.Kind != types.PropValueKindReference {
		return types.ObjectId{}, false
	}
	return v.Reference, true
}

func GetColorProp(r Reader, id types.ObjectId, kind types.PropKind) (types.Color, bool) {
	v, ok := r.GetProp(id, kind)
	if !ok || v.Kind != types.PropValueKindColor {
		return types.Color{}, false
	}
	return v.Color, true
}

// ChildRef pairs an object id with its Index property, used for sibling
// ordering and fractional-index computation.
type ChildRef struct {
	ObjectId types.ObjectId
	Index    index.Base95
}

// GetChildren returns the non-tombstoned objects whose Parent property is
// parent, ordered by Index and then by ObjectId to keep the order total
// even when two siblings share an index.
func GetChildren(r Reader, parent types.ObjectId) []ChildRef {
	var out []ChildRef
	for _, id := range r.IterObjects() {
		if r.IsDeleted(id) {
			continue
		}
		p, ok := GetReferenceProp(r, id, types.PropKindParent)
		if !ok || p != parent {
			continue
		}
		idxStr, ok := GetStringProp(r, id, types.PropKindIndex)
		var idx index.Base95
		if ok {
			if parsed, err := index.Parse(idxStr); err == nil {
				idx = parsed
			}
		}
		out = append(out, ChildRef{ObjectId: id, Index: idx})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].ObjectId.String() < out[j].ObjectId.String()
	})
	return out
}

// GetLocalTransform returns the translation derived from PosX/PosY,
// defaulting to zero for either that is unset.
func GetLocalTransform(r Reader, id types.ObjectId) Transform2D {
	x, _ := GetFloatProp(r, id, types.PropKindPosX)
	y, _ := GetFloatProp(r, id, types.PropKindPosY)
	return Translation2D(x, y)
}

// maxParentWalk bounds the Parent-chain walk GetGlobalTransform performs.
// A well-formed document's forest never needs anywhere near this many
// hops; it exists purely so a (rejected-at-commit, see pkg/leader)
// malformed cycle can't hang a reader.
const maxParentWalk = 4096

// GetGlobalTransform composes local transforms walking up the Parent
// chain from id to the document root.
func GetGlobalTransform(r Reader, id types.ObjectId) Transform2D {
	t := GetLocalTransform(r, id)
	cur := id
	for i := 0; i < maxParentWalk; i++ {
		if cur == r.DocumentID() {
			return t
		}
		parent, ok := GetReferenceProp(r, cur, types.PropKindParent)
		if !ok || parent == cur {
			return t
		}
		t = t.Then(GetLocalTransform(r, parent))
		cur = parent
	}
	return t
}
