package materialize

import (
	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/types"
)

// DocumentView is the materialized root: its name and the ids of its
// direct children, in sibling order.
type DocumentView struct {
	ObjectId types.ObjectId   `json:"objectId"`
	Name     string           `json:"name"`
	Children []types.ObjectId `json:"children"`
}

// FrameView is a materialized Frame object.
type FrameView struct {
	ObjectId types.ObjectId   `json:"objectId"`
	Parent   types.ObjectId   `json:"parent"`
	Name     string           `json:"name"`
	PosX     float32          `json:"posX"`
	PosY     float32          `json:"posY"`
	Width    float32          `json:"width"`
	Height   float32          `json:"height"`
	Children []types.ObjectId `json:"children"`
}

// OvalView is a materialized Oval object.
type OvalView struct {
	ObjectId  types.ObjectId `json:"objectId"`
	Parent    types.ObjectId `json:"parent"`
	Name      string         `json:"name"`
	PosX      float32        `json:"posX"`
	PosY      float32        `json:"posY"`
	RadiusH   float32        `json:"radiusH"`
	RadiusV   float32        `json:"radiusV"`
	FillColor types.Color    `json:"fillColor"`
}

// MaterializeDocument projects the document root.
func MaterializeDocument(r document.Reader) DocumentView {
	name, _ := document.GetStringProp(r, r.DocumentID(), types.PropKindName)
	children := make([]types.ObjectId, 0)
	for _, c := range document.GetChildren(r, r.DocumentID()) {
		children = append(children, c.ObjectId)
	}
	return DocumentView{ObjectId: r.DocumentID(), Name: name, Children: children}
}

// MaterializeFrame projects a single Frame object, returning false if id is
// absent, tombstoned, or not a Frame.
func MaterializeFrame(r document.Reader, id types.ObjectId) (FrameView, bool) {
	if r.IsDeleted(id) {
		return FrameView{}, false
	}
	kind, ok := r.GetObjectKind(id)
	if !ok || kind != types.ObjectKindFrame {
		return FrameView{}, false
	}
	name, _ := document.GetStringProp(r, id, types.PropKindName)
	x, _ := document.GetFloatProp(r, id, types.PropKindPosX)
	y, _ := document.GetFloatProp(r, id, types.PropKindPosY)
	w, _ := document.GetFloatProp(r, id, types.PropKindWidth)
	h, _ := document.GetFloatProp(r, id, types.PropKindHeight)
	parent, _ := document.GetReferenceProp(r, id, types.PropKindParent)
	children := make([]types.ObjectId, 0)
	for _, c := range document.GetChildren(r, id) {
		children = append(children, c.ObjectId)
	}
	return FrameView{
		ObjectId: id, Parent: parent, Name: name,
		PosX: x, PosY: y, Width: w, Height: h, Children: children,
	}, true
}

// MaterializeOval projects a single Oval object, returning false if id is
// absent, tombstoned, or not an Oval.
func MaterializeOval(r document.Reader, id types.ObjectId) (OvalView, bool) {
	if r.IsDeleted(id) {
		return OvalView{}, false
	}
	kind, ok := r.GetObjectKind(id)
	if !ok || kind != types.ObjectKindOval {
		return OvalView{}, false
	}
	name, _ := document.GetStringProp(r, id, types.PropKindName)
	x, _ := document.GetFloatProp(r, id, types.PropKindPosX)
	y, _ := document.GetFloatProp(r, id, types.PropKindPosY)
	rh, _ := document.GetFloatProp(r, id, types.PropKindRadiusH)
	rv, _ := document.GetFloatProp(r, id, types.PropKindRadiusV)
	fill, _ := document.GetColorProp(r, id, types.PropKindFillColor)
	parent, _ := document.GetReferenceProp(r, id, types.PropKindParent)
	return OvalView{
		ObjectId: id, Parent: parent, Name: name,
		PosX: x, PosY: y, RadiusH: rh, RadiusV: rv, FillColor: fill,
	}, true
}

// MaterializeObject dispatches to the view matching id's object kind,
// returning the view as an any so the client-kernel JSON surface can
// marshal whichever record applies.
func MaterializeObject(r document.Reader, id types.ObjectId) (any, bool) {
	kind, ok := r.GetObjectKind(id)
	if !ok || r.IsDeleted(id) {
		return nil, false
	}
	switch kind {
	case types.ObjectKindDocument:
		return MaterializeDocument(r), true
	case types.ObjectKindFrame:
		return MaterializeFrame(r, id)
	case types.ObjectKindOval:
		return MaterializeOval(r, id)
	default:
		return nil, false
	}
}
