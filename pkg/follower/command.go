package follower

import (
	"github.com/cuemby/rcanvas/pkg/types"
)

// CommandKind tags which field of Command is populated. The host converts
// its own JSON command shapes into one of these before calling
// Follower.HandleCommand; pkg/kernel owns that JSON boundary.
type CommandKind uint8

const (
	CommandKindUpdateDocumentName CommandKind = iota
	CommandKindCreateOval
	CommandKindCreateFrame
	CommandKindUpdateName
	CommandKindUpdatePosition
	CommandKindDeleteObject
	CommandKindUpdateIndex
	CommandKindUpdateParent
)

// Point is a 2-D position, used by every command that carries one.
type Point struct{ X, Y float32 }

// Command is the closed set of high-level document edits a host can issue.
// Exactly the fields relevant to Kind are populated.
type Command struct {
	Kind CommandKind

	// UpdateDocumentName, UpdateName
	Name string

	// CreateOval, CreateFrame
	Pos Point

	// CreateOval
	RadiusH, RadiusV float32
	Fill             types.Color

	// CreateFrame
	Width, Height float32

	// UpdateName, UpdatePosition, DeleteObject, UpdateIndex, UpdateParent
	ObjectId types.ObjectId

	// UpdateIndex
	IntIndex int

	// UpdateParent
	NewParent types.ObjectId
}

func UpdateDocumentName(name string) Command {
	return Command{Kind: CommandKindUpdateDocumentName, Name: name}
}

func CreateOval(pos Point, radiusH, radiusV float32, fill types.Color) Command {
	return Command{Kind: CommandKindCreateOval, Pos: pos, RadiusH: radiusH, RadiusV: radiusV, Fill: fill}
}

func CreateFrame(pos Point, width, height float32) Command {
	return Command{Kind: CommandKindCreateFrame, Pos: pos, Width: width, Height: height}
}

func UpdateName(id types.ObjectId, name string) Command {
	return Command{Kind: CommandKindUpdateName, ObjectId: id, Name: name}
}

func UpdatePosition(id types.ObjectId, pos Point) Command {
	return Command{Kind: CommandKindUpdatePosition, ObjectId: id, Pos: pos}
}

func DeleteObject(id types.ObjectId) Command {
	return Command{Kind: CommandKindDeleteObject, ObjectId: id}
}

func UpdateIndex(id types.ObjectId, intIndex int) Command {
	return Command{Kind: CommandKindUpdateIndex, ObjectId: id, IntIndex: intIndex}
}

func UpdateParent(id, newParent types.ObjectId) Command {
	return Command{Kind: CommandKindUpdateParent, ObjectId: id, NewParent: newParent}
}
