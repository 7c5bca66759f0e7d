package kernel

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/follower"
	"github.com/cuemby/rcanvas/pkg/types"
)

// commandRequest is the JSON shape a host sends to PushDocumentCommand.
// kind names one of follower's CommandKind constructors; only the fields
// that constructor needs must be populated.
type commandRequest struct {
	Kind string `json:"kind"`

	Name string `json:"name,omitempty"`

	PosX float32 `json:"posX,omitempty"`
	PosY float32 `json:"posY,omitempty"`

	RadiusH float32      `json:"radiusH,omitempty"`
	RadiusV float32      `json:"radiusV,omitempty"`
	Fill    *types.Color `json:"fill,omitempty"`

	Width  float32 `json:"width,omitempty"`
	Height float32 `json:"height,omitempty"`

	ObjectId  string `json:"objectId,omitempty"`
	IntIndex  int    `json:"intIndex,omitempty"`
	NewParent string `json:"newParent,omitempty"`
}

func parseCommand(data []byte) (follower.Command, error) {
	var req commandRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return follower.Command{}, fmt.Errorf("kernel: decode command: %w", err)
	}

	switch req.Kind {
	case "updateDocumentName":
		return follower.UpdateDocumentName(req.Name), nil
	case "createOval":
		fill := types.Color{}
		if req.Fill != nil {
			fill = *req.Fill
		}
		return follower.CreateOval(follower.Point{X: req.PosX, Y: req.PosY}, req.RadiusH, req.RadiusV, fill), nil
	case "createFrame":
		return follower.CreateFrame(follower.Point{X: req.PosX, Y: req.PosY}, req.Width, req.Height), nil
	case "updateName":
		id, err := uuid.Parse(req.ObjectId)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid objectId: %w", err)
		}
		return follower.UpdateName(id, req.Name), nil
	case "updatePosition":
		id, err := uuid.Parse(req.ObjectId)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid objectId: %w", err)
		}
		return follower.UpdatePosition(id, follower.Point{X: req.PosX, Y: req.PosY}), nil
	case "deleteObject":
		id, err := uuid.Parse(req.ObjectId)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid objectId: %w", err)
		}
		return follower.DeleteObject(id), nil
	case "updateIndex":
		id, err := uuid.Parse(req.ObjectId)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid objectId: %w", err)
		}
		return follower.UpdateIndex(id, req.IntIndex), nil
	case "updateParent":
		id, err := uuid.Parse(req.ObjectId)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid objectId: %w", err)
		}
		newParent, err := uuid.Parse(req.NewParent)
		if err != nil {
			return follower.Command{}, fmt.Errorf("kernel: invalid newParent: %w", err)
		}
		return follower.UpdateParent(id, newParent), nil
	default:
		return follower.Command{}, fmt.Errorf("kernel: unknown command kind %q", req.Kind)
	}
}
