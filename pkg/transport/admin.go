package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cuemby/rcanvas/pkg/document"
	"github.com/cuemby/rcanvas/pkg/orchestrator"
	"github.com/cuemby/rcanvas/pkg/types"
)

const adminRequestTimeout = 5 * time.Second

type documentDescription struct {
	FileID        uuid.UUID `json:"file_id"`
	Online        bool      `json:"online"`
	Behavior      string    `json:"behavior,omitempty"`
	HasPendingTxs bool      `json:"has_pending_transactions,omitempty"`
	Debug         string    `json:"debug"`
}

func behaviorLabel(b types.SessionBehavior) string {
	if b == types.ManualCommitByAdmin {
		return "manual_commit_by_admin"
	}
	return "auto_terminate_when_empty"
}

// handleCreateDocument creates a new empty document and persists it
// immediately, so it exists in the registry before any client ever
// connects to it.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	fileID := uuid.New()
	if err := s.fileStore.Save(fileID, document.New()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, documentDescription{FileID: fileID, Debug: "created"})
}

// handleListDocuments lists every file id the registry has ever seen.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.fileStore.ListRecords()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out := make([]documentDescription, 0, len(recs))
	for _, rec := range recs {
		out = append(out, documentDescription{
			FileID:   rec.FileID,
			Behavior: behaviorLabel(rec.Behavior),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetDocument answers with the live session's state if one is open,
// or a debug summary of the persisted document otherwise.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		http.Error(w, "invalid file_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := timeoutCtx(r)
	defer cancel()

	desc, err := s.orch.GetSessionState(ctx, fileID)
	if errors.Is(err, orchestrator.ErrFileNotFound) {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, documentDescription{
		FileID:        fileID,
		Online:        desc.Kind == orchestrator.FileDescriptionKindOnline,
		Behavior:      behaviorLabel(desc.Behavior),
		HasPendingTxs: desc.HasPendingTxs,
		Debug:         desc.Debug,
	})
}

// handleOpenSession opens a ManualCommitByAdmin session for fileID, so
// its transactions queue until an admin explicitly commits them.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		http.Error(w, "invalid file_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := timeoutCtx(r)
	defer cancel()

	sessionID, err := s.orch.OpenManualCommitSession(ctx, fileID)
	if errors.Is(err, orchestrator.ErrSessionExists) {
		http.Error(w, "a session for this file is already open", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.fileStore.SetBehavior(fileID, types.ManualCommitByAdmin); err != nil {
		s.logger().Warn().Err(err).Str("file_id", fileID.String()).Msg("failed to record manual-commit behavior in registry")
	}
	writeJSON(w, http.StatusCreated, map[string]any{"session_id": sessionID})
}

// handleCloseSession terminates fileID's manual-commit session, persisting
// its document and disconnecting every remaining participant.
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		http.Error(w, "invalid file_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := timeoutCtx(r)
	defer cancel()

	if err := s.orch.CloseManualCommitSession(ctx, fileID); err != nil {
		if errors.Is(err, orchestrator.ErrFileNotFound) {
			http.Error(w, "no open session for this file", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommit commits the head of fileID's manual-commit queue.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(r.PathValue("file_id"))
	if err != nil {
		http.Error(w, "invalid file_id", http.StatusBadRequest)
		return
	}

	ctx, cancel := timeoutCtx(r)
	defer cancel()

	if err := s.orch.CommitManually(ctx, fileID); err != nil {
		if errors.Is(err, orchestrator.ErrFileNotFound) {
			http.Error(w, "no open session for this file", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func timeoutCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), adminRequestTimeout)
}
